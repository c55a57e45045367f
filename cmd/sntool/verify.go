package main

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/akeil/sntool"
	"github.com/akeil/sntool/pkg/note"
)

func doVerify(s settings, paths []string) error {
	var failed atomic.Int32
	err := forEach(s, paths, func(path string) error {
		n, err := readNotebook(s, path)
		if err != nil {
			fmt.Printf("%v %v: %v\n", crossmark, path, err)
			return err
		}

		issues, err := verify(n)
		if err != nil {
			fmt.Printf("%v %v: %v\n", crossmark, path, err)
			return err
		}
		if len(issues) > 0 {
			msg := fmt.Sprintf("%v %v: %d differences\n", crossmark, path, len(issues))
			for _, i := range issues {
				msg += "    " + i + "\n"
			}
			fmt.Print(msg)
			failed.Add(1)
			return nil
		}
		fmt.Printf("%v %v round trips with %d pages.\n", checkmark, path, len(n.Pages))
		return nil
	})
	if err != nil {
		return err
	}
	if f := failed.Load(); f > 0 {
		return fmt.Errorf("%d of %d files differ after rewrite", f, len(paths))
	}
	return nil
}

// verify writes the notebook again and compares the pages of both versions.
func verify(n *sntool.Notebook) ([]string, error) {
	c, err := n.Content()
	if err != nil {
		return nil, err
	}
	data, err := sntool.Create(c)
	if err != nil {
		return nil, err
	}
	again, err := sntool.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse rewritten: %w", err)
	}

	var issues []string
	if n.Header.FileID != again.Header.FileID {
		issues = append(issues, fmt.Sprintf("file id %q, rewritten %q", n.Header.FileID, again.Header.FileID))
	}
	if len(n.Pages) != len(again.Pages) {
		issues = append(issues, fmt.Sprintf("%d pages, rewritten %d", len(n.Pages), len(again.Pages)))
		return issues, nil
	}

	for i, p := range n.Pages {
		a, err := pageDigest(p)
		if err != nil {
			return nil, err
		}
		b, err := pageDigest(again.Pages[i])
		if err != nil {
			return nil, err
		}
		for _, d := range a.diff(b) {
			issues = append(issues, fmt.Sprintf("page %d: %v", i+1, d))
		}
	}
	return issues, nil
}

// digest summarizes what a rewrite must keep for one page.
type digest struct {
	id        string
	style     string
	styleHash string
	landscape bool
	layerInfo string
	layers    map[string]uint64
	opaque    map[string]uint64
}

func pageDigest(p *sntool.Page) (*digest, error) {
	d := &digest{
		id:        p.ID,
		style:     p.Style,
		styleHash: p.StyleHash,
		landscape: p.Landscape(),
		layerInfo: fmt.Sprintf("%+v", p.LayerInfo),
		layers:    make(map[string]uint64),
		opaque:    make(map[string]uint64),
	}

	for _, l := range p.Layers() {
		if l.Vector != nil {
			d.opaque[l.Slot+"/"+note.KeyLayerVector] = xxhash.Sum64(l.Vector)
		}
		if l.Recogn != nil {
			d.opaque[l.Slot+"/"+note.KeyLayerRecogn] = xxhash.Sum64(l.Recogn)
		}
		if l.IsPNG() {
			raw, err := l.Raw()
			if err != nil {
				return nil, err
			}
			d.layers[l.Slot] = xxhash.Sum64(raw)
			continue
		}
		// compare pixels, the rewrite may split runs differently
		bm, err := l.Bitmap()
		if err != nil {
			return nil, err
		}
		d.layers[l.Slot] = xxhash.Sum64(bm.Pix)
	}
	for k, data := range p.Opaque {
		d.opaque[k] = xxhash.Sum64(data)
	}
	return d, nil
}

func (d *digest) diff(o *digest) []string {
	var out []string
	check := func(what string, a, b interface{}) {
		if a != b {
			out = append(out, fmt.Sprintf("%v %v, rewritten %v", what, a, b))
		}
	}
	check("id", d.id, o.id)
	check("style", d.style, o.style)
	check("style hash", d.styleHash, o.styleHash)
	check("landscape", d.landscape, o.landscape)
	check("layer info", d.layerInfo, o.layerInfo)
	if !reflect.DeepEqual(d.layers, o.layers) {
		out = append(out, fmt.Sprintf("layer content differs: %x, rewritten %x", d.layers, o.layers))
	}
	if !reflect.DeepEqual(d.opaque, o.opaque) {
		out = append(out, fmt.Sprintf("opaque blocks differ: %x, rewritten %x", d.opaque, o.opaque))
	}
	return out
}
