package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/akeil/sntool"
)

func doInfo(s settings, paths []string) error {
	return forEach(s, paths, func(path string) error {
		n, err := readNotebook(s, path)
		if err != nil {
			return err
		}
		// one write per file so that parallel output does not interleave
		fmt.Print(describe(path, n))
		return nil
	})
}

func describe(path string, n *sntool.Notebook) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v\n", path)
	fmt.Fprintf(&b, "  %v, %v (%v, %dx%d)\n", n.Kind, n.Signature, n.Profile.Name, n.Profile.Width, n.Profile.Height)
	fmt.Fprintf(&b, "  file id: %v\n", n.Header.FileID)
	for _, w := range n.Warnings {
		fmt.Fprintf(&b, "  warning: %v\n", w)
	}

	fmt.Fprintf(&b, "  %d pages, %d styles", len(n.Pages), len(n.Styles))
	if n.Cover != nil {
		b.WriteString(", cover")
	}
	if len(n.Keywords)+len(n.Titles)+len(n.Links) > 0 {
		fmt.Fprintf(&b, ", %d keywords, %d titles, %d links", len(n.Keywords), len(n.Titles), len(n.Links))
	}
	b.WriteString("\n")

	for _, st := range n.Styles {
		fmt.Fprintf(&b, "  style %v %v (%d bytes)\n", st.Name, st.Hash, len(st.Data))
	}

	for _, p := range n.Pages {
		orientation := "portrait"
		if p.Landscape() {
			orientation = "landscape"
		}
		fmt.Fprintf(&b, "  - page %d %v, %v, style %v\n", p.Index+1, p.ID, orientation, p.Style)
		for _, l := range p.Layers() {
			content := "empty"
			switch {
			case l.BitmapAddress == 0:
			case l.IsPNG():
				content = "png"
			default:
				content = l.Protocol
			}
			fmt.Fprintf(&b, "      %-12v %v\n", l.Slot, content)
		}
		keys := make([]string, 0, len(p.Opaque))
		for key := range p.Opaque {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "      %-12v %d bytes\n", key, len(p.Opaque[key]))
		}
	}
	return b.String()
}
