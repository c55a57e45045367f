package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/akeil/sntool"
	"github.com/akeil/sntool/internal/fs"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

type createOptions struct {
	style  string
	grays  bool
	inkDir string
}

func doCreate(s settings, out string, images []string, o createOptions) error {
	c := sntool.NotebookContent{
		Profile: s.profile,
		Policy:  sntool.DecomposePolicy{Grays: o.grays, StyleName: o.style},
	}

	if len(images) == 0 {
		c.Pages = []sntool.PageContent{{}}
	}
	for _, path := range images {
		pc, err := imagePage(path, o)
		if err != nil {
			fmt.Printf("%v %v: %v\n", crossmark, path, err)
			return err
		}
		c.Pages = append(c.Pages, pc)
	}

	fmt.Printf("Create %v with %d pages%v\n", out, len(c.Pages), ellipsis)
	data, err := sntool.Create(c)
	if err != nil {
		return err
	}
	err = fs.WriteFile(out, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Printf("%v notebook saved as %q.\n", checkmark, out)
	return nil
}

// imagePage turns one image into a page background. Images wider than
// they are high give landscape pages.
func imagePage(path string, o createOptions) (sntool.PageContent, error) {
	var pc sntool.PageContent
	data, err := os.ReadFile(path)
	if err != nil {
		return pc, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return pc, err
	}
	pc.Landscape = cfg.Width > cfg.Height

	if bytes.HasPrefix(data, pngMagic) {
		pc.BackgroundPNG = data
	} else {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return pc, err
		}
		pc.Background = img
	}

	if o.inkDir != "" {
		pc.Ink, err = findInk(o.inkDir, path)
		if err != nil {
			return pc, err
		}
	}
	return pc, nil
}

// findInk looks for an image with the same base name in dir.
// Returns nil if there is none.
func findInk(dir, path string) (image.Image, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	matches, err := filepath.Glob(filepath.Join(dir, base+".*"))
	if err != nil || len(matches) == 0 {
		return nil, err
	}

	f, err := os.Open(matches[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("ink image %v: %w", matches[0], err)
	}
	return img, nil
}
