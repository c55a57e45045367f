package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/akeil/sntool"
	"github.com/akeil/sntool/internal/fs"
	"github.com/akeil/sntool/pkg/render"
)

func doExport(s settings, paths []string, outDir, format string, opts render.Options) error {
	return forEach(s, paths, func(path string) error {
		n, err := readNotebook(s, path)
		if err != nil {
			fmt.Printf("%v %v: %v\n", crossmark, path, err)
			return err
		}

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		switch format {
		case "png":
			err = exportPNG(n, filepath.Join(outDir, base), opts)
		default:
			err = exportPDF(n, filepath.Join(outDir, base+".pdf"), opts)
		}
		if err != nil {
			fmt.Printf("%v %v: %v\n", crossmark, path, err)
			return err
		}
		fmt.Printf("%v %v exported, %d pages.\n", checkmark, path, len(n.Pages))
		return nil
	})
}

func exportPDF(n *sntool.Notebook, dst string, opts render.Options) error {
	return fs.WriteFile(dst, func(w io.Writer) error {
		return render.PDF(n, w, opts)
	})
}

// exportPNG writes one file per page, numbered from 1.
func exportPNG(n *sntool.Notebook, prefix string, opts render.Options) error {
	for _, p := range n.Pages {
		dst := fmt.Sprintf("%v_%03d.png", prefix, p.Index+1)
		err := fs.WriteFile(dst, func(w io.Writer) error {
			return render.PNG(p, w, opts)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
