package render

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/akeil/sntool"
	"github.com/akeil/sntool/internal/logging"
)

// pageWidth is the width of portrait pages in points (A5).
const pageWidth = 419.53

// PDF renders every page of the notebook into one PDF document.
func PDF(n *sntool.Notebook, w io.Writer, opts Options) error {
	logging.Debug("Render PDF for %v %q", n.Kind, n.Header.FileID)
	pdf := setupPDF(n)

	for _, p := range n.Pages {
		err := renderPDFPage(pdf, p, opts)
		if err != nil {
			return err
		}
	}

	return dontPanic(func() error { return pdf.Output(w) })
}

// PDFPage renders a single page as a PDF document.
func PDFPage(p *sntool.Page, w io.Writer, opts Options) error {
	pdf := setupPDF(nil)

	err := renderPDFPage(pdf, p, opts)
	if err != nil {
		return err
	}

	return dontPanic(func() error { return pdf.Output(w) })
}

func setupPDF(n *sntool.Notebook) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P", // [P]ortrait or [L]andscape
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageWidth, Ht: pageWidth * 4 / 3},
	})

	pdf.SetMargins(0, 0, 0) // left, top, right
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("{totalPages}")
	pdf.SetFont("helvetica", "", 6)
	pdf.SetTextColor(127, 127, 127)
	pdf.SetProducer("sntool", true)

	// If we are rendering a complete notebook, add metadata
	if n != nil {
		pdf.SetTitle(n.Header.FileID, true)
		pdf.SetSubject(fmt.Sprintf("%v (%v)", n.Kind, n.Signature), true)

		pdf.SetFooterFunc(func() {
			_, h := pdf.GetPageSize()
			pdf.SetXY(12, h-14)
			pdf.Cellf(0, 10, "%d / {totalPages}", pdf.PageNo())
		})
	}

	return pdf
}

func renderPDFPage(pdf *gofpdf.Fpdf, p *sntool.Page, opts Options) error {
	img, err := pageImage(p, opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = png.Encode(&buf, img)
	if err != nil {
		return err
	}

	b := img.Bounds()
	orientation := "P"
	size := gofpdf.SizeType{Wd: pageWidth, Ht: pageWidth * float64(b.Dy()) / float64(b.Dx())}
	if b.Dx() > b.Dy() {
		// gofpdf swaps width and height for landscape pages
		orientation = "L"
		size = gofpdf.SizeType{Wd: pageWidth, Ht: pageWidth * float64(b.Dx()) / float64(b.Dy())}
	}
	pdf.AddPageFormat(orientation, size)

	name := uuid.New().String()
	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, imgOpts, &buf)

	// The image fills the whole page
	w, h := pdf.GetPageSize()
	x := 0.0
	y := 0.0
	flow := false
	link := 0
	linkStr := ""
	pdf.ImageOptions(name, x, y, w, h, flow, imgOpts, link, linkStr)

	return pdf.Error()
}

// dontPanic runs f and returns a panic raised by f as an error.
func dontPanic(f func() error) (err error) {
	defer func() {
		if x := recover(); x != nil {
			logging.Warning("Panic occured (recovered): %v", x)
			err = fmt.Errorf("recovered from: %v", x)
		}
	}()
	return f()
}
