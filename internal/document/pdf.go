package document

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/go-pdf/fpdf"
)

// PageWriter assembles page images into a paginated artifact
type PageWriter interface {
	WritePages(pages []image.Image) ([]byte, error)
	ContentType() string
}

// PDFWriter places each page image at full A4 width on its own PDF page
type PDFWriter struct{}

func (PDFWriter) ContentType() string { return "application/pdf" }

// WritePages emits one PDF page per image. Images shorter than a page are
// placed at the top at their proportional height.
func (PDFWriter) WritePages(pages []image.Image) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to write")
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	for i, page := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, page); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}

		name := fmt.Sprintf("page-%d", i+1)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		doc.RegisterImageOptionsReader(name, opts, &buf)

		b := page.Bounds()
		height := float64(b.Dy()) * PageWidthMM / float64(b.Dx())

		doc.AddPage()
		doc.ImageOptions(name, 0, 0, PageWidthMM, height, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return out.Bytes(), nil
}
