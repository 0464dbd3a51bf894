package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jung-kurt/gofpdf"
)

// buildPDF captures the preview and places it on a single A4 page at full
// width. Content taller than one page is not split.
func (p *Pipeline) buildPDF(ctx context.Context, html string) ([]byte, error) {
	if !hasPreview(html) {
		return nil, &ExportError{Format: FormatPDF, Alert: AlertPDFNoContent, Cause: ErrNoContent}
	}
	if p.raster == nil {
		return nil, fmt.Errorf("no rasterizer configured")
	}
	img, err := p.raster.Capture(ctx, html, PreviewSelector)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return imageToPDF(img)
}

func imageToPDF(img []byte) ([]byte, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode capture: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("empty capture %dx%d", cfg.Width, cfg.Height)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	h := float64(cfg.Height) * pageW / float64(cfg.Width)

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("resume", opt, bytes.NewReader(img))
	pdf.ImageOptions("resume", 0, 0, pageW, h, false, opt, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}

func hasPreview(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find(PreviewSelector).Length() > 0
}
