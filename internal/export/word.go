package export

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	wordBOM    = "\ufeff"
	wordPrefix = "<html xmlns:o='urn:schemas-microsoft-com:office:office' xmlns:w='urn:schemas-microsoft-com:office:word' xmlns='http://www.w3.org/TR/REC-html40'><head><meta charset='utf-8'><title>Resume</title>"
	wordSuffix = "</body></html>"
)

// buildWord wraps the preview markup in the Office HTML envelope. Style
// blocks from the rendered page are carried into the envelope head.
func buildWord(html string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse preview: %w", err)
	}
	sel := doc.Find(PreviewSelector).First()
	if sel.Length() == 0 {
		return nil, &ExportError{Format: FormatWord, Alert: AlertWordNoContent, Cause: ErrNoContent}
	}
	inner, err := sel.Html()
	if err != nil {
		return nil, fmt.Errorf("extract preview: %w", err)
	}

	var b strings.Builder
	b.WriteString(wordBOM)
	b.WriteString(wordPrefix)
	doc.Find("head style").Each(func(_ int, s *goquery.Selection) {
		b.WriteString("<style>")
		b.WriteString(s.Text())
		b.WriteString("</style>")
	})
	b.WriteString("</head><body>")
	b.WriteString(inner)
	b.WriteString(wordSuffix)
	return []byte(b.String()), nil
}
