// Package extract turns raw sources (PDF bytes, YouTube URLs, pasted text)
// into plain text ready for chunking.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts the plain text of a PDF document. Pages that cannot be
// decoded are skipped; the document fails only when no page yields text.
func PDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var builder strings.Builder
	pages := 0
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n")
		pages++
	}

	if pages == 0 {
		return "", fmt.Errorf("no extractable text in pdf (%d pages)", reader.NumPage())
	}

	return builder.String(), nil
}
