package extraction

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF concatenates the text of every page in order, one line break between pages.
// Pages without extractable text contribute an empty segment.
func extractPDF(content []byte) (text string, err error) {
	// The parser panics on some malformed object streams outside any page
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	totalPage := r.NumPage()
	pages := make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText(page))
	}

	return strings.Join(pages, "\n"), nil
}

type plainTextPage interface {
	GetPlainText(fonts map[string]*pdf.Font) (string, error)
}

// pageText returns "" for a page that errors or panics, so one bad page
// does not fail the rest of the document.
func pageText(page plainTextPage) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	raw, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return CleanText(raw)
}
