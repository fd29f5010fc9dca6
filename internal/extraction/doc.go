package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}

	headerPartRegex = regexp.MustCompile(`^word/header\d*\.xml$`)
	footerPartRegex = regexp.MustCompile(`^word/footer\d*\.xml$`)
)

// extractDOC sniffs the content: OOXML packages and HTML exports are supported,
// legacy binary Word files are not.
func extractDOC(content []byte) (string, error) {
	switch {
	case bytes.HasPrefix(content, zipMagic):
		return extractDOCX(content)
	case bytes.HasPrefix(content, oleMagic):
		return "", errors.New("legacy binary Word format is not supported")
	case looksLikeMarkup(content):
		return extractWordHTML(content)
	default:
		return "", errUnsupported("DOC")
	}
}

// extractDOCX reads headers, the main document and footers, in that order.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX package: %w", err)
	}

	var (
		body    *zip.File
		headers []*zip.File
		footers []*zip.File
	)
	for _, f := range zr.File {
		switch {
		case f.Name == "word/document.xml":
			body = f
		case headerPartRegex.MatchString(f.Name):
			headers = append(headers, f)
		case footerPartRegex.MatchString(f.Name):
			footers = append(footers, f)
		}
	}

	if body == nil {
		return "", errors.New("no word/document.xml found in DOCX package")
	}

	byName := func(files []*zip.File) {
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	}
	byName(headers)
	byName(footers)

	parts := make([]*zip.File, 0, len(headers)+len(footers)+1)
	parts = append(parts, headers...)
	parts = append(parts, body)
	parts = append(parts, footers...)

	var sections []string
	for _, part := range parts {
		text, err := readWordPart(part)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", part.Name, err)
		}
		if text = CleanText(text); text != "" {
			sections = append(sections, text)
		}
	}

	return strings.Join(sections, "\n"), nil
}

func readWordPart(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return wordMLText(rc)
}

// wordMLText keeps w:t runs and maps tabs, breaks and paragraph ends to whitespace.
func wordMLText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed WordprocessingML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}

// extractWordHTML handles "Save as Web Page" and Word 2003 XML exports renamed to .doc.
func extractWordHTML(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML document: %w", err)
	}

	doc.Find("script, style, head").Remove()

	// Block elements end a line so words from adjacent paragraphs never merge
	doc.Find("p, div, br, li, tr, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return CleanText(doc.Text()), nil
}

func looksLikeMarkup(content []byte) bool {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(content, utf8BOM), " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '<'
}
