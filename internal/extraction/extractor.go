// Package extraction turns uploaded resume files into plain text.
package extraction

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
)

// Format is the document kind derived from the file name.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOC     Format = "doc"
	FormatTXT     Format = "txt"
	FormatUnknown Format = "unknown"
)

// Document is one candidate file. Text is filled after extraction and stays
// empty when extraction fails or the format is unknown.
type Document struct {
	ID      string
	Format  Format
	Content []byte
	Text    string
}

// NewDocument classifies the format from the identifier's extension.
func NewDocument(id string, content []byte) Document {
	return Document{
		ID:      id,
		Format:  ClassifyFormat(id),
		Content: content,
	}
}

// ClassifyFormat maps a file name to a Format by extension, case-insensitive.
func ClassifyFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".doc", ".docx":
		return FormatDOC
	case ".txt":
		return FormatTXT
	default:
		return FormatUnknown
	}
}

// ParseFormat accepts a declared format hint such as "pdf" or ".PDF".
func ParseFormat(hint string) Format {
	switch Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(hint)), ".")) {
	case FormatPDF:
		return FormatPDF
	case FormatDOC, "docx":
		return FormatDOC
	case FormatTXT:
		return FormatTXT
	default:
		return FormatUnknown
	}
}

type Extractor interface {
	Extract(doc Document) (string, error)
}

type extractor struct{}

func NewExtractor() Extractor {
	return &extractor{}
}

// Extract implements Extractor.
// Unknown formats yield empty text and no error; a recognized format whose
// content cannot be read yields a DocumentExtractionError.
func (e *extractor) Extract(doc Document) (string, error) {
	var (
		text string
		err  error
	)

	switch doc.Format {
	case FormatPDF:
		text, err = extractPDF(doc.Content)
	case FormatDOC:
		text, err = extractDOC(doc.Content)
	case FormatTXT:
		text, err = extractTXT(doc.Content)
	default:
		return "", nil
	}

	if err != nil {
		return "", apperrors.NewDocumentExtractionError(doc.ID, err)
	}

	return text, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	cleanedLines := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}

func errUnsupported(kind string) error {
	return fmt.Errorf("unsupported %s content", kind)
}
