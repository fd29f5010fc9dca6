package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the matching pipeline
var (
	// ErrInvalidInput is returned when a match request is malformed (empty query, no candidates, bad k)
	ErrInvalidInput = errors.New("invalid input")

	// ErrDocumentExtraction is returned when a single document cannot be turned into text
	ErrDocumentExtraction = errors.New("document extraction failed")

	// ErrEmptyVocabulary is returned when the query and candidates yield no usable terms
	ErrEmptyVocabulary = errors.New("empty vocabulary")

	// ErrDocumentNotFound is returned when a pooled resume id does not exist
	ErrDocumentNotFound = errors.New("document not found")
)

// InvalidInputError represents caller misuse with the offending field
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInvalidInputError creates a new InvalidInputError
func NewInvalidInputError(field, message string) *InvalidInputError {
	return &InvalidInputError{Field: field, Message: message}
}

// DocumentExtractionError carries the identifier of the document that could not be read
type DocumentExtractionError struct {
	DocumentID string
	Cause      error
}

func (e *DocumentExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract text from document '%s': %v", e.DocumentID, e.Cause)
	}
	return fmt.Sprintf("failed to extract text from document '%s'", e.DocumentID)
}

func (e *DocumentExtractionError) Is(target error) bool {
	return target == ErrDocumentExtraction
}

func (e *DocumentExtractionError) Unwrap() error {
	return e.Cause
}

// NewDocumentExtractionError creates a new DocumentExtractionError
func NewDocumentExtractionError(documentID string, cause error) *DocumentExtractionError {
	return &DocumentExtractionError{DocumentID: documentID, Cause: cause}
}

// EmptyVocabularyError is returned when every text is empty or made of stop words only
type EmptyVocabularyError struct {
	Documents int
}

func (e *EmptyVocabularyError) Error() string {
	return fmt.Sprintf("no terms left to compare across %d documents", e.Documents)
}

func (e *EmptyVocabularyError) Is(target error) bool {
	return target == ErrEmptyVocabulary
}

// NewEmptyVocabularyError creates a new EmptyVocabularyError
func NewEmptyVocabularyError(documents int) *EmptyVocabularyError {
	return &EmptyVocabularyError{Documents: documents}
}
