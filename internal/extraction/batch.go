package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
)

// BatchOptions bounds a batch extraction.
type BatchOptions struct {
	// Concurrency is the number of documents extracted at once; values below 1 mean 1.
	Concurrency int
	// Timeout applies to each document separately; zero disables it.
	Timeout time.Duration
}

// Failure records a document that could not be extracted.
type Failure struct {
	Index int
	Err   *apperrors.DocumentExtractionError
}

// Batch holds extracted documents in input order and the failures among them.
type Batch struct {
	Documents []Document
	Failures  []Failure
}

// FailureIndex maps the input position of every failed document to its error.
func (b *Batch) FailureIndex() map[int]*apperrors.DocumentExtractionError {
	failed := make(map[int]*apperrors.DocumentExtractionError, len(b.Failures))
	for _, f := range b.Failures {
		failed[f.Index] = f.Err
	}
	return failed
}

// ExtractAll extracts every document independently. A failing, slow or cancelled
// document only produces a Failure for itself; the batch as a whole never errors.
func ExtractAll(ctx context.Context, ex Extractor, docs []Document, opts BatchOptions) *Batch {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Document, len(docs))
	errs := make([]*apperrors.DocumentExtractionError, len(docs))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i := range docs {
		i := i
		g.Go(func() error {
			doc := docs[i]
			text, err := extractOne(ctx, ex, doc, opts.Timeout)
			if err != nil {
				errs[i] = asExtractionError(doc.ID, err)
				doc.Text = ""
			} else {
				doc.Text = text
			}
			results[i] = doc
			return nil
		})
	}

	// Goroutines never return errors
	_ = g.Wait()

	batch := &Batch{Documents: results}
	for i, err := range errs {
		if err != nil {
			batch.Failures = append(batch.Failures, Failure{Index: i, Err: err})
		}
	}
	return batch
}

type extractResult struct {
	text string
	err  error
}

func extractOne(ctx context.Context, ex Extractor, doc Document, timeout time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Parsers are not context aware, so run them aside and stop waiting on cancel
	done := make(chan extractResult, 1)
	go func() {
		text, err := ex.Extract(doc)
		done <- extractResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("extraction interrupted: %w", ctx.Err())
	case res := <-done:
		return res.text, res.err
	}
}

func asExtractionError(docID string, err error) *apperrors.DocumentExtractionError {
	var extractionErr *apperrors.DocumentExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr
	}
	return apperrors.NewDocumentExtractionError(docID, err)
}
