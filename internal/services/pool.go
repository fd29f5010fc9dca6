package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
	"alfredoptarigan/resume-matcher/internal/extraction"
	"alfredoptarigan/resume-matcher/internal/logger"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

// UploadedFile is a resume received from a client or read from disk.
type UploadedFile struct {
	Name    string
	Content []byte
}

// PoolService manages resumes that are uploaded once and matched many times.
// Only documents are kept; job descriptions and rankings never are.
type PoolService interface {
	Add(ctx context.Context, files []UploadedFile) ([]models.Document, error)
	List() ([]models.Document, error)
	Delete(id uuid.UUID) error
	Open(id uuid.UUID) (*models.Document, []byte, error)
	Candidates(ids []uuid.UUID) ([]Candidate, error)
}

type poolService struct {
	docRepo        repositories.DocumentRepository
	storageService StorageService
	extractor      extraction.Extractor
	opts           MatcherOptions
	log            *zap.Logger
}

func NewPoolService(
	docRepo repositories.DocumentRepository,
	storageService StorageService,
	extractor extraction.Extractor,
	opts MatcherOptions,
	log *zap.Logger,
) PoolService {
	return &poolService{
		docRepo:        docRepo,
		storageService: storageService,
		extractor:      extractor,
		opts:           opts,
		log:            log,
	}
}

// Add stores and extracts every file. A file that cannot be extracted is
// still pooled with its extraction error recorded. If any file cannot be
// stored the whole call is rolled back.
func (p *poolService) Add(ctx context.Context, files []UploadedFile) ([]models.Document, error) {
	if len(files) == 0 {
		return nil, apperrors.NewInvalidInputError("resumes", "at least one resume is required")
	}

	docs := make([]extraction.Document, len(files))
	for i, f := range files {
		docs[i] = extraction.NewDocument(f.Name, f.Content)
	}

	batch := extraction.ExtractAll(ctx, p.extractor, docs, extraction.BatchOptions{
		Concurrency: p.opts.ExtractConcurrency,
		Timeout:     p.opts.ExtractTimeout,
	})

	failures := batch.FailureIndex()

	created := make([]models.Document, 0, len(files))
	for i, f := range files {
		filename, _, err := p.storageService.Save(f.Name, bytes.NewReader(f.Content), "resume")
		if err != nil {
			p.rollback(created)
			return nil, fmt.Errorf("failed to store %s: %w", f.Name, err)
		}

		now := time.Now()
		doc := models.Document{
			ID:               uuid.New(),
			Filename:         filename,
			OriginalFileName: f.Name,
			Format:           string(batch.Documents[i].Format),
			Size:             int64(len(f.Content)),
			Text:             batch.Documents[i].Text,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if failure, ok := failures[i]; ok {
			message := extractionMessage(failure)
			doc.ExtractionError = &message
			p.log.Warn("pooled resume without text",
				append(logger.Document(f.Name, doc.Format), zap.Error(failure))...)
		}

		if err := p.docRepo.Create(&doc); err != nil {
			// Cleanup uploaded file if database insert fails
			p.storageService.DeleteFile(filename)
			p.rollback(created)
			return nil, fmt.Errorf("failed to save resume record: %w", err)
		}

		created = append(created, doc)
	}

	p.log.Info("resumes pooled",
		zap.Int("documents", len(created)),
		zap.Int("extraction_failures", len(batch.Failures)),
	)

	return created, nil
}

func (p *poolService) List() ([]models.Document, error) {
	return p.docRepo.List()
}

// Delete removes the record first; a stored file left behind is only logged.
func (p *poolService) Delete(id uuid.UUID) error {
	doc, err := p.docRepo.FindByID(id)
	if err != nil {
		return err
	}

	if err := p.docRepo.Delete(id); err != nil {
		return err
	}

	if err := p.storageService.DeleteFile(doc.Filename); err != nil {
		p.log.Warn("stored file not removed", zap.String("filename", doc.Filename), zap.Error(err))
	}

	return nil
}

// Open returns a pooled resume together with its original file content.
func (p *poolService) Open(id uuid.UUID) (*models.Document, []byte, error) {
	doc, err := p.docRepo.FindByID(id)
	if err != nil {
		return nil, nil, err
	}

	content, err := p.storageService.Read(doc.Filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open resume %s: %w", id, err)
	}
	return doc, content, nil
}

// Candidates loads pooled resumes as already-extracted match candidates,
// in the order of ids.
func (p *poolService) Candidates(ids []uuid.UUID) ([]Candidate, error) {
	docs, err := p.docRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(docs))
	for i, doc := range docs {
		id := doc.ID.String()
		candidates[i] = Candidate{
			Document: extraction.Document{
				ID:     id,
				Format: extraction.ParseFormat(doc.Format),
				Text:   doc.Text,
			},
			Name:      doc.OriginalFileName,
			Extracted: true,
		}
		if doc.ExtractionError != nil {
			candidates[i].Err = apperrors.NewDocumentExtractionError(id, errors.New(*doc.ExtractionError))
		}
	}

	return candidates, nil
}

func (p *poolService) rollback(docs []models.Document) {
	for _, doc := range docs {
		if err := p.docRepo.Delete(doc.ID); err != nil {
			p.log.Warn("rollback failed", zap.String("id", doc.ID.String()), zap.Error(err))
		}
		p.storageService.DeleteFile(doc.Filename)
	}
}

func extractionMessage(err *apperrors.DocumentExtractionError) string {
	if err.Cause != nil {
		return err.Cause.Error()
	}
	return err.Error()
}
