package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
	"alfredoptarigan/resume-matcher/internal/extraction"
	"alfredoptarigan/resume-matcher/internal/logger"
	"alfredoptarigan/resume-matcher/internal/ranking"
	"alfredoptarigan/resume-matcher/internal/tfidf"
)

// What to do when a candidate cannot be extracted.
const (
	OnErrorSkip  = "skip"
	OnErrorAbort = "abort"
)

// Candidate is one resume to rank. Uploaded files carry Content and are
// extracted during the match; pooled resumes arrive with Extracted set and
// their text, or extraction failure, already known.
type Candidate struct {
	extraction.Document
	// Name is a display label; it defaults to the document ID.
	Name      string
	Extracted bool
	Err       *apperrors.DocumentExtractionError
}

type MatchRequest struct {
	JobDescription    string      `json:"job_description" validate:"notblank"`
	Candidates        []Candidate `json:"resumes" validate:"min=1"`
	TopK              int         `json:"top_k" validate:"min=1,max=50"`
	OnExtractionError string      `json:"on_error" validate:"omitempty,oneof=skip abort"`
}

type Match struct {
	ID    string
	Name  string
	Score float64
}

type MatchResult struct {
	Matches  []Match
	Failures []*apperrors.DocumentExtractionError
	// Ranked is the number of candidates that took part in ranking.
	Ranked int
}

type MatcherService interface {
	Match(ctx context.Context, req MatchRequest) (*MatchResult, error)
}

type MatcherOptions struct {
	ExtractConcurrency int
	ExtractTimeout     time.Duration
}

type matcherService struct {
	extractor  extraction.Extractor
	vectorizer *tfidf.Vectorizer
	validate   *validator.Validate
	opts       MatcherOptions
	log        *zap.Logger
}

func NewMatcherService(
	extractor extraction.Extractor,
	vectorizer *tfidf.Vectorizer,
	opts MatcherOptions,
	log *zap.Logger,
) MatcherService {
	return &matcherService{
		extractor:  extractor,
		vectorizer: vectorizer,
		validate:   newRequestValidator(),
		opts:       opts,
		log:        log,
	}
}

// Match extracts the candidates, builds one TF-IDF space over the job
// description and every usable candidate, and returns the top matches.
//
// With the abort policy the first failing candidate, in input order, is
// returned as a *DocumentExtractionError. On ErrEmptyVocabulary the result is
// returned alongside the error so callers can still report failures.
func (m *matcherService) Match(ctx context.Context, req MatchRequest) (*MatchResult, error) {
	if err := m.validateRequest(req); err != nil {
		return nil, err
	}

	candidates := m.extract(ctx, req.Candidates)

	result := &MatchResult{Matches: []Match{}}
	usable := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Err != nil {
			if req.OnExtractionError == OnErrorAbort {
				m.log.Warn("aborting match on extraction failure",
					append(logger.Document(c.ID, string(c.Format)), zap.Error(c.Err))...)
				return nil, c.Err
			}
			m.log.Warn("skipping candidate",
				append(logger.Document(c.ID, string(c.Format)), zap.Error(c.Err))...)
			result.Failures = append(result.Failures, c.Err)
			continue
		}
		usable = append(usable, c)
	}

	if len(usable) == 0 {
		m.log.Info("no candidates left to rank", zap.Int("failures", len(result.Failures)))
		return result, nil
	}

	texts := make([]string, len(usable))
	for i, c := range usable {
		texts[i] = c.Text
	}

	query, vectors, err := m.vectorizer.Vectorize(req.JobDescription, texts)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmptyVocabulary) {
			return result, err
		}
		return nil, fmt.Errorf("failed to vectorize documents: %w", err)
	}

	ranked, err := ranking.Rank(query, vectors, req.TopK)
	if err != nil {
		return nil, fmt.Errorf("failed to rank candidates: %w", err)
	}

	result.Ranked = len(usable)
	for _, r := range ranked {
		c := usable[r.Index]
		result.Matches = append(result.Matches, Match{ID: c.ID, Name: c.Name, Score: r.Score})
	}

	m.log.Info("match completed",
		zap.String("job_description", logger.Preview(req.JobDescription, 80)),
		zap.Int("candidates", len(req.Candidates)),
		zap.Int("ranked", result.Ranked),
		zap.Int("failures", len(result.Failures)),
		zap.Int("dimension", len(query)),
	)

	return result, nil
}

// extract fills in text for every candidate that still needs it, leaving
// input order untouched.
func (m *matcherService) extract(ctx context.Context, candidates []Candidate) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)

	pending := make([]extraction.Document, 0, len(out))
	positions := make([]int, 0, len(out))
	for i := range out {
		if out[i].Name == "" {
			out[i].Name = out[i].ID
		}
		if out[i].Extracted {
			continue
		}
		pending = append(pending, out[i].Document)
		positions = append(positions, i)
	}

	if len(pending) == 0 {
		return out
	}

	start := time.Now()
	batch := extraction.ExtractAll(ctx, m.extractor, pending, extraction.BatchOptions{
		Concurrency: m.opts.ExtractConcurrency,
		Timeout:     m.opts.ExtractTimeout,
	})

	for i, doc := range batch.Documents {
		out[positions[i]].Document = doc
		out[positions[i]].Extracted = true
	}
	for _, f := range batch.Failures {
		out[positions[f.Index]].Err = f.Err
	}

	m.log.Debug("extracted candidates",
		zap.Int("documents", len(pending)),
		zap.Int("failures", len(batch.Failures)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return out
}

func (m *matcherService) validateRequest(req MatchRequest) error {
	if err := m.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return toInvalidInput(validationErrors[0])
		}
		return apperrors.NewInvalidInputError("", err.Error())
	}
	return nil
}

func newRequestValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validation: %v", err))
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func toInvalidInput(fe validator.FieldError) *apperrors.InvalidInputError {
	var message string
	switch fe.Tag() {
	case "notblank", "required":
		message = "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			message = "at least one resume is required"
		} else {
			message = fmt.Sprintf("must be at least %s", fe.Param())
		}
	case "max":
		message = fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		message = fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		message = fmt.Sprintf("failed on '%s'", fe.Tag())
	}
	return apperrors.NewInvalidInputError(fe.Field(), message)
}
