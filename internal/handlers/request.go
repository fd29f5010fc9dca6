package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
	"alfredoptarigan/resume-matcher/internal/extraction"
	"alfredoptarigan/resume-matcher/internal/services"
)

// Form field names shared by the JSON API and the HTML form.
const (
	fieldJobDescription = "job_description"
	fieldResumes        = "resumes"
	fieldResumeIDs      = "resume_ids"
	fieldTopK           = "top_k"
	fieldOnError        = "on_error"
	fieldDownloadReport = "download_report"
)

// Limits bounds what a single request may upload.
type Limits struct {
	MaxFileSize int64
	MaxFiles    int
}

// MatchDefaults fills in optional form fields.
type MatchDefaults struct {
	TopK              int
	OnExtractionError string
}

type matchRequestParser struct {
	pool     services.PoolService
	limits   Limits
	defaults MatchDefaults
}

// parse reads a multipart match request. Uploaded files come first, then
// pooled resumes in the order their ids were given.
func (p *matchRequestParser) parse(c *fiber.Ctx) (services.MatchRequest, error) {
	req := services.MatchRequest{
		JobDescription:    c.FormValue(fieldJobDescription),
		TopK:              p.defaults.TopK,
		OnExtractionError: p.defaults.OnExtractionError,
	}

	if raw := strings.TrimSpace(c.FormValue(fieldTopK)); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			return req, apperrors.NewInvalidInputError(fieldTopK, "must be an integer")
		}
		req.TopK = k
	}

	if policy := strings.TrimSpace(c.FormValue(fieldOnError)); policy != "" {
		req.OnExtractionError = strings.ToLower(policy)
	}

	files, err := readUploads(c, p.limits)
	if err != nil {
		return req, err
	}
	for _, f := range files {
		req.Candidates = append(req.Candidates, services.Candidate{
			Document: extraction.NewDocument(f.Name, f.Content),
		})
	}

	ids, err := parseIDs(c.FormValue(fieldResumeIDs))
	if err != nil {
		return req, err
	}
	if len(ids) > 0 {
		pooled, err := p.pool.Candidates(ids)
		if err != nil {
			return req, err
		}
		req.Candidates = append(req.Candidates, pooled...)
	}

	return req, nil
}

// readUploads returns the "resumes" files of a multipart form. A request that
// is not multipart simply has no files; a broken multipart body is rejected.
func readUploads(c *fiber.Ctx, limits Limits) ([]services.UploadedFile, error) {
	if !isMultipart(c) {
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewInvalidInputError(fieldResumes, fmt.Sprintf("malformed multipart form: %v", err))
	}

	headers := form.File[fieldResumes]
	if limits.MaxFiles > 0 && len(headers) > limits.MaxFiles {
		return nil, apperrors.NewInvalidInputError(fieldResumes,
			fmt.Sprintf("too many files. Max files: %d", limits.MaxFiles))
	}

	files := make([]services.UploadedFile, 0, len(headers))
	for _, header := range headers {
		if limits.MaxFileSize > 0 && header.Size > limits.MaxFileSize {
			return nil, apperrors.NewInvalidInputError(fieldResumes,
				fmt.Sprintf("file %s too large. Max size: %d bytes", header.Filename, limits.MaxFileSize))
		}

		content, err := readFile(header)
		if err != nil {
			return nil, err
		}
		files = append(files, services.UploadedFile{Name: header.Filename, Content: content})
	}

	return files, nil
}

func isMultipart(c *fiber.Ctx) bool {
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))
	return strings.HasPrefix(contentType, fiber.MIMEMultipartForm)
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return content, nil
}

// parseIDs splits a comma separated list of pool ids, ignoring blanks.
func parseIDs(raw string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, apperrors.NewInvalidInputError(fieldResumeIDs, fmt.Sprintf("invalid id %q", part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// toFiberError maps domain errors onto HTTP status codes for ErrorHandler.
func toFiberError(err error) error {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr
	case errors.Is(err, apperrors.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrDocumentNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrDocumentExtraction):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return err
	}
}

// ErrorHandler renders every error as {"error": ..., "code": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	err = toFiberError(err)
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
