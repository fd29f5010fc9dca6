package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
	"alfredoptarigan/resume-matcher/internal/ranking"
	"alfredoptarigan/resume-matcher/internal/services"
)

const pageTemplate = "index"

const missingInputMessage = "Please upload resumes and enter a job description."

type pageMatch struct {
	Name  string
	Score string
}

// PageHandler serves the HTML form. Matching is shared with the JSON API;
// errors are shown on the page instead of as JSON.
type PageHandler struct {
	matcher       services.MatcherService
	reportService services.ReportService
	parser        *matchRequestParser
}

func NewPageHandler(
	matcher services.MatcherService,
	pool services.PoolService,
	reportService services.ReportService,
	limits Limits,
	defaults MatchDefaults,
) *PageHandler {
	return &PageHandler{
		matcher:       matcher,
		reportService: reportService,
		parser:        &matchRequestParser{pool: pool, limits: limits, defaults: defaults},
	}
}

func (h *PageHandler) HandleIndex(c *fiber.Ctx) error {
	return c.Render(pageTemplate, fiber.Map{
		"TopK": h.parser.defaults.TopK,
	})
}

func (h *PageHandler) HandleMatch(c *fiber.Ctx) error {
	req, err := h.parser.parse(c)
	if err != nil {
		return h.renderError(c, req, err)
	}

	result, err := h.matcher.Match(c.UserContext(), req)
	if err != nil && !(errors.Is(err, apperrors.ErrEmptyVocabulary) && result != nil) {
		return h.renderError(c, req, err)
	}

	if c.FormValue(fieldDownloadReport) != "" {
		return sendReport(c, h.reportService, req.JobDescription, result.Matches)
	}

	matches := make([]pageMatch, len(result.Matches))
	for i, m := range result.Matches {
		matches[i] = pageMatch{
			Name:  m.Name,
			Score: fmt.Sprintf("%.2f", ranking.Round2(m.Score)),
		}
	}

	data := fiber.Map{
		"JobDescription": req.JobDescription,
		"TopK":           req.TopK,
		"Matches":        matches,
		"Failures":       toFailureItems(result.Failures),
	}
	if len(matches) == 0 {
		data["Message"] = "No matches found."
	}

	return c.Render(pageTemplate, data)
}

func (h *PageHandler) renderError(c *fiber.Ctx, req services.MatchRequest, err error) error {
	status := fiber.StatusInternalServerError
	message := err.Error()

	var invalid *apperrors.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		status = fiber.StatusBadRequest
		if invalid.Field == fieldJobDescription || invalid.Field == fieldResumes {
			message = missingInputMessage
		}
	case errors.Is(err, apperrors.ErrDocumentExtraction):
		status = fiber.StatusUnprocessableEntity
	}

	topK := req.TopK
	if topK < 1 {
		topK = h.parser.defaults.TopK
	}

	return c.Status(status).Render(pageTemplate, fiber.Map{
		"JobDescription": req.JobDescription,
		"TopK":           topK,
		"Message":        message,
	})
}
