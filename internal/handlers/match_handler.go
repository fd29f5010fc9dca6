package handlers

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/ranking"
	"alfredoptarigan/resume-matcher/internal/services"
)

const noMatchesMessage = "no matches"

type MatchHandler struct {
	matcher       services.MatcherService
	reportService services.ReportService
	parser        *matchRequestParser
}

func NewMatchHandler(
	matcher services.MatcherService,
	pool services.PoolService,
	reportService services.ReportService,
	limits Limits,
	defaults MatchDefaults,
) *MatchHandler {
	return &MatchHandler{
		matcher:       matcher,
		reportService: reportService,
		parser:        &matchRequestParser{pool: pool, limits: limits, defaults: defaults},
	}
}

// HandleMatch ranks the submitted resumes against the job description.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	_, result, err := h.run(c)
	if err != nil {
		return toFiberError(err)
	}

	return c.JSON(toMatchResponse(result))
}

// HandleReport runs the same match and streams the PDF report.
func (h *MatchHandler) HandleReport(c *fiber.Ctx) error {
	req, result, err := h.run(c)
	if err != nil {
		return toFiberError(err)
	}

	return sendReport(c, h.reportService, req.JobDescription, result.Matches)
}

// run parses and matches. An empty vocabulary is not an error for HTTP
// callers; it yields an empty result.
func (h *MatchHandler) run(c *fiber.Ctx) (services.MatchRequest, *services.MatchResult, error) {
	req, err := h.parser.parse(c)
	if err != nil {
		return req, nil, err
	}

	result, err := h.matcher.Match(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmptyVocabulary) && result != nil {
			return req, result, nil
		}
		return req, nil, err
	}

	return req, result, nil
}

func sendReport(c *fiber.Ctx, reportService services.ReportService, jobDescription string, matches []services.Match) error {
	var buf bytes.Buffer
	if err := reportService.Write(&buf, jobDescription, matches); err != nil {
		return err
	}

	c.Attachment(services.ReportFilename)
	c.Type("pdf")
	return c.Send(buf.Bytes())
}

func toMatchResponse(result *services.MatchResult) models.MatchResponse {
	resp := models.MatchResponse{
		Matches:  make([]models.MatchItem, 0, len(result.Matches)),
		Failures: toFailureItems(result.Failures),
	}

	for i, m := range result.Matches {
		resp.Matches = append(resp.Matches, models.MatchItem{
			ID:           m.ID,
			Name:         nameIfDifferent(m),
			Score:        m.Score,
			RoundedScore: ranking.Round2(m.Score),
			Rank:         i + 1,
		})
	}

	if len(resp.Matches) == 0 {
		resp.Message = noMatchesMessage
	}

	return resp
}

func toFailureItems(failures []*apperrors.DocumentExtractionError) []models.FailureItem {
	if len(failures) == 0 {
		return nil
	}

	items := make([]models.FailureItem, len(failures))
	for i, f := range failures {
		items[i] = models.FailureItem{ID: f.DocumentID, Error: f.Error()}
	}
	return items
}

func nameIfDifferent(m services.Match) string {
	if m.Name == m.ID {
		return ""
	}
	return m.Name
}
