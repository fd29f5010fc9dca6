package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
	"alfredoptarigan/resume-matcher/internal/services"
)

func TestParseIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, err := parseIDs(fmt.Sprintf(" %s, ,%s,", a, b))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	ids, err = parseIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = parseIDs(a.String() + ",42")
	require.Error(t, err)
	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, fieldResumeIDs, invalid.Field)
}

func TestToFiberError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", apperrors.NewInvalidInputError("top_k", "must be at least 1"), fiber.StatusBadRequest},
		{"not found", fmt.Errorf("%w: %s", apperrors.ErrDocumentNotFound, uuid.New()), fiber.StatusNotFound},
		{"extraction", apperrors.NewDocumentExtractionError("cv.pdf", errors.New("bad xref")), fiber.StatusUnprocessableEntity},
		{"fiber error", fiber.NewError(fiber.StatusConflict, "conflict"), fiber.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fiberErr *fiber.Error
			require.ErrorAs(t, toFiberError(tt.err), &fiberErr)
			assert.Equal(t, tt.want, fiberErr.Code)
		})
	}

	plain := errors.New("disk full")
	assert.Same(t, plain, toFiberError(plain), "unknown errors stay internal")
}

func TestToMatchResponse(t *testing.T) {
	resp := toMatchResponse(&services.MatchResult{
		Matches: []services.Match{
			{ID: "7f0c", Name: "jane.pdf", Score: 0.83456},
			{ID: "cv.txt", Name: "cv.txt", Score: 0.1},
		},
		Failures: []*apperrors.DocumentExtractionError{
			apperrors.NewDocumentExtractionError("old.doc", errors.New("legacy binary Word format is not supported")),
		},
	})

	require.Len(t, resp.Matches, 2)
	assert.Equal(t, "jane.pdf", resp.Matches[0].Name)
	assert.Equal(t, 0.83, resp.Matches[0].RoundedScore)
	assert.Equal(t, 0.83456, resp.Matches[0].Score)
	assert.Equal(t, 1, resp.Matches[0].Rank)
	assert.Empty(t, resp.Matches[1].Name, "name is omitted when it repeats the id")
	assert.Equal(t, 2, resp.Matches[1].Rank)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "old.doc", resp.Failures[0].ID)
	assert.Empty(t, resp.Message)

	empty := toMatchResponse(&services.MatchResult{})
	assert.NotNil(t, empty.Matches)
	assert.Equal(t, noMatchesMessage, empty.Message)
}
