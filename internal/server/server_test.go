package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/extraction"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
	"alfredoptarigan/resume-matcher/internal/tfidf"
)

const flaskJob = "python developer with Flask experience"

type upload struct {
	name    string
	content string
}

var flaskResumes = []upload{
	{"a.txt", "Experienced Python and Flask developer"},
	{"b.txt", "Java backend engineer"},
	{"c.txt", "Python developer, Flask, REST APIs"},
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:  config.ServerConfig{Port: "3000", Env: "test"},
		Storage: config.StorageConfig{UploadPath: t.TempDir(), MaxFileSize: 1 << 16, MaxFiles: 4},
		Match: config.MatchConfig{
			TopK:               3,
			OnExtractionError:  services.OnErrorSkip,
			ExtractConcurrency: 2,
			ExtractTimeout:     5 * time.Second,
		},
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := testConfig(t)
	log := zap.NewNop()
	extractor := extraction.NewExtractor()
	opts := services.MatcherOptions{
		ExtractConcurrency: cfg.Match.ExtractConcurrency,
		ExtractTimeout:     cfg.Match.ExtractTimeout,
	}

	storage := services.NewStorageService(cfg.Storage.UploadPath)
	require.NoError(t, storage.EnsureUploadDir())

	return New(cfg, Services{
		Matcher: services.NewMatcherService(extractor, tfidf.NewVectorizer(nil), opts, log),
		Pool:    services.NewPoolService(repositories.NewMemoryDocumentRepository(), storage, extractor, opts, log),
		Report:  services.NewReportService(),
	})
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files []upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile("resumes", f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func TestHealth(t *testing.T) {
	resp, body := do(t, newTestApp(t), httptest.NewRequest("GET", "/api/v1/health", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", decode[map[string]any](t, body)["status"])
}

func TestMatch_PythonFlaskScenario(t *testing.T) {
	app := newTestApp(t)

	req := multipartRequest(t, "POST", "/api/v1/match",
		map[string]string{"job_description": flaskJob, "top_k": "2"}, flaskResumes)
	resp, body := do(t, app, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	result := decode[models.MatchResponse](t, body)
	require.Len(t, result.Matches, 2)
	assert.ElementsMatch(t, []string{"a.txt", "c.txt"}, []string{result.Matches[0].ID, result.Matches[1].ID})
	assert.Equal(t, 1, result.Matches[0].Rank)
	assert.Equal(t, 2, result.Matches[1].Rank)
	assert.GreaterOrEqual(t, result.Matches[0].Score, result.Matches[1].Score)
	assert.InDelta(t, result.Matches[0].Score, result.Matches[0].RoundedScore, 0.005)
	assert.Empty(t, result.Failures)
	assert.Empty(t, result.Message)
}

func TestMatch_DefaultTopK(t *testing.T) {
	files := append([]upload{}, flaskResumes...)
	files = append(files, upload{"d.txt", "Flask"})

	req := multipartRequest(t, "POST", "/api/v1/match", map[string]string{"job_description": flaskJob}, files)
	resp, body := do(t, newTestApp(t), req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Len(t, decode[models.MatchResponse](t, body).Matches, 3)
}

func TestMatch_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		files  []upload
	}{
		{"missing job description", map[string]string{}, flaskResumes},
		{"no resumes", map[string]string{"job_description": flaskJob}, nil},
		{"non numeric top_k", map[string]string{"job_description": flaskJob, "top_k": "three"}, flaskResumes},
		{"zero top_k", map[string]string{"job_description": flaskJob, "top_k": "0"}, flaskResumes},
		{"unknown policy", map[string]string{"job_description": flaskJob, "on_error": "retry"}, flaskResumes},
		{"bad resume id", map[string]string{"job_description": flaskJob, "resume_ids": "not-a-uuid"}, flaskResumes},
		{"too many files", map[string]string{"job_description": flaskJob}, append(flaskResumes, flaskResumes...)},
		{"file too large", map[string]string{"job_description": flaskJob}, []upload{{"big.txt", strings.Repeat("a", 1<<16+1)}}},
	}

	app := newTestApp(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, multipartRequest(t, "POST", "/api/v1/match", tt.fields, tt.files))
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, string(body))

			payload := decode[map[string]any](t, body)
			assert.NotEmpty(t, payload["error"])
			assert.Equal(t, float64(fiber.StatusBadRequest), payload["code"])
		})
	}
}

func TestMatch_ExtractionPolicies(t *testing.T) {
	files := append([]upload{{"broken.pdf", "not a pdf"}}, flaskResumes...)
	app := newTestApp(t)

	resp, body := do(t, app, multipartRequest(t, "POST", "/api/v1/match",
		map[string]string{"job_description": flaskJob}, files))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	skipped := decode[models.MatchResponse](t, body)
	assert.Len(t, skipped.Matches, 3)
	require.Len(t, skipped.Failures, 1)
	assert.Equal(t, "broken.pdf", skipped.Failures[0].ID)

	resp, body = do(t, app, multipartRequest(t, "POST", "/api/v1/match",
		map[string]string{"job_description": flaskJob, "on_error": "abort"}, files))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decode[map[string]any](t, body)["error"], "broken.pdf")
}

func TestMatch_EmptyVocabularyIsNoMatches(t *testing.T) {
	resp, body := do(t, newTestApp(t), multipartRequest(t, "POST", "/api/v1/match",
		map[string]string{"job_description": "the and of"}, []upload{{"a.txt", "the"}}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	result := decode[models.MatchResponse](t, body)
	assert.Empty(t, result.Matches)
	assert.NotNil(t, result.Matches)
	assert.Equal(t, "no matches", result.Message)
}

func TestMatchReport(t *testing.T) {
	resp, body := do(t, newTestApp(t), multipartRequest(t, "POST", "/api/v1/match/report",
		map[string]string{"job_description": flaskJob}, flaskResumes))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "resume_match_report.pdf")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

func TestResumePool(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, multipartRequest(t, "POST", "/api/v1/resumes", nil, flaskResumes[:2]))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	uploaded := decode[models.UploadResponse](t, body)
	require.Len(t, uploaded.Documents, 2)
	poolA, poolB := uploaded.Documents[0].ID, uploaded.Documents[1].ID

	resp, body = do(t, app, httptest.NewRequest("GET", "/api/v1/resumes", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	listed := decode[models.ResumeListResponse](t, body)
	assert.Equal(t, 2, listed.Total)
	assert.NotContains(t, string(body), "Experienced Python", "extracted text is not exposed")

	// pooled resumes and a fresh upload compete in one ranking
	resp, body = do(t, app, multipartRequest(t, "POST", "/api/v1/match", map[string]string{
		"job_description": flaskJob,
		"resume_ids":      poolA.String() + ", " + poolB.String(),
		"top_k":           "3",
	}, flaskResumes[2:]))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	result := decode[models.MatchResponse](t, body)
	require.Len(t, result.Matches, 3)
	assert.ElementsMatch(t, []string{poolA.String(), "c.txt"}, []string{result.Matches[0].ID, result.Matches[1].ID})
	assert.Equal(t, poolB.String(), result.Matches[2].ID)
	assert.Equal(t, "b.txt", result.Matches[2].Name)

	resp, body = do(t, app, httptest.NewRequest("GET", "/api/v1/resumes/"+poolB.String()+"/file", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "b.txt")
	assert.Equal(t, "Java backend engineer", string(body))

	resp, _ = do(t, app, httptest.NewRequest("DELETE", "/api/v1/resumes/"+poolB.String(), nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest("GET", "/api/v1/resumes/"+poolB.String()+"/file", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest("DELETE", "/api/v1/resumes/"+poolB.String(), nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest("DELETE", "/api/v1/resumes/nope", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, multipartRequest(t, "POST", "/api/v1/match", map[string]string{
		"job_description": flaskJob,
		"resume_ids":      poolB.String(),
	}, nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestResumeUpload_NoFiles(t *testing.T) {
	resp, body := do(t, newTestApp(t), multipartRequest(t, "POST", "/api/v1/resumes", nil, nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[map[string]any](t, body)["error"], "No valid files uploaded")
}

func TestMatch_MalformedMultipartBody(t *testing.T) {
	req := multipartRequest(t, "POST", "/api/v1/match", map[string]string{"job_description": flaskJob}, flaskResumes)
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)

	truncated := httptest.NewRequest("POST", "/api/v1/match", bytes.NewReader(body[:len(body)/2]))
	truncated.Header.Set("Content-Type", req.Header.Get("Content-Type"))

	resp, payload := do(t, newTestApp(t), truncated)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, string(payload))
	assert.Contains(t, decode[map[string]any](t, payload)["error"], "malformed multipart form")
}

func TestMatch_NonMultipartHasNoFiles(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/match", strings.NewReader("job_description=python"))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)

	resp, payload := do(t, newTestApp(t), req)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[map[string]any](t, payload)["error"], "at least one resume is required")
}

func TestPage_Index(t *testing.T) {
	resp, body := do(t, newTestApp(t), httptest.NewRequest("GET", "/", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), `action="/matcher"`)
	assert.Contains(t, string(body), `value="3"`)
}

func TestPage_Match(t *testing.T) {
	resp, body := do(t, newTestApp(t), multipartRequest(t, "POST", "/matcher",
		map[string]string{"job_description": flaskJob, "top_k": "2"}, flaskResumes))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	html := string(body)
	assert.Contains(t, html, "Top Matching Resumes")
	assert.Contains(t, html, "a.txt (Similarity Score: 0.")
	assert.Contains(t, html, "c.txt (Similarity Score: 0.")
	assert.NotContains(t, html, "b.txt (Similarity Score")
}

func TestPage_MissingInput(t *testing.T) {
	resp, body := do(t, newTestApp(t), multipartRequest(t, "POST", "/matcher",
		map[string]string{"job_description": flaskJob}, nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Please upload resumes and enter a job description.")
}

func TestPage_DownloadReport(t *testing.T) {
	resp, body := do(t, newTestApp(t), multipartRequest(t, "POST", "/matcher",
		map[string]string{"job_description": flaskJob, "download_report": "1"}, flaskResumes))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

func TestUnknownRoute(t *testing.T) {
	resp, body := do(t, newTestApp(t), httptest.NewRequest("GET", "/api/v1/result/"+uuid.NewString(), nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, float64(fiber.StatusNotFound), decode[map[string]any](t, body)["code"])
}
