package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_blog_publisher/blog"
	"auto_blog_publisher/config"
	"auto_blog_publisher/generator"
	"auto_blog_publisher/metrics"
	"auto_blog_publisher/publisher"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct{ err error }

func (f fakeGenerator) Generate(_ context.Context, title, notes string, tags []string) (generator.Post, error) {
	if f.err != nil {
		return generator.Post{}, f.err
	}
	return generator.Post{Title: title, Content: "## Body\n\n" + notes, Tags: tags, CreatedAt: time.Now()}, nil
}

type fakePublisher struct {
	result  publisher.Result
	info    *publisher.PublicationInfo
	lastReq publisher.PublishRequest
}

func (f *fakePublisher) Publish(_ context.Context, req publisher.PublishRequest) publisher.Result {
	f.lastReq = req
	return f.result
}

func (f *fakePublisher) PublicationInfo(context.Context) *publisher.PublicationInfo { return f.info }

var testConfig = config.Config{
	AppName:    "Auto Blog Publisher",
	AppVersion: "1.0.0",
	Debug:      true,
	LLM:        config.LLMConfig{Provider: "mock", Model: "gemini-2.0-flash", APIKey: "secret-llm-key"},
	Hashnode:   config.HashnodeConfig{Token: "secret-hashnode-token", PublicationID: "pub1"},
	Limits:     config.LimitsConfig{MaxTitleLength: 200, MaxNotesLength: 5000},
}

func newTestHandler(t *testing.T, gen blog.PostGenerator, pub *fakePublisher) http.Handler {
	t.Helper()
	m := metrics.New()
	svc, err := blog.NewService(gen, pub, nil, m)
	require.NoError(t, err)
	srv, err := New(svc, testConfig, nil, m)
	require.NoError(t, err)
	return srv.Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, fakeGenerator{}, &fakePublisher{})

	rec, body := doJSON(t, h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "Auto Blog Publisher", body["app_name"])
	assert.Equal(t, "1.0.0", body["version"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestHealthKeepsRequestID(t *testing.T) {
	h := newTestHandler(t, fakeGenerator{}, &fakePublisher{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestHealthDetailed(t *testing.T) {
	pub := &fakePublisher{info: &publisher.PublicationInfo{ID: "pub1", Title: "My Blog"}}
	h := newTestHandler(t, fakeGenerator{}, pub)

	rec, body := doJSON(t, h, http.MethodGet, "/health/detailed", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	services := body["services"].(map[string]any)
	hashnode := services["hashnode"].(map[string]any)
	assert.Equal(t, "connected", hashnode["status"])
	assert.Equal(t, "My Blog", hashnode["publication"])
	assert.NotContains(t, rec.Body.String(), "secret-llm-key")
	assert.NotContains(t, rec.Body.String(), "secret-hashnode-token")
}

func TestHealthDetailedHashnodeDown(t *testing.T) {
	h := newTestHandler(t, fakeGenerator{}, &fakePublisher{})

	rec, body := doJSON(t, h, http.MethodGet, "/health/detailed", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	hashnode := body["services"].(map[string]any)["hashnode"].(map[string]any)
	assert.Equal(t, "error", hashnode["status"])
}

func TestGenerateEndpoint(t *testing.T) {
	pub := &fakePublisher{result: publisher.Result{Success: true, PostURL: "https://blog.example.com/x"}}
	h := newTestHandler(t, fakeGenerator{}, pub)

	rec, body := doJSON(t, h, http.MethodPost, "/blog/generate", map[string]any{
		"title": "  Go Generics ",
		"notes": "type parameters",
		"tags":  []string{"go"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Blog post generated successfully", body["message"])
	post := body["blog_post"].(map[string]any)
	assert.Equal(t, "Go Generics", post["title"])
	assert.NotContains(t, body, "hashnode_url")
}

func TestGenerateEndpointGenerationFailure(t *testing.T) {
	h := newTestHandler(t, fakeGenerator{err: errors.New("boom")}, &fakePublisher{})

	rec, body := doJSON(t, h, http.MethodPost, "/blog/generate", map[string]any{"title": "T", "notes": "N"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.True(t, strings.HasPrefix(body["message"].(string), "Failed to generate blog post: "))
}

func TestGenerateEndpointValidation(t *testing.T) {
	h := newTestHandler(t, fakeGenerator{}, &fakePublisher{})

	tests := map[string]any{
		"blank title":    map[string]any{"title": "  ", "notes": "N"},
		"missing notes":  map[string]any{"title": "T"},
		"title too long": map[string]any{"title": strings.Repeat("t", 201), "notes": "N"},
		"wrong type":     map[string]any{"title": 5, "notes": "N"},
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			rec, body := doJSON(t, h, http.MethodPost, "/blog/generate", payload)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, codeValidation, body["error_code"])
		})
	}
}

func TestGenerateAndPublishEndpoint(t *testing.T) {
	pub := &fakePublisher{result: publisher.Result{Success: true, PostID: "p1", PostURL: "https://blog.example.com/p1"}}
	h := newTestHandler(t, fakeGenerator{}, pub)

	rec, body := doJSON(t, h, http.MethodPost, "/blog/generate-and-publish", map[string]any{"title": "T", "notes": "N"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "https://blog.example.com/p1", body["hashnode_url"])
	assert.Equal(t, "Blog post generated successfully and published to Hashnode", body["message"])
}

func TestPublishEndpoint(t *testing.T) {
	pub := &fakePublisher{result: publisher.Result{
		Success: true, PostID: "p1", PostURL: "https://blog.example.com/p1", Message: "Post published successfully",
	}}
	h := newTestHandler(t, fakeGenerator{}, pub)

	rec, body := doJSON(t, h, http.MethodPost, "/blog/publish", map[string]any{
		"title":           "T",
		"content":         "# Body",
		"tags":            []string{"go"},
		"cover_image_url": "https://img.example.com/c.png",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "p1", body["post_id"])
	assert.Equal(t, "https://blog.example.com/p1", body["post_url"])
	assert.Equal(t, publisher.PublishRequest{
		Title:           "T",
		ContentMarkdown: "# Body",
		Tags:            []string{"go"},
		CoverImageURL:   "https://img.example.com/c.png",
	}, pub.lastReq)
}

func TestPublishEndpointFailure(t *testing.T) {
	pub := &fakePublisher{result: publisher.Result{
		Message: "HTTP error: 401 - Unauthorized", ErrorCode: publisher.CodeHTTPError,
	}}
	h := newTestHandler(t, fakeGenerator{}, pub)

	rec, body := doJSON(t, h, http.MethodPost, "/blog/publish", map[string]any{"title": "T", "content": "C"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, publisher.CodeHTTPError, body["error_code"])
	assert.Contains(t, body["message"], "401")
}

func TestPublishEndpointValidation(t *testing.T) {
	pub := &fakePublisher{}
	h := newTestHandler(t, fakeGenerator{}, pub)

	rec, body := doJSON(t, h, http.MethodPost, "/blog/publish", map[string]any{"title": "T", "content": "  "})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, codeValidation, body["error_code"])
	assert.Empty(t, pub.lastReq.Title)
}

func TestPublicationInfoEndpoint(t *testing.T) {
	pub := &fakePublisher{info: &publisher.PublicationInfo{ID: "pub1", Title: "My Blog", URL: "https://blog.example.com"}}
	h := newTestHandler(t, fakeGenerator{}, pub)

	rec, body := doJSON(t, h, http.MethodGet, "/blog/publication-info", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "My Blog", body["publication"].(map[string]any)["title"])

	h = newTestHandler(t, fakeGenerator{}, &fakePublisher{})
	rec, body = doJSON(t, h, http.MethodGet, "/blog/publication-info", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Could not fetch publication information", body["message"])
}

func TestPreviewEndpoint(t *testing.T) {
	h := newTestHandler(t, fakeGenerator{}, &fakePublisher{})

	rec, body := doJSON(t, h, http.MethodPost, "/blog/preview", map[string]any{"content": "# Hello\n\n**bold**"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body["html"], "<h1")
	assert.Contains(t, body["html"], "<strong>bold</strong>")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t, fakeGenerator{}, &fakePublisher{})
	doJSON(t, h, http.MethodPost, "/blog/generate", map[string]any{"title": "T", "notes": "N"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "blog_generations_total")
}

func TestStaticFrontend(t *testing.T) {
	h := newTestHandler(t, fakeGenerator{}, &fakePublisher{})

	for _, p := range []string{"/", "/some/client/route"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, rec.Code, p)
		assert.Contains(t, rec.Body.String(), "Auto Blog Publisher", p)
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	h := newTestHandler(t, fakeGenerator{}, &fakePublisher{})

	rec, body := doJSON(t, h, http.MethodGet, "/blog/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t, fakeGenerator{}, &fakePublisher{})
	req := httptest.NewRequest(http.MethodOptions, "/blog/generate", nil)
	req.Header.Set("Origin", "http://localhost:3003")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
