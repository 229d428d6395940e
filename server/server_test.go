package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzhavan/disai/core"
	"github.com/uzhavan/disai/predict"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubEngine is a canned-response Engine for handler tests.
type stubEngine struct {
	predictions []core.Prediction
	predictErr  error
	pages       []core.Page
	stats       core.CatalogStats
	strategy    predict.Strategy
	reloadErr   error
	reloadFunc  func()

	mu          sync.Mutex
	queries     []string
	reloadCalls int
}

var _ Engine = (*stubEngine)(nil)

func (e *stubEngine) Predict(ctx context.Context, query string) ([]core.Prediction, error) {
	e.mu.Lock()
	e.queries = append(e.queries, query)
	e.mu.Unlock()

	if e.predictErr != nil {
		return nil, e.predictErr
	}
	return e.predictions, nil
}

func (e *stubEngine) Pages() []core.Page {
	return e.pages
}

func (e *stubEngine) Stats() core.CatalogStats {
	return e.stats
}

func (e *stubEngine) Strategy() predict.Strategy {
	if e.strategy == "" {
		return predict.StrategyEmbedding
	}
	return e.strategy
}

func (e *stubEngine) ReloadFromFile(ctx context.Context) error {
	e.mu.Lock()
	e.reloadCalls++
	f := e.reloadFunc
	e.mu.Unlock()

	if f != nil {
		f()
	}
	return e.reloadErr
}

func (e *stubEngine) seenQueries() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.queries...)
}

func (e *stubEngine) reloads() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reloadCalls
}

func newTestRouter(t *testing.T, engine *stubEngine) *gin.Engine {
	t.Helper()
	s, err := NewServer(engine)
	require.NoError(t, err)
	return s.Router()
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestNewServer(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		s, err := NewServer(&stubEngine{})
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		s, err := NewServer(&stubEngine{}, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("nil engine", func(t *testing.T) {
		_, err := NewServer(nil)
		assert.Equal(t, ErrEngineRequired, err)
	})
}

func TestPredictPost(t *testing.T) {
	predictions := []core.Prediction{
		{PageName: "crop_recommendation", Keyword: "பயிர் பரிந்துரை", Score: 0.91, Description: "பயிர் தேர்வு"},
		{PageName: "disease_detection", Keyword: "பயிர்நோய்", Score: 0.42},
	}

	t.Run("returns ranked predictions", func(t *testing.T) {
		engine := &stubEngine{predictions: predictions}
		router := newTestRouter(t, engine)

		rec := performRequest(router, http.MethodPost, "/predict", `{"query": "பயிர் பரிந்துரை வேண்டும்"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		payload := decodeBody(t, rec)
		assert.Equal(t, "பயிர் பரிந்துரை வேண்டும்", payload["query"])
		assert.Len(t, payload["predictions"], 2)

		top, ok := payload["top_prediction"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "crop_recommendation", top["page_name"])

		// Wire field names are contract.
		assert.Contains(t, rec.Body.String(), `"similarity_score"`)
		assert.Equal(t, []string{"பயிர் பரிந்துரை வேண்டும்"}, engine.seenQueries())
	})

	t.Run("empty result yields null top prediction", func(t *testing.T) {
		router := newTestRouter(t, &stubEngine{})

		rec := performRequest(router, http.MethodPost, "/predict", `{"query": "வானிலை"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Contains(t, rec.Body.String(), `"top_prediction":null`)
		assert.Contains(t, rec.Body.String(), `"predictions":[]`)
	})

	t.Run("missing body", func(t *testing.T) {
		router := newTestRouter(t, &stubEngine{})

		rec := performRequest(router, http.MethodPost, "/predict", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Query text is required", decodeBody(t, rec)["error"])
	})

	t.Run("missing query key", func(t *testing.T) {
		router := newTestRouter(t, &stubEngine{})

		rec := performRequest(router, http.MethodPost, "/predict", `{"text": "வானிலை"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Query text is required", decodeBody(t, rec)["error"])
	})

	t.Run("null query", func(t *testing.T) {
		router := newTestRouter(t, &stubEngine{})

		rec := performRequest(router, http.MethodPost, "/predict", `{"query": null}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Query text is required", decodeBody(t, rec)["error"])
	})

	t.Run("invalid json", func(t *testing.T) {
		router := newTestRouter(t, &stubEngine{})

		rec := performRequest(router, http.MethodPost, "/predict", `{"query": `)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Query text is required", decodeBody(t, rec)["error"])
	})

	t.Run("blank query", func(t *testing.T) {
		engine := &stubEngine{}
		router := newTestRouter(t, engine)

		rec := performRequest(router, http.MethodPost, "/predict", `{"query": "   "}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Query text cannot be empty", decodeBody(t, rec)["error"])
		assert.Empty(t, engine.seenQueries())
	})

	t.Run("engine failure", func(t *testing.T) {
		engine := &stubEngine{predictErr: errors.New("embedding service unavailable")}
		router := newTestRouter(t, engine)

		rec := performRequest(router, http.MethodPost, "/predict", `{"query": "வானிலை"}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "embedding service unavailable", decodeBody(t, rec)["error"])
	})
}

func TestPredictGet(t *testing.T) {
	t.Run("returns predictions", func(t *testing.T) {
		engine := &stubEngine{predictions: []core.Prediction{{PageName: "weather_page", Keyword: "வானிலை", Score: 0.8}}}
		router := newTestRouter(t, engine)

		rec := performRequest(router, http.MethodGet, "/predict?query=வானிலை", "")
		require.Equal(t, http.StatusOK, rec.Code)

		payload := decodeBody(t, rec)
		assert.Equal(t, "வானிலை", payload["query"])
		assert.Len(t, payload["predictions"], 1)
	})

	t.Run("missing query parameter", func(t *testing.T) {
		router := newTestRouter(t, &stubEngine{})

		rec := performRequest(router, http.MethodGet, "/predict", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Query parameter is required", decodeBody(t, rec)["error"])
	})

	t.Run("whitespace query passes through", func(t *testing.T) {
		engine := &stubEngine{}
		router := newTestRouter(t, engine)

		rec := performRequest(router, http.MethodGet, "/predict?query=%20%20", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"  "}, engine.seenQueries())
	})
}

func TestPages(t *testing.T) {
	engine := &stubEngine{pages: []core.Page{
		{
			Name:          "crop_recommendation",
			Keywords:      []string{"பயிர் பரிந்துரை"},
			Description:   "பயிர் தேர்வு",
			ActionMessage: "பயிர் பரிந்துரை பக்கத்திற்கு செல்கிறேன்",
		},
		{Name: "empty_page", Keywords: []string{}},
	}}
	router := newTestRouter(t, engine)

	rec := performRequest(router, http.MethodGet, "/pages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	pages, ok := payload["pages"].([]any)
	require.True(t, ok)
	require.Len(t, pages, 2)

	first, ok := pages[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "crop_recommendation", first["page_name"])
	assert.Equal(t, "பயிர் பரிந்துரை பக்கத்திற்கு செல்கிறேன்", first["action_message"])

	// A page without keywords serves an empty list, not null.
	assert.Contains(t, rec.Body.String(), `"keywords":[]`)
}

func TestStats(t *testing.T) {
	engine := &stubEngine{stats: core.CatalogStats{
		TotalPages:         8,
		TotalKeywords:      103,
		AvgKeywordsPerPage: 12.875,
		KeywordDistribution: core.KeywordDistribution{
			Min:    9,
			Max:    17,
			Median: 12.5,
		},
	}}
	router := newTestRouter(t, engine)

	rec := performRequest(router, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.EqualValues(t, 8, payload["total_pages"])
	assert.EqualValues(t, 103, payload["total_keywords"])
	assert.InDelta(t, 12.875, payload["avg_keywords_per_page"], 1e-9)

	dist, ok := payload["keyword_distribution"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 9, dist["min"])
	assert.EqualValues(t, 17, dist["max"])
	assert.InDelta(t, 12.5, dist["median"], 1e-9)
}

func TestTestEndpoint(t *testing.T) {
	engine := &stubEngine{predictions: []core.Prediction{{PageName: "crop_recommendation", Score: 0.7}}}
	router := newTestRouter(t, engine)

	rec := performRequest(router, http.MethodGet, "/test", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	results, ok := payload["test_results"].([]any)
	require.True(t, ok)
	require.Len(t, results, len(sampleQueries))

	for i, raw := range results {
		result, ok := raw.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, sampleQueries[i], result["query"])
		assert.NotNil(t, result["top_prediction"])
	}

	assert.Equal(t, sampleQueries, engine.seenQueries())
}

func TestReloadEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		engine := &stubEngine{}
		router := newTestRouter(t, engine)

		rec := performRequest(router, http.MethodPost, "/reload", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "reloaded", decodeBody(t, rec)["status"])
		assert.Equal(t, 1, engine.reloads())
	})

	t.Run("failure keeps serving", func(t *testing.T) {
		engine := &stubEngine{reloadErr: errors.New("catalog.json: malformed catalog")}
		router := newTestRouter(t, engine)

		rec := performRequest(router, http.MethodPost, "/reload", "")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "catalog.json: malformed catalog", decodeBody(t, rec)["error"])
	})
}

func TestHealthz(t *testing.T) {
	engine := &stubEngine{
		strategy: predict.StrategyLexical,
		stats:    core.CatalogStats{TotalPages: 8, TotalKeywords: 103},
	}
	router := newTestRouter(t, engine)

	rec := performRequest(router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, "lexical", payload["strategy"])
	assert.EqualValues(t, 8, payload["pages"])
	assert.EqualValues(t, 103, payload["candidates"])
}
