package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Embedder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	e := New(Config{
		BaseURL:           srv.URL,
		Model:             "all-MiniLM-L6-v2",
		RequestsPerSecond: 1000, // don't throttle tests
	})
	return srv, e
}

func TestModelDimension(t *testing.T) {
	assert.Equal(t, 384, ModelDimension("all-MiniLM-L6-v2"))
	assert.Equal(t, 1024, ModelDimension("mixedbread-ai/mxbai-embed-large-v1"))
	assert.Equal(t, 384, ModelDimension("some-unknown-model"))
}

func TestEmbedBatch(t *testing.T) {
	var gotReq embeddingRequest
	_, e := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		// Return vectors out of order to exercise index reassembly.
		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.3, 0.4}, "index": 1},
				{"embedding": []float64{0.1, 0.2}, "index": 0},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	got, err := e.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, gotReq.Input)
	assert.Equal(t, "all-MiniLM-L6-v2", gotReq.Model)
	require.Len(t, got, 2)
	assert.Equal(t, []float32{0.1, 0.2}, got[0])
	assert.Equal(t, []float32{0.3, 0.4}, got[1])
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	e := New(Config{})
	got, err := e.EmbedBatch(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmbedBatch_APIError(t *testing.T) {
	_, e := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "auth"},
		})
	})

	_, err := e.EmbedBatch(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	_, e := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.1}, "index": 0},
			},
		})
	})

	_, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestEmbedBatch_AuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float64{0.1}, "index": 0}},
		})
	}))
	defer srv.Close()

	e := New(Config{BaseURL: srv.URL, APIKey: "secret", RequestsPerSecond: 1000})
	_, err := e.EmbedBatch(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestDefaults(t *testing.T) {
	e := New(Config{})
	assert.Equal(t, DefaultModel, e.ModelName())
	assert.Equal(t, 384, e.Dimensions())
}
