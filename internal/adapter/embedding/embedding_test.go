package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semsearch/config"
	"semsearch/internal/domain"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestHashEncoder_Deterministic(t *testing.T) {
	enc := NewHashEncoder(128, true)
	ctx := context.Background()

	first, err := enc.Encode(ctx, []string{"the cat sat on the mat", "stock markets rallied"})
	require.NoError(t, err)
	second, err := enc.Encode(ctx, []string{"the cat sat on the mat", "stock markets rallied"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Len(t, first[0], 128)
	assert.Equal(t, "hash-128-stem", enc.Version())
}

func TestHashEncoder_SelfSimilarity(t *testing.T) {
	enc := NewHashEncoder(64, false)
	for _, text := range []string{"hello world", "", "the of and", "Java generics"} {
		vecs, err := enc.Encode(context.Background(), []string{text, text})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, cosine(vecs[0], vecs[1]), 1e-6, "text %q", text)
	}
}

func TestHashEncoder_LexicalOverlap(t *testing.T) {
	enc := NewHashEncoder(512, true)
	vecs, err := enc.Encode(context.Background(), []string{
		"java string comparison",
		"compare strings in java",
		"kubernetes pod scheduling",
	})
	require.NoError(t, err)
	assert.Greater(t, cosine(vecs[0], vecs[1]), cosine(vecs[0], vecs[2]))
}

func TestHashEncoder_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHashEncoder(8, false).Encode(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOllamaEncoder_Encode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)

		resp := ollamaEmbedResponse{}
		for i := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{float32(i), 1})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	enc := NewOllamaEncoder(srv.URL+"/", "nomic-embed-text", time.Second)
	vecs, err := enc.Encode(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 1}, {1, 1}, {2, 1}}, vecs)
	assert.Equal(t, "nomic-embed-text", enc.Version())
}

func TestOllamaEncoder_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewOllamaEncoder(srv.URL, "m", time.Second).Encode(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "status: 500")
}

func TestOllamaEncoder_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[1,2]]}`))
	}))
	defer srv.Close()

	_, err := NewOllamaEncoder(srv.URL, "m", time.Second).Encode(context.Background(), []string{"a", "b"})
	assert.ErrorContains(t, err, "1 embeddings for 2 inputs")
}

func TestOpenAIEncoder_ReordersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"index":1,"embedding":[0,1]},{"index":0,"embedding":[1,0]}]}`))
	}))
	defer srv.Close()

	t.Setenv("TEST_EMBED_KEY", "test-key")
	enc, err := NewOpenAICompatibleEncoder("TEST_EMBED_KEY", "text-embedding-3-small", srv.URL, time.Second)
	require.NoError(t, err)

	vecs, err := enc.Encode(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vecs)
}

func TestOpenAIEncoder_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"model not found","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	t.Setenv("TEST_EMBED_KEY", "k")
	enc, err := NewOpenAICompatibleEncoder("TEST_EMBED_KEY", "nope", srv.URL, time.Second)
	require.NoError(t, err)

	_, err = enc.Encode(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "model not found")
}

func TestOpenAIEncoder_MissingKey(t *testing.T) {
	t.Setenv("TEST_EMBED_KEY", "")
	_, err := NewOpenAICompatibleEncoder("TEST_EMBED_KEY", "m", "http://localhost", 0)
	assert.Error(t, err)
}

func TestRateLimitedEncoder_DelegatesAndHonoursContext(t *testing.T) {
	inner := NewHashEncoder(16, false)
	enc := NewRateLimitedEncoder(inner, 1, 1)
	assert.Equal(t, inner.Version(), enc.Version())

	_, err := enc.Encode(context.Background(), []string{"first call uses the burst"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = enc.Encode(ctx, []string{"second call must wait ~1s"})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	cfg := config.DefaultConfig()

	cfg.Embedding.Provider = "hash"
	cfg.Embedding.Dimension = 32
	enc, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "hash-32", enc.Version())

	cfg.Corpus.Stemming = true
	enc, err = New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "hash-32-stem", enc.Version())

	cfg.Embedding.Provider = "ollama"
	cfg.Embedding.RequestsPerSecond = 5
	enc, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &RateLimitedEncoder{}, enc)

	cfg.Embedding.Provider = "word2vec"
	_, err = New(cfg)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}
