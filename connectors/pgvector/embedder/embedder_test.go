package embedder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starx-inc/airbyte/base/jsoniter"
	"github.com/starx-inc/airbyte/connectors/pgvector/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensionsPerVariant(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.EmbeddingConfig
		dimensions int
	}{
		{"openai", config.OpenAIEmbedding{Mode: config.EmbeddingModeOpenAI, OpenAIKey: "sk-test"}, 1536},
		{"azure", config.AzureOpenAIEmbedding{
			Mode: config.EmbeddingModeAzureOpenAI, OpenAIKey: "key",
			APIBase: "https://example.openai.azure.com", Deployment: "ada",
		}, 1536},
		{"cohere", config.CohereEmbedding{Mode: config.EmbeddingModeCohere, CohereKey: "key"}, 1024},
		{"fake", config.FakeEmbedding{Mode: config.EmbeddingModeFake}, 1536},
		{"compatible", config.OpenAICompatibleEmbedding{
			Mode: config.EmbeddingModeOpenAICompatible, BaseURL: "http://localhost:8080",
			ModelName: "all-minilm", Dimensions: 384,
		}, 384},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder, dimensions, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, embedder)
			assert.Equal(t, tt.dimensions, dimensions)
		})
	}
}

func TestNewRejectsMissingVariant(t *testing.T) {
	_, _, err := New(nil)
	require.Error(t, err)
}

func TestFakeEmbedderIsDeterministic(t *testing.T) {
	embedder, dimensions, err := New(config.FakeEmbedding{Mode: config.EmbeddingModeFake})
	require.NoError(t, err)

	first, err := embedder.EmbedQuery(context.Background(), "some text")
	require.NoError(t, err)
	assert.Len(t, first, dimensions)

	second, err := embedder.EmbedQuery(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := embedder.EmbedQuery(context.Background(), "other text")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestFakeEmbedderBatch(t *testing.T) {
	embedder, dimensions, err := New(config.FakeEmbedding{Mode: config.EmbeddingModeFake})
	require.NoError(t, err)

	vectors, err := embedder.EmbedDocuments(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, vector := range vectors {
		assert.Len(t, vector, dimensions)
	}
}

func TestCohereClient(t *testing.T) {
	var gotAuth string
	var gotRequest cohereEmbedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, jsoniter.NewDecoder(r.Body).Decode(&gotRequest))
		response := cohereEmbedResponse{Embeddings: make([][]float32, len(gotRequest.Texts))}
		for i := range response.Embeddings {
			response.Embeddings[i] = []float32{float32(i), 1}
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, jsoniter.NewEncoder(w).Encode(response))
	}))
	defer server.Close()

	client := newCohereClient("co-key", "embed-english-light-v2.0")
	client.embedURL = server.URL

	vectors, err := client.CreateEmbedding(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 1}, vectors[1])
	assert.Equal(t, "Bearer co-key", gotAuth)
	assert.Equal(t, "embed-english-light-v2.0", gotRequest.Model)
	assert.Equal(t, "END", gotRequest.Truncate)
}

func TestCohereClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid api token"}`))
	}))
	defer server.Close()

	client := newCohereClient("bad-key", "embed-english-light-v2.0")
	client.embedURL = server.URL

	_, err := client.CreateEmbedding(context.Background(), []string{"one"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api token")
}
