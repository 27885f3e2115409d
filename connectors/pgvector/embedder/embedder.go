// Package embedder builds text embedding clients from the embedding section of the
// connector configuration. All variants are exposed through the langchaingo
// embeddings.Embedder interface together with their output dimensionality, which the
// indexer needs to declare vector columns.
package embedder

import (
	"fmt"

	"github.com/starx-inc/airbyte/base/utils"
	"github.com/starx-inc/airbyte/connectors/pgvector/config"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	openAIModel      = "text-embedding-ada-002"
	openAIDimensions = 1536

	cohereModel      = "embed-english-light-v2.0"
	cohereDimensions = 1024

	azureAPIVersion = "2023-05-15"

	// some openai compatible servers reject requests without a bearer token even
	// when they don't check it
	placeholderAPIKey = "no-key"
)

// New builds an embedder for the given variant and returns it together with the
// dimensionality of the vectors it produces
func New(cfg config.EmbeddingConfig) (embeddings.Embedder, int, error) {
	switch variant := cfg.(type) {
	case config.OpenAIEmbedding:
		llm, err := openai.New(
			openai.WithToken(variant.OpenAIKey),
			openai.WithEmbeddingModel(openAIModel))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to init openai client: %v", err)
		}
		embedder, err := embeddings.NewEmbedder(llm)
		return embedder, openAIDimensions, err
	case config.AzureOpenAIEmbedding:
		llm, err := openai.New(
			openai.WithAPIType(openai.APITypeAzure),
			openai.WithToken(variant.OpenAIKey),
			openai.WithBaseURL(variant.APIBase),
			openai.WithAPIVersion(azureAPIVersion),
			openai.WithEmbeddingModel(variant.Deployment))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to init azure openai client: %v", err)
		}
		embedder, err := embeddings.NewEmbedder(llm)
		return embedder, openAIDimensions, err
	case config.OpenAICompatibleEmbedding:
		llm, err := openai.New(
			openai.WithToken(utils.NvlString(variant.APIKey, placeholderAPIKey)),
			openai.WithBaseURL(variant.BaseURL),
			openai.WithEmbeddingModel(utils.NvlString(variant.ModelName, config.DefaultCompatibleModelName)))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to init openai compatible client: %v", err)
		}
		embedder, err := embeddings.NewEmbedder(llm)
		return embedder, variant.Dimensions, err
	case config.CohereEmbedding:
		embedder, err := embeddings.NewEmbedder(newCohereClient(variant.CohereKey, cohereModel))
		return embedder, cohereDimensions, err
	case config.FakeEmbedding:
		embedder, err := embeddings.NewEmbedder(fakeClient{dimensions: openAIDimensions})
		return embedder, openAIDimensions, err
	case nil:
		return nil, 0, fmt.Errorf("embedding is not configured")
	default:
		return nil, 0, fmt.Errorf("unsupported embedding variant: %T", variant)
	}
}
