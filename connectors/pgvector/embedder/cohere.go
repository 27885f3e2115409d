package embedder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/starx-inc/airbyte/base/jsoniter"
)

const cohereEmbedURL = "https://api.cohere.ai/v1/embed"

// cohereClient implements embeddings.EmbedderClient over the cohere embed REST API
type cohereClient struct {
	apiKey     string
	model      string
	embedURL   string
	httpClient *http.Client
}

func newCohereClient(apiKey, model string) *cohereClient {
	return &cohereClient{
		apiKey:   apiKey,
		model:    model,
		embedURL: cohereEmbedURL,
		httpClient: &http.Client{
			Timeout: time.Minute,
		},
	}
}

type cohereEmbedRequest struct {
	Texts    []string `json:"texts"`
	Model    string   `json:"model"`
	Truncate string   `json:"truncate"`
}

type cohereEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Message    string      `json:"message"`
}

func (c *cohereClient) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	payload, err := jsoniter.Marshal(cohereEmbedRequest{
		Texts:    texts,
		Model:    c.model,
		Truncate: "END",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.embedURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read embed response: %v", err)
	}
	var embedResponse cohereEmbedResponse
	if err := jsoniter.Unmarshal(body, &embedResponse); err != nil {
		return nil, fmt.Errorf("failed to parse embed response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed request returned status %d: %s", resp.StatusCode, embedResponse.Message)
	}
	if len(embedResponse.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed response has %d embeddings for %d texts", len(embedResponse.Embeddings), len(texts))
	}
	return embedResponse.Embeddings, nil
}
