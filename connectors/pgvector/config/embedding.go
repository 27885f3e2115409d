package config

// EmbeddingMode discriminates the embedding provider variants
type EmbeddingMode string

const (
	EmbeddingModeOpenAI           EmbeddingMode = "openai"
	EmbeddingModeCohere           EmbeddingMode = "cohere"
	EmbeddingModeFake             EmbeddingMode = "fake"
	EmbeddingModeAzureOpenAI      EmbeddingMode = "azure_openai"
	EmbeddingModeOpenAICompatible EmbeddingMode = "openai_compatible"
)

// DefaultCompatibleModelName is assumed when an openai_compatible endpoint doesn't declare a model
const DefaultCompatibleModelName = "text-embedding-ada-002"

// EmbeddingConfig is the tagged union over embedding providers. Exactly one variant is
// populated; EmbeddingMode() returns the variant's fixed discriminator literal.
type EmbeddingConfig interface {
	EmbeddingMode() EmbeddingMode
}

// OpenAIEmbedding uses the OpenAI API with the text-embedding-ada-002 model (1536 dimensions)
type OpenAIEmbedding struct {
	Mode      EmbeddingMode `mapstructure:"mode" json:"mode"`
	OpenAIKey string        `mapstructure:"openai_key" json:"openai_key"`
}

func (OpenAIEmbedding) EmbeddingMode() EmbeddingMode { return EmbeddingModeOpenAI }

// CohereEmbedding uses the Cohere API with the embed-english-light-v2.0 model (1024 dimensions)
type CohereEmbedding struct {
	Mode      EmbeddingMode `mapstructure:"mode" json:"mode"`
	CohereKey string        `mapstructure:"cohere_key" json:"cohere_key"`
}

func (CohereEmbedding) EmbeddingMode() EmbeddingMode { return EmbeddingModeCohere }

// FakeEmbedding produces deterministic local vectors, for testing pipelines without spending API credits
type FakeEmbedding struct {
	Mode EmbeddingMode `mapstructure:"mode" json:"mode"`
}

func (FakeEmbedding) EmbeddingMode() EmbeddingMode { return EmbeddingModeFake }

// AzureOpenAIEmbedding uses a text-embedding-ada-002 deployment on the Azure OpenAI service
type AzureOpenAIEmbedding struct {
	Mode       EmbeddingMode `mapstructure:"mode" json:"mode"`
	OpenAIKey  string        `mapstructure:"openai_key" json:"openai_key"`
	APIBase    string        `mapstructure:"api_base" json:"api_base"`
	Deployment string        `mapstructure:"deployment" json:"deployment"`
}

func (AzureOpenAIEmbedding) EmbeddingMode() EmbeddingMode { return EmbeddingModeAzureOpenAI }

// OpenAICompatibleEmbedding targets any service exposing the OpenAI embeddings API shape
type OpenAICompatibleEmbedding struct {
	Mode       EmbeddingMode `mapstructure:"mode" json:"mode"`
	APIKey     string        `mapstructure:"api_key" json:"api_key"`
	BaseURL    string        `mapstructure:"base_url" json:"base_url"`
	ModelName  string        `mapstructure:"model_name" json:"model_name"`
	Dimensions int           `mapstructure:"dimensions" json:"dimensions"`
}

func (OpenAICompatibleEmbedding) EmbeddingMode() EmbeddingMode { return EmbeddingModeOpenAICompatible }

var embeddingModes = []EmbeddingMode{
	EmbeddingModeOpenAI,
	EmbeddingModeCohere,
	EmbeddingModeFake,
	EmbeddingModeAzureOpenAI,
	EmbeddingModeOpenAICompatible,
}
