package config

import (
	"github.com/starx-inc/airbyte/airbytecdk"
)

// Spec declares the connector configuration form: three required sections plus
// omit_raw_text, with embedding providers and text splitting strategies expressed as
// oneOf groups discriminated by a const `mode` field.
func Spec() *airbyte.ConnectorSpecification {
	return &airbyte.ConnectorSpecification{
		DocumentationURL: "https://docs.airbyte.com/integrations/destinations/pgvector",
		SupportedDestinationSyncModes: []airbyte.DestinationSyncMode{
			airbyte.DestinationSyncModeOverwrite,
			airbyte.DestinationSyncModeAppend,
			airbyte.DestinationSyncModeAppendDedup,
		},
		ConnectionSpecification: airbyte.ConnectionSpecification{
			Schema:   "http://json-schema.org/draft-07/schema#",
			Title:    "Postgres Vector Destination",
			Type:     "object",
			Required: []airbyte.PropertyName{"embedding", "processing", "indexing"},
			Properties: airbyte.Properties{
				Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
					"embedding":  embeddingSpec(),
					"processing": processingSpec(),
					"indexing":   indexingSpec(),
					"omit_raw_text": {
						Title:        "Do not store raw text",
						Description:  "Do not store the text that gets embedded along with the vector and the metadata in the destination. If set to true, only the vector and the metadata will be stored - the text is only used to compute the embedding.",
						PropertyType: airbyte.PropertyType{Type: airbyte.Boolean},
						Default:      false,
						Order:        3,
					},
				},
			},
		},
	}
}

func embeddingSpec() airbyte.PropertySpec {
	return airbyte.PropertySpec{
		Title:        "Embedding",
		Description:  "Embedding configuration",
		PropertyType: airbyte.PropertyType{Type: airbyte.Object},
		Order:        0,
		OneOf: []airbyte.PropertySpec{
			{
				Title:        "OpenAI",
				Description:  "Use the OpenAI API to embed text. This option is using the text-embedding-ada-002 model with 1536 embedding dimensions.",
				PropertyType: airbyte.PropertyType{Type: airbyte.Object},
				Required:     []airbyte.PropertyName{"mode", "openai_key"},
				Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
					"mode": {
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Const:        string(EmbeddingModeOpenAI),
					},
					"openai_key": {
						Title:        "OpenAI API key",
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						IsSecret:     true,
					},
				},
			},
			{
				Title:        "Cohere",
				Description:  "Use the Cohere API to embed text.",
				PropertyType: airbyte.PropertyType{Type: airbyte.Object},
				Required:     []airbyte.PropertyName{"mode", "cohere_key"},
				Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
					"mode": {
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Const:        string(EmbeddingModeCohere),
					},
					"cohere_key": {
						Title:        "Cohere API key",
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						IsSecret:     true,
					},
				},
			},
			{
				Title:        "Fake",
				Description:  "Use a fake embedding made out of random vectors with 1536 embedding dimensions. This is useful for testing the data pipeline without incurring any costs.",
				PropertyType: airbyte.PropertyType{Type: airbyte.Object},
				Required:     []airbyte.PropertyName{"mode"},
				Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
					"mode": {
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Const:        string(EmbeddingModeFake),
					},
				},
			},
			{
				Title:        "Azure OpenAI",
				Description:  "Use the Azure-hosted OpenAI API to embed text. This option is using the text-embedding-ada-002 model with 1536 embedding dimensions.",
				PropertyType: airbyte.PropertyType{Type: airbyte.Object},
				Required:     []airbyte.PropertyName{"mode", "openai_key", "api_base", "deployment"},
				Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
					"mode": {
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Const:        string(EmbeddingModeAzureOpenAI),
					},
					"openai_key": {
						Title:        "Azure OpenAI API key",
						Description:  "The API key for your Azure OpenAI resource. You can find this in the Azure portal under your Azure OpenAI resource",
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						IsSecret:     true,
					},
					"api_base": {
						Title:        "Resource base URL",
						Description:  "The base URL for your Azure OpenAI resource. You can find this in the Azure portal under your Azure OpenAI resource",
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Examples:     []string{"https://your-resource-name.openai.azure.com"},
					},
					"deployment": {
						Title:        "Deployment",
						Description:  "The deployment for your Azure OpenAI resource. You can find this in the Azure portal under your Azure OpenAI resource",
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Examples:     []string{"your-resource-name"},
					},
				},
			},
			{
				Title:        "OpenAI-compatible",
				Description:  "Use a service that's compatible with the OpenAI API to embed text.",
				PropertyType: airbyte.PropertyType{Type: airbyte.Object},
				Required:     []airbyte.PropertyName{"mode", "base_url", "dimensions"},
				Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
					"mode": {
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Const:        string(EmbeddingModeOpenAICompatible),
					},
					"api_key": {
						Title:        "API key",
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Default:      "",
						IsSecret:     true,
					},
					"base_url": {
						Title:        "Base URL",
						Description:  "The base URL for your OpenAI-compatible service",
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Examples:     []string{"https://your-service-name.com"},
					},
					"model_name": {
						Title:        "Model name",
						Description:  "The name of the model to use for embedding",
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Default:      DefaultCompatibleModelName,
						Examples:     []string{"text-embedding-ada-002"},
					},
					"dimensions": {
						Title:        "Embedding dimensions",
						Description:  "The number of dimensions the embedding model is generating",
						PropertyType: airbyte.PropertyType{Type: airbyte.Integer},
						Examples:     []string{"1536", "384"},
					},
				},
			},
		},
	}
}

func processingSpec() airbyte.PropertySpec {
	return airbyte.PropertySpec{
		Title:        "Processing",
		Description:  "Processing configuration",
		PropertyType: airbyte.PropertyType{Type: airbyte.Object},
		Required:     []airbyte.PropertyName{"chunk_size"},
		Order:        1,
		Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
			"chunk_size": {
				Title:        "Chunk size",
				Description:  "Size of chunks in tokens to store in vector store (make sure it is not too big for the context if your LLM)",
				PropertyType: airbyte.PropertyType{Type: airbyte.Integer},
				Minimum:      airbyte.IntRef(MinChunkSize),
				Maximum:      airbyte.IntRef(MaxChunkSize),
			},
			"chunk_overlap": {
				Title:        "Chunk overlap",
				Description:  "Size of overlap between chunks in tokens to store in vector store to better capture relevant context",
				PropertyType: airbyte.PropertyType{Type: airbyte.Integer},
				Default:      0,
			},
			"text_fields": {
				Title:        "Text fields to embed",
				Description:  "List of fields in the record that should be used to calculate the embedding. The field list is applied to all streams in the same way and non-existing fields are ignored. If none are defined, all fields are considered text fields. When specifying text fields, you can access nested fields in the record by using dot notation, e.g. user.name will access the name field in the user object. It's also possible to use wildcards to access all fields in an object, e.g. users.*.name will access all names fields in all entries of the users array.",
				PropertyType: airbyte.PropertyType{Type: airbyte.Array},
				Items:        &airbyte.PropertySpec{PropertyType: airbyte.PropertyType{Type: airbyte.String}},
				Examples:     []string{"text", "user.name", "users.*.name"},
			},
			"metadata_fields": {
				Title:        "Fields to store as metadata",
				Description:  "List of fields in the record that should be stored as metadata. The field list is applied to all streams in the same way and non-existing fields are ignored. If none are defined, all fields are considered metadata fields. When specifying metadata fields, you can access nested fields in the record by using dot notation, e.g. user.name will access the name field in the user object. It's also possible to use wildcards to access all fields in an object, e.g. users.*.name will access all names fields in all entries of the users array. When specifying nested paths, all matching values are flattened into an array set to a field named by the path.",
				PropertyType: airbyte.PropertyType{Type: airbyte.Array},
				Items:        &airbyte.PropertySpec{PropertyType: airbyte.PropertyType{Type: airbyte.String}},
				Examples:     []string{"age", "user.name", "users.*.name"},
			},
			"field_name_mappings": {
				Title:        "Field name mappings",
				Description:  "List of fields to rename. Not applicable for nested fields, but can be used to rename fields already flattened via dot notation.",
				PropertyType: airbyte.PropertyType{Type: airbyte.Array},
				Items: &airbyte.PropertySpec{
					Title:        "Field name mapping",
					PropertyType: airbyte.PropertyType{Type: airbyte.Object},
					Required:     []airbyte.PropertyName{"from_field", "to_field"},
					Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
						"from_field": {
							Title:        "From field name",
							Description:  "The field name in the source",
							PropertyType: airbyte.PropertyType{Type: airbyte.String},
						},
						"to_field": {
							Title:        "To field name",
							Description:  "The field name to use in the destination",
							PropertyType: airbyte.PropertyType{Type: airbyte.String},
						},
					},
				},
			},
			"text_splitter": textSplitterSpec(),
		},
	}
}

func textSplitterSpec() airbyte.PropertySpec {
	return airbyte.PropertySpec{
		Title:        "Text splitter",
		Description:  "Split text fields into chunks based on the specified method.",
		PropertyType: airbyte.PropertyType{Type: airbyte.Object},
		OneOf: []airbyte.PropertySpec{
			{
				Title:        "By Separator",
				Description:  "Split the text by the list of separators until the chunk size is reached, using the earlier mentioned separators where possible. This is useful for splitting text fields by paragraphs, sentences, words, etc.",
				PropertyType: airbyte.PropertyType{Type: airbyte.Object},
				Required:     []airbyte.PropertyName{"mode"},
				Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
					"mode": {
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Const:        string(SplitterModeSeparator),
					},
					"separators": {
						Title:        "Separators",
						Description:  "List of separator strings to split text fields by, in order of priority. Each separator must be wrapped in quotes and escape sequences are supported, e.g. \"\\n\\n\" for a paragraph break.",
						PropertyType: airbyte.PropertyType{Type: airbyte.Array},
						Items:        &airbyte.PropertySpec{PropertyType: airbyte.PropertyType{Type: airbyte.String}},
						Default:      DefaultSeparators,
					},
					"keep_separator": {
						Title:        "Keep separator",
						Description:  "Whether to keep the separator in the resulting chunks",
						PropertyType: airbyte.PropertyType{Type: airbyte.Boolean},
						Default:      false,
					},
				},
			},
			{
				Title:        "By Markdown header",
				Description:  "Split the text by Markdown headers down to the specified header level. If the chunk size fits multiple sections, they will be combined into a single chunk.",
				PropertyType: airbyte.PropertyType{Type: airbyte.Object},
				Required:     []airbyte.PropertyName{"mode"},
				Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
					"mode": {
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Const:        string(SplitterModeMarkdown),
					},
					"split_level": {
						Title:        "Split level",
						Description:  "Level of markdown headers to split text fields by. Headings down to the specified level will be used as split points",
						PropertyType: airbyte.PropertyType{Type: airbyte.Integer},
						Default:      MinSplitLevel,
						Minimum:      airbyte.IntRef(MinSplitLevel),
						Maximum:      airbyte.IntRef(MaxSplitLevel),
					},
				},
			},
			{
				Title:        "By Programming Language",
				Description:  "Split the text by suitable delimiters based on the programming language. This is useful for splitting code into chunks.",
				PropertyType: airbyte.PropertyType{Type: airbyte.Object},
				Required:     []airbyte.PropertyName{"mode", "language"},
				Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
					"mode": {
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Const:        string(SplitterModeCode),
					},
					"language": {
						Title:        "Language",
						Description:  "Split code in suitable places based on the programming language",
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Enum:         languageEnum(),
					},
				},
			},
		},
	}
}

func languageEnum() []any {
	enum := make([]any, len(SplitterLanguages))
	for i, language := range SplitterLanguages {
		enum[i] = language
	}
	return enum
}

func indexingSpec() airbyte.PropertySpec {
	return airbyte.PropertySpec{
		Title:        "Postgres connection",
		Description:  "Postgres can be used to store vector data and retrieve embeddings.",
		PropertyType: airbyte.PropertyType{Type: airbyte.Object},
		Required:     []airbyte.PropertyName{"host", "database", "username", "credentials"},
		Order:        2,
		Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
			"host": {
				Title:        "Host",
				Description:  "Enter the account name you want to use to access the database.",
				PropertyType: airbyte.PropertyType{Type: airbyte.String},
				Examples:     []string{"AIRBYTE_ACCOUNT"},
				Order:        1,
			},
			"port": {
				Title:        "Port",
				Description:  "Enter the port you want to use to access the database",
				PropertyType: airbyte.PropertyType{Type: airbyte.Integer},
				Default:      DefaultPort,
				Examples:     []string{"5432"},
				Order:        2,
			},
			"database": {
				Title:        "Database",
				Description:  "Enter the name of the database that you want to sync data into",
				PropertyType: airbyte.PropertyType{Type: airbyte.String},
				Examples:     []string{"AIRBYTE_DATABASE"},
				Order:        4,
			},
			"default_schema": {
				Title:        "Default Schema",
				Description:  "Enter the name of the default schema",
				PropertyType: airbyte.PropertyType{Type: airbyte.String},
				Default:      DefaultSchema,
				Examples:     []string{"AIRBYTE_SCHEMA"},
				Order:        5,
			},
			"username": {
				Title:        "Username",
				Description:  "Enter the name of the user you want to use to access the database",
				PropertyType: airbyte.PropertyType{Type: airbyte.String},
				Examples:     []string{"AIRBYTE_USER"},
				Order:        6,
			},
			"credentials": {
				Title:        "Credentials",
				PropertyType: airbyte.PropertyType{Type: airbyte.Object},
				Required:     []airbyte.PropertyName{"password"},
				Order:        7,
				Properties: map[airbyte.PropertyName]airbyte.PropertySpec{
					"password": {
						Title:        "Password",
						Description:  "Enter the password you want to use to access the database",
						PropertyType: airbyte.PropertyType{Type: airbyte.String},
						Examples:     []string{"AIRBYTE_PASSWORD"},
						IsSecret:     true,
					},
				},
			},
		},
	}
}
