package config

import (
	"fmt"
	"net/url"
)

// DefaultPort and DefaultSchema are applied when indexing config omits them
const (
	DefaultPort   = 5432
	DefaultSchema = "public"
)

// Credentials holds the secret part of the indexing connection parameters
type Credentials struct {
	Password string `mapstructure:"password" json:"password"`
}

// IndexingConfig holds connection parameters of the postgres instance with the pgvector
// extension that receives the embedded chunks
type IndexingConfig struct {
	Host          string      `mapstructure:"host" json:"host"`
	Port          int         `mapstructure:"port" json:"port"`
	Database      string      `mapstructure:"database" json:"database"`
	DefaultSchema string      `mapstructure:"default_schema" json:"default_schema"`
	Username      string      `mapstructure:"username" json:"username"`
	Credentials   Credentials `mapstructure:"credentials" json:"credentials"`
}

// URL renders a postgres connection url with the search_path pointing at DefaultSchema.
// Credentials and the database name are url-escaped: passwords routinely carry reserved
// characters like @ or / and must not change how the url parses.
func (ic *IndexingConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(ic.Username, ic.Credentials.Password),
		Host:     fmt.Sprintf("%s:%d", ic.Host, ic.Port),
		Path:     "/" + ic.Database,
		RawQuery: url.Values{"search_path": {ic.DefaultSchema}}.Encode(),
	}
	return u.String()
}

// ConnectorConfig is the fully validated and normalized destination configuration.
// It is constructed once per invocation by Validate and never mutated afterwards.
type ConnectorConfig struct {
	Embedding   EmbeddingConfig  `mapstructure:"-" json:"embedding"`
	Processing  ProcessingConfig `mapstructure:"processing" json:"processing"`
	Indexing    IndexingConfig   `mapstructure:"indexing" json:"indexing"`
	OmitRawText bool             `mapstructure:"omit_raw_text" json:"omit_raw_text"`
}
