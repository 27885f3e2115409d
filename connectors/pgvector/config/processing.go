package config

// Bounds of ProcessingConfig scalars
const (
	MinChunkSize = 1
	// MaxChunkSize is dictated by the 8191 token context window of embedding models
	MaxChunkSize  = 8191
	MinSplitLevel = 1
	MaxSplitLevel = 6
)

// SplitterMode discriminates the text splitting strategy variants
type SplitterMode string

const (
	SplitterModeSeparator SplitterMode = "separator"
	SplitterModeMarkdown  SplitterMode = "markdown"
	SplitterModeCode      SplitterMode = "code"
)

// DefaultSeparators are JSON string literals: paragraph, newline, space and empty string
var DefaultSeparators = []string{`"\n\n"`, `"\n"`, `" "`, `""`}

// SplitterLanguages are the programming languages the code splitter knows separator sets for
var SplitterLanguages = []string{
	"cpp", "go", "java", "js", "php", "proto", "python", "rst", "ruby", "rust",
	"scala", "swift", "markdown", "latex", "html", "sol",
}

// TextSplitterConfig is the tagged union over text splitting strategies, discriminated by `mode`
type TextSplitterConfig interface {
	SplitterMode() SplitterMode
}

// SeparatorSplitter splits text on the given list of separators, in order of preference
type SeparatorSplitter struct {
	Mode SplitterMode `mapstructure:"mode" json:"mode"`
	// Separators are JSON string literals so control characters survive the form, e.g. "\n\n"
	Separators    []string `mapstructure:"separators" json:"separators"`
	KeepSeparator bool     `mapstructure:"keep_separator" json:"keep_separator"`
}

func (SeparatorSplitter) SplitterMode() SplitterMode { return SplitterModeSeparator }

// MarkdownSplitter splits text on markdown headers down to SplitLevel
type MarkdownSplitter struct {
	Mode       SplitterMode `mapstructure:"mode" json:"mode"`
	SplitLevel int          `mapstructure:"split_level" json:"split_level"`
}

func (MarkdownSplitter) SplitterMode() SplitterMode { return SplitterModeMarkdown }

// CodeSplitter splits source code along the syntactic boundaries of Language
type CodeSplitter struct {
	Mode     SplitterMode `mapstructure:"mode" json:"mode"`
	Language string       `mapstructure:"language" json:"language"`
}

func (CodeSplitter) SplitterMode() SplitterMode { return SplitterModeCode }

// FieldNameMapping renames a document field before it is stored as metadata
type FieldNameMapping struct {
	FromField string `mapstructure:"from_field" json:"from_field"`
	ToField   string `mapstructure:"to_field" json:"to_field"`
}

// ProcessingConfig controls how incoming records are turned into text chunks
type ProcessingConfig struct {
	// ChunkSize is measured in tokens, not characters
	ChunkSize    int `mapstructure:"chunk_size" json:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap" json:"chunk_overlap"`
	// TextFields are dot-paths into the record; empty means all fields are text
	TextFields []string `mapstructure:"text_fields" json:"text_fields"`
	// MetadataFields are dot-paths into the record; empty means all fields are metadata
	MetadataFields    []string           `mapstructure:"metadata_fields" json:"metadata_fields"`
	FieldNameMappings []FieldNameMapping `mapstructure:"field_name_mappings" json:"field_name_mappings"`
	TextSplitter      TextSplitterConfig `mapstructure:"-" json:"text_splitter"`
}

var splitterModes = []SplitterMode{
	SplitterModeSeparator,
	SplitterModeMarkdown,
	SplitterModeCode,
}
