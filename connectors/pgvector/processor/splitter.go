package processor

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"github.com/starx-inc/airbyte/connectors/pgvector/config"
	"github.com/tmc/langchaingo/textsplitter"
)

// chunk sizes are measured in tokens of the cl100k_base encoding used by the
// text-embedding family of models
const tokenEncoding = "cl100k_base"

// LenFunc measures text length for chunk sizing
type LenFunc func(string) int

// TokenLenFunc returns a token counting function backed by tiktoken. If the encoding
// cannot be loaded it degrades to counting runes, which produces smaller chunks than
// configured but never breaks a sync.
func TokenLenFunc() LenFunc {
	encoder, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return utf8.RuneCountInString
	}
	return func(s string) int {
		return len(encoder.Encode(s, nil, nil))
	}
}

// newTextSplitter translates the validated splitter variant into a langchaingo splitter.
// The switch is exhaustive over the closed set of variants.
func newTextSplitter(cfg config.ProcessingConfig, lenFunc LenFunc) (textsplitter.TextSplitter, error) {
	common := []textsplitter.Option{
		textsplitter.WithChunkSize(cfg.ChunkSize),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
		textsplitter.WithLenFunc(lenFunc),
	}
	switch variant := cfg.TextSplitter.(type) {
	case config.SeparatorSplitter:
		separators := make([]string, 0, len(variant.Separators))
		for _, literal := range variant.Separators {
			separator, err := config.ParseSeparator(literal)
			if err != nil {
				return nil, fmt.Errorf("invalid separator %q: %v", literal, err)
			}
			separators = append(separators, separator)
		}
		options := append(common,
			textsplitter.WithSeparators(separators),
			textsplitter.WithKeepSeparator(variant.KeepSeparator))
		return textsplitter.NewRecursiveCharacter(options...), nil
	case config.MarkdownSplitter:
		options := append(common,
			textsplitter.WithSeparators(headerSeparators(variant.SplitLevel)),
			textsplitter.WithKeepSeparator(true))
		return textsplitter.NewRecursiveCharacter(options...), nil
	case config.CodeSplitter:
		separators, ok := languageSeparators[variant.Language]
		if !ok {
			return nil, fmt.Errorf("unsupported language: %q", variant.Language)
		}
		options := append(common,
			textsplitter.WithSeparators(separators),
			textsplitter.WithKeepSeparator(true))
		return textsplitter.NewRecursiveCharacter(options...), nil
	case nil:
		return nil, fmt.Errorf("text splitter is not configured")
	default:
		return nil, fmt.Errorf("unsupported text splitter: %T", variant)
	}
}

// headerSeparators builds split points for markdown headings down to level, falling
// back to paragraph and line boundaries inside a section
func headerSeparators(level int) []string {
	separators := make([]string, 0, level+3)
	for i := 1; i <= level; i++ {
		prefix := ""
		for j := 0; j < i; j++ {
			prefix += "#"
		}
		separators = append(separators, "\n"+prefix+" ")
	}
	return append(separators, "\n\n", "\n", " ", "")
}
