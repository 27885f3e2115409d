// Package processor turns incoming records into text chunks ready for embedding.
// Field selection uses dot-paths, text is split with langchaingo splitters and chunk
// sizes are counted in tokens.
package processor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/starx-inc/airbyte/base/appbase"
	"github.com/starx-inc/airbyte/base/docpath"
	"github.com/starx-inc/airbyte/base/jsoniter"
	"github.com/starx-inc/airbyte/connectors/pgvector/config"
	"github.com/tmc/langchaingo/textsplitter"
)

// Chunk is one embeddable piece of a record. All chunks of a record share DocumentID,
// which is stable across syncs so dedup can replace stale chunks.
type Chunk struct {
	ID         string
	DocumentID string
	Text       string
	Metadata   map[string]any
}

// Processor converts records of one connection into chunks according to ProcessingConfig
type Processor struct {
	appbase.Service
	splitter  textsplitter.TextSplitter
	textPaths []docpath.Path
	metaPaths []docpath.Path
	mappings  []config.FieldNameMapping
}

// New builds a Processor from a validated ProcessingConfig. The paths were already
// checked by config validation so parse errors here indicate a programming error.
func New(cfg config.ProcessingConfig, lenFunc LenFunc) (*Processor, error) {
	base := appbase.NewServiceBase("processor")
	splitter, err := newTextSplitter(cfg, lenFunc)
	if err != nil {
		return nil, base.NewError("failed to init text splitter: %v", err)
	}
	textPaths, err := parsePaths(cfg.TextFields)
	if err != nil {
		return nil, base.NewError("invalid text field: %v", err)
	}
	metaPaths, err := parsePaths(cfg.MetadataFields)
	if err != nil {
		return nil, base.NewError("invalid metadata field: %v", err)
	}
	return &Processor{
		Service:   base,
		splitter:  splitter,
		textPaths: textPaths,
		metaPaths: metaPaths,
		mappings:  cfg.FieldNameMappings,
	}, nil
}

func parsePaths(rawPaths []string) ([]docpath.Path, error) {
	paths := make([]docpath.Path, 0, len(rawPaths))
	for _, raw := range rawPaths {
		path, err := docpath.Parse(raw)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Process renders the record into text, splits it and attaches metadata to every chunk.
// primaryKey is the configured key of the stream, used for a sync-stable document id;
// when the stream has no key the whole record identifies the document.
func (p *Processor) Process(data map[string]any, primaryKey [][]string) ([]Chunk, error) {
	text := p.renderText(data)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	documentID, err := p.documentID(data, primaryKey)
	if err != nil {
		return nil, p.NewError("failed to compute document id: %v", err)
	}
	metadata := p.extractMetadata(data)
	parts, err := p.splitter.SplitText(text)
	if err != nil {
		return nil, p.NewError("failed to split text: %v", err)
	}
	chunks := make([]Chunk, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, Chunk{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			Text:       part,
			Metadata:   metadata,
		})
	}
	return chunks, nil
}

// renderText stringifies the selected text fields as `path: value` lines. With no
// text fields configured the whole record is rendered, top-level keys in sorted order.
func (p *Processor) renderText(data map[string]any) string {
	var lines []string
	if len(p.textPaths) == 0 {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, k+": "+stringify(data[k]))
		}
	} else {
		for _, path := range p.textPaths {
			value, ok := path.Flatten(data)
			if !ok {
				continue
			}
			lines = append(lines, path.String()+": "+stringify(value))
		}
	}
	return strings.Join(lines, "\n")
}

// extractMetadata selects metadata fields keyed by their path and applies the
// configured renames. With no metadata fields configured the whole record is metadata.
func (p *Processor) extractMetadata(data map[string]any) map[string]any {
	metadata := map[string]any{}
	if len(p.metaPaths) == 0 {
		for k, v := range data {
			metadata[k] = v
		}
	} else {
		for _, path := range p.metaPaths {
			value, ok := path.Flatten(data)
			if !ok {
				continue
			}
			metadata[path.String()] = value
		}
	}
	for _, mapping := range p.mappings {
		value, ok := metadata[mapping.FromField]
		if !ok {
			continue
		}
		delete(metadata, mapping.FromField)
		metadata[mapping.ToField] = value
	}
	return metadata
}

func (p *Processor) documentID(data map[string]any, primaryKey [][]string) (string, error) {
	identity := any(data)
	if len(primaryKey) > 0 {
		keyValues := make([]any, 0, len(primaryKey))
		for _, keyPath := range primaryKey {
			path, err := docpath.Parse(strings.Join(keyPath, "."))
			if err != nil {
				return "", err
			}
			value, _ := path.First(data)
			keyValues = append(keyValues, value)
		}
		identity = keyValues
	}
	hash, err := hashstructure.Hash(identity, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", hash), nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		marshaled, err := jsoniter.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(marshaled)
	}
}
