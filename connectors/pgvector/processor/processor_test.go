package processor

import (
	"testing"
	"unicode/utf8"

	"github.com/starx-inc/airbyte/connectors/pgvector/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(t *testing.T, cfg config.ProcessingConfig) *Processor {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.TextSplitter == nil {
		cfg.TextSplitter = config.SeparatorSplitter{
			Mode:       config.SplitterModeSeparator,
			Separators: config.DefaultSeparators,
		}
	}
	p, err := New(cfg, utf8.RuneCountInString)
	require.NoError(t, err)
	return p
}

func testRecord() map[string]any {
	return map[string]any{
		"id":    float64(42),
		"title": "Postgres as a vector store",
		"body":  "pgvector adds approximate nearest neighbor search to postgres.",
		"author": map[string]any{
			"name":  "ada",
			"email": "ada@example.com",
		},
		"tags": []any{"postgres", "vectors"},
	}
}

func TestTextFieldSelection(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{
		TextFields: []string{"title", "body"},
	})
	chunks, err := p.Process(testRecord(), nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "title: Postgres as a vector store\nbody: pgvector adds approximate nearest neighbor search to postgres.", chunks[0].Text)
}

func TestWholeRecordTextWhenNoFieldsConfigured(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{})
	chunks, err := p.Process(testRecord(), nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	// top-level keys rendered in sorted order
	assert.Contains(t, chunks[0].Text, "author: {\"email\":\"ada@example.com\",\"name\":\"ada\"}")
	assert.Contains(t, chunks[0].Text, "id: 42")
	assert.Contains(t, chunks[0].Text, "tags: [\"postgres\",\"vectors\"]")
}

func TestNestedAndWildcardTextFields(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{
		TextFields: []string{"author.name", "tags.*"},
	})
	chunks, err := p.Process(testRecord(), nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "author.name: ada\ntags.*: [\"postgres\",\"vectors\"]", chunks[0].Text)
}

func TestMissingTextFieldsAreSkipped(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{
		TextFields: []string{"nope", "title"},
	})
	chunks, err := p.Process(testRecord(), nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "title: Postgres as a vector store", chunks[0].Text)
}

func TestEmptyTextYieldsNoChunks(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{
		TextFields: []string{"nope"},
	})
	chunks, err := p.Process(testRecord(), nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestMetadataSelectionAndMapping(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{
		TextFields:     []string{"body"},
		MetadataFields: []string{"id", "author.name"},
		FieldNameMappings: []config.FieldNameMapping{
			{FromField: "author.name", ToField: "author"},
		},
	})
	chunks, err := p.Process(testRecord(), nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, map[string]any{
		"id":     float64(42),
		"author": "ada",
	}, chunks[0].Metadata)
}

func TestWholeRecordMetadataWhenNoFieldsConfigured(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{
		TextFields: []string{"body"},
	})
	chunks, err := p.Process(testRecord(), nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, float64(42), chunks[0].Metadata["id"])
	assert.Equal(t, "Postgres as a vector store", chunks[0].Metadata["title"])
}

func TestMappingOfAbsentFieldIsNoop(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{
		TextFields:     []string{"body"},
		MetadataFields: []string{"id"},
		FieldNameMappings: []config.FieldNameMapping{
			{FromField: "missing", ToField: "renamed"},
		},
	})
	chunks, err := p.Process(testRecord(), nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, map[string]any{"id": float64(42)}, chunks[0].Metadata)
}

func TestDocumentIDStableAcrossSyncs(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{TextFields: []string{"body"}})
	primaryKey := [][]string{{"id"}}

	first, err := p.Process(testRecord(), primaryKey)
	require.NoError(t, err)
	// same key, different payload: same document
	updated := testRecord()
	updated["body"] = "updated body"
	second, err := p.Process(updated, primaryKey)
	require.NoError(t, err)
	assert.Equal(t, first[0].DocumentID, second[0].DocumentID)

	// different key: different document
	other := testRecord()
	other["id"] = float64(43)
	third, err := p.Process(other, primaryKey)
	require.NoError(t, err)
	assert.NotEqual(t, first[0].DocumentID, third[0].DocumentID)
}

func TestDocumentIDWithoutPrimaryKeyHashesRecord(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{TextFields: []string{"body"}})
	first, err := p.Process(testRecord(), nil)
	require.NoError(t, err)
	second, err := p.Process(testRecord(), nil)
	require.NoError(t, err)
	assert.Equal(t, first[0].DocumentID, second[0].DocumentID)

	changed := testRecord()
	changed["body"] = "something else"
	third, err := p.Process(changed, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first[0].DocumentID, third[0].DocumentID)
}

func TestChunkIDsAreUnique(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{
		ChunkSize:  20,
		TextFields: []string{"body"},
	})
	chunks, err := p.Process(testRecord(), nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	seen := map[string]bool{}
	for _, chunk := range chunks {
		assert.False(t, seen[chunk.ID])
		seen[chunk.ID] = true
		assert.Equal(t, chunks[0].DocumentID, chunk.DocumentID)
	}
}

func TestMarkdownSplitter(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{
		ChunkSize:  40,
		TextFields: []string{"doc"},
		TextSplitter: config.MarkdownSplitter{
			Mode:       config.SplitterModeMarkdown,
			SplitLevel: 2,
		},
	})
	record := map[string]any{
		"doc": "# Guide\nintro text goes here\n## Install\nrun the installer\n## Usage\ncall the api",
	}
	chunks, err := p.Process(record, nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	found := false
	for _, chunk := range chunks {
		if chunk.Text == "## Install\nrun the installer" {
			found = true
		}
	}
	assert.True(t, found, "expected a chunk bounded by the level 2 header")
}

func TestCodeSplitterRejectsUnknownLanguage(t *testing.T) {
	_, err := New(config.ProcessingConfig{
		ChunkSize: 100,
		TextSplitter: config.CodeSplitter{
			Mode:     config.SplitterModeCode,
			Language: "cobol",
		},
	}, utf8.RuneCountInString)
	require.Error(t, err)
}

func TestSeparatorLiteralsAreDecoded(t *testing.T) {
	p := newTestProcessor(t, config.ProcessingConfig{
		ChunkSize:  10,
		TextFields: []string{"body"},
		TextSplitter: config.SeparatorSplitter{
			Mode:       config.SplitterModeSeparator,
			Separators: []string{`"---"`, `" "`, `""`},
		},
	})
	record := map[string]any{"body": "first part---second part"}
	chunks, err := p.Process(record, nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.NotContains(t, chunk.Text, "---")
	}
}
