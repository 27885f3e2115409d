package airbyte

import (
	"bytes"
	"strings"
	"testing"

	"github.com/starx-inc/airbyte/base/jsoniter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageMarshalValidation(t *testing.T) {
	// payload must match the declared type
	_, err := jsoniter.Marshal(&message{
		Type:  MessageTypeRecord,
		State: &state{Data: map[string]any{"cursor": 1}},
	})
	require.Error(t, err)

	_, err = jsoniter.Marshal(&message{
		Type:   MessageTypeRecord,
		Record: &record{Stream: "users", Data: map[string]any{"id": 1}},
		State:  &state{Data: "extra"},
	})
	require.Error(t, err)

	b, err := jsoniter.Marshal(&message{
		Type:   MessageTypeRecord,
		Record: &record{Stream: "users", Data: map[string]any{"id": 1}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"RECORD"`)
	assert.Contains(t, string(b), `"stream":"users"`)
}

func TestWriters(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, newRecordWriter(&buf)(map[string]any{"id": 7}, "users", "ns"))
	require.NoError(t, newStateWriter(&buf)(map[string]any{"cursor": "abc"}))
	require.NoError(t, newLogWriter(&buf)(LogLevelInfo, "hello"))
	require.NoError(t, newTraceWriter(&buf)(&TraceMessage{
		Type:  TraceTypeError,
		Error: &ErrorTraceMessage{Message: "boom", FailureType: FailureTypeConfig},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var recordMsg struct {
		Type   MessageType `json:"type"`
		Record struct {
			Stream    string         `json:"stream"`
			Namespace string         `json:"namespace"`
			EmittedAt int64          `json:"emitted_at"`
			Data      map[string]any `json:"data"`
		} `json:"record"`
	}
	require.NoError(t, jsoniter.Unmarshal([]byte(lines[0]), &recordMsg))
	assert.Equal(t, MessageTypeRecord, recordMsg.Type)
	assert.Equal(t, "users", recordMsg.Record.Stream)
	assert.Equal(t, "ns", recordMsg.Record.Namespace)
	assert.NotZero(t, recordMsg.Record.EmittedAt)

	assert.Contains(t, lines[1], `"type":"STATE"`)
	assert.Contains(t, lines[2], `"type":"LOG"`)
	assert.Contains(t, lines[3], `"type":"TRACE"`)
	assert.Contains(t, lines[3], `"failure_type":"config_error"`)
}

func TestConfiguredCatalogGetStream(t *testing.T) {
	catalog := &ConfiguredCatalog{Streams: []ConfiguredStream{
		{Stream: Stream{Name: "users"}},
		{Stream: Stream{Name: "orders", Namespace: "shop"}},
	}}

	stream, ok := catalog.GetStream("orders", "shop")
	require.True(t, ok)
	assert.Equal(t, "orders", stream.Stream.Name)

	_, ok = catalog.GetStream("orders", "")
	assert.False(t, ok)

	_, ok = catalog.GetStream("missing", "")
	assert.False(t, ok)
}
