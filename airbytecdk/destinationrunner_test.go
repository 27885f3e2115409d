package airbyte

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDestination remembers everything the runner hands it
type recordingDestination struct {
	checkErr error
	writeErr error

	checkedPath string
	catalog     *ConfiguredCatalog
	records     []*InputRecord
	states      []any
}

func (d *recordingDestination) Spec(_ LogTracker) (*ConnectorSpecification, error) {
	return &ConnectorSpecification{
		DocumentationURL: "https://example.com",
		ConnectionSpecification: ConnectionSpecification{
			Title: "Recording Destination",
			Type:  "object",
		},
	}, nil
}

func (d *recordingDestination) Check(dstCfgPath string, _ LogTracker) error {
	d.checkedPath = dstCfgPath
	return d.checkErr
}

func (d *recordingDestination) Write(_ string, configuredCat *ConfiguredCatalog, input *MessageIterator,
	tracker MessageTracker) error {
	if d.writeErr != nil {
		return d.writeErr
	}
	d.catalog = configuredCat
	for {
		msg, err := input.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch msg.Type {
		case MessageTypeRecord:
			d.records = append(d.records, msg.Record)
		case MessageTypeState:
			d.states = append(d.states, msg.State.Data)
			if err := tracker.State(msg.State.Data); err != nil {
				return err
			}
		}
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDestinationRunnerSpec(t *testing.T) {
	os.Args = []string{"dst", "spec"}
	var out bytes.Buffer
	runner := NewDestinationRunner(&recordingDestination{}, &out, strings.NewReader(""))
	require.NoError(t, runner.Start())
	assert.Contains(t, out.String(), `"type":"SPEC"`)
	assert.Contains(t, out.String(), "Recording Destination")
}

func TestDestinationRunnerCheck(t *testing.T) {
	configPath := writeTempFile(t, "config.json", `{}`)
	os.Args = []string{"dst", "check", "--config", configPath}

	var out bytes.Buffer
	dst := &recordingDestination{}
	runner := NewDestinationRunner(dst, &out, strings.NewReader(""))
	require.NoError(t, runner.Start())
	assert.Equal(t, configPath, dst.checkedPath)
	assert.Contains(t, out.String(), `"status":"SUCCEEDED"`)
}

func TestDestinationRunnerCheckFailure(t *testing.T) {
	configPath := writeTempFile(t, "config.json", `{}`)
	os.Args = []string{"dst", "check", "--config", configPath}

	var out bytes.Buffer
	dst := &recordingDestination{checkErr: fmt.Errorf("cannot reach database")}
	runner := NewDestinationRunner(dst, &out, strings.NewReader(""))
	require.NoError(t, runner.Start())
	assert.Contains(t, out.String(), `"status":"FAILED"`)
	assert.Contains(t, out.String(), "cannot reach database")
}

func TestDestinationRunnerWrite(t *testing.T) {
	configPath := writeTempFile(t, "config.json", `{}`)
	catalogPath := writeTempFile(t, "catalog.json", `{
		"streams": [{"stream": {"name": "users", "json_schema": {}},
			"sync_mode": "full_refresh", "destination_sync_mode": "append"}]
	}`)
	os.Args = []string{"dst", "write", "--config", configPath, "--catalog", catalogPath}

	input := strings.Join([]string{
		`{"type": "RECORD", "record": {"stream": "users", "emitted_at": 1, "data": {"id": 1}}}`,
		`{"type": "LOG", "log": {"level": "INFO", "message": "ignored by the iterator"}}`,
		`{"type": "RECORD", "record": {"stream": "users", "emitted_at": 2, "data": {"id": 2}}}`,
		`{"type": "STATE", "state": {"data": {"cursor": "2"}}}`,
	}, "\n")

	var out bytes.Buffer
	dst := &recordingDestination{}
	runner := NewDestinationRunner(dst, &out, strings.NewReader(input))
	require.NoError(t, runner.Start())

	require.Len(t, dst.records, 2)
	assert.Equal(t, "users", dst.records[0].Stream)
	assert.Equal(t, float64(2), dst.records[1].Data["id"])
	require.Len(t, dst.states, 1)
	require.NotNil(t, dst.catalog)
	assert.Equal(t, "users", dst.catalog.Streams[0].Stream.Name)
	// echoed state shows up on the wire
	assert.Contains(t, out.String(), `"type":"STATE"`)
	assert.Contains(t, out.String(), `"cursor":"2"`)
}

func TestDestinationRunnerWriteFailureEmitsTrace(t *testing.T) {
	configPath := writeTempFile(t, "config.json", `{}`)
	catalogPath := writeTempFile(t, "catalog.json", `{"streams": []}`)
	os.Args = []string{"dst", "write", "--config", configPath, "--catalog", catalogPath}

	var out bytes.Buffer
	dst := &recordingDestination{writeErr: fmt.Errorf("disk full")}
	runner := NewDestinationRunner(dst, &out, strings.NewReader(""))
	require.Error(t, runner.Start())
	assert.Contains(t, out.String(), `"type":"TRACE"`)
	assert.Contains(t, out.String(), "disk full")
}

func TestDestinationRunnerUnknownCommand(t *testing.T) {
	os.Args = []string{"dst", "frobnicate"}
	runner := NewDestinationRunner(&recordingDestination{}, &bytes.Buffer{}, strings.NewReader(""))
	require.Error(t, runner.Start())
}

func TestMessageIterator(t *testing.T) {
	input := strings.Join([]string{
		`{"type": "LOG", "log": {"level": "INFO", "message": "skipped"}}`,
		`{"type": "RECORD", "record": {"stream": "users", "data": {"id": 1}}}`,
		`{"type": "STATE", "state": {"data": "checkpoint"}}`,
	}, "\n")
	it := NewMessageIterator(strings.NewReader(input))

	msg, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, MessageTypeRecord, msg.Type)

	msg, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, MessageTypeState, msg.Type)
	assert.Equal(t, "checkpoint", msg.State.Data)

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, int64(1), it.RecordCount())
}
