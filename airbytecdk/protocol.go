package airbyte

import (
	"errors"
	"io"
	"time"

	"github.com/starx-inc/airbyte/base/jsoniter"
)

// Should conform to https://github.com/airbytehq/airbyte/blob/master/airbyte-protocol/protocol-models/src/main/resources/airbyte_protocol/airbyte_protocol.yaml

type cmd string

const (
	cmdSpec     cmd = "spec"
	cmdCheck    cmd = "check"
	cmdDiscover cmd = "discover"
	cmdRead     cmd = "read"
	cmdWrite    cmd = "write"
)

// MessageType distinguishes the kinds of messages travelling over the protocol in
// both directions.
type MessageType string

const (
	MessageTypeRecord         MessageType = "RECORD"
	MessageTypeState          MessageType = "STATE"
	MessageTypeLog            MessageType = "LOG"
	MessageTypeTrace          MessageType = "TRACE"
	MessageTypeConnectionStat MessageType = "CONNECTION_STATUS"
	MessageTypeCatalog        MessageType = "CATALOG"
	MessageTypeSpec           MessageType = "SPEC"
)

var errInvalidTypePayload = errors.New("message type and payload are invalid")

type message struct {
	Type                    MessageType       `json:"type"`
	Record                  *record           `json:"record,omitempty"`
	State                   *state            `json:"state,omitempty"`
	LogMessage              *logMessage       `json:"log,omitempty"`
	*TraceMessage           `json:"trace,omitempty"`
	*ConnectorSpecification `json:"spec,omitempty"`
	ConnectionStatus        *connectionStatus `json:"connectionStatus,omitempty"`
	*Catalog                `json:"catalog,omitempty"`
}

// message MarshalJSON is a custom marshaller which validates the MessageType with the sub-struct
func (m *message) MarshalJSON() ([]byte, error) {
	switch m.Type {
	case MessageTypeRecord:
		if m.Record == nil ||
			m.State != nil ||
			m.LogMessage != nil ||
			m.TraceMessage != nil ||
			m.ConnectionStatus != nil ||
			m.Catalog != nil {
			return nil, errInvalidTypePayload
		}
	case MessageTypeState:
		if m.State == nil ||
			m.Record != nil ||
			m.LogMessage != nil ||
			m.TraceMessage != nil ||
			m.ConnectionStatus != nil ||
			m.Catalog != nil {
			return nil, errInvalidTypePayload
		}
	case MessageTypeLog:
		if m.LogMessage == nil ||
			m.Record != nil ||
			m.State != nil ||
			m.TraceMessage != nil ||
			m.ConnectionStatus != nil ||
			m.Catalog != nil {
			return nil, errInvalidTypePayload
		}
	case MessageTypeTrace:
		if m.TraceMessage == nil ||
			m.Record != nil ||
			m.State != nil ||
			m.LogMessage != nil ||
			m.ConnectionStatus != nil ||
			m.Catalog != nil {
			return nil, errInvalidTypePayload
		}
	}

	type m2 message
	return jsoniter.Marshal(m2(*m))
}

// write emits data outbound from your source/destination to airbyte workers
func write(w io.Writer, m *message) error {
	return jsoniter.NewEncoder(w).Encode(m)
}

// record defines a record as per airbyte - a "data point"
type record struct {
	EmittedAt int64  `json:"emitted_at"`
	Namespace string `json:"namespace,omitempty"`
	Data      any    `json:"data"`
	Stream    string `json:"stream"`
}

// state is used to store data between syncs - useful for incremental syncs and state storage
type state struct {
	Data any `json:"data"`
}

// LogLevel defines the log levels that can be emitted with airbyte logs
type LogLevel string

const (
	LogLevelFatal LogLevel = "FATAL"
	LogLevelError LogLevel = "ERROR"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelTrace LogLevel = "TRACE"
)

type logMessage struct {
	Level   LogLevel `json:"level"`
	Message string   `json:"message"`
}

// TraceType is the kind of a TRACE message
type TraceType string

const (
	TraceTypeError        TraceType = "ERROR"
	TraceTypeStreamStatus TraceType = "STREAM_STATUS"
)

// FailureType categorizes error traces for the airbyte platform
type FailureType string

const (
	FailureTypeSystem FailureType = "system_error"
	FailureTypeConfig FailureType = "config_error"
)

// TraceMessage carries out-of-band signals: failures and per-stream progress
type TraceMessage struct {
	Type         TraceType          `json:"type"`
	EmittedAt    int64              `json:"emitted_at"`
	Error        *ErrorTraceMessage `json:"error,omitempty"`
	StreamStatus *StreamStatus      `json:"stream_status,omitempty"`
}

type ErrorTraceMessage struct {
	Message         string      `json:"message"`
	InternalMessage string      `json:"internal_message,omitempty"`
	StackTrace      string      `json:"stack_trace,omitempty"`
	FailureType     FailureType `json:"failure_type,omitempty"`
}

type StreamDescriptor struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
}

type StreamStatus struct {
	StreamDescriptor StreamDescriptor `json:"stream_descriptor"`
	Status           string           `json:"status"`
}

type checkStatus string

const (
	checkStatusSuccess checkStatus = "SUCCEEDED"
	checkStatusFailed  checkStatus = "FAILED"
)

type connectionStatus struct {
	Status checkStatus `json:"status"`
	// Message carries the reason when Status is FAILED so that a single corrected
	// configuration can be resubmitted without trial-and-error
	Message string `json:"message,omitempty"`
}

// Catalog defines the complete available schema you can sync with a source
// This should not be mistaken with ConfiguredCatalog which is the "selected" schema you want to sync
type Catalog struct {
	Streams []Stream `json:"streams"`
}

// Stream defines a single "schema" you'd like to sync - think of this as a table, collection, topic, etc. In airbyte terminology these are "streams"
type Stream struct {
	Name                    string     `json:"name"`
	JSONSchema              Properties `json:"json_schema"`
	SupportedSyncModes      []SyncMode `json:"supported_sync_modes,omitempty"`
	SourceDefinedCursor     bool       `json:"source_defined_cursor,omitempty"`
	DefaultCursorField      []string   `json:"default_cursor_field,omitempty"`
	SourceDefinedPrimaryKey [][]string `json:"source_defined_primary_key,omitempty"`
	Namespace               string     `json:"namespace,omitempty"`
}

// ConfiguredCatalog is the "selected" schema you want to sync
// This should not be mistaken with Catalog which represents the complete available schema to sync
type ConfiguredCatalog struct {
	Streams []ConfiguredStream `json:"streams"`
}

// ConfiguredStream defines a single selected stream to sync
type ConfiguredStream struct {
	Stream              Stream              `json:"stream"`
	SyncMode            SyncMode            `json:"sync_mode"`
	CursorField         []string            `json:"cursor_field,omitempty"`
	DestinationSyncMode DestinationSyncMode `json:"destination_sync_mode"`
	PrimaryKey          [][]string          `json:"primary_key,omitempty"`
}

// GetStream finds a configured stream by name and namespace
func (c *ConfiguredCatalog) GetStream(name, namespace string) (*ConfiguredStream, bool) {
	for i := range c.Streams {
		if c.Streams[i].Stream.Name == name && c.Streams[i].Stream.Namespace == namespace {
			return &c.Streams[i], true
		}
	}
	return nil, false
}

// SyncMode defines the modes that your source is able to sync in
type SyncMode string

const (
	// SyncModeFullRefresh means the data will be wiped and fully synced on each run
	SyncModeFullRefresh SyncMode = "full_refresh"
	// SyncModeIncremental is used for incremental syncs
	SyncModeIncremental SyncMode = "incremental"
)

// DestinationSyncMode represents how the destination should interpret your data
type DestinationSyncMode string

var (
	// DestinationSyncModeAppend is used for the destination to know it needs to append data
	DestinationSyncModeAppend DestinationSyncMode = "append"
	// DestinationSyncModeOverwrite is used to indicate the destination should overwrite data
	DestinationSyncModeOverwrite DestinationSyncMode = "overwrite"
	// DestinationSyncModeAppendDedup appends new data while replacing rows with the same primary key
	DestinationSyncModeAppendDedup DestinationSyncMode = "append_dedup"
)

// ConnectorSpecification is used to define the connector wide settings. Every connection using your connector will comply to these settings
type ConnectorSpecification struct {
	DocumentationURL              string                  `json:"documentationUrl,omitempty"`
	ChangeLogURL                  string                  `json:"changeLogUrl,omitempty"`
	SupportsIncremental           bool                    `json:"supportsIncremental"`
	SupportsNormalization         bool                    `json:"supportsNormalization"`
	SupportsDBT                   bool                    `json:"supportsDBT"`
	SupportedDestinationSyncModes []DestinationSyncMode   `json:"supported_destination_sync_modes,omitempty"`
	ConnectionSpecification       ConnectionSpecification `json:"connectionSpecification"`
}

// Properties defines the property map which is used to define any single "field name" along with its specification
type Properties struct {
	Properties map[PropertyName]PropertySpec `json:"properties,omitempty"`
}

// PropertyName is a alias for a string to make it clear to the user that the "key" in the map is the name of the property
type PropertyName string

// ConnectionSpecification is used to define the settings that are configurable "per" instance of your connector
type ConnectionSpecification struct {
	Schema      string `json:"$schema,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Properties
	Type     string         `json:"type"` // should always be "object"
	Required []PropertyName `json:"required"`
}

// PropType defines the property types any field can take. See more here: https://docs.airbyte.com/understanding-airbyte/supported-data-types
type PropType string

const (
	String  PropType = "string"
	Number  PropType = "number"
	Integer PropType = "integer"
	Boolean PropType = "boolean"
	Object  PropType = "object"
	Array   PropType = "array"
	Null    PropType = "null"
)

// AirbytePropType is used to define airbyte specific property types. See more here: https://docs.airbyte.com/understanding-airbyte/supported-data-types
type AirbytePropType string

const (
	TimestampWithTZ AirbytePropType = "timestamp_with_timezone"
	TimestampWOTZ   AirbytePropType = "timestamp_without_timezone"
	BigInteger      AirbytePropType = "big_integer"
	BigNumber       AirbytePropType = "big_number"
)

// FormatType is used to define data type formats supported by airbyte where needed (usually for strings formatted as dates)
type FormatType string

const (
	Date     FormatType = "date"
	DateTime FormatType = "date-time"
)

type PropertyType struct {
	Type        PropType        `json:"type,omitempty"`
	AirbyteType AirbytePropType `json:"airbyte_type,omitempty"`
	Format      FormatType      `json:"format,omitempty"`
}

// PropertySpec declares a single property of a connector specification. It covers the
// JSON Schema draft-07 subset the airbyte protocol relies on, including tagged unions
// expressed as oneOf groups discriminated by a const field.
type PropertySpec struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	PropertyType `json:",omitempty"`
	Const        any                           `json:"const,omitempty"`
	Enum         []any                         `json:"enum,omitempty"`
	Default      any                           `json:"default,omitempty"`
	Minimum      *int                          `json:"minimum,omitempty"`
	Maximum      *int                          `json:"maximum,omitempty"`
	Examples     []string                      `json:"examples,omitempty"`
	Order        int                           `json:"order,omitempty"`
	OneOf        []PropertySpec                `json:"oneOf,omitempty"`
	Items        *PropertySpec                 `json:"items,omitempty"`
	Properties   map[PropertyName]PropertySpec `json:"properties,omitempty"`
	Required     []PropertyName                `json:"required,omitempty"`
	IsSecret     bool                          `json:"airbyte_secret,omitempty"`
}

// IntRef is a helper for Minimum/Maximum literals
func IntRef(value int) *int {
	return &value
}

// LogWriter is exported for documentation purposes - only use this through LogTracker or MessageTracker
// to ensure thread-safe behavior with the writer
type LogWriter func(level LogLevel, s string) error

// StateWriter is exported for documentation purposes - only use this through MessageTracker
type StateWriter func(v any) error

// RecordWriter is exported for documentation purposes - only use this through MessageTracker
type RecordWriter func(v any, streamName string, namespace string) error

// TraceWriter is exported for documentation purposes - only use this through MessageTracker
type TraceWriter func(t *TraceMessage) error

func newLogWriter(w io.Writer) LogWriter {
	return func(lvl LogLevel, s string) error {
		return write(w, &message{
			Type: MessageTypeLog,
			LogMessage: &logMessage{
				Level:   lvl,
				Message: s,
			},
		})
	}
}

func newStateWriter(w io.Writer) StateWriter {
	return func(s any) error {
		return write(w, &message{
			Type: MessageTypeState,
			State: &state{
				Data: s,
			},
		})
	}
}

func newRecordWriter(w io.Writer) RecordWriter {
	return func(s any, stream string, namespace string) error {
		return write(w, &message{
			Type: MessageTypeRecord,
			Record: &record{
				EmittedAt: time.Now().UnixMilli(),
				Data:      s,
				Namespace: namespace,
				Stream:    stream,
			},
		})
	}
}

func newTraceWriter(w io.Writer) TraceWriter {
	return func(t *TraceMessage) error {
		if t.EmittedAt == 0 {
			t.EmittedAt = time.Now().UnixMilli()
		}
		return write(w, &message{
			Type:         MessageTypeTrace,
			TraceMessage: t,
		})
	}
}
