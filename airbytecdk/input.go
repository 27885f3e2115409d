package airbyte

import (
	"io"

	jsoniterlib "github.com/json-iterator/go"
	"github.com/starx-inc/airbyte/base/jsoniter"
	"go.uber.org/atomic"
)

// InputMessage is a single protocol message received on stdin during a write
type InputMessage struct {
	Type   MessageType  `json:"type"`
	Record *InputRecord `json:"record,omitempty"`
	State  *InputState  `json:"state,omitempty"`
}

// InputRecord is an incoming data point addressed to a configured stream
type InputRecord struct {
	Stream    string         `json:"stream"`
	Namespace string         `json:"namespace,omitempty"`
	EmittedAt int64          `json:"emitted_at"`
	Data      map[string]any `json:"data"`
}

// InputState is a checkpoint blob that must be echoed back once preceding records are persisted
type InputState struct {
	Data any `json:"data"`
}

// MessageIterator streams RECORD and STATE messages from the airbyte worker
type MessageIterator struct {
	dec     *jsoniterlib.Decoder
	records atomic.Int64
}

func NewMessageIterator(r io.Reader) *MessageIterator {
	return &MessageIterator{dec: jsoniter.NewDecoder(r)}
}

// Next returns the next RECORD or STATE message, skipping everything else.
// io.EOF signals that the input is drained.
func (mi *MessageIterator) Next() (*InputMessage, error) {
	for {
		msg := &InputMessage{}
		if err := mi.dec.Decode(msg); err != nil {
			return nil, err
		}
		switch msg.Type {
		case MessageTypeRecord:
			if msg.Record == nil {
				continue
			}
			mi.records.Inc()
			return msg, nil
		case MessageTypeState:
			if msg.State == nil {
				continue
			}
			return msg, nil
		}
	}
}

// RecordCount returns the number of records served so far.
// Safe to call concurrently with Next.
func (mi *MessageIterator) RecordCount() int64 {
	return mi.records.Load()
}
