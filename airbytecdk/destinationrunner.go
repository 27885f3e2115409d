package airbyte

import (
	"fmt"
	"io"
	"os"

	"github.com/starx-inc/airbyte/base/logging"
)

// DestinationRunner orchestrates a destination connector: it parses the command line,
// decodes the incoming message stream and reports the outcome in protocol terms
type DestinationRunner struct {
	w          io.Writer
	r          io.Reader
	dst        Destination
	msgTracker MessageTracker
}

// NewDestinationRunner takes your defined Destination and plugs it in with the rest of airbyte.
// w is where protocol messages go (stdout), r is where records come from (stdin).
func NewDestinationRunner(dst Destination, w io.Writer, r io.Reader) DestinationRunner {
	w = newSafeWriter(w)
	msgTracker := MessageTracker{
		Record: newRecordWriter(w),
		State:  newStateWriter(w),
		Trace:  newTraceWriter(w),
		Log:    newLogWriter(w),
	}

	return DestinationRunner{
		w:          w,
		r:          r,
		dst:        dst,
		msgTracker: msgTracker,
	}
}

// Start runs the command given on the command line: spec, check or write
func (dr DestinationRunner) Start() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("expected one of commands: spec, check, write")
	}
	switch cmd(os.Args[1]) {
	case cmdSpec:
		spec, err := dr.dst.Spec(LogTracker{
			Log: dr.msgTracker.Log,
		})
		if err != nil {
			dr.msgTracker.Log(LogLevelError, "failed: "+err.Error())
			return err
		}
		return write(dr.w, &message{
			Type:                   MessageTypeSpec,
			ConnectorSpecification: spec,
		})

	case cmdCheck:
		inP, err := getConfigPath()
		if err != nil {
			return err
		}
		err = dr.dst.Check(inP, LogTracker{
			Log: dr.msgTracker.Log,
		})
		if err != nil {
			logging.Errorf("check failed: %v", err)
			return write(dr.w, &message{
				Type: MessageTypeConnectionStat,
				ConnectionStatus: &connectionStatus{
					Status:  checkStatusFailed,
					Message: err.Error(),
				},
			})
		}
		return write(dr.w, &message{
			Type: MessageTypeConnectionStat,
			ConnectionStatus: &connectionStatus{
				Status: checkStatusSuccess,
			},
		})

	case cmdWrite:
		var incat ConfiguredCatalog
		p, err := getCatalogPath()
		if err != nil {
			return err
		}
		err = UnmarshalFromPath(p, &incat)
		if err != nil {
			return err
		}

		dstP, err := getConfigPath()
		if err != nil {
			return err
		}

		input := NewMessageIterator(dr.r)
		err = dr.dst.Write(dstP, &incat, input, dr.msgTracker)
		if err != nil {
			logging.Errorf("write failed after %d records: %v", input.RecordCount(), err)
			_ = dr.msgTracker.Trace(&TraceMessage{
				Type: TraceTypeError,
				Error: &ErrorTraceMessage{
					Message:     err.Error(),
					FailureType: FailureTypeSystem,
				},
			})
			return err
		}
		logging.Infof("write completed: %d records", input.RecordCount())

	default:
		return fmt.Errorf("unknown command: %q", os.Args[1])
	}

	return nil
}
