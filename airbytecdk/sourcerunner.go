package airbyte

import (
	"fmt"
	"io"
	"os"

	"github.com/starx-inc/airbyte/base/logging"
)

// SourceRunner acts as an "orchestrator" of sorts to run your source for you
type SourceRunner struct {
	w          io.Writer
	src        Source
	msgTracker MessageTracker
}

// NewSourceRunner takes your defined Source and plugs it in with the rest of airbyte
func NewSourceRunner(src Source, w io.Writer) SourceRunner {
	w = newSafeWriter(w)
	msgTracker := MessageTracker{
		Record: newRecordWriter(w),
		State:  newStateWriter(w),
		Trace:  newTraceWriter(w),
		Log:    newLogWriter(w),
	}

	return SourceRunner{
		w:          w,
		src:        src,
		msgTracker: msgTracker,
	}
}

// Start starts your source
// Example usage would look like this in your main.go
//
//	func() main {
//		src := newCoolSource()
//		runner := airbyte.NewSourceRunner(src, os.Stdout)
//		err := runner.Start()
//		if err != nil {
//			log.Fatal(err)
//		}
//	}
//
// Yes, it really is that easy!
func (sr SourceRunner) Start() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("expected one of commands: spec, check, discover, read")
	}
	switch cmd(os.Args[1]) {
	case cmdSpec:
		spec, err := sr.src.Spec(LogTracker{
			Log: sr.msgTracker.Log,
		})
		if err != nil {
			sr.msgTracker.Log(LogLevelError, "failed: "+err.Error())
			return err
		}
		return write(sr.w, &message{
			Type:                   MessageTypeSpec,
			ConnectorSpecification: spec,
		})

	case cmdCheck:
		inP, err := getConfigPath()
		if err != nil {
			return err
		}
		err = sr.src.Check(inP, LogTracker{
			Log: sr.msgTracker.Log,
		})
		if err != nil {
			logging.Errorf("check failed: %v", err)
			return write(sr.w, &message{
				Type: MessageTypeConnectionStat,
				ConnectionStatus: &connectionStatus{
					Status:  checkStatusFailed,
					Message: err.Error(),
				},
			})
		}

		return write(sr.w, &message{
			Type: MessageTypeConnectionStat,
			ConnectionStatus: &connectionStatus{
				Status: checkStatusSuccess,
			},
		})

	case cmdDiscover:
		inP, err := getConfigPath()
		if err != nil {
			return err
		}
		ct, err := sr.src.Discover(inP, LogTracker{
			Log: sr.msgTracker.Log,
		})
		if err != nil {
			return err
		}
		return write(sr.w, &message{
			Type:    MessageTypeCatalog,
			Catalog: ct,
		})

	case cmdRead:
		var incat ConfiguredCatalog
		p, err := getCatalogPath()
		if err != nil {
			return err
		}

		err = UnmarshalFromPath(p, &incat)
		if err != nil {
			return err
		}

		srp, err := getConfigPath()
		if err != nil {
			return err
		}

		stp, err := getStatePath()
		if err != nil {
			return err
		}

		err = sr.src.Read(srp, stp, &incat, sr.msgTracker)
		if err != nil {
			logging.Errorf("read failed: %v", err)
			_ = sr.msgTracker.Trace(&TraceMessage{
				Type: TraceTypeError,
				Error: &ErrorTraceMessage{
					Message:     err.Error(),
					FailureType: FailureTypeSystem,
				},
			})
			return err
		}

	default:
		return fmt.Errorf("unknown command: %q", os.Args[1])
	}

	return nil
}
