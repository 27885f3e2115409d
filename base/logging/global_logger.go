package logging

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

const logsTimestampLayout = "2006-01-02 15:04:05"

// InitGlobalLogger configures the process-wide logger. Connectors log to stderr:
// stdout is reserved for protocol messages.
func InitGlobalLogger(levelStr string, jsonFormat bool) {
	level, err := log.ParseLevel(levelStr)
	if err == nil {
		log.SetLevel(level)
	} else {
		Errorf("unknown log level %q: %v", levelStr, err)
	}
	if jsonFormat {
		SetJsonFormatter()
	} else {
		SetTextFormatter()
	}
}

func SetJsonFormatter() {
	log.SetFormatter(&log.JSONFormatter{})
}

func SetTextFormatter() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: logsTimestampLayout,
	})
}

func SystemErrorf(format string, v ...any) {
	SystemError(fmt.Sprintf(format, v...))
}

func SystemError(v ...any) {
	msg := []any{"System error:"}
	msg = append(msg, v...)
	Error(msg...)
}

func Errorf(format string, v ...any) {
	log.Errorf(format, v...)
}

func Error(v ...any) {
	log.Errorln(v...)
}

func Infof(format string, v ...any) {
	log.Infof(format, v...)
}

func Info(v ...any) {
	log.Infoln(v...)
}

func Debugf(format string, v ...any) {
	log.Debugf(format, v...)
}

func Debug(v ...any) {
	log.Debugln(v...)
}

func Warnf(format string, v ...any) {
	log.Warnf(format, v...)
}

func Warn(v ...any) {
	log.Warnln(v...)
}

func Fatalf(format string, v ...any) {
	log.Fatalf(format, v...)
}

func Fatal(v ...any) {
	log.Fatalln(v...)
}
