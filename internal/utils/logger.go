package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelError LogLevel = "error"
)

type Logger struct {
	level       LogLevel
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	fatalLogger *log.Logger
	RawBodyLog  bool
}

func NewLogger(level string, rawBodyLog bool) *Logger {
	return newLogger(parseLogLevel(level), os.Stdout, os.Stderr, rawBodyLog)
}

// NewWriterLogger sends every level to w. The MCP server uses it to keep
// stdout free for the protocol.
func NewWriterLogger(level string, w io.Writer) *Logger {
	return newLogger(parseLogLevel(level), w, w, false)
}

func NewDiscardLogger() *Logger {
	return &Logger{
		level:       LevelInfo,
		infoLogger:  log.New(io.Discard, "", 0),
		errorLogger: log.New(io.Discard, "", 0),
		debugLogger: log.New(io.Discard, "", 0),
		fatalLogger: log.New(io.Discard, "", 0),
	}
}

func newLogger(level LogLevel, out, errOut io.Writer, rawBodyLog bool) *Logger {
	flags := log.Ldate | log.Ltime | log.Lshortfile

	return &Logger{
		level:       level,
		infoLogger:  log.New(out, "INFO: ", flags),
		errorLogger: log.New(errOut, "ERROR: ", flags),
		debugLogger: log.New(out, "DEBUG: ", flags),
		fatalLogger: log.New(errOut, "FATAL: ", flags),
		RawBodyLog:  rawBodyLog,
	}
}

func parseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Info(reqID *string, format string, v ...any) {
	if l.level == LevelError {
		return
	}
	l.infoLogger.Output(2, withRequestID(reqID, format, v...))
}

func (l *Logger) Error(reqID *string, format string, v ...any) {
	l.errorLogger.Output(2, withRequestID(reqID, format, v...))
}

func (l *Logger) Debug(reqID *string, format string, v ...any) {
	if l.level != LevelDebug {
		return
	}
	l.debugLogger.Output(2, withRequestID(reqID, format, v...))
}

func (l *Logger) Fatal(v ...any) {
	l.fatalLogger.Fatal(v...)
}

func withRequestID(reqID *string, format string, v ...any) string {
	msg := fmt.Sprintf(format, v...)
	if reqID == nil || *reqID == "" {
		return msg
	}
	return "[" + *reqID + "] " + msg
}
