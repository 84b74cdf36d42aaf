package gamelog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/heroiclabs/nakama-common/runtime"
)

// jsonLogger adapts slog to runtime.Logger for code running outside Nakama.
type jsonLogger struct {
	l      *slog.Logger
	fields map[string]interface{}
}

// NewJSONLogger returns a runtime.Logger that writes JSON lines to w.
func NewJSONLogger(w io.Writer, level slog.Level) runtime.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &jsonLogger{l: slog.New(h), fields: map[string]interface{}{}}
}

func (j *jsonLogger) log(level slog.Level, format string, v ...interface{}) {
	attrs := make([]any, 0, len(j.fields)*2)
	for k, val := range j.fields {
		attrs = append(attrs, k, val)
	}
	j.l.Log(context.Background(), level, fmt.Sprintf(format, v...), attrs...)
}

func (j *jsonLogger) Debug(format string, v ...interface{}) { j.log(slog.LevelDebug, format, v...) }
func (j *jsonLogger) Info(format string, v ...interface{})  { j.log(slog.LevelInfo, format, v...) }
func (j *jsonLogger) Warn(format string, v ...interface{})  { j.log(slog.LevelWarn, format, v...) }
func (j *jsonLogger) Error(format string, v ...interface{}) { j.log(slog.LevelError, format, v...) }

func (j *jsonLogger) WithField(key string, v interface{}) runtime.Logger {
	return j.WithFields(map[string]interface{}{key: v})
}

func (j *jsonLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := maps.Clone(j.fields)
	maps.Copy(merged, fields)
	return &jsonLogger{l: j.l, fields: merged}
}

func (j *jsonLogger) Fields() map[string]interface{} { return maps.Clone(j.fields) }
