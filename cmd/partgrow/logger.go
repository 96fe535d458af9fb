package main

import (
	"io"
	"log/slog"
)

// slogLogger adapts a *slog.Logger to grow.Logger.
type slogLogger struct {
	l *slog.Logger
}

func newLogger(w io.Writer, verbose bool) slogLogger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slogLogger{l: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

func (s slogLogger) Debug(msg string, kv ...interface{}) { s.l.Debug(msg, kv...) }
func (s slogLogger) Info(msg string, kv ...interface{})  { s.l.Info(msg, kv...) }
func (s slogLogger) Error(msg string, kv ...interface{}) { s.l.Error(msg, kv...) }
