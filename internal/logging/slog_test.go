package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newBufferedLogger() (*SlogLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewSlogLogger(slog.New(slog.NewJSONHandler(buf, nil))), buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log output is not valid JSON: %v (%s)", err, buf.String())
	}
	return rec
}

func TestSlogLogger_Info(t *testing.T) {
	log, buf := newBufferedLogger()
	log.Info(context.Background(), "hello", "addr", ":8080")

	rec := lastRecord(t, buf)
	if rec["msg"] != "hello" || rec["addr"] != ":8080" || rec["level"] != "INFO" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newBufferedLogger()
	child := log.With("module", "httpapi")
	child.Warn(context.Background(), "slow request")

	rec := lastRecord(t, buf)
	if rec["module"] != "httpapi" || rec["level"] != "WARN" {
		t.Fatalf("unexpected record: %v", rec)
	}
}
