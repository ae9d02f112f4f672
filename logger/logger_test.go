package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newBuffered(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := &Config{Level: level, Format: "json"}
	return NewWithWriter(cfg, "test-svc", &buf), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "\n") {
		t.Fatalf("expected a single log line, got %q", line)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Service() != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.Service())
	}
}

func TestInfo_WritesJSON(t *testing.T) {
	l, buf := newBuffered(t, "info")
	l.Info("hello", Fields("items", 3))

	m := decodeLine(t, buf)
	if m["message"] != "hello" {
		t.Errorf("message = %v", m["message"])
	}
	if m[FieldService] != "test-svc" {
		t.Errorf("service = %v", m[FieldService])
	}
	if m["items"] != float64(3) {
		t.Errorf("items = %v", m["items"])
	}
	if m["level"] != "info" {
		t.Errorf("level = %v", m["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBuffered(t, "warn")
	l.Info("dropped")
	l.Debug("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}
	l.Warn("kept")
	if m := decodeLine(t, buf); m["message"] != "kept" {
		t.Errorf("message = %v", m["message"])
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := newBuffered(t, "bogus")
	l.Debug("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %q", buf.String())
	}
	l.Info("kept")
	if buf.Len() == 0 {
		t.Fatal("expected info output")
	}
}

func TestWithComponentAndFields(t *testing.T) {
	l, buf := newBuffered(t, "info")
	l.WithComponent("plan").WithFields(Fields(FieldStage, "map_add")).Error("failed")

	m := decodeLine(t, buf)
	if m[FieldComponent] != "plan" {
		t.Errorf("component = %v", m[FieldComponent])
	}
	if m[FieldStage] != "map_add" {
		t.Errorf("stage = %v", m[FieldStage])
	}
}

func TestWithError(t *testing.T) {
	l, buf := newBuffered(t, "info")
	l.WithError(errors.New("boom")).Warn("stage failed")
	if m := decodeLine(t, buf); m["error"] != "boom" {
		t.Errorf("error = %v", m["error"])
	}
}

func TestWithContext_RequestID(t *testing.T) {
	l, buf := newBuffered(t, "info")
	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).Info("handled")
	if m := decodeLine(t, buf); m[FieldRequestID] != "req-1" {
		t.Errorf("request_id = %v", m[FieldRequestID])
	}

	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when ctx carries no request id")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "svc", &buf)
	l.Info("ready")
	out := buf.String()
	if !strings.Contains(out, "[INF]") || !strings.Contains(out, "ready") {
		t.Errorf("unexpected console output %q", out)
	}
}

func TestNop(t *testing.T) {
	Nop().Error("ignored")
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, 2, "skipped", "b")
	if len(m) != 1 || m["a"] != 1 {
		t.Errorf("Fields = %v", m)
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("evaluate", errors.New("bad"))
	if ef[FieldOperation] != "evaluate" || ef[FieldError] != "bad" {
		t.Errorf("ErrorFields = %v", ef)
	}
	df := DurationFields("evaluate", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("DurationFields = %v", df)
	}
}

func TestConfig_DefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "json" || cfg.Output != "stderr" || !cfg.Timestamp {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	cfg.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid level to fail")
	}
	cfg.Level = "info"
	cfg.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid format to fail")
	}
	cfg.Format = "json"
	cfg.Output = "file"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid output to fail")
	}
}

func TestGlobalLogger(t *testing.T) {
	prev := GetGlobalLogger()
	t.Cleanup(func() { SetGlobalLogger(prev) })

	l, buf := newBuffered(t, "info")
	SetGlobalLogger(l)
	WithComponent("server").Info("up")
	if m := decodeLine(t, buf); m[FieldComponent] != "server" {
		t.Errorf("component = %v", m[FieldComponent])
	}
}
