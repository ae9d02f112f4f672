package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/seqkit/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const top2Plan = `
name: top2
stages:
  - op: to_sorted
    order: numeric
    descending: true
  - op: slice
    start: 0
    end: 2
`

func TestRun_EvaluatesFromStdin(t *testing.T) {
	planPath := writeFile(t, t.TempDir(), "top2.yaml", top2Plan)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"--plan", planPath}, strings.NewReader("[3, 10, 7, 1]"), &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v (stderr: %s)", err, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != "[10,7]" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestRun_EvaluatesFromFile(t *testing.T) {
	dir := t.TempDir()
	planPath := writeFile(t, dir, "count.json", `{"terminal": {"op": "count"}}`)
	input := writeFile(t, dir, "items.json", `["a", "b", "c"]`)
	var stdout bytes.Buffer

	err := run(context.Background(), []string{"-p", planPath, "-i", input}, strings.NewReader(""), &stdout, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "3" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestRun_PlanFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	planPath := writeFile(t, dir, "top2.yaml", top2Plan)
	cfgPath := writeFile(t, dir, "config.yml", "environment: staging\nplan: "+planPath+"\nlogging:\n  level: error\n")
	var stdout bytes.Buffer

	err := run(context.Background(), []string{"--config", cfgPath}, strings.NewReader("[1, 2, 3]"), &stdout, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "[3,2]" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestRun_MissingPlan(t *testing.T) {
	err := run(context.Background(), nil, strings.NewReader("[]"), &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.HasCode(err, errors.ErrCodeMissingField) {
		t.Errorf("expected MISSING_FIELD, got %v", err)
	}
}

func TestRun_InvalidInput(t *testing.T) {
	planPath := writeFile(t, t.TempDir(), "top2.yaml", top2Plan)
	err := run(context.Background(), []string{"-p", planPath}, strings.NewReader(`{"not": "an array"}`), &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestRun_EvaluationError(t *testing.T) {
	planPath := writeFile(t, t.TempDir(), "bad.yaml", "stages:\n  - op: with\n    index: -9\n    value: 0\n")
	err := run(context.Background(), []string{"-p", planPath}, strings.NewReader("[1]"), &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.HasCode(err, errors.ErrCodeIndexOutOfRange) {
		t.Errorf("expected INDEX_OUT_OF_RANGE, got %v", err)
	}
}

func TestRun_Version(t *testing.T) {
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"--version"}, nil, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout.String(), "seqeval ") {
		t.Errorf("unexpected version output %q", stdout.String())
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"--nope"}, nil, &bytes.Buffer{}, &stderr); err == nil {
		t.Error("expected a flag error")
	}
	if !strings.Contains(stderr.String(), "Usage") {
		t.Errorf("expected usage on stderr, got %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "unknown flag: --nope") {
		t.Errorf("expected the flag error on stderr, got %q", stderr.String())
	}
}

func TestRun_Help(t *testing.T) {
	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"--help"}, nil, &bytes.Buffer{}, &stderr); err != nil {
		t.Fatalf("help is not an error: %v", err)
	}
	if strings.Count(stderr.String(), "Usage") != 1 || !strings.Contains(stderr.String(), "--plan") {
		t.Errorf("expected usage once on stderr, got %q", stderr.String())
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := &AppConfig{}
	cfg.Name = "seqeval"
	cfg.Version = "1.2.3"
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Observability.ServiceName != "seqeval" || cfg.Observability.ServiceVersion != "1.2.3" {
		t.Errorf("telemetry should inherit service identity: %+v", cfg.Observability)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("unexpected server port %d", cfg.Server.Port)
	}
}

func TestAppConfig_InvalidServer(t *testing.T) {
	cfg := &AppConfig{}
	cfg.Name = "seqeval"
	cfg.ApplyDefaults()
	cfg.Server.Port = -1
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "server") {
		t.Errorf("expected server validation error, got %v", err)
	}
}
