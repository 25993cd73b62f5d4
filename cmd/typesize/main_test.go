package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const passingReport = "print-type-size type: `Pair`: 8 bytes, alignment: 4 bytes\n" +
	"print-type-size     field `.a`: 4 bytes\n" +
	"print-type-size     field `.b`: 4 bytes\n"

const failingReport = passingReport +
	"print-type-size type: `Short`: 8 bytes, alignment: 4 bytes\n" +
	"print-type-size     field `.a`: 4 bytes\n"

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootPass(t *testing.T) {
	out, err := execute(t, "--color", "never", writeTemp(t, "ok.txt", passingReport))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out, "checked 1 layouts: 1 passed, 0 failed") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRootFail(t *testing.T) {
	out, err := execute(t, "--color", "never", "--only-failures", writeTemp(t, "bad.txt", failingReport))
	if !stderrors.Is(err, errFailed) {
		t.Fatalf("execute error = %v, want errFailed", err)
	}
	if strings.Contains(out, "type `Pair`") {
		t.Errorf("passing layout printed with --only-failures:\n%s", out)
	}
	if !strings.Contains(out, "mismatch struct size (expected: 8, actual: 4)") {
		t.Errorf("defect missing:\n%s", out)
	}
}

func TestRootJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", writeTemp(t, "ok.txt", passingReport))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "{") || !strings.Contains(out, `"name": "Pair"`) {
		t.Errorf("unexpected JSON output:\n%s", out)
	}
}

func TestRootSkipFlag(t *testing.T) {
	_, err := execute(t, "--color", "never", "--skip", "Sh*", writeTemp(t, "bad.txt", failingReport))
	if err != nil {
		t.Fatalf("execute error = %v, want nil with failing layout skipped", err)
	}
}

func TestRootConfigFile(t *testing.T) {
	cfg := writeTemp(t, "typesize.yaml", "format: json\nskip: [\"Short\"]\n")
	out, err := execute(t, "--config", cfg, writeTemp(t, "bad.txt", failingReport))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out, `"total": 1`) {
		t.Errorf("config not applied:\n%s", out)
	}

	// Flags win over the file.
	out, err = execute(t, "--config", cfg, "--format", "text", "--color", "never", writeTemp(t, "ok.txt", passingReport))
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out, "//---------- Layout 1 ----------//") {
		t.Errorf("--format text ignored:\n%s", out)
	}
}

func TestRootErrors(t *testing.T) {
	if _, err := execute(t); err == nil {
		t.Error("missing argument accepted")
	}
	if _, err := execute(t, "--format", "xml", writeTemp(t, "ok.txt", passingReport)); err == nil {
		t.Error("bad format accepted")
	}
	if _, err := execute(t, filepath.Join(t.TempDir(), "missing.txt")); err == nil || stderrors.Is(err, errFailed) {
		t.Errorf("missing file: got %v", err)
	}
	if _, err := execute(t, "--watch", "-"); err == nil {
		t.Error("watching stdin accepted")
	}
}
