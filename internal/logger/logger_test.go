package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetQuiet(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_RequiresVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	SetVerbose(false)
	Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no debug output without verbose, got %q", buf.String())
	}

	SetVerbose(true)
	Debug("shown %d", 2)
	if !strings.Contains(buf.String(), "[DEBUG] shown 2") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestInfo_PrintsByDefault(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Info("chunked %d articles", 10)
	if !strings.Contains(buf.String(), "[INFO] chunked 10 articles") {
		t.Errorf("expected info output, got %q", buf.String())
	}
}

func TestQuiet_SuppressesInfoNotWarn(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetQuiet(true)

	Info("hidden")
	Section("hidden too")
	if buf.Len() != 0 {
		t.Errorf("expected quiet mode to suppress info, got %q", buf.String())
	}

	Warn("still visible")
	Error("also visible")
	out := buf.String()
	if !strings.Contains(out, "[WARN] still visible") {
		t.Errorf("expected warn output in quiet mode, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] also visible") {
		t.Errorf("expected error output in quiet mode, got %q", out)
	}
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Section("Chunking")
	if !strings.Contains(buf.String(), "=== Chunking ===") {
		t.Errorf("expected section header, got %q", buf.String())
	}
}
