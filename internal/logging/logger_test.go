package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newBufferLogger(t *testing.T, level Level) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	noColor := false
	l, err := New(Options{Level: level, Output: &buf, Color: &noColor})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l, &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"error", LevelError},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"info", LevelInfo},
		{" debug ", LevelDebug},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(t, LevelWarn)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("messages below warn should be filtered, got:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") {
		t.Errorf("expected warn line, got:\n%s", out)
	}
	if !strings.Contains(out, "[ERROR] error 4") {
		t.Errorf("expected error line, got:\n%s", out)
	}
}

func TestLogger_WithComponent(t *testing.T) {
	l, buf := newBufferLogger(t, LevelInfo)

	l.With("registry").Infof("discovered %d agents", 2)

	if !strings.Contains(buf.String(), "[INFO] [registry] discovered 2 agents") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestLogger_NilIsNoop(t *testing.T) {
	var l *Logger

	// None of these may panic
	l.Infof("hello")
	l.With("x").Errorf("hello")
	if l.Enabled(LevelError) {
		t.Error("nil logger should not be enabled")
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}
	if Nop() != nil {
		t.Error("Nop should return the nil logger")
	}
}

func TestLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mas.log")
	l, err := New(Options{Level: LevelDebug, Output: &bytes.Buffer{}, FilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Debugf("written to file")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "[DEBUG] written to file") {
		t.Errorf("log file content = %q", data)
	}

	// Writing after close only goes to the console
	l.Infof("after close")
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	l, buf := newBufferLogger(t, LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.With("worker").Infof("line %d", n)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 20 {
		t.Errorf("expected 20 lines, got %d", len(lines))
	}
}
