package sink

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/gamh86/webreaper/internal/reconn"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	out, _ := io.ReadAll(r)
	return string(out)
}

func TestConsoleLevel(t *testing.T) {
	c := NewConsole()
	out := captureStdout(t, func() { c.Level(2, 7) })
	if !strings.Contains(out, "level 2") || !strings.Contains(out, "7 urls queued") {
		t.Fatalf("Level output = %q", out)
	}
}

func TestConsoleConnection(t *testing.T) {
	c := NewConsole()
	out := captureStdout(t, func() { c.Connection("example.com", reconn.Connected) })
	if !strings.Contains(out, "example.com") {
		t.Fatalf("Connection output = %q", out)
	}
}

func TestConsoleFetchingAndArchived(t *testing.T) {
	c := NewConsole()
	out := captureStdout(t, func() {
		c.Fetching("http://example.com/a")
		c.Archived("/tmp/archive/example.com/a")
	})
	if !strings.Contains(out, "fetching http://example.com/a") {
		t.Fatalf("missing fetching line: %q", out)
	}
	if !strings.Contains(out, "archived /tmp/archive/example.com/a") {
		t.Fatalf("missing archived line: %q", out)
	}
}
