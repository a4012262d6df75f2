package telnetlog

import (
	"bytes"
	"log"
	"os"
	"testing"
)

func TestDebugDisabled(t *testing.T) {
	DebugEnabled = false
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	Debug("this should not appear")

	if buf.Len() > 0 {
		t.Errorf("Debug output when disabled: %s", buf.String())
	}
}

func TestDebugEnabled(t *testing.T) {
	DebugEnabled = true
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	Debug("test message %d", 42)

	if !bytes.Contains(buf.Bytes(), []byte("DEBUG: test message 42")) {
		t.Errorf("Expected debug output, got: %s", buf.String())
	}
	DebugEnabled = false
}

func TestInfoWarnError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	Info("listening on %s", "127.0.0.1:23")
	Warn("unsolicited SE")
	Error("transport closed: %v", os.ErrClosed)

	out := buf.String()
	for _, want := range []string{"INFO: listening on 127.0.0.1:23", "WARN: unsolicited SE", "ERROR: transport closed"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("expected output to contain %q, got: %s", want, out)
		}
	}
}
