package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("test message")
	if !called {
		t.Error("custom logger was not called")
	}

	SetLogger(nil)
	noOpCalled := false
	testLogger := func(format string, v ...interface{}) { noOpCalled = true }
	SetLogger(testLogger)
	Logf("test")
	if !noOpCalled {
		t.Error("test logger should have been called")
	}

	noOpCalled = false
	SetLogger(nil)
	Logf("test")
	if noOpCalled {
		t.Error("no-op logger should not have triggered callback")
	}
}

func TestLogfDefaultNotNil(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}
}

func TestDebugfWithLogger(t *testing.T) {
	var buf bytes.Buffer
	SetDebugLogger(&buf)
	defer SetDebugLogger(nil)

	Debugf("hello %s %d", "world", 42)

	output := buf.String()
	if !strings.Contains(output, "hello world 42") {
		t.Errorf("expected output to contain 'hello world 42', got %q", output)
	}
}

func TestDebugfWithoutLogger(t *testing.T) {
	SetDebugLogger(nil)

	// Should not panic when no debug logger is configured.
	Debugf("this should be silently discarded: %d", 123)
}
