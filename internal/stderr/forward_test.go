package stderr

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestForward(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	in := "ALSA lib pcm.c:8526: underrun occurred\n\n   \nsecond line  \n"

	forward(strings.NewReader(in), zap.New(core))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Message != "ALSA lib pcm.c:8526: underrun occurred" {
		t.Errorf("first = %q", entries[0].Message)
	}
	if entries[1].Message != "second line" {
		t.Errorf("second = %q", entries[1].Message)
	}
	if entries[0].LoggerName != "stderr" {
		t.Errorf("logger name = %q, want stderr", entries[0].LoggerName)
	}
}

func TestForward_NilLogger(t *testing.T) {
	forward(strings.NewReader("noise\n"), nil)
}
