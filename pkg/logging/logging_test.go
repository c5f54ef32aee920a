package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetDebug(false)

	SetDebug(false)
	LogDebug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("debug message written at info level: %q", buf.String())
	}

	SetDebug(true)
	LogDebug("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") {
		t.Errorf("debug message missing at debug level: %q", buf.String())
	}
}

func TestLogWarnWrites(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetDebug(false)

	LogWarn("scene %s reloaded", "a.toml")
	if !strings.Contains(buf.String(), "scene a.toml reloaded") {
		t.Errorf("got %q, want warning text", buf.String())
	}
}
