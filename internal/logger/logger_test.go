package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestDebug_SilentByDefault(t *testing.T) {
	buf := reset(t)
	Debug("probing %d lists", 8)
	assert.Empty(t, buf.String())
}

func TestDebug_PrintsWhenVerbose(t *testing.T) {
	buf := reset(t)
	SetVerbose(true)
	Debug("probing %d lists", 8)
	assert.Equal(t, "[DEBUG] probing 8 lists\n", buf.String())
}

func TestInfoWarnSection_RespectVerbose(t *testing.T) {
	buf := reset(t)
	Info("ingested %s", "doc-1")
	Warn("retrying after timeout")
	Section("Search Execution")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Info("ingested %s", "doc-1")
	Warn("retrying after timeout")
	Section("Search Execution")

	out := buf.String()
	assert.Contains(t, out, "[INFO] ingested doc-1")
	assert.Contains(t, out, "[WARN] retrying after timeout")
	assert.Contains(t, out, "=== Search Execution ===")
}

func TestError_AlwaysPrints(t *testing.T) {
	buf := reset(t)
	Error("index unavailable: %v", "rebuild failed")
	assert.Equal(t, "[ERROR] index unavailable: rebuild failed\n", buf.String())
}

func TestIsVerbose(t *testing.T) {
	reset(t)
	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
}
