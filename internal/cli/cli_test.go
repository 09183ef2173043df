package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositionalPath(t *testing.T) {
	var buf bytes.Buffer
	cfg, exit, err := Parse([]string{"graphs/scene.hcl"}, &buf)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "graphs/scene.hcl", cfg.GraphPath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParseFlagsWinOverPositional(t *testing.T) {
	var buf bytes.Buffer
	cfg, exit, err := Parse([]string{"-graph", "a.hcl", "b.hcl"}, &buf)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "a.hcl", cfg.GraphPath)
}

func TestParseShorthandAndOptions(t *testing.T) {
	var buf bytes.Buffer
	cfg, exit, err := Parse([]string{
		"-g", "scene.hcl",
		"-node", "sum",
		"-inspect",
		"-save", "out.hcl",
		"-log-format", "json",
		"-log-level", "DEBUG",
	}, &buf)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "scene.hcl", cfg.GraphPath)
	assert.Equal(t, "sum", cfg.Target)
	assert.True(t, cfg.Inspect)
	assert.Equal(t, "out.hcl", cfg.SavePath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseNoPathPrintsUsage(t *testing.T) {
	var buf bytes.Buffer
	cfg, exit, err := Parse(nil, &buf)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, buf.String(), "Usage:")
}

func TestParseInvalidLogFormat(t *testing.T) {
	var buf bytes.Buffer
	_, _, err := Parse([]string{"-log-format", "xml", "scene.hcl"}, &buf)
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseInvalidLogLevel(t *testing.T) {
	var buf bytes.Buffer
	_, _, err := Parse([]string{"-log-level", "loud", "scene.hcl"}, &buf)
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}
