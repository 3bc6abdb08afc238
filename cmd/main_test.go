package main

import (
	"bytes"
	"testing"

	"breaktime/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHostFlags(t *testing.T) {
	options, err := parseHostFlags([]string{
		"--config=/tmp/settings.yaml",
		"--log-level=debug",
		"--some-runtime-flag=value",
		"--metrics-addr=127.0.0.1:9464",
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/settings.yaml", options.configPath)
	assert.Equal(t, "debug", options.logLevel)
	assert.Equal(t, logging.FormatAuto, options.logFormat)
	assert.Equal(t, "127.0.0.1:9464", options.metricsAddr)
}

func TestParseHostFlagsDefaults(t *testing.T) {
	options, err := parseHostFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "info", options.logLevel)
	assert.Empty(t, options.configPath)
}

func TestRunLocalCommands(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitOK, run([]string{"--log-format=json", "version"}, &stdout, &stderr))
	assert.Equal(t, "BreakTime version "+version+"\n", stdout.String())

	stdout.Reset()
	assert.Equal(t, exitOK, run(nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Usage: breaktime <command> [options]")
}

func TestRunUnsupportedCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitUsage, run([]string{"--log-level=error", "stretch"}, &stdout, &stderr))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Usage: breaktime")
}

func TestRunRejectsBadLogLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitUsage, run([]string{"--log-level=loud", "help"}, &stdout, &stderr))
}
