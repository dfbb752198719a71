package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLoggerIsLogLevelRespectsThreshold(t *testing.T) {
	l := ConsoleLogger{LogLevel: LogLevelWarning}
	assert.True(t, l.IsLogLevel(LogLevelError))
	assert.True(t, l.IsLogLevel(LogLevelWarning))
	assert.False(t, l.IsLogLevel(LogLevelInfo))
}

func TestDummyLoggerAlwaysReportsLoggable(t *testing.T) {
	var l DummyLogger
	assert.True(t, l.IsLogLevel(LogLevelTrace))
	assert.True(t, l.IsLogLevel(LogLevelError))
}

func TestSetLoggerInstallsPackageLogger(t *testing.T) {
	original := Log
	defer func() { Log = original }()

	custom := ConsoleLogger{LogLevel: LogLevelDebug}
	SetLogger(custom)
	assert.Equal(t, custom, Log)
}

func TestConsoleLoggerDropsMessagesBelowLevel(t *testing.T) {
	// Notice() is a no-op below LogLevelNotice; this documents the
	// threshold behavior without capturing stdout.
	l := ConsoleLogger{LogLevel: LogLevelError}
	assert.False(t, l.IsLogLevel(LogLevelNotice))
}
