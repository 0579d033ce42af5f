package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockLogLevel int8 = 0 // zapcore.InfoLevel

func TestGetReturnsSameInstanceOnSubsequentCalls(t *testing.T) {
	logger1 := Get(mockLogLevel)
	logger2 := Get(-1)
	require.NotNil(t, logger1)
	assert.Same(t, logger1, logger2)
}

func TestNewWritesJSONWithBuildFields(t *testing.T) {
	var buf bytes.Buffer
	lgr, zl := New(mockLogLevel, &buf)
	lgr.Info("dataset loaded", RecordsKey, 3, SourceKey, "cars.json")
	require.NoError(t, zl.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dataset loaded", entry[MessageKey])
	assert.EqualValues(t, 3, entry[RecordsKey])
	assert.Equal(t, "cars.json", entry[SourceKey])
	assert.Contains(t, entry, CommitKey)
	assert.Contains(t, entry, TimeStampKey)
}

func TestNewHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	lgr, zl := New(mockLogLevel, &buf)
	lgr.V(1).Info("hidden at info level")
	require.NoError(t, zl.Sync())
	assert.Empty(t, buf.String())

	buf.Reset()
	lgr, zl = New(-1, &buf)
	lgr.V(1).Info("visible at debug level")
	require.NoError(t, zl.Sync())
	assert.Contains(t, buf.String(), "visible at debug level")
}

func TestWithLoggerReturnsSameContextIfLoggerAlreadySet(t *testing.T) {
	logger := Get(mockLogLevel)
	ctx := WithLogger(context.Background(), logger)
	assert.Equal(t, ctx, WithLogger(ctx, logger))
}

func TestWithLoggerReplacesLoggerIfDifferent(t *testing.T) {
	logger1 := Get(mockLogLevel)
	logger2 := logr.Discard()
	ctx := WithLogger(context.Background(), logger1)

	got := FromContext(WithLogger(ctx, &logger2))
	assert.Same(t, &logger2, got)
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	global := Get(mockLogLevel)
	assert.Same(t, global, FromContext(context.Background()))
}

func TestFromContextReturnsNoopLoggerWithoutGlobal(t *testing.T) {
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))
}

func TestSyncDoesNotPanicWhenGlobalZapLoggerIsNil(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()

	assert.NotPanics(t, Sync)
}

func TestGetNoopLoggerIsNoop(t *testing.T) {
	logger := GetNoopLogger()
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Info("nothing") })
}

func TestWithValuesReturnsNewLogger(t *testing.T) {
	logger := Get(mockLogLevel)
	newLogger := WithValues(logger, "key", "value")
	require.NotNil(t, newLogger)
	assert.NotSame(t, logger, newLogger)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(syscall.ENOTTY))
	assert.True(t, isIgnorableSyncError(&os.PathError{Op: "sync", Path: "/dev/stderr", Err: syscall.EINVAL}))
	assert.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: The handle is invalid.")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}
