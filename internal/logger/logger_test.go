package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLoggerLevelFiltering(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := NewSlogLogger(buf, LogLevelWarn, time.UTC)

	log.Info("hidden")
	log.Warn("shown", String("city", "Oslo"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "city=Oslo")
}

func TestModuleAndFieldsAccumulate(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	base := NewSlogLogger(buf, LogLevelDebug, time.UTC)
	log := base.Module("weather").Module("openweather").With(String("endpoint", "forecast"))

	log.Debug("request done", Int("status", 200), Duration("elapsed", 1500*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "module=weather.openweather")
	assert.Contains(t, out, "endpoint=forecast")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "elapsed=1.5s")
}

func TestWithDoesNotLeakIntoParent(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	parent := NewSlogLogger(buf, LogLevelInfo, time.UTC)
	_ = parent.With(String("request", "abc"))

	parent.Info("parent only")
	assert.NotContains(t, buf.String(), "request=abc")
}

func TestErrorField(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Field{Key: "error", Value: "boom"}, Error(fmt.Errorf("boom")))
	assert.Nil(t, Error(nil).Value)
}

func TestCentralLoggerWritesJSONFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "skydash.log")
	cl, err := NewCentralLogger(&LoggingConfig{
		Level:        "info",
		Timezone:     "UTC",
		Console:      &ConsoleOutput{Enabled: false},
		FileOutput:   &FileOutput{Enabled: true, Path: path, Level: "debug"},
		ModuleLevels: map[string]string{"dashboard": "debug"},
	})
	require.NoError(t, err)

	cl.Module("dashboard").Debug("stale response discarded", Int("token", 7))
	cl.Module("weather").Debug("filtered by module level")
	require.NoError(t, cl.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "dashboard", rec["module"])
	assert.Equal(t, "stale response discarded", rec["msg"])
	assert.InDelta(t, 7, rec["token"], 0)
}

func TestCentralLoggerRejectsBadTimezone(t *testing.T) {
	t.Parallel()

	_, err := NewCentralLogger(&LoggingConfig{Timezone: "Mars/Olympus"})
	require.Error(t, err)
}

func TestNilConfig(t *testing.T) {
	t.Parallel()

	_, err := NewCentralLogger(nil)
	require.Error(t, err)
}

func TestEchoLoggerAdapter(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	a := NewEchoLoggerAdapter(NewSlogLogger(buf, LogLevelDebug, time.UTC).Module("echo"))

	a.Infof("listening on %s", ":8080")
	a.Warn("slow", "request")
	a.Errorj(map[string]any{"path": "/x"})

	out := buf.String()
	assert.Contains(t, out, `msg="listening on :8080"`)
	assert.Contains(t, out, "module=echo")
	assert.Contains(t, out, "slowrequest")
	assert.Contains(t, out, "level=ERROR")
	assert.Panics(t, func() { a.Panic("boom") })
}
