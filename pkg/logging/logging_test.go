package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("FLATDIR_STATE_DIR", tempDir)

			SetupLogger(tt.verbosity)

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("SetupLogger(%d) set level to %v, want %v",
					tt.verbosity, zerolog.GlobalLevel(), tt.wantLevel)
			}

			logPath := filepath.Join(tempDir, "flatdir.log")
			if _, err := os.Stat(logPath); os.IsNotExist(err) {
				t.Errorf("Log file was not created at %s", logPath)
			}
		})
	}
}

func TestSetupLoggerWithOptions_ConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "nested", "run.log")

	SetupLoggerWithOptions(Options{Verbosity: 1, Console: &console, LogFile: logFile})
	logger := GetLogger("test")
	logger.Info().Str("dir", "EU_EN").Msg("Directory created")

	assert.Contains(t, console.String(), "Directory created")
	assert.NotContains(t, console.String(), "\x1b[", "non-terminal console must not be coloured")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"dir":"EU_EN"`)
}

func TestSetupLoggerWithOptions_FileDisabled(t *testing.T) {
	var console bytes.Buffer
	stateDir := t.TempDir()
	t.Setenv("FLATDIR_STATE_DIR", stateDir)

	SetupLoggerWithOptions(Options{Verbosity: 0, Console: &console, LogFile: "-"})

	_, err := os.Stat(filepath.Join(stateDir, "flatdir.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestLevelForVerbosity(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, LevelForVerbosity(0))
	assert.Equal(t, zerolog.InfoLevel, LevelForVerbosity(1))
	assert.Equal(t, zerolog.DebugLevel, LevelForVerbosity(2))
	assert.Equal(t, zerolog.TraceLevel, LevelForVerbosity(7))
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(&buf)

	logger := WithFields(map[string]interface{}{
		"key1": "value1",
		"key2": 42,
	})
	logger.Info().Msg("test message with fields")

	output := buf.String()
	assert.Contains(t, output, `"key1":"value1"`)
	assert.Contains(t, output, `"key2":42`)
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := zerolog.New(&buf)

	done := LogOperationStart(logger, "flatten")
	time.Sleep(time.Millisecond)
	done()

	output := buf.String()
	assert.Equal(t, 2, strings.Count(output, `"operation":"flatten"`))
	assert.Contains(t, output, "Operation completed")
	assert.Contains(t, output, "duration")
}
