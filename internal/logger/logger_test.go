package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, false)

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	log.Warn("careful")
	log.Error("broken")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO] shown 2\n")
	assert.Contains(t, out, "WARN] careful\n")
	assert.Contains(t, out, "ERROR] broken\n")
	assert.False(t, log.DebugEnabled())
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, false)
	log.Debug("details")

	assert.Contains(t, buf.String(), "DEBUG] details\n")
	assert.True(t, log.DebugEnabled())
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, false)

	require.NoError(t, log.SetLevel("WARNING"))
	assert.Equal(t, LevelWarn, log.Level())
	log.Info("quiet")
	assert.Empty(t, buf.String())

	require.NoError(t, log.SetLevel("off"))
	log.Error("nothing")
	assert.Empty(t, buf.String())

	err := log.SetLevel("loud")
	assert.ErrorContains(t, err, `unknown log level "loud"`)
	assert.Equal(t, LevelNone, log.Level())
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]LogLevel{
		"debug": LevelDebug,
		"Info":  LevelInfo,
		"warn":  LevelWarn,
		"ERROR": LevelError,
		"none":  LevelNone,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, false)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log.Info("line %d", i)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 50)
	for _, line := range lines {
		assert.Contains(t, line, "INFO] line ")
	}
}
