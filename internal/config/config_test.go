package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fppDocument = "{\n\t\"port\": \"ttyUSB0\",\n\t\"speed\": 9600,\n\t\"serialEvents\": [\n\t\t{\n\t\t\t\"description\": \"door\",\n\t\t\t\"condition\": \"startswith\",\n\t\t\t\"conditionValue\": \"DOOR\",\n\t\t\t\"command\": \"Start Playlist\",\n\t\t\t\"args\": [\"Show\", \"true\"],\n\t\t\t\"argTypes\": [\"string\", \"bool\"]\n\t\t}\n\t]\n}\n"

const yamlDocument = `
port: /dev/ttyAMA0
format: 7e2
historySize: 10
dispatch:
  workers: 4
  backend: log
  routes:
    Start Playlist: queue
queue:
  addr: 127.0.0.1:6379
serialEvents:
  - conditionValue: GO
    command: Start Playlist
`

func TestParse_TabIndentedJSON(t *testing.T) {
	cfg, err := Parse([]byte(fppDocument))
	require.NoError(t, err)

	assert.Equal(t, "ttyUSB0", cfg.Port)
	assert.Equal(t, 9600, cfg.Speed)
	assert.Equal(t, DefaultFormat, cfg.Format)
	require.Len(t, cfg.SerialEvents, 1)
	assert.NoError(t, Validate(cfg))
}

func TestParse_YAML(t *testing.T) {
	cfg, err := Parse([]byte(yamlDocument))
	require.NoError(t, err)

	assert.Equal(t, DefaultSpeed, cfg.Speed)
	assert.Equal(t, "7e2", cfg.Format)
	assert.Equal(t, 10, cfg.HistorySize)
	assert.Equal(t, 4, cfg.Dispatch.Workers)
	assert.Equal(t, DefaultQueueDepth, cfg.Dispatch.QueueDepth)
	assert.Equal(t, "log", cfg.Dispatch.Backend)
	assert.Equal(t, "queue", cfg.Dispatch.Routes["Start Playlist"])
	assert.Equal(t, DefaultQueueKey, cfg.Queue.Key)
	assert.Equal(t, DefaultFPPURL, cfg.FPP.URL)
	assert.NoError(t, Validate(cfg))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultSpeed, cfg.Speed)
	assert.Equal(t, DefaultBackend, cfg.Dispatch.Backend)
	assert.Equal(t, 1, cfg.Dispatch.Workers, "one worker keeps commands in firing order")
	assert.Empty(t, cfg.SerialEvents)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("{ not json"))
	assert.Error(t, err)
	_, err = Parse([]byte("port: [unterminated"))
	assert.Error(t, err)
}

func TestLineSource(t *testing.T) {
	cases := map[string]string{
		"ttyUSB0":          "/dev/ttyUSB0",
		" ttyS1 ":          "/dev/ttyS1",
		"/dev/ttyAMA0":     "/dev/ttyAMA0",
		"/dev/serial/by-0": "/dev/serial/by-0",
		"":                 "",
	}
	for in, want := range cases {
		cfg := &Config{Port: in, Speed: 9600, Format: "8N1"}
		src := cfg.LineSource()
		assert.Equal(t, want, src.Channel, in)
		assert.Equal(t, 9600, src.Speed)
		assert.Equal(t, "8N1", src.Format)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := &Config{
		Speed:       12345,
		Format:      "9X",
		HistorySize: -1,
		Dispatch: DispatchConf{
			Workers: -1,
			Backend: "carrier-pigeon",
			Routes:  map[string]string{"Stop": "queue"},
		},
		SerialEvents: []any{"not an object", map[string]any{"condition": "glob"}},
	}
	err := Validate(cfg)
	require.Error(t, err)

	for _, want := range []string{
		"port is required",
		"unsupported speed 12345",
		"bad frame format",
		"historySize must not be negative",
		"must not be negative",
		`unknown backend "carrier-pigeon"`,
		"queue.addr is required",
		"serialEvents[0]",
		"serialEvents[1]",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_EmptyRules(t *testing.T) {
	cfg, err := Parse([]byte("port: ttyS0\n"))
	require.NoError(t, err)
	assert.ErrorContains(t, Validate(cfg), "serialEvents is empty")
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoader_ReloadNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugin.json")
	writeConfig(t, path, fppDocument)

	l, err := NewLoader(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.Path())
	assert.Equal(t, "ttyUSB0", l.Config().Port)

	var got atomic.Pointer[Config]
	l.OnChange(func(c *Config) { got.Store(c) })

	writeConfig(t, path, yamlDocument)
	cfg, err := l.Reload()
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyAMA0", cfg.Port)
	assert.Same(t, cfg, got.Load())
	assert.Same(t, cfg, l.Config())

	writeConfig(t, path, "{ broken")
	_, err = l.Reload()
	assert.Error(t, err)
	assert.Same(t, cfg, l.Config(), "a failed reload keeps the previous config")
}

func TestLoader_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugin.yaml")
	writeConfig(t, path, yamlDocument)

	l, err := NewLoader(path)
	require.NoError(t, err)

	var reloads atomic.Int32
	l.OnChange(func(*Config) { reloads.Add(1) })

	stop, err := l.Watch()
	require.NoError(t, err)
	defer stop()

	writeConfig(t, path, "port: ttyUSB9\nserialEvents: [{conditionValue: X}]\n")
	assert.Eventually(t, func() bool {
		return reloads.Load() > 0 && l.Config().Port == "ttyUSB9"
	}, 2*time.Second, 10*time.Millisecond)

	stop()
	stop()
}
