package config

import "strings"

// Config is the top-level plugin document. JSON and YAML are both accepted.
type Config struct {
	Port         string       `json:"port" yaml:"port"`
	Speed        int          `json:"speed" yaml:"speed"`
	Format       string       `json:"format" yaml:"format"`
	HistorySize  int          `json:"historySize" yaml:"historySize"`
	SerialEvents []any        `json:"serialEvents" yaml:"serialEvents"`
	Dispatch     DispatchConf `json:"dispatch" yaml:"dispatch"`
	FPP          FPPConf      `json:"fpp" yaml:"fpp"`
	Queue        QueueConf    `json:"queue" yaml:"queue"`
}

// DispatchConf tunes the asynchronous command dispatcher.
type DispatchConf struct {
	Workers    int               `json:"workers" yaml:"workers"`
	QueueDepth int               `json:"queueDepth" yaml:"queueDepth"`
	TimeoutMs  int               `json:"timeoutMs" yaml:"timeoutMs"`
	Backend    string            `json:"backend" yaml:"backend"` // fpp | queue | log
	Routes     map[string]string `json:"routes" yaml:"routes"`   // command name → backend
}

// FPPConf locates the FPP command API.
type FPPConf struct {
	URL string `json:"url" yaml:"url"`
}

// QueueConf configures the Redis command queue. Empty Addr disables it.
type QueueConf struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	Key      string `json:"key" yaml:"key"`
}

// LineSourceConfig is what the intake needs to open the line source.
type LineSourceConfig struct {
	Channel string
	Speed   int
	Format  string
}

// LineSource returns the line source parameters. A bare port name such as
// "ttyUSB0" is resolved under /dev.
func (c *Config) LineSource() LineSourceConfig {
	ch := strings.TrimSpace(c.Port)
	if ch != "" && !strings.Contains(ch, "/dev/") {
		ch = "/dev/" + ch
	}
	return LineSourceConfig{Channel: ch, Speed: c.Speed, Format: c.Format}
}
