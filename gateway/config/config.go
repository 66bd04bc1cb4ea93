package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects how link metrics are acquired from the simulator.
type Mode string

const (
	ModeProcess Mode = "process"
	ModeHTTP    Mode = "http"
)

// ParseMode accepts "process" or "http", case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeProcess, ModeHTTP:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported simulator mode %q", s)
	}
}

type Config struct {
	Port      int             `yaml:"port"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Redis     RedisConfig     `yaml:"redis"`
	Log       LogConfig       `yaml:"log"`
}

type SimulatorConfig struct {
	Mode      Mode   `yaml:"mode"`
	Command   string `yaml:"command"`
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Timeout is the bound applied to every fetch and probe.
func (s SimulatorConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

type RedisConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Channel string `yaml:"channel"`
}

// Enabled reports whether snapshots should be published to Redis.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Dir     string `yaml:"dir"`
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

func defaultConfig() *Config {
	return &Config{
		Port: 8080,
		Simulator: SimulatorConfig{
			Mode:      ModeProcess,
			Command:   "./bin/linksim",
			URL:       "http://localhost:8082",
			TimeoutMs: 5000,
		},
		Redis: RedisConfig{
			Port:    6379,
			Channel: "microlink:metrics",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// NewConfig returns the defaults overridden by environment variables.
func NewConfig() *Config {
	cfg := defaultConfig()
	cfg.applyEnv()
	return cfg
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and environment variables, in that order of precedence (env wins).
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if port, ok := envInt("GATEWAY_PORT"); ok {
		c.Port = port
	}

	// Mode is validated later so an unknown value is reported, not dropped
	if mode := os.Getenv("LINK_SIMULATOR_MODE"); mode != "" {
		c.Simulator.Mode = Mode(strings.ToLower(strings.TrimSpace(mode)))
	}
	if command := os.Getenv("LINK_SIMULATOR_COMMAND"); command != "" {
		c.Simulator.Command = command
	}
	if u := os.Getenv("LINK_SIMULATOR_URL"); u != "" {
		c.Simulator.URL = u
	}
	if timeout, ok := envInt("LINK_SIMULATOR_TIMEOUT_MS"); ok {
		c.Simulator.TimeoutMs = timeout
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		c.Redis.Host = host
	}
	if port, ok := envInt("REDIS_PORT"); ok {
		c.Redis.Port = port
	}
	if channel := os.Getenv("REDIS_CHANNEL"); channel != "" {
		c.Redis.Channel = channel
	}

	if dir := os.Getenv("LOG_DIR"); dir != "" {
		c.Log.Dir = dir
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if console, err := strconv.ParseBool(os.Getenv("LOG_CONSOLE")); err == nil {
		c.Log.Console = console
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	mode, err := ParseMode(string(c.Simulator.Mode))
	if err != nil {
		return err
	}
	c.Simulator.Mode = mode

	if c.Simulator.TimeoutMs <= 0 {
		return errors.New("simulator timeout_ms must be positive")
	}

	switch mode {
	case ModeProcess:
		if strings.TrimSpace(c.Simulator.Command) == "" {
			return errors.New("simulator command is required in process mode")
		}
	case ModeHTTP:
		u, err := url.Parse(c.Simulator.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("simulator url %q must be an absolute http(s) URL", c.Simulator.URL)
		}
	}

	if c.Redis.Enabled() {
		if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
			return fmt.Errorf("redis port %d out of range", c.Redis.Port)
		}
		if c.Redis.Channel == "" {
			return errors.New("redis channel is required when redis host is set")
		}
	}

	return nil
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
