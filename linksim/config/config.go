package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port     int           // HTTP port in serve mode
	Interval time.Duration // report interval in continuous mode
	Seed     int64         // 0 seeds from the clock
}

func NewConfig() *Config {
	cfg := &Config{
		Port:     8082,
		Interval: 5 * time.Second,
	}

	if portStr := os.Getenv("LINK_SIM_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Port = port
		}
	}

	if intervalStr := os.Getenv("LINK_SIM_INTERVAL"); intervalStr != "" {
		if interval, err := time.ParseDuration(intervalStr); err == nil && interval > 0 {
			cfg.Interval = interval
		}
	}

	if seedStr := os.Getenv("LINK_SIM_SEED"); seedStr != "" {
		if seed, err := strconv.ParseInt(seedStr, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}

	return cfg
}
