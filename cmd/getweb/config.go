// CLAUDE:SUMMARY Optional YAML configuration file for the getweb server.
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional YAML configuration file. Every value
// can also come from a flag or environment variable; flags win over
// env, env wins over the file.
type fileConfig struct {
	Transport string `yaml:"transport"`
	HTTPAddr  string `yaml:"http_addr"`
	LogLevel  string `yaml:"log_level"`

	FetchlogDB string `yaml:"fetchlog_db"`
	Retention  struct {
		Days   int  `yaml:"days"`
		Vacuum bool `yaml:"vacuum"`
	} `yaml:"retention"`

	RateLimit struct {
		RatePerSecond float64 `yaml:"rate_per_second"`
		Burst         float64 `yaml:"burst"`
	} `yaml:"rate_limit"`

	Google struct {
		APIKey   string `yaml:"api_key"`
		EngineID string `yaml:"engine_id"`
	} `yaml:"google"`
	Jina struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"jina"`
}

func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *fileConfig) applyDefaults() {
	if c.Transport == "" {
		c.Transport = "stdio"
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Retention.Days == 0 {
		c.Retention.Days = 30
	}
}
