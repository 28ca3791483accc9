package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.normalizeService()
	c.normalizeOptions()
	c.normalizeLogging()
}

func (c *Config) normalizeService() {
	if v, ok := os.LookupEnv(EnvUsername); ok && strings.TrimSpace(v) != "" {
		c.Service.Username = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvAPIKey); ok && strings.TrimSpace(v) != "" {
		c.Service.APIKey = strings.TrimSpace(v)
	}

	c.Service.BaseURL = strings.TrimRight(strings.TrimSpace(c.Service.BaseURL), "/")
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(c.Service.UserAgent) == "" {
		c.Service.UserAgent = defaultUserAgent
	}
	if c.Service.RequestsPerSecond > 0 && c.Service.Burst <= 0 {
		c.Service.Burst = defaultBurst
	}
}

// normalizeOptions lowercases option keys so they match wire names.
func (c *Config) normalizeOptions() {
	if c.Options == nil {
		c.Options = map[string]any{}
		return
	}

	normalized := make(map[string]any, len(c.Options))
	for k, v := range c.Options {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}
	c.Options = normalized
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
