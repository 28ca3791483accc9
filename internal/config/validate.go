package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/adamwoolhether/booxtream/options"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateService(); err != nil {
		return err
	}
	if err := c.validateOptions(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateCredentials reports missing credentials. It is separate from
// Validate so that commands which never reach the service work without them.
func (c *Config) ValidateCredentials() error {
	if c.Service.Username == "" || c.Service.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("service.username and service.api_key are required. Set %s and %s env vars or edit %s", EnvUsername, EnvAPIKey, defaultPath)
	}
	return nil
}

func (c *Config) validateService() error {
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("service.base_url %q must be an absolute http(s) url", c.Service.BaseURL)
	}
	if c.Service.TimeoutSeconds < 0 {
		return errors.New("service.timeout_seconds must not be negative")
	}
	if c.Service.RequestsPerSecond < 0 {
		return errors.New("service.requests_per_second must not be negative")
	}
	if c.Service.RequestsPerSecond > 0 && c.Service.Burst <= 0 {
		return errors.New("service.burst must be positive when throttling")
	}
	return nil
}

func (c *Config) validateOptions() error {
	for key := range c.Options {
		if _, ok := options.Lookup(key); !ok {
			return fmt.Errorf("options.%s is not a known option", key)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains([]string{"text", "json"}, c.Logging.Format) {
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	return nil
}
