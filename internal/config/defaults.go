package config

import "github.com/adamwoolhether/booxtream/client"

const (
	defaultConfigPath     = "~/.config/booxtream/config.toml"
	defaultBaseURL        = client.DefaultBaseURL
	defaultTimeoutSeconds = 300
	defaultUserAgent      = "booxtream-go"
	defaultBurst          = 1
	defaultLogFormat      = "text"
	defaultLogLevel       = "info"
)

// Environment variables that override the credentials in the config file.
const (
	EnvUsername = "BOOXTREAM_USERNAME"
	EnvAPIKey   = "BOOXTREAM_API_KEY"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Service: Service{
			BaseURL:        defaultBaseURL,
			TimeoutSeconds: defaultTimeoutSeconds,
			UserAgent:      defaultUserAgent,
			Burst:          defaultBurst,
		},
		Options: map[string]any{},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
