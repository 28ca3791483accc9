// Package config loads the TOML configuration of the booxtream command.
//
// The file lives at ~/.config/booxtream/config.toml by default and holds
// the service account, transport tuning, default delivery options and
// logging settings. Credentials can be supplied through the
// BOOXTREAM_USERNAME and BOOXTREAM_API_KEY environment variables instead.
package config
