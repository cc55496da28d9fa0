// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as the file format.
//
// Configuration is loaded from ~/.config/grimoire/config.toml (or XDG equivalent on Linux,
// ~/Library/Application Support/grimoire/config.toml on macOS, %APPDATA%\grimoire\config.toml
// on Windows), with a config.toml in the current directory as a fallback. Defaults always
// apply; a file only layers overrides on top. The package covers the registry location,
// the default runtime, the optional Redis backend and UI settings.
//
// Values are validated after decoding; invalid entries surface as field-level errors
// wrapped in actionable messages rather than being silently replaced.
package config
