// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// RuntimeNative runs commands in the host system shell.
	// Defined locally to avoid coupling config to internal/shell;
	// the CLI casts to shell.Mode at the boundary.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs commands in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidRuntimeMode is returned when a RuntimeMode value is not recognized.
	ErrInvalidRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidScriptsFilePath is returned when a ScriptsFilePath value is whitespace-only.
	ErrInvalidScriptsFilePath = errors.New("invalid scripts file path")
	// ErrInvalidRedisURL is returned when a RedisURL value is malformed.
	ErrInvalidRedisURL = errors.New("invalid redis url")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// RuntimeMode specifies the execution runtime for commands.
	RuntimeMode string

	// InvalidRuntimeModeError is returned when a RuntimeMode value is not recognized.
	// It wraps ErrInvalidRuntimeMode for errors.Is() compatibility.
	InvalidRuntimeModeError struct {
		Value RuntimeMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ScriptsFilePath is the location of the script registry document.
	// The zero value ("") is valid and means "use the default location
	// inside the config directory". Non-zero values must not be
	// whitespace-only.
	ScriptsFilePath string

	// InvalidScriptsFilePathError is returned when a ScriptsFilePath value is
	// non-empty but whitespace-only. It wraps ErrInvalidScriptsFilePath.
	InvalidScriptsFilePathError struct {
		Value ScriptsFilePath
	}

	// RedisURL selects the Redis registry backend when non-empty.
	// The zero value ("") is valid and means "use the file backend".
	RedisURL string

	// InvalidRedisURLError is returned when a RedisURL value does not carry a
	// recognized scheme. It wraps ErrInvalidRedisURL for errors.Is().
	InvalidRedisURLError struct {
		Value RedisURL
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ScriptsFile overrides where the file registry document lives.
		ScriptsFile ScriptsFilePath `toml:"scripts_file" mapstructure:"scripts_file"`
		// DefaultRuntime sets the runtime commands execute under.
		DefaultRuntime RuntimeMode `toml:"default_runtime" mapstructure:"default_runtime"`
		// RedisURL switches the registry to Redis when non-empty.
		RedisURL RedisURL `toml:"redis_url" mapstructure:"redis_url"`
		// UI configures the user interface.
		UI UIConfig `toml:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `toml:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output.
		Verbose bool `toml:"verbose" mapstructure:"verbose"`
		// Accessible forces the prompt layer into accessible mode.
		Accessible bool `toml:"accessible" mapstructure:"accessible"`
	}
)

// String returns the string representation of the RuntimeMode.
func (m RuntimeMode) String() string { return string(m) }

// IsValid returns whether the RuntimeMode is one of the defined runtime modes,
// and a list of validation errors if it is not.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidRuntimeModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidRuntimeModeError.
func (e *InvalidRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidRuntimeModeError) Unwrap() error {
	return ErrInvalidRuntimeMode
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ScriptsFilePath.
func (p ScriptsFilePath) String() string { return string(p) }

// IsValid returns whether the ScriptsFilePath is valid.
// The zero value ("") is valid (means "use the default location").
// Non-zero values must not be whitespace-only.
func (p ScriptsFilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidScriptsFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidScriptsFilePathError.
func (e *InvalidScriptsFilePathError) Error() string {
	return fmt.Sprintf("invalid scripts file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidScriptsFilePath for errors.Is() compatibility.
func (e *InvalidScriptsFilePathError) Unwrap() error { return ErrInvalidScriptsFilePath }

// String returns the string representation of the RedisURL.
func (u RedisURL) String() string { return string(u) }

// IsValid returns whether the RedisURL is valid.
// The zero value ("") is valid (means "use the file backend").
// Non-zero values must start with redis://, rediss:// or unix://.
func (u RedisURL) IsValid() (bool, []error) {
	if u == "" {
		return true, nil
	}
	for _, scheme := range []string{"redis://", "rediss://", "unix://"} {
		if strings.HasPrefix(string(u), scheme) {
			return true, nil
		}
	}
	return false, []error{&InvalidRedisURLError{Value: u}}
}

// Error implements the error interface for InvalidRedisURLError.
func (e *InvalidRedisURLError) Error() string {
	return fmt.Sprintf("invalid redis url %q (must start with redis://, rediss:// or unix://)", e.Value)
}

// Unwrap returns ErrInvalidRedisURL for errors.Is() compatibility.
func (e *InvalidRedisURLError) Unwrap() error { return ErrInvalidRedisURL }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to ScriptsFile.IsValid(), DefaultRuntime.IsValid(),
// RedisURL.IsValid() and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ScriptsFile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.DefaultRuntime.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.RedisURL.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ScriptsFile:    "",
		DefaultRuntime: RuntimeNative,
		RedisURL:       "",
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Accessible:  false,
		},
	}
}
