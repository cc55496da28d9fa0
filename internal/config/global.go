// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride lets tests point ConfigDir at a scratch directory.
// os.UserHomeDir() does not reliably honor the HOME environment variable
// on every platform (macOS in CI, notably), so HOME-swapping is not enough.
var configDirOverride string

// SetConfigDirOverride sets a custom config directory path. Intended for
// tests; pair it with a deferred Reset.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}
