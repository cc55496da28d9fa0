// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestProvider_LoadFromDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("default_runtime = 'virtual'\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultRuntime != RuntimeVirtual {
		t.Errorf("DefaultRuntime = %q, want virtual", cfg.DefaultRuntime)
	}
}

func TestProvider_LoadEmptyDirUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultRuntime != RuntimeNative {
		t.Errorf("DefaultRuntime = %q, want the native default", cfg.DefaultRuntime)
	}
}

func TestProvider_LoadExplicitFileWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dirFile := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(dirFile, []byte("default_runtime = 'native'\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	altFile := filepath.Join(dir, "alt.toml")
	if err := os.WriteFile(altFile, []byte("default_runtime = 'virtual'\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: altFile,
		ConfigDirPath:  dir,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultRuntime != RuntimeVirtual {
		t.Errorf("explicit file should win; DefaultRuntime = %q", cfg.DefaultRuntime)
	}
}
