// SPDX-License-Identifier: MPL-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"grimoire-cli/internal/script"
)

var (
	// ErrNotFound is reported when an operation names a script that the
	// registry does not hold.
	ErrNotFound = errors.New("script not found")

	// ErrNilScript is reported when a nil script is handed to Put.
	ErrNilScript = errors.New("cannot store a nil script")
)

// NotFoundError carries the name that missed. It matches ErrNotFound
// through errors.Is.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("script %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Registry is the persistence contract for scripts. Names are unique;
// Put always upserts. Lookups report absence through the second return
// value rather than an error so callers can branch without unwrapping.
type Registry interface {
	// Scripts returns every stored script keyed by name.
	Scripts(ctx context.Context) (map[string]*script.Script, error)

	// Script looks up one script by name.
	Script(ctx context.Context, name string) (*script.Script, bool, error)

	// Put stores the script under its own name, replacing any previous
	// script with that name.
	Put(ctx context.Context, s *script.Script) error

	// Remove deletes the named script. Removing an absent name reports
	// a *NotFoundError.
	Remove(ctx context.Context, name string) error
}

// Options selects and configures a registry backend.
type Options struct {
	// Path is the file backend's document location.
	Path string

	// RedisURL switches to the Redis backend when non-empty.
	RedisURL string

	// Fs overrides the file backend's filesystem. Nil means the OS
	// filesystem.
	Fs afero.Fs
}

// Open builds the registry the options describe: Redis when RedisURL is
// set, the YAML file at Path otherwise.
func Open(opts Options) (Registry, error) {
	if opts.RedisURL != "" {
		return NewRedisFromURL(opts.RedisURL)
	}
	if opts.Path == "" {
		return nil, errors.New("registry path is empty")
	}
	return NewFile(opts.Fs, opts.Path), nil
}

// checkPut rejects scripts no backend should accept.
func checkPut(s *script.Script) error {
	if s == nil {
		return ErrNilScript
	}
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("cannot store a script without a name")
	}
	return nil
}
