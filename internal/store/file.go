// SPDX-License-Identifier: MPL-2.0

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"grimoire-cli/internal/script"
)

// document is the on-disk shape of the registry: one YAML mapping from
// script name to script.
type document struct {
	Scripts map[string]*script.Script `yaml:"scripts"`
}

// File is a Registry backed by a single YAML document. Every operation
// reads the document fresh and writes it back atomically, so concurrent
// runs of the CLI never observe a half-written registry.
type File struct {
	fs   afero.Fs
	path string
}

// NewFile returns a file registry rooted at path. A nil fs means the OS
// filesystem. A missing document reads as an empty registry.
func NewFile(fs afero.Fs, path string) *File {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &File{fs: fs, path: path}
}

// Path returns the document location.
func (f *File) Path() string {
	return f.path
}

func (f *File) Scripts(ctx context.Context) (map[string]*script.Script, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	return doc.Scripts, nil
}

func (f *File) Script(ctx context.Context, name string) (*script.Script, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	doc, err := f.load()
	if err != nil {
		return nil, false, err
	}
	s, ok := doc.Scripts[name]
	return s, ok, nil
}

func (f *File) Put(ctx context.Context, s *script.Script) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkPut(s); err != nil {
		return err
	}
	doc, err := f.load()
	if err != nil {
		return err
	}
	doc.Scripts[s.Name] = s
	return f.save(doc)
}

func (f *File) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Scripts[name]; !ok {
		return &NotFoundError{Name: name}
	}
	delete(doc.Scripts, name)
	return f.save(doc)
}

func (f *File) load() (*document, error) {
	doc := &document{Scripts: map[string]*script.Script{}}
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("cannot read registry %s: %w", f.path, err)
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("cannot decode registry %s: %w", f.path, err)
	}
	if doc.Scripts == nil {
		doc.Scripts = map[string]*script.Script{}
	}
	return doc, nil
}

// save writes the document through a temp file in the same directory and
// renames it into place. The explicit remove before the rename keeps the
// swap working on Windows, where rename does not replace.
func (f *File) save(doc *document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("cannot encode registry: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create registry directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(f.fs, dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temporary registry file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = f.fs.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cannot write registry %s: %w", f.path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cannot flush registry %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot close temporary registry file: %w", err)
	}

	if err := f.fs.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot replace registry %s: %w", f.path, err)
	}
	if err := f.fs.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("cannot commit registry %s: %w", f.path, err)
	}
	return nil
}
