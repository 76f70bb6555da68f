// Package prefs persists the player's choices between runs.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/game"
)

// record is the on-disk layout.
type record struct {
	Skin int `toml:"skin"`
}

// File stores preferences in a TOML file. Read errors fall back to defaults.
type File struct {
	path string
	log  *log.Logger

	mu     sync.Mutex
	cached *record
	warned bool
}

var _ game.Preferences = (*File)(nil)

// NewFile returns a store backed by path. The file is created on first write.
func NewFile(path string, logger *log.Logger) *File {
	return &File{path: path, log: logger}
}

// Skin returns the stored skin index, or 0 if none is stored or the file is unreadable.
func (f *File) Skin() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, err := f.load()
	if err != nil {
		if !f.warned {
			f.log.Warn("reading preferences, using defaults", "path", f.path, "err", err)
			f.warned = true
		}
		return 0
	}
	return rec.Skin
}

// SetSkin stores the skin index.
func (f *File) SetSkin(skin int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec := record{Skin: skin}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create preferences dir: %w", err)
		}
	}
	if err := os.WriteFile(f.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	f.cached = &rec
	f.warned = false
	return nil
}

// load reads the file once and caches the result. A missing file is not an error.
func (f *File) load() (record, error) {
	if f.cached != nil {
		return *f.cached, nil
	}

	var rec record
	data, err := os.ReadFile(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f.cached = &rec
		return rec, nil
	case err != nil:
		return rec, err
	}
	if _, err := toml.Decode(string(data), &rec); err != nil {
		return record{}, fmt.Errorf("decode %s: %w", f.path, err)
	}
	f.cached = &rec
	return rec, nil
}

// Memory keeps preferences for the lifetime of the process, one per SSH session.
type Memory struct {
	mu   sync.Mutex
	skin int
}

var _ game.Preferences = (*Memory)(nil)

// Skin returns the selected skin.
func (m *Memory) Skin() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skin
}

// SetSkin selects a skin.
func (m *Memory) SetSkin(skin int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skin = skin
	return nil
}
