// Package config holds the manipulator options the picking tool reads at bind
// time and the stores that persist them.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Config is the option snapshot a tool works from.
type Config struct {
	Scale      float64 `json:"manip_scale"`       // base manipulator scale
	AutoAdjust bool    `json:"manip_auto_adjust"` // scale handles by joint length
	LeafStyles bool    `json:"leaf_styles"`       // leaf joints offer rotate and translate
	GlobalSize float64 `json:"global_size"`       // global manipulator size multiplier
	HandleSize float64 `json:"handle_size"`       // move cone size, percent of axis length
}

// Defaults.
const (
	DefaultScale      = 5.0
	DefaultGlobalSize = 1.0
	DefaultHandleSize = 30.0
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		Scale:      DefaultScale,
		GlobalSize: DefaultGlobalSize,
		HandleSize: DefaultHandleSize,
	}
}

// Resolve fills non-positive numeric fields with their defaults.
func (c *Config) Resolve() {
	if c.Scale <= 0 {
		c.Scale = DefaultScale
	}
	if c.GlobalSize <= 0 {
		c.GlobalSize = DefaultGlobalSize
	}
	if c.HandleSize <= 0 {
		c.HandleSize = DefaultHandleSize
	}
}

// Store persists the user-facing options. Values are read lazily and cached
// until a setter runs.
type Store interface {
	Scale() float64
	SetScale(scale float64) error
	AutoAdjust() bool
	SetAutoAdjust(on bool) error
}

// Snapshot combines a store's persisted values with the non-persisted
// fields of base.
func Snapshot(s Store, base Config) Config {
	c := base
	c.Scale = s.Scale()
	c.AutoAdjust = s.AutoAdjust()
	c.Resolve()
	return c
}

// ErrInvalidScale is returned for a non-positive scale.
var ErrInvalidScale = errors.New("config: scale must be positive")

// ---------------------------------------------------------------------------
// MemoryStore
// ---------------------------------------------------------------------------

// MemoryStore keeps options in memory.
type MemoryStore struct {
	mu         sync.Mutex
	scale      float64
	autoAdjust bool
}

// NewMemoryStore returns a store holding the defaults.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scale: DefaultScale}
}

func (m *MemoryStore) Scale() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scale
}

func (m *MemoryStore) SetScale(scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("config: set scale %v: %w", scale, ErrInvalidScale)
	}
	m.mu.Lock()
	m.scale = scale
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) AutoAdjust() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.autoAdjust
}

func (m *MemoryStore) SetAutoAdjust(on bool) error {
	m.mu.Lock()
	m.autoAdjust = on
	m.mu.Unlock()
	return nil
}

// ---------------------------------------------------------------------------
// FileStore
// ---------------------------------------------------------------------------

// FileStore persists options as a JSON document. The file is read once, on
// first access; a missing file yields the defaults. Every setter rewrites the
// whole file.
type FileStore struct {
	path string

	mu     sync.Mutex
	loaded bool
	doc    fileDoc
	err    error // last load error, if any
}

type fileDoc struct {
	Scale      float64 `json:"manip_scale"`
	AutoAdjust bool    `json:"manip_auto_adjust"`
}

// NewFileStore returns a store backed by path. Nothing is read until the
// first access.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string { return f.path }

// Err returns the error from the lazy load, if the file existed but could not
// be read or parsed. Defaults are served in that case.
func (f *FileStore) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadLocked()
	return f.err
}

func (f *FileStore) loadLocked() {
	if f.loaded {
		return
	}
	f.loaded = true
	f.doc = fileDoc{Scale: DefaultScale}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		f.err = fmt.Errorf("config: read %s: %w", f.path, err)
		return
	}
	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		f.err = fmt.Errorf("config: parse %s: %w", f.path, err)
		return
	}
	if doc.Scale <= 0 {
		doc.Scale = DefaultScale
	}
	f.doc = doc
}

func (f *FileStore) saveLocked() error {
	data, err := json.MarshalIndent(f.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: write %s: %w", f.path, err)
		}
	}
	if err := os.WriteFile(f.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) Scale() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadLocked()
	return f.doc.Scale
}

func (f *FileStore) SetScale(scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("config: set scale %v: %w", scale, ErrInvalidScale)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadLocked()
	f.doc.Scale = scale
	return f.saveLocked()
}

func (f *FileStore) AutoAdjust() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadLocked()
	return f.doc.AutoAdjust
}

func (f *FileStore) SetAutoAdjust(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadLocked()
	f.doc.AutoAdjust = on
	return f.saveLocked()
}

// Load reads a full Config from a JSON file. Fields missing from the file
// take their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Resolve()
	return cfg, nil
}
