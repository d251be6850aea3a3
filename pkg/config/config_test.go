package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Scale != 5 || c.AutoAdjust || c.LeafStyles || c.GlobalSize != 1 || c.HandleSize != 30 {
		t.Errorf("Default() = %+v", c)
	}
	var z Config
	z.Resolve()
	if z.Scale != DefaultScale || z.GlobalSize != DefaultGlobalSize || z.HandleSize != DefaultHandleSize {
		t.Errorf("Resolve() on zero = %+v", z)
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	if m.Scale() != DefaultScale || m.AutoAdjust() {
		t.Fatalf("fresh store = %v/%v", m.Scale(), m.AutoAdjust())
	}
	if err := m.SetScale(2.5); err != nil {
		t.Fatal(err)
	}
	if err := m.SetAutoAdjust(true); err != nil {
		t.Fatal(err)
	}
	if m.Scale() != 2.5 || !m.AutoAdjust() {
		t.Errorf("store = %v/%v", m.Scale(), m.AutoAdjust())
	}
	if err := m.SetScale(0); !errors.Is(err, ErrInvalidScale) {
		t.Errorf("SetScale(0) err = %v", err)
	}
	if m.Scale() != 2.5 {
		t.Error("rejected scale must not be stored")
	}
}

func TestSnapshot(t *testing.T) {
	m := NewMemoryStore()
	_ = m.SetScale(3)
	_ = m.SetAutoAdjust(true)
	base := Default()
	base.LeafStyles = true
	c := Snapshot(m, base)
	if c.Scale != 3 || !c.AutoAdjust || !c.LeafStyles || c.HandleSize != 30 {
		t.Errorf("Snapshot = %+v", c)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	f := NewFileStore(filepath.Join(t.TempDir(), "none.json"))
	if f.Scale() != DefaultScale || f.AutoAdjust() {
		t.Errorf("defaults = %v/%v", f.Scale(), f.AutoAdjust())
	}
	if err := f.Err(); err != nil {
		t.Errorf("Err() = %v, want nil for missing file", err)
	}
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "mannequin.json")
	f := NewFileStore(path)
	if err := f.SetScale(7.5); err != nil {
		t.Fatalf("SetScale: %v", err)
	}
	if err := f.SetAutoAdjust(true); err != nil {
		t.Fatalf("SetAutoAdjust: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), `"manip_scale": 7.5`) {
		t.Errorf("file = %s", data)
	}

	g := NewFileStore(path)
	if g.Scale() != 7.5 || !g.AutoAdjust() {
		t.Errorf("reloaded = %v/%v", g.Scale(), g.AutoAdjust())
	}
}

// Values are cached after the first read; outside edits are not seen.
func TestFileStoreCachesFirstRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.json")
	if err := os.WriteFile(path, []byte(`{"manip_scale": 2}`), 0o644); err != nil {
		t.Fatal(err)
	}
	f := NewFileStore(path)
	if f.Scale() != 2 {
		t.Fatalf("Scale = %v, want 2", f.Scale())
	}
	if err := os.WriteFile(path, []byte(`{"manip_scale": 9}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if f.Scale() != 2 {
		t.Errorf("Scale = %v, want cached 2", f.Scale())
	}
}

func TestFileStoreBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := NewFileStore(path)
	if f.Scale() != DefaultScale {
		t.Errorf("Scale = %v, want default", f.Scale())
	}
	if err := f.Err(); err == nil || !strings.Contains(err.Error(), "config: parse") {
		t.Errorf("Err() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte(`{"leaf_styles": true, "handle_size": 50}`), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.LeafStyles || c.HandleSize != 50 || c.Scale != DefaultScale {
		t.Errorf("Load = %+v", c)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
