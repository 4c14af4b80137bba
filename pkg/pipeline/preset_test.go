package pipeline

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/graphsynth/pkg/errors"
)

func TestPresetsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", PresetsFile)
	p, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets on missing file: %v", err)
	}
	if len(p.List()) != 0 {
		t.Fatalf("List() = %v, want empty", p.List())
	}

	dense := DefaultConfig().WithSeed(12345)
	dense.Model = "Small-World"
	dense.Nodes = 60
	dense.Weights.Enabled = true
	if err := p.Set("dense", dense); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := p.Set("plain", DefaultConfig()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := p.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets: %v", err)
	}
	if !slices.Equal(loaded.List(), []string{"dense", "plain"}) {
		t.Errorf("List() = %v", loaded.List())
	}
	got, err := loaded.Get("dense")
	if err != nil {
		t.Fatal(err)
	}
	if got.Model != "small_world" || got.Nodes != 60 || !got.Weights.Enabled {
		t.Errorf("dense = %+v", got)
	}
	if got.Seed == nil || *got.Seed != 12345 {
		t.Errorf("seed = %v", got.Seed)
	}
	plain, _ := loaded.Get("plain")
	if plain.Seed != nil {
		t.Errorf("plain seed = %v, want nil", *plain.Seed)
	}
}

func TestPresetsFillDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), PresetsFile)
	data := "[presets.tiny]\nmodel = \"star\"\nnodes = 5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPresets(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := p.Get("tiny")
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.Model != "star" || cfg.Nodes != 5 || cfg.Layout != def.Layout || cfg.Width != def.Width {
		t.Errorf("tiny = %+v", cfg)
	}
}

func TestPresetsErrors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.toml")
	if err := os.WriteFile(unknown, []byte("[presets.x]\ncolour = \"red\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPresets(unknown); !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("unknown key: err = %v", err)
	}

	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("[presets.x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPresets(broken); !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("broken file: err = %v", err)
	}

	p, _ := LoadPresets(filepath.Join(dir, "none.toml"))
	if _, err := p.Get("missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get missing: err = %v", err)
	}
	if err := p.Set("../escape", DefaultConfig()); err == nil {
		t.Error("Set should reject unsafe names")
	}
	bad := DefaultConfig()
	bad.Nodes = 0
	if err := p.Set("bad", bad); !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("Set invalid config: err = %v", err)
	}

	p.Set("gone", DefaultConfig())
	p.Delete("gone")
	p.Delete("never")
	if len(p.List()) != 0 {
		t.Errorf("List() = %v after delete", p.List())
	}
}
