package pipeline

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphsynth/pkg/errors"
)

// =============================================================================
// Presets - Named Configurations
// =============================================================================

// PresetsFile is the file name of the presets store inside the user config
// directory.
const PresetsFile = "presets.toml"

// DefaultPresetsPath returns $XDG_CONFIG_HOME/graphsynth/presets.toml, or the
// platform equivalent.
func DefaultPresetsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "graphsynth", PresetsFile), nil
}

// Presets is a set of named configurations stored as TOML tables:
//
//	[presets.dense]
//	model = "random"
//	nodes = 50
//	density = 0.8
//
// Fields missing from a table take their DefaultConfig values.
type Presets struct {
	path    string
	configs map[string]Config
}

type presetsFile struct {
	Presets map[string]toml.Primitive `toml:"presets"`
}

type presetsOut struct {
	Presets map[string]Config `toml:"presets"`
}

// LoadPresets reads the presets file at path. A missing file yields an
// empty store that Save will create.
func LoadPresets(path string) (*Presets, error) {
	p := &Presets{path: path, configs: make(map[string]Config)}

	var raw presetsFile
	md, err := toml.DecodeFile(path, &raw)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "read presets %s", path)
	}

	for name, prim := range raw.Presets {
		cfg := DefaultConfig()
		if err := md.PrimitiveDecode(prim, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfig, err, "preset %q", name)
		}
		cfg.Normalize()
		p.configs[name] = cfg
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, errors.New(errors.ErrCodeConfig, "presets %s: unknown key %s", path, keys[0])
	}
	return p, nil
}

// Path returns the file the store reads and writes.
func (p *Presets) Path() string { return p.path }

// List returns the preset names in sorted order.
func (p *Presets) List() []string {
	return slices.Sorted(maps.Keys(p.configs))
}

// Get returns the named preset, or a NOT_FOUND error.
func (p *Presets) Get(name string) (Config, error) {
	cfg, ok := p.configs[name]
	if !ok {
		return Config{}, errors.New(errors.ErrCodeNotFound, "preset %q not found", name)
	}
	return cfg, nil
}

// Set stores cfg under name after validating both. It does not write the
// file; call Save.
func (p *Presets) Set(name string, cfg Config) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	p.configs[name] = cfg
	return nil
}

// Delete removes the named preset. Deleting a missing preset is not an error.
func (p *Presets) Delete(name string) {
	delete(p.configs, name)
}

// Save writes the store to its path, creating parent directories. The file
// is replaced atomically.
func (p *Presets) Save() error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(presetsOut{Presets: p.configs}); err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".presets-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p.path)
}
