package holder

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	Types []typeConfig `toml:"type"`
}

type typeConfig struct {
	Name   string `toml:"name"`
	Holder string `toml:"holder"`
}

// Load parses a TOML holder declaration:
//
//	[[type]]
//	name = "Widget"
//	holder = "shared"
func Load(data []byte) (*Registry, error) {
	var cfg fileConfig
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("holder: parse: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("holder: unknown key %q", undecoded[0].String())
	}
	return build(cfg)
}

// LoadFile reads and parses the TOML file at path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied config path
	if err != nil {
		return nil, fmt.Errorf("holder: read %s: %w", path, err)
	}
	r, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func build(cfg fileConfig) (*Registry, error) {
	b := NewBuilder()
	for i, t := range cfg.Types {
		kind, err := ParseKind(t.Holder)
		if err != nil {
			return nil, fmt.Errorf("type[%d] invalid: %w", i, err)
		}
		if err := b.Add(t.Name, kind); err != nil {
			return nil, fmt.Errorf("type[%d] invalid: %w", i, err)
		}
	}
	return b.Freeze(), nil
}
