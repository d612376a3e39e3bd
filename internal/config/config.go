package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bamsammich/fsio/internal/filter"
	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/textenc"
)

// Config represents the optional fsio configuration file. Every key is a
// pointer so an unset key is distinguishable from its zero value.
type Config struct {
	Copy  CopyConfig  `toml:"copy"`
	Walk  WalkConfig  `toml:"walk"`
	Read  ReadConfig  `toml:"read"`
	Theme ThemeConfig `toml:"theme"`
}

// CopyConfig holds defaults for cp.
type CopyConfig struct {
	Overwrite  *bool   `toml:"overwrite"`
	Timestamps *bool   `toml:"timestamps"`
	BufferSize *int    `toml:"buffer_size"`
	BWLimit    *string `toml:"bwlimit"`
	Workers    *int    `toml:"workers"`
	Verify     *bool   `toml:"verify"`
}

// WalkConfig holds defaults for walk and recursive cp.
type WalkConfig struct {
	FollowSymlinks *bool `toml:"follow_symlinks"`
	MaxDepth       *int  `toml:"max_depth"`
}

// ReadConfig holds defaults for cat and write.
type ReadConfig struct {
	Encoding *string `toml:"encoding"`
}

// ThemeConfig holds optional color overrides for listings.
type ThemeConfig struct {
	Dir     *string `toml:"dir"`
	Symlink *string `toml:"symlink"`
	Error   *string `toml:"error"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "fsio", "config.toml")
}

// Load reads the config file from the XDG path. A missing file yields a zero
// Config and no error.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates the config file at path. A missing file
// yields a zero Config and no error.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fserr.New(fserr.ConfigurationError, "load config", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fserr.Configf("load config", "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	if c.Copy.BufferSize != nil && *c.Copy.BufferSize <= 0 {
		return fserr.Configf("config", "copy.buffer_size must be positive, got %d", *c.Copy.BufferSize)
	}
	if c.Copy.Workers != nil && *c.Copy.Workers < 0 {
		return fserr.Configf("config", "copy.workers must not be negative, got %d", *c.Copy.Workers)
	}
	if c.Copy.BWLimit != nil {
		if _, err := filter.ParseSize(*c.Copy.BWLimit); err != nil {
			return err
		}
	}
	if c.Read.Encoding != nil {
		if _, err := textenc.Parse(*c.Read.Encoding); err != nil {
			return err
		}
	}
	return nil
}

// Encode renders c as TOML, omitting unset keys.
func (c Config) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}
