package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides. A double underscore
// separates sections: FMM_GAME__ROOT_PATH sets game.root_path.
const EnvPrefix = "FMM_"

// Config is the merged application configuration
type Config struct {
	Game     GameConfig     `koanf:"game"`
	Layout   types.Layout   `koanf:"layout"`
	Registry RegistryConfig `koanf:"registry"`
}

// GameConfig records the game installation the user set up
type GameConfig struct {
	RootPath       string `koanf:"root_path" toml:"root_path"`
	ExecutablePath string `koanf:"executable_path" toml:"executable_path"`
}

// RegistryConfig controls the registry file name inside the config dir
type RegistryConfig struct {
	File string `koanf:"file"`
}

// Load merges the embedded defaults, the user config file at userFile (if
// present) and FMM_* environment variables, in that order.
func Load(userFile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load system defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Load user config if it exists
	if userFile != "" {
		if _, err := os.Stat(userFile); err == nil {
			if err := k.Load(file.Provider(userFile), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", userFile).
					WithDetail(errors.DetailPath, userFile)
			}
		}
	}

	// 3. Environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Validate rejects layouts that would make toggling ambiguous
func (c *Config) Validate() error {
	l := c.Layout
	if l.DisabledSuffix == "" || strings.ContainsAny(l.DisabledSuffix, `/\`) {
		return errors.Newf(errors.ErrConfigParse, "layout.disabled_suffix %q must be a non-empty file name suffix", l.DisabledSuffix)
	}
	if l.PatchChain == "" || strings.ContainsAny(l.PatchChain, `/\`) {
		return errors.Newf(errors.ErrConfigParse, "layout.patch_chain %q must be a file name in the game root", l.PatchChain)
	}
	for key, dir := range map[string]string{
		"layout.plugins_dir": l.PluginsDir,
		"layout.autorun_dir": l.AutorunDir,
		"layout.natives_dir": l.NativesDir,
	} {
		if dir == "" || filepath.IsAbs(dir) {
			return errors.Newf(errors.ErrConfigParse, "%s %q must be relative to the game root", key, dir)
		}
	}
	if c.Registry.File == "" {
		return errors.New(errors.ErrConfigParse, "registry.file cannot be empty")
	}
	return nil
}

// Default returns the built-in defaults with environment overrides
// applied, ignoring any user file. It panics on an invalid environment.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}
