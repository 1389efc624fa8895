// Package paths provides centralized path handling for fmm.
// It resolves the XDG directories fmm keeps its own files in and
// guards every game-relative path against escaping the game root.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/fossmodmanager/fmm/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for fmm
	EnvConfigDir = "FMM_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for fmm
	EnvStateDir = "FMM_STATE_DIR"

	// EnvCacheDir overrides the XDG cache directory for fmm
	EnvCacheDir = "FMM_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files. These names are part of the on-disk
// contract with earlier releases and are not user-configurable.
const (
	// AppDirName is the directory name for fmm-specific files
	AppDirName = "fmm"

	// RegistryFileName is the name of the mod registry file
	RegistryFileName = "mod_registry.json"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "fmm.log"
)

// Paths provides the locations fmm reads and writes outside the game root
type Paths interface {
	ConfigDir() string
	StateDir() string
	CacheDir() string
	RegistryPath() string
	ConfigFilePath() string
	LogFilePath() string
}

type paths struct {
	config string
	state  string
	cache  string
}

// New resolves the fmm directories, honouring the FMM_* overrides.
func New() Paths {
	return &paths{
		config: dirFromEnv(EnvConfigDir, xdg.ConfigHome),
		state:  dirFromEnv(EnvStateDir, xdg.StateHome),
		cache:  dirFromEnv(EnvCacheDir, xdg.CacheHome),
	}
}

func dirFromEnv(env, base string) string {
	if dir := os.Getenv(env); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(base, AppDirName)
}

func (p *paths) ConfigDir() string { return p.config }

func (p *paths) StateDir() string { return p.state }

func (p *paths) CacheDir() string { return p.cache }

// RegistryPath returns the location of mod_registry.json
func (p *paths) RegistryPath() string {
	return filepath.Join(p.config, RegistryFileName)
}

// ConfigFilePath returns the location of the user config.toml
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.config, ConfigFileName)
}

// LogFilePath returns the location of the append-only log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.state, LogFileName)
}

// ExpandHome expands ~ to the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv(EnvHome)
	}
	if home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// JoinInRoot joins a registry-relative path onto the game root. Absolute
// paths and paths that climb out of the root are rejected.
func JoinInRoot(root, rel string) (string, error) {
	if err := ValidateRelative(rel); err != nil {
		return "", err
	}
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}

// ValidateRelative checks a recorded path is relative and stays inside
// whatever root it is later joined to.
func ValidateRelative(rel string) error {
	if rel == "" {
		return errors.New(errors.ErrValidation, "path cannot be empty")
	}
	if strings.Contains(rel, "\x00") {
		return errors.New(errors.ErrValidation, "path contains null bytes")
	}
	slashed := filepath.ToSlash(rel)
	if filepath.IsAbs(rel) || strings.HasPrefix(slashed, "/") || filepath.VolumeName(rel) != "" {
		return errors.Newf(errors.ErrValidation, "path %q must be relative to the game root", rel)
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(rel)))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.Newf(errors.ErrValidation, "path %q escapes the game root", rel)
	}
	return nil
}

// RelativeTo returns path relative to root using forward slashes, the form
// recorded in the registry.
func RelativeTo(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrValidation, "path %q is not under %q", path, root)
	}
	rel = filepath.ToSlash(rel)
	if err := ValidateRelative(rel); err != nil {
		return "", err
	}
	return rel, nil
}

// SamePath reports whether two paths name the same location once made
// absolute and cleaned. Symlinks are not resolved.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(ExpandHome(a))
	absB, errB := filepath.Abs(ExpandHome(b))
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
