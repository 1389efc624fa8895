// Package gamepath supplies the configured game root and guards
// destructive operations against running on any other directory.
package gamepath

import (
	"github.com/fossmodmanager/fmm/pkg/config"
	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/paths"
)

// Resolver returns the game root the user configured
type Resolver interface {
	GameRoot() (string, error)
}

// Static is a Resolver with a fixed root
type Static string

func (s Static) GameRoot() (string, error) {
	if s == "" {
		return "", errors.New(errors.ErrValidation, "no game root configured, run setup first")
	}
	return paths.ExpandHome(string(s)), nil
}

// FromConfig resolves the root from cfg.Game.RootPath
func FromConfig(cfg *config.Config) Resolver {
	return Static(cfg.Game.RootPath)
}

// Validate returns the configured root when requested names the same
// directory, and a ValidationError otherwise.
func Validate(r Resolver, requested string) (string, error) {
	configured, err := r.GameRoot()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrValidation, "cannot verify game root")
	}
	if requested == "" {
		return "", errors.New(errors.ErrValidation, "no game root given")
	}
	if !paths.SamePath(configured, requested) {
		return "", errors.Newf(errors.ErrValidation,
			"game root %q does not match the configured root %q", requested, configured).
			WithDetail(errors.DetailPath, requested)
	}
	return configured, nil
}
