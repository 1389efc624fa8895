package engine

import (
	"context"
	"fmt"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/events"
	"github.com/fossmodmanager/fmm/pkg/types"
)

// Toggle enables or disables the mod with the given id. Requesting the
// state a mod is already in changes nothing.
func (e *Engine) Toggle(ctx context.Context, gameRoot, id string, enable bool) error {
	op := OpDisable
	if enable {
		op = OpEnable
	}

	return e.withGameDirWriteAccess(ctx, gameRoot, op, id, func(root string, tr *events.Tracker) (string, error) {
		// Skin work that partly succeeded is still saved so a repeated
		// call picks up from the recorded state.
		var skinErr error
		err := e.store.Update(ctx, func(reg *types.Registry) error {
			if mod, ok := reg.FindMod(id); ok {
				return e.toggleDirectoryMod(root, mod, enable)
			}
			skin, ok := reg.FindSkinMod(id)
			if !ok {
				return notFound(id)
			}
			if enable {
				skinErr = e.enableSkin(ctx, root, reg, skin, tr)
			} else {
				skinErr = e.disableSkin(ctx, root, skin, tr)
			}
			return nil
		})
		if err == nil {
			err = skinErr
		}
		if err != nil {
			return "", err
		}
		if enable {
			return fmt.Sprintf("Enabled %s", id), nil
		}
		return fmt.Sprintf("Disabled %s", id), nil
	})
}

// Enable is Toggle(ctx, gameRoot, id, true)
func (e *Engine) Enable(ctx context.Context, gameRoot, id string) error {
	return e.Toggle(ctx, gameRoot, id, true)
}

// Disable is Toggle(ctx, gameRoot, id, false)
func (e *Engine) Disable(ctx context.Context, gameRoot, id string) error {
	return e.Toggle(ctx, gameRoot, id, false)
}

// toggleDirectoryMod renames the mod directory to or from its disabled
// sibling. The registry flag follows whatever the filesystem ends up as.
func (e *Engine) toggleDirectoryMod(root string, mod *types.Mod, enable bool) error {
	if mod.InstalledDirectory == "" {
		return errors.Newf(errors.ErrStateMismatch, "%s has no installed directory recorded", mod.DirectoryName).
			WithDetail(errors.DetailModID, mod.DirectoryName)
	}

	enabledAbs, err := e.abs(root, mod.InstalledDirectory)
	if err != nil {
		return err
	}
	disabledAbs, err := e.abs(root, e.layout.DisabledPath(mod.InstalledDirectory))
	if err != nil {
		return err
	}
	hasEnabled, err := e.exists(enabledAbs)
	if err != nil {
		return err
	}
	hasDisabled, err := e.exists(disabledAbs)
	if err != nil {
		return err
	}

	logger := e.logger.With().Str("mod", mod.DirectoryName).Bool("enable", enable).Logger()

	switch {
	case !hasEnabled && !hasDisabled:
		return errors.Newf(errors.ErrStateMismatch,
			"neither %s nor its disabled form exists", mod.InstalledDirectory).
			WithDetail(errors.DetailModID, mod.DirectoryName).
			WithDetail(errors.DetailPath, enabledAbs)

	case enable && hasEnabled:
		if hasDisabled {
			logger.Warn().Str("path", disabledAbs).Msg("Disabled copy also present, leaving it alone")
		}
		mod.Enabled = true
		logger.Debug().Msg("Already enabled")
		return nil

	case !enable && !hasEnabled:
		mod.Enabled = false
		logger.Debug().Msg("Already disabled")
		return nil

	case !enable && hasDisabled:
		return errors.Newf(errors.ErrConflict,
			"cannot disable %s: %s already exists", mod.DirectoryName, disabledAbs).
			WithDetail(errors.DetailModID, mod.DirectoryName).
			WithDetail(errors.DetailPath, disabledAbs)
	}

	from, to := disabledAbs, enabledAbs
	if !enable {
		from, to = enabledAbs, disabledAbs
	}
	if err := e.fs.Rename(from, to); err != nil {
		return errors.IOFailure(err, "rename", from).WithDetail(errors.DetailModID, mod.DirectoryName)
	}
	mod.Enabled = enable
	logger.Info().Str("from", from).Str("to", to).Msg("Toggled directory mod")
	return nil
}
