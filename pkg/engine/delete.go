package engine

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/events"
	"github.com/fossmodmanager/fmm/pkg/paths"
	"github.com/fossmodmanager/fmm/pkg/types"
)

// Delete removes a mod's files from the game root and then its registry
// entry. The entry is kept when any file could not be removed.
func (e *Engine) Delete(ctx context.Context, gameRoot, id string) error {
	return e.withGameDirWriteAccess(ctx, gameRoot, OpDelete, id, func(root string, tr *events.Tracker) (string, error) {
		var skinErr error
		err := e.store.Update(ctx, func(reg *types.Registry) error {
			if mod, ok := reg.FindMod(id); ok {
				if err := e.deleteDirectoryMod(root, mod); err != nil {
					return err
				}
				reg.RemoveMod(id)
				return nil
			}
			skin, ok := reg.FindSkinMod(id)
			if !ok {
				return notFound(id)
			}
			if skinErr = e.deleteSkinMod(ctx, root, skin, tr); skinErr == nil {
				reg.RemoveSkinMod(id)
			}
			return nil
		})
		if err == nil {
			err = skinErr
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted %s", id), nil
	})
}

func (e *Engine) deleteDirectoryMod(root string, mod *types.Mod) error {
	if mod.InstalledDirectory == "" {
		e.logger.Warn().Str("mod", mod.DirectoryName).Msg("No installed directory recorded, removing entry only")
		return nil
	}
	var errs []error
	for _, rel := range []string{mod.InstalledDirectory, e.layout.DisabledPath(mod.InstalledDirectory)} {
		abs, err := e.abs(root, rel)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := e.fs.RemoveAll(abs); err != nil {
			errs = append(errs, errors.IOFailure(err, "remove", abs))
		}
	}
	if err := errors.Aggregate(errors.ErrIOFailure, fmt.Sprintf("delete %s", mod.DirectoryName), errs); err != nil {
		return err
	}
	e.logger.Info().Str("mod", mod.DirectoryName).Str("dir", mod.InstalledDirectory).Msg("Directory mod deleted")
	return nil
}

// deleteSkinMod disables the mod, drops its parked patch slots and, when
// the payload lives in the managed mods directory, the payload itself.
func (e *Engine) deleteSkinMod(ctx context.Context, root string, skin *types.SkinMod, tr *events.Tracker) error {
	if err := e.disableSkin(ctx, root, skin, tr); err != nil {
		return err
	}

	var errs []error
	var kept []string
	for _, rel := range skin.ReservedPakPaths {
		abs, err := e.abs(root, rel)
		if err != nil {
			continue
		}
		if err := e.fs.RemoveAll(abs); err != nil {
			errs = append(errs, errors.IOFailure(err, "remove", abs))
			kept = append(kept, rel)
		}
	}
	skin.ReservedPakPaths = kept

	if payload, ok := e.managedPayload(root, skin.Path); ok {
		if err := e.fs.RemoveAll(payload); err != nil {
			errs = append(errs, errors.IOFailure(err, "remove", payload))
		}
	}

	if err := errors.Aggregate(errors.ErrIOFailure, fmt.Sprintf("delete %s", skin.DirectoryName), errs); err != nil {
		return err
	}
	e.logger.Info().Str("mod", skin.DirectoryName).Msg("Skin mod deleted")
	return nil
}

// managedPayload resolves a skin payload path and reports whether it lies
// inside the mods directory fmm extracts into.
func (e *Engine) managedPayload(root, payload string) (string, bool) {
	if payload == "" {
		return "", false
	}
	rel := payload
	if filepath.IsAbs(payload) {
		var err error
		if rel, err = paths.RelativeTo(root, payload); err != nil {
			return "", false
		}
	}
	rel = path.Clean(rel)
	if !strings.HasPrefix(rel, strings.TrimSuffix(e.layout.ModsDir, "/")+"/") {
		return "", false
	}
	abs, err := e.abs(root, rel)
	if err != nil {
		return "", false
	}
	return abs, true
}
