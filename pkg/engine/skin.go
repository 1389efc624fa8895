package engine

import (
	"context"
	"fmt"
	"path"

	"github.com/fossmodmanager/fmm/pkg/conflicts"
	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/events"
	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/patchslot"
	"github.com/fossmodmanager/fmm/pkg/types"
)

// enableSkin places the files of skin into the game root.
//
// On a disabled mod every file is placed: colliding files of other
// enabled skins are moved aside first, pak files reuse the slots this mod
// reserved on its last disable and otherwise take fresh slot numbers. On
// a mod that is already enabled only files that failed earlier are
// placed, and paths another mod has since taken over are left to it.
func (e *Engine) enableSkin(ctx context.Context, root string, reg *types.Registry, skin *types.SkinMod, tr *events.Tracker) error {
	logger := e.logger.With().Str("mod", skin.DirectoryName).Logger()
	var errs []error

	var pending []int
	if skin.Enabled {
		taken := conflicts.BuildIndex(reg, skin.DirectoryName, e.layout)
		for i, f := range skin.Files {
			if f.Enabled {
				continue
			}
			if target := conflicts.TargetPath(e.layout, f); target != "" {
				if _, owned := taken[target]; owned {
					continue
				}
			}
			pending = append(pending, i)
		}
		if len(pending) == 0 {
			logger.Debug().Msg("Already enabled")
			return nil
		}
	} else {
		found := conflicts.Detect(conflicts.BuildIndex(reg, skin.DirectoryName, e.layout), skin.Files, e.layout)
		if len(found) > 0 {
			if err := conflicts.Resolve(e.fs, root, reg, skin.DirectoryName, found, e.layout); err != nil {
				errs = append(errs, err)
			}
			for _, c := range found {
				skin.Conflicts = appendUnique(skin.Conflicts, c.Owner)
			}
		}
		for i := range skin.Files {
			pending = append(pending, i)
		}
	}

	var alloc *patchslot.Allocator
	reserved := append([]string(nil), skin.ReservedPakPaths...)

	for n, i := range pending {
		if ctx.Err() != nil {
			break
		}
		f := &skin.Files[i]

		var target string
		var err error
		if f.FileType == types.FileTypePak {
			target, reserved, err = e.placePak(root, f, reserved, &alloc)
		} else {
			target = conflicts.TargetPath(e.layout, *f)
			err = e.copyInto(root, f.OriginalPath, target)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		f.Enabled = true
		skin.InstalledFiles = appendUnique(skin.InstalledFiles, target)
		if f.FileType == types.FileTypePak && skin.InstalledPakPath == nil {
			skin.InstalledPakPath = types.StringPtr(target)
		}
		tr.Progress(float64(n+1)/float64(len(pending)), target)
	}

	skin.ReservedPakPaths = reserved
	if len(skin.InstalledFiles) > 0 || len(errs) == 0 {
		skin.Enabled = true
	}

	logger.Info().
		Int("installed", len(skin.InstalledFiles)).
		Int("failed", len(errs)).
		Strs("conflicts", skin.Conflicts).
		Msg("Skin mod enabled")
	if err := canceled(ctx); err != nil {
		return err
	}
	return errors.Aggregate(errors.ErrIOFailure, fmt.Sprintf("enable %s", skin.DirectoryName), errs)
}

// placePak moves a reserved slot back into use, or copies the pak into a
// fresh slot when none is left. It returns the slot name and the
// remaining reservations.
func (e *Engine) placePak(root string, f *types.ModFile, reserved []string, alloc **patchslot.Allocator) (string, []string, error) {
	for len(reserved) > 0 {
		parked := reserved[0]
		reserved = reserved[1:]

		from, err := e.abs(root, parked)
		if err != nil {
			continue
		}
		target := e.slots.Enabled(parked)
		to, err := e.abs(root, target)
		if err != nil {
			continue
		}
		ok, err := e.exists(from)
		if err != nil {
			return "", append([]string{parked}, reserved...), err
		}
		if !ok {
			e.logger.Warn().Str("slot", parked).Msg("Reserved patch slot is gone, dropping it")
			continue
		}
		if err := e.fs.Rename(from, to); err != nil {
			return "", append([]string{parked}, reserved...), errors.IOFailure(err, "rename", from)
		}
		return target, reserved, nil
	}

	if *alloc == nil {
		a, err := e.slots.NewAllocator(e.fs, root)
		if err != nil {
			return "", reserved, errors.IOFailure(err, "scan", root)
		}
		*alloc = a
	}
	target := (*alloc).Take()
	return target, reserved, e.copyInto(root, f.OriginalPath, target)
}

// disableSkin removes exactly the files recorded in InstalledFiles. Pak
// slots are parked under their disabled name and kept as reservations;
// everything else is deleted, missing files included. Paths that could
// not be removed stay recorded and the mod stays enabled so the call can
// be repeated.
func (e *Engine) disableSkin(ctx context.Context, root string, skin *types.SkinMod, tr *events.Tracker) error {
	logger := e.logger.With().Str("mod", skin.DirectoryName).Logger()
	if !skin.Enabled {
		logger.Debug().Msg("Already disabled")
		return nil
	}

	var errs []error
	var remaining []string
	total := len(skin.InstalledFiles)

	for n, rel := range skin.InstalledFiles {
		if ctx.Err() != nil {
			remaining = append(remaining, skin.InstalledFiles[n:]...)
			break
		}
		abs, err := e.abs(root, rel)
		if err != nil {
			logger.Warn().Err(err).Str("path", rel).Msg("Dropping installed path outside the game root")
			continue
		}
		ok, err := e.exists(abs)
		if err != nil {
			errs = append(errs, err)
			remaining = append(remaining, rel)
			continue
		}
		if !ok {
			logger.Warn().Str("path", rel).Msg("Installed file already gone")
			continue
		}

		if slot, isSlot := e.slots.Parse(path.Base(rel)); isSlot && !slot.Disabled && path.Dir(rel) == "." {
			parked := e.slots.Disabled(rel)
			parkedAbs, _ := e.abs(root, parked)
			if err := e.fs.Rename(abs, parkedAbs); err != nil {
				errs = append(errs, errors.IOFailure(err, "rename", abs))
				remaining = append(remaining, rel)
				continue
			}
			skin.ReservedPakPaths = appendUnique(skin.ReservedPakPaths, parked)
		} else if err := e.fs.Remove(abs); err != nil {
			errs = append(errs, errors.IOFailure(err, "remove", abs))
			remaining = append(remaining, rel)
			continue
		}
		tr.Progress(float64(n+1)/float64(total), rel)
	}

	if len(remaining) > 0 {
		skin.InstalledFiles = remaining
	} else {
		skin.Enabled = false
		skin.InstalledFiles = []string{}
		skin.InstalledPakPath = nil
		for i := range skin.Files {
			skin.Files[i].Enabled = false
		}
	}

	logger.Info().
		Int("reserved", len(skin.ReservedPakPaths)).
		Int("failed", len(errs)).
		Msg("Skin mod disabled")
	if err := canceled(ctx); err != nil {
		return err
	}
	return errors.Aggregate(errors.ErrIOFailure, fmt.Sprintf("disable %s", skin.DirectoryName), errs)
}

// copyInto copies src to the game-relative path rel
func (e *Engine) copyInto(root, src, rel string) error {
	dst, err := e.abs(root, rel)
	if err != nil {
		return err
	}
	if _, err := filesystem.CopyFile(e.fs, src, dst); err != nil {
		return errors.IOFailure(err, "copy", dst)
	}
	return nil
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
