package engine

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/events"
	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/paths"
	"github.com/fossmodmanager/fmm/pkg/types"
)

// Install registers the payload described by m. Directory mods are copied
// into the game root and registered enabled. Skin mods are registered
// disabled with their file manifest; their files are placed on enable.
//
// Installing over an existing id replaces it: a directory mod's previous
// directories are removed first, while an enabled skin mod must be
// disabled before it can be replaced. If any file fails to copy the mod
// is not registered.
func (e *Engine) Install(ctx context.Context, gameRoot string, m *types.InstallManifest) error {
	if err := e.validateManifest(m); err != nil {
		return err
	}

	return e.withGameDirWriteAccess(ctx, gameRoot, OpInstall, m.DirectoryName, func(root string, tr *events.Tracker) (string, error) {
		err := e.store.Update(ctx, func(reg *types.Registry) error {
			if m.ModType.IsDirectoryMod() {
				return e.installDirectoryMod(ctx, root, reg, m, tr)
			}
			return e.installSkinMod(reg, m)
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Installed %s", m.Name), nil
	})
}

func (e *Engine) validateManifest(m *types.InstallManifest) error {
	if m == nil {
		return errors.New(errors.ErrInvalidInput, "no manifest given")
	}
	id := m.DirectoryName
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return errors.Newf(errors.ErrInvalidInput, "invalid directory name %q", id)
	}
	if e.layout.IsDisabledPath(id) {
		return errors.Newf(errors.ErrInvalidInput, "directory name %q ends in %s", id, e.layout.DisabledSuffix)
	}
	if !m.ModType.Valid() {
		return errors.Newf(errors.ErrInvalidInput, "unknown mod type %q", m.ModType)
	}
	if len(m.Entries) == 0 {
		return errors.Newf(errors.ErrInvalidInput, "manifest for %s lists no files", id)
	}
	for _, entry := range m.Entries {
		if err := paths.ValidateRelative(entry.RelativePath); err != nil {
			return errors.Wrapf(err, errors.ErrInvalidInput, "manifest entry %q", entry.RelativePath)
		}
		if entry.SourcePath == "" {
			return errors.Newf(errors.ErrInvalidInput, "manifest entry %q has no source", entry.RelativePath)
		}
	}
	if m.InstalledDirectory != "" {
		if err := paths.ValidateRelative(m.InstalledDirectory); err != nil {
			return errors.Wrap(err, errors.ErrInvalidInput, "invalid installed directory")
		}
	} else if m.ModType.IsDirectoryMod() && e.layout.InstallRoot(m.ModType) == "" {
		return errors.Newf(errors.ErrInvalidInput, "mods of type %s need an explicit installed directory", m.ModType)
	}
	return nil
}

func (e *Engine) installDirectoryMod(ctx context.Context, root string, reg *types.Registry, m *types.InstallManifest, tr *events.Tracker) error {
	if _, isSkin := reg.FindSkinMod(m.DirectoryName); isSkin {
		return errors.Newf(errors.ErrConflict, "%s is already installed as a skin mod", m.DirectoryName).
			WithDetail(errors.DetailModID, m.DirectoryName)
	}

	installedDir := m.InstalledDirectory
	if installedDir == "" {
		installedDir = path.Join(e.layout.InstallRoot(m.ModType), m.DirectoryName)
	}
	installedDir = strings.TrimSuffix(strings.ReplaceAll(installedDir, `\`, "/"), "/")

	enabledAbs, err := e.abs(root, installedDir)
	if err != nil {
		return err
	}
	disabledAbs, err := e.abs(root, e.layout.DisabledPath(installedDir))
	if err != nil {
		return err
	}

	if previous, ok := reg.FindMod(m.DirectoryName); ok {
		e.logger.Info().Str("mod", previous.DirectoryName).Msg("Replacing installed mod")
	}
	for _, dir := range []string{enabledAbs, disabledAbs} {
		if err := e.fs.RemoveAll(dir); err != nil {
			return errors.IOFailure(err, "remove", dir)
		}
	}

	var errs []error
	for i, entry := range m.Entries {
		if ctx.Err() != nil {
			break
		}
		dst, err := e.abs(root, path.Join(installedDir, entry.RelativePath))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := filesystem.CopyFile(e.fs, entry.SourcePath, dst); err != nil {
			errs = append(errs, errors.IOFailure(err, "copy", dst))
			continue
		}
		tr.Progress(float64(i+1)/float64(len(m.Entries)), entry.RelativePath)
	}
	if err := canceled(ctx); err != nil {
		return err
	}
	if err := errors.Aggregate(errors.ErrIOFailure, fmt.Sprintf("install %s", m.DirectoryName), errs); err != nil {
		return err
	}

	reg.AddMod(types.Mod{
		Name:               m.Name,
		DirectoryName:      m.DirectoryName,
		Path:               m.Path,
		Enabled:            true,
		Author:             types.StringPtr(m.Author),
		Version:            types.StringPtr(m.Version),
		Description:        types.StringPtr(m.Description),
		Source:             types.StringPtr(m.Source),
		InstalledTimestamp: e.now().Unix(),
		InstalledDirectory: installedDir,
		ModType:            m.ModType,
	})
	e.logger.Info().
		Str("mod", m.DirectoryName).
		Str("dir", installedDir).
		Int("files", len(m.Entries)).
		Msg("Directory mod installed")
	return nil
}

func (e *Engine) installSkinMod(reg *types.Registry, m *types.InstallManifest) error {
	if _, isDir := reg.FindMod(m.DirectoryName); isDir {
		return errors.Newf(errors.ErrConflict, "%s is already installed as a directory mod", m.DirectoryName).
			WithDetail(errors.DetailModID, m.DirectoryName)
	}
	var reserved []string
	if previous, ok := reg.FindSkinMod(m.DirectoryName); ok {
		if previous.Enabled {
			return errors.Newf(errors.ErrConflict, "disable %s before reinstalling it", m.DirectoryName).
				WithDetail(errors.DetailModID, m.DirectoryName)
		}
		reserved = previous.ReservedPakPaths
	}

	files := make([]types.ModFile, 0, len(m.Entries))
	for _, entry := range m.Entries {
		fileType := entry.FileType
		if fileType == "" {
			fileType = types.FileTypeOther
		}
		files = append(files, types.ModFile{
			RelativePath: entry.RelativePath,
			OriginalPath: entry.SourcePath,
			FileType:     fileType,
			SizeBytes:    entry.SizeBytes,
		})
	}

	payload := m.Path
	if payload == "" {
		payload = path.Join(e.layout.ModsDir, m.DirectoryName)
	}
	if owner, ok := reg.FindSkinModByPath(payload); ok && owner.DirectoryName != m.DirectoryName {
		return errors.Newf(errors.ErrConflict, "%s is already installed from %s as %s", m.Name, payload, owner.DirectoryName).
			WithDetail(errors.DetailModID, owner.DirectoryName).
			WithDetail(errors.DetailPath, payload)
	}

	reg.AddSkinMod(types.SkinMod{
		Mod: types.Mod{
			Name:               m.Name,
			DirectoryName:      m.DirectoryName,
			Path:               payload,
			Author:             types.StringPtr(m.Author),
			Version:            types.StringPtr(m.Version),
			Description:        types.StringPtr(m.Description),
			Source:             types.StringPtr(m.Source),
			InstalledTimestamp: e.now().Unix(),
			InstalledDirectory: m.InstalledDirectory,
			ModType:            types.ModTypeSkin,
		},
		ThumbnailPath:    types.StringPtr(m.ThumbnailPath),
		Conflicts:        []string{},
		Files:            files,
		InstalledFiles:   []string{},
		ReservedPakPaths: reserved,
	})
	e.logger.Info().
		Str("mod", m.DirectoryName).
		Int("files", len(files)).
		Msg("Skin mod registered")
	return nil
}
