// Package manifest builds install manifests from an already extracted
// mod payload directory: it classifies the payload, indexes the files the
// engine will place and picks up modinfo.ini metadata and a preview image.
package manifest

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/logging"
	"github.com/fossmodmanager/fmm/pkg/types"
)

// pakSearchDepth limits how deep pak files are looked for in a skin payload
const pakSearchDepth = 3

// SourceLocal tags mods installed from a local directory
const SourceLocal = "local"

// DetectType guesses the mod type of a payload directory
func DetectType(fsys types.FS, dir string) (types.ModType, error) {
	var (
		hasPak, hasNatives, hasLua, hasDLL bool
	)
	err := filesystem.Walk(fsys, dir, 0, func(path, rel string, info fs.FileInfo) error {
		lower := strings.ToLower(rel)
		switch {
		case strings.HasSuffix(lower, ".pak"):
			hasPak = true
		case strings.HasSuffix(lower, ".lua"):
			hasLua = true
		case strings.HasSuffix(lower, ".dll"):
			hasDLL = true
		}
		if lower == "natives" || strings.HasPrefix(lower, "natives/") || strings.Contains(lower, "/natives/") {
			hasNatives = true
		}
		return nil
	})
	if err != nil {
		return "", errors.IOFailure(err, "walk", dir)
	}

	switch {
	case hasPak || hasNatives:
		return types.ModTypeSkin, nil
	case hasDLL:
		return types.ModTypePlugin, nil
	case hasLua:
		return types.ModTypeAutorun, nil
	}
	return types.ModTypeOther, nil
}

// Build describes the payload in dir as an install manifest for modType
func Build(fsys types.FS, dir string, modType types.ModType) (*types.InstallManifest, error) {
	logger := logging.GetLogger("manifest")

	if !filesystem.IsDir(fsys, dir) {
		return nil, errors.Newf(errors.ErrNotFound, "payload directory %s not found", dir).
			WithDetail(errors.DetailPath, dir)
	}
	if !modType.Valid() {
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown mod type %q", modType)
	}

	base := filepath.Base(filepath.Clean(dir))
	m := &types.InstallManifest{
		DirectoryName: base,
		Name:          DisplayName(base),
		ModType:       modType,
		Path:          dir,
		Source:        SourceLocal,
	}

	if info, ok := FindModInfo(fsys, dir); ok {
		if info.Name != "" {
			m.Name = info.Name
		}
		m.Author = info.Author
		m.Version = info.Version
		m.Description = info.Description
	}

	var err error
	if modType == types.ModTypeSkin {
		if thumb, ok := FindThumbnail(fsys, dir); ok {
			m.ThumbnailPath = thumb
		}
		m.Entries, err = indexSkinFiles(fsys, dir)
	} else {
		m.Entries, err = indexAllFiles(fsys, dir)
	}
	if err != nil {
		return nil, errors.IOFailure(err, "index", dir)
	}
	if len(m.Entries) == 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "payload %s has no installable files", dir).
			WithDetail(errors.DetailPath, dir)
	}

	logger.Debug().
		Str("dir", dir).
		Str("type", string(modType)).
		Int("entries", len(m.Entries)).
		Msg("Manifest built")
	return m, nil
}

// indexSkinFiles lists pak files (by file name, up to pakSearchDepth deep)
// and every file below a directory named "natives" (as natives/<rest>).
func indexSkinFiles(fsys types.FS, dir string) ([]types.ManifestEntry, error) {
	var entries []types.ManifestEntry

	err := filesystem.Walk(fsys, dir, pakSearchDepth, func(path, rel string, info fs.FileInfo) error {
		if strings.EqualFold(filepath.Ext(path), ".pak") {
			entries = append(entries, types.ManifestEntry{
				RelativePath: filepath.Base(path),
				SourcePath:   path,
				FileType:     types.FileTypePak,
				SizeBytes:    info.Size(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = filesystem.Walk(fsys, dir, 0, func(path, rel string, info fs.FileInfo) error {
		nativesRel, ok := belowNatives(rel)
		if !ok {
			return nil
		}
		entries = append(entries, types.ManifestEntry{
			RelativePath: "natives/" + nativesRel,
			SourcePath:   path,
			FileType:     types.FileTypeNatives,
			SizeBytes:    info.Size(),
		})
		return nil
	})
	return entries, err
}

// belowNatives returns the part of rel after the first "natives" segment
func belowNatives(rel string) (string, bool) {
	parts := strings.Split(rel, "/")
	for i := 0; i < len(parts)-1; i++ {
		if strings.EqualFold(parts[i], "natives") {
			return strings.Join(parts[i+1:], "/"), true
		}
	}
	return "", false
}

func indexAllFiles(fsys types.FS, dir string) ([]types.ManifestEntry, error) {
	var entries []types.ManifestEntry
	err := filesystem.Walk(fsys, dir, 0, func(path, rel string, info fs.FileInfo) error {
		entries = append(entries, types.ManifestEntry{
			RelativePath: rel,
			SourcePath:   path,
			FileType:     types.FileTypeOther,
			SizeBytes:    info.Size(),
		})
		return nil
	})
	return entries, err
}
