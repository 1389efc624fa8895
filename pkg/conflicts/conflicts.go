// Package conflicts finds and settles collisions between skin mods that
// install files at the same game-root path. The index is rebuilt from the
// registry each time a mod is enabled; the incoming mod always wins.
package conflicts

import (
	"fmt"
	"sort"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/logging"
	"github.com/fossmodmanager/fmm/pkg/paths"
	"github.com/fossmodmanager/fmm/pkg/types"
)

// Conflict is one path the incoming mod would overwrite
type Conflict struct {
	Path  string `json:"path" yaml:"path"`
	Owner string `json:"owner" yaml:"owner"`
}

// Index maps game-relative target paths to the enabled skin mod that
// currently owns them
type Index map[string]string

// TargetPath returns where file lands in the game root. Pak files return
// "" because each is given its own numbered patch slot.
func TargetPath(layout types.Layout, file types.ModFile) string {
	switch file.FileType {
	case types.FileTypePak:
		return ""
	case types.FileTypeNatives:
		return layout.NativesTarget(file.RelativePath)
	default:
		return file.RelativePath
	}
}

// BuildIndex indexes the active files of every enabled skin mod except
// the one named by except.
func BuildIndex(reg *types.Registry, except string, layout types.Layout) Index {
	idx := Index{}
	for _, s := range reg.SkinMods {
		if !s.Enabled || s.DirectoryName == except {
			continue
		}
		for _, f := range s.Files {
			if !f.Enabled {
				continue
			}
			if target := TargetPath(layout, f); target != "" {
				idx[target] = s.DirectoryName
			}
		}
	}
	return idx
}

// Detect lists the files of incoming that collide with idx, sorted by path
func Detect(idx Index, incoming []types.ModFile, layout types.Layout) []Conflict {
	var out []Conflict
	seen := map[string]bool{}
	for _, f := range incoming {
		target := TargetPath(layout, f)
		if target == "" || seen[target] {
			continue
		}
		if owner, ok := idx[target]; ok {
			seen[target] = true
			out = append(out, Conflict{Path: target, Owner: owner})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Resolve disables each conflicting file in its owning mod: the installed
// copy is renamed to a disabled name, the owner's ModFile is flagged off
// and its installed_files entry follows the rename so a later disable of
// the owner removes its own copy and never the winner's. Failures are
// collected and returned together; the registry reflects every conflict
// that was settled.
func Resolve(fsys types.FS, gameRoot string, reg *types.Registry, winner string, conflicts []Conflict, layout types.Layout) error {
	logger := logging.GetLogger("conflicts")
	var errs []error

	for _, c := range conflicts {
		owner, ok := reg.FindSkinMod(c.Owner)
		if !ok {
			continue
		}

		abs, err := paths.JoinInRoot(gameRoot, c.Path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		replacement := ""
		exists, err := filesystem.Exists(fsys, abs)
		if err != nil {
			errs = append(errs, errors.IOFailure(err, "stat", abs))
			continue
		}
		if exists {
			disabledRel, err := freeDisabledName(fsys, gameRoot, c.Path, layout)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			disabledAbs, _ := paths.JoinInRoot(gameRoot, disabledRel)
			if err := fsys.Rename(abs, disabledAbs); err != nil {
				errs = append(errs, errors.IOFailure(err, "rename", abs))
				continue
			}
			replacement = disabledRel
		}

		for i := range owner.Files {
			if TargetPath(layout, owner.Files[i]) == c.Path {
				owner.Files[i].Enabled = false
			}
		}
		owner.InstalledFiles = replacePath(owner.InstalledFiles, c.Path, replacement)
		owner.Conflicts = appendUnique(owner.Conflicts, winner)

		logger.Info().
			Str("path", c.Path).
			Str("loser", c.Owner).
			Str("winner", winner).
			Str("movedTo", replacement).
			Msg("Resolved skin file conflict")
	}

	return errors.Aggregate(errors.ErrIOFailure, "resolve conflicts", errs)
}

func freeDisabledName(fsys types.FS, gameRoot, rel string, layout types.Layout) (string, error) {
	candidate := layout.DisabledPath(rel)
	for i := 2; ; i++ {
		abs, err := paths.JoinInRoot(gameRoot, candidate)
		if err != nil {
			return "", err
		}
		exists, err := filesystem.Exists(fsys, abs)
		if err != nil {
			return "", errors.IOFailure(err, "stat", abs)
		}
		if !exists {
			return candidate, nil
		}
		candidate = layout.DisabledPath(fmt.Sprintf("%s.%d", rel, i))
	}
}

// replacePath swaps old for replacement in list, dropping old when
// replacement is empty
func replacePath(list []string, old, replacement string) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		if p == old {
			if replacement != "" {
				out = append(out, replacement)
			}
			continue
		}
		out = append(out, p)
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
