package reconcile

import (
	"errors"
	"io/fs"
	"path"
	"sort"

	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/paths"
	"github.com/fossmodmanager/fmm/pkg/types"
)

// Snapshot is the part of the game root the reconciler looks at. Paths
// are game-relative with forward slashes.
type Snapshot struct {
	exists   map[string]bool
	listings map[string][]string
}

// NewSnapshot returns an empty snapshot, mostly useful for tests
func NewSnapshot() *Snapshot {
	return &Snapshot{
		exists:   map[string]bool{},
		listings: map[string][]string{},
	}
}

// Set records whether rel exists
func (s *Snapshot) Set(rel string, exists bool) *Snapshot {
	s.exists[rel] = exists
	return s
}

// SetListing records the subdirectory names found under an install root
func (s *Snapshot) SetListing(root string, names ...string) *Snapshot {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	s.listings[root] = sorted
	for _, n := range sorted {
		s.exists[path.Join(root, n)] = true
	}
	return s
}

// Exists reports whether rel was present when the snapshot was taken
func (s *Snapshot) Exists(rel string) bool {
	return s.exists[rel]
}

// Listing returns the subdirectory names under root
func (s *Snapshot) Listing(root string) []string {
	return s.listings[root]
}

// Take observes every path reg and layout care about under gameRoot.
// Paths that cannot be joined safely are recorded as missing, and so is a
// directory mod path that holds a plain file.
func Take(fsys types.FS, gameRoot string, reg *types.Registry, layout types.Layout) (*Snapshot, error) {
	snap := NewSnapshot()

	probe := func(rel string, wantDir bool) error {
		if _, seen := snap.exists[rel]; seen {
			return nil
		}
		abs, err := paths.JoinInRoot(gameRoot, rel)
		if err != nil {
			snap.exists[rel] = false
			return nil
		}
		info, err := fsys.Stat(abs)
		switch {
		case err == nil:
			snap.exists[rel] = !wantDir || info.IsDir()
		case errors.Is(err, fs.ErrNotExist):
			snap.exists[rel] = false
		default:
			return err
		}
		return nil
	}

	for _, m := range reg.Mods {
		if m.InstalledDirectory == "" {
			continue
		}
		if err := probe(m.InstalledDirectory, true); err != nil {
			return nil, err
		}
		if err := probe(layout.DisabledPath(m.InstalledDirectory), true); err != nil {
			return nil, err
		}
	}

	for _, s := range reg.SkinMods {
		if !s.Enabled {
			continue
		}
		for _, rel := range s.InstalledFiles {
			if err := probe(rel, false); err != nil {
				return nil, err
			}
		}
	}

	for _, root := range layout.ScanRoots() {
		abs, err := paths.JoinInRoot(gameRoot, root.Dir)
		if err != nil {
			continue
		}
		if !filesystem.IsDir(fsys, abs) {
			continue
		}
		entries, err := fsys.ReadDir(abs)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				names = append(names, e.Name())
			}
		}
		snap.SetListing(root.Dir, names...)
	}

	return snap, nil
}
