package reconcile

import (
	"fmt"
	"path"

	"github.com/fossmodmanager/fmm/pkg/manifest"
	"github.com/fossmodmanager/fmm/pkg/types"
)

// WarningKind classifies a drift the reconciler noticed
type WarningKind string

const (
	// WarnAmbiguous means both the enabled and the disabled path exist
	WarnAmbiguous WarningKind = "ambiguous"
	// WarnMissing means neither path exists, or no installed file remains
	WarnMissing WarningKind = "missing"
	// WarnPartial means some recorded skin files are gone
	WarnPartial WarningKind = "partial"
	// WarnNoDirectory means a directory mod has no installed_directory
	WarnNoDirectory WarningKind = "no_directory"
)

// Warning describes one entry whose recorded state disagreed with disk
type Warning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	ModID   string      `json:"mod" yaml:"mod"`
	Path    string      `json:"path,omitempty" yaml:"path,omitempty"`
	Message string      `json:"message" yaml:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.ModID, w.Message)
}

// Result is the outcome of one reconciliation
type Result struct {
	Registry *types.Registry
	Warnings []Warning
	// Changed lists the ids whose enabled state was corrected
	Changed []string
}

// Reconcile recomputes enabled state from snap. The filesystem wins for
// enabled/disabled; entries are never removed. reg is not modified.
func Reconcile(reg *types.Registry, snap *Snapshot, layout types.Layout) Result {
	out := reg.Clone()
	res := Result{Registry: out}

	for i := range out.Mods {
		m := &out.Mods[i]
		if m.InstalledDirectory == "" {
			res.Warnings = append(res.Warnings, Warning{
				Kind:    WarnNoDirectory,
				ModID:   m.DirectoryName,
				Message: "no installed directory recorded",
			})
			continue
		}

		enabledPath := m.InstalledDirectory
		disabledPath := layout.DisabledPath(enabledPath)
		hasEnabled := snap.Exists(enabledPath)
		hasDisabled := snap.Exists(disabledPath)

		var want bool
		switch {
		case hasEnabled && hasDisabled:
			want = true
			res.Warnings = append(res.Warnings, Warning{
				Kind:    WarnAmbiguous,
				ModID:   m.DirectoryName,
				Path:    enabledPath,
				Message: fmt.Sprintf("both %s and %s exist, treating as enabled", enabledPath, disabledPath),
			})
		case hasEnabled:
			want = true
		case hasDisabled:
			want = false
		default:
			want = false
			res.Warnings = append(res.Warnings, Warning{
				Kind:    WarnMissing,
				ModID:   m.DirectoryName,
				Path:    enabledPath,
				Message: fmt.Sprintf("neither %s nor %s exists", enabledPath, disabledPath),
			})
		}

		if m.Enabled != want {
			m.Enabled = want
			res.Changed = append(res.Changed, m.DirectoryName)
		}
	}

	for i := range out.SkinMods {
		s := &out.SkinMods[i]
		if !s.Enabled || len(s.InstalledFiles) == 0 {
			continue
		}

		var missing []string
		for _, rel := range s.InstalledFiles {
			if !snap.Exists(rel) {
				missing = append(missing, rel)
			}
		}

		switch {
		case len(missing) == len(s.InstalledFiles):
			s.Enabled = false
			s.InstalledFiles = []string{}
			s.InstalledPakPath = nil
			for j := range s.Files {
				s.Files[j].Enabled = false
			}
			res.Changed = append(res.Changed, s.DirectoryName)
			res.Warnings = append(res.Warnings, Warning{
				Kind:    WarnMissing,
				ModID:   s.DirectoryName,
				Message: "none of the installed files exist, marking disabled",
			})
		case len(missing) > 0:
			res.Warnings = append(res.Warnings, Warning{
				Kind:    WarnPartial,
				ModID:   s.DirectoryName,
				Path:    missing[0],
				Message: fmt.Sprintf("%d of %d installed files are missing", len(missing), len(s.InstalledFiles)),
			})
		}
	}

	return res
}

// Discover returns entries for directories under the install roots that
// no registry entry accounts for. When both "X" and "X.disabled" exist
// the mod is reported once, as enabled.
func Discover(reg *types.Registry, snap *Snapshot, layout types.Layout, now int64) []types.Mod {
	known := map[string]bool{}
	for _, m := range reg.Mods {
		known[m.InstalledDirectory] = true
		known["id:"+m.DirectoryName] = true
	}
	for _, s := range reg.SkinMods {
		known["id:"+s.DirectoryName] = true
	}

	var found []types.Mod
	for _, root := range layout.ScanRoots() {
		for _, name := range snap.Listing(root.Dir) {
			base := layout.EnabledPath(name)
			if base == "" {
				continue
			}
			rel := path.Join(root.Dir, base)
			if known[rel] || known["id:"+base] {
				continue
			}
			known[rel] = true
			known["id:"+base] = true

			found = append(found, types.Mod{
				Name:               manifest.DisplayName(base),
				DirectoryName:      base,
				Path:               rel,
				Enabled:            snap.Exists(rel),
				Source:             types.StringPtr(SourceManualScan),
				InstalledTimestamp: now,
				InstalledDirectory: rel,
				ModType:            root.ModType,
			})
		}
	}
	return found
}

// SourceManualScan tags entries created by Discover
const SourceManualScan = "manual_scan"
