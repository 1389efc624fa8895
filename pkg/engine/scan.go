package engine

import (
	"context"

	"github.com/fossmodmanager/fmm/pkg/conflicts"
	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/events"
	"github.com/fossmodmanager/fmm/pkg/reconcile"
	"github.com/fossmodmanager/fmm/pkg/types"
)

// Report is the outcome of a reconciliation pass
type Report struct {
	Warnings []reconcile.Warning `json:"warnings" yaml:"warnings"`
	// Changed lists entries whose enabled state was corrected
	Changed []string `json:"changed" yaml:"changed"`
	// Discovered lists untracked mod directories added to the registry
	Discovered []string `json:"discovered" yaml:"discovered"`
}

// Entry is one registry record, either a directory mod or a skin mod
type Entry struct {
	Mod  *types.Mod     `json:"mod,omitempty" yaml:"mod,omitempty"`
	Skin *types.SkinMod `json:"skin,omitempty" yaml:"skin,omitempty"`
}

// Info returns the frontend view of the entry
func (en Entry) Info() types.ModInfo {
	if en.Skin != nil {
		return en.Skin.Info()
	}
	return en.Mod.Info()
}

// Reconcile brings the registry in line with gameRoot and reports what it
// corrected.
func (e *Engine) Reconcile(ctx context.Context, gameRoot string) (*Report, error) {
	root, err := e.validatedRoot(gameRoot)
	if err != nil {
		return nil, err
	}
	return e.ScanAndUpdate(ctx, root)
}

// ListMods reconciles the registry with gameRoot and returns every mod,
// directory mods first.
func (e *Engine) ListMods(ctx context.Context, gameRoot string) ([]types.ModInfo, error) {
	root, err := e.validatedRoot(gameRoot)
	if err != nil {
		return nil, err
	}
	if _, err := e.ScanAndUpdate(ctx, root); err != nil {
		return nil, err
	}
	var infos []types.ModInfo
	err = e.store.View(ctx, func(reg *types.Registry) error {
		infos = reg.Infos()
		return nil
	})
	return infos, err
}

// ScanAndUpdate snapshots root, corrects the registry from it, registers
// untracked mod directories and saves the result in one step. root must
// already be validated.
func (e *Engine) ScanAndUpdate(ctx context.Context, root string) (*Report, error) {
	tr := events.Start(ctx, e.sink, OpScan, "")
	report := &Report{}
	err := e.store.Update(ctx, func(reg *types.Registry) error {
		snap, err := reconcile.Take(e.fs, root, reg, e.layout)
		if err != nil {
			return errors.IOFailure(err, "scan", root)
		}
		res := reconcile.Reconcile(reg, snap, e.layout)
		*reg = *res.Registry
		report.Warnings = res.Warnings
		report.Changed = res.Changed

		for _, m := range reconcile.Discover(reg, snap, e.layout, e.now().Unix()) {
			reg.AddMod(m)
			report.Discovered = append(report.Discovered, m.DirectoryName)
		}
		return nil
	})
	tr.Finish(err, "")
	if err != nil {
		return nil, err
	}

	for _, w := range report.Warnings {
		e.logger.Warn().Str("mod", w.ModID).Str("kind", string(w.Kind)).Msg(w.Message)
	}
	e.logger.Info().
		Int("changed", len(report.Changed)).
		Int("discovered", len(report.Discovered)).
		Int("warnings", len(report.Warnings)).
		Msg("Registry reconciled")
	return report, nil
}

// Get returns a copy of the registry entry for id
func (e *Engine) Get(ctx context.Context, id string) (Entry, error) {
	var entry Entry
	err := e.store.View(ctx, func(reg *types.Registry) error {
		clone := reg.Clone()
		if m, ok := clone.FindMod(id); ok {
			entry.Mod = m
			return nil
		}
		if s, ok := clone.FindSkinMod(id); ok {
			entry.Skin = s
			return nil
		}
		return notFound(id)
	})
	return entry, err
}

// Conflicts previews which enabled skin mods would lose files if id were
// enabled now. It changes nothing.
func (e *Engine) Conflicts(ctx context.Context, id string) ([]conflicts.Conflict, error) {
	var found []conflicts.Conflict
	err := e.store.View(ctx, func(reg *types.Registry) error {
		skin, ok := reg.FindSkinMod(id)
		if !ok {
			if _, isDir := reg.FindMod(id); isDir {
				return errors.Newf(errors.ErrInvalidInput, "%s is a directory mod and cannot conflict", id).
					WithDetail(errors.DetailModID, id)
			}
			return notFound(id)
		}
		found = conflicts.Detect(conflicts.BuildIndex(reg, id, e.layout), skin.Files, e.layout)
		return nil
	})
	return found, err
}
