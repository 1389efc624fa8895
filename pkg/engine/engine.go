package engine

import (
	"context"
	"time"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/events"
	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/gamepath"
	"github.com/fossmodmanager/fmm/pkg/logging"
	"github.com/fossmodmanager/fmm/pkg/paths"
	"github.com/fossmodmanager/fmm/pkg/patchslot"
	"github.com/fossmodmanager/fmm/pkg/registry"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/rs/zerolog"
)

// Operation names carried by events
const (
	OpInstall = "install"
	OpEnable  = "enable"
	OpDisable = "disable"
	OpDelete  = "delete"
	OpScan    = "scan"
)

// Options configures an Engine
type Options struct {
	// Store persists the registry (required)
	Store *registry.Store
	// Resolver supplies the configured game root (required)
	Resolver gamepath.Resolver
	// Layout defaults to types.DefaultLayout()
	Layout *types.Layout
	// FileSystem to use (optional, defaults to OS filesystem)
	FileSystem types.FS
	// Events receives operation notifications (optional)
	Events events.Sink
	// Now is the clock used for timestamps (optional)
	Now func() time.Time
}

// Engine installs, toggles, deletes and reconciles mods in one game root
type Engine struct {
	fs       types.FS
	store    *registry.Store
	resolver gamepath.Resolver
	layout   types.Layout
	slots    *patchslot.Scheme
	sink     events.Sink
	now      func() time.Time
	logger   zerolog.Logger
}

// New creates an Engine
func New(opts Options) *Engine {
	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	layout := types.DefaultLayout()
	if opts.Layout != nil {
		layout = *opts.Layout
	}
	sink := opts.Events
	if sink == nil {
		sink = events.Nop{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		fs:       fsys,
		store:    opts.Store,
		resolver: opts.Resolver,
		layout:   layout,
		slots:    patchslot.NewScheme(layout.PatchChain, layout.DisabledSuffix),
		sink:     sink,
		now:      now,
		logger:   logging.GetLogger("engine"),
	}
}

// Layout returns the layout the engine was built with
func (e *Engine) Layout() types.Layout {
	return e.layout
}

// validatedRoot returns the configured root when requested names it and
// it is an existing directory.
func (e *Engine) validatedRoot(requested string) (string, error) {
	root, err := gamepath.Validate(e.resolver, requested)
	if err != nil {
		return "", err
	}
	if !filesystem.IsDir(e.fs, root) {
		return "", errors.Newf(errors.ErrValidation, "game root %s is not a directory", root).
			WithDetail(errors.DetailPath, root)
	}
	return root, nil
}

// withGameDirWriteAccess validates requestedRoot and runs fn between a
// Started and a Finished event. A rejected root sends no events.
func (e *Engine) withGameDirWriteAccess(ctx context.Context, requestedRoot, op, mod string, fn func(root string, tr *events.Tracker) (string, error)) error {
	root, err := e.validatedRoot(requestedRoot)
	if err != nil {
		e.logger.Warn().Err(err).Str("operation", op).Str("mod", mod).Msg("Rejected operation outside the configured game root")
		return err
	}

	done := logging.LogOperationStart(e.logger, op)
	defer done()

	tr := events.Start(ctx, e.sink, op, mod)
	msg, err := fn(root, tr)
	tr.Finish(err, msg)
	return err
}

// abs joins a registry path onto root, refusing paths outside it
func (e *Engine) abs(root, rel string) (string, error) {
	return paths.JoinInRoot(root, rel)
}

func (e *Engine) exists(path string) (bool, error) {
	ok, err := filesystem.Exists(e.fs, path)
	if err != nil {
		return false, errors.IOFailure(err, "stat", path)
	}
	return ok, nil
}

func notFound(id string) error {
	return errors.Newf(errors.ErrNotFound, "mod %q is not in the registry", id).
		WithDetail(errors.DetailModID, id)
}

func canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCanceled, "operation canceled")
	}
	return nil
}
