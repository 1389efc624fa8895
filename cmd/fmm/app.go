package fmm

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fossmodmanager/fmm/pkg/config"
	"github.com/fossmodmanager/fmm/pkg/engine"
	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/events"
	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/gamepath"
	"github.com/fossmodmanager/fmm/pkg/paths"
	"github.com/fossmodmanager/fmm/pkg/registry"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/fossmodmanager/fmm/pkg/ui"
	"github.com/spf13/cobra"
)

// app bundles what a command needs: configuration, the engine and a
// renderer for the requested output format
type app struct {
	gameRoot string
	fs       types.FS
	store    *registry.Store
	engine   *engine.Engine
	out      ui.Renderer
}

// configPath returns the config file named by --config or the XDG default
func (o *globalOptions) configPath() string {
	if o.configFile != "" {
		return paths.ExpandHome(o.configFile)
	}
	return paths.New().ConfigFilePath()
}

// newRenderer renders to the command's output in the --output format
func newRenderer(cmd *cobra.Command, opts *globalOptions) (ui.Renderer, error) {
	format, err := ui.ParseFormat(opts.output)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	out, err := newRenderer(cmd, opts)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.configPath())
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	fsys := filesystem.NewOS()
	store := registry.NewStore(fsys, registryPath(cfg))
	layout := cfg.Layout

	gameRoot := opts.gameRoot
	if gameRoot == "" {
		gameRoot = cfg.Game.RootPath
	}
	if gameRoot != "" {
		gameRoot = paths.ExpandHome(gameRoot)
	}

	return &app{
		gameRoot: gameRoot,
		fs:       fsys,
		store:    store,
		out:      out,
		engine: engine.New(engine.Options{
			Store:      store,
			Resolver:   gamepath.FromConfig(cfg),
			Layout:     &layout,
			FileSystem: fsys,
			Events:     events.NewLogSink(),
		}),
	}, nil
}

// registryPath resolves registry.file; a relative name lives in the
// config directory
func registryPath(cfg *config.Config) string {
	file := paths.ExpandHome(cfg.Registry.File)
	if filepath.IsAbs(file) {
		return filepath.Clean(file)
	}
	return filepath.Join(paths.New().ConfigDir(), file)
}

// requireGameRoot returns the game directory the command should act on
func (a *app) requireGameRoot() (string, error) {
	if a.gameRoot == "" {
		return "", errors.New(errors.ErrValidation, MsgNoGameRoot)
	}
	return a.gameRoot, nil
}

// modIDCompletion completes registered mod ids
func modIDCompletion(opts *globalOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		a, err := newApp(cmd, opts)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		taken := make(map[string]bool, len(args))
		for _, arg := range args {
			taken[arg] = true
		}
		var ids []string
		err = a.store.View(ctx, func(reg *types.Registry) error {
			for _, info := range reg.Infos() {
				if !taken[info.DirectoryName] {
					ids = append(ids, info.DirectoryName)
				}
			}
			return nil
		})
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}
