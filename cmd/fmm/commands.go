package fmm

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fossmodmanager/fmm/internal/version"
	"github.com/fossmodmanager/fmm/pkg/config"
	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/logging"
	"github.com/fossmodmanager/fmm/pkg/manifest"
	"github.com/fossmodmanager/fmm/pkg/paths"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/spf13/cobra"
)

var knownModTypes = []types.ModType{
	types.ModTypePlugin,
	types.ModTypeAutorun,
	types.ModTypeSkin,
	types.ModTypeNatives,
	types.ModTypeOther,
}

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgListShort,
		Long:    MsgListLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			root, err := a.requireGameRoot()
			if err != nil {
				return err
			}

			mods, err := a.engine.ListMods(cmd.Context(), root)
			if err != nil {
				return fmt.Errorf(MsgErrListMods, err)
			}
			return a.out.RenderMods(mods)
		},
	}
}

func newShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "show <mod>",
		Short:             MsgShowShort,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: modIDCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			entry, err := a.engine.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.RenderEntry(entry)
		},
	}
}

func newInstallCmd(opts *globalOptions) *cobra.Command {
	var modType, id, name string

	cmd := &cobra.Command{
		Use:     "install <dir>",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.install")
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			root, err := a.requireGameRoot()
			if err != nil {
				return err
			}

			dir, err := filepath.Abs(paths.ExpandHome(args[0]))
			if err != nil {
				return errors.Wrapf(err, errors.ErrInvalidInput, "invalid payload path %s", args[0])
			}

			kind := types.ModType(modType)
			if kind == "" {
				if kind, err = manifest.DetectType(a.fs, dir); err != nil {
					return fmt.Errorf(MsgErrInstall, dir, err)
				}
				logger.Info().Str("dir", dir).Str("type", string(kind)).Msg("Detected mod type")
			} else if !kind.Valid() {
				return errors.Newf(errors.ErrInvalidInput, MsgUnknownModType, modType, modTypeList())
			}

			m, err := manifest.Build(a.fs, dir, kind)
			if err != nil {
				return fmt.Errorf(MsgErrInstall, dir, err)
			}
			if id != "" {
				m.DirectoryName = id
			}
			if name != "" {
				m.Name = name
			}

			if err := a.engine.Install(cmd.Context(), root, m); err != nil {
				return err
			}
			return a.out.RenderMessage(fmt.Sprintf("Installed %s as %s (%s)", m.Name, m.DirectoryName, m.ModType))
		},
	}

	cmd.Flags().StringVarP(&modType, "type", "t", "", MsgFlagType)
	cmd.Flags().StringVar(&id, "id", "", MsgFlagID)
	cmd.Flags().StringVar(&name, "name", "", MsgFlagName)
	_ = cmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return modTypeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newEnableCmd(opts *globalOptions) *cobra.Command {
	return newToggleCmd(opts, true)
}

func newDisableCmd(opts *globalOptions) *cobra.Command {
	return newToggleCmd(opts, false)
}

func newToggleCmd(opts *globalOptions, enable bool) *cobra.Command {
	use, short, long, verb := "disable", MsgDisableShort, MsgDisableLong, "Disabled"
	if enable {
		use, short, long, verb = "enable", MsgEnableShort, MsgEnableLong, "Enabled"
	}

	return &cobra.Command{
		Use:               use + " <mod>...",
		Short:             short,
		Long:              long,
		GroupID:           "core",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: modIDCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			root, err := a.requireGameRoot()
			if err != nil {
				return err
			}
			return forEachMod(cmd.Context(), a, args, use, func(ctx context.Context, id string) (string, error) {
				if err := a.engine.Toggle(ctx, root, id, enable); err != nil {
					return "", err
				}
				return fmt.Sprintf("%s %s", verb, id), nil
			})
		},
	}
}

func newRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "remove <mod>...",
		Aliases:           []string{"rm", "delete"},
		Short:             MsgRemoveShort,
		Long:              MsgRemoveLong,
		GroupID:           "core",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: modIDCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			root, err := a.requireGameRoot()
			if err != nil {
				return err
			}
			return forEachMod(cmd.Context(), a, args, "remove", func(ctx context.Context, id string) (string, error) {
				if err := a.engine.Delete(ctx, root, id); err != nil {
					return "", err
				}
				return fmt.Sprintf(MsgRemovedFormat, id), nil
			})
		},
	}
}

// forEachMod runs fn for every id, rendering each success and carrying
// on past failures. A single failure is returned as is.
func forEachMod(ctx context.Context, a *app, ids []string, op string, fn func(ctx context.Context, id string) (string, error)) error {
	var errs []error
	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, errors.Wrap(ctx.Err(), errors.ErrCanceled, "operation canceled"))
			break
		}
		msg, err := fn(ctx, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := a.out.RenderMessage(msg); err != nil {
			return err
		}
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Aggregate(errors.ErrIOFailure, fmt.Sprintf("%s %s", op, strings.Join(ids, ", ")), errs)
}

func newScanCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "scan",
		Aliases: []string{"reconcile"},
		Short:   MsgScanShort,
		Long:    MsgScanLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			root, err := a.requireGameRoot()
			if err != nil {
				return err
			}
			report, err := a.engine.Reconcile(cmd.Context(), root)
			if err != nil {
				return err
			}
			return a.out.RenderReport(report)
		},
	}
}

func newConflictsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "conflicts <mod>",
		Short:             MsgConflictsShort,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: modIDCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			found, err := a.engine.Conflicts(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.RenderConflicts(args[0], found)
		},
	}
}

func newSetupCmd(opts *globalOptions) *cobra.Command {
	var executable string

	cmd := &cobra.Command{
		Use:     "setup <game-dir>",
		Short:   MsgSetupShort,
		Long:    MsgSetupLong,
		GroupID: "misc",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup must work on a broken config file, so it does not load one
			out, err := newRenderer(cmd, opts)
			if err != nil {
				return err
			}

			root, err := filepath.Abs(paths.ExpandHome(args[0]))
			if err != nil {
				return errors.Wrapf(err, errors.ErrInvalidInput, "invalid game directory %s", args[0])
			}
			if !filesystem.IsDir(filesystem.NewOS(), root) {
				return errors.Newf(errors.ErrValidation, "game directory %s does not exist", root).
					WithDetail(errors.DetailPath, root)
			}

			game := config.GameConfig{RootPath: root}
			if executable != "" {
				if game.ExecutablePath, err = filepath.Abs(paths.ExpandHome(executable)); err != nil {
					return errors.Wrapf(err, errors.ErrInvalidInput, "invalid executable path %s", executable)
				}
			}
			if err := config.SaveGame(opts.configPath(), game); err != nil {
				return fmt.Errorf(MsgErrSaveConfig, err)
			}
			return out.RenderMessage(fmt.Sprintf(MsgSetupDone, root))
		},
	}

	cmd.Flags().StringVar(&executable, "executable", "", MsgFlagExecutable)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func modTypeNames() []string {
	names := make([]string, 0, len(knownModTypes))
	for _, t := range knownModTypes {
		names = append(names, string(t))
	}
	return names
}

func modTypeList() string {
	return strings.Join(modTypeNames(), ", ")
}
