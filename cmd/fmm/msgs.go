package fmm

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A mod manager for REFramework games"
	MsgListShort       = "List installed mods"
	MsgListLong        = "List corrects the registry from the game directory, then shows every mod with its state."
	MsgShowShort       = "Show everything recorded about a mod"
	MsgInstallShort    = "Install an extracted mod directory"
	MsgEnableShort     = "Enable installed mods"
	MsgDisableShort    = "Disable installed mods"
	MsgRemoveShort     = "Remove mods from the game and the registry"
	MsgRemoveLong      = "Remove disables a mod, deletes what it placed in the game directory and forgets it. Skin payloads fmm copied under its own mods directory are deleted too."
	MsgScanShort       = "Reconcile the registry with the game directory"
	MsgConflictsShort  = "Preview the files enabling a skin mod would take over"
	MsgSetupShort      = "Record the game installation to manage"
	MsgSetupLong       = "Setup stores the game directory (and optionally its executable) in fmm's config file. Every command that changes files refuses to run against any other directory."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgSetupDone      = "Game directory set to %s"
	MsgRemovedFormat  = "Removed %s"
	MsgVersionFormat  = "fmm version %s\n  commit: %s\n  built:  %s\n"
	MsgNoGameRoot     = "no game directory configured, run \"fmm setup <game-dir>\" first"
	MsgUnknownModType = "unknown mod type %q (want %s)"

	// Error messages
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrSaveConfig = "failed to save configuration: %w"
	MsgErrListMods   = "failed to list mods: %w"
	MsgErrInstall    = "failed to install %s: %w"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagOutput     = "Output format: auto, term, text, json or yaml"
	MsgFlagConfig     = "Config file (default is $XDG_CONFIG_HOME/fmm/config.toml)"
	MsgFlagGameRoot   = "Game directory to operate on (must match the configured one)"
	MsgFlagType       = "Mod type, detected from the payload when omitted"
	MsgFlagID         = "Directory name to register the mod under"
	MsgFlagName       = "Display name, read from modinfo.ini or the folder name when omitted"
	MsgFlagExecutable = "Path to the game executable"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimRight(msgInstallExampleRaw, "\n")

	//go:embed msgs/enable-long.txt
	msgEnableLongRaw string
	MsgEnableLong    = strings.TrimSpace(msgEnableLongRaw)

	//go:embed msgs/disable-long.txt
	msgDisableLongRaw string
	MsgDisableLong    = strings.TrimSpace(msgDisableLongRaw)

	//go:embed msgs/scan-long.txt
	msgScanLongRaw string
	MsgScanLong    = strings.TrimSpace(msgScanLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
