// Package engine is the toggle/install engine. It owns every operation
// that changes files under the game root: installing a manifest, enabling
// and disabling mods, deleting them and reconciling the registry with
// what is on disk.
//
// Directory mods (plugins, autorun scripts) toggle with a single rename
// of their directory to or from a ".disabled" sibling. Skin mods are
// merged into the shared game namespace: enabling copies their natives
// files into place and gives each pak its own numbered patch slot,
// settling collisions with other enabled skins (last enable wins);
// disabling removes exactly the recorded files and parks pak slots as
// ".disabled" so their numbers stay taken.
//
// Each mutation runs inside registry.Store.Update, validates the game
// root against the configured one and reports Started/Progress/Finished
// events. Multi-file work continues past individual failures and returns
// them aggregated; whatever was done is recorded so the same call can be
// repeated.
package engine
