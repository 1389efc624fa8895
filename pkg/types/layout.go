package types

import (
	"path"
	"strings"
)

// Layout describes where mods live inside the game root. Directories are
// relative to the game root with forward slashes.
type Layout struct {
	PluginsDir     string `koanf:"plugins_dir"`
	AutorunDir     string `koanf:"autorun_dir"`
	NativesDir     string `koanf:"natives_dir"`
	PatchChain     string `koanf:"patch_chain"`
	DisabledSuffix string `koanf:"disabled_suffix"`
	// ModsDir holds extracted skin payloads, relative to the game root
	ModsDir string `koanf:"mods_dir"`
}

// DefaultLayout matches REFramework games
func DefaultLayout() Layout {
	return Layout{
		PluginsDir:     "reframework/plugins",
		AutorunDir:     "reframework/autorun",
		NativesDir:     "natives",
		PatchChain:     "re_chunk_000.pak",
		DisabledSuffix: ".disabled",
		ModsDir:        "fossmodmanager/mods",
	}
}

// InstallRoot returns the directory new mods of type t are placed under,
// or "" when the type has no fixed root.
func (l Layout) InstallRoot(t ModType) string {
	switch t {
	case ModTypePlugin:
		return l.PluginsDir
	case ModTypeAutorun:
		return l.AutorunDir
	case ModTypeNatives:
		return l.NativesDir
	}
	return ""
}

// ScanRoots are the directories searched for untracked directory mods
func (l Layout) ScanRoots() []ScanRoot {
	return []ScanRoot{
		{Dir: l.PluginsDir, ModType: ModTypePlugin},
		{Dir: l.AutorunDir, ModType: ModTypeAutorun},
	}
}

// ScanRoot pairs an install root with the mod type found there
type ScanRoot struct {
	Dir     string
	ModType ModType
}

// DisabledPath returns the disabled sibling of rel
func (l Layout) DisabledPath(rel string) string {
	return rel + l.DisabledSuffix
}

// IsDisabledPath reports whether rel carries the disabled suffix
func (l Layout) IsDisabledPath(rel string) bool {
	return strings.HasSuffix(rel, l.DisabledSuffix)
}

// EnabledPath strips the disabled suffix from rel
func (l Layout) EnabledPath(rel string) string {
	return strings.TrimSuffix(rel, l.DisabledSuffix)
}

// NativesTarget maps a payload path such as "stm/armor.tex" or
// "natives/stm/armor.tex" to its destination under the natives root.
func (l Layout) NativesTarget(rel string) string {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	prefix := strings.ToLower(l.NativesDir) + "/"
	if strings.HasPrefix(strings.ToLower(rel), prefix) {
		rel = rel[len(prefix):]
	}
	return path.Join(l.NativesDir, rel)
}
