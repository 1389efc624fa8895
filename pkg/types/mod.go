package types

// ModType classifies how a mod is laid out in the game root
type ModType string

const (
	// ModTypePlugin is a REFramework plugin living in its own directory
	// under reframework/plugins
	ModTypePlugin ModType = "REFrameworkPlugin"
	// ModTypeAutorun is a REFramework autorun script directory
	ModTypeAutorun ModType = "REFrameworkAutorun"
	// ModTypeSkin is a cosmetic mod merged into the shared game namespace
	ModTypeSkin ModType = "SkinMod"
	// ModTypeNatives is a directory mod that ships a natives tree
	ModTypeNatives ModType = "NativesMod"
	// ModTypeOther covers anything fmm cannot classify
	ModTypeOther ModType = "Other"
)

// Valid reports whether t is one of the known mod types
func (t ModType) Valid() bool {
	switch t {
	case ModTypePlugin, ModTypeAutorun, ModTypeSkin, ModTypeNatives, ModTypeOther:
		return true
	}
	return false
}

// IsDirectoryMod reports whether mods of this type toggle by renaming a
// single directory.
func (t ModType) IsDirectoryMod() bool {
	return t != ModTypeSkin
}

// FileType classifies one file of a skin mod payload
type FileType string

const (
	FileTypePak     FileType = "PakFile"
	FileTypeNatives FileType = "NativesFile"
	FileTypeOther   FileType = "Other"
)

// Mod is one installed REFramework-style extension.
//
// Enabled is a cache of what the filesystem says; the reconciler
// recomputes it from the presence of InstalledDirectory or its
// ".disabled" sibling.
type Mod struct {
	Name               string  `json:"name" yaml:"name"`
	DirectoryName      string  `json:"directory_name" yaml:"directory_name"`
	Path               string  `json:"path" yaml:"path"`
	Enabled            bool    `json:"enabled" yaml:"enabled"`
	Author             *string `json:"author,omitempty" yaml:"author,omitempty"`
	Version            *string `json:"version,omitempty" yaml:"version,omitempty"`
	Description        *string `json:"description,omitempty" yaml:"description,omitempty"`
	Source             *string `json:"source,omitempty" yaml:"source,omitempty"`
	InstalledTimestamp int64   `json:"installed_timestamp" yaml:"installed_timestamp"`
	InstalledDirectory string  `json:"installed_directory" yaml:"installed_directory"`
	ModType            ModType `json:"mod_type" yaml:"mod_type"`
}

// ModFile is one file belonging to a skin mod payload
type ModFile struct {
	RelativePath string   `json:"relative_path" yaml:"relative_path"`
	OriginalPath string   `json:"original_path" yaml:"original_path"`
	FileType     FileType `json:"file_type" yaml:"file_type"`
	Enabled      bool     `json:"enabled" yaml:"enabled"`
	SizeBytes    int64    `json:"size_bytes" yaml:"size_bytes"`
}

// SkinMod is a mod whose files are merged into the game root. Files is
// the full payload manifest and never changes after install; only
// InstalledFiles and the per-file Enabled flags move.
type SkinMod struct {
	Mod `yaml:",inline"`

	ThumbnailPath    *string   `json:"thumbnail_path,omitempty" yaml:"thumbnail_path,omitempty"`
	Conflicts        []string  `json:"conflicts" yaml:"conflicts"`
	Files            []ModFile `json:"files" yaml:"files"`
	InstalledFiles   []string  `json:"installed_files" yaml:"installed_files"`
	InstalledPakPath *string   `json:"installed_pak_path,omitempty" yaml:"installed_pak_path,omitempty"`
	// ReservedPakPaths are the ".disabled" patch slots this mod vacated on
	// disable. They keep their number reserved and are reused on re-enable.
	ReservedPakPaths []string `json:"reserved_pak_paths,omitempty" yaml:"reserved_pak_paths,omitempty"`
}

// ModInfo is the flattened view handed to frontends
type ModInfo struct {
	DirectoryName string  `json:"directory_name" yaml:"directory_name"`
	Name          string  `json:"name" yaml:"name"`
	Version       *string `json:"version,omitempty" yaml:"version,omitempty"`
	Author        *string `json:"author,omitempty" yaml:"author,omitempty"`
	Description   *string `json:"description,omitempty" yaml:"description,omitempty"`
	Enabled       bool    `json:"enabled" yaml:"enabled"`
	ModType       ModType `json:"mod_type" yaml:"mod_type"`
}

// Info returns the frontend view of m
func (m Mod) Info() ModInfo {
	return ModInfo{
		DirectoryName: m.DirectoryName,
		Name:          m.Name,
		Version:       m.Version,
		Author:        m.Author,
		Description:   m.Description,
		Enabled:       m.Enabled,
		ModType:       m.ModType,
	}
}

// StringPtr returns a pointer to s, or nil for the empty string
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences p, treating nil as ""
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
