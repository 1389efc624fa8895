package types

// ManifestEntry is one payload file the installer extracted
type ManifestEntry struct {
	// RelativePath is the destination relative to the mod's install
	// directory (directory mods) or to the game root (skin mods).
	RelativePath string   `json:"relative_path"`
	SourcePath   string   `json:"source_path"`
	FileType     FileType `json:"file_type"`
	SizeBytes    int64    `json:"size_bytes"`
}

// InstallManifest is what an installer hands the engine for a new mod
type InstallManifest struct {
	DirectoryName string  `json:"directory_name"`
	Name          string  `json:"name"`
	ModType       ModType `json:"mod_type"`
	// InstalledDirectory defaults to the install root for ModType joined
	// with DirectoryName.
	InstalledDirectory string          `json:"installed_directory,omitempty"`
	Path               string          `json:"path,omitempty"`
	Source             string          `json:"source,omitempty"`
	Author             string          `json:"author,omitempty"`
	Version            string          `json:"version,omitempty"`
	Description        string          `json:"description,omitempty"`
	ThumbnailPath      string          `json:"thumbnail_path,omitempty"`
	Entries            []ManifestEntry `json:"entries"`
}
