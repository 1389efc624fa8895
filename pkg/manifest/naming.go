package manifest

import "strings"

const nameDelimiters = "_- !#$.(["

// fallbackSkinName is used when a pak-like name yields nothing readable
const fallbackSkinName = "Custom Skin"

// DisplayName derives a readable mod name from a folder name: everything
// before the first delimiter, so "CoolPlugin-1234-1-0" becomes
// "CoolPlugin". Names that start with a delimiter and look like pak files
// are cut at "chunk".
func DisplayName(folder string) string {
	if i := strings.IndexAny(folder, nameDelimiters); i > 0 {
		return folder[:i]
	}

	if strings.HasSuffix(strings.ToLower(folder), ".pak") || strings.Contains(folder, "chunk") {
		if i := strings.Index(folder, "chunk"); i > 0 {
			name := strings.TrimRight(folder[:i], "_")
			name = strings.TrimRight(name, "-")
			if name != "" {
				return name
			}
		}
		return fallbackSkinName
	}

	return folder
}
