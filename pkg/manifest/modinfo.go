package manifest

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/fossmodmanager/fmm/pkg/types"
)

// ModInfo is the metadata a payload may carry in modinfo.ini
type ModInfo struct {
	Name        string
	Author      string
	Version     string
	Description string
}

// ParseModInfo reads key=value lines. Blank lines and lines starting with
// ';' or '#' are skipped; keys are case-insensitive and empty values are
// ignored.
func ParseModInfo(data []byte) ModInfo {
	var info ModInfo
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			info.Name = value
		case "author":
			info.Author = value
		case "version":
			info.Version = value
		case "description":
			info.Description = value
		}
	}
	return info
}

// FindModInfo looks for modinfo.ini in dir, dir/Texture and the immediate
// subdirectories of dir, in that order
func FindModInfo(fsys types.FS, dir string) (ModInfo, bool) {
	candidates := []string{
		filepath.Join(dir, "modinfo.ini"),
		filepath.Join(dir, "Texture", "modinfo.ini"),
	}
	for _, sub := range subdirs(fsys, dir) {
		candidates = append(candidates, filepath.Join(sub, "modinfo.ini"))
	}
	for _, c := range candidates {
		data, err := fsys.ReadFile(c)
		if err != nil {
			continue
		}
		return ParseModInfo(data), true
	}
	return ModInfo{}, false
}

var thumbnailNames = []string{
	"preview.jpg", "preview.png",
	"screenshot.jpg", "screenshot.png",
	"thumb.jpg", "thumb.png",
	"image.jpg", "image.png",
	"1.png", "1.jpg",
}

// FindThumbnail returns the first preview image in dir or one of its
// immediate subdirectories
func FindThumbnail(fsys types.FS, dir string) (string, bool) {
	for _, d := range append([]string{dir}, subdirs(fsys, dir)...) {
		for _, name := range thumbnailNames {
			p := filepath.Join(d, name)
			if info, err := fsys.Stat(p); err == nil && !info.IsDir() {
				return p, true
			}
		}
	}
	return "", false
}

func subdirs(fsys types.FS, dir string) []string {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}
