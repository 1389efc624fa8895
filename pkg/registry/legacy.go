package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/fossmodmanager/fmm/pkg/logging"
	"github.com/fossmodmanager/fmm/pkg/types"
)

// schemaParser turns raw registry bytes into the current in-memory shape
type schemaParser struct {
	name  string
	parse func(data []byte, now time.Time) (*types.Registry, error)
}

// parsers are tried in order. The first one is the current schema; any
// later hit means the file needs re-saving.
var parsers = []schemaParser{
	{name: "current", parse: parseCurrent},
	{name: "container", parse: parseContainer},
	{name: "flat", parse: parseFlat},
}

var (
	currentKeys   = []string{"mods", "skin_mods", "last_updated", "format_version"}
	containerKeys = []string{"mods", "skins"}
)

// decodeDocument decodes one JSON document. Unknown fields inside records
// are ignored.
func decodeDocument(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after JSON document")
	}
	return nil
}

// checkTopLevel accepts a JSON object whose keys all belong to allowed.
// Only the top level is checked.
func checkTopLevel(data []byte, allowed []string) error {
	var top map[string]json.RawMessage
	if err := decodeDocument(data, &top); err != nil {
		return err
	}
	if top == nil {
		return fmt.Errorf("top level is not an object")
	}
	for key := range top {
		if !contains(allowed, key) {
			return fmt.Errorf("unknown top-level key %q", key)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func parseCurrent(data []byte, _ time.Time) (*types.Registry, error) {
	if err := checkTopLevel(data, currentKeys); err != nil {
		return nil, err
	}
	var reg types.Registry
	if err := decodeDocument(data, &reg); err != nil {
		return nil, err
	}
	for _, m := range reg.Mods {
		if m.DirectoryName == "" {
			return nil, fmt.Errorf("mod %q has no directory_name", m.Name)
		}
		if !m.ModType.Valid() {
			return nil, fmt.Errorf("mod %q has unknown mod_type %q", m.DirectoryName, m.ModType)
		}
	}
	reg.Normalize()
	return &reg, nil
}

// legacyMod is the per-mod record of the two oldest formats
type legacyMod struct {
	ParsedName         string  `json:"parsed_name"`
	OriginalZipName    string  `json:"original_zip_name"`
	InstalledDirectory string  `json:"installed_directory"`
	Source             string  `json:"source"`
	Version            *string `json:"version"`
}

// legacySkin is a skin entry of the container format
type legacySkin struct {
	Name          string  `json:"name"`
	Path          string  `json:"path"`
	Enabled       bool    `json:"enabled"`
	ThumbnailPath *string `json:"thumbnail_path"`
	Author        *string `json:"author"`
	Version       *string `json:"version"`
	Description   *string `json:"description"`
}

type legacyContainer struct {
	Mods  *[]legacyMod  `json:"mods"`
	Skins *[]legacySkin `json:"skins"`
}

func parseContainer(data []byte, now time.Time) (*types.Registry, error) {
	if err := checkTopLevel(data, containerKeys); err != nil {
		return nil, err
	}
	var c legacyContainer
	if err := decodeDocument(data, &c); err != nil {
		return nil, err
	}
	if c.Mods == nil || c.Skins == nil {
		return nil, fmt.Errorf("container format needs both mods and skins")
	}

	reg := types.NewRegistry()
	for _, lm := range *c.Mods {
		m, err := liftLegacyMod(lm, now)
		if err != nil {
			return nil, err
		}
		addLegacyMod(reg, m)
	}
	for _, ls := range *c.Skins {
		addLegacySkin(reg, liftLegacySkin(ls, now))
	}
	return reg, nil
}

func parseFlat(data []byte, now time.Time) (*types.Registry, error) {
	if first := bytes.TrimSpace(data); len(first) == 0 || first[0] != '[' {
		return nil, fmt.Errorf("flat format must be a list")
	}
	var list []legacyMod
	if err := decodeDocument(data, &list); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, fmt.Errorf("flat format must be a list")
	}

	reg := types.NewRegistry()
	for _, lm := range list {
		m, err := liftLegacyMod(lm, now)
		if err != nil {
			return nil, err
		}
		addLegacyMod(reg, m)
	}
	return reg, nil
}

// addLegacyMod adds m; a later record with the same name replaces the
// earlier one
func addLegacyMod(reg *types.Registry, m types.Mod) {
	if _, dup := reg.FindMod(m.DirectoryName); dup {
		logger := logging.GetLogger("registry.legacy")
		logger.Warn().
			Str("mod", m.DirectoryName).
			Msg("Duplicate legacy mod record, keeping the last one")
	}
	reg.AddMod(m)
}

func addLegacySkin(reg *types.Registry, s types.SkinMod) {
	_, sameName := reg.FindSkinMod(s.DirectoryName)
	_, samePath := reg.FindSkinModByPath(s.Path)
	if sameName || (s.Path != "" && samePath) {
		logger := logging.GetLogger("registry.legacy")
		logger.Warn().
			Str("mod", s.DirectoryName).
			Str("path", s.Path).
			Msg("Duplicate legacy skin record, keeping the last one")
	}
	reg.AddSkinMod(s)
}

func liftLegacyMod(lm legacyMod, now time.Time) (types.Mod, error) {
	if lm.ParsedName == "" {
		return types.Mod{}, fmt.Errorf("legacy mod record has no parsed_name")
	}
	return types.Mod{
		Name:               lm.ParsedName,
		DirectoryName:      lm.ParsedName,
		Path:               lm.OriginalZipName,
		Enabled:            true,
		Version:            lm.Version,
		Source:             types.StringPtr(lm.Source),
		InstalledTimestamp: now.Unix(),
		InstalledDirectory: strings.TrimSuffix(strings.ReplaceAll(lm.InstalledDirectory, `\`, "/"), "/"),
		ModType:            inferLegacyType(lm.InstalledDirectory),
	}, nil
}

// inferLegacyType guesses the mod type from the stored install path
func inferLegacyType(installed string) types.ModType {
	p := "/" + strings.ToLower(strings.ReplaceAll(installed, `\`, "/")) + "/"
	switch {
	case strings.Contains(p, "/autorun/"):
		return types.ModTypeAutorun
	case strings.Contains(p, "/plugins/"):
		return types.ModTypePlugin
	default:
		return types.ModTypeOther
	}
}

func liftLegacySkin(ls legacySkin, now time.Time) types.SkinMod {
	dir := path.Base(strings.ReplaceAll(ls.Path, `\`, "/"))
	if dir == "." || dir == "/" {
		dir = ls.Name
	}
	return types.SkinMod{
		Mod: types.Mod{
			Name:               ls.Name,
			DirectoryName:      dir,
			Path:               ls.Path,
			Enabled:            ls.Enabled,
			Author:             ls.Author,
			Version:            ls.Version,
			Description:        ls.Description,
			Source:             types.StringPtr("local"),
			InstalledTimestamp: now.Unix(),
			ModType:            types.ModTypeSkin,
		},
		ThumbnailPath:  ls.ThumbnailPath,
		Conflicts:      []string{},
		Files:          []types.ModFile{},
		InstalledFiles: []string{},
	}
}
