package types

import "time"

// FormatVersion is the schema version written by this release
const FormatVersion = 2

// Registry is the persisted manifest of every installed mod
type Registry struct {
	Mods          []Mod     `json:"mods"`
	SkinMods      []SkinMod `json:"skin_mods"`
	LastUpdated   int64     `json:"last_updated"`
	FormatVersion int       `json:"format_version"`
}

// NewRegistry returns an empty registry in the current schema
func NewRegistry() *Registry {
	return &Registry{
		Mods:          []Mod{},
		SkinMods:      []SkinMod{},
		LastUpdated:   time.Now().Unix(),
		FormatVersion: FormatVersion,
	}
}

// Normalize replaces missing lists with empty ones so a registry read
// from "{}" behaves like a fresh one.
func (r *Registry) Normalize() {
	if r.Mods == nil {
		r.Mods = []Mod{}
	}
	if r.SkinMods == nil {
		r.SkinMods = []SkinMod{}
	}
	if r.FormatVersion == 0 {
		r.FormatVersion = FormatVersion
	}
}

// Touch stamps LastUpdated with the current time
func (r *Registry) Touch() {
	r.LastUpdated = time.Now().Unix()
}

// FindMod returns the directory mod with the given directory name
func (r *Registry) FindMod(directoryName string) (*Mod, bool) {
	for i := range r.Mods {
		if r.Mods[i].DirectoryName == directoryName {
			return &r.Mods[i], true
		}
	}
	return nil, false
}

// AddMod inserts m, replacing any entry with the same directory name
func (r *Registry) AddMod(m Mod) {
	for i := range r.Mods {
		if r.Mods[i].DirectoryName == m.DirectoryName {
			r.Mods[i] = m
			return
		}
	}
	r.Mods = append(r.Mods, m)
}

// RemoveMod deletes the directory mod with the given name. It reports
// whether anything was removed.
func (r *Registry) RemoveMod(directoryName string) bool {
	for i := range r.Mods {
		if r.Mods[i].DirectoryName == directoryName {
			r.Mods = append(r.Mods[:i], r.Mods[i+1:]...)
			return true
		}
	}
	return false
}

// FindSkinMod returns the skin mod with the given directory name
func (r *Registry) FindSkinMod(directoryName string) (*SkinMod, bool) {
	for i := range r.SkinMods {
		if r.SkinMods[i].DirectoryName == directoryName {
			return &r.SkinMods[i], true
		}
	}
	return nil, false
}

// FindSkinModByPath returns the skin mod installed from payload path p
func (r *Registry) FindSkinModByPath(p string) (*SkinMod, bool) {
	if p == "" {
		return nil, false
	}
	for i := range r.SkinMods {
		if r.SkinMods[i].Path == p {
			return &r.SkinMods[i], true
		}
	}
	return nil, false
}

// AddSkinMod inserts s, replacing any entry with the same directory name
// or the same payload path.
func (r *Registry) AddSkinMod(s SkinMod) {
	for i := range r.SkinMods {
		if r.SkinMods[i].DirectoryName == s.DirectoryName || (s.Path != "" && r.SkinMods[i].Path == s.Path) {
			r.SkinMods[i] = s
			return
		}
	}
	r.SkinMods = append(r.SkinMods, s)
}

// RemoveSkinMod deletes the skin mod with the given name
func (r *Registry) RemoveSkinMod(directoryName string) bool {
	for i := range r.SkinMods {
		if r.SkinMods[i].DirectoryName == directoryName {
			r.SkinMods = append(r.SkinMods[:i], r.SkinMods[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether any entry, directory or skin, uses the name
func (r *Registry) Has(directoryName string) bool {
	if _, ok := r.FindMod(directoryName); ok {
		return true
	}
	_, ok := r.FindSkinMod(directoryName)
	return ok
}

// Infos lists every entry in registry order, directory mods first
func (r *Registry) Infos() []ModInfo {
	infos := make([]ModInfo, 0, len(r.Mods)+len(r.SkinMods))
	for _, m := range r.Mods {
		infos = append(infos, m.Info())
	}
	for _, s := range r.SkinMods {
		infos = append(infos, s.Info())
	}
	return infos
}

// Clone returns a deep copy of r
func (r *Registry) Clone() *Registry {
	c := &Registry{
		LastUpdated:   r.LastUpdated,
		FormatVersion: r.FormatVersion,
	}
	if r.Mods != nil {
		c.Mods = make([]Mod, len(r.Mods))
		for i, m := range r.Mods {
			c.Mods[i] = m.clone()
		}
	}
	if r.SkinMods != nil {
		c.SkinMods = make([]SkinMod, len(r.SkinMods))
		for i, s := range r.SkinMods {
			c.SkinMods[i] = s.Clone()
		}
	}
	return c
}

func (m Mod) clone() Mod {
	m.Author = clonePtr(m.Author)
	m.Version = clonePtr(m.Version)
	m.Description = clonePtr(m.Description)
	m.Source = clonePtr(m.Source)
	return m
}

// Clone returns a deep copy of s
func (s SkinMod) Clone() SkinMod {
	s.Mod = s.Mod.clone()
	s.ThumbnailPath = clonePtr(s.ThumbnailPath)
	s.InstalledPakPath = clonePtr(s.InstalledPakPath)
	s.Conflicts = cloneSlice(s.Conflicts)
	s.Files = cloneSlice(s.Files)
	s.InstalledFiles = cloneSlice(s.InstalledFiles)
	s.ReservedPakPaths = cloneSlice(s.ReservedPakPaths)
	return s
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
