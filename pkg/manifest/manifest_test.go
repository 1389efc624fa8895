// pkg/manifest/manifest_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory afero filesystem
// PURPOSE: Test payload classification, file indexing, modinfo.ini and naming

package manifest_test

import (
	"path/filepath"
	"testing"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/manifest"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fsys types.FS, files map[string]string) {
	t.Helper()
	for p, content := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, fsys.WriteFile(p, []byte(content), 0644))
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		folder string
		want   string
	}{
		{"CoolPlugin-1234-1-0-1700000000", "CoolPlugin"},
		{"Red Armor (v2)", "Red"},
		{"Simple", "Simple"},
		{"[Tag]Thing", "[Tag]Thing"},
		{"_chunk_000.pak", "Custom Skin"},
		{".hidden", ".hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.folder, func(t *testing.T) {
			assert.Equal(t, tt.want, manifest.DisplayName(tt.folder))
		})
	}
}

func TestParseModInfo(t *testing.T) {
	info := manifest.ParseModInfo([]byte(`
; comment
# another
Name = Red Armor
AUTHOR=artist
version =
description= Makes armor red
unknown = ignored
no equals sign
`))

	assert.Equal(t, manifest.ModInfo{Name: "Red Armor", Author: "artist", Description: "Makes armor red"}, info)
}

func TestFindModInfo_Locations(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
		found bool
	}{
		{name: "root", files: map[string]string{"/mod/modinfo.ini": "name=Root"}, want: "Root", found: true},
		{name: "texture_dir", files: map[string]string{"/mod/Texture/modinfo.ini": "name=Tex"}, want: "Tex", found: true},
		{name: "subdir", files: map[string]string{"/mod/Variant A/modinfo.ini": "name=Sub"}, want: "Sub", found: true},
		{name: "none", files: map[string]string{"/mod/readme.txt": "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := filesystem.NewMemory()
			writeFiles(t, fsys, tt.files)

			info, ok := manifest.FindModInfo(fsys, "/mod")
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, info.Name)
		})
	}
}

func TestFindThumbnail(t *testing.T) {
	fsys := filesystem.NewMemory()
	writeFiles(t, fsys, map[string]string{
		"/mod/sub/thumb.png": "img",
		"/mod/natives/x.tex": "tex",
	})

	thumb, ok := manifest.FindThumbnail(fsys, "/mod")

	assert.True(t, ok)
	assert.Equal(t, "/mod/sub/thumb.png", thumb)
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  types.ModType
	}{
		{name: "pak_skin", files: map[string]string{"/p/Red_chunk_000.pak": "x"}, want: types.ModTypeSkin},
		{name: "natives_skin", files: map[string]string{"/p/Armor/natives/stm/a.tex": "x"}, want: types.ModTypeSkin},
		{name: "plugin", files: map[string]string{"/p/cool.dll": "x"}, want: types.ModTypePlugin},
		{name: "autorun", files: map[string]string{"/p/script.lua": "x"}, want: types.ModTypeAutorun},
		{name: "other", files: map[string]string{"/p/readme.md": "x"}, want: types.ModTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := filesystem.NewMemory()
			writeFiles(t, fsys, tt.files)

			got, err := manifest.DetectType(fsys, "/p")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_SkinPayload(t *testing.T) {
	fsys := filesystem.NewMemory()
	writeFiles(t, fsys, map[string]string{
		"/mods/RedArmor/red_armor.pak":                 "pak-data",
		"/mods/RedArmor/a/b/c/too_deep.pak":            "ignored",
		"/mods/RedArmor/Variant/natives/STM/armor.tex": "tex",
		"/mods/RedArmor/modinfo.ini":                   "name=Red Armor\nauthor=artist\nversion=2.0",
		"/mods/RedArmor/preview.jpg":                   "img",
	})

	m, err := manifest.Build(fsys, "/mods/RedArmor", types.ModTypeSkin)
	require.NoError(t, err)

	assert.Equal(t, "RedArmor", m.DirectoryName)
	assert.Equal(t, "Red Armor", m.Name)
	assert.Equal(t, "artist", m.Author)
	assert.Equal(t, "2.0", m.Version)
	assert.Equal(t, "/mods/RedArmor/preview.jpg", m.ThumbnailPath)
	assert.Equal(t, manifest.SourceLocal, m.Source)

	assert.Equal(t, []types.ManifestEntry{
		{RelativePath: "red_armor.pak", SourcePath: "/mods/RedArmor/red_armor.pak", FileType: types.FileTypePak, SizeBytes: 8},
		{RelativePath: "natives/STM/armor.tex", SourcePath: "/mods/RedArmor/Variant/natives/STM/armor.tex", FileType: types.FileTypeNatives, SizeBytes: 3},
	}, m.Entries)
}

func TestBuild_PluginPayload(t *testing.T) {
	fsys := filesystem.NewMemory()
	writeFiles(t, fsys, map[string]string{
		"/dl/CoolPlugin/cool.dll":         "dll",
		"/dl/CoolPlugin/data/config.json": "{}",
	})

	m, err := manifest.Build(fsys, "/dl/CoolPlugin", types.ModTypePlugin)
	require.NoError(t, err)

	assert.Equal(t, "CoolPlugin", m.Name)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "cool.dll", m.Entries[0].RelativePath)
	assert.Equal(t, "data/config.json", m.Entries[1].RelativePath)
	assert.Empty(t, m.ThumbnailPath)
}

func TestBuild_Errors(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/empty", 0755))

	_, err := manifest.Build(fsys, "/missing", types.ModTypePlugin)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	_, err = manifest.Build(fsys, "/empty", types.ModTypePlugin)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = manifest.Build(fsys, "/empty", types.ModType("Bogus"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
