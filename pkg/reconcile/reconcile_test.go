// pkg/reconcile/reconcile_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None for Reconcile/Discover, in-memory afero filesystem for Take
// PURPOSE: Test that enabled state converges on what the filesystem shows

package reconcile_test

import (
	"testing"

	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/reconcile"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var layout = types.DefaultLayout()

func pluginMod(id string, enabled bool) types.Mod {
	return types.Mod{
		Name:               id,
		DirectoryName:      id,
		Enabled:            enabled,
		InstalledDirectory: "reframework/plugins/" + id,
		ModType:            types.ModTypePlugin,
	}
}

func TestReconcile_DirectoryMods(t *testing.T) {
	tests := []struct {
		name        string
		recorded    bool
		enabledDir  bool
		disabledDir bool
		want        bool
		wantWarning reconcile.WarningKind
		wantChanged bool
	}{
		{name: "enabled_matches", recorded: true, enabledDir: true, want: true},
		{name: "disabled_matches", recorded: false, disabledDir: true, want: false},
		{name: "renamed_to_disabled_outside", recorded: true, disabledDir: true, want: false, wantChanged: true},
		{name: "renamed_to_enabled_outside", recorded: false, enabledDir: true, want: true, wantChanged: true},
		{name: "both_exist", recorded: false, enabledDir: true, disabledDir: true, want: true, wantWarning: reconcile.WarnAmbiguous, wantChanged: true},
		{name: "neither_exists", recorded: true, want: false, wantWarning: reconcile.WarnMissing, wantChanged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := types.NewRegistry()
			reg.AddMod(pluginMod("CoolPlugin", tt.recorded))

			snap := reconcile.NewSnapshot().
				Set("reframework/plugins/CoolPlugin", tt.enabledDir).
				Set("reframework/plugins/CoolPlugin.disabled", tt.disabledDir)

			res := reconcile.Reconcile(reg, snap, layout)

			m, ok := res.Registry.FindMod("CoolPlugin")
			require.True(t, ok, "entries are never removed")
			assert.Equal(t, tt.want, m.Enabled)

			if tt.wantWarning != "" {
				require.Len(t, res.Warnings, 1)
				assert.Equal(t, tt.wantWarning, res.Warnings[0].Kind)
				assert.Equal(t, "CoolPlugin", res.Warnings[0].ModID)
			} else {
				assert.Empty(t, res.Warnings)
			}

			if tt.wantChanged {
				assert.Equal(t, []string{"CoolPlugin"}, res.Changed)
			} else {
				assert.Empty(t, res.Changed)
			}

			assert.Equal(t, tt.recorded, reg.Mods[0].Enabled, "input registry is not modified")
		})
	}
}

func TestReconcile_OnlyDriftedModChanges(t *testing.T) {
	reg := types.NewRegistry()
	reg.AddMod(pluginMod("A", true))
	reg.AddMod(pluginMod("B", true))
	reg.AddMod(pluginMod("C", false))

	snap := reconcile.NewSnapshot().
		Set("reframework/plugins/A", true).
		Set("reframework/plugins/B.disabled", true).
		Set("reframework/plugins/C.disabled", true)

	res := reconcile.Reconcile(reg, snap, layout)

	assert.Equal(t, []string{"B"}, res.Changed)
	assert.Empty(t, res.Warnings)

	expected := reg.Clone()
	expected.Mods[1].Enabled = false
	assert.Equal(t, expected, res.Registry)
}

func TestReconcile_IsIdempotent(t *testing.T) {
	reg := types.NewRegistry()
	reg.AddMod(pluginMod("A", true))
	reg.AddMod(pluginMod("B", false))
	snap := reconcile.NewSnapshot().Set("reframework/plugins/B", true)

	first := reconcile.Reconcile(reg, snap, layout)
	second := reconcile.Reconcile(first.Registry, snap, layout)

	assert.Equal(t, first.Registry, second.Registry)
	assert.Empty(t, second.Changed)
}

func TestReconcile_SkinMods(t *testing.T) {
	pak := "re_chunk_000.pak.patch_001.pak"
	newSkin := func() types.SkinMod {
		return types.SkinMod{
			Mod: types.Mod{DirectoryName: "Red", Enabled: true, ModType: types.ModTypeSkin},
			Files: []types.ModFile{
				{RelativePath: "red.pak", FileType: types.FileTypePak, Enabled: true},
				{RelativePath: "natives/stm/a.tex", FileType: types.FileTypeNatives, Enabled: true},
			},
			InstalledFiles:   []string{pak, "natives/stm/a.tex"},
			InstalledPakPath: &pak,
		}
	}

	t.Run("all_files_present", func(t *testing.T) {
		reg := types.NewRegistry()
		reg.AddSkinMod(newSkin())
		snap := reconcile.NewSnapshot().Set(pak, true).Set("natives/stm/a.tex", true)

		res := reconcile.Reconcile(reg, snap, layout)

		assert.Empty(t, res.Warnings)
		assert.True(t, res.Registry.SkinMods[0].Enabled)
	})

	t.Run("some_files_missing", func(t *testing.T) {
		reg := types.NewRegistry()
		reg.AddSkinMod(newSkin())
		snap := reconcile.NewSnapshot().Set(pak, true)

		res := reconcile.Reconcile(reg, snap, layout)

		require.Len(t, res.Warnings, 1)
		assert.Equal(t, reconcile.WarnPartial, res.Warnings[0].Kind)
		assert.True(t, res.Registry.SkinMods[0].Enabled)
		assert.Empty(t, res.Changed)
	})

	t.Run("all_files_missing", func(t *testing.T) {
		reg := types.NewRegistry()
		reg.AddSkinMod(newSkin())

		res := reconcile.Reconcile(reg, reconcile.NewSnapshot(), layout)

		skin := res.Registry.SkinMods[0]
		assert.False(t, skin.Enabled)
		assert.Empty(t, skin.InstalledFiles)
		assert.Nil(t, skin.InstalledPakPath)
		assert.Len(t, skin.Files, 2, "manifest is kept")
		assert.Equal(t, []string{"Red"}, res.Changed)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, reconcile.WarnMissing, res.Warnings[0].Kind)
	})
}

func TestDiscover(t *testing.T) {
	reg := types.NewRegistry()
	reg.AddMod(pluginMod("Known", true))

	snap := reconcile.NewSnapshot().
		SetListing("reframework/plugins", "Known", "NewPlugin-123-1-0", "Old.disabled").
		SetListing("reframework/autorun", "Script", "Script.disabled")

	found := reconcile.Discover(reg, snap, layout, 42)

	require.Len(t, found, 3)
	byID := map[string]types.Mod{}
	for _, m := range found {
		byID[m.DirectoryName] = m
		assert.Equal(t, reconcile.SourceManualScan, types.StringValue(m.Source))
		assert.Equal(t, int64(42), m.InstalledTimestamp)
	}

	plugin := byID["NewPlugin-123-1-0"]
	assert.Equal(t, "NewPlugin", plugin.Name)
	assert.True(t, plugin.Enabled)
	assert.Equal(t, types.ModTypePlugin, plugin.ModType)
	assert.Equal(t, "reframework/plugins/NewPlugin-123-1-0", plugin.InstalledDirectory)

	old := byID["Old"]
	assert.False(t, old.Enabled)
	assert.Equal(t, "reframework/plugins/Old", old.InstalledDirectory)

	script := byID["Script"]
	assert.True(t, script.Enabled)
	assert.Equal(t, types.ModTypeAutorun, script.ModType)
}

func TestTake(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/game/reframework/plugins/A", 0755))
	require.NoError(t, fsys.MkdirAll("/game/reframework/plugins/B.disabled", 0755))
	require.NoError(t, fsys.MkdirAll("/game/reframework/plugins/Untracked", 0755))
	require.NoError(t, fsys.WriteFile("/game/reframework/plugins/loose.dll", []byte("x"), 0644))
	require.NoError(t, fsys.MkdirAll("/game/natives/stm", 0755))
	require.NoError(t, fsys.WriteFile("/game/natives/stm/a.tex", []byte("x"), 0644))

	reg := types.NewRegistry()
	reg.AddMod(pluginMod("A", false))
	reg.AddMod(pluginMod("B", true))
	reg.AddMod(types.Mod{DirectoryName: "Evil", InstalledDirectory: "../outside", ModType: types.ModTypeOther})
	reg.AddSkinMod(types.SkinMod{
		Mod:            types.Mod{DirectoryName: "Skin", Enabled: true, ModType: types.ModTypeSkin},
		InstalledFiles: []string{"natives/stm/a.tex", "natives/stm/gone.tex"},
	})

	snap, err := reconcile.Take(fsys, "/game", reg, layout)
	require.NoError(t, err)

	assert.True(t, snap.Exists("reframework/plugins/A"))
	assert.False(t, snap.Exists("reframework/plugins/A.disabled"))
	assert.True(t, snap.Exists("reframework/plugins/B.disabled"))
	assert.False(t, snap.Exists("../outside"))
	assert.True(t, snap.Exists("natives/stm/a.tex"))
	assert.False(t, snap.Exists("natives/stm/gone.tex"))
	assert.Equal(t, []string{"A", "B.disabled", "Untracked"}, snap.Listing("reframework/plugins"))
	assert.Empty(t, snap.Listing("reframework/autorun"))

	res := reconcile.Reconcile(reg, snap, layout)
	a, _ := res.Registry.FindMod("A")
	b, _ := res.Registry.FindMod("B")
	assert.True(t, a.Enabled)
	assert.False(t, b.Enabled)
}

func TestTake_FileAtModDirectoryIsNotAnInstall(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/game/reframework/plugins", 0755))
	require.NoError(t, fsys.WriteFile("/game/reframework/plugins/A", []byte("stray"), 0644))
	require.NoError(t, fsys.WriteFile("/game/reframework/plugins/B.disabled", []byte("stray"), 0644))

	reg := types.NewRegistry()
	reg.AddMod(pluginMod("A", true))
	reg.AddMod(pluginMod("B", true))

	snap, err := reconcile.Take(fsys, "/game", reg, layout)
	require.NoError(t, err)

	assert.False(t, snap.Exists("reframework/plugins/A"))
	assert.False(t, snap.Exists("reframework/plugins/B.disabled"))

	res := reconcile.Reconcile(reg, snap, layout)
	a, _ := res.Registry.FindMod("A")
	b, _ := res.Registry.FindMod("B")
	assert.False(t, a.Enabled)
	assert.False(t, b.Enabled)
	assert.NotEmpty(t, res.Warnings)
}
