// cmd/fmm/commands_test.go
// TEST TYPE: Integration Tests
// DEPENDENCIES: Real filesystem in t.TempDir, FMM_* directory overrides
// PURPOSE: Drive the CLI end to end through NewRootCmd

package fmm

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/paths"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const gameRootEnv = "FMM_GAME__ROOT_PATH"

type cliEnv struct {
	t         *testing.T
	gameRoot  string
	payloads  string
	configDir string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	base := t.TempDir()
	env := &cliEnv{
		t:         t,
		gameRoot:  filepath.Join(base, "game"),
		payloads:  filepath.Join(base, "downloads"),
		configDir: filepath.Join(base, "config"),
	}
	for _, dir := range []string{env.gameRoot, env.payloads, env.configDir} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	t.Setenv(paths.EnvConfigDir, env.configDir)
	t.Setenv(paths.EnvStateDir, filepath.Join(base, "state"))
	// An inherited root would override the config file
	t.Setenv(gameRootEnv, "")
	require.NoError(t, os.Unsetenv(gameRootEnv))
	return env
}

// run executes fmm with args and returns its standard output
func (env *cliEnv) run(args ...string) (string, error) {
	env.t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (env *cliEnv) mustRun(args ...string) string {
	env.t.Helper()
	out, err := env.run(args...)
	require.NoError(env.t, err, "fmm %v", args)
	return out
}

func (env *cliEnv) payload(name string, files map[string]string) string {
	env.t.Helper()
	dir := filepath.Join(env.payloads, name)
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(env.t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(env.t, os.WriteFile(full, []byte(content), 0644))
	}
	return dir
}

func (env *cliEnv) game(rel string) string {
	return filepath.Join(env.gameRoot, filepath.FromSlash(rel))
}

func (env *cliEnv) listJSON() []types.ModInfo {
	env.t.Helper()
	var mods []types.ModInfo
	require.NoError(env.t, json.Unmarshal([]byte(env.mustRun("list", "-o", "json")), &mods))
	return mods
}

func TestVersionCommand(t *testing.T) {
	env := newCLIEnv(t)
	out := env.mustRun("version")
	assert.Contains(t, out, "fmm version")
	assert.Contains(t, out, "commit:")
}

func TestCommandsRequireSetup(t *testing.T) {
	env := newCLIEnv(t)

	for _, args := range [][]string{{"list"}, {"scan"}, {"enable", "x"}, {"install", env.payloads}} {
		t.Run(args[0], func(t *testing.T) {
			_, err := env.run(args...)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))
			assert.Contains(t, err.Error(), "fmm setup")
		})
	}
}

func TestSetupCommand(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("setup", env.gameRoot, "-o", "text")
	assert.Contains(t, out, "Game directory set to "+env.gameRoot)

	data, err := os.ReadFile(filepath.Join(env.configDir, paths.ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), env.gameRoot)

	_, err = env.run("setup", filepath.Join(env.gameRoot, "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))
}

func TestDirectoryModLifecycle(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("setup", env.gameRoot)

	dir := env.payload("CoolPlugin", map[string]string{"CoolPlugin.dll": "binary"})
	out := env.mustRun("install", dir, "-o", "json")
	assert.Contains(t, out, "Installed")
	assert.FileExists(t, env.game("reframework/plugins/CoolPlugin/CoolPlugin.dll"))

	mods := env.listJSON()
	require.Len(t, mods, 1)
	assert.Equal(t, "CoolPlugin", mods[0].DirectoryName)
	assert.Equal(t, types.ModTypePlugin, mods[0].ModType)
	assert.True(t, mods[0].Enabled)

	out = env.mustRun("disable", "CoolPlugin", "-o", "text")
	assert.Equal(t, "Disabled CoolPlugin\n", out)
	assert.DirExists(t, env.game("reframework/plugins/CoolPlugin.disabled"))

	text := env.mustRun("list", "-o", "text")
	assert.Contains(t, text, "CoolPlugin")
	assert.Contains(t, text, "disabled")

	env.mustRun("enable", "CoolPlugin")
	assert.DirExists(t, env.game("reframework/plugins/CoolPlugin"))

	env.mustRun("remove", "CoolPlugin")
	assert.NoDirExists(t, env.game("reframework/plugins/CoolPlugin"))
	assert.Empty(t, env.listJSON())
}

func TestSkinModLifecycle(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("setup", env.gameRoot)

	red := env.payload("RedArmor", map[string]string{
		"natives/STM/armor.tex": "red",
		"RedArmor.pak":          "pak",
	})
	blue := env.payload("BlueArmor", map[string]string{
		"natives/STM/armor.tex": "blue",
	})
	env.mustRun("install", red)
	env.mustRun("install", blue, "--id", "blue", "--name", "Blue Armor")

	mods := env.listJSON()
	require.Len(t, mods, 2)
	for _, m := range mods {
		assert.Equal(t, types.ModTypeSkin, m.ModType)
		assert.False(t, m.Enabled, "skin mods are installed disabled")
	}

	env.mustRun("enable", "RedArmor")
	assert.FileExists(t, env.game("natives/STM/armor.tex"))
	assert.FileExists(t, env.game("re_chunk_000.pak.patch_001.pak"))

	preview := env.mustRun("conflicts", "blue", "-o", "json")
	var report struct {
		Mod       string `json:"mod"`
		Conflicts []struct {
			Path  string `json:"path"`
			Owner string `json:"owner"`
		} `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal([]byte(preview), &report))
	assert.Equal(t, "blue", report.Mod)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "RedArmor", report.Conflicts[0].Owner)

	env.mustRun("enable", "blue")
	data, err := os.ReadFile(env.game("natives/STM/armor.tex"))
	require.NoError(t, err)
	assert.Equal(t, "blue", string(data), "the last enabled skin wins")

	var shown map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(env.mustRun("show", "blue", "-o", "yaml")), &shown))
	assert.Equal(t, "Blue Armor", shown["skin"]["name"])
	assert.Equal(t, true, shown["skin"]["enabled"])

	env.mustRun("disable", "RedArmor", "blue")
	assert.NoFileExists(t, env.game("re_chunk_000.pak.patch_001.pak"))
	assert.FileExists(t, env.game("re_chunk_000.pak.patch_001.pak.disabled"))
}

func TestToggleContinuesPastUnknownMods(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("setup", env.gameRoot)
	env.mustRun("install", env.payload("CoolPlugin", map[string]string{"CoolPlugin.dll": "x"}))

	out, err := env.run("disable", "Missing", "CoolPlugin", "-o", "text")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Contains(t, out, "Disabled CoolPlugin")
	assert.DirExists(t, env.game("reframework/plugins/CoolPlugin.disabled"))
}

func TestScanDiscoversManualInstalls(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("setup", env.gameRoot)

	script := env.game("reframework/autorun/FastTravel-55-1-2/main.lua")
	require.NoError(t, os.MkdirAll(filepath.Dir(script), 0755))
	require.NoError(t, os.WriteFile(script, []byte("-- lua"), 0644))

	out := env.mustRun("scan", "-o", "text")
	assert.Contains(t, out, "discovered")
	assert.Contains(t, out, "FastTravel")

	again := env.mustRun("scan", "-o", "text")
	assert.Equal(t, "Registry matches the game directory.\n", again)
}

func TestGameRootMismatchIsRejected(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("setup", env.gameRoot)

	_, err := env.run("list", "--game-root", env.payloads)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))
}

func TestGameRootFromEnvironment(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv(gameRootEnv, env.gameRoot)

	assert.Empty(t, env.listJSON())
}

func TestInstallRejectsUnknownType(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("setup", env.gameRoot)

	dir := env.payload("Thing", map[string]string{"readme.txt": "hi"})
	_, err := env.run("install", dir, "--type", "Texture")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestUnknownOutputFormat(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("setup", env.gameRoot)

	_, err := env.run("list", "-o", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestShowUnknownMod(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("setup", env.gameRoot)

	_, err := env.run("show", "nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestHelpTopics(t *testing.T) {
	env := newCLIEnv(t)

	index := env.mustRun("help", "topics")
	for _, topic := range []string{"skin-mods", "patch-slots", "disabled-suffix", "configuration", "--output"} {
		assert.Contains(t, index, topic)
	}

	slots := env.mustRun("help", "patch-slots")
	assert.Contains(t, slots, "re_chunk_000.pak.patch_NNN.pak")

	output := env.mustRun("help", "--output")
	assert.Contains(t, output, "NO_COLOR")

	list := env.mustRun("help", "list")
	assert.Contains(t, list, MsgListLong)
}

func TestRegistryFileLocation(t *testing.T) {
	t.Run("relative name lives in the config directory", func(t *testing.T) {
		env := newCLIEnv(t)
		env.mustRun("setup", env.gameRoot)
		env.mustRun("install", env.payload("CoolPlugin", map[string]string{"CoolPlugin.dll": "x"}))

		assert.FileExists(t, filepath.Join(env.configDir, "mod_registry.json"))
	})

	t.Run("absolute path is used as is", func(t *testing.T) {
		env := newCLIEnv(t)
		custom := filepath.Join(t.TempDir(), "shared", "registry.json")
		t.Setenv("FMM_REGISTRY__FILE", custom)
		env.mustRun("setup", env.gameRoot)
		env.mustRun("install", env.payload("CoolPlugin", map[string]string{"CoolPlugin.dll": "x"}))

		assert.FileExists(t, custom)
		assert.NoFileExists(t, filepath.Join(env.configDir, "mod_registry.json"))
		require.Len(t, env.listJSON(), 1)
	})
}

func TestModIDCompletion(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("setup", env.gameRoot)
	env.mustRun("install", env.payload("CoolPlugin", map[string]string{"CoolPlugin.dll": "x"}))
	env.mustRun("install", env.payload("OtherPlugin", map[string]string{"OtherPlugin.dll": "x"}))

	out := env.mustRun("__complete", "enable", "CoolPlugin", "")
	assert.Contains(t, out, "OtherPlugin")
	assert.NotContains(t, out, "CoolPlugin\n", "ids already given are not offered again")
}
