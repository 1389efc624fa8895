// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate game-root test environments with proper dependencies

package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fossmodmanager/fmm/pkg/engine"
	"github.com/fossmodmanager/fmm/pkg/events"
	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/gamepath"
	"github.com/fossmodmanager/fmm/pkg/manifest"
	"github.com/fossmodmanager/fmm/pkg/paths"
	"github.com/fossmodmanager/fmm/pkg/registry"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/stretchr/testify/require"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// FixedTime is the clock every environment engine runs on
var FixedTime = time.Unix(1700000000, 0)

// GameEnvironment is a game root plus everything an engine needs
type GameEnvironment struct {
	// Core paths
	GameRoot   string
	PayloadDir string
	StateDir   string

	// Core dependencies
	FS     types.FS
	Store  *registry.Store
	Events *events.Recorder
	Layout types.Layout

	// Environment type
	Type EnvType

	t *testing.T
}

// NewGameEnvironment creates a new test environment
func NewGameEnvironment(t *testing.T, envType EnvType) *GameEnvironment {
	t.Helper()

	env := &GameEnvironment{
		t:      t,
		Type:   envType,
		Events: &events.Recorder{},
		Layout: types.DefaultLayout(),
	}

	base := "/virtual"
	switch envType {
	case EnvMemoryOnly:
		env.FS = filesystem.NewMemory()
	case EnvIsolated:
		base = t.TempDir()
		env.FS = filesystem.NewOS()
	}

	env.GameRoot = filepath.Join(base, "game")
	env.PayloadDir = filepath.Join(base, "payloads")
	env.StateDir = filepath.Join(base, "state")
	for _, dir := range []string{env.GameRoot, env.PayloadDir, env.StateDir} {
		require.NoError(t, env.FS.MkdirAll(dir, 0755))
	}

	if envType == EnvIsolated {
		// Keep the log file inside the test
		t.Setenv(paths.EnvStateDir, env.StateDir)
	}

	env.Store = registry.NewStore(env.FS, filepath.Join(env.StateDir, paths.RegistryFileName))
	return env
}

// Engine returns an engine bound to the environment's game root
func (env *GameEnvironment) Engine() *engine.Engine {
	layout := env.Layout
	return engine.New(engine.Options{
		Store:      env.Store,
		Resolver:   gamepath.Static(env.GameRoot),
		Layout:     &layout,
		FileSystem: env.FS,
		Events:     env.Events,
		Now:        func() time.Time { return FixedTime },
	})
}

// Abs returns the absolute path of a game-relative path
func (env *GameEnvironment) Abs(rel string) string {
	return filepath.Join(env.GameRoot, filepath.FromSlash(rel))
}

// WithGameTree creates tree under the game root
func (env *GameEnvironment) WithGameTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.GameRoot, tree)
}

// WritePayload writes an extracted mod named name and returns its directory
func (env *GameEnvironment) WritePayload(name string, files map[string]string) string {
	env.t.Helper()
	dir := filepath.Join(env.PayloadDir, name)
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(env.t, env.FS.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(env.t, env.FS.WriteFile(full, []byte(content), 0644))
	}
	return dir
}

// Manifest writes a payload and builds its install manifest
func (env *GameEnvironment) Manifest(name string, modType types.ModType, files map[string]string) *types.InstallManifest {
	env.t.Helper()
	dir := env.WritePayload(name, files)
	m, err := manifest.Build(env.FS, dir, modType)
	require.NoError(env.t, err)
	return m
}

// Registry loads the registry as currently saved
func (env *GameEnvironment) Registry() *types.Registry {
	env.t.Helper()
	reg, err := env.Store.Load()
	require.NoError(env.t, err)
	return reg
}

// SkinMod returns the saved skin mod with id, failing the test if absent
func (env *GameEnvironment) SkinMod(id string) types.SkinMod {
	env.t.Helper()
	s, ok := env.Registry().FindSkinMod(id)
	require.True(env.t, ok, "skin mod %s not registered", id)
	return *s
}

// Mod returns the saved directory mod with id, failing the test if absent
func (env *GameEnvironment) Mod(id string) types.Mod {
	env.t.Helper()
	m, ok := env.Registry().FindMod(id)
	require.True(env.t, ok, "mod %s not registered", id)
	return *m
}

// FileTree represents a directory structure for testing. Values are file
// contents (string) or nested trees.
type FileTree map[string]interface{}

// createFileTree recursively creates a file tree
func createFileTree(t *testing.T, fs types.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, filepath.FromSlash(name))

		switch v := content.(type) {
		case string:
			require.NoError(t, fs.MkdirAll(filepath.Dir(fullPath), 0755))
			require.NoError(t, fs.WriteFile(fullPath, []byte(v), 0644))
		case FileTree:
			require.NoError(t, fs.MkdirAll(fullPath, 0755))
			createFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
