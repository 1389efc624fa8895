// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Environment variables only
// PURPOSE: Test directory resolution and game-root containment checks

package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EnvironmentOverrides(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(tmp, "cfg"))
	t.Setenv(paths.EnvStateDir, filepath.Join(tmp, "state"))
	t.Setenv(paths.EnvCacheDir, filepath.Join(tmp, "cache"))

	p := paths.New()

	assert.Equal(t, filepath.Join(tmp, "cfg"), p.ConfigDir())
	assert.Equal(t, filepath.Join(tmp, "cfg", "mod_registry.json"), p.RegistryPath())
	assert.Equal(t, filepath.Join(tmp, "cfg", "config.toml"), p.ConfigFilePath())
	assert.Equal(t, filepath.Join(tmp, "state", "fmm.log"), p.LogFilePath())
	assert.Equal(t, filepath.Join(tmp, "cache"), p.CacheDir())
}

func TestNew_DefaultsUseAppDir(t *testing.T) {
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvStateDir, "")

	p := paths.New()

	assert.Equal(t, paths.AppDirName, filepath.Base(p.ConfigDir()))
	assert.Equal(t, paths.AppDirName, filepath.Base(p.StateDir()))
}

func TestJoinInRoot(t *testing.T) {
	root := filepath.Join("/", "games", "mhw")

	tests := []struct {
		name    string
		rel     string
		want    string
		wantErr bool
	}{
		{
			name: "plugin_dir",
			rel:  "reframework/plugins/foo",
			want: filepath.Join(root, "reframework", "plugins", "foo"),
		},
		{
			name: "inner_dotdot_stays_inside",
			rel:  "natives/../natives/x.tex",
			want: filepath.Join(root, "natives", "x.tex"),
		},
		{name: "empty", rel: "", wantErr: true},
		{name: "absolute", rel: "/etc/passwd", wantErr: true},
		{name: "escapes", rel: "../outside", wantErr: true},
		{name: "escapes_after_clean", rel: "natives/../../outside", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := paths.JoinInRoot(root, tt.rel)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelativeTo(t *testing.T) {
	root := t.TempDir()

	rel, err := paths.RelativeTo(root, filepath.Join(root, "natives", "stm", "a.tex"))
	require.NoError(t, err)
	assert.Equal(t, "natives/stm/a.tex", rel)

	_, err = paths.RelativeTo(root, filepath.Dir(root))
	assert.Error(t, err)
}

func TestSamePath(t *testing.T) {
	root := t.TempDir()

	assert.True(t, paths.SamePath(root, root+string(filepath.Separator)))
	assert.True(t, paths.SamePath(root, filepath.Join(root, "x", "..")))
	assert.False(t, paths.SamePath(root, filepath.Join(root, "x")))
}
