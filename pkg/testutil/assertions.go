package testutil

import (
	"testing"

	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertExists checks that path exists
func AssertExists(t *testing.T, fs types.FS, path string, msgAndArgs ...interface{}) {
	t.Helper()
	ok, err := filesystem.Exists(fs, path)
	require.NoError(t, err)
	assert.True(t, ok, append([]interface{}{"expected %s to exist", path}, msgAndArgs...)...)
}

// AssertNotExists checks that path does not exist
func AssertNotExists(t *testing.T, fs types.FS, path string, msgAndArgs ...interface{}) {
	t.Helper()
	ok, err := filesystem.Exists(fs, path)
	require.NoError(t, err)
	assert.False(t, ok, append([]interface{}{"expected %s to be absent", path}, msgAndArgs...)...)
}

// AssertFileContent checks that path is a file holding want
func AssertFileContent(t *testing.T, fs types.FS, path, want string) {
	t.Helper()
	data, err := fs.ReadFile(path)
	require.NoError(t, err, "reading %s", path)
	assert.Equal(t, want, string(data), "content of %s", path)
}

// AssertEventKinds checks the recorded events of one operation, in order
func AssertEventKinds(t *testing.T, evs []types.OperationEvent, operation string, want ...types.EventKind) {
	t.Helper()
	var got []types.EventKind
	for _, ev := range evs {
		if ev.Operation == operation {
			got = append(got, ev.Kind)
		}
	}
	assert.Equal(t, want, got, "events of %s", operation)
}
