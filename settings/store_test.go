package settings

import (
	"os"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MissingFileGivesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()

	s, err := Open(fs, "/home/u/.syncwich/suunto-token.yaml", nil)
	require.NoError(t, err)

	assert.Equal(t, "fallback", s.GetSetting("suunto_token", "fallback"))
}

func TestSave_RoundTripsThroughDisk(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/home/u/.syncwich/suunto-token.yaml"

	s, err := Open(fs, path, nil)
	require.NoError(t, err)

	s.SetSetting("suunto_token", "access-1")
	s.SetSetting("suunto_refresh_token", "refresh-1")
	require.NoError(t, s.Save())

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, FilePerms, int(info.Mode().Perm()))

	reopened, err := Open(fs, path, nil)
	require.NoError(t, err)
	assert.Equal(t, "access-1", reopened.GetSetting("suunto_token", ""))
	assert.Equal(t, "refresh-1", reopened.GetSetting("suunto_refresh_token", ""))
}

func TestSetSetting_NotPersistedWithoutSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/tmp/settings.yaml"

	s, err := Open(fs, path, nil)
	require.NoError(t, err)
	s.SetSetting("suunto_token", "unsaved")

	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOpen_CorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/tmp/settings.yaml"
	require.NoError(t, afero.WriteFile(fs, path, []byte("suunto_token: [unterminated"), 0o600))

	_, err := Open(fs, path, nil)
	assert.Error(t, err)
}

// permRecordingFs records the mode files are created with
type permRecordingFs struct {
	afero.Fs
	mu      sync.Mutex
	created map[string]os.FileMode
}

func (f *permRecordingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&os.O_CREATE != 0 {
		f.mu.Lock()
		f.created[name] = perm
		f.mu.Unlock()
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestSave_CreatesFileOwnerOnly(t *testing.T) {
	fs := &permRecordingFs{Fs: afero.NewMemMapFs(), created: map[string]os.FileMode{}}
	path := "/home/u/.syncwich/suunto-token.yaml"

	s, err := Open(fs, path, nil)
	require.NoError(t, err)
	s.SetSetting("suunto_refresh_token", "refresh-1")
	require.NoError(t, s.Save())

	perm, ok := fs.created[path]
	require.True(t, ok, "settings file was not created through OpenFile")
	assert.Equal(t, os.FileMode(FilePerms), perm)
}

func TestSave_TightensExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/tmp/settings.yaml"
	require.NoError(t, afero.WriteFile(fs, path, []byte("suunto_token: old\n"), 0o644))

	s, err := Open(fs, path, nil)
	require.NoError(t, err)
	s.SetSetting("suunto_token", "new")
	require.NoError(t, s.Save())

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePerms), info.Mode().Perm())
}
