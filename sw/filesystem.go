package sw

import (
	"os"

	"github.com/spf13/afero"
)

// AferoFileSystem implements FileSystem on top of an afero filesystem
type AferoFileSystem struct {
	fs afero.Afero
}

// NewOSFileSystem creates a new OS-based file system
func NewOSFileSystem() *AferoFileSystem {
	return NewAferoFileSystem(afero.NewOsFs())
}

// NewAferoFileSystem wraps any afero filesystem, e.g. afero.NewMemMapFs in tests
func NewAferoFileSystem(fs afero.Fs) *AferoFileSystem {
	return &AferoFileSystem{fs: afero.Afero{Fs: fs}}
}

// WriteFile writes data to a file
func (f *AferoFileSystem) WriteFile(path string, data []byte, perm int) error {
	return f.fs.WriteFile(path, data, os.FileMode(perm))
}

// Exists checks if a file exists
func (f *AferoFileSystem) Exists(path string) bool {
	ok, err := f.fs.Exists(path)
	return err == nil && ok
}

// MkdirAll creates directories recursively
func (f *AferoFileSystem) MkdirAll(path string, perm int) error {
	return f.fs.MkdirAll(path, os.FileMode(perm))
}
