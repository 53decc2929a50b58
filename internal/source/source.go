package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"docvet/internal/domain"
)

// DocumentSource resolves paths to raw document content.
type DocumentSource interface {
	Read(path string) ([]byte, error)
	List(dir, ext string) ([]string, error)
}

type fsSource struct {
	fs afero.Fs
}

// New returns a DocumentSource over the given filesystem.
func New(fsys afero.Fs) DocumentSource {
	return &fsSource{fs: fsys}
}

// NewOS returns a DocumentSource over the real filesystem.
func NewOS() DocumentSource {
	return New(afero.NewOsFs())
}

// Read returns the file content. A missing path wraps domain.ErrNotFound;
// every other failure wraps domain.ErrReadFailed.
func (s *fsSource) Read(path string) ([]byte, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return nil, classify(path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, domain.ErrReadFailed)
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, classify(path, err)
	}
	return data, nil
}

// List returns the sorted paths of regular files in dir whose name ends with ext.
// An empty directory yields an empty slice; a missing one wraps domain.ErrNotFound.
func (s *fsSource) List(dir, ext string) ([]string, error) {
	info, err := s.fs.Stat(dir)
	if err != nil {
		return nil, classify(dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", dir, domain.ErrReadFailed)
	}
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, classify(dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func classify(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", path, domain.ErrReadFailed, err)
}
