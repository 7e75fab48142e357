package local

import (
	"context"
	"os"
	"path/filepath"
)

// FileSource resolves selected image references as paths below a base
// directory. References are cleaned so they cannot escape the base.
type FileSource struct {
	baseDir string
}

func NewFileSource(baseDir string) *FileSource {
	return &FileSource{baseDir: baseDir}
}

func (s *FileSource) Read(ctx context.Context, ref string) ([]byte, string, error) {
	path := filepath.Join(s.baseDir, filepath.Clean("/"+ref))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(path), nil
}
