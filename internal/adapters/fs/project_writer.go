package fs

import (
	"os"
	"path/filepath"

	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// ProjectWriterAdapter writes scaffolding relative to the project root
type ProjectWriterAdapter struct {
	root string
}

// NewProjectWriterAdapter creates a new project writer adapter
func NewProjectWriterAdapter(cfg *config.RuntimeConfig) *ProjectWriterAdapter {
	return &ProjectWriterAdapter{root: cfg.ProjectRoot}
}

func (w *ProjectWriterAdapter) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(w.root, rel)
}

// FileExists checks if a file exists
func (w *ProjectWriterAdapter) FileExists(path string) bool {
	_, err := os.Stat(w.path(path))
	return err == nil
}

// WriteFile writes content to a file, creating parent directories
func (w *ProjectWriterAdapter) WriteFile(path string, content []byte) error {
	full := w.path(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	return os.WriteFile(full, content, 0644)
}

// EnsureDir ensures a directory exists
func (w *ProjectWriterAdapter) EnsureDir(path string) error {
	return os.MkdirAll(w.path(path), 0755)
}

var _ usecase.ProjectWriter = (*ProjectWriterAdapter)(nil)
