package services

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ScratchStore materializes per-run sandbox scripts on the local filesystem.
// Every run gets its own uuid-named directory under the base path so
// concurrent executions never collide.
type ScratchStore struct {
	basePath string
}

// NewScratchStore creates the base directory if needed. An empty basePath
// falls back to a pygamecrafter dir under the OS temp root.
func NewScratchStore(basePath string) (*ScratchStore, error) {
	if basePath == "" {
		basePath = filepath.Join(os.TempDir(), "pygamecrafter")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, err
	}
	return &ScratchStore{basePath: basePath}, nil
}

func (s *ScratchStore) BasePath() string {
	return s.basePath
}

// CreateRun writes script into a fresh run directory and returns the script
// path plus a cleanup func that removes the whole directory. The caller must
// invoke cleanup on every exit path.
func (s *ScratchStore) CreateRun(script string) (string, func(), error) {
	runDir := filepath.Join(s.basePath, uuid.New().String())
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", nil, err
	}

	scriptPath := filepath.Join(runDir, "main.py")
	if err := os.WriteFile(scriptPath, []byte(script), 0644); err != nil {
		os.RemoveAll(runDir)
		return "", nil, err
	}

	return scriptPath, func() { os.RemoveAll(runDir) }, nil
}
