package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"git.home.luguber.info/inful/gitscriptor/internal/logfields"
)

const dirPattern = "gitscriptor-*"

// Manager handles one ephemeral workspace directory.
type Manager struct {
	baseDir string
	tempDir string
	mu      sync.Mutex
}

// NewManager creates a new workspace manager rooted at baseDir (os.TempDir() when empty).
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// Create creates a uniquely named workspace directory.
func (m *Manager) Create() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tempDir != "" {
		return fmt.Errorf("workspace already created: %s", m.tempDir)
	}
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace base directory: %w", err)
	}
	tempDir, err := os.MkdirTemp(m.baseDir, dirPattern)
	if err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}

	m.tempDir = tempDir
	slog.Debug("Created workspace", logfields.Path(tempDir))
	return nil
}

// Cleanup removes the workspace directory. Calling it again is a no-op.
func (m *Manager) Cleanup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tempDir == "" {
		return nil
	}
	if err := os.RemoveAll(m.tempDir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}

	slog.Debug("Cleaned up workspace", logfields.Path(m.tempDir))
	m.tempDir = ""
	return nil
}

// SubdirPath returns the path of name inside the workspace without creating it.
// The fetcher clones into a path that must not exist yet.
func (m *Manager) SubdirPath(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tempDir == "" {
		return "", fmt.Errorf("workspace not created")
	}
	return joinInside(m.tempDir, name)
}
