// Package workspace manages the per-source directories repositories are cloned into.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/quantmind-br/cheatsheet/internal/utils"
)

// Suffix is appended to the sanitized source name to form the directory name
const Suffix = "_repo"

// Manager creates and removes workspace directories under a root
type Manager struct {
	root   string
	logger *utils.Logger
}

// Options contains options for the manager
type Options struct {
	Root   string
	Logger *utils.Logger
}

// NewManager creates a new workspace manager
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Manager{root: opts.Root, logger: logger}
}

// Root returns the directory holding all workspaces
func (m *Manager) Root() string {
	return m.root
}

// Path returns the workspace directory for a source name. It is
// deterministic, so two sources with the same name share it.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.root, utils.SanitizeName(name)+Suffix)
}

// Prepare removes any leftover directory for name and creates a fresh empty one.
// A leftover that cannot be removed is logged, then fails the empty-directory check.
func (m *Manager) Prepare(name string) (string, error) {
	path := m.Path(name)

	if err := os.RemoveAll(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove leftover workspace")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("create workspace %s: %w", path, err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("read workspace %s: %w", path, err)
	}
	if len(entries) > 0 {
		return "", fmt.Errorf("workspace %s is not empty", path)
	}

	return path, nil
}

// Cleanup removes a workspace directory. An absent directory is not an error.
func (m *Manager) Cleanup(path string) error {
	if err := utils.RemoveDir(path); err != nil {
		return fmt.Errorf("remove workspace %s: %w", path, err)
	}
	m.logger.Debug().Str("path", path).Msg("Workspace removed")
	return nil
}
