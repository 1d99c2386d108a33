// Package dotdir manages the .graphzep/ and ~/.graphzep directories where config lives.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the graphzep directory.
	dirName = ".graphzep"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .graphzep/ directory.
// Order of precedence is as follows:
//  1. Provided override (created if missing)
//  2. Local ./.graphzep/ dir, if it exists
//  3. Home ~/.graphzep/ dir, if it exists
//  4. Empty string when nothing resolves; callers fall back to defaults
func (m *Manager) Target(overrideDir string) (string, error) {
	if overrideDir != "" {
		if err := os.MkdirAll(overrideDir, 0o755); err != nil {
			return "", fmt.Errorf("creating graphzep directory %s: %w", overrideDir, err)
		}
		return filepath.Abs(overrideDir)
	}

	if dir, ok := m.localDir(); ok {
		return filepath.Abs(dir)
	}

	if dir, ok := m.homeDir(); ok {
		return filepath.Abs(dir)
	}

	return "", nil
}

// localDir checks whether a .graphzep/ directory exists in the current
// working directory.
func (m *Manager) localDir() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}

	dir := filepath.Join(cwd, dirName)
	info, err := os.Stat(dir)
	return dir, err == nil && info.IsDir()
}

// homeDir checks whether a .graphzep/ directory exists in the user's home
// directory.
func (m *Manager) homeDir() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	dir := filepath.Join(home, dirName)
	info, err := os.Stat(dir)
	return dir, err == nil && info.IsDir()
}
