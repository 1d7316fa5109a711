// Package library enumerates the performer folders under the library root.
// Only directory names matter; folder contents are never read.
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// ErrRootMissing is returned when the library root does not exist.
var ErrRootMissing = errors.New("library: base folder does not exist")

// ErrNoValidFolders is returned when none of the requested folder names
// resolve to a directory under the root.
var ErrNoValidFolders = errors.New("library: no valid folders provided")

// IssueLog receives diagnostics for requested folders that do not exist.
type IssueLog interface {
	Logf(format string, args ...any)
}

// CheckRoot verifies that root exists.
func CheckRoot(root string) error {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootMissing, root)
		}

		return fmt.Errorf("library: checking base folder %s: %w", root, err)
	}

	return nil
}

// ListFolders returns the full paths of the immediate subdirectories of
// root, sorted by name. Names are NFC-normalized so macOS-decomposed names
// match catalog paths.
func ListFolders(root string) ([]string, error) {
	if err := CheckRoot(root); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("library: reading %s: %w", root, err)
	}

	var folders []string

	for _, e := range entries {
		if !isDir(root, e) {
			continue
		}

		folders = append(folders, filepath.Join(root, norm.NFC.String(e.Name())))
	}

	sort.Strings(folders)

	return folders, nil
}

// SelectFolders resolves the requested folder names under root. Names that
// are not directories are logged and skipped. Returns ErrNoValidFolders
// when nothing remains.
func SelectFolders(root string, names []string, issues IssueLog) ([]string, error) {
	if err := CheckRoot(root); err != nil {
		return nil, err
	}

	var folders []string

	for _, name := range names {
		full := filepath.Join(root, name)

		info, err := os.Stat(full)
		if err != nil || !info.IsDir() {
			issues.Logf("Warning: Folder '%s' not found in base folder '%s'.", name, root)

			continue
		}

		folders = append(folders, filepath.Join(root, norm.NFC.String(name)))
	}

	if len(folders) == 0 {
		return nil, ErrNoValidFolders
	}

	return folders, nil
}

// isDir reports whether the entry is a directory, following symlinks.
func isDir(root string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}

	if e.Type()&os.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(filepath.Join(root, e.Name()))

	return err == nil && info.IsDir()
}
