package server

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ironsheep/image-edit-mcp/internal/storage"
)

// ErrPathNotAllowed is returned for local paths outside the file root.
var ErrPathNotAllowed = errors.New("path not allowed")

// RestrictFiles confines every local path and output to root. Relative
// paths are taken relative to root. An empty root refuses local files
// altogether. Remote locations are not affected.
func (s *Server) RestrictFiles(root string) error {
	s.restricted = true
	s.root = ""
	if root == "" {
		return nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("file root %s: %w", root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fmt.Errorf("file root %s: %w", root, err)
	}
	s.root = resolved
	return nil
}

// localPath returns the location to open for a caller-supplied path.
func (s *Server) localPath(p string) (string, error) {
	if !s.restricted || p == "" || storage.IsRemote(p) {
		return p, nil
	}
	if s.root == "" {
		return "", fmt.Errorf("%w: local files are disabled", ErrPathNotAllowed)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.root, p)
	}
	p = filepath.Clean(p)
	if !within(s.root, followLinks(p)) {
		return "", fmt.Errorf("%w: %s is outside the file root", ErrPathNotAllowed, p)
	}
	return p, nil
}

// followLinks resolves symlinks in the longest existing prefix of p.
func followLinks(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	dir, base := filepath.Split(p)
	dir = filepath.Clean(dir)
	if dir == p {
		return p
	}
	return filepath.Join(followLinks(dir), base)
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
