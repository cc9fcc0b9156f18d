package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-shareforms/pkg/failure"
)

// Stage collects the files of one run in a temporary directory inside the
// output directory and moves them into place together on Commit. Nothing is
// visible in the output directory until then.
type Stage struct {
	dir   string
	tmp   string
	files []string
	done  bool
}

// NewStage prepares a stage in outputDir, which must already exist.
func NewStage(outputDir string) (*Stage, error) {
	info, err := os.Stat(outputDir)
	if err != nil || !info.IsDir() {
		return nil, failure.Usage(failure.CodeOutputDirMissing, "desired output folder not found: %s", outputDir)
	}
	tmp, err := os.MkdirTemp(outputDir, ".shareforms-*")
	if err != nil {
		return nil, fmt.Errorf("output: create stage: %w", err)
	}
	return &Stage{dir: outputDir, tmp: tmp}, nil
}

// Dir returns the output directory.
func (s *Stage) Dir() string { return s.dir }

// WriteFile stages a file and returns the path it will have after Commit.
// Writing the same name twice replaces the staged content.
func (s *Stage) WriteFile(name string, data []byte) (string, error) {
	if s.done {
		return "", errors.New("output: stage already closed")
	}
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("output: invalid staged file name %q", name)
	}
	if err := os.WriteFile(filepath.Join(s.tmp, name), data, 0o644); err != nil {
		return "", fmt.Errorf("output: stage %s: %w", name, err)
	}
	for _, existing := range s.files {
		if existing == name {
			return filepath.Join(s.dir, name), nil
		}
	}
	s.files = append(s.files, name)
	return filepath.Join(s.dir, name), nil
}

// Commit moves every staged file into the output directory, in staging
// order, and returns their final paths. Files already in the output
// directory are replaced. If any move fails, the files moved so far are
// taken back out and the files they replaced are restored, so the output
// directory is left as it was.
func (s *Stage) Commit() ([]string, error) {
	if s.done {
		return nil, errors.New("output: stage already closed")
	}
	s.done = true
	defer os.RemoveAll(s.tmp)

	backup, err := os.MkdirTemp(s.tmp, "prev-")
	if err != nil {
		return nil, fmt.Errorf("output: commit: %w", err)
	}
	var moved []committed
	for _, name := range s.files {
		c := committed{target: filepath.Join(s.dir, name)}
		if _, err := os.Lstat(c.target); err == nil {
			c.backup = filepath.Join(backup, name)
			if err := os.Rename(c.target, c.backup); err != nil {
				s.rollback(moved)
				return nil, fmt.Errorf("output: commit %s: %w", name, err)
			}
		}
		if err := os.Rename(filepath.Join(s.tmp, name), c.target); err != nil {
			if c.backup != "" {
				_ = os.Rename(c.backup, c.target)
			}
			s.rollback(moved)
			return nil, fmt.Errorf("output: commit %s: %w", name, err)
		}
		moved = append(moved, c)
	}

	paths := make([]string, len(moved))
	for i, c := range moved {
		paths[i] = c.target
	}
	return paths, nil
}

type committed struct {
	target string
	backup string
}

// rollback undoes moves in reverse order. Errors are ignored: there is
// nothing left to fall back on.
func (s *Stage) rollback(moved []committed) {
	for i := len(moved) - 1; i >= 0; i-- {
		c := moved[i]
		_ = os.Remove(c.target)
		if c.backup != "" {
			_ = os.Rename(c.backup, c.target)
		}
	}
}

// Discard drops every staged file. It is safe to call after Commit.
func (s *Stage) Discard() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := os.RemoveAll(s.tmp); err != nil {
		return fmt.Errorf("output: discard stage: %w", err)
	}
	return nil
}
