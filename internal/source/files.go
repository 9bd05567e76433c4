package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
)

// Walker selects files under a root with doublestar include/exclude patterns.
type Walker struct {
	includes []string
	excludes []string
}

// NewWalker creates a Walker. No includes means every file.
func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	return &Walker{includes: includes, excludes: excludes}
}

// Files is shorthand for NewWalker(includes, excludes).Documents(root).
func Files(root string, includes, excludes []string) ([]domdoc.Document, error) {
	return NewWalker(includes, excludes).Documents(root)
}

// Documents reads every selected file as one document. The id is the
// slash-separated path relative to root; empty files are skipped.
// Files are visited in lexical order.
func (w *Walker) Documents(root string) ([]domdoc.Document, error) {
	var docs []domdoc.Document

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && w.excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.included(rel) || w.excluded(rel) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return nil
		}
		docs = append(docs, domdoc.Reconstruct(rel, string(data), nil))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return docs, nil
}

func (w *Walker) included(path string) bool { return matchAny(w.includes, path) }

func (w *Walker) excluded(path string) bool { return matchAny(w.excludes, path) }

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
