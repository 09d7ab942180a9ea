package crawler

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"classmaid/internal/pipeline"
)

// ignoredDirs are skipped outright regardless of exclude patterns.
var ignoredDirs = []string{
	".git", ".hg", ".venv", "venv", "__pycache__", "node_modules",
	".mypy_cache", ".ruff_cache", ".pytest_cache", ".tox", "build", "dist",
}

// Crawler collects Python source units from the filesystem. Exclude patterns
// use doublestar glob syntax and are matched against slash-separated paths
// relative to the scan root.
type Crawler struct {
	exclude       []string
	extendExclude []string
}

func NewCrawler(exclude, extendExclude []string) *Crawler {
	return &Crawler{exclude: exclude, extendExclude: extendExclude}
}

// Collect walks root and reads every matching .py file into a SourceUnit.
// The walk order is lexical, so unit order (and with it, output) is
// deterministic. Root may also be a single file.
func (c *Crawler) Collect(root string) ([]pipeline.SourceUnit, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		source, err := os.ReadFile(root)
		if err != nil {
			return nil, err
		}
		return []pipeline.SourceUnit{{ID: filepath.ToSlash(root), Source: source}}, nil
	}

	var units []pipeline.SourceUnit
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			for _, ign := range ignoredDirs {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			if rel != "." && c.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}
		if c.excluded(rel) {
			return nil
		}

		source, readErr := os.ReadFile(path)
		if readErr != nil {
			// Unreadable files are skipped rather than aborting the scan.
			return nil
		}
		units = append(units, pipeline.SourceUnit{ID: rel, Source: source})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return units, nil
}

func (c *Crawler) excluded(rel string) bool {
	return matchAny(c.exclude, rel) || matchAny(c.extendExclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
		// Also treat a bare name as matching anywhere in the tree.
		if !strings.Contains(p, "/") {
			if ok, err := doublestar.Match("**/"+p, rel); err == nil && ok {
				return true
			}
		}
	}
	return false
}
