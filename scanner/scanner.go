// Package scanner finds the files to check under a directory tree.
package scanner

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
)

type FileInfo struct {
	Path string
	Size int64
}

// Scanner walks a directory tree in lexical order, so the same tree always
// yields the same file list.
type Scanner struct {
	rootDir      string
	extensions   []string
	excludeNames map[string]bool
	excludeGlobs []string
	skipped      []error
}

func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:      rootDir,
		extensions:   extensions,
		excludeNames: make(map[string]bool),
	}
}

// ExcludeNames skips files whose base name is one of names.
func (s *Scanner) ExcludeNames(names ...string) *Scanner {
	for _, name := range names {
		s.excludeNames[name] = true
	}
	return s
}

// ExcludeGlobs skips files and directories matching any of the patterns.
// A pattern is matched against the slash separated path relative to the
// root and against the base name.
func (s *Scanner) ExcludeGlobs(patterns ...string) *Scanner {
	s.excludeGlobs = append(s.excludeGlobs, patterns...)
	return s
}

// Scan lists the target files under the root. Only a failure to read the
// root itself is an error; entries below it that cannot be read are skipped
// and reported by Skipped.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo
	s.skipped = nil

	err := filepath.WalkDir(s.rootDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == s.rootDir {
				return err
			}
			s.skipped = append(s.skipped, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if p != s.rootDir && s.isExcluded(p) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !s.isTargetFile(p) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.skipped = append(s.skipped, fmt.Errorf("error reading file info: %w", err))
			return nil
		}
		files = append(files, FileInfo{Path: p, Size: info.Size()})
		return nil
	})

	return files, err
}

// Skipped returns the errors of entries left out by the last Scan.
func (s *Scanner) Skipped() []error {
	return s.skipped
}

func (s *Scanner) isExcluded(p string) bool {
	base := filepath.Base(p)
	rel, err := filepath.Rel(s.rootDir, p)
	if err != nil {
		rel = p
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range s.excludeGlobs {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) isTargetFile(p string) bool {
	if s.excludeNames[filepath.Base(p)] {
		return false
	}
	if len(s.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(p)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
