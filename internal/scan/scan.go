package scan

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// File identifies one discovered template.
type File struct {
	// Path is the absolute location on disk.
	Path string
	// Repo is the top-level directory beneath the scan root, recorded for
	// provenance only.
	Repo string
	// Rel is the path within the repository. Classification matches against
	// this so a repository's own directory name never influences categories.
	Rel string
	// Seq is the position in lexical walk order.
	Seq int
}

// Name returns the base file name.
func (f File) Name() string {
	return filepath.Base(f.Path)
}

// Walk enumerates template files beneath root in lexical order. Entries that
// cannot be read are returned in skipped rather than aborting the walk; only
// an unreadable root is fatal. An unreadable directory yields a single
// skipped entry and its subtree is not descended into.
func Walk(root string, extensions []string) (files []File, skipped []string, err error) {
	extSet := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = struct{}{}
	}

	seq := 0
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			skipped = append(skipped, path)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if _, ok := extSet[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			skipped = append(skipped, path)
			return nil
		}
		repo, inner := splitRepo(rel)
		files = append(files, File{
			Path: path,
			Repo: repo,
			Rel:  inner,
			Seq:  seq,
		})
		seq++
		return nil
	})
	if walkErr != nil {
		return nil, nil, walkErr
	}
	return files, skipped, nil
}

// splitRepo separates the repository directory from the path inside it. A
// file sitting directly under the root has no repository tag.
func splitRepo(rel string) (repo, inner string) {
	rel = filepath.ToSlash(rel)
	if idx := strings.IndexByte(rel, '/'); idx >= 0 {
		return rel[:idx], rel[idx+1:]
	}
	return "", rel
}
