package filetree

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// VCSIgnores covers version-control metadata directories.
var VCSIgnores = []string{
	".git/",
	".hg/",
	".svn/",
}

// DependencyCacheIgnores covers directories that hold fetched dependencies
// rather than project sources.
var DependencyCacheIgnores = []string{
	"node_modules/",
}

// DefaultIgnores is what ecosystem detection skips.
var DefaultIgnores = append(append([]string{}, VCSIgnores...), DependencyCacheIgnores...)

// Walk lists every regular file under root as a slash-separated path
// relative to root, sorted lexically. Hidden files are included. patterns
// use .gitignore syntax; a pattern ending in "/" prunes the whole directory.
func Walk(root string, patterns []string) ([]string, error) {
	matcher := ignore.CompileIgnoreLines(patterns...)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil || relPath == "." {
			return nil
		}

		// Append slash for directories so patterns ending in '/' match
		pathToMatch := filepath.ToSlash(relPath)
		if d.IsDir() {
			pathToMatch += "/"
		}
		if len(patterns) > 0 && matcher.MatchesPath(pathToMatch) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() {
			files = append(files, filepath.ToSlash(relPath))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// HasSuffixFold reports whether any path ends with name, ignoring case.
func HasSuffixFold(files []string, name string) bool {
	name = strings.ToLower(name)
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f), name) {
			return true
		}
	}
	return false
}
