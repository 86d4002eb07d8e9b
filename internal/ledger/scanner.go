package ledger

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoveredFile is a ledger CSV found on disk.
type DiscoveredFile struct {
	Path string
	Name string // file name without extension, used as a display label
}

// ScanDir walks dir and returns every .csv file beneath it, sorted by path.
// Unreadable entries are skipped.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []DiscoveredFile{discovered(dir)}, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		files = append(files, discovered(path))
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// Expand resolves command-line arguments (files or directories) into
// discovered files, keeping argument order and dropping duplicates.
func Expand(args []string) ([]DiscoveredFile, error) {
	seen := make(map[string]struct{})
	var out []DiscoveredFile
	for _, arg := range args {
		found, err := ScanDir(arg)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if _, ok := seen[f.Path]; ok {
				continue
			}
			seen[f.Path] = struct{}{}
			out = append(out, f)
		}
	}
	return out, nil
}

func discovered(path string) DiscoveredFile {
	base := filepath.Base(path)
	return DiscoveredFile{
		Path: path,
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}
