package dicomio

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Discover walks root and returns the paths of all candidate DICOM files,
// sorted for deterministic batch ordering. Files with a .dcm extension are
// accepted outright; extensionless files are sniffed for the DICM magic,
// since scanner exports commonly drop the extension. Files with any other
// extension are skipped without opening them.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".dcm":
			paths = append(paths, path)
		case "":
			if IsDICOM(path) {
				paths = append(paths, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
