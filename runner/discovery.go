package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// maxDiscoveryDepth bounds the recursive walk so a symlink cycle cannot run
// forever.
const maxDiscoveryDepth = 10

// DiscoverFeatures resolves a path to the ordered list of feature files it
// covers. A regular file must carry the .feature extension; a directory is
// walked recursively up to maxDiscoveryDepth levels, following symlinks,
// collecting files with the .feature extension. The result is sorted
// lexicographically so batch runs are deterministic regardless of filesystem
// order.
func DiscoverFeatures(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		if !strings.HasSuffix(path, ".feature") {
			return nil, fmt.Errorf("not a feature file: %s", path)
		}
		return []string{path}, nil
	}

	var files []string
	if err := walkFeatures(path, 0, &files); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func walkFeatures(dir string, depth int, files *[]string) error {
	if depth > maxDiscoveryDepth {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		// Stat, not the dirent type, so symlinked directories are followed.
		info, err := os.Stat(full)
		if err != nil {
			continue
		}
		if info.IsDir() {
			if err := walkFeatures(full, depth+1, files); err != nil {
				return err
			}
			continue
		}
		if strings.HasSuffix(entry.Name(), ".feature") {
			*files = append(*files, full)
		}
	}
	return nil
}
