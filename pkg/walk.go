package dupefind

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"
)

// WalkEntry describes one regular file found during a scan
type WalkEntry struct {
	RelPath string
	AbsPath string
	Size    uint64
	Inode   uint64
}

// Walker scans a directory tree in deterministic lexical order. Only
// regular files are reported; symlinks are never followed, so a file
// reachable through a link is counted once at most.
type Walker struct {
	rootDir  string
	excludes *ExcludeManager
	minSize  uint64
}

// NewWalker creates a walker rooted at rootDir. excludes may be nil;
// files smaller than minSize are dropped before they reach the caller.
func NewWalker(rootDir string, excludes *ExcludeManager, minSize uint64) *Walker {
	return &Walker{
		rootDir:  filepath.Clean(rootDir),
		excludes: excludes,
		minSize:  minSize,
	}
}

// Walk streams every regular file under the root to fn in sorted path
// order. Entries that cannot be stat'd and directories that cannot be read
// are skipped with a warning; a root that cannot be opened at all is an
// error, since there is nothing to search.
func (w *Walker) Walk(fn func(WalkEntry)) error {
	defer VerboseEnter()()

	rootInfo, err := os.Lstat(w.rootDir)
	if err != nil {
		return fmt.Errorf("cannot open root directory %s: %w", w.rootDir, err)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf("root path %s is not a directory", w.rootDir)
	}

	// Use a priority queue (sorted slice) to ensure we process paths in
	// alphabetical order so the walk output is naturally sorted.
	pathQueue := []string{w.rootDir}

	for len(pathQueue) > 0 {
		// Always process the first path (lexicographically smallest)
		currentPath := pathQueue[0]
		pathQueue = pathQueue[1:]

		info, err := os.Lstat(currentPath)
		if err != nil {
			if currentPath == w.rootDir {
				return fmt.Errorf("cannot open root directory %s: %w", w.rootDir, err)
			}
			Warnf("%s: %v", currentPath, err)
			continue
		}

		relPath, err := filepath.Rel(w.rootDir, currentPath)
		if err != nil {
			Warnf("%s: %v", currentPath, err)
			continue
		}

		if w.excludes != nil && relPath != "." && w.excludes.ShouldExclude(relPath) {
			if IsDebugEnabled("walk") {
				VerboseLog(3, "Walk: excluded %s", relPath)
			}
			continue
		}

		// Symlinks are skipped entirely. Hashing through a link would
		// report the target's content under two paths.
		if info.Mode()&os.ModeSymlink != 0 {
			continue
		}

		if info.IsDir() {
			entries, err := os.ReadDir(currentPath)
			if err != nil {
				if currentPath == w.rootDir {
					return fmt.Errorf("cannot read root directory %s: %w", w.rootDir, err)
				}
				Warnf("%s: %v", currentPath, err)
				continue
			}

			// Sort entries for consistent ordering
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Name() < entries[j].Name()
			})

			var newPaths []string
			for _, entry := range entries {
				newPaths = append(newPaths, filepath.Join(currentPath, entry.Name()))
			}

			// Insert new paths into queue maintaining sorted order
			pathQueue = insertSorted(pathQueue, newPaths)

		} else if info.Mode().IsRegular() {
			size := uint64(info.Size())
			if size < w.minSize {
				continue
			}

			var inode uint64
			if stat, ok := info.Sys().(*syscall.Stat_t); ok {
				inode = uint64(stat.Ino)
			}

			if IsDebugEnabled("walk") {
				VerboseLog(3, "Walk: found file %s (%d bytes)", relPath, size)
			}

			fn(WalkEntry{
				RelPath: relPath,
				AbsPath: currentPath,
				Size:    size,
				Inode:   inode,
			})
		}
	}

	return nil
}

// insertSorted inserts new paths into an existing sorted slice maintaining order
func insertSorted(existing []string, newPaths []string) []string {
	if len(newPaths) == 0 {
		return existing
	}
	if len(existing) == 0 {
		// Just sort and return new paths
		sort.Strings(newPaths)
		return newPaths
	}

	// Merge the two sorted slices
	result := make([]string, 0, len(existing)+len(newPaths))

	// Sort new paths first
	sort.Strings(newPaths)

	i, j := 0, 0
	for i < len(existing) && j < len(newPaths) {
		if existing[i] <= newPaths[j] {
			result = append(result, existing[i])
			i++
		} else {
			result = append(result, newPaths[j])
			j++
		}
	}

	// Append remaining elements
	for i < len(existing) {
		result = append(result, existing[i])
		i++
	}
	for j < len(newPaths) {
		result = append(result, newPaths[j])
		j++
	}

	return result
}
