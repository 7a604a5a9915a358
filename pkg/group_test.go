package dupefind

import (
	"os"
	"path/filepath"
	"testing"
)

func mustAlgorithm(t *testing.T, name string) *FingerprintAlgorithm {
	t.Helper()
	algo, err := GetFingerprintAlgorithm(name)
	if err != nil {
		t.Fatalf("Failed to get algorithm %s: %v", name, err)
	}
	return algo
}

func buildTestInventory(t *testing.T, root string) *Inventory {
	t.Helper()
	inv, err := BuildInventory(NewWalker(root, nil, 0))
	if err != nil {
		t.Fatalf("BuildInventory failed: %v", err)
	}
	return inv
}

func setPaths(inv *Inventory, set DuplicateSet) []string {
	var paths []string
	for _, member := range set.Members {
		paths = append(paths, inv.Record(member).Path)
	}
	return paths
}

func TestGrouper_HelloWorldScenario(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "a.txt"), "hello")
	writeFile(t, filepath.Join(tempDir, "b.txt"), "hello")
	writeFile(t, filepath.Join(tempDir, "c.txt"), "world")

	inv := buildTestInventory(t, tempDir)
	grouper := NewGrouper(mustAlgorithm(t, "md5"), true, 4)
	sets := grouper.Group(inv)

	if len(sets) != 1 {
		t.Fatalf("Expected 1 duplicate set, got %d", len(sets))
	}
	if len(sets[0].Members) != 2 {
		t.Fatalf("Expected 2 members, got %d", len(sets[0].Members))
	}

	paths := setPaths(inv, sets[0])
	if paths[0] != "a.txt" || paths[1] != "b.txt" {
		t.Errorf("Expected [a.txt b.txt], got %v", paths)
	}
}

func TestGrouper_SameSizeDifferentContent(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "a.txt"), "aaaaa")
	writeFile(t, filepath.Join(tempDir, "b.txt"), "bbbbb")

	inv := buildTestInventory(t, tempDir)
	grouper := NewGrouper(mustAlgorithm(t, "md5"), true, 4)
	sets := grouper.Group(inv)

	if len(sets) != 0 {
		t.Errorf("Expected no duplicate sets for distinct content, got %d", len(sets))
	}
}

// Two same-size files differing only in their final byte must still be
// separated: the full byte range is the ground truth, not any prefix.
func TestGrouper_DifferenceNearEnd(t *testing.T) {
	tempDir := t.TempDir()
	base := make([]byte, 8192)
	for i := range base {
		base[i] = 'x'
	}
	modified := make([]byte, 8192)
	copy(modified, base)
	modified[8191] = 'y'

	writeFile(t, filepath.Join(tempDir, "a.bin"), string(base))
	writeFile(t, filepath.Join(tempDir, "b.bin"), string(modified))

	inv := buildTestInventory(t, tempDir)

	// The first 4 KiB are identical, so the fast-reject pass cannot split
	// these; only the full fingerprint can.
	grouper := NewGrouper(mustAlgorithm(t, "md5"), true, 4)
	sets := grouper.Group(inv)

	if len(sets) != 0 {
		t.Errorf("Expected no duplicate sets for files differing near the end, got %d", len(sets))
	}
}

func TestGrouper_UniqueSizesNeverFingerprinted(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "a.txt"), "x")
	writeFile(t, filepath.Join(tempDir, "b.txt"), "xy")
	writeFile(t, filepath.Join(tempDir, "c.txt"), "xyz")

	inv := buildTestInventory(t, tempDir)
	grouper := NewGrouper(mustAlgorithm(t, "md5"), false, 1)
	grouper.Group(inv)

	stats := grouper.Stats()
	if stats.FilesFingerprinted != 0 {
		t.Errorf("Expected 0 files fingerprinted for unique sizes, got %d", stats.FilesFingerprinted)
	}
}

func TestGrouper_FingerprintCountBoundedBySizeSharedFiles(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "a.txt"), "hello")
	writeFile(t, filepath.Join(tempDir, "b.txt"), "hello")
	writeFile(t, filepath.Join(tempDir, "c.txt"), "world")
	writeFile(t, filepath.Join(tempDir, "unique.txt"), "only one this long")

	inv := buildTestInventory(t, tempDir)
	grouper := NewGrouper(mustAlgorithm(t, "md5"), false, 4)
	grouper.Group(inv)

	// a, b, c share size 5; unique.txt is alone in its bucket.
	stats := grouper.Stats()
	if stats.FilesFingerprinted > 3 {
		t.Errorf("Fingerprinted %d files, expected at most 3 size-shared files", stats.FilesFingerprinted)
	}
}

func TestGrouper_FastRejectSkipsFullHash(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "a.txt"), "aaaaa")
	writeFile(t, filepath.Join(tempDir, "b.txt"), "bbbbb")

	inv := buildTestInventory(t, tempDir)
	grouper := NewGrouper(mustAlgorithm(t, "md5"), true, 4)
	sets := grouper.Group(inv)

	if len(sets) != 0 {
		t.Fatalf("Expected no sets, got %d", len(sets))
	}
	stats := grouper.Stats()
	if stats.FilesFingerprinted != 0 {
		t.Errorf("Expected first-block reject to avoid full hashing, fingerprinted %d", stats.FilesFingerprinted)
	}
	if stats.FilesRejected != 2 {
		t.Errorf("Expected 2 files rejected by first block, got %d", stats.FilesRejected)
	}
}

func TestGrouper_FastRejectNeverSeparatesIdenticalFiles(t *testing.T) {
	tempDir := t.TempDir()
	content := "identical content beyond any doubt"
	writeFile(t, filepath.Join(tempDir, "a.txt"), content)
	writeFile(t, filepath.Join(tempDir, "b.txt"), content)
	writeFile(t, filepath.Join(tempDir, "c.txt"), content)

	inv := buildTestInventory(t, tempDir)

	for _, fastReject := range []bool{true, false} {
		grouper := NewGrouper(mustAlgorithm(t, "md5"), fastReject, 4)
		sets := grouper.Group(inv)
		if len(sets) != 1 {
			t.Fatalf("fastReject=%v: expected 1 set, got %d", fastReject, len(sets))
		}
		if len(sets[0].Members) != 3 {
			t.Errorf("fastReject=%v: expected 3 members, got %d", fastReject, len(sets[0].Members))
		}
	}
}

func TestGrouper_VanishedFileSkipped(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "a.txt"), "hello")
	writeFile(t, filepath.Join(tempDir, "b.txt"), "hello")
	writeFile(t, filepath.Join(tempDir, "gone.txt"), "hello")

	inv := buildTestInventory(t, tempDir)

	// Remove one bucket member between the stat and the fingerprint pass.
	if err := os.Remove(filepath.Join(tempDir, "gone.txt")); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}

	grouper := NewGrouper(mustAlgorithm(t, "md5"), false, 2)
	sets := grouper.Group(inv)

	if len(sets) != 1 {
		t.Fatalf("Expected surviving members to still group, got %d sets", len(sets))
	}
	paths := setPaths(inv, sets[0])
	if len(paths) != 2 || paths[0] != "a.txt" || paths[1] != "b.txt" {
		t.Errorf("Expected [a.txt b.txt], got %v", paths)
	}
	if grouper.Stats().FilesSkipped != 1 {
		t.Errorf("Expected 1 skipped file, got %d", grouper.Stats().FilesSkipped)
	}
}

func TestGrouper_EmptyFilesGroup(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "a.txt"), "")
	writeFile(t, filepath.Join(tempDir, "b.txt"), "")

	inv := buildTestInventory(t, tempDir)
	grouper := NewGrouper(mustAlgorithm(t, "md5"), true, 4)
	sets := grouper.Group(inv)

	if len(sets) != 1 {
		t.Fatalf("Expected empty files to form one set, got %d", len(sets))
	}
	if sets[0].Size != 0 {
		t.Errorf("Expected set size 0, got %d", sets[0].Size)
	}
}

func TestGrouper_IdempotentAcrossRuns(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, "x", "one.txt"), "dup")
	writeFile(t, filepath.Join(tempDir, "y", "two.txt"), "dup")
	writeFile(t, filepath.Join(tempDir, "z", "three.txt"), "dup")
	writeFile(t, filepath.Join(tempDir, "other.txt"), "solo content")

	run := func() [][]string {
		inv := buildTestInventory(t, tempDir)
		grouper := NewGrouper(mustAlgorithm(t, "md5"), true, 4)
		var membership [][]string
		for _, set := range grouper.Group(inv) {
			membership = append(membership, setPaths(inv, set))
		}
		return membership
	}

	first := run()
	second := run()

	if len(first) != len(second) {
		t.Fatalf("Set counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if len(first[i]) != len(second[i]) {
			t.Fatalf("Set %d sizes differ: %d vs %d", i, len(first[i]), len(second[i]))
		}
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Errorf("Set %d member %d differs: '%s' vs '%s'", i, j, first[i][j], second[i][j])
			}
		}
	}
}

func TestGrouper_MultipleBucketsDiscoveryOrder(t *testing.T) {
	tempDir := t.TempDir()
	// Size-3 bucket discovered first (walk order is lexical).
	writeFile(t, filepath.Join(tempDir, "a.txt"), "abc")
	writeFile(t, filepath.Join(tempDir, "b.txt"), "abc")
	writeFile(t, filepath.Join(tempDir, "c.txt"), "defg")
	writeFile(t, filepath.Join(tempDir, "d.txt"), "defg")

	inv := buildTestInventory(t, tempDir)
	grouper := NewGrouper(mustAlgorithm(t, "sha256"), false, 1)
	sets := grouper.Group(inv)

	if len(sets) != 2 {
		t.Fatalf("Expected 2 sets, got %d", len(sets))
	}
	if sets[0].Size != 3 || sets[1].Size != 4 {
		t.Errorf("Expected sets in discovery order (3 then 4), got %d then %d", sets[0].Size, sets[1].Size)
	}
}
