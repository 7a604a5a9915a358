package dupefind

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenMapped_ContentsMatch(t *testing.T) {
	content := []byte("mapped view must equal written bytes")
	path := filepath.Join(t.TempDir(), "view.txt")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	mapped, err := OpenMapped(path, uint64(len(content)))
	if err != nil {
		t.Fatalf("OpenMapped failed: %v", err)
	}
	defer mapped.Close()

	if mapped.Len() != len(content) {
		t.Errorf("Expected length %d, got %d", len(content), mapped.Len())
	}
	if !bytes.Equal(mapped.Bytes(), content) {
		t.Error("Mapped contents differ from file contents")
	}
}

func TestOpenMapped_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	mapped, err := OpenMapped(path, 0)
	if err != nil {
		t.Fatalf("OpenMapped failed on empty file: %v", err)
	}

	if mapped.Len() != 0 {
		t.Errorf("Expected empty view, got %d bytes", mapped.Len())
	}
	if err := mapped.Close(); err != nil {
		t.Errorf("Close of empty view failed: %v", err)
	}
}

func TestOpenMapped_SizeChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resized.txt")
	if err := os.WriteFile(path, []byte("now bigger"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	_, err := OpenMapped(path, 4)
	if err == nil {
		t.Fatal("Expected error for size mismatch")
	}
	if !strings.Contains(err.Error(), "size changed") {
		t.Errorf("Expected size-changed error, got: %v", err)
	}
}

func TestOpenMapped_SizePastMaxIntRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.txt")
	if err := os.WriteFile(path, []byte("tiny"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	_, err := OpenMapped(path, uint64(math.MaxInt)+1)
	if err == nil {
		t.Fatal("Expected error for size past MaxInt")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Errorf("Expected too-large error, got: %v", err)
	}
}

func TestOpenMapped_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.txt")
	if _, err := OpenMapped(path, 10); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestMappedFile_CloseTwice(t *testing.T) {
	content := []byte("close me")
	path := filepath.Join(t.TempDir(), "twice.txt")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	mapped, err := OpenMapped(path, uint64(len(content)))
	if err != nil {
		t.Fatalf("OpenMapped failed: %v", err)
	}
	if err := mapped.Close(); err != nil {
		t.Fatalf("First Close failed: %v", err)
	}
	if err := mapped.Close(); err != nil {
		t.Errorf("Second Close should be a no-op, got: %v", err)
	}
}
