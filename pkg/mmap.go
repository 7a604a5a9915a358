package dupefind

import (
	"errors"
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// errMmapFailed marks a failure of the mapping syscall itself, as opposed
// to an open/stat/size failure. Callers fall back to a streamed read for
// this case only; everything else means skip the file.
var errMmapFailed = errors.New("mmap failed")

// MappedFile is a read-only view of a file's full contents. The mapping is
// private and released by Close; callers must not retain the byte slice
// past Close.
type MappedFile struct {
	data   []byte
	mapped bool
}

// OpenMapped maps the full contents of the file at path. The file's size
// is verified against expectedSize so a file that grew or shrank between
// the inventory stat and the fingerprint pass is rejected rather than
// hashed under the wrong bucket. Zero-length files are returned as an
// empty view without mapping (mmap of length 0 is invalid).
func OpenMapped(path string, expectedSize uint64) (*MappedFile, error) {
	// Mmap takes an int length; a size past MaxInt would truncate and map
	// a short view, fingerprinting a prefix as the whole file.
	if expectedSize > uint64(math.MaxInt) {
		return nil, fmt.Errorf("file too large to map %s: %d bytes", path, expectedSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	if uint64(info.Size()) != expectedSize {
		return nil, fmt.Errorf("size changed for %s: expected %d bytes, found %d", path, expectedSize, info.Size())
	}

	if expectedSize == 0 {
		return &MappedFile{data: nil, mapped: false}, nil
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(expectedSize), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %s", errMmapFailed, path, err)
	}

	// The mapping stays valid after the descriptor is closed.
	return &MappedFile{data: data, mapped: true}, nil
}

// Bytes returns the mapped contents. Valid until Close.
func (mf *MappedFile) Bytes() []byte {
	return mf.data
}

// Len returns the length of the mapped contents in bytes.
func (mf *MappedFile) Len() int {
	return len(mf.data)
}

// Close releases the mapping. Safe to call on an empty view.
func (mf *MappedFile) Close() error {
	if !mf.mapped {
		return nil
	}
	if err := unix.Munmap(mf.data); err != nil {
		return fmt.Errorf("failed to unmap file contents: %w", err)
	}
	mf.data = nil
	mf.mapped = false
	return nil
}
