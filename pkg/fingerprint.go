package dupefind

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// FingerprintAlgorithm represents a fingerprint algorithm configuration
type FingerprintAlgorithm struct {
	Name    string
	TypeID  uint16
	Size    int
	NewFunc func() hash.Hash
}

// GetFingerprintAlgorithm returns the fingerprint algorithm configuration for the given name
func GetFingerprintAlgorithm(name string) (*FingerprintAlgorithm, error) {
	switch strings.ToLower(name) {
	case "md5":
		return &FingerprintAlgorithm{
			Name:    "md5",
			TypeID:  FingerprintTypeMD5,
			Size:    FingerprintSizeMD5,
			NewFunc: func() hash.Hash { return md5.New() },
		}, nil
	case "sha1":
		return &FingerprintAlgorithm{
			Name:    "sha1",
			TypeID:  FingerprintTypeSHA1,
			Size:    FingerprintSizeSHA1,
			NewFunc: func() hash.Hash { return sha1.New() },
		}, nil
	case "sha256":
		return &FingerprintAlgorithm{
			Name:    "sha256",
			TypeID:  FingerprintTypeSHA256,
			Size:    FingerprintSizeSHA256,
			NewFunc: func() hash.Hash { return sha256.New() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported fingerprint algorithm: %s", name)
	}
}

// GetFingerprintAlgorithmByType returns the fingerprint algorithm configuration for the given type ID
func GetFingerprintAlgorithmByType(typeID uint16) (*FingerprintAlgorithm, error) {
	name := FingerprintTypeName(typeID)
	if name == "unknown" {
		return nil, fmt.Errorf("unsupported fingerprint type ID: %d", typeID)
	}
	return GetFingerprintAlgorithm(name)
}

// FingerprintFile computes the full-content fingerprint of the file at
// path and returns it as a hex string. The contents are memory mapped when
// possible so the digest reads straight out of the page cache; if the
// mapping itself fails the file is hashed through a streamed read instead.
// Open, stat, and size-mismatch failures are returned to the caller, which
// treats them as skip-this-file.
func FingerprintFile(path string, expectedSize uint64, algorithm *FingerprintAlgorithm) (string, error) {
	mapped, err := OpenMapped(path, expectedSize)
	if err != nil {
		if errors.Is(err, errMmapFailed) {
			return fingerprintStreamed(path, expectedSize, algorithm)
		}
		return "", err
	}
	defer mapped.Close()

	hasher := algorithm.NewFunc()
	hasher.Write(mapped.Bytes())
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// fingerprintStreamed hashes the file through a buffered read. Same
// semantics as the mapped path at the cost of one extra buffer copy.
func fingerprintStreamed(path string, expectedSize uint64, algorithm *FingerprintAlgorithm) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if uint64(info.Size()) != expectedSize {
		return "", fmt.Errorf("size changed for %s: expected %d bytes, found %d", path, expectedSize, info.Size())
	}

	hasher := algorithm.NewFunc()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to hash file %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// FastRejectKey hashes the first FastRejectBlockSize bytes of the file
// with xxhash. Files shorter than the block are hashed whole. The key is
// only ever used to split a size bucket: equal keys prove nothing, but
// unequal keys rule out duplication without touching the full contents.
func FastRejectKey(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	buf := make([]byte, FastRejectBlockSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("failed to read first block of %s: %w", path, err)
	}

	return xxhash.Sum64(buf[:n]), nil
}
