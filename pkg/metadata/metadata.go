// Package metadata provides checksums for exported files and their sidecar records.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// SidecarExt is appended to an export path to name its checksum file.
const SidecarExt = ".sha256"

// Checksum verification errors.
var (
	ErrNoHashFound    = errors.New("no hash found")
	ErrMalformedEntry = errors.New("malformed checksum entry")
	ErrHashMismatch   = errors.New("hash mismatch")
)

// Metadata identifies one exported file.
type Metadata struct {
	Name string
	Hash string
}

// CalculateHash computes the hex SHA-256 of data.
func CalculateHash(data []byte) string {
	hash := sha256.Sum256(data)

	return hex.EncodeToString(hash[:])
}

// Sign returns the metadata of data stored under name.
func Sign(name string, data []byte) Metadata {
	return Metadata{Name: name, Hash: CalculateHash(data)}
}

// String renders m as a sha256sum line.
func (m Metadata) String() string {
	return fmt.Sprintf("%s  %s\n", m.Hash, m.Name)
}

// Parse reads a sha256sum line.
func Parse(content string) (Metadata, error) {
	line := strings.TrimSpace(content)
	if line == "" {
		return Metadata{}, ErrNoHashFound
	}

	hash, name, ok := strings.Cut(line, "  ")
	if !ok || len(hash) != sha256.Size*2 {
		return Metadata{}, fmt.Errorf("%w: %q", ErrMalformedEntry, line)
	}

	if _, err := hex.DecodeString(hash); err != nil {
		return Metadata{}, fmt.Errorf("%w: %q", ErrMalformedEntry, line)
	}

	return Metadata{Name: strings.TrimSpace(name), Hash: strings.ToLower(hash)}, nil
}

// Verify checks data against m.
func (m Metadata) Verify(data []byte) error {
	if m.Hash == "" {
		return ErrNoHashFound
	}

	calculated := CalculateHash(data)
	if !strings.EqualFold(calculated, m.Hash) {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, m.Hash, calculated)
	}

	return nil
}
