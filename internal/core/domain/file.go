package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// File is a catalogued file on the records server, identified by the
// SHA-1 digest of its bytes. The hash is globally unique; duplicate copies
// of the same bytes share one File with multiple Locations.
//
// The pipeline never creates, mutates or deletes File rows; cataloguing
// happens in a separate discovery process.
type File struct {
	// Hash is the SHA-1 content digest, hex encoded.
	Hash string

	// Size is the catalogued size in bytes.
	Size int64

	// Extension is the file extension without the leading dot, lowercased.
	Extension string

	// Locations are the known on-server locations of this file's bytes.
	// A file may appear in several directories (duplicates, re-filed copies).
	Locations []Location
}

// Location asserts where a File's bytes were last observed on the file
// server. Directories are stored as a forward-slash relative path from the
// server root, independent of how the server is mounted locally.
type Location struct {
	// ID is the location row identifier.
	ID int64

	// FileHash links to the owning File.
	FileHash string

	// ServerDirectories is the POSIX-style directory path relative to the
	// server root, e.g. "PPDO/Records/F7.1 - Inspection Reports/2019".
	ServerDirectories string

	// Filename is the base name of the file at this location.
	Filename string

	// ExistenceConfirmed is when the path was last seen on disk.
	ExistenceConfirmed time.Time

	// HashConfirmed is when the bytes at the path last matched the hash.
	HashConfirmed time.Time
}

// LocalPath resolves this location against a local mount of the file
// server. Returns "" when the location is incomplete.
func (l Location) LocalPath(mount string) string {
	if l.ServerDirectories == "" || l.Filename == "" {
		return ""
	}
	parts := strings.Split(l.ServerDirectories, "/")
	parts = append(parts, l.Filename)
	return filepath.Join(append([]string{mount}, parts...)...)
}

// SelectionFilter narrows candidate selection queries. The zero value
// applies no filtering.
type SelectionFilter struct {
	// ExcludeEmbedded drops files that already have a Content row.
	ExcludeEmbedded bool

	// MaxBytes drops files whose catalogued size exceeds this limit.
	// Zero means no size limit.
	MaxBytes int64

	// Limit caps the number of returned files. Zero means no cap.
	Limit int

	// Randomize shuffles the result order.
	Randomize bool
}
