package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

const (
	// FormatVersion is the version written to new storage files.
	FormatVersion = "1.0.0"
	// DefaultFileName is the storage file name inside the config directory.
	DefaultFileName = "storage.json"

	supportedFormats = "^1.0.0"
)

// ErrUnsupportedFormat is returned by OpenFile for files written by an
// incompatible version of the CLI.
var ErrUnsupportedFormat = errors.New("unsupported storage format")

type document struct {
	Version string            `json:"version"`
	Items   map[string]string `json:"items"`
}

// File is a key-value store kept in a single JSON document on disk.
// The document is read once by OpenFile and rewritten in full on every Set.
type File struct {
	mu    sync.Mutex
	path  string
	items map[string]string
}

// OpenFile loads the store at path. A missing file is an empty store.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, items: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading storage file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing storage file %s: %w", path, err)
	}
	if err := CheckFormatVersion(doc.Version); err != nil {
		return nil, err
	}
	if doc.Items != nil {
		f.items = doc.Items
	}
	return f, nil
}

// Path returns the file backing the store.
func (f *File) Path() string { return f.path }

// Get returns the value stored under key.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[key]
	return v, ok, nil
}

// Set stores value under key and rewrites the file. The in-memory view only
// changes if the write succeeds.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[string]string, len(f.items)+1)
	for k, v := range f.items {
		next[k] = v
	}
	next[key] = value

	if err := f.write(next); err != nil {
		return err
	}
	f.items = next
	return nil
}

func (f *File) write(items map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	data, err := json.MarshalIndent(document{Version: FormatVersion, Items: items}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling storage file: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".storage-*.json")
	if err != nil {
		return fmt.Errorf("creating temp storage file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing storage file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting storage file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing storage file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("replacing storage file: %w", err)
	}
	return nil
}

// CheckFormatVersion reports whether a storage file version can be read.
// An empty version is treated as the current format.
func CheckFormatVersion(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("parsing storage format version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(supportedFormats)
	if err != nil {
		return fmt.Errorf("parsing supported formats: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedFormat, version, supportedFormats)
	}
	return nil
}
