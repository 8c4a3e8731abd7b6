package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

const (
	snapshotSuffix = ".json"
	checksumSuffix = ".checksum"
	tempSuffix     = ".tmp"
)

// FileKV stores each key as a snapshot file with a SHA-256 checksum sidecar.
// The sidecar lists the checksum of the value being written followed by the
// checksum of the value it replaces, and is renamed into place before the
// snapshot. An interrupted Set therefore leaves either the old or the new
// snapshot readable, never a mismatch.
type FileKV struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

// NewFileKV creates a file store rooted at dir, creating it if needed.
// Use afero.NewOsFs() for real filesystem operations,
// or afero.NewMemMapFs() for testing.
func NewFileKV(fsys afero.Fs, dir string) (*FileKV, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return &FileKV{fs: fsys, dir: dir}, nil
}

// Dir returns the directory holding the snapshot files.
func (s *FileKV) Dir() string {
	return s.dir
}

// Path returns the snapshot file path for key.
func (s *FileKV) Path(key string) string {
	return filepath.Join(s.dir, fileName(key)+snapshotSuffix)
}

// fileName maps a key onto a safe file name.
func fileName(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *FileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(key)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}

	// Snapshots written before checksums existed load as-is.
	expected, err := afero.ReadFile(s.fs, path+checksumSuffix)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return data, true, nil
		}
		return nil, false, fmt.Errorf("read checksum for %s: %w", path, err)
	}
	if !acceptsChecksum(expected, calculateChecksum(data)) {
		return nil, false, fmt.Errorf("%s: checksum mismatch: %w", path, ErrCorrupt)
	}
	return data, true, nil
}

// acceptsChecksum reports whether sidecar lists sum.
func acceptsChecksum(sidecar []byte, sum string) bool {
	for _, line := range strings.Split(string(sidecar), "\n") {
		if strings.TrimSpace(line) == sum {
			return true
		}
	}
	return false
}

// currentChecksum returns the checksum of the intact snapshot now on disk,
// or "" when there is none or it fails verification.
func (s *FileKV) currentChecksum(path string) string {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return ""
	}
	sum := calculateChecksum(data)
	sidecar, err := afero.ReadFile(s.fs, path+checksumSuffix)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return sum
	case err != nil, !acceptsChecksum(sidecar, sum):
		return ""
	}
	return sum
}

func (s *FileKV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(key)
	checksumPath := path + checksumSuffix
	tempPath := path + tempSuffix
	tempChecksumPath := checksumPath + tempSuffix

	defer func() { _ = s.fs.Remove(tempPath) }()
	defer func() { _ = s.fs.Remove(tempChecksumPath) }()

	if err := afero.WriteFile(s.fs, tempPath, value, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tempPath, err)
	}
	sidecar := calculateChecksum(value)
	if prev := s.currentChecksum(path); prev != "" && prev != sidecar {
		sidecar += "\n" + prev
	}
	if err := afero.WriteFile(s.fs, tempChecksumPath, []byte(sidecar), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tempChecksumPath, err)
	}
	if err := s.fs.Rename(tempChecksumPath, checksumPath); err != nil {
		return fmt.Errorf("rename %s: %w", tempChecksumPath, err)
	}
	if err := s.fs.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename %s: %w", tempPath, err)
	}
	return nil
}

func (s *FileKV) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(key)
	for _, p := range []string{path, path + checksumSuffix} {
		if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}

func (s *FileKV) Close() error { return nil }
