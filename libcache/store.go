package libcache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/viant/afs"
)

// Store is the persistent-cache collaborator: Exists/Load/Save/Clear keyed
// by the string Key computes. Concrete implementations may back onto local
// disk, an object store, or (MsgpackStore) a binary encoding -- the
// orchestrator never cares which.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Load(ctx context.Context, key string) (*CacheFile, error)
	Save(ctx context.Context, key string, file *CacheFile) error
	Clear(ctx context.Context, key string) error
}

// DefaultCacheRoot resolves the user cache directory per §6.3: overridable
// by TYPEGUESS_CACHE_DIR, otherwise os.UserCacheDir()/typeguess/library-signatures.
func DefaultCacheRoot() string {
	if v := os.Getenv("TYPEGUESS_CACHE_DIR"); v != "" {
		return v
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "typeguess", "library-signatures")
}

// FileStore persists one JSON document per library under root, via afs so
// the same code path works against local disk or any afs-registered
// remote scheme without the orchestrator changing. Kept from the teacher's
// own dependency -- linager already uses afs for all file I/O
// (inspector/info/document.go's fs.DownloadWithURL).
type FileStore struct {
	fs   afs.Service
	root string
}

// NewFileStore returns a FileStore rooted at root, creating it if it
// doesn't exist yet (the core "creates intermediate directories as
// needed" per §6.3).
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root %s: %w", root, err)
	}
	return &FileStore{fs: afs.New(), root: root}, nil
}

func (s *FileStore) pathFor(key string) string {
	return path.Join(s.root, key+".json")
}

func (s *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.fs.Exists(ctx, s.pathFor(key))
}

func (s *FileStore) Load(ctx context.Context, key string) (*CacheFile, error) {
	data, err := s.fs.DownloadWithURL(ctx, s.pathFor(key))
	if err != nil {
		return nil, fmt.Errorf("load cache file %s: %w", key, err)
	}
	file := CacheFile{FullyInferred: true}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse cache file %s: %w", key, err)
	}
	if !file.Valid() {
		return nil, fmt.Errorf("cache file %s: unsupported schema version %d", key, file.Version)
	}
	return &file, nil
}

func (s *FileStore) Save(ctx context.Context, key string, file *CacheFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache file %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.pathFor(key)), 0o755); err != nil {
		return fmt.Errorf("create cache directory for %s: %w", key, err)
	}
	return s.fs.Upload(ctx, s.pathFor(key), 0o644, bytes.NewReader(data))
}

func (s *FileStore) Clear(ctx context.Context, key string) error {
	return s.fs.Delete(ctx, s.pathFor(key))
}

var _ Store = (*FileStore)(nil)
