package libcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackStore is the binary alternative the cache file format section
// calls out ("exact format may be binary in an alternate implementation"):
// same Store contract, msgpack-encoded instead of JSON, written via a
// temp-file-then-rename for atomicity. Grounded on
// vovakirdan-surge/internal/driver/dcache.go's DiskCache, which persists
// its module payloads the same way.
type MsgpackStore struct {
	root string
}

// NewMsgpackStore returns a MsgpackStore rooted at root, creating it if
// needed.
func NewMsgpackStore(root string) (*MsgpackStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root %s: %w", root, err)
	}
	return &MsgpackStore{root: root}, nil
}

func (s *MsgpackStore) pathFor(key string) string {
	return filepath.Join(s.root, key+".mp")
}

func (s *MsgpackStore) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(s.pathFor(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (s *MsgpackStore) Load(_ context.Context, key string) (*CacheFile, error) {
	f, err := os.Open(s.pathFor(key))
	if err != nil {
		return nil, fmt.Errorf("load cache file %s: %w", key, err)
	}
	defer f.Close()

	file := CacheFile{FullyInferred: true}
	if err := msgpack.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("parse cache file %s: %w", key, err)
	}
	if !file.Valid() {
		return nil, fmt.Errorf("cache file %s: unsupported schema version %d", key, file.Version)
	}
	return &file, nil
}

func (s *MsgpackStore) Save(_ context.Context, key string, file *CacheFile) error {
	target := s.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create cache directory for %s: %w", key, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := msgpack.NewEncoder(tmp).Encode(file); err != nil {
		tmp.Close()
		return fmt.Errorf("encode cache file %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, target)
}

func (s *MsgpackStore) Clear(_ context.Context, key string) error {
	err := os.Remove(s.pathFor(key))
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

var _ Store = (*MsgpackStore)(nil)
