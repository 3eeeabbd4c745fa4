package libcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// DepHash computes the short dependency-closure hash: the first 6 hex
// characters of sha256("v1:" + sorted "name:version," pairs).
func DepHash(deps map[string]string) string {
	pairs := make([]string, 0, len(deps))
	for name, version := range deps {
		pairs = append(pairs, name+":"+version)
	}
	sort.Strings(pairs)
	joined := "v1:" + strings.Join(pairs, ",")
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])[:6]
}

// Key is the full cache key for one library build: name + version + the
// dependency-closure hash.
func Key(name, version string, deps map[string]string) string {
	return fmt.Sprintf("%s-%s-%s", name, version, DepHash(deps))
}

// FileName is the cache file's name for key, per the §6.1 file-naming rule
// ({name}-{version}-{dep_hash}.json).
func FileName(name, version string, deps map[string]string) string {
	return Key(name, version, deps) + ".json"
}
