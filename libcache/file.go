package libcache

// FileVersion is the current CacheFile schema version; Load rejects any
// other value and forces a rebuild.
const FileVersion = 1

// CacheFile is one library's persisted signature set, schema per the cache
// file format: a version tag, two fully-inferred/lazy-only flags, and the
// instance/class method tables.
type CacheFile struct {
	Version          int                               `json:"version"`
	FullyInferred    bool                              `json:"fully_inferred"`
	LazyOnly         bool                              `json:"lazy_only"`
	InstanceMethods  map[string]map[string]SerializedSig `json:"instance_methods"`
	ClassMethods     map[string]map[string]SerializedSig `json:"class_methods"`
}

// NewCacheFile returns an empty, current-version CacheFile.
func NewCacheFile() *CacheFile {
	return &CacheFile{
		Version:         FileVersion,
		FullyInferred:   true,
		InstanceMethods: make(map[string]map[string]SerializedSig),
		ClassMethods:    make(map[string]map[string]SerializedSig),
	}
}

// AddMethod records one method's signature under class, in the instance or
// class-method table selected by singleton.
func (f *CacheFile) AddMethod(class, method string, singleton bool, sig SerializedSig) {
	table := f.InstanceMethods
	if singleton {
		table = f.ClassMethods
	}
	bucket, ok := table[class]
	if !ok {
		bucket = make(map[string]SerializedSig)
		table[class] = bucket
	}
	bucket[method] = sig
}

// Valid reports whether f parses as a recognized, current-version file; a
// missing fully_inferred field already defaults to true in the stores'
// Load, so only the version tag is checked here -- a version mismatch is the one
// condition the spec calls out by name for a forced rebuild.
func (f *CacheFile) Valid() bool {
	return f != nil && f.Version == FileVersion
}
