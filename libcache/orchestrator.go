package libcache

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/viant/typeguess/internal/xlog"
	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/registry"
	"github.com/viant/typeguess/resolver"
	"github.com/viant/typeguess/signature"
)

// methodCheckInterval is how often, in extracted methods, a library build
// checks its wall-clock budget -- checking after every method would make
// time.Since a measurable fraction of the work for a library with many
// tiny methods.
const methodCheckInterval = 20

// Orchestrator partitions indexed files into library/project sets, builds
// or loads one signature cache entry per library in dependency order, and
// registers the result so calls against a library class resolve like any
// declared-signature overload.
type Orchestrator struct {
	store    Store
	index    *registry.LocationIndex
	provider *signature.StaticProvider
	resolver *resolver.Resolver
	log      *xlog.Logger
}

// New returns an Orchestrator. provider is both the source of declared
// stdlib signatures the resolver already consults and the destination a
// built or loaded library's signatures are registered into -- a cached
// library has no AST body, so it belongs in the same "already known,
// don't re-infer" table as a stdlib signature rather than the method
// registry (which holds only user-defined Defs with real bodies).
func New(store Store, index *registry.LocationIndex, provider *signature.StaticProvider, res *resolver.Resolver, log *xlog.Logger) *Orchestrator {
	if log == nil {
		log = xlog.Default()
	}
	return &Orchestrator{store: store, index: index, provider: provider, resolver: res, log: log}
}

// BuildAll visits libs in topological order (dependencies first) and, for
// each, loads its cache entry on a hit or builds and persists a fresh one
// bounded by perLibTimeout (zero means unbounded). A per-library error is
// logged and that library is skipped -- one failing library's extraction
// never blocks the others.
func (o *Orchestrator) BuildAll(ctx context.Context, libs []Library, perLibTimeout time.Duration) error {
	for _, lib := range topoOrder(libs) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.buildOrLoad(ctx, lib, perLibTimeout); err != nil {
			o.log.Warn("library signature build failed", xlog.F("library", lib.Name), xlog.F("version", lib.Version), xlog.F("error", err))
		}
	}
	return nil
}

func (o *Orchestrator) buildOrLoad(ctx context.Context, lib Library, perLibTimeout time.Duration) error {
	key := Key(lib.Name, lib.Version, lib.Deps)

	if exists, err := o.store.Exists(ctx, key); err == nil && exists {
		file, err := o.store.Load(ctx, key)
		if err == nil {
			o.loadInto(lib, file)
			return nil
		}
		o.log.Warn("cache file unreadable, rebuilding", xlog.F("library", lib.Name), xlog.F("key", key), xlog.F("error", err))
	}

	file, abandoned, err := o.build(ctx, lib, perLibTimeout)
	if err != nil {
		return err
	}
	if abandoned {
		// Per-library timeout: abandon the build, persist nothing. The
		// library simply has no cache entry, so hover falls back to
		// untyped signatures for it until a future build completes in
		// budget.
		o.log.Warn("library signature build abandoned on timeout", xlog.F("library", lib.Name))
		return nil
	}
	if err := o.store.Save(ctx, key, file); err != nil {
		return fmt.Errorf("save cache file for %s: %w", lib.Name, err)
	}
	o.loadInto(lib, file)
	return nil
}

// build extracts one signature per Def found in lib's files, running
// extraction concurrently with a bounded worker count (grounded on
// vovakirdan-surge/internal/driver/parallel.go's errgroup.WithContext +
// SetLimit idiom). A per-method error is swallowed -- the method is
// skipped, never the whole build -- and an elapsed timeout abandons the
// entire build: the caller persists nothing, per the "per-library timeout
// abandons the library's build; do not persist partial results" rule.
func (o *Orchestrator) build(ctx context.Context, lib Library, perLibTimeout time.Duration) (*CacheFile, bool, error) {
	defs := o.defsFor(lib)
	file := NewCacheFile()
	if len(defs) == 0 {
		return file, false, nil
	}

	start := time.Now()
	var (
		mu        sync.Mutex
		processed int
		timedOut  bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, def := range defs {
		def := def
		g.Go(func() error {
			mu.Lock()
			if timedOut {
				mu.Unlock()
				return nil
			}
			processed++
			n := processed
			mu.Unlock()

			if n%methodCheckInterval == 0 && perLibTimeout > 0 && time.Since(start) > perLibTimeout {
				mu.Lock()
				timedOut = true
				mu.Unlock()
				return nil
			}

			select {
			case <-gctx.Done():
				return nil
			default:
			}

			res := o.resolver.Resolve(gctx, lib.Name, def)
			sig := res.Type.AsMethodSignature()
			if sig == nil {
				return nil
			}

			mu.Lock()
			file.AddMethod(def.Class, def.Name, def.Singleton, *EncodeSig(sig))
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return file, timedOut, nil
}

func (o *Orchestrator) defsFor(lib Library) []*ir.Def {
	var defs []*ir.Def
	for _, path := range o.index.Files() {
		if !lib.Match(path) {
			continue
		}
		f := o.index.File(path)
		if f == nil {
			continue
		}
		for _, n := range f.Nodes() {
			if def, ok := n.(*ir.Def); ok {
				defs = append(defs, def)
			}
		}
	}
	return defs
}

// loadInto registers every method in file as a single-overload declared
// signature, the same shape a stdlib seed entry takes.
func (o *Orchestrator) loadInto(lib Library, file *CacheFile) {
	registerTable := func(table map[string]map[string]SerializedSig, singleton bool) {
		for class, methods := range table {
			for method, sig := range methods {
				decoded := DecodeSig(&sig)
				o.provider.Define(class, method, singleton, signature.Overload{
					Params: decoded.Params,
					Return: decoded.Return,
				})
			}
		}
	}
	registerTable(file.InstanceMethods, false)
	registerTable(file.ClassMethods, true)
}
