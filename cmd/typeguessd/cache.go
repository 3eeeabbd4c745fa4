package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viant/typeguess/cmd/typeguessd/projectroot"
	"github.com/viant/typeguess/cmd/typeguessd/rbparser"
	"github.com/viant/typeguess/engine"
	"github.com/viant/typeguess/libcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk library signature cache",
}

var (
	cacheBuildRoot string
	cacheBuildGems []string
)

var cacheBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Lower every .rb file under --root and build a signature cache entry per --gem",
	RunE: func(cmd *cobra.Command, args []string) error {
		libs, err := parseGemFlags(cacheBuildGems)
		if err != nil {
			return err
		}
		if len(libs) == 0 {
			if lib, ok := autoDetectLibrary(cacheBuildRoot); ok {
				libs = append(libs, lib)
				fmt.Fprintf(cmd.OutOrStdout(), "no --gem given, detected library %q from project root\n", lib.Name)
			}
		}

		sess, cfg, err := newSession()
		if err != nil {
			return err
		}
		if !cfg.EnableLibraryCache {
			return fmt.Errorf("library cache is disabled in config (enable_library_cache: false)")
		}

		ctx := context.Background()
		if err := lowerTree(ctx, sess, cacheBuildRoot); err != nil {
			return err
		}

		if err := sess.BuildLibraryCache(ctx, libs, cfg.PerLibTimeoutS); err != nil {
			return fmt.Errorf("build library cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "built signature cache for %d librar(y/ies)\n", len(libs))
		return nil
	},
}

func init() {
	cacheBuildCmd.Flags().StringVar(&cacheBuildRoot, "root", ".", "directory to walk for .rb source files")
	cacheBuildCmd.Flags().StringSliceVar(&cacheBuildGems, "gem", nil, "name@version=path-substring, repeatable")
	cacheCmd.AddCommand(cacheBuildCmd)
}

// parseGemFlags turns "name@version=substring" flags into Library values
// whose Match predicate recognizes a file by a path substring -- the CLI
// equivalent of the installed-gem-directory matcher a real RubyGems
// integration would build from its own install layout.
func parseGemFlags(flags []string) ([]libcache.Library, error) {
	libs := make([]libcache.Library, 0, len(flags))
	for _, f := range flags {
		nameVersion, substr, ok := strings.Cut(f, "=")
		if !ok || substr == "" {
			return nil, fmt.Errorf("malformed --gem %q, want name@version=path-substring", f)
		}
		name, version, ok := strings.Cut(nameVersion, "@")
		if !ok {
			return nil, fmt.Errorf("malformed --gem %q, want name@version=path-substring", f)
		}
		libs = append(libs, libcache.Library{
			Name:    name,
			Version: version,
			Match:   func(path string) bool { return strings.Contains(path, substr) },
		})
	}
	return libs, nil
}

// autoDetectLibrary falls back to a project-root-derived library when the
// caller supplied no --gem flags at all: it names the whole tree under root
// as a single library, matching every file under it. A build driven over a
// single gem checkout (rather than a multi-gem vendor directory) typically
// has no need to spell out name@version=substring by hand.
func autoDetectLibrary(root string) (libcache.Library, bool) {
	_, name, ok := projectroot.Find(root)
	if !ok {
		return libcache.Library{}, false
	}
	return libcache.Library{
		Name:    name,
		Version: "0.0.0",
		Match:   func(string) bool { return true },
	}, true
}

// lowerTree parses and lowers every .rb file found under root so the
// orchestrator has Defs to extract signatures from.
func lowerTree(ctx context.Context, sess *engine.Session, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".rb" {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		prog, err := rbparser.Parse(ctx, src)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return sess.LowerFile(path, src, prog)
	})
}
