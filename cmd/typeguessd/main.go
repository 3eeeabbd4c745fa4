// Command typeguessd is the small driver binary that exercises the engine
// end to end: lower a Ruby source file, answer a hover query against it,
// build the library signature cache, and print a coverage report.
//
// Grounded on vovakirdan-surge/cmd/surge's cobra root-command shape
// (a persistent --config flag, one subcommand file per verb) --
// the teacher itself ships only an ad hoc example `main` under
// inspector/coder/example, so cobra is an enrichment pulled from the wider
// retrieval pack for a more complete driver binary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/typeguess/config"
	"github.com/viant/typeguess/engine"
	"github.com/viant/typeguess/libcache"
	"github.com/viant/typeguess/signature"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "typeguessd",
	Short: "Guessed-type hover and coverage engine for a dynamically-typed OOP language",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a typeguess.yaml config file")

	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(hoverCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(coverageCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newSession loads configuration from configPath and builds a Session
// seeded with the stdlib declared signatures, optionally wired to the
// on-disk library cache per spec §6.3.
func newSession() (*engine.Session, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("load config: %w", err)
	}

	var store libcache.Store
	if cfg.EnableLibraryCache {
		s, err := libcache.NewFileStore(libcache.DefaultCacheRoot())
		if err != nil {
			return nil, config.Config{}, fmt.Errorf("open library cache: %w", err)
		}
		store = s
	}

	sess := engine.New(signature.SeedStdlib, store, cfg.SessionConfig())
	return sess, cfg, nil
}
