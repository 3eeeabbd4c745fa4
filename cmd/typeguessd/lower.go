package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/typeguess/cmd/typeguessd/rbparser"
)

var lowerCmd = &cobra.Command{
	Use:   "lower <file.rb>",
	Short: "Parse and lower a Ruby source file, printing its node count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		prog, err := rbparser.Parse(context.Background(), src)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		sess, _, err := newSession()
		if err != nil {
			return err
		}
		if err := sess.LowerFile(path, src, prog); err != nil {
			return fmt.Errorf("lower %s: %w", path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "lowered %s: %d top-level nodes\n", path, len(prog.Body))
		return nil
	},
}
