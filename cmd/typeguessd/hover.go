package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/typeguess/cmd/typeguessd/rbparser"
)

var (
	hoverLine int
	hoverCol  int
)

var hoverCmd = &cobra.Command{
	Use:   "hover <file.rb>",
	Short: "Lower a file and print the guessed type/signature at a line:col position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		ctx := context.Background()
		prog, err := rbparser.Parse(ctx, src)
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

		result, err := sess.Hover(ctx, path, hoverLine, hoverCol)
		if err != nil {
			return err
		}
		if !result.Found {
			fmt.Fprintf(cmd.OutOrStdout(), "no hover information at %s:%d:%d\n", path, hoverLine, hoverCol)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Markdown)
		return nil
	},
}

func init() {
	hoverCmd.Flags().IntVar(&hoverLine, "line", 1, "1-based line")
	hoverCmd.Flags().IntVar(&hoverCol, "col", 1, "1-based column")
}
