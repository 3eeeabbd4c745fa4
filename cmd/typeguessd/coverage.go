package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/viant/typeguess/cmd/typeguessd/rbparser"
	"github.com/viant/typeguess/coverage"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage <file.rb>...",
	Short: "Lower one or more files and print the guessed-type coverage report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := newSession()
		if err != nil {
			return err
		}

		ctx := context.Background()
		for _, path := range args {
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			prog, err := rbparser.Parse(ctx, src)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			if err := sess.LowerFile(path, src, prog); err != nil {
				return fmt.Errorf("lower %s: %w", path, err)
			}
		}

		report := sess.Coverage(ctx)
		renderCoverage(cmd.OutOrStdout(), report)
		return nil
	},
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// styleForFraction colors a typedness fraction the way a terminal-facing
// report flags "needs attention" regions -- grounded on
// internal/ui/progress.go's styleStatus traffic-light coloring idiom.
func styleForFraction(f float64) lipgloss.Style {
	switch {
	case f >= 0.8:
		return goodStyle
	case f >= 0.4:
		return warnStyle
	default:
		return badStyle
	}
}

func renderCoverage(out io.Writer, report coverage.Report) {
	fmt.Fprintln(out, headerStyle.Render("Guessed-type coverage"))
	for _, kind := range report.Kinds() {
		kc := report.ByKind[kind]
		frac := kc.Fraction()
		line := fmt.Sprintf("  %-16s %s (%d/%d)",
			kindStyle.Render(kind),
			styleForFraction(frac).Render(fmt.Sprintf("%5.1f%%", frac*100)),
			kc.Typed, kc.Total)
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-16s %s (%d defs)\n",
		kindStyle.Render("Signatures"),
		styleForFraction(report.SignatureScore).Render(fmt.Sprintf("%5.1f%%", report.SignatureScore*100)),
		report.DefCount)
}
