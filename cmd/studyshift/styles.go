package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/csheth/studyshift/internal/styles"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available learning styles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		id := color.New(color.FgCyan, color.Bold)
		dim := color.New(color.FgHiBlack)
		for _, s := range styles.All() {
			fmt.Fprintf(out, "%s ", s.Glyph)
			id.Fprintf(out, "%-10s", s.ID)
			fmt.Fprintf(out, " %s\n", s.Label)
			dim.Fprintf(out, "             %s\n", s.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}
