package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/csheth/studyshift/internal/acquire"
	"github.com/csheth/studyshift/internal/export"
	"github.com/csheth/studyshift/internal/styles"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert study material once and print or export the result",
	Long: `Convert reads study material from --file, --text or standard input,
sends it to the configured provider in the chosen style and prints the
Markdown. With --out or --format the result is exported instead.`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringP("style", "s", string(styles.Visual), "learning style: visual, story, flowchart, analogy or practice")
	f.StringP("file", "f", "", "read material from a .txt, .md or .pdf file")
	f.StringP("text", "t", "", "use this text as the material")
	f.String("format", "", "export format: md, txt or pdf")
	f.StringP("out", "o", "", "export path (format inferred from the extension)")
	f.BoolP("verbose", "v", false, "also write logs to stderr")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	var console io.Writer
	if verbose {
		console = cmd.ErrOrStderr()
	}
	a, err := newApp(cmd, console)
	if err != nil {
		return err
	}
	defer a.close()

	styleName, _ := cmd.Flags().GetString("style")
	style, err := styles.Parse(styleName)
	if err != nil {
		return err
	}
	format, out, err := exportTarget(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := loadMaterial(cmd, a.unit); err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	info := color.New(color.FgCyan)
	info.Fprintf(stderr, "%s Converting %d characters as %s with %s…\n",
		style.Glyph, len([]rune(a.unit.Text())), style.Label, generatorLabel(a.gen))

	outcome, dispatched := a.orch.Convert(ctx, a.unit.Text(), style.ID)
	if !dispatched {
		return errors.New("nothing to convert: the input is empty")
	}
	if f := outcome.Failure; f != nil {
		return fmt.Errorf("%s (%s)", f.Message, f.Detail)
	}

	if format == "" {
		fmt.Fprintln(cmd.OutOrStdout(), outcome.Markdown)
		color.New(color.FgGreen).Fprintf(stderr, "Done in %s.\n", outcome.Duration.Round(100*time.Millisecond))
		return nil
	}

	exporter := *a.exporter
	doc := export.Document{Markdown: outcome.Markdown, Style: outcome.Style}
	if out != "" {
		exporter.Dir = filepath.Dir(out)
		doc.BaseName = filepath.Base(out)
	}
	path, err := exporter.Export(ctx, doc, format)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(stderr, "Saved %s in %s.\n", path, outcome.Duration.Round(100*time.Millisecond))
	return nil
}

// exportTarget resolves --format and --out. An empty format means print to
// stdout.
func exportTarget(cmd *cobra.Command) (export.Format, string, error) {
	rawFormat, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	switch {
	case rawFormat != "":
		format, err := export.ParseFormat(rawFormat)
		return format, out, err
	case out != "":
		ext := filepath.Ext(out)
		if ext == "" {
			return export.Markdown, out, nil
		}
		format, err := export.ParseFormat(ext)
		return format, out, err
	default:
		return "", "", nil
	}
}

func loadMaterial(cmd *cobra.Command, unit *acquire.Unit) error {
	path, _ := cmd.Flags().GetString("file")
	text, _ := cmd.Flags().GetString("text")
	switch {
	case path != "" && text != "":
		return errors.New("use either --file or --text, not both")
	case path != "":
		if err := unit.ExtractFile(cmd.Context(), acquire.FileFromPath(path)); err != nil {
			return errors.New(acquire.Message(err))
		}
		return nil
	case text != "":
		unit.SetText(text)
		return nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		if st, err := f.Stat(); err == nil && st.Mode()&os.ModeCharDevice != 0 {
			return errors.New("no input: pass --file, --text or pipe material on stdin")
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	unit.SetText(strings.TrimRight(string(data), "\n"))
	return nil
}
