package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yuin/goldmark"

	"github.com/scriptedworld/raptar/internal/config"
	"github.com/scriptedworld/raptar/internal/pipeline"
	"github.com/scriptedworld/raptar/internal/provenance"
	"github.com/scriptedworld/raptar/internal/walk"
)

var listFlags struct {
	format string // "text" (default) or "markdown"
}

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "Preview which paths an archive run would include",
	Long: `Run the same rule-engine and walk pipeline "raptar archive" uses, print the
resulting entry list, and (with -v) the provenance report, without writing
an archive.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	registerIgnoreFlags(listCmd)
	listCmd.Flags().StringVar(&listFlags.format, "format", "text", "report format: text, markdown")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	root, flags := resolveFlags(args)

	verbose := viper.GetBool(config.KeyVerbose)
	reporter := provenance.NewReporter(true) // list always reports provenance when -v was requested below

	result, err := pipeline.Run(root, flags, log.Logger, reporter.Observe)
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}

	for _, s := range result.Skipped {
		log.Warn().Str("path", s.RelPath).Err(s.Err).Msg("path skipped")
	}

	reporter.LoadSummary(result.RuleSet)

	var body bytes.Buffer
	writeEntryList(&body, result.Entries)

	if verbose {
		_ = reporter.Render(&body)
	}

	if listFlags.format == "markdown" {
		return renderMarkdown(os.Stdout, body.String())
	}

	_, err = os.Stdout.Write(body.Bytes())
	return err
}

var (
	dirStyle     = lipgloss.NewStyle().Bold(true)
	symlinkStyle = lipgloss.NewStyle().Italic(true)
)

func writeEntryList(w *bytes.Buffer, entries []walk.Entry) {
	for _, e := range entries {
		kind := "file"
		styled := e.RelPath
		switch e.Kind {
		case walk.KindDirectory:
			kind = "dir"
			styled = dirStyle.Render(e.RelPath)
		case walk.KindSymlink:
			kind = "symlink"
			styled = symlinkStyle.Render(e.RelPath)
		}
		fmt.Fprintf(w, "%-8s %s\n", kind, styled)
	}
	fmt.Fprintf(w, "\n%d entries\n", len(entries))
}

// renderMarkdown wraps body (the plain-text entry list and, with -v, the
// plain-text provenance report) in a fenced code block and renders it to
// HTML with goldmark, for the "list --format markdown" mode.
func renderMarkdown(w *os.File, body string) error {
	md := "```\n" + body + "```\n"
	return goldmark.Convert([]byte(md), w)
}
