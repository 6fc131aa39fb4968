package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scriptedworld/raptar/internal/archive"
	"github.com/scriptedworld/raptar/internal/cliargs"
	"github.com/scriptedworld/raptar/internal/config"
	"github.com/scriptedworld/raptar/internal/pipeline"
	"github.com/scriptedworld/raptar/internal/provenance"
	"github.com/scriptedworld/raptar/internal/rules"
)

var archiveFlags struct {
	output        string
	format        string
	compression   string
	reproducible  bool
	preserveOwner bool
	dereference   bool
	progress      bool

	withEcosystem          []string
	withIgnorefile         []string
	withoutIgnorefileNames []string
	withoutIgnorefiles     bool
	withoutExcludeAlways   bool
	withoutIncludeAlways   bool
	withExclude            []string
	withInclude            []string
}

var archiveCmd = &cobra.Command{
	Use:   "archive [path]",
	Short: "Package a directory tree into a tar or zip archive",
	Long: `Walk path (default ".") honoring the layered ignore-rule model and write
the resulting entries to a tar or zip archive.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArchive,
}

func init() {
	registerIgnoreFlags(archiveCmd)

	archiveCmd.Flags().StringVarP(&archiveFlags.output, "output", "o", "", "output archive path (required)")
	archiveCmd.Flags().StringVarP(&archiveFlags.format, "format", "f", "", "archive format: tar, zip (default from config)")
	archiveCmd.Flags().StringVarP(&archiveFlags.compression, "compression", "c", "", "tar compression: none, gzip, bzip2, zstd (default from config)")
	archiveCmd.Flags().BoolVar(&archiveFlags.reproducible, "reproducible", false, "zero timestamps and mask modes for byte-identical output")
	archiveCmd.Flags().BoolVar(&archiveFlags.preserveOwner, "preserve-owner", false, "keep real uid/gid in reproducible mode instead of zeroing them")
	archiveCmd.Flags().BoolVar(&archiveFlags.dereference, "dereference", false, "follow symlinks and archive their targets")
	archiveCmd.Flags().BoolVar(&archiveFlags.progress, "progress", false, "show a progress bar while walking")

	_ = archiveCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(archiveCmd)
}

// registerIgnoreFlags attaches the rule-source flags shared by "archive" and
// "list" (the CLI-originated rule sources).
func registerIgnoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&archiveFlags.withEcosystem, "with-ecosystem", nil, "load an embedded ecosystem template by name, repeatable")
	cmd.Flags().StringArrayVar(&archiveFlags.withIgnorefile, "with-ignorefile", nil, "load an additional ignore file, repeatable")
	cmd.Flags().StringArrayVar(&archiveFlags.withoutIgnorefileNames, "without-ignorefile", nil, "stop honoring ignore files with this basename, repeatable")
	cmd.Flags().BoolVar(&archiveFlags.withoutIgnorefiles, "without-ignorefiles", false, "stop honoring all on-disk ignore files")
	cmd.Flags().BoolVar(&archiveFlags.withoutExcludeAlways, "without-exclude-always", false, "ignore config's ignore.always-exclude list")
	cmd.Flags().BoolVar(&archiveFlags.withoutIncludeAlways, "without-include-always", false, "ignore config's ignore.always-include list")
	cmd.Flags().StringArrayVar(&archiveFlags.withExclude, "with-exclude", nil, "add a highest-precedence exclude pattern, repeatable")
	cmd.Flags().StringArrayVar(&archiveFlags.withInclude, "with-include", nil, "add a highest-precedence include pattern, repeatable")
}

// resolveFlags reads the archive root and translates bound flags/config
// into a cliargs.Flags record.
func resolveFlags(args []string) (string, cliargs.Flags) {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	dereference := archiveFlags.dereference || viper.GetBool(config.KeyDefaultsDereference)

	return root, cliargs.Flags{
		Root:                   root,
		WithEcosystem:          archiveFlags.withEcosystem,
		WithIgnorefile:         archiveFlags.withIgnorefile,
		WithoutIgnorefileNames: append(append([]string(nil), archiveFlags.withoutIgnorefileNames...), viper.GetStringSlice(config.KeyIgnoreWithoutNames)...),
		WithoutIgnorefiles:     archiveFlags.withoutIgnorefiles,
		WithoutExcludeAlways:   archiveFlags.withoutExcludeAlways,
		WithoutIncludeAlways:   archiveFlags.withoutIncludeAlways,
		WithExclude:            archiveFlags.withExclude,
		WithInclude:            archiveFlags.withInclude,
		ConfigUseFiles:         viper.GetStringSlice(config.KeyIgnoreUse),
		ConfigAlwaysExclude:    viper.GetStringSlice(config.KeyIgnoreAlwaysExclude),
		ConfigAlwaysInclude:    viper.GetStringSlice(config.KeyIgnoreAlwaysInclude),
		Dereference:            dereference,
	}
}

// progressObserver wraps base in a walk.Options.Observer that also ticks a
// pterm progress bar, one tick per evaluated path. The total is unknown in
// advance, so the bar runs in indeterminate (spinner-like) counting mode.
func progressObserver(base func(string, bool, rules.Verdict), bar *pterm.ProgressbarPrinter) func(string, bool, rules.Verdict) {
	return func(relPath string, isDir bool, verdict rules.Verdict) {
		base(relPath, isDir, verdict)
		bar.Increment()
	}
}

func runArchive(cmd *cobra.Command, args []string) error {
	root, flags := resolveFlags(args)

	verbose := viper.GetBool(config.KeyVerbose)
	reporter := provenance.NewReporter(verbose)

	observer := reporter.Observe
	var bar *pterm.ProgressbarPrinter
	if archiveFlags.progress {
		started, err := pterm.DefaultProgressbar.WithTitle("walking").WithTotal(0).Start()
		if err == nil {
			bar = started
			observer = progressObserver(observer, bar)
		}
	}

	result, err := pipeline.Run(root, flags, log.Logger, observer)
	if bar != nil {
		_, _ = bar.Stop()
	}
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}

	for _, s := range result.Skipped {
		log.Warn().Str("path", s.RelPath).Err(s.Err).Msg("path skipped")
	}

	format := archiveFlags.format
	if format == "" {
		format = viper.GetString(config.KeyDefaultsFormat)
	}
	compression := archiveFlags.compression
	if compression == "" && format != string(archive.FormatZip) {
		compression = viper.GetString(config.KeyDefaultsCompression)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving archive root: %w", err)
	}

	opts := archive.Options{
		Format:        archive.Format(format),
		Compression:   archive.Compression(compression),
		Reproducible:  archiveFlags.reproducible || viper.GetBool(config.KeyDefaultsReproducible),
		PreserveOwner: archiveFlags.preserveOwner,
		Root:          absRoot,
	}

	reporter.LoadSummary(result.RuleSet)
	if verbose {
		_ = reporter.Render(os.Stderr)
	}

	if err := archive.Run(archiveFlags.output, result.Entries, opts, log.Logger); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d entries)\n", archiveFlags.output, len(result.Entries))
	return nil
}
