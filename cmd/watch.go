package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scriptedworld/raptar/internal/archive"
	"github.com/scriptedworld/raptar/internal/cliargs"
	"github.com/scriptedworld/raptar/internal/config"
	"github.com/scriptedworld/raptar/internal/pipeline"
	"github.com/scriptedworld/raptar/internal/provenance"
)

var watchFlags struct {
	debounce time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-archive path on every filesystem change under it",
	Long: `Runs the same rule-engine and walk pipeline as "raptar archive" once up
front, then re-runs it every time a change is observed under path, debounced
so a burst of edits produces one archive instead of many.

This is a convenience mode layered on top of the core archiver: it decides
when to re-run the pipeline, not what the pipeline includes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	registerIgnoreFlags(watchCmd)
	watchCmd.Flags().StringVarP(&archiveFlags.output, "output", "o", "", "output archive path (required)")
	watchCmd.Flags().StringVarP(&archiveFlags.format, "format", "f", "", "archive format: tar, zip (default from config)")
	watchCmd.Flags().StringVarP(&archiveFlags.compression, "compression", "c", "", "tar compression: none, gzip, bzip2, zstd (default from config)")
	watchCmd.Flags().BoolVar(&archiveFlags.reproducible, "reproducible", false, "zero timestamps and mask modes for byte-identical output")
	watchCmd.Flags().BoolVar(&archiveFlags.preserveOwner, "preserve-owner", false, "keep real uid/gid in reproducible mode instead of zeroing them")
	watchCmd.Flags().BoolVar(&archiveFlags.dereference, "dereference", false, "follow symlinks and archive their targets")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 500*time.Millisecond, "quiet period after a change before re-archiving")

	_ = watchCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, flags := resolveFlags(args)

	if err := archiveOnce(root, flags); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting filesystem watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addTreeToWatcher(watcher, root); err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}

	var timer *time.Timer
	rearchive := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change observed")
			if timer == nil {
				timer = time.AfterFunc(watchFlags.debounce, func() { rearchive <- struct{}{} })
			} else {
				timer.Reset(watchFlags.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")

		case <-rearchive:
			if err := archiveOnce(root, flags); err != nil {
				log.Error().Err(err).Msg("re-archive failed")
			}
		}
	}
}

// archiveOnce runs the same pipeline "raptar archive" does, once, reusing
// the resolved format/compression/reproducible flags from the archive
// command's flag set (watch shares its output/format/compression flags).
func archiveOnce(root string, flags cliargs.Flags) error {
	result, err := pipeline.Run(root, flags, log.Logger, provenance.NewReporter(false).Observe)
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

	if err := archive.Run(archiveFlags.output, result.Entries, opts, log.Logger); err != nil {
		return err
	}

	log.Info().Str("path", archiveFlags.output).Int("entries", len(result.Entries)).Msg("re-archived")
	return nil
}

// addTreeToWatcher adds root and every directory under it to watcher.
// fsnotify only watches the directories it's told about, not recursively,
// so the walk itself supplies that list. This deliberately does not honor
// the ignore rules: a change inside an excluded directory still needs to
// trigger a re-run if a higher-priority negation later re-includes it, and
// fsnotify has no notion of the rule engine's precedence.
func addTreeToWatcher(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
