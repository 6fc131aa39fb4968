package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/scriptedworld/raptar/internal/walk"
)

// ErrInterrupted is returned by Run when a SIGINT/SIGTERM aborted the write
// mid-archive.
var ErrInterrupted = errors.New("archive write interrupted")

// Run consumes entries, writes outPath according to opts, and owns the
// output file's lifecycle: a partially written archive is removed if the
// write fails or is interrupted, so neither a failed nor an aborted run
// ever leaves a corrupt file behind.
func Run(outPath string, entries []walk.Entry, opts Options, log zerolog.Logger) (err error) {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}

	defer func() {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			if removeErr := os.Remove(outPath); removeErr != nil && !os.IsNotExist(removeErr) {
				log.Warn().Str("path", outPath).Err(removeErr).Msg("failed to remove partial archive after error")
			}
		}
	}()

	log.Info().
		Str("path", outPath).
		Str("format", string(opts.Format)).
		Str("compression", string(opts.Compression)).
		Bool("reproducible", opts.Reproducible).
		Int("entries", len(entries)).
		Msg("writing archive")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- Write(ctx, f, entries, opts)
	}()

	select {
	case writeErr := <-errCh:
		if writeErr != nil {
			return fmt.Errorf("writing archive: %w", writeErr)
		}
	case <-ctx.Done():
		log.Warn().Str("path", outPath).Msg("interrupted, removing partial archive")
		<-errCh // Write observes ctx.Err() and returns before f is closed below
		err = ErrInterrupted
		return err
	}

	return nil
}
