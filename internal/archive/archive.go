// Package archive writes the walk.Entry stream produced by internal/walk
// into a tar or zip container, with optional compression and a
// reproducible-output mode.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/scriptedworld/raptar/internal/walk"
)

// Format selects the container format.
type Format string

const (
	FormatTar Format = "tar"
	FormatZip Format = "zip"
)

// Compression selects the tar-stream compression codec. Zip always uses its
// own per-entry deflate, and Write rejects a zip archive whose Compression
// is anything other than empty or "none".
type Compression string

const (
	CompressionNone  Compression = "none"
	CompressionGzip  Compression = "gzip"
	CompressionBzip2 Compression = "bzip2"
	CompressionZstd  Compression = "zstd"
)

// ErrUnsupportedCompression is returned for a (format, compression) pair
// the writer does not know how to produce ("invalid combination").
var ErrUnsupportedCompression = fmt.Errorf("unsupported compression for format")

// Options configures one archive write.
type Options struct {
	Format        Format
	Compression   Compression
	Reproducible  bool
	PreserveOwner bool   // keep real uid/gid in reproducible mode instead of zeroing them
	Root          string // absolute path entries are read relative to
}

// entryWriter is implemented by each container-format backend.
type entryWriter interface {
	WriteEntry(e walk.Entry, content io.Reader) error
	Close() error
}

// Write streams entries into dest according to opts. Entries are consumed
// in the order given; callers are expected to have already produced them
// in the deterministic order internal/walk guarantees. ctx is checked
// between entries so a canceled context (e.g. on SIGINT) aborts the write
// promptly instead of running to completion.
func Write(ctx context.Context, dest io.Writer, entries []walk.Entry, opts Options) error {
	ew, err := newEntryWriter(dest, opts)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if opts.Reproducible {
			e = Normalize(e, opts.PreserveOwner)
		}

		content, err := openContent(opts.Root, e)
		if err != nil {
			return fmt.Errorf("opening %s: %w", e.RelPath, err)
		}

		writeErr := ew.WriteEntry(e, content)
		if content != nil {
			_ = content.(io.Closer).Close()
		}
		if writeErr != nil {
			return fmt.Errorf("writing %s: %w", e.RelPath, writeErr)
		}
	}

	return ew.Close()
}

func newEntryWriter(dest io.Writer, opts Options) (entryWriter, error) {
	switch opts.Format {
	case FormatZip:
		if opts.Compression != "" && opts.Compression != CompressionNone {
			return nil, fmt.Errorf("%w: zip+%s", ErrUnsupportedCompression, opts.Compression)
		}
		return newZipWriter(dest), nil
	case FormatTar, "":
		return newTarWriter(dest, opts.Compression)
	default:
		return nil, fmt.Errorf("unknown archive format: %q", opts.Format)
	}
}

// openContent returns a ReadCloser for a regular file entry, or nil for
// directories and symlinks (which carry no body in the archive).
func openContent(root string, e walk.Entry) (io.Reader, error) {
	if e.Kind != walk.KindRegular {
		return nil, nil
	}
	f, err := os.Open(filepath.Join(root, e.RelPath))
	if err != nil {
		return nil, err
	}
	return f, nil
}
