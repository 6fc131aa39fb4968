package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/scriptedworld/raptar/internal/walk"
)

type tarEntryWriter struct {
	tw      *tar.Writer
	closers []io.Closer
}

func newTarWriter(dest io.Writer, c Compression) (entryWriter, error) {
	w := &tarEntryWriter{}

	var stream io.Writer = dest
	switch c {
	case CompressionNone, "":
		// no compression layer
	case CompressionGzip:
		gw := gzip.NewWriter(dest)
		w.closers = append(w.closers, gw)
		stream = gw
	case CompressionBzip2:
		bw, err := newBzip2Writer(dest)
		if err != nil {
			return nil, fmt.Errorf("bzip2 writer: %w", err)
		}
		w.closers = append(w.closers, bw)
		stream = bw
	case CompressionZstd:
		zw, err := zstd.NewWriter(dest)
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		w.closers = append(w.closers, zw)
		stream = zw
	default:
		return nil, fmt.Errorf("%w: tar+%s", ErrUnsupportedCompression, c)
	}

	w.tw = tar.NewWriter(stream)
	w.closers = append(w.closers, w.tw)
	return w, nil
}

func (w *tarEntryWriter) WriteEntry(e walk.Entry, content io.Reader) error {
	hdr := &tar.Header{
		Name:    tarName(e),
		ModTime: e.ModTime,
		Mode:    int64(e.Mode.Perm()),
		Uid:     e.Uid,
		Gid:     e.Gid,
	}

	switch e.Kind {
	case walk.KindDirectory:
		hdr.Typeflag = tar.TypeDir
	case walk.KindSymlink:
		hdr.Typeflag = tar.TypeSymlink
		hdr.Linkname = e.LinkTarget
	default:
		hdr.Typeflag = tar.TypeReg
		hdr.Size = e.Size
	}

	if err := w.tw.WriteHeader(hdr); err != nil {
		return err
	}
	if content == nil {
		return nil
	}
	_, err := io.Copy(w.tw, content)
	return err
}

func (w *tarEntryWriter) Close() error {
	// Closers were appended innermost-writer-first, but must close in the
	// reverse order: tar trailer before the compression footer.
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i].Close(); err != nil {
			return err
		}
	}
	return nil
}

func tarName(e walk.Entry) string {
	if e.Kind == walk.KindDirectory {
		return e.RelPath + "/"
	}
	return e.RelPath
}
