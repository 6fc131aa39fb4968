package archive

import (
	"archive/zip"
	"io"

	"github.com/scriptedworld/raptar/internal/walk"
)

type zipEntryWriter struct {
	zw *zip.Writer
}

func newZipWriter(dest io.Writer) entryWriter {
	return &zipEntryWriter{zw: zip.NewWriter(dest)}
}

// WriteEntry writes one archive member. Note that archive/zip.FileHeader has
// no uid/gid field in the standard library — ownership can only be recorded
// via nonstandard Info-ZIP Unix extra fields, which this writer does not
// produce, so --preserve-owner has no effect on zip output.
func (w *zipEntryWriter) WriteEntry(e walk.Entry, content io.Reader) error {
	hdr := &zip.FileHeader{
		Name:     zipName(e),
		Modified: e.ModTime,
		Method:   zip.Deflate,
	}
	hdr.SetMode(e.Mode)

	if e.Kind == walk.KindDirectory || e.Size == 0 {
		hdr.Method = zip.Store
	}

	fw, err := w.zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	switch e.Kind {
	case walk.KindDirectory:
		return nil
	case walk.KindSymlink:
		_, err := fw.Write([]byte(e.LinkTarget))
		return err
	default:
		if content == nil {
			return nil
		}
		_, err := io.Copy(fw, content)
		return err
	}
}

func (w *zipEntryWriter) Close() error {
	return w.zw.Close()
}

func zipName(e walk.Entry) string {
	if e.Kind == walk.KindDirectory {
		return e.RelPath + "/"
	}
	return e.RelPath
}
