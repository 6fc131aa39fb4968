package archive

import (
	"io"

	"github.com/dsnet/compress/bzip2"
)

// newBzip2Writer wraps dest in a bzip2 block encoder. Go's standard library
// only ships a bzip2 reader (compress/bzip2), and klauspost/compress does
// not implement bzip2 either, so dsnet/compress — already present in the
// wider ecosystem dependency graph as a transitive archiver dependency —
// supplies the writer side.
func newBzip2Writer(dest io.Writer) (io.WriteCloser, error) {
	return bzip2.NewWriter(dest, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
}
