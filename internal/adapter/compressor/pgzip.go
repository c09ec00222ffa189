package compressor

import (
	"fmt"
	"io"

	"github.com/klauspost/pgzip"
)

// Pgzip is a parallel gzip filter. Dumps are piped straight through it, so
// compression overlaps the dump instead of following it. It implements
// domain.Compressor.
type Pgzip struct {
	level int
}

func NewPgzip(level int) *Pgzip {
	if level < pgzip.HuffmanOnly || level > pgzip.BestCompression {
		level = pgzip.DefaultCompression
	}
	return &Pgzip{level: level}
}

func (p *Pgzip) NewWriter(w io.Writer) (io.WriteCloser, error) {
	zw, err := pgzip.NewWriterLevel(w, p.level)
	if err != nil {
		return nil, fmt.Errorf("create gzip writer: %w", err)
	}
	return zw, nil
}

func (p *Pgzip) NewReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := pgzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create gzip reader: %w", err)
	}
	return zr, nil
}
