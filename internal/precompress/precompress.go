// Package precompress writes statically compressed siblings (.gz, .br, .zst)
// next to output files so a web server can serve them without compressing on
// the fly.
package precompress

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Algorithm names a compression format.
type Algorithm string

const (
	Gzip   Algorithm = "gzip"
	Brotli Algorithm = "br"
	Zstd   Algorithm = "zstd"
)

// ErrUnknownAlgorithm is returned by Parse for unsupported names.
var ErrUnknownAlgorithm = errors.New("unknown precompression algorithm")

// Parse resolves algorithm names. "gz" and "brotli" are accepted as
// aliases; duplicates are dropped.
func Parse(names []string) ([]Algorithm, error) {
	var out []Algorithm
	seen := make(map[Algorithm]bool)
	for _, n := range names {
		var a Algorithm
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "gzip", "gz":
			a = Gzip
		case "br", "brotli":
			a = Brotli
		case "zstd", "zst":
			a = Zstd
		case "":
			continue
		default:
			return nil, fmt.Errorf("%w: %q (use gzip, br or zstd)", ErrUnknownAlgorithm, n)
		}
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out, nil
}

// Ext returns the file suffix for a, including the dot.
func (a Algorithm) Ext() string {
	switch a {
	case Gzip:
		return ".gz"
	case Brotli:
		return ".br"
	case Zstd:
		return ".zst"
	}
	return ""
}

// File reads path and writes one compressed sibling per algorithm.
func File(path string, algs []Algorithm) error {
	if len(algs) == 0 {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return Write(path, data, algs)
}

// Write compresses data with each algorithm at its best level and stores the
// result at path plus the algorithm's suffix.
func Write(path string, data []byte, algs []Algorithm) error {
	for _, a := range algs {
		dest := path + a.Ext()
		if err := writeOne(dest, data, a); err != nil {
			return fmt.Errorf("precompress %s: %w", dest, err)
		}
	}
	return nil
}

func writeOne(dest string, data []byte, a Algorithm) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := newWriter(f, a)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

func newWriter(w io.Writer, a Algorithm) (io.WriteCloser, error) {
	switch a {
	case Gzip:
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case Brotli:
		return brotli.NewWriterLevel(w, brotli.BestCompression), nil
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
}
