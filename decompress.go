package grepnir

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
)

// CompressionType represents the type of compression detected
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionGzip
	CompressionBzip2
)

// String returns the string representation of the compression type
func (ct CompressionType) String() string {
	switch ct {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	default:
		return "unknown"
	}
}

var magicNumbers = []struct {
	typ   CompressionType
	magic []byte
}{
	{CompressionGzip, []byte{0x1f, 0x8b}},
	{CompressionBzip2, []byte{0x42, 0x5a, 0x68}},
}

// DetectCompression identifies a compressed stream by its leading bytes
func DetectCompression(head []byte) CompressionType {
	for _, m := range magicNumbers {
		if bytes.HasPrefix(head, m.magic) {
			return m.typ
		}
	}
	return CompressionNone
}

// Decompress wraps r in a reader for the given compression type. The
// returned closer must be called once the stream is consumed.
func Decompress(r io.Reader, ct CompressionType) (io.Reader, io.Closer, error) {
	switch ct {
	case CompressionNone:
		return r, nopCloser{}, nil

	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gz, gz, nil

	case CompressionBzip2:
		// bzip2.NewReader doesn't return an error
		return bzip2.NewReader(r), nopCloser{}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported compression type: %s", ct)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
