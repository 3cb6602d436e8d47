package grepnir

import "bytes"

// BinarySniffLen is how much of a file the binary heuristic looks at
const BinarySniffLen = 1024

// BinaryDetector decides from the head of a file whether to leave it out of
// the text search. head holds at most BinarySniffLen bytes.
type BinaryDetector interface {
	IsBinary(head []byte) bool
}

// NullByteDetector treats any zero byte in the head as binary. This is a
// best-effort guess: UTF-16 text is rejected and binary files without
// an early zero byte get through.
type NullByteDetector struct{}

// IsBinary implements BinaryDetector
func (NullByteDetector) IsBinary(head []byte) bool {
	return bytes.IndexByte(head, 0) >= 0
}

// TextDetector searches everything as text
type TextDetector struct{}

// IsBinary implements BinaryDetector
func (TextDetector) IsBinary([]byte) bool {
	return false
}
