package parser

import (
	"bytes"
	"os"
	"unicode/utf8"
)

const sniffLen = 64

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// ReadFileWithEOL reads a source file for analysis. It returns nil without an
// error for files that are nearly empty or look binary. A byte order mark is
// dropped and trailing line terminators collapse into a single '\n'.
func ReadFileWithEOL(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() <= 3 {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NormalizeSource(data), nil
}

// NormalizeSource applies the ReadFileWithEOL rules to an in-memory buffer.
func NormalizeSource(data []byte) []byte {
	if len(data) <= 3 {
		return nil
	}

	switch {
	case bytes.HasPrefix(data, bomUTF16BE), bytes.HasPrefix(data, bomUTF16LE):
		data = data[2:]
	case bytes.HasPrefix(data, bomUTF8):
		data = data[3:]
	}

	if looksBinary(data) {
		return nil
	}

	out := make([]byte, 0, len(data)+1)
	out = append(out, bytes.TrimRight(data, "\r\n")...)
	return append(out, '\n')
}

// looksBinary reports whether the leading window holds invalid UTF-8. The
// final rune of the window is ignored since the cut may split it.
func looksBinary(data []byte) bool {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	for i := 0; i < len(head); {
		r, size := utf8.DecodeRune(head[i:])
		if r == utf8.RuneError && size == 1 {
			rest := head[i:]
			if !utf8.FullRune(rest) || i+size == len(head) {
				return false
			}
			return true
		}
		i += size
	}
	return false
}
