package core

import (
	"bufio"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// importReader cleans CSV input on the fly. A leading UTF-8 byte-order mark
// is dropped, and any byte that is not part of a valid UTF-8 sequence is
// read as Latin-1, which is what spreadsheets saved on Windows in Portuguese
// usually contain ("Jo\xe3o" becomes "João").
type importReader struct {
	src     *bufio.Reader
	started bool
	buf     [utf8.UTFMax]byte
	pending []byte
	err     error
}

func newImportReader(r io.Reader) *importReader {
	return &importReader{src: bufio.NewReader(r)}
}

func (r *importReader) Read(p []byte) (int, error) {
	if !r.started {
		r.started = true
		if b, err := r.src.Peek(len(utf8BOM)); err == nil && string(b) == string(utf8BOM) {
			_, _ = r.src.Discard(len(utf8BOM))
		}
	}

	n := 0
	for n < len(p) {
		if len(r.pending) == 0 {
			if r.err != nil {
				break
			}
			r.pending = r.next()
			continue
		}
		c := copy(p[n:], r.pending)
		r.pending = r.pending[c:]
		n += c
	}

	if n == 0 && r.err != nil {
		return 0, r.err
	}
	return n, nil
}

// next returns the UTF-8 encoding of the next character, or nil once the
// source is exhausted.
func (r *importReader) next() []byte {
	c, size, err := r.src.ReadRune()
	if err != nil {
		r.err = err
		return nil
	}
	if c == utf8.RuneError && size == 1 {
		_ = r.src.UnreadRune()
		b, _ := r.src.ReadByte()
		c = rune(b)
	}
	return utf8.AppendRune(r.buf[:0], c)
}
