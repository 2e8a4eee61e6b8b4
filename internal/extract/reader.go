package extract

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// cleanReader strips a leading UTF-8 BOM and replaces invalid UTF-8 bytes
// with '?'. Spreadsheet exports saved on Windows carry both.
func cleanReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return &utf8Sanitizer{r: br}
}

type utf8Sanitizer struct {
	r *bufio.Reader
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) < utf8.UTFMax {
		return 0, io.ErrShortBuffer
	}

	n := 0
	for n+utf8.UTFMax <= len(p) {
		r, size, err := s.r.ReadRune()
		if err != nil {
			if n > 0 && err == io.EOF {
				return n, nil
			}
			return n, err
		}
		if r == utf8.RuneError && size == 1 {
			p[n] = '?'
			n++
			continue
		}
		n += utf8.EncodeRune(p[n:], r)
		if s.r.Buffered() == 0 {
			// Hand back what we have rather than block on the next fill.
			return n, nil
		}
	}
	return n, nil
}
