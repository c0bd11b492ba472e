package csvtable

import (
	"bytes"
	"io"
)

const defaultBufferSize = 1 << 12 // 4096 bytes

// lineReader splits a byte stream into lines. A line ends at '\n', "\r\n" or a
// lone '\r'; the terminator is not part of the returned text. A final line
// without terminator is still returned, but a trailing terminator does not
// produce an extra empty line.
type lineReader struct {
	src io.Reader

	buf    []byte
	bufPos int
	bufLen int
	bufErr error

	line     []byte
	finished bool
}

// newLineReader wraps r, panicking if r is nil.
func newLineReader(r io.Reader) *lineReader {
	if r == nil {
		panic("csvtable: reader source cannot be nil")
	}

	return &lineReader{
		src:  r,
		buf:  make([]byte, defaultBufferSize),
		line: make([]byte, 0, 256),
	}
}

// readLine returns the next line with its terminator stripped; io.EOF signals
// that no more lines remain.
func (r *lineReader) readLine() (string, error) {
	if r.finished {
		return "", io.EOF
	}
	r.line = r.line[:0]

	for {
		if r.bufPos >= r.bufLen {
			if r.bufErr != nil {
				err := r.bufErr
				r.bufErr = nil
				r.finished = true
				if err == io.EOF {
					if len(r.line) > 0 {
						return string(r.line), nil
					}
					return "", io.EOF
				}
				return "", err
			}

			n, err := r.src.Read(r.buf)
			r.bufPos = 0
			r.bufLen = n
			r.bufErr = err
			continue
		}

		data := r.buf[r.bufPos:r.bufLen]
		next, term := nextTerminator(data)
		if term == 0 {
			r.line = append(r.line, data...)
			r.bufPos = r.bufLen
			continue
		}

		r.line = append(r.line, data[:next]...)
		r.bufPos += next + 1
		if term == '\r' {
			// CRLF counts as one terminator, even when split across reads.
			if b, err := r.peekByte(); err == nil && b == '\n' {
				r.bufPos++
			}
		}
		return string(r.line), nil
	}
}

// readAll collects every remaining line, returning the first non-EOF error.
func (r *lineReader) readAll() ([]string, error) {
	var lines []string
	for {
		line, err := r.readLine()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
}

// peekByte returns the next buffered byte without consuming it, refilling from
// src as needed. Read errors stay in bufErr for the next readLine.
func (r *lineReader) peekByte() (byte, error) {
	for {
		if r.bufPos < r.bufLen {
			return r.buf[r.bufPos], nil
		}
		if r.bufErr != nil {
			return 0, r.bufErr
		}

		n, err := r.src.Read(r.buf)
		r.bufPos = 0
		r.bufLen = n
		r.bufErr = err
	}
}

// nextTerminator reports the offset of the first '\n' or '\r' in data and which
// of the two it is. It returns (-1, 0) when data holds no terminator.
func nextTerminator(data []byte) (int, byte) {
	idxNewline := bytes.IndexByte(data, '\n')
	idxCR := bytes.IndexByte(data, '\r')

	switch {
	case idxCR >= 0 && (idxNewline < 0 || idxCR < idxNewline):
		return idxCR, '\r'
	case idxNewline >= 0:
		return idxNewline, '\n'
	}
	return -1, 0
}
