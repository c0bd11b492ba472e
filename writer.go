package csvtable

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

var (
	errNilWriter      = errors.New("csvtable: writer is nil")
	errWriterNoTarget = errors.New("csvtable: writer destination cannot be nil")

	// ErrUnsplittableField is returned when a field contains the separator or a
	// line break, which would change the shape of the written line.
	ErrUnsplittableField = errors.New("csvtable: field contains separator or line break")
)

// FieldError locates a field the Writer refused to emit. Record counts the
// records written successfully before the failing one.
type FieldError struct {
	Record int
	Field  int
	Err    error
}

// Error formats the field error with the stored Record, Field and Err values.
func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("csvtable: record %d, field %d: %v", e.Record, e.Field, e.Err)
}

// Unwrap returns the underlying Err so FieldError participates in errors.Is.
func (e *FieldError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Writer emits records as separator-joined lines. Fields are written verbatim;
// since no quoting exists, a field that would split differently on reading is
// rejected instead.
type Writer struct {
	dst *bufio.Writer

	// Separator is the field delimiter. Default is DefaultSeparator.
	Separator byte
	// UseCRLF writes records terminated with \r\n when set.
	UseCRLF bool

	records int
	err     error
}

// NewWriter creates a new buffered Writer, panicking if w is nil.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &Writer{
		dst:       bufio.NewWriterSize(w, defaultBufferSize),
		Separator: DefaultSeparator,
	}
}

// Reset updates the underlying writer while preserving the configuration flags.
func (w *Writer) Reset(dst io.Writer) {
	if w == nil {
		panic(errNilWriter.Error())
	}
	if dst == nil {
		panic(errWriterNoTarget.Error())
	}
	if w.dst == nil {
		w.dst = bufio.NewWriterSize(dst, defaultBufferSize)
	} else {
		w.dst.Reset(dst)
	}
	w.records = 0
	w.err = nil
}

// Write emits a single record terminated with the configured newline sequence.
// The whole record is checked before anything is buffered, so a rejected
// record leaves no partial output and the Writer stays usable.
func (w *Writer) Write(record []string) error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}

	sep := w.Separator
	if sep == 0 {
		sep = DefaultSeparator
	}
	if !validSeparator(sep) {
		return fmt.Errorf("%w: %q", ErrInvalidSeparator, sep)
	}

	for i, field := range record {
		if fieldBreaksLine(field, sep) {
			return &FieldError{Record: w.records, Field: i, Err: ErrUnsplittableField}
		}
	}

	for i := range record {
		if i > 0 {
			if err := w.dst.WriteByte(sep); err != nil {
				w.err = err
				return err
			}
		}
		if _, err := w.dst.WriteString(record[i]); err != nil {
			w.err = err
			return err
		}
	}

	if w.UseCRLF {
		if _, err := w.dst.Write([]byte{'\r', '\n'}); err != nil {
			w.err = err
			return err
		}
	} else {
		if err := w.dst.WriteByte('\n'); err != nil {
			w.err = err
			return err
		}
	}
	w.records++
	return nil
}

// WriteAll writes multiple records, stopping at the first error.
func (w *Writer) WriteAll(records [][]string) error {
	if w == nil {
		return errNilWriter
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes pending buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Error reports the first I/O error encountered by the writer.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

func fieldBreaksLine(field string, sep byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case sep, '\n', '\r':
			return true
		}
	}
	return false
}
