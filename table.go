package csvtable

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// DefaultSeparator is the field separator used when none is configured.
const DefaultSeparator byte = ','

var (
	// ErrFileUnavailable is returned by Open when the path cannot be opened or read.
	ErrFileUnavailable = errors.New("csvtable: file unavailable")
	// ErrInvalidSeparator is returned when a separator is not exactly one ASCII character or is a line break.
	ErrInvalidSeparator = errors.New("csvtable: separator must be exactly one character")
	// ErrEmptyContent is returned by Line when the table holds no lines.
	ErrEmptyContent = errors.New("csvtable: no content loaded")
	// ErrRowOutOfRange is returned when a line index falls outside [0, LineCount).
	ErrRowOutOfRange = errors.New("csvtable: line index out of range")
	// ErrFieldOutOfRange is returned when a field index falls outside [0, FieldCount).
	ErrFieldOutOfRange = errors.New("csvtable: field index out of range")
)

// RangeError reports an index that fell outside [0, Limit).
type RangeError struct {
	Index int
	Limit int
	Err   error
}

// Error formats the range error with the stored Index, Limit and Err values.
func (e *RangeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("csvtable: index %d not in [0, %d): %v", e.Index, e.Limit, e.Err)
}

// Unwrap returns the underlying Err so RangeError participates in errors.Is.
func (e *RangeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Option configures a Table at construction.
type Option func(*Table)

// WithSeparator sets the field separator. Open and Parse fail with
// ErrInvalidSeparator if sep is NUL, a line break or not ASCII.
func WithSeparator(sep byte) Option {
	return func(t *Table) {
		t.separator = sep
	}
}

// Table is an in-memory view of a delimited file. Every line is kept verbatim;
// fields are produced on demand by splitting a line on the separator.
type Table struct {
	path      string
	separator byte
	lines     []string

	fieldCount int
	lineCount  int
	valid      bool
}

// Open reads the whole file at path and scans it for consistency. The file is
// closed before Open returns. Errors opening or reading the file match
// ErrFileUnavailable and wrap the underlying *fs.PathError.
func Open(path string, opts ...Option) (*Table, error) {
	t, err := newTable(opts)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileUnavailable, err)
	}
	defer file.Close()

	if err := t.load(file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileUnavailable, err)
	}
	t.path = path
	return t, nil
}

// Parse reads every line from r and scans them for consistency. It panics if r
// is nil.
func Parse(r io.Reader, opts ...Option) (*Table, error) {
	if r == nil {
		panic("csvtable: reader source cannot be nil")
	}

	t, err := newTable(opts)
	if err != nil {
		return nil, err
	}
	if err := t.load(r); err != nil {
		return nil, fmt.Errorf("csvtable: read input: %w", err)
	}
	return t, nil
}

func newTable(opts []Option) (*Table, error) {
	t := &Table{separator: DefaultSeparator}
	for _, opt := range opts {
		opt(t)
	}
	if !validSeparator(t.separator) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeparator, t.separator)
	}
	return t, nil
}

func (t *Table) load(r io.Reader) error {
	lines, err := newLineReader(r).readAll()
	if err != nil {
		return err
	}
	t.lines = lines
	t.scan()
	return nil
}

// scan checks that every line holds as many separators as the one before it.
// The field count comes from the last line, so it is only meaningful when the
// table is valid. An empty table is valid with zero fields.
func (t *Table) scan() {
	t.lineCount = len(t.lines)
	t.fieldCount = 0
	t.valid = true
	if t.lineCount == 0 {
		return
	}

	sep := t.sepString()
	prev := 0
	for i, line := range t.lines {
		cur := strings.Count(line, sep)
		if i > 0 && cur != prev {
			t.valid = false
		}
		prev = cur
	}
	t.fieldCount = prev + 1
}

// SetSeparator replaces the separator and rescans the loaded lines, so IsValid
// and FieldCount reflect the new separator. The candidate is trimmed of
// surrounding whitespace and must then be exactly one ASCII character, so a
// tab or space is rejected here; use WithSeparator for those. Any other input
// is rejected with ErrInvalidSeparator and leaves the table unchanged. A nil
// table returns ErrEmptyContent.
func (t *Table) SetSeparator(candidate string) error {
	if t == nil {
		return ErrEmptyContent
	}

	sep := strings.TrimSpace(candidate)
	if len(sep) != 1 || !validSeparator(sep[0]) {
		return fmt.Errorf("%w: %q", ErrInvalidSeparator, candidate)
	}

	t.separator = sep[0]
	t.scan()
	return nil
}

// IsValid reports whether every line has the same number of separators.
func (t *Table) IsValid() bool {
	if t == nil {
		return false
	}
	return t.valid
}

// LineCount returns the number of loaded lines, empty lines included.
func (t *Table) LineCount() int {
	if t == nil {
		return 0
	}
	return t.lineCount
}

// FieldCount returns the number of fields per line. It is derived from the
// last line and should only be trusted when IsValid is true.
func (t *Table) FieldCount() int {
	if t == nil {
		return 0
	}
	return t.fieldCount
}

// Separator returns the active field separator.
func (t *Table) Separator() byte {
	if t == nil {
		return DefaultSeparator
	}
	return t.separator
}

// Path returns the file the table was opened from, or "" for Parse.
func (t *Table) Path() string {
	if t == nil {
		return ""
	}
	return t.path
}

// Line splits the line at index on the separator and returns its fields in a
// newly allocated slice. It returns ErrEmptyContent when no lines are loaded
// and a *RangeError wrapping ErrRowOutOfRange for an index outside
// [0, LineCount).
func (t *Table) Line(index int) ([]string, error) {
	if t == nil || len(t.lines) == 0 {
		return nil, ErrEmptyContent
	}
	if index < 0 || index >= t.lineCount {
		return nil, &RangeError{Index: index, Limit: t.lineCount, Err: ErrRowOutOfRange}
	}
	return strings.Split(t.lines[index], t.sepString()), nil
}

// Field returns field fieldIndex of line lineIndex. The field index is checked
// against FieldCount before the line is looked up, so a bad field index is
// reported even when the line index is bad too. Line errors are returned
// unchanged. On an invalid table a line may be narrower than FieldCount; the
// missing position is reported as ErrFieldOutOfRange with the line's width as
// Limit.
func (t *Table) Field(fieldIndex, lineIndex int) (string, error) {
	if fieldIndex < 0 || fieldIndex >= t.FieldCount() {
		return "", &RangeError{Index: fieldIndex, Limit: t.FieldCount(), Err: ErrFieldOutOfRange}
	}

	row, err := t.Line(lineIndex)
	if err != nil {
		return "", err
	}
	if fieldIndex >= len(row) {
		return "", &RangeError{Index: fieldIndex, Limit: len(row), Err: ErrFieldOutOfRange}
	}
	return row[fieldIndex], nil
}

// WriteTo writes every line to w through a Writer using the table's separator,
// one line per record terminated by '\n'. It implements io.WriterTo.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := NewWriter(cw)
	tw.Separator = t.Separator()

	for i := 0; i < t.LineCount(); i++ {
		row, err := t.Line(i)
		if err != nil {
			return cw.n, err
		}
		if err := tw.Write(row); err != nil {
			return cw.n, err
		}
	}
	if err := tw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

func (t *Table) sepString() string {
	return string([]byte{t.separator})
}

// validSeparator accepts any ASCII byte except NUL and line breaks.
func validSeparator(b byte) bool {
	return b != 0 && b != '\n' && b != '\r' && b < utf8.RuneSelf
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
