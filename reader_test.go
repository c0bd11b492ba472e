package csvtable

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReaderReadLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "trailingNewline",
			input: "a,b,c\nd,e,f\n",
			want:  []string{"a,b,c", "d,e,f"},
		},
		{
			name:  "finalLineWithoutTerminator",
			input: "alpha\nbeta",
			want:  []string{"alpha", "beta"},
		},
		{
			name:  "windowsLineEndings",
			input: "a,b\r\nc,d\r\n",
			want:  []string{"a,b", "c,d"},
		},
		{
			name:  "bareCarriageReturn",
			input: "one\rtwo",
			want:  []string{"one", "two"},
		},
		{
			name:  "bareCarriageReturnMidFile",
			input: "a,b\rc,d\n",
			want:  []string{"a,b", "c,d"},
		},
		{
			name:  "emptyLinesKept",
			input: "a\n\nb\n\n",
			want:  []string{"a", "", "b", ""},
		},
		{
			name:  "singleNewline",
			input: "\n",
			want:  []string{""},
		},
		{
			name:  "carriageReturnThenCRLF",
			input: "x\r\r\ny",
			want:  []string{"x", "", "y"},
		},
		{
			name:  "quotesAreText",
			input: "\"a,b\",c\n",
			want:  []string{"\"a,b\",c"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := newLineReader(strings.NewReader(tc.input)).readAll()
			require.NoError(t, err)
			require.Empty(t, cmp.Diff(tc.want, got), "readAll() mismatch (-want +got)")
		})
	}
}

func TestLineReaderOneByteReads(t *testing.T) {
	t.Parallel()

	const input = "a;b\r\nc;d\re;f\n\ng;h"
	want := []string{"a;b", "c;d", "e;f", "", "g;h"}

	got, err := newLineReader(iotest.OneByteReader(strings.NewReader(input))).readAll()
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(want, got), "readAll() mismatch (-want +got)")
}

func TestLineReaderLongLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 3*defaultBufferSize+17)
	input := long + "\r\n" + long

	got, err := newLineReader(strings.NewReader(input)).readAll()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, long, got[0])
	assert.Equal(t, long, got[1])
}

func TestLineReaderDataWithEOF(t *testing.T) {
	t.Parallel()

	got, err := newLineReader(iotest.DataErrReader(strings.NewReader("a\r"))).readAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}

func TestLineReaderPropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := io.MultiReader(strings.NewReader("a,b\nc,d"), iotest.ErrReader(boom))

	lines, err := newLineReader(src).readAll()
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, lines, "readAll() should return nil lines on error")
}

func TestLineReaderEOFIsSticky(t *testing.T) {
	t.Parallel()

	r := newLineReader(strings.NewReader("only\n"))
	line, err := r.readLine()
	require.NoError(t, err)
	assert.Equal(t, "only", line)

	for i := 0; i < 2; i++ {
		_, err := r.readLine()
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestNewLineReaderNilPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		newLineReader(nil)
	})
}
