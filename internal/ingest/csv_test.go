//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package ingest

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

type failingreader struct{}

func (failingreader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestParseBasic(t *testing.T) {
	in := "id,text\n1,first row\n2,\"second, with a comma\"\n3,\"multi\nline\"\n"
	ds, err := Parse("sample.csv", strings.NewReader(in), Options{})
	require.NoError(t, err)

	assert.Equal(t, "sample.csv", ds.Name)
	assert.Equal(t, int64(len(in)), ds.Size)
	assert.Equal(t, []string{"id", "text"}, ds.Columns)
	require.Len(t, ds.Rows, 3)
	assert.Equal(t, "second, with a comma", ds.Rows[1][1])
	assert.Equal(t, "multi\nline", ds.Rows[2][1])
}

func TestParseBOMAndTSV(t *testing.T) {
	ds, err := Parse("bom.csv", strings.NewReader("\ufeffالنص,رقم\nمرحبا,1\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "النص", ds.Columns[0])

	ds, err = Parse("data.TSV", strings.NewReader("a\tb\nx, y\tz\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Columns)
	assert.Equal(t, []string{"x, y", "z"}, ds.Rows[0])
}

func TestParseStrayBOMInHeader(t *testing.T) {
	ds, err := Parse("pasted.csv", strings.NewReader("id,\ufefftext\n1,x\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "text"}, ds.Columns)
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   \n\t\n", "\ufeff", "\n\n\n"} {
		_, err := Parse("empty.csv", strings.NewReader(in), Options{})
		assert.ErrorIs(t, err, ErrEmptyFile, "input %q", in)
	}
}

func TestParseBadFormat(t *testing.T) {
	_, err := Parse("picture.png", strings.NewReader("a,b\n1,2\n"), Options{})
	assert.ErrorIs(t, err, ErrBadFormat)

	_, err = Parse("wide.csv", strings.NewReader("a,b\n1,2,3\n"), Options{})
	assert.ErrorIs(t, err, ErrBadFormat)

	_, err = Parse("latin1.csv", strings.NewReader("a,b\n\xe9t\xe9,2\n"), Options{})
	assert.ErrorIs(t, err, ErrBadFormat)
}

func TestParseReadFailure(t *testing.T) {
	_, err := Parse("broken.csv", failingreader{}, Options{})
	assert.ErrorIs(t, err, ErrRead)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestParseTooLarge(t *testing.T) {
	in := "text\n" + strings.Repeat("abcdefghij\n", 20)
	_, err := Parse("big.csv", strings.NewReader(in), Options{MaxBytes: 100})
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Parse("big.csv", strings.NewReader(in), Options{MaxBytes: int64(len(in))})
	assert.NoError(t, err)
}

func TestParsePadsShortRows(t *testing.T) {
	ds, err := Parse("short.csv", strings.NewReader("a,b,c\n1\n2,3\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "", ""}, ds.Rows[0])
	assert.Equal(t, []string{"2", "3", ""}, ds.Rows[1])
}

func TestHeaderMangling(t *testing.T) {
	ds, err := Parse("dupes.csv", strings.NewReader("text,,text,text, \nq,r,s,t,u\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"text", "Unnamed: 1", "text.1", "text.2", "Unnamed: 4"}, ds.Columns)

	assert.Equal(t, []string{"a", "a.1", "a.1.1"}, mangle([]string{"a", "a", "a.1"}))
}

func TestColumnDropsMissing(t *testing.T) {
	in := "text,other\nfirst,1\n,2\nNaN,3\n  ,4\nnull,5\nsecond,6\nN/A,7\n"
	ds, err := Parse("na.csv", strings.NewReader(in), Options{})
	require.NoError(t, err)

	vals, err := ds.Column("text")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, vals)

	_, err = ds.Column("nope")
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Equal(t, -1, ds.ColumnIndex("nope"))
}

func TestMissing(t *testing.T) {
	for _, m := range []string{"", " ", "NA", "nan", "<NA>", "#N/A", "None"} {
		assert.True(t, Missing(m), m)
	}
	for _, m := range []string{"0", "none at all", "NAN?", "نص"} {
		assert.False(t, Missing(m), m)
	}
}

func TestPreview(t *testing.T) {
	ds, err := Parse("p.csv", strings.NewReader("a\n1\n2\n3\n"), Options{})
	require.NoError(t, err)

	assert.Len(t, ds.Preview(2), 2)
	assert.Len(t, ds.Preview(10), 3)
	assert.Empty(t, ds.Preview(0))

	pv := ds.Preview(1)
	pv[0][0] = "changed"
	assert.Equal(t, "1", ds.Rows[0][0])
}

func TestHumanSize(t *testing.T) {
	ds := &Dataset{Size: 2048}
	assert.Equal(t, "2.0 kB", ds.HumanSize())
}
