package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMissingTokens(t *testing.T) {
	for _, raw := range []string{"", " ", "NA", "NaN", "-", "null"} {
		assert.True(t, Parse(raw).IsMissing(), "%q should be missing", raw)
	}
	v := Parse(" ST258 ")
	require.False(t, v.IsMissing())
	assert.Equal(t, "ST258", v.String())
	assert.False(t, StringValue("").IsMissing())
}

func TestValueCompareMissingLast(t *testing.T) {
	a, b, m := StringValue("a"), StringValue("b"), Missing()
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, -1, b.Compare(m))
	assert.Equal(t, 1, m.Compare(a))
	assert.Equal(t, 0, m.Compare(Missing()))
}

func TestAppendRejectsDuplicates(t *testing.T) {
	tbl, err := New("ST")
	require.NoError(t, err)
	require.NoError(t, tbl.Append("A", StringValue("ST1")))
	err = tbl.Append("A", StringValue("ST2"))
	require.ErrorIs(t, err, ErrDuplicateSample)
	assert.Equal(t, 1, tbl.Len())

	_, err = New("ST", "ST")
	require.ErrorIs(t, err, ErrDuplicateColumn)

	err = tbl.Append("B")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestColumnLookup(t *testing.T) {
	tbl, err := New("ST", "K_locus")
	require.NoError(t, err)
	require.NoError(t, tbl.Append("A", StringValue("ST1"), StringValue("KL2")))
	require.NoError(t, tbl.Append("B", StringValue("ST2"), Missing()))

	col, err := tbl.Column("K_locus")
	require.NoError(t, err)
	assert.Equal(t, "KL2", col[0].String())
	assert.True(t, col[1].IsMissing())

	_, err = tbl.Column("O_locus")
	require.ErrorIs(t, err, ErrColumnNotFound)

	row, ok := tbl.Index("B")
	require.True(t, ok)
	st, err := tbl.Column("ST")
	require.NoError(t, err)
	assert.Equal(t, "ST2", st[row].String())
}

func TestEncode(t *testing.T) {
	codes, levels := Encode([]Value{StringValue("x"), Missing(), StringValue("x"), StringValue("y"), Missing()})
	assert.Equal(t, []int32{0, 1, 0, 2, 1}, codes)
	require.Len(t, levels, 3)
	assert.True(t, levels[1].IsMissing())

	tuples, n := EncodeTuples(4, []int32{0, 0, 1, 1}, []int32{0, 1, 0, 1})
	assert.Equal(t, 4, n)
	assert.Equal(t, []int32{0, 1, 2, 3}, tuples)

	tuples, n = EncodeTuples(3, []int32{2, 2, 5})
	assert.Equal(t, 2, n)
	assert.Equal(t, []int32{0, 0, 1}, tuples)

	tuples, n = EncodeTuples(3)
	assert.Equal(t, 1, n)
	assert.Equal(t, []int32{0, 0, 0}, tuples)
}

func TestReadTSV(t *testing.T) {
	in := "Genome Name\tST\tK_locus\nA\tST1\tKL1\nB\tST1\t\nC\tST2\tKL2\n"
	tbl, err := Read(strings.NewReader(in), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, tbl.Samples())
	assert.Equal(t, []string{"ST", "K_locus"}, tbl.Columns())

	k, err := tbl.Column("K_locus")
	require.NoError(t, err)
	assert.True(t, k[1].IsMissing())
}

func TestReadCSVWithNamedID(t *testing.T) {
	in := "Country,Genome Name,Year\nUK,A,2019\nFR,B,NA\n"
	tbl, err := Read(strings.NewReader(in), ReadOptions{Delimiter: ',', IDColumn: "Genome Name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tbl.Samples())
	assert.Equal(t, []string{"Country", "Year"}, tbl.Columns())

	_, err = Read(strings.NewReader(in), ReadOptions{Delimiter: ',', IDColumn: "id"})
	require.ErrorIs(t, err, ErrColumnNotFound)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("id\tST\nA\tST1\nA\tST2\n"), ReadOptions{})
	require.ErrorIs(t, err, ErrDuplicateSample)

	_, err = Read(strings.NewReader("id\tST\nA\tST1\textra\n"), ReadOptions{})
	require.ErrorIs(t, err, ErrMalformed)

	_, err = Read(strings.NewReader(""), ReadOptions{})
	require.ErrorIs(t, err, ErrMalformed)
}
