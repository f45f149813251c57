package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyDistinguishesMissingFromEmpty(t *testing.T) {
	a := Record{ID: 1, Name: "x", Medal: NullString{}}
	b := Record{ID: 1, Name: "x", Medal: Str("")}
	assert.NotEqual(t, a.Key(), b.Key())

	c := a
	assert.Equal(t, a.Key(), c.Key())
}

func TestParseColumn(t *testing.T) {
	c, ok := ParseColumn(" noc ")
	require.True(t, ok)
	assert.Equal(t, ColNOC, c)
	_, ok = ParseColumn("Country")
	assert.False(t, ok)
}

func TestFrameNullCounts(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sampleCSV), "athletes.csv", LoadOptions{})
	require.NoError(t, err)
	df := Frame(tbl)
	rows, cols := df.Dims()
	assert.Equal(t, 5, rows)
	assert.Equal(t, len(Columns), cols)

	nulls := NullCounts(df)
	assert.Equal(t, 4, nulls["Medal"])
	assert.Equal(t, 2, nulls["Height"])
	assert.Equal(t, 2, nulls["Weight"])
	assert.Equal(t, 0, nulls["Age"])
	assert.Equal(t, 0, nulls["Team"])
}

func TestDescribeSkipsMissing(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sampleCSV), "athletes.csv", LoadOptions{})
	require.NoError(t, err)
	desc := Describe(tbl, ColHeight, ColAge)
	require.Len(t, desc, 2)

	h := desc[0]
	assert.Equal(t, ColHeight, h.Column)
	assert.Equal(t, 3, h.Count)
	assert.InDelta(t, (180.0+170+185)/3, h.Mean, 1e-9)
	assert.Equal(t, 170.0, h.Min)
	assert.Equal(t, 185.0, h.Max)

	empty := Describe(&Table{}, ColWeight)
	require.Len(t, empty, 1)
	assert.Equal(t, 0, empty[0].Count)
	assert.True(t, math.IsNaN(empty[0].Mean))
}
