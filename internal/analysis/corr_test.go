package analysis_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/autompg-cli/internal/analysis"
	"github.com/KaramelBytes/autompg-cli/internal/dataset"
	"github.com/KaramelBytes/autompg-cli/internal/query"
	"github.com/KaramelBytes/autompg-cli/internal/testutil"
)

func TestCorrelation_Fixture(t *testing.T) {
	ds := testutil.SampleDataset(t)
	m := analysis.Correlation(ds, dataset.NumericFields())
	require.Equal(t, dataset.NumericFields(), m.Columns)

	for i := range m.Columns {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Columns {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
			assert.LessOrEqual(t, math.Abs(m.Values[i][j]), 1.0)
		}
	}

	r, ok := m.Get("mpg", "weight")
	require.True(t, ok)
	assert.Less(t, r, -0.7)

	// pairwise-complete: the row with missing horsepower only drops out of
	// pairs that involve horsepower
	assert.Equal(t, 17, m.N[0][3])
	assert.Equal(t, 18, m.N[0][4])
}

func TestCorrelation_TopPairsOrdered(t *testing.T) {
	ds := testutil.SampleDataset(t)
	pairs := analysis.Correlation(ds, dataset.NumericFields()).TopPairs(0)
	require.Len(t, pairs, 21)
	for i := 1; i < len(pairs); i++ {
		assert.GreaterOrEqual(t, math.Abs(pairs[i-1].R), math.Abs(pairs[i].R))
	}
	assert.Len(t, analysis.Correlation(ds, dataset.NumericFields()).TopPairs(5), 5)
}

func TestCorrelation_ZeroVarianceIsZero(t *testing.T) {
	ds := testutil.SampleDataset(t)
	honda := query.Apply(ds, query.Filter{}.WithManufacturer("honda"))
	m := analysis.Correlation(honda, []string{dataset.FieldCylinders, dataset.FieldMPG})
	r, ok := m.Get(dataset.FieldCylinders, dataset.FieldMPG)
	require.True(t, ok)
	assert.Equal(t, 0.0, r)
}

func TestCorrelation_DropsUnknownFields(t *testing.T) {
	ds := testutil.SampleDataset(t)
	m := analysis.Correlation(ds, []string{"MPG", "torque", "Origin", "weight"})
	assert.Equal(t, []string{dataset.FieldMPG, dataset.FieldWeight}, m.Columns)
	_, ok := m.Get("torque", "MPG")
	assert.False(t, ok)
}
