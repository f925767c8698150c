package dataset_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/autompg-cli/internal/dataset"
	"github.com/KaramelBytes/autompg-cli/internal/testutil"
)

func TestNumericFields_StaticOrder(t *testing.T) {
	assert.Equal(t, []string{
		"MPG", "Cylinders", "Displacement", "Horsepower", "Weight", "Acceleration", "Model Year",
	}, dataset.NumericFields())
}

func TestSchema_ExcludesCategoricalFromNumeric(t *testing.T) {
	for _, f := range dataset.Schema() {
		switch f.Name {
		case dataset.FieldOrigin, dataset.FieldCarName, dataset.FieldManufacturer:
			assert.False(t, f.Kind.Numeric(), f.Name)
		default:
			assert.True(t, f.Kind.Numeric(), f.Name)
		}
	}
}

func TestLookupField_Aliases(t *testing.T) {
	for _, name := range []string{"Model Year", "model_year", "MODEL-YEAR", " model year "} {
		f, ok := dataset.LookupField(name)
		require.True(t, ok, name)
		assert.Equal(t, dataset.FieldModelYear, f.Name)
	}
	_, ok := dataset.LookupField("torque")
	assert.False(t, ok)
}

func TestDataset_Catalogs(t *testing.T) {
	ds := testutil.SampleDataset(t)
	assert.Equal(t, testutil.SampleRows, ds.Len())
	assert.NotEmpty(t, ds.ID)
	assert.Equal(t, []string{
		"chevrolet", "buick", "toyota", "volkswagen", "ford", "datsun",
		"peugeot", "bmw", "honda", "amc", "vw",
	}, ds.Manufacturers())
	lo, hi := ds.YearBounds()
	assert.Equal(t, 70, lo)
	assert.Equal(t, 82, hi)
}

func TestDataset_RecordsIsACopy(t *testing.T) {
	ds := testutil.SampleDataset(t)
	recs := ds.Records()
	recs[0].Manufacturer = "mutated"
	assert.Equal(t, "chevrolet", ds.Records()[0].Manufacturer)

	m := ds.Manufacturers()
	m[0] = "mutated"
	assert.Equal(t, "chevrolet", ds.Manufacturers()[0])
}

func TestDataset_Empty(t *testing.T) {
	ds := dataset.FromRecords("empty", nil)
	assert.Equal(t, 0, ds.Len())
	assert.Empty(t, ds.Manufacturers())
	lo, hi := ds.YearBounds()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestRecord_JSON(t *testing.T) {
	ds := testutil.SampleDataset(t)
	b, err := json.Marshal(ds.Records()[4])
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Nil(t, m["horsepower"])
	assert.Equal(t, "USA", m["origin"])
	assert.Equal(t, "ford", m["manufacturer"])
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	want := testutil.SampleDataset(t).Records()
	b, err := json.Marshal(want)
	require.NoError(t, err)
	var got []dataset.Record
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, want, got)
	assert.False(t, got[4].Horsepower.Valid)
	assert.Equal(t, dataset.OriginEurope, got[3].Origin)
}

func TestOrigin_UnmarshalJSON(t *testing.T) {
	cases := map[string]dataset.Origin{
		`"USA"`:    dataset.OriginUSA,
		`"europe"`: dataset.OriginEurope,
		`"Japan"`:  dataset.OriginJapan,
		`3`:        dataset.OriginJapan,
	}
	for in, want := range cases {
		var o dataset.Origin
		require.NoError(t, json.Unmarshal([]byte(in), &o), in)
		assert.Equal(t, want, o, in)
	}
	for _, bad := range []string{`"Mars"`, `4`, `true`} {
		var o dataset.Origin
		assert.Error(t, json.Unmarshal([]byte(bad), &o), bad)
	}
}

func TestNullFloat_UnmarshalJSON(t *testing.T) {
	var n dataset.NullFloat
	require.NoError(t, json.Unmarshal([]byte("130.5"), &n))
	assert.Equal(t, dataset.Float(130.5), n)
	require.NoError(t, json.Unmarshal([]byte("null"), &n))
	assert.False(t, n.Valid)
	assert.Error(t, json.Unmarshal([]byte(`"fast"`), &n))
}

func TestRecord_Category(t *testing.T) {
	r := testutil.SampleDataset(t).Records()[3]
	v, ok := r.Category("origin")
	require.True(t, ok)
	assert.Equal(t, "Europe", v)
	v, ok = r.Category("Cylinders")
	require.True(t, ok)
	assert.Equal(t, "4", v)
	_, ok = r.Category("MPG")
	assert.False(t, ok)
}

func TestRecord_StringsRoundTripMissing(t *testing.T) {
	r := testutil.SampleDataset(t).Records()[4]
	s := r.Strings()
	require.Len(t, s, len(dataset.Schema()))
	assert.Equal(t, "?", s[3])
	assert.Equal(t, "USA", s[7])
}
