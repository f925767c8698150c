package chart_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/autompg-cli/internal/chart"
	"github.com/KaramelBytes/autompg-cli/internal/dataset"
)

func TestSpec_Defaults(t *testing.T) {
	s := chart.Spec{Kind: chart.KindScatter}.WithDefaults()
	assert.Equal(t, dataset.FieldHorsepower, s.X)
	assert.Equal(t, dataset.FieldMPG, s.Y)
	assert.Equal(t, dataset.FieldOrigin, s.Color)
	assert.Equal(t, "MPG vs Horsepower by Origin", s.Title)

	h := chart.Spec{Kind: chart.KindHistogram}.WithDefaults()
	assert.Equal(t, dataset.FieldMPG, h.X)
	assert.Equal(t, chart.DefaultBins, h.Bins)

	v := chart.Spec{Kind: chart.KindViolin, Color: "none"}.WithDefaults()
	assert.Equal(t, dataset.FieldMPG, v.Y)
	assert.False(t, v.Grouped())
	assert.Equal(t, "MPG distribution", v.Title)
}

func TestSpec_CanonicalisesNames(t *testing.T) {
	s := chart.Spec{Kind: chart.KindScatter, X: "weight", Y: "mpg", Color: "model_year"}.WithDefaults()
	require.NoError(t, s.Validate())
	assert.Equal(t, dataset.FieldWeight, s.X)
	assert.Equal(t, dataset.FieldModelYear, s.Color)
}

func TestSpec_Validate(t *testing.T) {
	cases := []struct {
		name string
		spec chart.Spec
		want error
	}{
		{"unknown kind", chart.Spec{Kind: "pie"}, chart.ErrUnknownKind},
		{"empty kind", chart.Spec{}, chart.ErrUnknownKind},
		{"categorical axis", chart.Spec{Kind: chart.KindScatter, X: "Origin"}, chart.ErrUnknownField},
		{"missing axis", chart.Spec{Kind: chart.KindScatter, Y: "torque"}, chart.ErrUnknownField},
		{"bad color", chart.Spec{Kind: chart.KindBox, Color: "Weight"}, chart.ErrUnknownField},
		{"too few bins", chart.Spec{Kind: chart.KindHistogram, Bins: 2}, chart.ErrInvalidSpec},
		{"too many bins", chart.Spec{Kind: chart.KindHistogram, Bins: 51}, chart.ErrInvalidSpec},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.WithDefaults().Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
	assert.NoError(t, chart.Spec{Kind: chart.KindHistogram, Bins: 50}.WithDefaults().Validate())
	assert.NoError(t, chart.Spec{Kind: chart.KindHistogram, Bins: 3}.WithDefaults().Validate())
}

func TestParseKind(t *testing.T) {
	k, err := chart.ParseKind(" Violin ")
	require.NoError(t, err)
	assert.Equal(t, chart.KindViolin, k)
	_, err = chart.ParseKind("pie")
	assert.ErrorIs(t, err, chart.ErrUnknownKind)
}
