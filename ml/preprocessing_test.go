package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cytodiag/dataset"
	"cytodiag/input"
)

func TestNormalizeFeature(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		min     float64
		max     float64
		want    float64
		wantErr bool
	}{
		{"at min", 2, 2, 6, 0, false},
		{"at max", 6, 2, 6, 1, false},
		{"midpoint", 4, 2, 6, 0.5, false},
		{"below min", 0, 2, 6, -0.5, false},
		{"constant field", 3, 3, 3, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeFeature(tt.value, tt.min, tt.max)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrDegenerateRange)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestNormalizerMinMaxRoundTrip(t *testing.T) {
	table := fixtureTable(t)
	schema := table.Schema()
	n, err := NewMinMaxNormalizer(table)
	require.NoError(t, err)

	mins := make([]float64, schema.Len())
	maxs := make([]float64, schema.Len())
	for j := range mins {
		mins[j] = float64(j + 1)
		maxs[j] = float64(4 * (j + 1))
	}

	low, err := input.NewVector(schema, mins)
	require.NoError(t, err)
	scaledLow, err := n.Normalize(low)
	require.NoError(t, err)

	high, err := input.NewVector(schema, maxs)
	require.NoError(t, err)
	scaledHigh, err := n.Normalize(high)
	require.NoError(t, err)

	for j, key := range schema.Keys() {
		assert.Equal(t, key, scaledLow.Keys[j])
		assert.InDelta(t, 0.0, scaledLow.Values[j], 1e-12, key)
		assert.InDelta(t, 1.0, scaledHigh.Values[j], 1e-12, key)
	}
}

func TestNormalizerStaysInUnitRange(t *testing.T) {
	table := fixtureTable(t)
	n, err := NewMinMaxNormalizer(table)
	require.NoError(t, err)

	// every dataset row lies within [min, max] by construction
	for _, rec := range table.Records() {
		v, err := input.NewVector(table.Schema(), rec.Values)
		require.NoError(t, err)
		scaled, err := n.Normalize(v)
		require.NoError(t, err)
		for _, value := range scaled.Values {
			assert.GreaterOrEqual(t, value, 0.0)
			assert.LessOrEqual(t, value, 1.0)
		}
	}

	stats := n.FeatureStats()
	assert.Equal(t, [2]float64{4, 16}, stats["area_mean"])
}

func TestNormalizerBelowMinimumGoesNegative(t *testing.T) {
	table := fixtureTable(t)
	n, err := NewMinMaxNormalizer(table)
	require.NoError(t, err)

	zeros, err := input.NewVector(table.Schema(), make([]float64, table.Schema().Len()))
	require.NoError(t, err)
	scaled, err := n.Normalize(zeros)
	require.NoError(t, err)

	radius, ok := scaled.Get("radius_mean")
	require.True(t, ok)
	assert.InDelta(t, -1.0/3.0, radius, 1e-12)
}

func TestNormalizerConstantField(t *testing.T) {
	schema := dataset.DefaultSchema()
	records := make([]dataset.Record, 2)
	for i := range records {
		values := make([]float64, schema.Len())
		for j := range values {
			values[j] = float64((i + 1) * (j + 1))
		}
		// smoothness_se never varies
		values[14] = 0.007
		records[i] = dataset.Record{Values: values}
	}
	table, err := dataset.NewTable(schema, records)
	require.NoError(t, err)

	n, err := NewMinMaxNormalizer(table)
	require.NoError(t, err)

	v, err := input.NewVector(schema, records[0].Values)
	require.NoError(t, err)
	_, err = n.Normalize(v)
	require.ErrorIs(t, err, ErrDegenerateRange)
	assert.Contains(t, err.Error(), "smoothness_se")
}

func TestNormalizerRejectsReorderedVector(t *testing.T) {
	table := fixtureTable(t)
	n, err := NewMinMaxNormalizer(table)
	require.NoError(t, err)

	fields := table.Schema().Fields()
	fields[0], fields[1] = fields[1], fields[0]
	swapped := dataset.NewSchema(fields)

	v, err := input.NewVector(swapped, table.Records()[0].Values)
	require.NoError(t, err)
	_, err = n.Normalize(v)
	require.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "radius_mean")

	// an equal but distinct schema is accepted
	same, err := input.NewVector(dataset.NewSchema(table.Schema().Fields()), table.Records()[0].Values)
	require.NoError(t, err)
	_, err = n.Normalize(same)
	assert.NoError(t, err)
}
