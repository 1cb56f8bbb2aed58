package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalerFitTransform(t *testing.T) {
	samples := [][]float64{
		{1, 10},
		{3, 10},
	}

	scaler := &StandardScaler{}
	require.NoError(t, scaler.Fit(samples))

	assert.InDelta(t, 2.0, scaler.Mean[0], 1e-9)
	assert.InDelta(t, 1.0, scaler.Scale[0], 1e-9)
	// Zero-variance feature keeps unit scale.
	assert.InDelta(t, 10.0, scaler.Mean[1], 1e-9)
	assert.Equal(t, 1.0, scaler.Scale[1])

	scaled, err := scaler.Transform([]float64{3, 10})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, scaled[0], 1e-9)
	assert.InDelta(t, 0.0, scaled[1], 1e-9)
}

func TestScalerTransformAll(t *testing.T) {
	samples := [][]float64{
		{0}, {2}, {4},
	}

	scaler := &StandardScaler{}
	require.NoError(t, scaler.Fit(samples))

	scaled, err := scaler.TransformAll(samples)
	require.NoError(t, err)
	require.Len(t, scaled, 3)

	// Standardized values sum to zero.
	sum := scaled[0][0] + scaled[1][0] + scaled[2][0]
	assert.InDelta(t, 0.0, sum, 1e-9)
}

func TestScalerErrors(t *testing.T) {
	scaler := &StandardScaler{}
	assert.Error(t, scaler.Fit(nil))

	require.NoError(t, scaler.Fit([][]float64{{1, 2}, {3, 4}}))

	_, err := scaler.Transform([]float64{1})
	assert.Error(t, err)

	assert.Error(t, scaler.Fit([][]float64{{1, 2}, {3}}))
}
