package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SakuraScope/internal/intelligence/sakura"
	"github.com/turtacn/SakuraScope/pkg/errors"
)

func TestHeuristics_Distribution(t *testing.T) {
	out, err := runCLI(t, "", "-o", "json", "heuristics", "distribution", "10,25,45,65,55")
	require.NoError(t, err)

	var got DistributionOutput
	decodeOutput(t, out, &got)
	assert.Equal(t, []int{10, 25, 45, 65, 55}, got.Distribution)
	assert.InDelta(t, sakura.CalculateDistributionBias(got.Distribution), got.Bias, 1e-12)
	assert.Greater(t, got.Bias, 0.0)
	assert.Less(t, got.Bias, 1.0)

	out, err = runCLI(t, "", "heuristics", "distribution", "0, 0, 0, 0, 0")
	require.NoError(t, err)
	assert.Contains(t, out, "bias 0.000")
}

func TestHeuristics_DistributionErrors(t *testing.T) {
	for _, arg := range []string{"1,2,3,4", "1,2,3,4,5,6", "1,2,x,4,5", "1,-2,3,4,5"} {
		_, err := runCLI(t, "", "heuristics", "distribution", arg)
		require.Error(t, err, arg)
		assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest), arg)
	}

	_, err := runCLI(t, "", "heuristics", "distribution")
	assert.Error(t, err)
}

func TestHeuristics_Merchant(t *testing.T) {
	tests := []struct {
		ratings string
		want    float64
	}{
		{"4.2,3.9,4.5,4.1", sakura.MerchantReliabilityNormal},
		{"4.9,4.8,5.0", sakura.MerchantReliabilityTooGood},
		{"2.1,2.5", sakura.MerchantReliabilityPoor},
		{"4.0,4.0,4.0", sakura.MerchantReliabilityTooUniform},
		{"", sakura.MerchantReliabilityUnknown},
	}
	for _, tt := range tests {
		out, err := runCLI(t, "", "-o", "json", "heuristics", "merchant", tt.ratings)
		require.NoError(t, err, tt.ratings)

		var got MerchantOutput
		decodeOutput(t, out, &got)
		assert.Equal(t, tt.want, got.Reliability, tt.ratings)
	}
}

func TestHeuristics_MerchantErrors(t *testing.T) {
	for _, arg := range []string{"4.5,0.5", "4.5,5.5", "4.5,abc"} {
		_, err := runCLI(t, "", "heuristics", "merchant", arg)
		require.Error(t, err, arg)
		assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest), arg)
	}
}

//Personal.AI order the ending
