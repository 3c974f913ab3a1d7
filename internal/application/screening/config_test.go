package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SakuraScope/internal/config"
)

func TestConfigFrom_DefaultSection(t *testing.T) {
	cfg := ConfigFrom(config.NewDefaultConfig().Screening)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3.5, cfg.MinRating)
	assert.Equal(t, 70.0, cfg.QualityThreshold)
}

func TestConfigFrom_ZeroKeepsDefaults(t *testing.T) {
	assert.Equal(t, DefaultConfig(), ConfigFrom(config.ScreeningConfig{}))
}

func TestConfigFrom_Overrides(t *testing.T) {
	cfg := ConfigFrom(config.ScreeningConfig{
		MinRating:          4,
		MinReviews:         10,
		MaxPrice:           9000,
		SuspicionThreshold: 0.5,
		MaxResults:         5,
		Concurrency:        1,
	})
	assert.Equal(t, 4.0, cfg.MinRating)
	assert.Equal(t, 10, cfg.MinReviews)
	assert.Equal(t, 1000.0, cfg.MinPrice)
	assert.Equal(t, 9000.0, cfg.MaxPrice)
	assert.Equal(t, 0.5, cfg.SuspicionThreshold)
	assert.Equal(t, 5, cfg.MaxResults)
	assert.Equal(t, 1, cfg.Concurrency)
}

//Personal.AI order the ending
