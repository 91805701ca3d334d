package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beamsolve/piece"
)

func TestDefaultMatchesSpecValues(t *testing.T) {
	d := Default()
	assert.Equal(t, 9041, d.TotalKeep)
	assert.Equal(t, 0.163, d.ScoreKeepRatio)
	assert.Equal(t, []float64{0.3, 0.5, 0.7, 0.9}, d.ScoreParentQuota)
	assert.Equal(t, 0.210, d.ScoreHeightQuota)
	assert.Equal(t, 0.355, d.QualityHeightQuota)
	assert.Equal(t, 2200, d.IgnoreScoreThreshold)
	assert.Equal(t, 6, d.IgnoreHeightThreshold)
	assert.Equal(t, 458, d.QualityRowTransitionPenalty)
	assert.Equal(t, 0, d.QualityColTransitionPenalty)
	assert.Equal(t, 1080, d.QualityEmptyPenalty)
	assert.Equal(t, 0, d.QualityEmptyPenalty2)
}

func TestLoadWithNoFlagsetUsesDefaults(t *testing.T) {
	c, err := Load(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Default().TotalKeep, c.TotalKeep)
	assert.Len(t, c.AbortThreshold, piece.Steps)
}

func TestLoadParsesFlagOverride(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c, err := Load(fs, []string{"--total_keep=500"})
	require.NoError(t, err)
	assert.Equal(t, 500, c.TotalKeep)
}

func TestValidateRejectsNegativeTotalKeep(t *testing.T) {
	c := Default()
	c.TotalKeep = -1
	assert.Error(t, c.Validate())
}

func TestValidateRejectsBadRatio(t *testing.T) {
	c := Default()
	c.ScoreKeepRatio = 1.5
	assert.Error(t, c.Validate())
}

func TestValidateRejectsWrongQuotaLength(t *testing.T) {
	c := Default()
	c.ScoreParentQuota = []float64{0.1, 0.2}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsOversizedAbortThreshold(t *testing.T) {
	c := Default()
	c.AbortThreshold = make([]int, piece.Steps+1)
	assert.Error(t, c.Validate())
}

func TestValidateRejectsOutOfRangeCollectorMemoryFraction(t *testing.T) {
	c := Default()
	c.CollectorMemoryFraction = 1.5
	assert.Error(t, c.Validate())
}

func TestScoreAndQualityKeepCountsSumToTotal(t *testing.T) {
	c := Default()
	assert.Equal(t, c.TotalKeep, c.ScoreKeepCount()+c.QualityKeepCount())
}

func TestQualityWeightsMapsFields(t *testing.T) {
	c := Default()
	qw := c.QualityWeights()
	assert.Equal(t, c.QualityRowTransitionPenalty, qw.RowTransitionPenalty)
	assert.Equal(t, c.QualityEmptyPenalty, qw.EmptyPenalty)
}
