// Package config loads and validates the planner's tuning knobs from
// flags, environment variables, and an optional config file, using Viper
// to merge the three with precedence flag > env > file > default.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"beamsolve/board"
	"beamsolve/piece"
)

// Config holds every tuning knob the planner's external interfaces expose.
type Config struct {
	TotalKeep          int       `mapstructure:"total_keep"`
	ScoreKeepRatio     float64   `mapstructure:"score_keep_ratio"`
	ScoreParentQuota   []float64 `mapstructure:"score_parent_quota"`
	ScoreHeightQuota   float64   `mapstructure:"score_height_quota"`
	QualityParentQuota []float64 `mapstructure:"quality_parent_quota"`
	QualityHeightQuota float64   `mapstructure:"quality_height_quota"`

	IgnoreScoreThreshold  int `mapstructure:"ignore_score_threshold"`
	IgnoreHeightThreshold int `mapstructure:"ignore_height_threshold"`

	QualityRowTransitionPenalty int `mapstructure:"quality_row_transition_penalty"`
	QualityColTransitionPenalty int `mapstructure:"quality_col_transition_penalty"`
	QualityEmptyPenalty         int `mapstructure:"quality_empty_penalty"`
	QualityEmptyPenalty2        int `mapstructure:"quality_empty_penalty2"`

	// AbortThreshold is zero-padded to piece.Steps on load; a zero entry
	// means "no floor at that step".
	AbortThreshold []int `mapstructure:"abort_threshold"`

	Threads int `mapstructure:"threads"`

	// CollectorMemoryFraction sizes each layer's dedup collector's
	// per-shard map capacity from this fraction of total system memory,
	// instead of letting Go's map grow/rehash organically. Zero disables
	// the pre-sizing.
	CollectorMemoryFraction float64 `mapstructure:"collector_memory_fraction"`
}

// Default returns the out-of-the-box configuration.
func Default() Config {
	return Config{
		TotalKeep:                   9041,
		ScoreKeepRatio:              0.163,
		ScoreParentQuota:            []float64{0.3, 0.5, 0.7, 0.9},
		ScoreHeightQuota:            0.210,
		QualityParentQuota:          []float64{0.3, 0.5, 0.7, 0.9},
		QualityHeightQuota:          0.355,
		IgnoreScoreThreshold:        2200,
		IgnoreHeightThreshold:       6,
		QualityRowTransitionPenalty: 458,
		QualityColTransitionPenalty: 0,
		QualityEmptyPenalty:         1080,
		QualityEmptyPenalty2:        0,
		AbortThreshold:              nil,
		Threads:                     8,
		CollectorMemoryFraction:     0.01,
	}
}

// Load merges, in increasing precedence, the defaults, an optional
// beamsolve.yaml config file found on the Viper search path, environment
// variables under the BEAMSOLVE_ prefix, and flags parsed from args. fs
// may be nil to skip flag binding entirely (e.g. the Lambda entry point,
// which only ever merges file/env/default). The result is validated
// before being returned.
func Load(fs *pflag.FlagSet, args []string) (Config, error) {
	v := viper.New()
	def := Default()

	v.SetDefault("total_keep", def.TotalKeep)
	v.SetDefault("score_keep_ratio", def.ScoreKeepRatio)
	v.SetDefault("score_parent_quota", def.ScoreParentQuota)
	v.SetDefault("score_height_quota", def.ScoreHeightQuota)
	v.SetDefault("quality_parent_quota", def.QualityParentQuota)
	v.SetDefault("quality_height_quota", def.QualityHeightQuota)
	v.SetDefault("ignore_score_threshold", def.IgnoreScoreThreshold)
	v.SetDefault("ignore_height_threshold", def.IgnoreHeightThreshold)
	v.SetDefault("quality_row_transition_penalty", def.QualityRowTransitionPenalty)
	v.SetDefault("quality_col_transition_penalty", def.QualityColTransitionPenalty)
	v.SetDefault("quality_empty_penalty", def.QualityEmptyPenalty)
	v.SetDefault("quality_empty_penalty2", def.QualityEmptyPenalty2)
	v.SetDefault("abort_threshold", def.AbortThreshold)
	v.SetDefault("threads", def.Threads)
	v.SetDefault("collector_memory_fraction", def.CollectorMemoryFraction)

	v.SetConfigName("beamsolve")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, fmt.Errorf("config: reading beamsolve.yaml: %w", err)
		}
	}

	v.SetEnvPrefix("beamsolve")
	v.AutomaticEnv()

	if fs != nil {
		registerFlags(fs, def)
		if err := fs.Parse(args); err != nil {
			return Config{}, fmt.Errorf("config: parsing flags: %w", err)
		}
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("config: binding flags: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	c.AbortThreshold = padAbortThreshold(c.AbortThreshold)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func registerFlags(fs *pflag.FlagSet, def Config) {
	fs.Int("total_keep", def.TotalKeep, "total survivors kept per layer")
	fs.Float64("score_keep_ratio", def.ScoreKeepRatio, "fraction of total_keep reserved for the score-ordered pass")
	fs.Float64Slice("score_parent_quota", def.ScoreParentQuota, "4-entry ancestor diversity quota for the score-ordered pass")
	fs.Float64("score_height_quota", def.ScoreHeightQuota, "height diversity quota for the score-ordered pass")
	fs.Float64Slice("quality_parent_quota", def.QualityParentQuota, "4-entry ancestor diversity quota for the quality-ordered pass")
	fs.Float64("quality_height_quota", def.QualityHeightQuota, "height diversity quota for the quality-ordered pass")
	fs.Int("ignore_score_threshold", def.IgnoreScoreThreshold, "pre-prune score-below-max margin")
	fs.Int("ignore_height_threshold", def.IgnoreHeightThreshold, "pre-prune height-below-max margin")
	fs.Int("quality_row_transition_penalty", def.QualityRowTransitionPenalty, "quality: per-cell horizontal transition penalty")
	fs.Int("quality_col_transition_penalty", def.QualityColTransitionPenalty, "quality: per-cell vertical transition penalty")
	fs.Int("quality_empty_penalty", def.QualityEmptyPenalty, "quality: per-hole penalty")
	fs.Int("quality_empty_penalty2", def.QualityEmptyPenalty2, "quality: per-overhang penalty")
	fs.IntSlice("abort_threshold", def.AbortThreshold, "optional per-step minimum score floor, zero-padded to the full sequence")
	fs.Int("threads", def.Threads, "fixed worker pool size")
	fs.Float64("collector_memory_fraction", def.CollectorMemoryFraction, "fraction of system memory used to pre-size each layer's dedup collector")
}

func padAbortThreshold(in []int) []int {
	out := make([]int, piece.Steps)
	copy(out, in)
	return out
}

// Validate rejects out-of-range tuning values before a run starts.
func (c Config) Validate() error {
	if c.TotalKeep < 0 {
		return fmt.Errorf("config: total_keep must be >= 0, got %d", c.TotalKeep)
	}
	if c.ScoreKeepRatio < 0 || c.ScoreKeepRatio > 1 {
		return fmt.Errorf("config: score_keep_ratio must be in [0,1], got %v", c.ScoreKeepRatio)
	}
	if len(c.ScoreParentQuota) != 4 {
		return fmt.Errorf("config: score_parent_quota must have exactly 4 entries, got %d", len(c.ScoreParentQuota))
	}
	if len(c.QualityParentQuota) != 4 {
		return fmt.Errorf("config: quality_parent_quota must have exactly 4 entries, got %d", len(c.QualityParentQuota))
	}
	if c.ScoreHeightQuota < 0 || c.QualityHeightQuota < 0 {
		return fmt.Errorf("config: height quotas must be >= 0")
	}
	if len(c.AbortThreshold) > piece.Steps {
		return fmt.Errorf("config: abort_threshold longer than %d steps", piece.Steps)
	}
	if c.Threads <= 0 {
		return fmt.Errorf("config: threads must be > 0, got %d", c.Threads)
	}
	if c.CollectorMemoryFraction < 0 || c.CollectorMemoryFraction > 1 {
		return fmt.Errorf("config: collector_memory_fraction must be in [0,1], got %v", c.CollectorMemoryFraction)
	}
	return nil
}

// ScoreKeepCount and QualityKeepCount are the derived per-pass keep
// counts the selector splits TotalKeep into.
func (c Config) ScoreKeepCount() int {
	return int(float64(c.TotalKeep) * c.ScoreKeepRatio)
}

func (c Config) QualityKeepCount() int {
	return c.TotalKeep - c.ScoreKeepCount()
}

// QualityWeights adapts the quality_* knobs to board.QualityWeights.
func (c Config) QualityWeights() board.QualityWeights {
	return board.QualityWeights{
		RowTransitionPenalty: c.QualityRowTransitionPenalty,
		ColTransitionPenalty: c.QualityColTransitionPenalty,
		EmptyPenalty:         c.QualityEmptyPenalty,
		EmptyPenalty2:        c.QualityEmptyPenalty2,
	}
}
