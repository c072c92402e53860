// Package weighting maps a game to the scalar weight applied to it by the
// rating methods.
package weighting

import (
	"fmt"
	"math"
)

// Options configures how games are weighted. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// WeightHomeWin multiplies games won by the home team.
	WeightHomeWin float64 `koanf:"weight_home_win" json:"weight_home_win"`
	// WeightAwayWin multiplies games won by the visiting team.
	WeightAwayWin float64 `koanf:"weight_away_win" json:"weight_away_win"`
	// WeightNeutralWin multiplies games played at a neutral site.
	WeightNeutralWin float64 `koanf:"weight_neutral_win" json:"weight_neutral_win"`
	// UseTimeWeights enables segment weighting.
	UseTimeWeights bool `koanf:"use_time_weights" json:"use_time_weights"`
	// SegmentWeights holds one weight per equal-length segment of the season.
	SegmentWeights []float64 `koanf:"segment_weights" json:"segment_weights"`
}

// DefaultOptions returns unit weights with a single time segment.
func DefaultOptions() Options {
	return Options{
		WeightHomeWin:    1,
		WeightAwayWin:    1,
		WeightNeutralWin: 1,
		UseTimeWeights:   true,
		SegmentWeights:   []float64{1},
	}
}

// Validate checks the options once at the boundary of the rating engine.
func (o Options) Validate() error {
	site := map[string]float64{
		"weight_home_win":    o.WeightHomeWin,
		"weight_away_win":    o.WeightAwayWin,
		"weight_neutral_win": o.WeightNeutralWin,
	}
	for name, w := range site {
		if err := checkWeight(w); err != nil {
			return fmt.Errorf("%w: %s %v", ErrConfiguration, name, err)
		}
	}
	if len(o.SegmentWeights) == 0 {
		return fmt.Errorf("%w: segment_weights must hold at least one weight", ErrConfiguration)
	}
	for i, w := range o.SegmentWeights {
		if err := checkWeight(w); err != nil {
			return fmt.Errorf("%w: segment_weights[%d] %v", ErrConfiguration, i, err)
		}
	}
	return nil
}

// Clone returns a copy that does not share the segment slice.
func (o Options) Clone() Options {
	c := o
	c.SegmentWeights = append([]float64(nil), o.SegmentWeights...)
	return c
}

func checkWeight(w float64) error {
	switch {
	case math.IsNaN(w) || math.IsInf(w, 0):
		return fmt.Errorf("must be finite, got %v", w)
	case w < 0:
		return fmt.Errorf("must not be negative, got %v", w)
	}
	return nil
}
