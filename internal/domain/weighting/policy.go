package weighting

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/madness/internal/domain/model"
)

// Policy computes per-game weights for one season. Build it with NewPolicy;
// it holds no mutable state and may be reused for every game of the season.
type Policy struct {
	opts            Options
	dayBeforeSeason int
	lastDay         int
	firstDate       time.Time
}

// NewPolicy validates opts and derives the season's day range from the first
// and last games. Games must be sorted by day.
func NewPolicy(games []model.Game, opts Options) (*Policy, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: season has no games", ErrConfiguration)
	}
	p := &Policy{
		opts:            opts.Clone(),
		dayBeforeSeason: games[0].Day - 1,
		lastDay:         games[len(games)-1].Day,
		firstDate:       games[0].Date,
	}
	// A season whose last day precedes its first cannot be split into segments.
	if p.opts.UseTimeWeights && p.lastDay <= p.dayBeforeSeason {
		return nil, fmt.Errorf("%w: season spans days %d..%d, cannot split into %d segments",
			ErrConfiguration, p.dayBeforeSeason+1, p.lastDay, len(p.opts.SegmentWeights))
	}
	return p, nil
}

// Options returns the options the policy was built with.
func (p *Policy) Options() Options { return p.opts.Clone() }

// SegmentIndex returns the zero-based time segment that day falls in.
// Days before the season map to segment 0 and days after it to the last one.
func (p *Policy) SegmentIndex(day int) int {
	n := len(p.opts.SegmentWeights)
	span := float64(p.lastDay - p.dayBeforeSeason)
	if span <= 0 {
		return 0
	}
	idx := int(math.Ceil(float64(n)*float64(day-p.dayBeforeSeason)/span)) - 1
	return clamp(idx, 0, n-1)
}

// TimeWeight returns the segment weight for day, or 1 when time weighting is off.
func (p *Policy) TimeWeight(day int) float64 {
	if !p.opts.UseTimeWeights {
		return 1
	}
	return p.opts.SegmentWeights[p.SegmentIndex(day)]
}

// SiteWeight returns the multiplier for where the winning team played.
func (p *Policy) SiteWeight(h model.Homefield) float64 {
	switch h {
	case model.Home:
		return p.opts.WeightHomeWin
	case model.Away:
		return p.opts.WeightAwayWin
	default:
		return p.opts.WeightNeutralWin
	}
}

// Weight returns the scalar applied to g's contribution to the rating system.
func (p *Policy) Weight(g model.Game) float64 {
	return p.SiteWeight(g.WinnerHomefield()) * p.TimeWeight(g.Day)
}

// Segment describes the days covered by one time weight.
type Segment struct {
	Index     int       `json:"index"`
	StartDay  int       `json:"start_day"`
	EndDay    int       `json:"end_day"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Weight    float64   `json:"weight"`
}

// Segments lists the day window of every configured segment. A segment may be
// empty (StartDay > EndDay) when there are more segments than season days.
func (p *Policy) Segments() []Segment {
	n := len(p.opts.SegmentWeights)
	out := make([]Segment, n)
	for i := range out {
		out[i] = Segment{Index: i, StartDay: math.MaxInt, EndDay: math.MinInt, Weight: p.opts.SegmentWeights[i]}
		if !p.opts.UseTimeWeights {
			out[i].Weight = 1
		}
	}
	for day := p.dayBeforeSeason + 1; day <= p.lastDay; day++ {
		s := &out[p.SegmentIndex(day)]
		s.StartDay = min(s.StartDay, day)
		s.EndDay = max(s.EndDay, day)
	}
	for i := range out {
		if out[i].StartDay > out[i].EndDay {
			out[i].StartDay, out[i].EndDay = 0, -1
			continue
		}
		if !p.firstDate.IsZero() {
			first := p.dayBeforeSeason + 1
			out[i].StartDate = p.firstDate.AddDate(0, 0, out[i].StartDay-first)
			out[i].EndDate = p.firstDate.AddDate(0, 0, out[i].EndDay-first)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
