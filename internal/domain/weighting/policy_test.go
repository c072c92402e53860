package weighting_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/madness/internal/domain/model"
	"github.com/okian/madness/internal/domain/weighting"
	. "github.com/smartystreets/goconvey/convey"
)

func game(day int, hf1 model.Homefield, s1 int, hf2 model.Homefield, s2 int) model.Game {
	return model.Game{
		Day: day, Team1ID: 1, Team1Homefield: hf1, Team1Score: s1,
		Team2ID: 2, Team2Homefield: hf2, Team2Score: s2,
	}
}

func season(days ...int) []model.Game {
	games := make([]model.Game, len(days))
	for i, d := range days {
		games[i] = game(d, model.Neutral, 70, model.Neutral, 60)
	}
	return games
}

func TestOptionsValidate(t *testing.T) {
	Convey("Given default options", t, func() {
		opts := weighting.DefaultOptions()

		Convey("Then they are valid", func() {
			So(opts.Validate(), ShouldBeNil)
			So(opts.SegmentWeights, ShouldResemble, []float64{1})
		})

		Convey("When segment weights are empty", func() {
			opts.SegmentWeights = nil
			err := opts.Validate()
			So(errors.Is(err, weighting.ErrConfiguration), ShouldBeTrue)
		})

		Convey("When a site weight is negative", func() {
			opts.WeightAwayWin = -0.5
			err := opts.Validate()
			So(errors.Is(err, weighting.ErrConfiguration), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "weight_away_win")
		})

		Convey("When a segment weight is NaN", func() {
			opts.SegmentWeights = []float64{1, math.NaN()}
			err := opts.Validate()
			So(errors.Is(err, weighting.ErrConfiguration), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "segment_weights[1]")
		})
	})
}

func TestNewPolicy(t *testing.T) {
	Convey("Given a season", t, func() {
		Convey("When there are no games", func() {
			_, err := weighting.NewPolicy(nil, weighting.DefaultOptions())
			So(errors.Is(err, weighting.ErrConfiguration), ShouldBeTrue)
		})

		Convey("When the last game precedes the first", func() {
			_, err := weighting.NewPolicy(season(10, 8), weighting.DefaultOptions())
			So(errors.Is(err, weighting.ErrConfiguration), ShouldBeTrue)
		})

		Convey("When the range is empty but time weighting is off", func() {
			opts := weighting.DefaultOptions()
			opts.UseTimeWeights = false
			p, err := weighting.NewPolicy(season(10, 8), opts)
			So(err, ShouldBeNil)
			So(p.TimeWeight(10), ShouldEqual, 1)
		})

		Convey("When every game is on one day", func() {
			p, err := weighting.NewPolicy(season(5, 5, 5), weighting.DefaultOptions())
			So(err, ShouldBeNil)
			So(p.SegmentIndex(5), ShouldEqual, 0)
		})
	})
}

func TestPolicySegmentIndex(t *testing.T) {
	Convey("Given a 10 day season split into 2 segments", t, func() {
		opts := weighting.DefaultOptions()
		opts.SegmentWeights = []float64{0.5, 2}
		p, err := weighting.NewPolicy(season(1, 10), opts)
		So(err, ShouldBeNil)

		Convey("Then the first half maps to segment 0", func() {
			So(p.SegmentIndex(1), ShouldEqual, 0)
			So(p.SegmentIndex(5), ShouldEqual, 0)
		})

		Convey("And the second half maps to segment 1", func() {
			So(p.SegmentIndex(6), ShouldEqual, 1)
			So(p.SegmentIndex(10), ShouldEqual, 1)
		})

		Convey("And days outside the season are clamped", func() {
			So(p.SegmentIndex(-3), ShouldEqual, 0)
			So(p.SegmentIndex(0), ShouldEqual, 0)
			So(p.SegmentIndex(42), ShouldEqual, 1)
		})

		Convey("And time weights follow the segment", func() {
			So(p.TimeWeight(2), ShouldEqual, 0.5)
			So(p.TimeWeight(9), ShouldEqual, 2)
		})
	})
}

func TestPolicyWeight(t *testing.T) {
	Convey("Given distinct site weights", t, func() {
		opts := weighting.Options{
			WeightHomeWin:    1.5,
			WeightAwayWin:    2,
			WeightNeutralWin: 0.75,
			UseTimeWeights:   true,
			SegmentWeights:   []float64{1, 3},
		}
		p, err := weighting.NewPolicy(season(1, 10), opts)
		So(err, ShouldBeNil)

		Convey("Then the winner's homefield selects the multiplier", func() {
			So(p.Weight(game(1, model.Home, 80, model.Away, 70)), ShouldEqual, 1.5)
			So(p.Weight(game(1, model.Home, 60, model.Away, 70)), ShouldEqual, 2)
			So(p.Weight(game(1, model.Away, 80, model.Home, 70)), ShouldEqual, 2)
			So(p.Weight(game(1, model.Neutral, 50, model.Neutral, 70)), ShouldEqual, 0.75)
		})

		Convey("And late-season games pick up the segment weight", func() {
			So(p.Weight(game(10, model.Home, 80, model.Away, 70)), ShouldEqual, 4.5)
		})

		Convey("When time weighting is off", func() {
			opts.UseTimeWeights = false
			p, err := weighting.NewPolicy(season(1, 10), opts)
			So(err, ShouldBeNil)
			So(p.Weight(game(10, model.Home, 80, model.Away, 70)), ShouldEqual, 1.5)
		})
	})
}

func TestPolicySegments(t *testing.T) {
	Convey("Given a 9 day season with dates and 3 segments", t, func() {
		start := time.Date(2022, time.November, 7, 0, 0, 0, 0, time.UTC)
		games := season(100, 108)
		games[0].Date = start
		games[1].Date = start.AddDate(0, 0, 8)
		opts := weighting.DefaultOptions()
		opts.SegmentWeights = []float64{1, 1.25, 1.5}

		p, err := weighting.NewPolicy(games, opts)
		So(err, ShouldBeNil)
		segs := p.Segments()

		Convey("Then the days are split evenly", func() {
			So(len(segs), ShouldEqual, 3)
			So(segs[0].StartDay, ShouldEqual, 100)
			So(segs[0].EndDay, ShouldEqual, 102)
			So(segs[1].StartDay, ShouldEqual, 103)
			So(segs[2].EndDay, ShouldEqual, 108)
			So(segs[2].Weight, ShouldEqual, 1.5)
		})

		Convey("And calendar dates follow the days", func() {
			So(segs[0].StartDate.Equal(start), ShouldBeTrue)
			So(segs[2].EndDate.Equal(start.AddDate(0, 0, 8)), ShouldBeTrue)
		})
	})
}
