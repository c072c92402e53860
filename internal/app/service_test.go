package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/madness/internal/app"
	"github.com/okian/madness/internal/domain/bracket"
	"github.com/okian/madness/internal/domain/model"
	"github.com/okian/madness/internal/domain/rating"
	"github.com/okian/madness/internal/domain/types"
	"github.com/okian/madness/internal/domain/weighting"
)

type fakeSource struct {
	teams []model.Team
	games []model.Game
	err   error
	loads int32
}

func (f *fakeSource) Teams(context.Context) ([]model.Team, error) {
	atomic.AddInt32(&f.loads, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.teams, nil
}

func (f *fakeSource) Games(context.Context) ([]model.Game, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.games, nil
}

type fakeBracket struct {
	regions []bracket.Region
}

func (f fakeBracket) Bracket(context.Context) ([]bracket.Game, error) {
	return bracket.Build(f.regions, nil)
}

func day(d int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d-1)
}

func win(d, w, l int) model.Game {
	return model.Game{Day: d, Date: day(d), Team1ID: w, Team1Score: 70, Team2ID: l, Team2Score: 60}
}

// A beats everyone, B beats C and D, C beats D.
func newSource() *fakeSource {
	return &fakeSource{
		teams: []model.Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}},
		games: []model.Game{
			win(1, 1, 2), win(1, 3, 4),
			win(2, 1, 3), win(2, 2, 4),
			win(3, 1, 4), win(3, 2, 3),
		},
	}
}

// Seeds run against the ratings: D is the top seed.
var upsideDown = fakeBracket{regions: []bracket.Region{{
	Name: "Only",
	Games: []bracket.Matchup{
		{Team1Seed: 1, Team1Name: "D", Team2Seed: 4, Team2Name: "A"},
		{Team1Seed: 2, Team1Name: "C", Team2Seed: 3, Team2Name: "B"},
	},
}}}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		src := newSource()
		svc := service.New(src)
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			So(err, ShouldBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["lastRefresh"], ShouldNotBeEmpty)

			Convey("And stopping it", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("Start tolerates a failing feed", func() {
			src.err = errors.New("feed down")
			So(svc.Start(context.Background()), ShouldBeNil)
			_, hasRefresh := svc.GetStats()["lastRefresh"]
			So(hasRefresh, ShouldBeFalse)
		})
	})
}

func TestService_Ratings(t *testing.T) {
	Convey("Given a service over a small round robin", t, func() {
		src := newSource()
		svc := service.New(src)
		ctx := context.Background()

		Convey("Default ratings use Colley and rank A first", func() {
			res, err := svc.Ratings(ctx, types.RatingsRequest{})

			So(err, ShouldBeNil)
			So(res.Algorithm, ShouldEqual, model.Colley)
			So(res.Teams, ShouldEqual, 4)
			So(res.Games, ShouldEqual, 6)
			So(len(res.Ratings), ShouldEqual, 4)
			So(res.Ratings[0].Team, ShouldEqual, "A")
			So(res.Ratings[3].Team, ShouldEqual, "D")
			So(res.Ratings[0].Rank, ShouldEqual, 1)
		})

		Convey("Massey agrees on the order and Limit truncates", func() {
			res, err := svc.Ratings(ctx, types.RatingsRequest{Algorithm: model.Massey, Limit: 2})

			So(err, ShouldBeNil)
			So(res.Algorithm, ShouldEqual, model.Massey)
			So(len(res.Ratings), ShouldEqual, 2)
			So(res.Ratings[0].Team, ShouldEqual, "A")
			So(res.Ratings[1].Team, ShouldEqual, "B")
		})

		Convey("Repeated requests are served from the cache", func() {
			_, _ = svc.Ratings(ctx, types.RatingsRequest{})
			_, _ = svc.Ratings(ctx, types.RatingsRequest{})
			So(atomic.LoadInt32(&src.loads), ShouldEqual, 1)

			Convey("Until Refresh reloads the feed", func() {
				So(svc.Refresh(ctx), ShouldBeNil)
				So(atomic.LoadInt32(&src.loads), ShouldEqual, 2)
			})
		})

		Convey("Invalid requests are rejected", func() {
			_, err := svc.Ratings(ctx, types.RatingsRequest{Algorithm: "elo"})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)

			_, err = svc.Ratings(ctx, types.RatingsRequest{Limit: -1})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)

			bad := weighting.DefaultOptions()
			bad.SegmentWeights = nil
			_, err = svc.Ratings(ctx, types.RatingsRequest{Options: &bad})
			So(errors.Is(err, weighting.ErrConfiguration), ShouldBeTrue)
		})

		Convey("Data integrity errors surface from the engine", func() {
			src.games = append(src.games, model.Game{Day: 4, Date: day(4), Team1ID: 1, Team1Score: 50, Team2ID: 9, Team2Score: 40})
			_, err := svc.Ratings(ctx, types.RatingsRequest{})
			So(errors.Is(err, rating.ErrDataIntegrity), ShouldBeTrue)
		})

		Convey("Feed failures are returned", func() {
			src.err = errors.New("feed down")
			_, err := svc.Ratings(ctx, types.RatingsRequest{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "feed down")
		})
	})
}

func TestService_RatingsFollowGamesReload(t *testing.T) {
	Convey("Given cached ratings older than the games table", t, func() {
		now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		src := newSource()
		svc := service.New(src,
			service.WithCacheTTL(time.Minute),
			service.WithClock(func() time.Time { return now }),
		)
		ctx := context.Background()

		// Games load at t0, ratings are computed at t0+30s.
		_, err := svc.Segments(ctx, nil)
		So(err, ShouldBeNil)
		now = now.Add(30 * time.Second)
		res, err := svc.Ratings(ctx, types.RatingsRequest{})
		So(err, ShouldBeNil)
		So(res.Ratings[0].Team, ShouldEqual, "A")

		Convey("When the games expire and reload with new results", func() {
			// D beats everyone, C beats A and B, B beats A.
			src.games = []model.Game{
				win(1, 2, 1), win(1, 4, 3),
				win(2, 3, 1), win(2, 4, 2),
				win(3, 4, 1), win(3, 3, 2),
			}
			now = now.Add(40 * time.Second)

			res, err := svc.Ratings(ctx, types.RatingsRequest{})

			Convey("Then the ratings are recomputed from them", func() {
				So(err, ShouldBeNil)
				So(res.Ratings[0].Team, ShouldEqual, "D")
				So(res.Ratings[3].Team, ShouldEqual, "A")
			})
		})
	})
}

func TestService_SimulateBracket(t *testing.T) {
	Convey("Given a service with a bracket", t, func() {
		svc := service.New(newSource(),
			service.WithBracketSource(upsideDown),
			service.WithRunIDs(func() string { return "run-1" }),
		)
		ctx := context.Background()

		Convey("The seed decider crowns the top seed", func() {
			res, err := svc.SimulateBracket(ctx, types.SimulationRequest{Decider: "seed"})

			So(err, ShouldBeNil)
			So(res.RunID, ShouldEqual, "run-1")
			So(res.Champion, ShouldEqual, "D")
			So(res.ChampionSeed, ShouldEqual, 1)
			So(len(res.Games), ShouldEqual, 3)
		})

		Convey("The rating decider crowns the best rated team", func() {
			res, err := svc.SimulateBracket(ctx, types.SimulationRequest{Decider: "rating", Algorithm: model.Massey})

			So(err, ShouldBeNil)
			So(res.Champion, ShouldEqual, "A")
			So(res.Algorithm, ShouldEqual, model.Massey)
			So(svc.GetStats()["simulations"], ShouldEqual, 1)
		})

		Convey("An unknown decider is rejected", func() {
			_, err := svc.SimulateBracket(ctx, types.SimulationRequest{Decider: "coin"})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
		})
	})

	Convey("Given a service without a bracket", t, func() {
		svc := service.New(newSource())
		_, err := svc.SimulateBracket(context.Background(), types.SimulationRequest{})
		So(errors.Is(err, service.ErrNoBracket), ShouldBeTrue)
	})

	Convey("Given a bracket naming an unrated team", t, func() {
		svc := service.New(newSource(), service.WithBracketSource(fakeBracket{regions: []bracket.Region{{
			Name:  "Only",
			Games: []bracket.Matchup{{Team1Seed: 1, Team1Name: "A", Team2Seed: 2, Team2Name: "Z"}},
		}}}))
		_, err := svc.SimulateBracket(context.Background(), types.SimulationRequest{Decider: "rating"})
		So(errors.Is(err, bracket.ErrLookup), ShouldBeTrue)
	})
}

func TestService_Segments(t *testing.T) {
	Convey("Given a three day season", t, func() {
		svc := service.New(newSource())
		opts := weighting.DefaultOptions()
		opts.SegmentWeights = []float64{1, 2, 3}

		res, err := svc.Segments(context.Background(), &opts)

		So(err, ShouldBeNil)
		So(len(res.Segments), ShouldEqual, 3)
		So(res.Segments[0].StartDay, ShouldEqual, 1)
		So(res.Segments[2].EndDay, ShouldEqual, 3)
		So(res.Segments[2].Weight, ShouldEqual, 3)
	})
}
