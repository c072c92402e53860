package model_test

import (
	"testing"

	model "github.com/okian/madness/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestGame(t *testing.T) {
	convey.Convey("Given a game where team 1 wins at home", t, func() {
		g := model.Game{
			Day:            3,
			Team1ID:        1,
			Team1Homefield: model.Home,
			Team1Score:     80,
			Team2ID:        2,
			Team2Homefield: model.Away,
			Team2Score:     70,
		}

		convey.Convey("Then the winner and margin are derived from the scores", func() {
			convey.So(g.Winner(), convey.ShouldEqual, 1)
			convey.So(g.WinnerHomefield(), convey.ShouldEqual, model.Home)
			convey.So(g.Margin(), convey.ShouldEqual, 10)
		})

		convey.Convey("When team 2 wins on the road instead", func() {
			g.Team2Score = 91

			convey.So(g.Winner(), convey.ShouldEqual, 2)
			convey.So(g.WinnerHomefield(), convey.ShouldEqual, model.Away)
			convey.So(g.Margin(), convey.ShouldEqual, 11)
		})
	})
}

func TestParseHomefield(t *testing.T) {
	convey.Convey("Given feed homefield values", t, func() {
		for v, want := range map[int]model.Homefield{1: model.Home, -1: model.Away, 0: model.Neutral} {
			got, err := model.ParseHomefield(v)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, want)
		}

		convey.Convey("When the value is unknown", func() {
			_, err := model.ParseHomefield(2)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("Then values render as words", func() {
			convey.So(model.Home.String(), convey.ShouldEqual, "home")
			convey.So(model.Away.String(), convey.ShouldEqual, "away")
			convey.So(model.Neutral.String(), convey.ShouldEqual, "neutral")
		})
	})
}

func TestParseAlgorithm(t *testing.T) {
	convey.Convey("Given algorithm names", t, func() {
		a, err := model.ParseAlgorithm(" Massey ")
		convey.So(err, convey.ShouldBeNil)
		convey.So(a, convey.ShouldEqual, model.Massey)

		a, err = model.ParseAlgorithm("COLLEY")
		convey.So(err, convey.ShouldBeNil)
		convey.So(a, convey.ShouldEqual, model.Colley)

		_, err = model.ParseAlgorithm("elo")
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestTeamIndex(t *testing.T) {
	convey.Convey("Given a team with id 7", t, func() {
		convey.So(model.Team{ID: 7, Name: "Gonzaga"}.Index(), convey.ShouldEqual, 6)
	})
}
