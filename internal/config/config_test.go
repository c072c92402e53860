package config_test

import (
	"testing"
	"time"

	"github.com/okian/madness/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Algorithm, convey.ShouldEqual, "colley")
			convey.So(cfg.FeedTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.CacheTTL(), convey.ShouldEqual, 10*time.Minute)
			convey.So(cfg.Ranking.SegmentWeights, convey.ShouldResemble, []float64{1})
			convey.So(cfg.Ranking.UseTimeWeights, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then semifinal pairs skip nothing when well formed", func() {
			cfg.Semifinals = [][]string{{"East", "West"}, {"South", "Midwest"}}
			convey.So(cfg.SemifinalPairs(), convey.ShouldResemble, [][2]string{{"East", "West"}, {"South", "Midwest"}})
		})
	})
}
