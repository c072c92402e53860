// Package types contains the request and result envelopes shared by the
// service, the HTTP API and the CLI.
package types

import (
	"time"

	"github.com/okian/madness/internal/domain/bracket"
	"github.com/okian/madness/internal/domain/model"
	"github.com/okian/madness/internal/domain/weighting"
)

// Deciders accepted by SimulationRequest.
const (
	DeciderSeed   = "seed"
	DeciderRating = "rating"
)

// RatingsRequest selects an algorithm and weighting. Zero values fall back
// to the service defaults.
type RatingsRequest struct {
	Algorithm model.Algorithm
	Options   *weighting.Options
	Limit     int
}

// RatingsResult is a computed ratings table.
type RatingsResult struct {
	Algorithm   model.Algorithm   `json:"algorithm"`
	Options     weighting.Options `json:"options"`
	Teams       int               `json:"teams"`
	Games       int               `json:"games"`
	Ratings     []model.Rating    `json:"ratings"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// SimulationRequest configures a bracket run. Algorithm and Options apply
// to the rating decider only. Seed makes the seed decider's coin flips
// reproducible.
type SimulationRequest struct {
	Decider   string             `json:"decider"`
	Algorithm model.Algorithm    `json:"algorithm,omitempty"`
	Options   *weighting.Options `json:"options,omitempty"`
	Seed      *int64             `json:"seed,omitempty"`
}

// SimulationResult is one resolved bracket.
type SimulationResult struct {
	RunID        string          `json:"run_id"`
	Decider      string          `json:"decider"`
	Algorithm    model.Algorithm `json:"algorithm,omitempty"`
	Champion     string          `json:"champion"`
	ChampionSeed int             `json:"champion_seed"`
	Games        []bracket.Game  `json:"games"`
}

// SegmentsResult lists the calendar window of each time segment.
type SegmentsResult struct {
	Options  weighting.Options   `json:"options"`
	Segments []weighting.Segment `json:"segments"`
}
