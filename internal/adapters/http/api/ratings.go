package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/madness/internal/domain/model"
	"github.com/okian/madness/internal/domain/types"
	"github.com/okian/madness/internal/domain/weighting"
)

// RatingsDependencies defines the interface for rating queries.
type RatingsDependencies interface {
	Ratings(ctx context.Context, req types.RatingsRequest) (RatingsResult, error)
}

// SegmentsDependencies defines the interface for segment queries.
type SegmentsDependencies interface {
	Segments(ctx context.Context, opts *weighting.Options) (SegmentsResult, error)
}

// RatingsHandler handles rating requests.
type RatingsHandler struct {
	deps     RatingsDependencies
	maxLimit int
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps RatingsDependencies, maxLimit int) *RatingsHandler {
	return &RatingsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetRatings handles
// GET /ratings?algorithm=&home=&away=&neutral=&time_weights=&segments=&limit= requests.
func (h *RatingsHandler) HandleGetRatings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit exceeds %d", ErrBadRequest, h.maxLimit))
			return
		}
		limit = n
	}
	opts, err := parseOptions(q)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	res, err := h.deps.Ratings(r.Context(), types.RatingsRequest{
		Algorithm: model.Algorithm(q.Get("algorithm")),
		Options:   opts,
		Limit:     limit,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SegmentsHandler handles segment table requests.
type SegmentsHandler struct {
	deps SegmentsDependencies
}

// NewSegmentsHandler creates a new segments handler.
func NewSegmentsHandler(deps SegmentsDependencies) *SegmentsHandler {
	return &SegmentsHandler{deps: deps}
}

// HandleGetSegments handles GET /segments with the same weighting parameters
// as /ratings.
func (h *SegmentsHandler) HandleGetSegments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	opts, err := parseOptions(r.URL.Query())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	res, err := h.deps.Segments(r.Context(), opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// parseOptions reads weighting overrides. It returns nil when the query
// names none so the service defaults apply.
func parseOptions(q url.Values) (*weighting.Options, error) {
	keys := []string{"home", "away", "neutral", "time_weights", "segments"}
	set := false
	for _, k := range keys {
		if q.Has(k) {
			set = true
			break
		}
	}
	if !set {
		return nil, nil
	}

	o := weighting.DefaultOptions()
	floats := []struct {
		key string
		dst *float64
	}{
		{"home", &o.WeightHomeWin},
		{"away", &o.WeightAwayWin},
		{"neutral", &o.WeightNeutralWin},
	}
	for _, f := range floats {
		v := q.Get(f.key)
		if v == "" {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", ErrBadRequest, f.key)
		}
		*f.dst = x
	}
	if v := q.Get("time_weights"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: time_weights must be a boolean", ErrBadRequest)
		}
		o.UseTimeWeights = b
	}
	if v := q.Get("segments"); v != "" {
		parts := strings.Split(v, ",")
		o.SegmentWeights = make([]float64, 0, len(parts))
		for _, p := range parts {
			x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: segments must be comma separated numbers", ErrBadRequest)
			}
			o.SegmentWeights = append(o.SegmentWeights, x)
		}
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}
