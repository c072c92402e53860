package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/madness/internal/domain/types"
)

const maxBodyBytes = 1 << 20

// BracketDependencies defines the interface for bracket simulation.
type BracketDependencies interface {
	SimulateBracket(ctx context.Context, req types.SimulationRequest) (SimulationResult, error)
}

// BracketHandler handles bracket simulation requests.
type BracketHandler struct {
	deps BracketDependencies
}

// NewBracketHandler creates a new bracket handler.
func NewBracketHandler(deps BracketDependencies) *BracketHandler {
	return &BracketHandler{deps: deps}
}

// HandleSimulate handles POST /bracket/simulate. An empty body simulates
// with the seed decider.
func (h *BracketHandler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.SimulationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	res, err := h.deps.SimulateBracket(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
