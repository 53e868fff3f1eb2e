package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/offseason/internal/domain/captable"
	"github.com/okian/offseason/internal/domain/market"
	"github.com/okian/offseason/internal/domain/persona"
	"github.com/okian/offseason/internal/domain/position"
)

// MarketHandler answers market and cap lookups. They are pure functions of
// the query, so the handler needs no dependencies.
type MarketHandler struct{}

// NewMarketHandler creates a new market handler.
func NewMarketHandler() *MarketHandler {
	return &MarketHandler{}
}

type demandResponse struct {
	Label               string            `json:"label"`
	Position            position.Position `json:"position"`
	Rating              int               `json:"rating"`
	ExpectedAnnualValue float64           `json:"expected_annual_value"`
	PositionCap         float64           `json:"position_cap"`
	EffectiveCeiling    float64           `json:"effective_ceiling"`
	Persona             *persona.Persona  `json:"persona,omitempty"`
}

// HandleDemand handles GET /market/demand?position=&rating=[&player_id=].
func (h *MarketHandler) HandleDemand(w http.ResponseWriter, r *http.Request) {
	const op = "api.market_demand"
	q := r.URL.Query()
	label := strings.TrimSpace(q.Get("position"))
	if label == "" {
		respondError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("position is required")))
		return
	}
	rating, err := intParam(q.Get("rating"), "rating")
	if err != nil {
		respondError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	p := position.Normalize(label)
	resp := demandResponse{
		Label:               label,
		Position:            p,
		Rating:              rating,
		ExpectedAnnualValue: market.ExpectedAnnualValue(p, rating),
		PositionCap:         market.CapForPosition(p),
		EffectiveCeiling:    market.EffectiveCeiling(p),
	}
	if id := strings.TrimSpace(q.Get("player_id")); id != "" {
		pr := persona.For(id)
		resp.Persona = &pr
	}
	writeJSON(w, http.StatusOK, resp)
}

type scheduleResponse struct {
	AnnualValue float64   `json:"annual_value"`
	Term        int       `json:"term"`
	YearOne     float64   `json:"year_one"`
	Schedule    []float64 `json:"schedule"`
}

// HandleSchedule handles GET /cap/schedule?annual_value=&term=.
func (h *MarketHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "api.cap_schedule"
	q := r.URL.Query()
	annual, err := strconv.ParseFloat(q.Get("annual_value"), 64)
	if err != nil || annual < 0 || math.IsNaN(annual) || math.IsInf(annual, 0) {
		respondError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("annual_value must be a non-negative number")))
		return
	}
	term, err := intParam(q.Get("term"), "term")
	if err != nil {
		respondError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	schedule, err := captable.Schedule(annual, term)
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponse{
		AnnualValue: annual,
		Term:        term,
		YearOne:     schedule[0],
		Schedule:    schedule,
	})
}

// HandleRookie handles GET /cap/rookie?rank=.
func (h *MarketHandler) HandleRookie(w http.ResponseWriter, r *http.Request) {
	const op = "api.cap_rookie"
	rank, err := intParam(r.URL.Query().Get("rank"), "rank")
	if err != nil || rank < 1 {
		respondError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("rank must be a positive integer")))
		return
	}
	writeJSON(w, http.StatusOK, captable.Rookie(rank))
}

func intParam(raw, name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}
