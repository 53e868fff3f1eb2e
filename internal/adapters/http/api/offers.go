package api

import (
	"net/http"

	service "github.com/okian/offseason/internal/app"
	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/internal/domain/negotiation"
	"github.com/okian/offseason/internal/domain/offer"
	"github.com/okian/offseason/internal/domain/position"
)

// OffersHandler handles contract offer requests.
type OffersHandler struct {
	deps OfferDependencies
}

// NewOffersHandler creates a new offers handler.
func NewOffersHandler(deps OfferDependencies) *OffersHandler {
	return &OffersHandler{deps: deps}
}

// HandleEvaluate handles POST /offers/evaluate. The body is the raw
// acceptance curve input; no persona or preference is applied.
func (h *OffersHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate_offer"
	var in offer.Input
	if err := decodeJSON(r, &in, false); err != nil {
		respondError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	in.Position = position.Normalize(string(in.Position))
	e, err := h.deps.EvaluateOffer(r.Context(), in)
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// negotiationRequest mirrors the OpenAPI schema for POST /offers/{surface}.
type negotiationRequest struct {
	Team   string            `json:"team"`
	Player model.Player      `json:"player"`
	Offer  negotiation.Offer `json:"offer"`
	Seed   *int64            `json:"seed,omitempty"`
}

// HandleNegotiate handles POST /offers/{surface}. A rejected offer is a
// 200 with accepted false.
func (h *OffersHandler) HandleNegotiate(w http.ResponseWriter, r *http.Request) {
	const op = "api.negotiate"
	surface, err := negotiation.ParseSurface(r.PathValue("surface"))
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	var req negotiationRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	req.Player.Position = position.Normalize(string(req.Player.Position))
	res, err := h.deps.Negotiate(r.Context(), service.NegotiationRequest{
		Surface: surface,
		Team:    req.Team,
		Player:  req.Player,
		Offer:   req.Offer,
		Seed:    req.Seed,
	})
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
