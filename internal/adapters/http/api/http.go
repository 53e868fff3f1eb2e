// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	service "github.com/okian/offseason/internal/app"
	"github.com/okian/offseason/internal/domain/draft"
	"github.com/okian/offseason/internal/domain/offer"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// OfferDependencies evaluates and decides contract offers.
type OfferDependencies interface {
	EvaluateOffer(ctx context.Context, in offer.Input) (offer.Evaluation, error)
	Negotiate(ctx context.Context, req service.NegotiationRequest) (service.NegotiationResult, error)
}

// DraftDependencies drives draft sessions.
type DraftDependencies interface {
	CreateDraft(ctx context.Context, req service.DraftRequest) (draft.Snapshot, error)
	Draft(ctx context.Context, id string) (draft.Snapshot, error)
	Drafts(ctx context.Context) ([]draft.Snapshot, error)
	SelectPlayer(ctx context.Context, id, team, prospectID string) (service.Transition, error)
	Advance(ctx context.Context, id string) (service.Transition, error)
	AdvanceToUser(ctx context.Context, id string) (service.Transition, error)
	Pause(ctx context.Context, id string) (draft.Snapshot, error)
	Resume(ctx context.Context, id string) (draft.Snapshot, error)
	QuoteTrade(ctx context.Context, id string, tp draft.TradeProposal) (draft.TradeQuote, error)
	ProposeTrade(ctx context.Context, id string, tp draft.TradeProposal) (service.TradeOutcome, error)
}

// RosterDependencies reads team rosters.
type RosterDependencies interface {
	Roster(ctx context.Context, team string) (service.Roster, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	OfferDependencies
	DraftDependencies
	RosterDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	offersHandler *OffersHandler
	marketHandler *MarketHandler
	draftsHandler *DraftsHandler
	rosterHandler *RosterHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		offersHandler: NewOffersHandler(deps),
		marketHandler: NewMarketHandler(),
		draftsHandler: NewDraftsHandler(deps),
		rosterHandler: NewRosterHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("POST /offers/evaluate", "offers_evaluate", s.offersHandler.HandleEvaluate)
	route("POST /offers/{surface}", "offers_negotiate", s.offersHandler.HandleNegotiate)

	route("GET /market/demand", "market_demand", s.marketHandler.HandleDemand)
	route("GET /cap/schedule", "cap_schedule", s.marketHandler.HandleSchedule)
	route("GET /cap/rookie", "cap_rookie", s.marketHandler.HandleRookie)

	route("POST /drafts", "drafts_create", s.draftsHandler.HandleCreate)
	route("GET /drafts", "drafts_list", s.draftsHandler.HandleList)
	route("GET /drafts/{id}", "drafts_get", s.draftsHandler.HandleGet)
	route("POST /drafts/{id}/pick", "drafts_pick", s.draftsHandler.HandlePick)
	route("POST /drafts/{id}/advance", "drafts_advance", s.draftsHandler.HandleAdvance)
	route("POST /drafts/{id}/advance-to-user", "drafts_advance_to_user", s.draftsHandler.HandleAdvanceToUser)
	route("POST /drafts/{id}/pause", "drafts_pause", s.draftsHandler.HandlePause)
	route("POST /drafts/{id}/resume", "drafts_resume", s.draftsHandler.HandleResume)
	route("POST /drafts/{id}/trades/quote", "drafts_trade_quote", s.draftsHandler.HandleQuoteTrade)
	route("POST /drafts/{id}/trades", "drafts_trade_propose", s.draftsHandler.HandleProposeTrade)

	route("GET /rosters/{team}", "rosters_get", s.rosterHandler.HandleGet)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// respondError classifies err and writes it.
func respondError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// decodeJSON reads a single JSON object into v. An empty body leaves v at
// its zero value when allowEmpty is set.
func decodeJSON(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode body: %w", err)
	}
	if dec.More() {
		return errors.New("decode body: trailing data")
	}
	return nil
}
