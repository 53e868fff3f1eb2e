package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/offseason/internal/app"
	"github.com/okian/offseason/internal/domain/draft"
	"github.com/okian/offseason/internal/domain/position"
)

// DraftsHandler handles draft session requests.
type DraftsHandler struct {
	deps DraftDependencies
}

// NewDraftsHandler creates a new drafts handler.
func NewDraftsHandler(deps DraftDependencies) *DraftsHandler {
	return &DraftsHandler{deps: deps}
}

// createDraftRequest mirrors the OpenAPI schema for POST /drafts.
type createDraftRequest struct {
	Seed          *int64           `json:"seed,omitempty"`
	Mode          draft.Mode       `json:"mode,omitempty"`
	UserTeam      string           `json:"user_team,omitempty"`
	Teams         []string         `json:"teams,omitempty"`
	Rounds        int              `json:"rounds,omitempty"`
	CandidatePool int              `json:"candidate_pool,omitempty"`
	Prospects     []draft.Prospect `json:"prospects,omitempty"`
}

type pickRequest struct {
	Team       string `json:"team,omitempty"`
	ProspectID string `json:"prospect_id"`
}

type draftList struct {
	Sessions []draft.Snapshot `json:"sessions"`
}

// HandleCreate handles POST /drafts. Every field is optional.
func (h *DraftsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_draft"
	var req createDraftRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	for i := range req.Prospects {
		req.Prospects[i].Position = position.Normalize(string(req.Prospects[i].Position))
	}
	snap, err := h.deps.CreateDraft(r.Context(), service.DraftRequest{
		Seed:          req.Seed,
		Mode:          draft.Mode(strings.ToLower(string(req.Mode))),
		UserTeam:      req.UserTeam,
		Teams:         req.Teams,
		Rounds:        req.Rounds,
		CandidatePool: req.CandidatePool,
		Prospects:     req.Prospects,
	})
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/drafts/"+snap.ID)
	writeJSON(w, http.StatusCreated, snap)
}

// HandleList handles GET /drafts.
func (h *DraftsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_drafts"
	all, err := h.deps.Drafts(r.Context())
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	if all == nil {
		all = []draft.Snapshot{}
	}
	writeJSON(w, http.StatusOK, draftList{Sessions: all})
}

// HandleGet handles GET /drafts/{id}.
func (h *DraftsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_draft"
	snap, err := h.deps.Draft(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandlePick handles POST /drafts/{id}/pick. Team defaults to the
// session's user team.
func (h *DraftsHandler) HandlePick(w http.ResponseWriter, r *http.Request) {
	const op = "api.pick"
	var req pickRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.ProspectID) == "" {
		respondError(w, WrapKind(op, ErrBadRequest, errors.New("missing prospect_id")))
		return
	}
	id := r.PathValue("id")
	if req.Team == "" {
		snap, err := h.deps.Draft(r.Context(), id)
		if err != nil {
			respondError(w, Wrap(op, err))
			return
		}
		req.Team = snap.UserTeam
	}
	t, err := h.deps.SelectPlayer(r.Context(), id, req.Team, req.ProspectID)
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleAdvance handles POST /drafts/{id}/advance.
func (h *DraftsHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	const op = "api.advance"
	t, err := h.deps.Advance(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleAdvanceToUser handles POST /drafts/{id}/advance-to-user.
func (h *DraftsHandler) HandleAdvanceToUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.advance_to_user"
	t, err := h.deps.AdvanceToUser(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandlePause handles POST /drafts/{id}/pause.
func (h *DraftsHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	const op = "api.pause"
	snap, err := h.deps.Pause(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleResume handles POST /drafts/{id}/resume.
func (h *DraftsHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	const op = "api.resume"
	snap, err := h.deps.Resume(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleQuoteTrade handles POST /drafts/{id}/trades/quote.
func (h *DraftsHandler) HandleQuoteTrade(w http.ResponseWriter, r *http.Request) {
	const op = "api.quote_trade"
	var tp draft.TradeProposal
	if err := decodeJSON(r, &tp, false); err != nil {
		respondError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	q, err := h.deps.QuoteTrade(r.Context(), r.PathValue("id"), tp)
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// HandleProposeTrade handles POST /drafts/{id}/trades. A declined trade is
// a 200 with accepted false.
func (h *DraftsHandler) HandleProposeTrade(w http.ResponseWriter, r *http.Request) {
	const op = "api.propose_trade"
	var tp draft.TradeProposal
	if err := decodeJSON(r, &tp, false); err != nil {
		respondError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := h.deps.ProposeTrade(r.Context(), r.PathValue("id"), tp)
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}
