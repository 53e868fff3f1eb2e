package api

import "net/http"

// RosterHandler handles roster requests.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// HandleGet handles GET /rosters/{team}.
func (h *RosterHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_roster"
	roster, err := h.deps.Roster(r.Context(), r.PathValue("team"))
	if err != nil {
		respondError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, roster)
}
