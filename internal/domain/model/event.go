// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"

	"github.com/okian/offseason/internal/domain/position"
)

// Player is the view of a player the decision engine consumes.
type Player struct {
	ID       string            `json:"id"`
	Name     string            `json:"name,omitempty"`
	Position position.Position `json:"position"`
	Age      int               `json:"age"`
	Overall  int               `json:"overall"`
}

// ContractKind records how a contract came to exist.
type ContractKind string

// Contract kinds.
const (
	KindRookie        ContractKind = "rookie"
	KindFreeAgent     ContractKind = "free_agent"
	KindReSign        ContractKind = "re_sign"
	KindRenegotiation ContractKind = "renegotiation"
)

// Contract is a signed deal on a team's books.
type Contract struct {
	PlayerID    string            `json:"player_id"`
	Team        string            `json:"team"`
	Position    position.Position `json:"position"`
	Kind        ContractKind      `json:"kind"`
	Term        int               `json:"term"`
	AnnualValue float64           `json:"annual_value"`
	Guaranteed  float64           `json:"guaranteed"`
	Schedule    []float64         `json:"schedule"`
	SignedAt    time.Time         `json:"signed_at"`
}

// RosterAddition is a drafted player handed to a team's roster on a rookie deal.
type RosterAddition struct {
	SessionID  string            `json:"session_id"`
	Team       string            `json:"team"`
	Slot       int               `json:"slot"`
	Round      int               `json:"round"`
	ProspectID string            `json:"prospect_id"`
	Position   position.Position `json:"position"`
	Rank       int               `json:"rank"`
	Contract   Contract          `json:"contract"`
}

// Key identifies an addition for idempotent registration.
func (a RosterAddition) Key() string {
	return fmt.Sprintf("%s:%d", a.SessionID, a.Slot)
}

// EventType names a draft event.
type EventType string

// Draft event types.
const (
	EventSessionCreated   EventType = "session_created"
	EventPickMade         EventType = "pick_made"
	EventTradeAccepted    EventType = "trade_accepted"
	EventTradeRejected    EventType = "trade_rejected"
	EventSessionPaused    EventType = "session_paused"
	EventSessionResumed   EventType = "session_resumed"
	EventSessionCompleted EventType = "session_completed"
	EventContractSigned   EventType = "contract_signed"
)

// Event is a notification about something that happened in the offseason.
// Events are fire-and-forget: consumers must tolerate gaps.
type Event struct {
	EventID   string         `json:"event_id"`
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	Team      string         `json:"team,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	TS        time.Time      `json:"ts"`
}
