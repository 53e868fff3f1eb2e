// Package draft runs seeded draft sessions: the pick order, CPU selections,
// user picks, pick-for-pick trades and finalization into roster additions.
//
// A Session is a plain record. Every transition reads and writes only that
// record, including the generator state, so callers must serialize access
// to a single session and persist it after each call.
package draft

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/okian/offseason/internal/domain/captable"
	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/internal/domain/position"
	"github.com/okian/offseason/internal/domain/rng"
)

// Mode decides whether a session's selections reach team rosters.
type Mode string

// Modes.
const (
	ModeMock Mode = "mock"
	ModeReal Mode = "real"
)

// Status of a session.
type Status string

// Statuses.
const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// CPU selection constants.
const (
	DefaultCandidatePool = 12
	DefaultRounds        = 3

	minTemperature  = 0.6
	temperatureSpan = 1.2
)

// Limits bounds how large a session may grow. Zero fields take the
// matching DefaultLimits value.
type Limits struct {
	Rounds    int `json:"rounds"`
	Teams     int `json:"teams"`
	Prospects int `json:"prospects"`
}

// DefaultLimits fits a full league draft with room for a deep board.
var DefaultLimits = Limits{Rounds: 7, Teams: 32, Prospects: 2048}

func (l Limits) orDefault() Limits {
	if l.Rounds <= 0 {
		l.Rounds = DefaultLimits.Rounds
	}
	if l.Teams <= 0 {
		l.Teams = DefaultLimits.Teams
	}
	if l.Prospects <= 0 {
		l.Prospects = DefaultLimits.Prospects
	}
	return l
}

// Check rejects a draft shape beyond the limits.
func (l Limits) Check(teams, rounds, prospects, candidatePool int) error {
	l = l.orDefault()
	switch {
	case rounds > l.Rounds:
		return fmt.Errorf("%w: %d rounds, at most %d", ErrInvalidConfig, rounds, l.Rounds)
	case teams > l.Teams:
		return fmt.Errorf("%w: %d teams, at most %d", ErrInvalidConfig, teams, l.Teams)
	case prospects > l.Prospects:
		return fmt.Errorf("%w: %d prospects, at most %d", ErrInvalidConfig, prospects, l.Prospects)
	case candidatePool > l.Prospects:
		return fmt.Errorf("%w: candidate pool %d, at most %d", ErrInvalidConfig, candidatePool, l.Prospects)
	}
	return nil
}

// Prospect is a draft-eligible player. Rank is the only signal the CPU uses.
type Prospect struct {
	ID       string            `json:"id"`
	Name     string            `json:"name,omitempty"`
	Position position.Position `json:"position"`
	Rank     int               `json:"rank"`
	Drafted  bool              `json:"is_drafted"`
}

// Pick is one slot in the draft order.
type Pick struct {
	Overall          int     `json:"overall_slot"`
	Round            int     `json:"round"`
	Owner            string  `json:"owner_team"`
	OriginalOwner    string  `json:"original_team"`
	SelectedPlayerID *string `json:"selected_player_id,omitempty"`
	Registered       bool    `json:"registered,omitempty"`
}

// Session is the full state of one draft. CPU picks draw from RNGState and
// trade answers from TradeRNGState, so proposing a trade never shifts the
// picks that follow.
type Session struct {
	ID               string     `json:"id"`
	Seed             int64      `json:"seed"`
	RNGState         rng.State  `json:"rng_state"`
	TradeRNGState    rng.State  `json:"trade_rng_state"`
	Mode             Mode       `json:"mode"`
	UserTeam         string     `json:"user_team"`
	Teams            []string   `json:"teams"`
	CandidatePool    int        `json:"candidate_pool"`
	Picks            []Pick     `json:"picks"`
	Prospects        []Prospect `json:"prospects"`
	CurrentPickIndex int        `json:"current_pick_index"`
	Paused           bool       `json:"is_paused"`
	Status           Status     `json:"status"`
	Finalized        bool       `json:"finalized"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Config describes a new session.
type Config struct {
	ID            string
	Seed          int64
	Mode          Mode
	UserTeam      string
	Teams         []string
	Rounds        int
	CandidatePool int
	Prospects     []Prospect
	Now           time.Time
	Limits        Limits
}

// Selection records one pick being made.
type Selection struct {
	Slot        int               `json:"slot"`
	Round       int               `json:"round"`
	Team        string            `json:"team"`
	ProspectID  string            `json:"prospect_id"`
	Position    position.Position `json:"position"`
	Rank        int               `json:"rank"`
	ByUser      bool              `json:"by_user"`
	Temperature float64           `json:"temperature,omitempty"`
}

// Outcome is what a transition produced.
type Outcome struct {
	Selections []Selection            `json:"selections"`
	Additions  []model.RosterAddition `json:"additions"`
	Completed  bool                   `json:"completed"`
}

func (o *Outcome) merge(other Outcome) {
	o.Selections = append(o.Selections, other.Selections...)
	o.Additions = append(o.Additions, other.Additions...)
	o.Completed = o.Completed || other.Completed
}

// NewSession builds the pick order (teams in the given order, every round)
// and the prospect pool sorted by rank.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rounds := cfg.Rounds
	if rounds <= 0 {
		rounds = DefaultRounds
	}
	pool := cfg.CandidatePool
	if pool <= 0 {
		pool = DefaultCandidatePool
	}
	if len(cfg.Prospects) < rounds*len(cfg.Teams) {
		return nil, fmt.Errorf("%w: %d prospects for %d picks", ErrInvalidConfig, len(cfg.Prospects), rounds*len(cfg.Teams))
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	picks := make([]Pick, 0, rounds*len(cfg.Teams))
	for r := 1; r <= rounds; r++ {
		for _, team := range cfg.Teams {
			picks = append(picks, Pick{
				Overall:       len(picks) + 1,
				Round:         r,
				Owner:         team,
				OriginalOwner: team,
			})
		}
	}

	prospects := make([]Prospect, len(cfg.Prospects))
	copy(prospects, cfg.Prospects)
	for i := range prospects {
		prospects[i].Drafted = false
	}
	slices.SortStableFunc(prospects, func(a, b Prospect) int {
		return cmp.Or(cmp.Compare(a.Rank, b.Rank), cmp.Compare(a.ID, b.ID))
	})

	return &Session{
		ID:            cfg.ID,
		Seed:          cfg.Seed,
		RNGState:      rng.Derive(cfg.Seed),
		TradeRNGState: tradeStream(cfg.Seed),
		Mode:          cfg.Mode,
		UserTeam:      cfg.UserTeam,
		Teams:         slices.Clone(cfg.Teams),
		CandidatePool: pool,
		Picks:         picks,
		Prospects:     prospects,
		Status:        StatusInProgress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func tradeStream(seed int64) rng.State {
	return rng.Seeded(fmt.Sprintf("trades:%d", seed))
}

func (c Config) validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidConfig)
	}
	if c.Mode != ModeMock && c.Mode != ModeReal {
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
	}
	if err := c.Limits.Check(len(c.Teams), c.Rounds, len(c.Prospects), c.CandidatePool); err != nil {
		return err
	}
	if len(c.Teams) < 2 {
		return fmt.Errorf("%w: need at least two teams", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Teams))
	for _, t := range c.Teams {
		if t == "" {
			return fmt.Errorf("%w: empty team", ErrInvalidConfig)
		}
		if _, dup := seen[t]; dup {
			return fmt.Errorf("%w: duplicate team %s", ErrInvalidConfig, t)
		}
		seen[t] = struct{}{}
	}
	if _, ok := seen[c.UserTeam]; !ok {
		return fmt.Errorf("%w: user team %q not in draft order", ErrInvalidConfig, c.UserTeam)
	}
	ids := make(map[string]struct{}, len(c.Prospects))
	for _, p := range c.Prospects {
		if p.ID == "" || p.Rank < 1 {
			return fmt.Errorf("%w: prospect %q needs an id and a positive rank", ErrInvalidConfig, p.ID)
		}
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("%w: duplicate prospect %s", ErrInvalidConfig, p.ID)
		}
		ids[p.ID] = struct{}{}
	}
	return nil
}

// OnClock returns the pick currently due, or nil when the draft is over.
func (s *Session) OnClock() *Pick {
	if s.CurrentPickIndex >= len(s.Picks) {
		return nil
	}
	return &s.Picks[s.CurrentPickIndex]
}

// UserOnClock reports whether the user's team is due to pick.
func (s *Session) UserOnClock() bool {
	p := s.OnClock()
	return p != nil && p.Owner == s.UserTeam
}

func (s *Session) pick(slot int) *Pick {
	for i := range s.Picks {
		if s.Picks[i].Overall == slot {
			return &s.Picks[i]
		}
	}
	return nil
}

func (s *Session) prospect(id string) *Prospect {
	for i := range s.Prospects {
		if s.Prospects[i].ID == id {
			return &s.Prospects[i]
		}
	}
	return nil
}

func (s *Session) checkActive() error {
	if s.Status == StatusCompleted {
		return ErrSessionCompleted
	}
	if s.Paused {
		return ErrSessionPaused
	}
	return nil
}

// SelectPlayer makes the user's pick. In real mode the player is registered
// as a roster addition right away.
func (s *Session) SelectPlayer(team, prospectID string) (Outcome, error) {
	if err := s.checkActive(); err != nil {
		return Outcome{}, err
	}
	cur := s.OnClock()
	if team != s.UserTeam || cur.Owner != team {
		return Outcome{}, fmt.Errorf("%w: slot %d belongs to %s", ErrNotYourPick, cur.Overall, cur.Owner)
	}
	pr := s.prospect(prospectID)
	if pr == nil {
		return Outcome{}, fmt.Errorf("%w: %s", ErrProspectNotFound, prospectID)
	}
	if pr.Drafted {
		return Outcome{}, fmt.Errorf("%w: %s", ErrProspectDrafted, prospectID)
	}

	out := Outcome{Selections: []Selection{s.take(cur, pr, true, 0)}}
	if s.Mode == ModeReal {
		out.Additions = append(out.Additions, s.register(cur, pr))
	}
	out.merge(s.Finalize())
	return out, nil
}

// Advance makes one CPU pick. It does nothing while the user is on the clock.
func (s *Session) Advance() (Outcome, error) {
	if err := s.checkActive(); err != nil {
		return Outcome{}, err
	}
	cur := s.OnClock()
	if cur.Owner == s.UserTeam {
		return Outcome{}, nil
	}
	candidates := s.candidates()
	if len(candidates) == 0 {
		return Outcome{}, fmt.Errorf("%w: prospect pool exhausted", ErrProspectNotFound)
	}

	var u, v float64
	u, s.RNGState = rng.Next(s.RNGState)
	v, s.RNGState = rng.Next(s.RNGState)
	temperature := minTemperature + u*temperatureSpan
	pr := choose(candidates, temperature, v)

	out := Outcome{Selections: []Selection{s.take(cur, pr, false, temperature)}}
	out.merge(s.Finalize())
	return out, nil
}

// AdvanceToUser runs CPU picks until the user is on the clock or the draft
// is over.
func (s *Session) AdvanceToUser() (Outcome, error) {
	var out Outcome
	for s.Status != StatusCompleted && !s.UserOnClock() {
		step, err := s.Advance()
		if err != nil {
			return out, err
		}
		out.merge(step)
	}
	if s.Status == StatusCompleted {
		out.Completed = true
	}
	return out, nil
}

// Pause blocks picks and advances until Resume.
func (s *Session) Pause() error {
	if s.Status == StatusCompleted {
		return ErrSessionCompleted
	}
	s.Paused = true
	return nil
}

// Resume clears the pause flag.
func (s *Session) Resume() error {
	if s.Status == StatusCompleted {
		return ErrSessionCompleted
	}
	s.Paused = false
	return nil
}

// Finalize completes a session whose last pick has been made. In real mode it
// registers every selection not registered yet. Calling it again, or before
// the draft is over, returns an empty outcome.
func (s *Session) Finalize() Outcome {
	if s.Finalized || s.CurrentPickIndex < len(s.Picks) {
		return Outcome{}
	}
	s.Finalized = true
	s.Status = StatusCompleted
	s.Paused = false

	out := Outcome{Completed: true}
	if s.Mode != ModeReal {
		return out
	}
	for i := range s.Picks {
		p := &s.Picks[i]
		if p.SelectedPlayerID == nil || p.Registered {
			continue
		}
		if pr := s.prospect(*p.SelectedPlayerID); pr != nil {
			out.Additions = append(out.Additions, s.register(p, pr))
		}
	}
	return out
}

func (s *Session) take(p *Pick, pr *Prospect, byUser bool, temperature float64) Selection {
	id := pr.ID
	p.SelectedPlayerID = &id
	pr.Drafted = true
	s.CurrentPickIndex++
	return Selection{
		Slot:        p.Overall,
		Round:       p.Round,
		Team:        p.Owner,
		ProspectID:  pr.ID,
		Position:    pr.Position,
		Rank:        pr.Rank,
		ByUser:      byUser,
		Temperature: temperature,
	}
}

// register marks the pick as handed to the roster and prices the rookie deal
// by overall slot.
func (s *Session) register(p *Pick, pr *Prospect) model.RosterAddition {
	p.Registered = true
	rc := captable.Rookie(p.Overall)
	return model.RosterAddition{
		SessionID:  s.ID,
		Team:       p.Owner,
		Slot:       p.Overall,
		Round:      p.Round,
		ProspectID: pr.ID,
		Position:   pr.Position,
		Rank:       pr.Rank,
		Contract: model.Contract{
			PlayerID:    pr.ID,
			Team:        p.Owner,
			Position:    pr.Position,
			Kind:        model.KindRookie,
			Term:        rc.Term,
			AnnualValue: rc.AnnualValue,
			Guaranteed:  rc.Guaranteed,
			Schedule:    rc.Schedule,
		},
	}
}

// candidates returns the best remaining prospects by rank.
func (s *Session) candidates() []*Prospect {
	pool := s.CandidatePool
	if pool <= 0 {
		pool = DefaultCandidatePool
	}
	pool = min(pool, len(s.Prospects))
	out := make([]*Prospect, 0, pool)
	for i := range s.Prospects {
		if len(out) == pool {
			break
		}
		if !s.Prospects[i].Drafted {
			out = append(out, &s.Prospects[i])
		}
	}
	return out
}

// choose samples a candidate with weight exp(-(rank-1)/temperature). Ranks
// are taken relative to the best candidate, which leaves the odds unchanged
// and keeps deep boards from underflowing to zero weight.
func choose(candidates []*Prospect, temperature, u float64) *Prospect {
	best := candidates[0].Rank
	for _, c := range candidates {
		best = min(best, c.Rank)
	}
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, c := range candidates {
		weights[i] = math.Exp(-float64(c.Rank-best) / temperature)
		total += weights[i]
	}
	target := u * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if target < acc {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

// Snapshot is the read-only view of a session.
type Snapshot struct {
	ID               string     `json:"id"`
	Seed             int64      `json:"seed"`
	Mode             Mode       `json:"mode"`
	UserTeam         string     `json:"user_team"`
	CurrentPickIndex int        `json:"current_pick_index"`
	OnClock          string     `json:"on_clock,omitempty"`
	Paused           bool       `json:"is_paused"`
	Status           Status     `json:"status"`
	Finalized        bool       `json:"finalized"`
	Picks            []Pick     `json:"picks"`
	Prospects        []Prospect `json:"prospects"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Snapshot copies the session into its external view.
func (s *Session) Snapshot() Snapshot {
	c := s.Clone()
	snap := Snapshot{
		ID:               c.ID,
		Seed:             c.Seed,
		Mode:             c.Mode,
		UserTeam:         c.UserTeam,
		CurrentPickIndex: c.CurrentPickIndex,
		Paused:           c.Paused,
		Status:           c.Status,
		Finalized:        c.Finalized,
		Picks:            c.Picks,
		Prospects:        c.Prospects,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if p := s.OnClock(); p != nil {
		snap.OnClock = p.Owner
	}
	return snap
}

// Clone deep-copies the session.
func (s *Session) Clone() *Session {
	c := *s
	c.Teams = slices.Clone(s.Teams)
	c.Prospects = slices.Clone(s.Prospects)
	c.Picks = make([]Pick, len(s.Picks))
	for i, p := range s.Picks {
		if p.SelectedPlayerID != nil {
			id := *p.SelectedPlayerID
			p.SelectedPlayerID = &id
		}
		c.Picks[i] = p
	}
	return &c
}
