package draft

import (
	"fmt"
	"math"

	"github.com/okian/offseason/internal/domain/rng"
)

// Trade acceptance constants.
const (
	TradeAcceptHigh = 0.9
	TradeAcceptLow  = 0.05

	fairValueRatio = 0.95
	ratioBaseline  = 0.5
	clockBonus     = 0.05

	likelyAbove = 0.70
	fairAbove   = 0.45
)

// Verdict is the human reading of a trade probability.
type Verdict string

// Verdicts.
const (
	VerdictLikely   Verdict = "likely"
	VerdictFair     Verdict = "fair"
	VerdictUnlikely Verdict = "unlikely"
)

// TradeAcceptance is the chance a partner accepts giving up a pick worth
// sendValue for one worth receiveValue. Near-even swaps are accepted with
// the high probability; anything else scales with the value ratio.
func TradeAcceptance(sendValue, receiveValue int, partnerOnClock bool) float64 {
	if float64(receiveValue) >= fairValueRatio*float64(sendValue) {
		return TradeAcceptHigh
	}
	ratio := float64(receiveValue) / float64(sendValue)
	p := math.Max(TradeAcceptLow, TradeAcceptHigh*(ratio-ratioBaseline)/(fairValueRatio-ratioBaseline))
	if partnerOnClock {
		p += clockBonus
	}
	return math.Min(p, TradeAcceptHigh)
}

// VerdictFor classifies a trade probability.
func VerdictFor(p float64) Verdict {
	switch {
	case p >= likelyAbove:
		return VerdictLikely
	case p >= fairAbove:
		return VerdictFair
	}
	return VerdictUnlikely
}

// TradeProposal swaps one of the user's picks for one of the partner's.
// Slots are overall pick numbers.
type TradeProposal struct {
	SendSlot    int    `json:"send_slot"`
	ReceiveSlot int    `json:"receive_slot"`
	Partner     string `json:"partner"`
}

// TradeQuote is a proposal priced from the user's side.
type TradeQuote struct {
	TradeProposal
	SendValue      int     `json:"send_value"`
	ReceiveValue   int     `json:"receive_value"`
	Probability    float64 `json:"acceptance_probability"`
	Verdict        Verdict `json:"verdict"`
	PartnerOnClock bool    `json:"partner_on_clock"`
}

// TradeResult is the outcome of proposing a trade.
type TradeResult struct {
	Quote    TradeQuote `json:"quote"`
	Accepted bool       `json:"accepted"`
	Draw     float64    `json:"draw"`
}

// QuoteTrade validates and prices a proposal. Quotes are allowed while the
// session is paused.
func (s *Session) QuoteTrade(tp TradeProposal) (TradeQuote, error) {
	send, receive, err := s.tradePicks(tp)
	if err != nil {
		return TradeQuote{}, err
	}
	sendValue := PickValue(send.Overall)
	receiveValue := PickValue(receive.Overall)
	onClock := false
	if cur := s.OnClock(); cur != nil {
		onClock = cur.Owner == tp.Partner
	}
	// The partner gives up the pick the user receives.
	p := TradeAcceptance(receiveValue, sendValue, onClock)
	return TradeQuote{
		TradeProposal:  tp,
		SendValue:      sendValue,
		ReceiveValue:   receiveValue,
		Probability:    p,
		Verdict:        VerdictFor(p),
		PartnerOnClock: onClock,
	}, nil
}

// ApplyTrade swaps ownership of the two picks without asking the partner.
func (s *Session) ApplyTrade(tp TradeProposal) error {
	if s.Paused {
		return ErrSessionPaused
	}
	send, receive, err := s.tradePicks(tp)
	if err != nil {
		return err
	}
	send.Owner, receive.Owner = tp.Partner, s.UserTeam
	return nil
}

// ProposeTrade quotes the proposal, draws the partner's answer from the
// session's trade stream and applies the trade when accepted.
func (s *Session) ProposeTrade(tp TradeProposal) (TradeResult, error) {
	if s.Paused {
		return TradeResult{}, ErrSessionPaused
	}
	q, err := s.QuoteTrade(tp)
	if err != nil {
		return TradeResult{}, err
	}
	var u float64
	u, s.TradeRNGState = rng.Next(s.TradeRNGState)
	res := TradeResult{Quote: q, Draw: u, Accepted: u < q.Probability}
	if res.Accepted {
		if err := s.ApplyTrade(tp); err != nil {
			return TradeResult{}, err
		}
	}
	return res, nil
}

func (s *Session) tradePicks(tp TradeProposal) (send, receive *Pick, err error) {
	if s.Status == StatusCompleted {
		return nil, nil, ErrSessionCompleted
	}
	switch {
	case tp.Partner == "":
		return nil, nil, fmt.Errorf("%w: missing partner", ErrInvalidTrade)
	case tp.Partner == s.UserTeam:
		return nil, nil, fmt.Errorf("%w: cannot trade with yourself", ErrInvalidTrade)
	case tp.SendSlot == tp.ReceiveSlot:
		return nil, nil, fmt.Errorf("%w: same pick on both sides", ErrInvalidTrade)
	}
	if send = s.pick(tp.SendSlot); send == nil {
		return nil, nil, fmt.Errorf("%w: slot %d", ErrPickNotFound, tp.SendSlot)
	}
	if receive = s.pick(tp.ReceiveSlot); receive == nil {
		return nil, nil, fmt.Errorf("%w: slot %d", ErrPickNotFound, tp.ReceiveSlot)
	}
	for _, p := range []*Pick{send, receive} {
		if p.Round != 1 {
			return nil, nil, fmt.Errorf("%w: slot %d is not a first-round pick", ErrInvalidTrade, p.Overall)
		}
		if p.SelectedPlayerID != nil {
			return nil, nil, fmt.Errorf("%w: slot %d already used", ErrInvalidTrade, p.Overall)
		}
	}
	if send.Owner != s.UserTeam {
		return nil, nil, fmt.Errorf("%w: slot %d belongs to %s", ErrInvalidTrade, send.Overall, send.Owner)
	}
	if receive.Owner != tp.Partner {
		return nil, nil, fmt.Errorf("%w: slot %d belongs to %s", ErrInvalidTrade, receive.Overall, receive.Owner)
	}
	return send, receive, nil
}
