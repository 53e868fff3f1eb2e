// Package position defines the canonical football positions and the
// normalization of the many labels scouts and analysts use for them.
package position

import "strings"

// Position is a canonical roster position.
type Position string

// Canonical positions.
const (
	QB      Position = "QB"
	RB      Position = "RB"
	WR      Position = "WR"
	TE      Position = "TE"
	OT      Position = "OT"
	IOL     Position = "IOL"
	EDGE    Position = "EDGE"
	DT      Position = "DT"
	LB      Position = "LB"
	CB      Position = "CB"
	S       Position = "S"
	K       Position = "K"
	P       Position = "P"
	LS      Position = "LS"
	Unknown Position = "UNKNOWN"
)

// All lists every known canonical position in roster order.
var All = []Position{QB, RB, WR, TE, OT, IOL, EDGE, DT, LB, CB, S, K, P, LS}

// aliases maps every accepted label (already upper-cased and cleaned) to
// its canonical position.
var aliases = map[string]Position{
	"QB": QB, "QUARTERBACK": QB,

	"RB": RB, "HB": RB, "FB": RB, "RUNNING BACK": RB,

	"WR": WR, "WIDE RECEIVER": WR, "SLOT": WR,

	"TE": TE, "TIGHT END": TE,

	"OT": OT, "T": OT, "LT": OT, "RT": OT, "TACKLE": OT,

	"IOL": IOL, "OL": IOL, "OG": IOL, "G": IOL, "LG": IOL, "RG": IOL,
	"C": IOL, "GUARD": IOL, "CENTER": IOL,

	"EDGE": EDGE, "DE": EDGE, "ED": EDGE, "ER": EDGE, "RUSH": EDGE,
	"EDGE RUSHER": EDGE, "OLB DE": EDGE, "DE OLB": EDGE, "EDGE OLB": EDGE,

	"DT": DT, "NT": DT, "IDL": DT, "DL": DT, "NOSE": DT, "NOSE TACKLE": DT,

	"LB": LB, "ILB": LB, "MLB": LB, "OLB": LB, "WLB": LB, "SLB": LB, "LINEBACKER": LB,

	"CB": CB, "DB": CB, "NCB": CB, "NICKEL": CB, "CORNERBACK": CB,

	"S": S, "FS": S, "SS": S, "SAF": S, "SAFETY": S,

	"K": K, "PK": K, "KICKER": K,

	"P": P, "PUNTER": P,

	"LS": LS, "LONG SNAPPER": LS,
}

// Aliases returns a copy of every accepted label and the position it maps to.
func Aliases() map[string]Position {
	out := make(map[string]Position, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// Normalize maps any label to a canonical position. It never fails:
// labels it does not recognize resolve to Unknown.
func Normalize(label string) Position {
	key := clean(label)
	if p, ok := aliases[key]; ok {
		return p
	}
	return Unknown
}

// clean upper-cases, turns separators into single spaces and trims.
func clean(label string) string {
	up := strings.ToUpper(strings.TrimSpace(label))
	up = strings.Map(func(r rune) rune {
		switch r {
		case '/', '-', '_', '.', ',':
			return ' '
		}
		return r
	}, up)
	return strings.Join(strings.Fields(up), " ")
}

// Valid reports whether p is one of the canonical positions.
func (p Position) Valid() bool {
	for _, known := range All {
		if p == known {
			return true
		}
	}
	return false
}

func (p Position) String() string { return string(p) }
