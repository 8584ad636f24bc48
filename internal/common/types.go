// Package common holds the value types shared across the quote parser, the
// price-level store, and the aggregation engine: the side tag, the
// notional-tier tag, and the error kinds a quote can fail to parse with.
package common

import "errors"

// Side distinguishes a bid (buy) level from an ask (sell) level. It exists
// as an enumerated tag rather than a string so that a typo at a call site
// ("Buy" vs "buy") fails to compile instead of silently reading the wrong
// book side.
type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	switch s {
	case Bid:
		return "Bid"
	case Ask:
		return "Ask"
	default:
		return "Unknown"
	}
}

// Tier is a standard quote notional, expressed in millions of the quote
// currency. It doubles as the per-contribution volume: an LP contributing
// at a tier always contributes exactly that tier's size.
type Tier int64

const (
	Tier1M Tier = 1
	Tier3M Tier = 3
	Tier5M Tier = 5
)

func (t Tier) String() string {
	switch t {
	case Tier1M:
		return "1M"
	case Tier3M:
		return "3M"
	case Tier5M:
		return "5M"
	default:
		return "?M"
	}
}

// Tiers is the fixed delivery order of notional tiers within a quote record.
var Tiers = [3]Tier{Tier1M, Tier3M, Tier5M}

var (
	// ErrMalformed indicates the inbound record had fewer than 9 fields.
	ErrMalformed = errors.New("malformed quote record")
	// ErrEmptyField indicates a required string field trimmed to empty.
	ErrEmptyField = errors.New("required field is empty")
	// ErrBadNumber indicates a price or timestamp field failed to parse.
	ErrBadNumber = errors.New("invalid numeric field")
)

// PricePrecision is the number of fractional digits a price is canonicalized
// to at parse time ("pips").
const PricePrecision = 4

// MinSpread is the minimum tolerated gap between best ask and best bid,
// expressed in quote-currency units (6 pips at 4 decimal places).
const MinSpread = 0.0006
