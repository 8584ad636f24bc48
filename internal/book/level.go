// Package book holds the per-side price-level store and the two-sided Book
// it backs. A Level aggregates every liquidity provider currently quoting
// at one canonical price; a Store keeps one side's levels ordered by price.
package book

import "fxbook/internal/common"

// Contribution is one LP's placement at a Level, in the notional of the
// tier it was quoted at.
type Contribution struct {
	LP       string
	Notional common.Tier
}

// Level aggregates every contribution at a single canonical price on one
// side of the book.
type Level struct {
	Pips     int64 // canonical price key; see common.ToPips
	Price    float64
	Side     common.Side
	Contribs []Contribution
	Volume   int64
}

func newLevel(pips int64, side common.Side) *Level {
	return &Level{
		Pips:  pips,
		Price: common.PipsToPrice(pips),
		Side:  side,
	}
}

// recalc recomputes Volume from Contribs. Called after any mutation of
// Contribs so I2 (volume == sum of contribution notionals) always holds by
// construction.
func (l *Level) recalc() {
	var total int64
	for _, c := range l.Contribs {
		total += int64(c.Notional)
	}
	l.Volume = total
}

func (l *Level) empty() bool {
	return len(l.Contribs) == 0
}
