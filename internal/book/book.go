package book

import "fxbook/internal/common"

// Book is the two-sided aggregated price book for one currency pair. The
// aggregation engine is its only writer; everyone else observes it through
// Snapshot.
type Book struct {
	Pair string
	Bids *Store
	Asks *Store
	TS   int64
}

// New creates an empty book for pair.
func New(pair string) *Book {
	return &Book{
		Pair: pair,
		Bids: NewStore(common.Bid),
		Asks: NewStore(common.Ask),
	}
}

// Side returns the store for the given side, so callers can take a
// (SideTag, pips) pair and look the store up themselves instead of holding
// two aliased mutable borrows at once (spec.md §9's "Ownership of side
// vectors" note).
func (b *Book) Side(side common.Side) *Store {
	if side == common.Bid {
		return b.Bids
	}
	return b.Asks
}

// LevelSnapshot is an immutable, read-only copy of a Level.
type LevelSnapshot struct {
	Price    float64
	Side     common.Side
	Contribs []Contribution
	Volume   int64
}

// Snapshot is an immutable, point-in-time view of a Book. Readers receive
// one of these instead of the live Book so that nothing they do can
// observe a partially-applied quote or mutate engine state.
type Snapshot struct {
	Pair string
	Bids []LevelSnapshot
	Asks []LevelSnapshot
	TS   int64
}

// Snapshot copies the current book into an immutable view. Callers are
// expected to hold whatever lock protects the Book for the duration of this
// call; Snapshot itself performs no locking.
func (b *Book) Snapshot() Snapshot {
	return Snapshot{
		Pair: b.Pair,
		Bids: snapshotLevels(b.Bids.Items()),
		Asks: snapshotLevels(b.Asks.Items()),
		TS:   b.TS,
	}
}

func snapshotLevels(levels []*Level) []LevelSnapshot {
	out := make([]LevelSnapshot, len(levels))
	for i, lvl := range levels {
		contribs := make([]Contribution, len(lvl.Contribs))
		copy(contribs, lvl.Contribs)
		out[i] = LevelSnapshot{
			Price:    lvl.Price,
			Side:     lvl.Side,
			Contribs: contribs,
			Volume:   lvl.Volume,
		}
	}
	return out
}
