package book

import (
	"fmt"

	"fxbook/internal/common"

	"github.com/tidwall/btree"
)

// Store is one side (bid or ask) of the book: an ordered collection of
// Levels keyed by canonical price, sorted the direction that side needs
// (bids descending, asks ascending) by construction. Ordering is delegated
// to tidwall/btree.BTreeG, the same ordered-map primitive the teacher's
// engine.OrderBook uses for its PriceLevels: a btree comparator replaces the
// explicit sort() pass spec.md describes, since the tree never falls out of
// order between inserts.
type Store struct {
	side common.Side
	tree *btree.BTreeG[*Level]
}

// NewStore builds an empty Store for the given side.
func NewStore(side common.Side) *Store {
	var less func(a, b *Level) bool
	switch side {
	case common.Bid:
		less = func(a, b *Level) bool { return a.Pips > b.Pips } // best (highest) bid first
	case common.Ask:
		less = func(a, b *Level) bool { return a.Pips < b.Pips } // best (lowest) ask first
	default:
		panic(fmt.Sprintf("book: unknown side %v", side))
	}
	return &Store{
		side: side,
		tree: btree.NewBTreeG(less),
	}
}

// Len reports the number of distinct price levels on this side.
func (s *Store) Len() int { return s.tree.Len() }

// Items returns every Level on this side, best-priced first. The returned
// slice is a fresh copy of the tree's internal ordering; callers must not
// retain it across a mutating call.
func (s *Store) Items() []*Level {
	return s.tree.Items()
}

// Insert adds lp's contribution at notional to the level at pips, creating
// the level if this is the first contribution at that price (spec.md
// §4.2 insert).
func (s *Store) Insert(lp string, notional common.Tier, pips int64) {
	probe := newLevel(pips, s.side)
	if existing, ok := s.tree.Get(probe); ok {
		existing.Contribs = append(existing.Contribs, Contribution{LP: lp, Notional: notional})
		existing.recalc()
		return
	}
	probe.Contribs = append(probe.Contribs, Contribution{LP: lp, Notional: notional})
	probe.recalc()
	s.tree.Set(probe)
}

// Retire removes every contribution made by (lp, tier) from this side,
// recomputing each touched level's volume, and deletes any level whose
// contributions become empty as a result.
//
// Under invariant I5 a given (lp, tier) appears in at most one level per
// side, so at most one level can be emptied by a single Retire call. The
// source implementation this is ported from only ever tracked the
// last-seen emptied index and deleted just that one (spec.md §9, "known
// ambiguity"); asserting I5 here and deleting every level Retire actually
// empties is behaviorally identical to that source behavior and avoids
// silently tolerating a second emptied level, which would indicate I5 had
// already been violated by an earlier bug.
func (s *Store) Retire(lp string, tier common.Tier) {
	var emptied []*Level
	for _, lvl := range s.tree.Items() {
		kept := lvl.Contribs[:0:0]
		for _, c := range lvl.Contribs {
			if c.LP == lp && c.Notional == tier {
				continue
			}
			kept = append(kept, c)
		}
		if len(kept) == len(lvl.Contribs) {
			continue
		}
		lvl.Contribs = kept
		lvl.recalc()
		if lvl.empty() {
			emptied = append(emptied, lvl)
		}
	}
	if len(emptied) > 1 {
		panic(fmt.Sprintf("book: I5 violated, (lp=%s, tier=%v) retired %d levels empty on one side", lp, tier, len(emptied)))
	}
	for _, lvl := range emptied {
		s.tree.Delete(lvl)
	}
}

// DropTopN removes the first n levels from the best-priced end of this
// side. n is clamped to the number of levels present.
func (s *Store) DropTopN(n int) {
	items := s.tree.Items()
	if n > len(items) {
		n = len(items)
	}
	for i := 0; i < n; i++ {
		s.tree.Delete(items[i])
	}
}
