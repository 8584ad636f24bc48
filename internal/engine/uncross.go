package engine

import "fxbook/internal/book"

// uncross repairs a crossed book (spec.md §4.3 Step C) and returns the
// number of levels removed, 0 if the book was not crossed.
//
// A book is crossed iff bids[0].price >= asks[k].price for some k.
// Detection walks the ask side from the worst ask toward the best and
// returns the largest such k (the deepest crossed ask), together with that
// ask's price. Only one uncross pass runs per Apply. The ask-side cut
// removes every ask at or below the top bid, so no cross remains. The
// bid-side cut removes only the bids at or above that ask's price, so a
// remaining bid can still cross a shallower ask; enforceSpread, which Apply
// runs next, removes such levels, since a crossed top of book has a gap of
// zero or less.
func uncross(b *book.Book) int {
	bids := b.Bids.Items()
	asks := b.Asks.Items()
	if len(bids) == 0 || len(asks) == 0 {
		return 0
	}

	topBidPips := bids[0].Pips

	crossIdx := -1
	for i := len(asks) - 1; i >= 0; i-- {
		if asks[i].Pips <= topBidPips {
			crossIdx = i
			break
		}
	}
	if crossIdx < 0 {
		return 0
	}
	crossPricePips := asks[crossIdx].Pips

	// Prefer to discard from the side carrying more levels, so the book
	// retains the thinner side's price signal (spec.md §4.3 "Rationale";
	// the asymmetry itself is design, preserved verbatim per spec.md §9
	// "Uncross-repair asymmetry").
	if len(bids) > len(asks) {
		// Search the bid side from the deep end upward; the first bid met
		// with bids[i].price >= crossPrice is the deepest such bid. bids is
		// sorted descending, so this is the boundary position and cutting
		// [0..=cutIdx] removes every bid at or above crossPrice.
		cutIdx := -1
		for i := len(bids) - 1; i >= 0; i-- {
			if bids[i].Pips >= crossPricePips {
				cutIdx = i
				break
			}
		}
		if cutIdx < 0 {
			return 0
		}
		b.Bids.DropTopN(cutIdx + 1)
		return cutIdx + 1
	}

	b.Asks.DropTopN(crossIdx + 1)
	return crossIdx + 1
}

type spreadRemoved struct {
	bids int
	asks int
}

// enforceSpread deletes top-of-book levels (spec.md §4.3 Step D) until the
// gap between best ask and best bid exceeds minSpread or a side empties.
func enforceSpread(b *book.Book, minSpread float64) spreadRemoved {
	var removed spreadRemoved
	for {
		bids := b.Bids.Items()
		asks := b.Asks.Items()
		if len(bids) == 0 || len(asks) == 0 {
			return removed
		}
		if asks[0].Price-bids[0].Price > minSpread {
			return removed
		}
		if len(bids) >= len(asks) {
			b.Bids.DropTopN(1)
			removed.bids++
		} else {
			b.Asks.DropTopN(1)
			removed.asks++
		}
	}
}
