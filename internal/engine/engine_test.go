package engine_test

import (
	"fmt"
	"testing"

	"fxbook/internal/book"
	"fxbook/internal/engine"
	"fxbook/internal/quote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line builds a pipe-framed quote record for lp with the six prices given
// in 1B,1A,3B,3A,5B,5A order.
func line(lp string, p1b, p1a, p3b, p3a, p5b, p5a float64, ts int64) string {
	return fmt.Sprintf("%s|EURUSD|%.4f|%.4f|%.4f|%.4f|%.4f|%.4f|%d", lp, p1b, p1a, p3b, p3a, p5b, p5a, ts)
}

func apply(t *testing.T, e *engine.Engine, l string) book.Snapshot {
	t.Helper()
	q, err := quote.Parse(l)
	require.NoError(t, err)
	return e.Apply(q)
}

func prices(levels []book.LevelSnapshot) []float64 {
	out := make([]float64, len(levels))
	for i, l := range levels {
		out[i] = l.Price
	}
	return out
}

// S3 — first-insert bootstrap: the first quote's 1M bid is the first
// insertion into the empty book, so it is accepted, and the asks that follow
// it are accepted too because bids are no longer empty. With every tier at
// the same prices, each side ends up with one level holding all three tiers.
func TestBootstrap_FirstInsertMustBeBid(t *testing.T) {
	e := engine.New("EURUSD", engine.Config{})
	snap := apply(t, e, line("MS", 1.5556, 1.5566, 1.5556, 1.5566, 1.5556, 1.5566, 1))

	require.Len(t, snap.Bids, 1)
	assert.Equal(t, 1.5556, snap.Bids[0].Price)
	assert.Equal(t, int64(9), snap.Bids[0].Volume)
	assert.Equal(t, []book.Contribution{{LP: "MS", Notional: 1}, {LP: "MS", Notional: 3}, {LP: "MS", Notional: 5}}, snap.Bids[0].Contribs)
}

// B1 — retire-then-insert relocates a contribution instead of growing
// totals: MS's 1M bid moves from 1.5556 to 1.5550 while its 3M and 5M stay.
func TestRetireThenInsert_RelocatesContribution(t *testing.T) {
	e := engine.New("EURUSD", engine.Config{})
	apply(t, e, line("MS", 1.5556, 1.5566, 1.5556, 1.5566, 1.5556, 1.5566, 1))

	snap := apply(t, e, line("MS", 1.5550, 1.5566, 1.5556, 1.5566, 1.5556, 1.5566, 2))

	require.Len(t, snap.Bids, 2) // 1.5556 (3M,5M) and 1.5550 (1M)
	assert.Equal(t, []float64{1.5556, 1.5550}, prices(snap.Bids))
	for _, l := range snap.Bids {
		if l.Price == 1.5550 {
			assert.Equal(t, int64(1), l.Volume)
		}
		if l.Price == 1.5556 {
			assert.Equal(t, int64(8), l.Volume) // 3M + 5M
		}
	}
}

// S1 — reverse-sort bids.
func TestSort_Bids_Descending(t *testing.T) {
	e := engine.New("EURUSD", engine.Config{})
	apply(t, e, line("A", 1.5555, 1.9999, 1.5555, 1.9999, 1.5555, 1.9999, 1))
	apply(t, e, line("B", 1.5556, 1.9998, 1.5556, 1.9998, 1.5556, 1.9998, 2))
	apply(t, e, line("C", 1.5553, 1.9997, 1.5553, 1.9997, 1.5553, 1.9997, 3))
	snap := apply(t, e, line("D", 1.5554, 1.9996, 1.5554, 1.9996, 1.5554, 1.9996, 4))

	assert.Equal(t, []float64{1.5556, 1.5555, 1.5554, 1.5553}, prices(snap.Bids))
}

// S2 — forward-sort asks.
func TestSort_Asks_Ascending(t *testing.T) {
	e := engine.New("EURUSD", engine.Config{})
	apply(t, e, line("A", 1.0001, 1.5565, 1.0001, 1.5565, 1.0001, 1.5565, 1))
	apply(t, e, line("B", 1.0002, 1.5563, 1.0002, 1.5563, 1.0002, 1.5563, 2))
	apply(t, e, line("C", 1.0003, 1.5567, 1.0003, 1.5567, 1.0003, 1.5567, 3))
	apply(t, e, line("D", 1.0004, 1.5564, 1.0004, 1.5564, 1.0004, 1.5564, 4))
	snap := apply(t, e, line("E", 1.0005, 1.5566, 1.0005, 1.5566, 1.0005, 1.5566, 5))

	assert.Equal(t, []float64{1.5563, 1.5564, 1.5565, 1.5566, 1.5567}, prices(snap.Asks))
}

// S4 — spread enforcement removes from bids when |bids| >= |asks|.
func TestSpreadEnforcement_RemovesFromBids(t *testing.T) {
	e := engine.New("EURUSD", engine.Config{})
	// Quote A leaves bids [1.5559] and asks [1.5564]; the 0.0005 gap is
	// too narrow and |bids| == |asks|, so the 1.5559 bid is removed. Quote
	// B then adds a 1.5556 bid and joins the 1.5564 ask, a 0.0008 gap.
	apply(t, e, line("A", 1.5559, 1.5564, 1.5559, 1.5564, 1.5559, 1.5564, 1))
	snap := apply(t, e, line("B", 1.5556, 1.5564, 1.5556, 1.5564, 1.5556, 1.5564, 2))

	assert.LessOrEqual(t, len(snap.Bids), 2)
	assert.Equal(t, []float64{1.5556}, prices(snap.Bids))
	assert.Equal(t, []float64{1.5564}, prices(snap.Asks))
	if len(snap.Asks) > 0 && len(snap.Bids) > 0 {
		assert.Greater(t, snap.Asks[0].Price-snap.Bids[0].Price, 0.0006)
	}
}

// P4 — invariant: whenever both sides are non-empty the spread exceeds
// MIN_SPREAD after Apply returns.
func TestInvariant_MinimumSpreadHolds(t *testing.T) {
	e := engine.New("EURUSD", engine.Config{})
	quotes := []string{
		line("A", 1.5556, 1.5560, 1.5556, 1.5560, 1.5556, 1.5560, 1),
		line("B", 1.5557, 1.5559, 1.5557, 1.5559, 1.5557, 1.5559, 2),
		line("C", 1.5558, 1.5562, 1.5558, 1.5562, 1.5558, 1.5562, 3),
	}
	var snap book.Snapshot
	for _, l := range quotes {
		snap = apply(t, e, l)
	}
	if len(snap.Bids) > 0 && len(snap.Asks) > 0 {
		assert.Greater(t, snap.Asks[0].Price-snap.Bids[0].Price, 0.0006)
	}
}

// P1/P2 — every level's volume equals the sum of its contributions, and no
// level has empty contributions.
func TestInvariant_VolumeMatchesContribsAndNeverEmpty(t *testing.T) {
	e := engine.New("EURUSD", engine.Config{})
	apply(t, e, line("A", 1.5556, 1.9999, 1.5556, 1.9999, 1.5556, 1.9999, 1))
	snap := apply(t, e, line("B", 1.5556, 1.9998, 1.5556, 1.9998, 1.5556, 1.9998, 2))

	for _, side := range [][]book.LevelSnapshot{snap.Bids, snap.Asks} {
		for _, l := range side {
			require.NotEmpty(t, l.Contribs)
			var sum int64
			for _, c := range l.Contribs {
				sum += int64(c.Notional)
			}
			assert.Equal(t, sum, l.Volume)
		}
	}
}

// P7 — ts is monotonically non-decreasing across Apply calls.
func TestTimestampMonotonic(t *testing.T) {
	e := engine.New("EURUSD", engine.Config{})
	s1 := apply(t, e, line("A", 1.5556, 1.9999, 1.5556, 1.9999, 1.5556, 1.9999, 100))
	s2 := apply(t, e, line("B", 1.5557, 1.9998, 1.5557, 1.9998, 1.5557, 1.9998, 200))
	assert.LessOrEqual(t, s1.TS, s2.TS)
}
