// Package quote turns an inbound pipe-framed market-data record into a
// structured Quote the aggregation engine can apply.
package quote

import (
	"fmt"
	"strconv"
	"strings"

	"fxbook/internal/common"

	"github.com/shopspring/decimal"
)

const fieldCount = 9

// SubQuote is one (tier, side, price) tuple extracted from a Quote, in the
// fixed delivery order 1-Bid, 1-Ask, 3-Bid, 3-Ask, 5-Bid, 5-Ask.
type SubQuote struct {
	Tier  common.Tier
	Side  common.Side
	Price decimal.Decimal
}

// Quote is a single parsed market-data record from one liquidity provider.
type Quote struct {
	LP   string
	Pair string
	Subs [6]SubQuote
	TSNs int64
	Raw  string
}

// Parse decodes one line of the form:
//
//	LP | PAIR | P1B | P1A | P3B | P3A | P5B | P5A | TS_NS
//
// Fields are trimmed of surrounding whitespace. Parse never partially
// populates a Quote: on any error the returned Quote is the zero value.
func Parse(line string) (Quote, error) {
	fields := strings.Split(line, "|")
	if len(fields) < fieldCount {
		return Quote{}, fmt.Errorf("%w: expected %d fields, got %d", common.ErrMalformed, fieldCount, len(fields))
	}

	lp := strings.TrimSpace(fields[0])
	if lp == "" {
		return Quote{}, fmt.Errorf("%w: lp", common.ErrEmptyField)
	}
	pair := strings.TrimSpace(fields[1])
	if pair == "" {
		return Quote{}, fmt.Errorf("%w: pair", common.ErrEmptyField)
	}

	prices := make([]decimal.Decimal, 6)
	for i := 0; i < 6; i++ {
		p, err := decimal.NewFromString(strings.TrimSpace(fields[2+i]))
		if err != nil {
			return Quote{}, fmt.Errorf("%w: price field %d: %v", common.ErrBadNumber, i, err)
		}
		prices[i] = p
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(fields[8]), 10, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: ts: %v", common.ErrBadNumber, err)
	}

	return Quote{
		LP:   lp,
		Pair: pair,
		Subs: [6]SubQuote{
			{Tier: common.Tier1M, Side: common.Bid, Price: prices[0]},
			{Tier: common.Tier1M, Side: common.Ask, Price: prices[1]},
			{Tier: common.Tier3M, Side: common.Bid, Price: prices[2]},
			{Tier: common.Tier3M, Side: common.Ask, Price: prices[3]},
			{Tier: common.Tier5M, Side: common.Bid, Price: prices[4]},
			{Tier: common.Tier5M, Side: common.Ask, Price: prices[5]},
		},
		TSNs: ts,
		Raw:  line,
	}, nil
}
