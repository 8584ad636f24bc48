package quote_test

import (
	"testing"

	"fxbook/internal/common"
	"fxbook/internal/quote"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParse_Success(t *testing.T) {
	line := "MS|EURUSD|1.5556|1.5566|1.5555|1.5567|1.5554|1.5568|1700000000000000000"
	q, err := quote.Parse(line)
	require.NoError(t, err)

	assert.Equal(t, "MS", q.LP)
	assert.Equal(t, "EURUSD", q.Pair)
	assert.Equal(t, int64(1700000000000000000), q.TSNs)
	assert.Equal(t, line, q.Raw)

	require.Len(t, q.Subs, 6)
	assert.Equal(t, common.Tier1M, q.Subs[0].Tier)
	assert.Equal(t, common.Bid, q.Subs[0].Side)
	assert.True(t, q.Subs[0].Price.Equal(mustDec("1.5556")))
	assert.Equal(t, common.Tier1M, q.Subs[1].Tier)
	assert.Equal(t, common.Ask, q.Subs[1].Side)
	assert.Equal(t, common.Tier3M, q.Subs[2].Tier)
	assert.Equal(t, common.Bid, q.Subs[2].Side)
	assert.Equal(t, common.Tier3M, q.Subs[3].Tier)
	assert.Equal(t, common.Ask, q.Subs[3].Side)
	assert.Equal(t, common.Tier5M, q.Subs[4].Tier)
	assert.Equal(t, common.Bid, q.Subs[4].Side)
	assert.Equal(t, common.Tier5M, q.Subs[5].Tier)
	assert.Equal(t, common.Ask, q.Subs[5].Side)
}

func TestParse_TrimsWhitespaceAroundFields(t *testing.T) {
	line := " MS | EURUSD | 1.5556 | 1.5566 | 1.5555 | 1.5567 | 1.5554 | 1.5568 | 1 "
	q, err := quote.Parse(line)
	require.NoError(t, err)
	assert.Equal(t, "MS", q.LP)
	assert.Equal(t, "EURUSD", q.Pair)
}

func TestParse_Malformed_TooFewFields(t *testing.T) {
	_, err := quote.Parse("MS|EURUSD|1.5556|1.5566")
	assert.ErrorIs(t, err, common.ErrMalformed)
}

func TestParse_EmptyField_LP(t *testing.T) {
	_, err := quote.Parse(" |EURUSD|1.5556|1.5566|1.5555|1.5567|1.5554|1.5568|1")
	assert.ErrorIs(t, err, common.ErrEmptyField)
}

func TestParse_EmptyField_Pair(t *testing.T) {
	_, err := quote.Parse("MS| |1.5556|1.5566|1.5555|1.5567|1.5554|1.5568|1")
	assert.ErrorIs(t, err, common.ErrEmptyField)
}

func TestParse_BadNumber_Price(t *testing.T) {
	_, err := quote.Parse("MS|EURUSD|notaprice|1.5566|1.5555|1.5567|1.5554|1.5568|1")
	assert.ErrorIs(t, err, common.ErrBadNumber)
}

func TestParse_BadNumber_Timestamp(t *testing.T) {
	_, err := quote.Parse("MS|EURUSD|1.5556|1.5566|1.5555|1.5567|1.5554|1.5568|notanumber")
	assert.ErrorIs(t, err, common.ErrBadNumber)
}

func TestParse_OnError_ReturnsZeroQuote(t *testing.T) {
	q, err := quote.Parse("bad")
	require.Error(t, err)
	assert.Equal(t, quote.Quote{}, q)
}
