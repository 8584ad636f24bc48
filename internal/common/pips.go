package common

import "github.com/shopspring/decimal"

// pipScale converts a decimal price into an integer "pip" count at
// PricePrecision fractional digits. Levels are keyed by this integer rather
// than by the source float64: two quotes that round to the same canonical
// price always collide exactly, with no IEEE-754 comparison risk (spec
// design notes flag float-keyed levels as a hardening candidate, not a
// behavioral change to the happy path).
var pipScale = decimal.New(1, PricePrecision) // 10^PricePrecision

// ToPips canonicalizes a decimal price to its integer pip count, rounding
// half-away-from-zero at PricePrecision fractional digits.
func ToPips(price decimal.Decimal) int64 {
	return price.Mul(pipScale).Round(0).IntPart()
}

// PipsToPrice converts a canonical pip count back to its float64 display
// price.
func PipsToPrice(pips int64) float64 {
	f, _ := decimal.New(pips, -PricePrecision).Float64()
	return f
}
