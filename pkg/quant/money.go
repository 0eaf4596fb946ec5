package quant

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// PriceMicros represents a USD price multiplied by 1,000,000 (10^6).
// E.g., 50,000.25 USD = 50,000,250,000 PriceMicros.
type PriceMicros int64

// QtySats represents a BTC quantity multiplied by 100,000,000 (10^8).
// E.g., 1.0 BTC = 100,000,000 QtySats.
type QtySats int64

// TimeStamp represents Unix Microseconds.
type TimeStamp int64

const (
	PriceScale = 1_000_000
	QtyScale   = 100_000_000
)

// ToPriceMicros converts a float64 from an external API to PriceMicros.
// NaN, infinities and negative values collapse to zero so they can never
// leak into decision inputs.
func ToPriceMicros(f float64) PriceMicros {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	return PriceMicros(math.Round(f * PriceScale))
}

// ToQtySats converts a float64 to QtySats with the same non-finite guard.
func ToQtySats(f float64) QtySats {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	return QtySats(math.Round(f * QtyScale))
}

// ParsePriceMicros parses a decimal price string exactly (no float round-trip).
func ParsePriceMicros(s string) (PriceMicros, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	return PriceMicros(d.Shift(6).IntPart()), nil
}

// ParseQtySats parses a decimal quantity string exactly.
func ParseQtySats(s string) (QtySats, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse qty %q: %w", s, err)
	}
	return QtySats(d.Shift(8).IntPart()), nil
}

// Decimal views, used when formatting wire requests.

func (p PriceMicros) Decimal() decimal.Decimal { return decimal.New(int64(p), -6) }
func (q QtySats) Decimal() decimal.Decimal     { return decimal.New(int64(q), -8) }

func (p PriceMicros) String() string { return p.Decimal().StringFixed(6) }
func (q QtySats) String() string     { return q.Decimal().StringFixed(8) }

func (p PriceMicros) Float64() float64 { return float64(p) / PriceScale }
func (q QtySats) Float64() float64     { return float64(q) / QtyScale }

// Notional returns the USD value of qty at price p, in micros.
// Computed through decimal: price*qty products overflow int64 well within
// realistic BTC ranges.
func Notional(p PriceMicros, q QtySats) PriceMicros {
	if p <= 0 || q <= 0 {
		return 0
	}
	n := decimal.New(int64(p), 0).Mul(decimal.New(int64(q), 0)).Div(decimal.New(QtyScale, 0))
	return PriceMicros(n.IntPart())
}

// QtyFor returns how much BTC the given USD amount buys at price p.
// Returns zero for a non-positive price.
func QtyFor(spend PriceMicros, p PriceMicros) QtySats {
	if p <= 0 || spend <= 0 {
		return 0
	}
	q := decimal.New(int64(spend), 0).Mul(decimal.New(QtyScale, 0)).Div(decimal.New(int64(p), 0))
	return QtySats(q.IntPart())
}

// ParseTimeStamp converts a millisecond string to TimeStamp (micros).
func ParseTimeStamp(s string) (TimeStamp, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return TimeStamp(ms * 1000), nil
}
