package strategy

import (
	"github.com/acebytes/trader/internal/domain"
	"github.com/acebytes/trader/pkg/quant"
	"github.com/acebytes/trader/pkg/safe"
)

// ZoneStrategy implements the fixed support/resistance rule.
//
// Support: each trade price nominates the largest zone-grid multiple
// strictly below it; the tracked zone is the monotonic maximum of those
// candidates. It is a floor that never decreases once learned.
//
// Buy signal: price has come back down onto the tracked support zone.
//
// Resistance: the purchase price marked up by the round-trip fee cost
// plus a configured profit margin.
type ZoneStrategy struct {
	widthMicros  int64 // zone grid width, e.g. 1000 USD in micros
	markupMicros int64 // maker+taker+margin, fraction in micros

	highestSupport quant.PriceMicros
}

// NewZoneStrategy builds the rule from the zone grid width, the exchange
// fee schedule and the target profit margin (fraction in micros).
func NewZoneStrategy(widthMicros int64, fees domain.FeeSchedule, marginMicros int64) *ZoneStrategy {
	if widthMicros <= 0 {
		panic("strategy: zone width must be positive")
	}
	return &ZoneStrategy{
		widthMicros:  widthMicros,
		markupMicros: safe.SafeAdd(fees.RoundTripMicros(), marginMicros),
	}
}

// ObserveTrade updates the support-zone floor. Non-positive prices are
// dropped at the boundary conversion already, but are guarded here too.
func (z *ZoneStrategy) ObserveTrade(p quant.PriceMicros) {
	if p <= 0 {
		return
	}
	cand := quant.PriceMicros(safe.SafeMul(safe.SafeDiv(int64(p)-1, z.widthMicros), z.widthMicros))
	if cand > z.highestSupport {
		z.highestSupport = cand
	}
}

// TimeToBuy fires when the price is at or below the tracked support zone.
func (z *ZoneStrategy) TimeToBuy(p quant.PriceMicros) bool {
	return z.highestSupport > 0 && p > 0 && p <= z.highestSupport
}

// ResistanceZone returns ref marked up by fees plus the profit margin.
func (z *ZoneStrategy) ResistanceZone(ref quant.PriceMicros) quant.PriceMicros {
	if ref <= 0 {
		return 0
	}
	markup := safe.SafeDiv(safe.SafeMul(int64(ref), z.markupMicros), quant.PriceScale)
	return quant.PriceMicros(safe.SafeAdd(int64(ref), markup))
}

// SupportZone returns the current floor, 0 if nothing qualified yet.
func (z *ZoneStrategy) SupportZone() quant.PriceMicros {
	return z.highestSupport
}

// Restore seeds the floor from a persisted snapshot. Values that are not
// strictly positive, or would lower the floor, are ignored.
func (z *ZoneStrategy) Restore(p quant.PriceMicros) {
	if p > z.highestSupport {
		z.highestSupport = p
	}
}
