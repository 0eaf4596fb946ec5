package strategy

import (
	"github.com/acebytes/trader/pkg/quant"
)

// Strategy is the pluggable zone rule consulted by the decision engine.
// Implementations must be deterministic given their internal state and the
// current price, free of side effects beyond their own state, and safe
// against non-finite or non-positive inputs (such values never move a zone).
//
// Strategies are only ever called from the engine goroutine and need no
// internal locking.
type Strategy interface {
	// ObserveTrade feeds one trade price into the support-zone tracker.
	ObserveTrade(p quant.PriceMicros)

	// TimeToBuy reports whether the buy-signal rule fires at this price.
	TimeToBuy(p quant.PriceMicros) bool

	// ResistanceZone computes the target sell price from a reference
	// (purchase) price. Pure function; returns 0 for invalid references.
	ResistanceZone(ref quant.PriceMicros) quant.PriceMicros

	// SupportZone returns the tracked highest support zone, 0 if none yet.
	SupportZone() quant.PriceMicros

	// Restore seeds the support zone from a bootstrap snapshot.
	// It never lowers an already-learned zone.
	Restore(p quant.PriceMicros)
}
