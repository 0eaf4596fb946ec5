package telemetry

import (
	"github.com/acebytes/trader/internal/domain"
	"github.com/acebytes/trader/pkg/quant"
)

// Snapshot is one account state row: balances plus the zones the engine
// is currently acting on. Time is stamped by the Reporter.
type Snapshot struct {
	Time           string            `json:"time"`
	BalanceUSD     quant.PriceMicros `json:"balance_usd"`
	BalanceBTC     quant.QtySats     `json:"balance_btc"`
	SupportZone    quant.PriceMicros `json:"support_zone"`
	ResistanceZone quant.PriceMicros `json:"resistance_zone"`
}

// Recorder receives account snapshots and order events. Implementations
// must treat delivery as best-effort; the engine never blocks trading on
// a sink error.
type Recorder interface {
	RecordSnapshot(s Snapshot) error
	RecordOrder(o domain.TradeOrder) error
}
