package domain

import "github.com/acebytes/trader/pkg/quant"

// Balances is the result of an exchange wallet query.
type Balances struct {
	USDMicros quant.PriceMicros `json:"usd,string"`
	BTCSats   quant.QtySats     `json:"btc,string"`
}

// AccountSnapshot is the bootstrap-supplied seed and the state persisted
// back on order lifecycle transitions. Zero value means a fresh account.
type AccountSnapshot struct {
	BalanceUSD        quant.PriceMicros `json:"balance_usd,string"`
	BalanceBTC        quant.QtySats     `json:"balance_btc,string"`
	LastBuy           *TradeOrder       `json:"last_buy,omitempty"`
	LastSell          *TradeOrder       `json:"last_sell,omitempty"`
	SupportZoneMicros quant.PriceMicros `json:"support_zone,string"`
}

// FeeSchedule holds exchange trading fees as fractions in micros
// (1000 micros = 0.001 = 0.1%).
type FeeSchedule struct {
	MakerMicros int64 `json:"maker,string"`
	TakerMicros int64 `json:"taker,string"`
}

// DefaultFees returns the Bitfinex spot schedule the agent assumes until
// the bootstrap store supplies one.
func DefaultFees() FeeSchedule {
	return FeeSchedule{MakerMicros: 1000, TakerMicros: 2000}
}

// RoundTripMicros is the combined maker+taker cost of a buy/sell cycle.
func (f FeeSchedule) RoundTripMicros() int64 {
	return f.MakerMicros + f.TakerMicros
}
