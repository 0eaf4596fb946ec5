package event

import (
	"sync"

	"github.com/acebytes/trader/internal/domain"
	"github.com/acebytes/trader/pkg/quant"
)

// Type defines the type of event.
type Type uint16

const (
	EvTrade Type = iota + 1
	EvOrderUpdate
	EvSellCheck
	EvSubmitResult
	EvBalances
)

// Event is the interface for everything flowing through the engine inbox.
type Event interface {
	GetTs() quant.TimeStamp
	GetType() Type
}

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	Ts quant.TimeStamp `json:"ts"`
}

func (e BaseEvent) GetTs() quant.TimeStamp { return e.Ts }

// TradeEvent is one trade tick from the market data feed.
type TradeEvent struct {
	BaseEvent
	PriceMicros quant.PriceMicros `json:"price"`
}

func (e TradeEvent) GetType() Type { return EvTrade }

// OrderUpdateEvent is an order status push from the exchange.
type OrderUpdateEvent struct {
	BaseEvent
	Order domain.TradeOrder `json:"order"`
}

func (e OrderUpdateEvent) GetType() Type { return EvOrderUpdate }

// SellCheckEvent asks the engine to run a sell evaluation.
// Posted at startup by the bootstrap; fills trigger the same path internally.
type SellCheckEvent struct {
	BaseEvent
}

func (e SellCheckEvent) GetType() Type { return EvSellCheck }

// SubmitResultEvent carries the outcome of an asynchronous order submission
// back onto the engine goroutine.
type SubmitResultEvent struct {
	BaseEvent
	Side  domain.Side
	Order domain.TradeOrder
	Err   error
}

func (e SubmitResultEvent) GetType() Type { return EvSubmitResult }

// BalancesEvent carries the outcome of an asynchronous balance refresh.
type BalancesEvent struct {
	BaseEvent
	Balances domain.Balances
	Err      error
}

func (e BalancesEvent) GetType() Type { return EvBalances }

// Trade ticks are the only high-rate event, so they are pooled.

var tradePool = sync.Pool{
	New: func() any { return &TradeEvent{} },
}

// AcquireTradeEvent returns a zeroed TradeEvent from the pool.
func AcquireTradeEvent() *TradeEvent {
	return tradePool.Get().(*TradeEvent)
}

// ReleaseTradeEvent resets the event and returns it to the pool.
func ReleaseTradeEvent(e *TradeEvent) {
	e.Ts = 0
	e.PriceMicros = 0
	tradePool.Put(e)
}

// Warmup pre-populates the pool to avoid allocations on the first ticks.
func Warmup() {
	evs := make([]*TradeEvent, 0, 64)
	for i := 0; i < 64; i++ {
		evs = append(evs, AcquireTradeEvent())
	}
	for _, e := range evs {
		ReleaseTradeEvent(e)
	}
}
