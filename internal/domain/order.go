package domain

import "github.com/acebytes/trader/pkg/quant"

// Side identifies the order direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderStatus is the exchange-reported lifecycle state of an order.
// Once an order leaves ACTIVE the status is terminal for this engine:
// only ACTIVE -> EXECUTED is actionable, every other terminal status
// just stops the order from counting as open.
type OrderStatus string

const (
	StatusActive   OrderStatus = "ACTIVE"
	StatusExecuted OrderStatus = "EXECUTED"
	StatusCanceled OrderStatus = "CANCELED"
)

// Terminal reports whether the status can no longer transition.
func (s OrderStatus) Terminal() bool {
	return s != "" && s != StatusActive
}

// TradeOrder represents one submitted exchange order.
// Created from the submission acknowledgment, mutated only by
// exchange-pushed status updates matching its ID, and superseded by a
// newer order for the same side, never deleted.
type TradeOrder struct {
	ID           int64             `json:"id"`
	ClientID     string            `json:"cid,omitempty"`
	Symbol       string            `json:"symbol"`
	Side         Side              `json:"side"`
	PriceMicros  quant.PriceMicros `json:"price,string"`
	QtySats      quant.QtySats     `json:"qty,string"`
	Status       OrderStatus       `json:"status"`
	CreatedUnixM quant.TimeStamp   `json:"created_unix,string"`
}

// IsOpen reports whether the order is still working on the exchange.
// Nil-safe so callers can test an absent side directly.
func (o *TradeOrder) IsOpen() bool {
	return o != nil && o.Status == StatusActive
}

// OrderRequest describes a limit order to submit to a venue.
type OrderRequest struct {
	Symbol      string
	Side        Side
	PriceMicros quant.PriceMicros
	QtySats     quant.QtySats
	ClientID    string
}
