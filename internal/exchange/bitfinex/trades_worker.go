package bitfinex

import (
	"context"
	"encoding/json"
	"time"

	"github.com/acebytes/trader/internal/infra"
	"github.com/acebytes/trader/pkg/quant"

	"github.com/gorilla/websocket"
)

// TradeFunc receives each executed trade from the public feed.
type TradeFunc func(price quant.PriceMicros, ts quant.TimeStamp)

// TradesWorker subscribes to the public v2 trades channel for one symbol
// and forwards executions. Connection lifecycle (reconnect, backoff,
// read deadlines) is handled by BaseWSWorker.
type TradesWorker struct {
	base    *infra.BaseWSWorker
	url     string
	symbol  string
	onTrade TradeFunc

	// chanID is written from OnMessage only; the read loop is a single
	// goroutine so no locking is needed.
	chanID int64
}

// NewTradesWorker creates a public trades feed worker.
func NewTradesWorker(url, symbol string, onTrade TradeFunc) *TradesWorker {
	w := &TradesWorker{
		url:     url,
		symbol:  symbol,
		onTrade: onTrade,
		chanID:  -1,
	}
	w.base = infra.NewBaseWSWorker(w)
	return w
}

// ID returns the worker identifier.
func (w *TradesWorker) ID() string { return "BFX-TRADES" }

// GetURL returns the public WebSocket endpoint.
func (w *TradesWorker) GetURL() string { return w.url }

// Connect starts the connection loop.
func (w *TradesWorker) Connect(ctx context.Context) error {
	w.base.Start(ctx)
	return nil
}

// Disconnect terminates the worker.
func (w *TradesWorker) Disconnect() {
	w.base.Stop()
}

// OnConnect subscribes to the trades channel.
func (w *TradesWorker) OnConnect(ctx context.Context, conn *websocket.Conn) error {
	w.chanID = -1
	msg := map[string]any{
		"event":   "subscribe",
		"channel": "trades",
		"symbol":  wireSymbol(w.symbol),
	}
	b, _ := json.Marshal(msg)
	return w.base.Write(websocket.TextMessage, b)
}

// OnMessage handles subscription acks and trade frames.
func (w *TradesWorker) OnMessage(ctx context.Context, msg []byte) {
	if len(msg) == 0 {
		return
	}

	// Event frames are JSON objects, channel data is a JSON array.
	if msg[0] == '{' {
		var ev struct {
			Event  string `json:"event"`
			Chan   string `json:"channel"`
			ChanID int64  `json:"chanId"`
		}
		if err := json.Unmarshal(msg, &ev); err != nil {
			return
		}
		if ev.Event == "subscribed" && ev.Chan == "trades" {
			w.chanID = ev.ChanID
		}
		return
	}

	var frame []json.RawMessage
	if err := json.Unmarshal(msg, &frame); err != nil || len(frame) < 2 {
		return
	}

	var chanID int64
	if err := json.Unmarshal(frame[0], &chanID); err != nil || chanID != w.chanID {
		return
	}

	// ["te", [ID, MTS, AMOUNT, PRICE]] is the per-execution update.
	// "tu" repeats it with the trade ID filled in and "hb" is a
	// heartbeat; both are skipped, as is the initial snapshot.
	var kind string
	if err := json.Unmarshal(frame[1], &kind); err != nil || kind != "te" || len(frame) < 3 {
		return
	}

	price, ts, ok := parseTradeExecution(frame[2])
	if !ok {
		return
	}
	w.onTrade(price, ts)
}

// OnPing sends a v2 application-level ping.
func (w *TradesWorker) OnPing(ctx context.Context, conn *websocket.Conn) error {
	msg := map[string]any{"event": "ping", "cid": time.Now().Unix()}
	b, _ := json.Marshal(msg)
	return w.base.Write(websocket.TextMessage, b)
}

// parseTradeExecution extracts price and timestamp from a v2 trade
// array [ID, MTS, AMOUNT, PRICE]. json.Number keeps full precision.
func parseTradeExecution(raw json.RawMessage) (quant.PriceMicros, quant.TimeStamp, bool) {
	var fields []json.Number
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) < 4 {
		return 0, 0, false
	}

	price, err := quant.ParsePriceMicros(fields[3].String())
	if err != nil || price <= 0 {
		return 0, 0, false
	}

	mts, err := fields[1].Int64()
	if err != nil {
		return 0, 0, false
	}

	return price, quant.TimeStamp(mts * 1000), true
}
