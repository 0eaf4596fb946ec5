package bitfinex

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/acebytes/trader/internal/domain"
	"github.com/acebytes/trader/internal/infra"
	"github.com/acebytes/trader/pkg/quant"

	"github.com/gorilla/websocket"
)

// The authenticated feed lives on the main endpoint, not api-pub.
const authWSURL = "wss://api.bitfinex.com/ws/2"

// OrderFunc receives each order lifecycle update from the account feed.
type OrderFunc func(order domain.TradeOrder)

// OrdersWorker maintains the authenticated v2 connection and forwards
// order updates (new, update, close) plus the snapshot sent on auth.
// Malformed frames are dropped silently; the feed is advisory and the
// REST acknowledgment remains the source of truth for submissions.
type OrdersWorker struct {
	base    *infra.BaseWSWorker
	signer  *Signer
	onOrder OrderFunc
}

// NewOrdersWorker creates an authenticated account feed worker.
func NewOrdersWorker(signer *Signer, onOrder OrderFunc) *OrdersWorker {
	w := &OrdersWorker{
		signer:  signer,
		onOrder: onOrder,
	}
	w.base = infra.NewBaseWSWorker(w)
	return w
}

// ID returns the worker identifier.
func (w *OrdersWorker) ID() string { return "BFX-ORDERS" }

// GetURL returns the authenticated WebSocket endpoint.
func (w *OrdersWorker) GetURL() string { return authWSURL }

// Connect starts the connection loop.
func (w *OrdersWorker) Connect(ctx context.Context) error {
	w.base.Start(ctx)
	return nil
}

// Disconnect terminates the worker.
func (w *OrdersWorker) Disconnect() {
	w.base.Stop()
}

// OnConnect sends the auth handshake.
func (w *OrdersWorker) OnConnect(ctx context.Context, conn *websocket.Conn) error {
	nonce := strconv.FormatInt(time.Now().UnixMicro(), 10)
	payload := "AUTH" + nonce

	msg := map[string]any{
		"event":       "auth",
		"apiKey":      w.signer.Key(),
		"authSig":     w.signer.AuthSignature(payload),
		"authNonce":   nonce,
		"authPayload": payload,
	}
	b, _ := json.Marshal(msg)
	return w.base.Write(websocket.TextMessage, b)
}

// OnMessage handles account channel frames.
func (w *OrdersWorker) OnMessage(ctx context.Context, msg []byte) {
	if len(msg) == 0 || msg[0] == '{' {
		return // auth ack / info events need no handling
	}

	var frame []json.RawMessage
	if err := json.Unmarshal(msg, &frame); err != nil || len(frame) < 3 {
		return
	}

	var kind string
	if err := json.Unmarshal(frame[1], &kind); err != nil {
		return
	}

	switch kind {
	case "on", "ou", "oc":
		if order, ok := parseOrderArray(frame[2]); ok {
			w.onOrder(order)
		}
	case "os":
		var rows []json.RawMessage
		if err := json.Unmarshal(frame[2], &rows); err != nil {
			return
		}
		for _, row := range rows {
			if order, ok := parseOrderArray(row); ok {
				w.onOrder(order)
			}
		}
	}
}

// OnPing sends a v2 application-level ping.
func (w *OrdersWorker) OnPing(ctx context.Context, conn *websocket.Conn) error {
	msg := map[string]any{"event": "ping", "cid": time.Now().Unix()}
	b, _ := json.Marshal(msg)
	return w.base.Write(websocket.TextMessage, b)
}

// parseOrderArray decodes a v2 order array:
// [ID, GID, CID, SYMBOL, MTS_CREATE, MTS_UPDATE, AMOUNT, AMOUNT_ORIG,
//  TYPE, ..., STATUS(13), ..., PRICE(16), ...]
// The sign of AMOUNT_ORIG carries the side.
func parseOrderArray(raw json.RawMessage) (domain.TradeOrder, bool) {
	var f []json.RawMessage
	if err := json.Unmarshal(raw, &f); err != nil || len(f) < 17 {
		return domain.TradeOrder{}, false
	}

	var (
		id      int64
		symbol  string
		created int64
		amount  json.Number
		status  string
		price   json.Number
	)
	if json.Unmarshal(f[0], &id) != nil ||
		json.Unmarshal(f[3], &symbol) != nil ||
		json.Unmarshal(f[4], &created) != nil ||
		json.Unmarshal(f[7], &amount) != nil ||
		json.Unmarshal(f[13], &status) != nil ||
		json.Unmarshal(f[16], &price) != nil {
		return domain.TradeOrder{}, false
	}

	side := domain.SideBuy
	amt := amount.String()
	if strings.HasPrefix(amt, "-") {
		side = domain.SideSell
		amt = amt[1:]
	}

	qty, err := quant.ParseQtySats(amt)
	if err != nil || qty <= 0 {
		return domain.TradeOrder{}, false
	}
	p, err := quant.ParsePriceMicros(price.String())
	if err != nil || p <= 0 {
		return domain.TradeOrder{}, false
	}

	return domain.TradeOrder{
		ID:           id,
		Symbol:       strings.ToLower(strings.TrimPrefix(symbol, "t")),
		Side:         side,
		PriceMicros:  p,
		QtySats:      qty,
		Status:       ParseOrderStatus(status),
		CreatedUnixM: quant.TimeStamp(created * 1000),
	}, true
}
