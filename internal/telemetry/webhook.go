package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/acebytes/trader/internal/domain"
)

// Webhook posts snapshots and order events as JSON to an HTTP endpoint.
// An empty URL disables it, every call becomes a no-op.
type Webhook struct {
	url     string
	enabled bool
	client  *http.Client
}

// NewWebhook creates a webhook sink.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:     url,
		enabled: url != "",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// RecordSnapshot posts one account snapshot row.
func (w *Webhook) RecordSnapshot(s Snapshot) error {
	return w.post(map[string]any{
		"kind":            "snapshot",
		"time":            s.Time,
		"balance_usd":     s.BalanceUSD.String(),
		"balance_btc":     s.BalanceBTC.String(),
		"support_zone":    s.SupportZone.String(),
		"resistance_zone": s.ResistanceZone.String(),
	})
}

// RecordOrder posts one order event.
func (w *Webhook) RecordOrder(o domain.TradeOrder) error {
	return w.post(map[string]any{
		"kind":     "order",
		"order_id": o.ID,
		"symbol":   o.Symbol,
		"side":     string(o.Side),
		"price":    o.PriceMicros.String(),
		"qty":      o.QtySats.String(),
		"status":   string(o.Status),
	})
}

func (w *Webhook) post(payload map[string]any) error {
	if !w.enabled {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status: %d", resp.StatusCode)
	}
	return nil
}
