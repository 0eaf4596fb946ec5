package bitfinex

import (
	"fmt"
	"strings"

	"github.com/acebytes/trader/internal/domain"
	"github.com/acebytes/trader/pkg/quant"
)

// orderResponse is the v1 order/new acknowledgment.
type orderResponse struct {
	ID             int64  `json:"id"`
	Symbol         string `json:"symbol"`
	Price          string `json:"price"`
	OriginalAmount string `json:"original_amount"`
	Side           string `json:"side"`
	IsLive         bool   `json:"is_live"`
	IsCancelled    bool   `json:"is_cancelled"`
	Timestamp      string `json:"timestamp"`
}

func (r orderResponse) toTradeOrder(clientID string, ts quant.TimeStamp) (domain.TradeOrder, error) {
	price, err := quant.ParsePriceMicros(r.Price)
	if err != nil {
		return domain.TradeOrder{}, fmt.Errorf("order %d: %w", r.ID, err)
	}
	qty, err := quant.ParseQtySats(r.OriginalAmount)
	if err != nil {
		return domain.TradeOrder{}, fmt.Errorf("order %d: %w", r.ID, err)
	}

	status := domain.StatusExecuted
	switch {
	case r.IsCancelled:
		status = domain.StatusCanceled
	case r.IsLive:
		status = domain.StatusActive
	}

	return domain.TradeOrder{
		ID:           r.ID,
		ClientID:     clientID,
		Symbol:       r.Symbol,
		Side:         domain.Side(strings.ToLower(r.Side)),
		PriceMicros:  price,
		QtySats:      qty,
		Status:       status,
		CreatedUnixM: ts,
	}, nil
}

// balanceEntry is one wallet row from v1 balances.
type balanceEntry struct {
	Type      string `json:"type"` // "exchange", "trading", "deposit"
	Currency  string `json:"currency"`
	Amount    string `json:"amount"`
	Available string `json:"available"`
}

// ParseOrderStatus maps a Bitfinex status string onto the engine's
// lifecycle. Pushed statuses carry detail after the first word
// ("EXECUTED @ 50000.0(0.02)"); only the leading token matters.
// PARTIALLY FILLED orders are still working, everything else that is not
// ACTIVE is terminal.
func ParseOrderStatus(s string) domain.OrderStatus {
	fields := strings.Fields(strings.ToUpper(s))
	if len(fields) == 0 {
		return domain.StatusCanceled
	}
	switch fields[0] {
	case "ACTIVE", "PARTIALLY":
		return domain.StatusActive
	case "EXECUTED":
		return domain.StatusExecuted
	case "CANCELED":
		return domain.StatusCanceled
	default:
		return domain.OrderStatus(fields[0])
	}
}

// wireSymbol converts a config pair ("btcusd") to the v2 channel form.
func wireSymbol(symbol string) string {
	return "t" + strings.ToUpper(symbol)
}
