package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/acebytes/trader/internal/domain"
	"github.com/acebytes/trader/pkg/quant"
)

// Paper simulates the exchange with virtual balances and limit-order fills
// driven by the live market feed. Used to validate the decision engine
// without real money.
type Paper struct {
	mu       sync.Mutex
	balances domain.Balances
	open     []domain.TradeOrder
	nextID   int64
	onUpdate func(domain.TradeOrder)
}

// NewPaper creates a paper venue holding the given virtual USD balance.
func NewPaper(initialUSD quant.PriceMicros) *Paper {
	return &Paper{
		balances: domain.Balances{USDMicros: initialUSD},
		nextID:   1,
	}
}

// SetOrderUpdateFunc installs the callback invoked when a simulated order
// changes status. Must be set before the first fill can happen.
func (p *Paper) SetOrderUpdateFunc(fn func(domain.TradeOrder)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onUpdate = fn
}

// SubmitOrder acknowledges the order as ACTIVE and reserves the funds it
// consumes, mirroring how the live venue locks the wallet.
func (p *Paper) SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.TradeOrder, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if req.QtySats <= 0 || req.PriceMicros <= 0 {
		return domain.TradeOrder{}, fmt.Errorf("paper: invalid order: qty=%s price=%s", req.QtySats, req.PriceMicros)
	}

	switch req.Side {
	case domain.SideBuy:
		cost := quant.Notional(req.PriceMicros, req.QtySats)
		if p.balances.USDMicros < cost {
			return domain.TradeOrder{}, fmt.Errorf("paper: insufficient USD: need %s, have %s", cost, p.balances.USDMicros)
		}
		p.balances.USDMicros -= cost
	case domain.SideSell:
		if p.balances.BTCSats < req.QtySats {
			return domain.TradeOrder{}, fmt.Errorf("paper: insufficient BTC: need %s, have %s", req.QtySats, p.balances.BTCSats)
		}
		p.balances.BTCSats -= req.QtySats
	default:
		return domain.TradeOrder{}, fmt.Errorf("paper: unknown side %q", req.Side)
	}

	order := domain.TradeOrder{
		ID:           p.nextID,
		ClientID:     req.ClientID,
		Symbol:       req.Symbol,
		Side:         req.Side,
		PriceMicros:  req.PriceMicros,
		QtySats:      req.QtySats,
		Status:       domain.StatusActive,
		CreatedUnixM: quant.TimeStamp(time.Now().UnixMicro()),
	}
	p.nextID++
	p.open = append(p.open, order)

	slog.Info("paper: order accepted",
		slog.Int64("id", order.ID),
		slog.String("side", string(order.Side)),
		slog.String("price", order.PriceMicros.String()),
		slog.String("qty", order.QtySats.String()))

	return order, nil
}

// Balances returns the current virtual wallet.
func (p *Paper) Balances(ctx context.Context) (domain.Balances, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balances, nil
}

// UpdatePrice drives simulated fills: a buy fills when the market trades at
// or below its limit, a sell when it trades at or above. Filled orders are
// reported through the order-update callback like an exchange push.
func (p *Paper) UpdatePrice(price quant.PriceMicros) {
	if price <= 0 {
		return
	}

	p.mu.Lock()
	var filled []domain.TradeOrder
	remaining := p.open[:0]
	for _, o := range p.open {
		if p.crosses(o, price) {
			o.Status = domain.StatusExecuted
			p.credit(o)
			filled = append(filled, o)
		} else {
			remaining = append(remaining, o)
		}
	}
	p.open = remaining
	cb := p.onUpdate
	p.mu.Unlock()

	for _, o := range filled {
		slog.Info("paper: order filled",
			slog.Int64("id", o.ID),
			slog.String("side", string(o.Side)),
			slog.String("price", o.PriceMicros.String()))
		if cb != nil {
			cb(o)
		}
	}
}

func (p *Paper) crosses(o domain.TradeOrder, price quant.PriceMicros) bool {
	if o.Side == domain.SideBuy {
		return price <= o.PriceMicros
	}
	return price >= o.PriceMicros
}

// credit books the proceeds of a fill. Funds were already debited at
// submission time. Must be called with the mutex held.
func (p *Paper) credit(o domain.TradeOrder) {
	if o.Side == domain.SideBuy {
		p.balances.BTCSats += o.QtySats
	} else {
		p.balances.USDMicros += quant.Notional(o.PriceMicros, o.QtySats)
	}
}
