package exchange

import (
	"context"
	"testing"

	"github.com/acebytes/trader/internal/domain"
	"github.com/acebytes/trader/pkg/quant"
)

func usd(v int64) quant.PriceMicros { return quant.PriceMicros(v * quant.PriceScale) }

func TestPaper_ImplementsInterface(t *testing.T) {
	var _ Exchange = (*Paper)(nil)
}

func TestPaper_BuyLifecycle(t *testing.T) {
	p := NewPaper(usd(1000))

	var updates []domain.TradeOrder
	p.SetOrderUpdateFunc(func(o domain.TradeOrder) { updates = append(updates, o) })

	order, err := p.SubmitOrder(context.Background(), domain.OrderRequest{
		Symbol:      "btcusd",
		Side:        domain.SideBuy,
		PriceMicros: usd(50_000),
		QtySats:     2_000_000, // 0.02 BTC = 1000 USD
	})
	if err != nil {
		t.Fatalf("SubmitOrder failed: %v", err)
	}
	if order.Status != domain.StatusActive {
		t.Errorf("expected ACTIVE ack, got %s", order.Status)
	}

	// Funds are locked immediately.
	b, _ := p.Balances(context.Background())
	if b.USDMicros != 0 {
		t.Errorf("expected USD locked, got %s", b.USDMicros)
	}

	// Market above the limit: no fill.
	p.UpdatePrice(usd(51_000))
	if len(updates) != 0 {
		t.Fatal("buy must not fill above its limit")
	}

	// Market at the limit: fill, BTC credited.
	p.UpdatePrice(usd(50_000))
	if len(updates) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(updates))
	}
	if updates[0].Status != domain.StatusExecuted || updates[0].ID != order.ID {
		t.Errorf("unexpected fill: %+v", updates[0])
	}

	b, _ = p.Balances(context.Background())
	if b.BTCSats != 2_000_000 {
		t.Errorf("expected 0.02 BTC credited, got %s", b.BTCSats)
	}
}

func TestPaper_SellLifecycle(t *testing.T) {
	p := NewPaper(0)
	p.mu.Lock()
	p.balances.BTCSats = 2_000_000
	p.mu.Unlock()

	var updates []domain.TradeOrder
	p.SetOrderUpdateFunc(func(o domain.TradeOrder) { updates = append(updates, o) })

	_, err := p.SubmitOrder(context.Background(), domain.OrderRequest{
		Symbol:      "btcusd",
		Side:        domain.SideSell,
		PriceMicros: usd(52_000),
		QtySats:     2_000_000,
	})
	if err != nil {
		t.Fatalf("SubmitOrder failed: %v", err)
	}

	p.UpdatePrice(usd(51_999))
	if len(updates) != 0 {
		t.Fatal("sell must not fill below its limit")
	}

	p.UpdatePrice(usd(52_000))
	if len(updates) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(updates))
	}

	b, _ := p.Balances(context.Background())
	if b.USDMicros != usd(1040) { // 0.02 * 52000
		t.Errorf("expected 1040 USD proceeds, got %s", b.USDMicros)
	}
	if b.BTCSats != 0 {
		t.Errorf("expected BTC spent, got %s", b.BTCSats)
	}
}

func TestPaper_RejectsInsufficientFunds(t *testing.T) {
	p := NewPaper(usd(100))

	_, err := p.SubmitOrder(context.Background(), domain.OrderRequest{
		Side:        domain.SideBuy,
		PriceMicros: usd(50_000),
		QtySats:     2_000_000, // needs 1000 USD
	})
	if err == nil {
		t.Error("expected insufficient funds error")
	}

	_, err = p.SubmitOrder(context.Background(), domain.OrderRequest{
		Side:        domain.SideSell,
		PriceMicros: usd(50_000),
		QtySats:     1,
	})
	if err == nil {
		t.Error("expected insufficient BTC error")
	}
}

func TestPaper_RejectsInvalidOrder(t *testing.T) {
	p := NewPaper(usd(1000))

	if _, err := p.SubmitOrder(context.Background(), domain.OrderRequest{Side: domain.SideBuy}); err == nil {
		t.Error("expected error for zero qty/price")
	}
	if _, err := p.SubmitOrder(context.Background(), domain.OrderRequest{
		Side: "short", PriceMicros: usd(1), QtySats: 1,
	}); err == nil {
		t.Error("expected error for unknown side")
	}
}
