package event

import (
	"testing"
)

func TestTradeEventPool(t *testing.T) {
	ev := AcquireTradeEvent()
	ev.PriceMicros = 50_000_000_000
	ev.Ts = 1

	if ev.PriceMicros != 50_000_000_000 {
		t.Error("price not set")
	}

	ReleaseTradeEvent(ev)

	ev2 := AcquireTradeEvent()
	if ev2.PriceMicros != 0 || ev2.Ts != 0 {
		t.Error("event should be reset after release")
	}
	ReleaseTradeEvent(ev2)
}

func TestWarmup(t *testing.T) {
	// Must be safe to call repeatedly.
	Warmup()
	Warmup()
}

// BenchmarkWithoutPool measures allocation without pool.
func BenchmarkWithoutPool(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ev := &TradeEvent{PriceMicros: 50_000_000_000}
		_ = ev
	}
}

// BenchmarkWithPool measures allocation with pool.
func BenchmarkWithPool(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ev := AcquireTradeEvent()
		ev.PriceMicros = 50_000_000_000
		ReleaseTradeEvent(ev)
	}
}
