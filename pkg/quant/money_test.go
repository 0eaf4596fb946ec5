package quant

import (
	"math"
	"testing"
)

func TestToPriceMicros_NonFinite(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want PriceMicros
	}{
		{"NaN", math.NaN(), 0},
		{"+Inf", math.Inf(1), 0},
		{"-Inf", math.Inf(-1), 0},
		{"negative", -1.5, 0},
		{"zero", 0, 0},
		{"normal", 50_000.25, 50_000_250_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToPriceMicros(tt.in); got != tt.want {
				t.Errorf("ToPriceMicros(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePriceMicros(t *testing.T) {
	p, err := ParsePriceMicros("48213.57")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 48_213_570_000 {
		t.Errorf("expected 48213570000, got %d", p)
	}

	if _, err := ParsePriceMicros("not-a-number"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestParseQtySats(t *testing.T) {
	q, err := ParseQtySats("0.01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != 1_000_000 {
		t.Errorf("expected 1000000 sats, got %d", q)
	}
}

func TestNotional(t *testing.T) {
	// 0.02 BTC at 50,000 USD = 1,000 USD
	got := Notional(50_000*PriceScale, 2_000_000)
	if got != 1_000*PriceScale {
		t.Errorf("expected 1000 USD micros, got %d", got)
	}

	if Notional(0, 100) != 0 {
		t.Error("zero price must yield zero notional")
	}
}

func TestNotional_NoOverflow(t *testing.T) {
	// 1000 BTC at 1,000,000 USD: the raw int64 product would overflow.
	got := Notional(1_000_000*PriceScale, 1000*QtyScale)
	want := PriceMicros(1_000_000_000) * PriceScale
	if got != want {
		t.Errorf("expected %d, got %d", want, got)
	}
}

func TestQtyFor(t *testing.T) {
	// 1,000 USD at 50,000 USD/BTC = 0.02 BTC
	got := QtyFor(1_000*PriceScale, 50_000*PriceScale)
	if got != 2_000_000 {
		t.Errorf("expected 2000000 sats, got %d", got)
	}

	if QtyFor(1_000*PriceScale, 0) != 0 {
		t.Error("zero price must yield zero qty")
	}
}

func TestStringRoundTrip(t *testing.T) {
	p := PriceMicros(48_213_570_000)
	if p.String() != "48213.570000" {
		t.Errorf("unexpected price string: %s", p.String())
	}
	q := QtySats(1_000_000)
	if q.String() != "0.01000000" {
		t.Errorf("unexpected qty string: %s", q.String())
	}
}
