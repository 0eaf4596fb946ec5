package domain

import "testing"

func TestTradeOrder_IsOpen(t *testing.T) {
	tests := []struct {
		name   string
		status OrderStatus
		want   bool
	}{
		{"ACTIVE", StatusActive, true},
		{"EXECUTED", StatusExecuted, false},
		{"CANCELED", StatusCanceled, false},
		{"exchange-specific terminal", "POSTONLY CANCELED", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &TradeOrder{Status: tt.status}
			if got := o.IsOpen(); got != tt.want {
				t.Errorf("IsOpen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTradeOrder_IsOpen_Nil(t *testing.T) {
	var o *TradeOrder
	if o.IsOpen() {
		t.Error("nil order must not count as open")
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	if StatusActive.Terminal() {
		t.Error("ACTIVE is not terminal")
	}
	if OrderStatus("").Terminal() {
		t.Error("empty status is not terminal")
	}
	if !StatusExecuted.Terminal() || !StatusCanceled.Terminal() {
		t.Error("EXECUTED and CANCELED are terminal")
	}
}

func TestDefaultFees(t *testing.T) {
	f := DefaultFees()
	if f.RoundTripMicros() != 3000 {
		t.Errorf("expected round trip 3000 micros (0.3%%), got %d", f.RoundTripMicros())
	}
}
