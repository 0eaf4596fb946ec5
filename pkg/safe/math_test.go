package safe

import (
	"math"
	"testing"
)

func TestSafeAdd(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
		want int64
	}{
		{"micros plus micros", 50_650_000_000, 250_000_000, 50_900_000_000},
		{"negative offset", 50_650_000_000, -250_000_000, 50_400_000_000},
		{"at the ceiling", math.MaxInt64 - 1, 1, math.MaxInt64},
		{"at the floor", math.MinInt64 + 1, -1, math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeAdd(tt.a, tt.b); got != tt.want {
				t.Errorf("SafeAdd(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSafeSub(t *testing.T) {
	if got := SafeSub(50_900_000_000, 250_000_000); got != 50_650_000_000 {
		t.Errorf("SafeSub = %d, want 50650000000", got)
	}
	if got := SafeSub(math.MinInt64+1, 1); got != math.MinInt64 {
		t.Errorf("SafeSub at the floor = %d, want MinInt64", got)
	}
}

func TestSafeMul(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
		want int64
	}{
		{"sats times price", 2_000_000, 50_650, 101_300_000_000},
		{"zero operand", 0, math.MaxInt64, 0},
		{"both negative", -3, -7, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeMul(tt.a, tt.b); got != tt.want {
				t.Errorf("SafeMul(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSafeDiv(t *testing.T) {
	if got := SafeDiv(101_300_000_000, 2_000_000); got != 50_650 {
		t.Errorf("SafeDiv = %d, want 50650", got)
	}
	if got := SafeDiv(-100, 4); got != -25 {
		t.Errorf("SafeDiv(-100, 4) = %d, want -25", got)
	}
}

func mustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	fn()
}

func TestSafeMath_PanicsOnViolation(t *testing.T) {
	t.Run("add overflow", func(t *testing.T) {
		mustPanic(t, func() { SafeAdd(math.MaxInt64, 1) })
	})
	t.Run("add underflow", func(t *testing.T) {
		mustPanic(t, func() { SafeAdd(math.MinInt64, -1) })
	})
	t.Run("sub underflow", func(t *testing.T) {
		mustPanic(t, func() { SafeSub(math.MinInt64, 1) })
	})
	t.Run("mul overflow", func(t *testing.T) {
		mustPanic(t, func() { SafeMul(math.MaxInt64, 2) })
	})
	t.Run("mul min by minus one", func(t *testing.T) {
		mustPanic(t, func() { SafeMul(math.MinInt64, -1) })
	})
	t.Run("div by zero", func(t *testing.T) {
		mustPanic(t, func() { SafeDiv(1, 0) })
	})
	t.Run("div min by minus one", func(t *testing.T) {
		mustPanic(t, func() { SafeDiv(math.MinInt64, -1) })
	})
}
