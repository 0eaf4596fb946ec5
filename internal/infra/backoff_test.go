package infra

import (
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		retry int
		want  time.Duration
	}{
		{-1, 1 * time.Second}, // defensive input
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{10, 60 * time.Second},  // past the cap
		{100, 60 * time.Second}, // far past the shift range
	}

	for _, tt := range tests {
		if got := CalculateBackoff(tt.retry); got != tt.want {
			t.Errorf("CalculateBackoff(%d) = %s, want %s", tt.retry, got, tt.want)
		}
	}
}

func TestCalculateBackoff_NeverExceedsCap(t *testing.T) {
	for retry := 0; retry < 64; retry++ {
		if got := CalculateBackoff(retry); got > maxDelay {
			t.Fatalf("CalculateBackoff(%d) = %s exceeds the cap", retry, got)
		}
	}
}
