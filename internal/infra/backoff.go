package infra

import (
	"time"
)

const (
	baseDelay = 1 * time.Second
	maxDelay  = 60 * time.Second
)

// CalculateBackoff returns the reconnect delay for the given attempt:
// 1s doubling per attempt, capped at 60s. Feed readers use it so a dead
// venue endpoint is retried within a minute forever instead of being
// hammered.
func CalculateBackoff(retryCount int) time.Duration {
	if retryCount < 0 {
		return baseDelay
	}
	// 1<<31 seconds would overflow the cap comparison anyway.
	if retryCount > 30 {
		return maxDelay
	}

	backoff := baseDelay * time.Duration(1<<retryCount)
	if backoff > maxDelay {
		return maxDelay
	}
	return backoff
}
