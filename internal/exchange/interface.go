package exchange

import (
	"context"

	"github.com/acebytes/trader/internal/domain"
)

// Exchange is the venue port used by the decision engine. Both calls are
// round-trips to the collaborator; the engine runs them off its own
// goroutine and never issues a second call of the same kind while one is
// in flight.
type Exchange interface {
	// SubmitOrder places a limit order and returns the acknowledged order
	// (status ACTIVE on success). At-most-once: no retries inside.
	SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.TradeOrder, error)

	// Balances queries the exchange wallet for available USD and BTC.
	Balances(ctx context.Context) (domain.Balances, error)
}
