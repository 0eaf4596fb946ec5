package exchange

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/acebytes/trader/internal/exchange/bitfinex"
	"github.com/acebytes/trader/internal/infra"
)

// New returns the venue implementation selected by config.
func New(cfg *infra.Config) (Exchange, error) {
	if !cfg.IsLive() {
		slog.Info("initializing paper venue",
			slog.String("balance_usd", cfg.PaperBalanceMicros().String()))
		return NewPaper(cfg.PaperBalanceMicros()), nil
	}

	// Safety latch: real money needs an explicit second switch.
	if os.Getenv("CONFIRM_REAL_MONEY") != "true" {
		return nil, fmt.Errorf("live trading requires CONFIRM_REAL_MONEY=true in the environment")
	}

	slog.Warn("connecting to Bitfinex with REAL MONEY")
	return bitfinex.NewClient(
		cfg.API.Bitfinex.RestURL,
		cfg.API.Bitfinex.Key,
		cfg.API.Bitfinex.Secret,
	), nil
}
