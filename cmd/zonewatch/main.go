// zonewatch streams the public trade feed and prints zone transitions
// without touching any account. Useful for eyeballing the rule against
// the live tape before funding it.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/acebytes/trader/internal/domain"
	"github.com/acebytes/trader/internal/exchange/bitfinex"
	"github.com/acebytes/trader/internal/infra"
	"github.com/acebytes/trader/internal/strategy"
	"github.com/acebytes/trader/pkg/quant"
)

func main() {
	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		slog.Error("Config load failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(infra.NewLogger(cfg))

	strat := strategy.NewZoneStrategy(int64(cfg.ZoneWidthMicros()), domain.DefaultFees(), cfg.ProfitMarginMicros())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lastZone quant.PriceMicros
	worker := bitfinex.NewTradesWorker(cfg.API.Bitfinex.WSURL, cfg.Trading.Symbol,
		func(p quant.PriceMicros, ts quant.TimeStamp) {
			strat.ObserveTrade(p)
			zone := strat.SupportZone()
			if zone == lastZone {
				return
			}
			lastZone = zone
			slog.Info("ZONE_MOVED",
				slog.String("price", p.String()),
				slog.String("support", zone.String()),
				slog.String("resistance", strat.ResistanceZone(zone).String()),
				slog.Bool("buy_signal", strat.TimeToBuy(p)))
		})

	if err := worker.Connect(ctx); err != nil {
		slog.Error("Failed to connect trades feed", slog.Any("error", err))
		os.Exit(1)
	}
	defer worker.Disconnect()

	slog.Info("Watching zones", slog.String("symbol", cfg.Trading.Symbol))
	<-ctx.Done()
}
