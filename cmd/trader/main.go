package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/acebytes/trader/internal/app"
	"github.com/acebytes/trader/internal/engine"
	"github.com/acebytes/trader/internal/exchange"
	"github.com/acebytes/trader/internal/exchange/bitfinex"
	"github.com/acebytes/trader/internal/strategy"
	"github.com/acebytes/trader/internal/telemetry"
	"github.com/acebytes/trader/pkg/quant"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Close()

	cfg := bootstrap.Config

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics endpoint (localhost by default).
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		slog.Info("Metrics server started", slog.String("addr", cfg.Telemetry.MetricsAddr))
		if err := http.ListenAndServe(cfg.Telemetry.MetricsAddr, mux); err != nil {
			slog.Error("Metrics server failed", slog.Any("error", err))
		}
	}()

	// Zone rule with the persisted fee schedule baked into the sell markup.
	strat := strategy.NewZoneStrategy(int64(cfg.ZoneWidthMicros()), bootstrap.Fees, cfg.ProfitMarginMicros())

	venue, err := exchange.New(cfg)
	if err != nil {
		slog.Error("Venue initialization failed", slog.Any("error", err))
		os.Exit(1)
	}

	reporter := telemetry.NewReporter(
		telemetry.NewWebhook(cfg.Telemetry.WebhookURL),
		bootstrap.JournalSink(),
	)

	eng := engine.New(engine.Config{
		Symbol:       cfg.Trading.Symbol,
		MinTradeSats: cfg.MinTradeSats(),
		InboxSize:    1024,
	}, strat, venue, reporter, bootstrap.SaveAccount)
	eng.Seed(bootstrap.Seed)

	go eng.Run(ctx)

	// The paper venue fills against the live tape, so every tick goes to
	// it before the engine sees the price.
	onTrade := eng.OnTrade
	if paper, ok := venue.(*exchange.Paper); ok {
		paper.SetOrderUpdateFunc(eng.OnOrderUpdate)
		onTrade = func(p quant.PriceMicros, ts quant.TimeStamp) {
			paper.UpdatePrice(p)
			eng.OnTrade(p, ts)
		}
	}

	tradesWorker := bitfinex.NewTradesWorker(cfg.API.Bitfinex.WSURL, cfg.Trading.Symbol, onTrade)
	if err := tradesWorker.Connect(ctx); err != nil {
		slog.Error("Failed to connect trades feed", slog.Any("error", err))
		os.Exit(1)
	}
	defer tradesWorker.Disconnect()

	if cfg.IsLive() {
		signer := bitfinex.NewSigner(cfg.API.Bitfinex.Key, cfg.API.Bitfinex.Secret)
		ordersWorker := bitfinex.NewOrdersWorker(signer, eng.OnOrderUpdate)
		if err := ordersWorker.Connect(ctx); err != nil {
			slog.Error("Failed to connect order feed", slog.Any("error", err))
			os.Exit(1)
		}
		defer ordersWorker.Disconnect()
	}

	// Resume an interrupted cycle: if the account already holds BTC, this
	// refreshes balances and lines up the exit order.
	eng.RequestSellCheck()

	slog.Info("Trader fully operational. Press Ctrl+C to exit.")
	<-ctx.Done()

	slog.Info("Shutting down gracefully...")
}
