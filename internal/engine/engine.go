package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/acebytes/trader/internal/domain"
	"github.com/acebytes/trader/internal/event"
	"github.com/acebytes/trader/internal/exchange"
	"github.com/acebytes/trader/internal/strategy"
	"github.com/acebytes/trader/internal/telemetry"
	"github.com/acebytes/trader/pkg/quant"

	"github.com/google/uuid"
)

// Config holds the engine parameters fixed at startup.
type Config struct {
	Symbol       string
	MinTradeSats quant.QtySats
	InboxSize    int
}

// state is the mutable engine state. It is owned by the Run goroutine;
// nothing outside the event loop may touch it, which is why the guard
// flags are plain bools.
type state struct {
	balanceUSD quant.PriceMicros
	balanceBTC quant.QtySats

	lastBuy  *domain.TradeOrder
	lastSell *domain.TradeOrder

	// In-flight guards. makingOrder covers an order submission from
	// decision to venue acknowledgment; refreshingBalance covers a
	// wallet query. Each stays set until the matching result event is
	// processed, so a hung venue call blocks that action forever rather
	// than ever duplicating it.
	makingOrder       bool
	refreshingBalance bool
}

// hasActiveOrder reports whether either tracked order is still working.
// While true, every buy and sell evaluation is a no-op.
func (s *state) hasActiveOrder() bool {
	return s.lastBuy.IsOpen() || s.lastSell.IsOpen()
}

// Engine is the single-threaded decision core. Market trades, order
// pushes and async call results all funnel through one inbox and are
// processed in arrival order by Run.
type Engine struct {
	cfg   Config
	inbox chan event.Event
	st    state

	strategy strategy.Strategy
	venue    exchange.Exchange
	sink     telemetry.Recorder

	// onChange receives the account snapshot after every state
	// transition worth persisting.
	onChange func(domain.AccountSnapshot)

	// spawn runs an async venue call. Defaults to go; tests swap it to
	// hold the in-flight window open deterministically.
	spawn func(func())
}

// New creates an engine. sink and onChange may be nil.
func New(cfg Config, strat strategy.Strategy, venue exchange.Exchange, sink telemetry.Recorder, onChange func(domain.AccountSnapshot)) *Engine {
	if cfg.InboxSize <= 0 {
		cfg.InboxSize = 1024
	}
	return &Engine{
		cfg:      cfg,
		inbox:    make(chan event.Event, cfg.InboxSize),
		strategy: strat,
		venue:    venue,
		sink:     sink,
		onChange: onChange,
		spawn:    func(fn func()) { go fn() },
	}
}

// Seed loads the bootstrap snapshot. Must be called before Run.
func (e *Engine) Seed(snap domain.AccountSnapshot) {
	e.st.balanceUSD = snap.BalanceUSD
	e.st.balanceBTC = snap.BalanceBTC
	if snap.LastBuy != nil {
		buy := *snap.LastBuy
		e.st.lastBuy = &buy
	}
	if snap.LastSell != nil {
		sell := *snap.LastSell
		e.st.lastSell = &sell
	}
	e.strategy.Restore(snap.SupportZoneMicros)

	slog.Info("Engine seeded",
		slog.String("balance_usd", snap.BalanceUSD.String()),
		slog.String("balance_btc", snap.BalanceBTC.String()),
		slog.Bool("open_order", e.st.hasActiveOrder()))
}

// Inbox returns the event channel for external producers.
func (e *Engine) Inbox() chan<- event.Event {
	return e.inbox
}

// OnTrade posts one market trade. Safe to call from feed goroutines.
// Ticks are dropped when the inbox is full; the zone tracker catches up
// on the next one.
func (e *Engine) OnTrade(p quant.PriceMicros, ts quant.TimeStamp) {
	ev := event.AcquireTradeEvent()
	ev.Ts = ts
	ev.PriceMicros = p

	select {
	case e.inbox <- ev:
	default:
		event.ReleaseTradeEvent(ev)
	}
}

// OnOrderUpdate posts an order status push. Blocking: losing a fill is
// worse than stalling the feed reader briefly.
func (e *Engine) OnOrderUpdate(o domain.TradeOrder) {
	e.inbox <- event.OrderUpdateEvent{
		BaseEvent: event.BaseEvent{Ts: o.CreatedUnixM},
		Order:     o,
	}
}

// RequestSellCheck asks the engine to run a sell evaluation. The
// bootstrap posts one at startup to resume an interrupted buy/sell cycle.
func (e *Engine) RequestSellCheck() {
	e.inbox <- event.SellCheckEvent{BaseEvent: event.BaseEvent{Ts: quant.TimeStamp(time.Now().UnixMicro())}}
}

// Run starts the event loop. This MUST be run in a single goroutine.
func (e *Engine) Run(ctx context.Context) {
	slog.Info("Engine started (single-thread hotpath)", slog.String("symbol", e.cfg.Symbol))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Engine stopping...")
			return
		case ev := <-e.inbox:
			e.processEvent(ev)
		}
	}
}

func (e *Engine) processEvent(ev event.Event) {
	switch ev := ev.(type) {
	case *event.TradeEvent:
		e.handleTrade(ev)
	case event.OrderUpdateEvent:
		e.handleOrderUpdate(ev.Order)
	case event.SellCheckEvent:
		e.requestSellEvaluation()
	case event.SubmitResultEvent:
		e.handleSubmitResult(ev)
	case event.BalancesEvent:
		e.handleBalancesResult(ev)
	default:
		slog.Warn("Unknown event type", slog.Any("type", ev.GetType()))
	}
}

// --- market trades ---

func (e *Engine) handleTrade(ev *event.TradeEvent) {
	p := ev.PriceMicros
	event.ReleaseTradeEvent(ev)
	if p <= 0 {
		return
	}

	e.strategy.ObserveTrade(p)
	telemetry.CountMarketTrade()

	e.evaluateBuy(p)
	e.publishSnapshot()
}

// evaluateBuy runs the buy decision at the current price. Guard order
// matters: admission first, funds next, signal last.
func (e *Engine) evaluateBuy(p quant.PriceMicros) {
	if e.st.hasActiveOrder() {
		return
	}
	if e.st.balanceUSD == 0 {
		return
	}
	if e.st.balanceUSD < quant.Notional(p, e.cfg.MinTradeSats) {
		return
	}
	if !e.strategy.TimeToBuy(p) {
		return
	}
	if e.st.makingOrder {
		return
	}

	qty := quant.QtyFor(e.st.balanceUSD, p)
	if qty <= 0 {
		return
	}

	e.st.makingOrder = true
	telemetry.CountDecision("buy")

	req := domain.OrderRequest{
		Symbol:      e.cfg.Symbol,
		Side:        domain.SideBuy,
		PriceMicros: p,
		QtySats:     qty,
		ClientID:    uuid.NewString(),
	}
	slog.Info("BUY_SUBMIT",
		slog.String("price", p.String()),
		slog.String("qty", qty.String()),
		slog.String("client_id", req.ClientID))

	e.submitAsync(req)
}

// --- sell evaluation ---

// requestSellEvaluation starts the sell path: refresh balances first,
// decide once the wallet answer arrives. Concurrent triggers coalesce
// into the refresh already in flight.
func (e *Engine) requestSellEvaluation() {
	if e.st.hasActiveOrder() {
		return
	}
	if e.st.refreshingBalance {
		return
	}
	e.st.refreshingBalance = true

	e.spawn(func() {
		bal, err := e.venue.Balances(context.Background())
		e.inbox <- event.BalancesEvent{
			BaseEvent: event.BaseEvent{Ts: quant.TimeStamp(time.Now().UnixMicro())},
			Balances:  bal,
			Err:       err,
		}
	})
}

func (e *Engine) handleBalancesResult(ev event.BalancesEvent) {
	e.st.refreshingBalance = false

	if ev.Err != nil {
		// Keep the stale numbers; the evaluation below still runs on
		// them rather than silently dropping the sell check.
		slog.Warn("BALANCE_REFRESH_FAILED", slog.Any("err", ev.Err))
	} else {
		e.st.balanceUSD = ev.Balances.USDMicros
		e.st.balanceBTC = ev.Balances.BTCSats
		telemetry.SetBalances(e.st.balanceUSD, e.st.balanceBTC)
		e.notifyChange()
	}

	e.continueSellEvaluation()
}

func (e *Engine) continueSellEvaluation() {
	if e.st.hasActiveOrder() {
		return
	}
	if e.st.balanceBTC == 0 {
		return
	}
	if e.st.balanceBTC < e.cfg.MinTradeSats {
		return
	}
	if e.st.lastBuy == nil {
		slog.Warn("SELL_SKIPPED_NO_REFERENCE", slog.String("balance_btc", e.st.balanceBTC.String()))
		return
	}

	target := e.strategy.ResistanceZone(e.st.lastBuy.PriceMicros)
	if target <= 0 {
		return
	}
	if e.st.makingOrder {
		return
	}

	e.st.makingOrder = true
	telemetry.CountDecision("sell")

	req := domain.OrderRequest{
		Symbol:      e.cfg.Symbol,
		Side:        domain.SideSell,
		PriceMicros: target,
		QtySats:     e.st.balanceBTC,
		ClientID:    uuid.NewString(),
	}
	slog.Info("SELL_SUBMIT",
		slog.String("price", target.String()),
		slog.String("qty", req.QtySats.String()),
		slog.String("client_id", req.ClientID))

	e.submitAsync(req)
}

// --- order submission ---

func (e *Engine) submitAsync(req domain.OrderRequest) {
	e.spawn(func() {
		order, err := e.venue.SubmitOrder(context.Background(), req)
		e.inbox <- event.SubmitResultEvent{
			BaseEvent: event.BaseEvent{Ts: quant.TimeStamp(time.Now().UnixMicro())},
			Side:      req.Side,
			Order:     order,
			Err:       err,
		}
	})
}

func (e *Engine) handleSubmitResult(ev event.SubmitResultEvent) {
	e.st.makingOrder = false

	if ev.Err != nil {
		telemetry.CountOrderFailure(string(ev.Side))
		slog.Warn("ORDER_REJECTED", slog.String("side", string(ev.Side)), slog.Any("err", ev.Err))
		return
	}

	telemetry.CountOrder(string(ev.Side))

	// Funds are committed to the venue now; both balances go to zero
	// until the next wallet refresh reports what actually remains.
	e.st.balanceUSD = 0
	e.st.balanceBTC = 0
	telemetry.SetBalances(0, 0)

	// Records are only ever superseded by a newer order for the same
	// side: a buy leaves the previous sell's history intact.
	order := ev.Order
	switch ev.Side {
	case domain.SideBuy:
		e.st.lastBuy = &order
	case domain.SideSell:
		e.st.lastSell = &order
	}

	slog.Info("ORDER_ACCEPTED",
		slog.Int64("order_id", order.ID),
		slog.String("side", string(ev.Side)),
		slog.String("status", string(order.Status)))

	// An ack can already be terminal (immediate fill or rejection by
	// cancellation); route it through the same transition logic as a
	// feed push.
	if order.Status.Terminal() {
		e.applyTerminal(ev.Side, order)
		return
	}

	if e.sink != nil {
		e.sink.RecordOrder(order)
	}
	e.notifyChange()
}

// --- order lifecycle pushes ---

func (e *Engine) handleOrderUpdate(o domain.TradeOrder) {
	var side domain.Side
	switch {
	case e.st.lastBuy != nil && e.st.lastBuy.ID == o.ID:
		side = domain.SideBuy
	case e.st.lastSell != nil && e.st.lastSell.ID == o.ID:
		side = domain.SideSell
	default:
		return // not ours
	}

	stored := e.st.lastBuy
	if side == domain.SideSell {
		stored = e.st.lastSell
	}
	if stored.Status.Terminal() {
		return // already settled, late duplicate
	}
	if !o.Status.Terminal() {
		return // ACTIVE re-ack or partial fill, nothing to advance
	}

	e.applyTerminal(side, o)
}

// applyTerminal advances a tracked ACTIVE order to its terminal status.
func (e *Engine) applyTerminal(side domain.Side, o domain.TradeOrder) {
	order := o
	if side == domain.SideBuy {
		e.st.lastBuy = &order
	} else {
		e.st.lastSell = &order
	}

	if order.Status != domain.StatusExecuted {
		// Canceled or rejected: admission is free again, nothing to
		// report downstream.
		slog.Info("ORDER_CLOSED_UNFILLED",
			slog.Int64("order_id", order.ID),
			slog.String("side", string(side)),
			slog.String("status", string(order.Status)))
		e.notifyChange()
		return
	}

	slog.Info("ORDER_FILLED",
		slog.Int64("order_id", order.ID),
		slog.String("side", string(side)),
		slog.String("price", order.PriceMicros.String()))

	if e.sink != nil {
		e.sink.RecordOrder(order)
	}
	e.notifyChange()

	// A filled buy means we hold BTC: line up the exit.
	if side == domain.SideBuy {
		e.requestSellEvaluation()
	}
}

// --- reporting ---

func (e *Engine) notifyChange() {
	if e.onChange == nil {
		return
	}
	e.onChange(e.snapshot())
}

func (e *Engine) snapshot() domain.AccountSnapshot {
	return domain.AccountSnapshot{
		BalanceUSD:        e.st.balanceUSD,
		BalanceBTC:        e.st.balanceBTC,
		LastBuy:           e.st.lastBuy,
		LastSell:          e.st.lastSell,
		SupportZoneMicros: e.strategy.SupportZone(),
	}
}

func (e *Engine) publishSnapshot() {
	support := e.strategy.SupportZone()
	var resistance quant.PriceMicros
	if e.st.lastBuy != nil {
		resistance = e.strategy.ResistanceZone(e.st.lastBuy.PriceMicros)
	}
	telemetry.SetZones(support, resistance)

	if e.sink == nil {
		return
	}
	e.sink.RecordSnapshot(telemetry.Snapshot{
		BalanceUSD:     e.st.balanceUSD,
		BalanceBTC:     e.st.balanceBTC,
		SupportZone:    support,
		ResistanceZone: resistance,
	})
}
