// Prometheus metrics updated by the engine during operation:
//   - trader_orders_total{side}          – orders submitted
//   - trader_order_failures_total{side}  – submissions rejected by the venue
//   - trader_decisions_total{signal}     – decision outcomes (buy|sell)
//   - trader_market_trades_total         – market trades observed
//   - trader_balance_usd / _btc          – last known balances (gauges)
//   - trader_support_zone_usd            – current support zone
//   - trader_resistance_zone_usd         – active sell target
//
// Registered in init() and served at /metrics by the HTTP handler started
// in main.

package telemetry

import (
	"github.com/acebytes/trader/pkg/quant"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_orders_total",
			Help: "Orders submitted to the venue",
		},
		[]string{"side"},
	)

	mtxOrderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_order_failures_total",
			Help: "Order submissions rejected by the venue",
		},
		[]string{"side"},
	)

	mtxDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trader_decisions_total",
			Help: "Decisions taken",
		},
		[]string{"signal"},
	)

	mtxMarketTrades = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trader_market_trades_total",
			Help: "Market trades observed on the public feed",
		},
	)

	mtxBalanceUSD = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trader_balance_usd",
			Help: "Last known USD balance",
		},
	)

	mtxBalanceBTC = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trader_balance_btc",
			Help: "Last known BTC balance",
		},
	)

	mtxSupportZone = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trader_support_zone_usd",
			Help: "Highest support zone observed",
		},
	)

	mtxResistanceZone = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trader_resistance_zone_usd",
			Help: "Active sell target",
		},
	)
)

func init() {
	prometheus.MustRegister(
		mtxOrders,
		mtxOrderFailures,
		mtxDecisions,
		mtxMarketTrades,
		mtxBalanceUSD,
		mtxBalanceBTC,
		mtxSupportZone,
		mtxResistanceZone,
	)
}

// CountOrder increments the submitted-order counter for a side.
func CountOrder(side string) { mtxOrders.WithLabelValues(side).Inc() }

// CountOrderFailure increments the rejected-submission counter.
func CountOrderFailure(side string) { mtxOrderFailures.WithLabelValues(side).Inc() }

// CountDecision increments the decision counter for a signal.
func CountDecision(signal string) { mtxDecisions.WithLabelValues(signal).Inc() }

// CountMarketTrade increments the observed-trade counter.
func CountMarketTrade() { mtxMarketTrades.Inc() }

// SetBalances updates the balance gauges.
func SetBalances(usd quant.PriceMicros, btc quant.QtySats) {
	mtxBalanceUSD.Set(usd.Float64())
	mtxBalanceBTC.Set(btc.Float64())
}

// SetZones updates the zone gauges.
func SetZones(support, resistance quant.PriceMicros) {
	mtxSupportZone.Set(support.Float64())
	mtxResistanceZone.Set(resistance.Float64())
}
