package telemetry

import (
	"log/slog"
	"time"

	"github.com/acebytes/trader/internal/domain"
)

const timeLayout = "01/02 15:04:05"

// Reporter fans snapshots and order events out to downstream sinks.
// Consecutive snapshots with the same support and resistance zones are
// dropped so the downstream log only grows when the picture changes.
type Reporter struct {
	sinks []Recorder
	now   func() time.Time

	lastSupport    int64
	lastResistance int64
}

// NewReporter wraps the given sinks. A nil or empty sink list is valid,
// dedup state is still tracked.
func NewReporter(sinks ...Recorder) *Reporter {
	return &Reporter{
		sinks:          sinks,
		now:            time.Now,
		lastSupport:    -1,
		lastResistance: -1,
	}
}

// RecordSnapshot stamps the snapshot and forwards it unless the zones
// match the previously recorded row. Sink failures are logged and
// swallowed.
func (r *Reporter) RecordSnapshot(s Snapshot) error {
	if int64(s.SupportZone) == r.lastSupport && int64(s.ResistanceZone) == r.lastResistance {
		return nil
	}
	r.lastSupport = int64(s.SupportZone)
	r.lastResistance = int64(s.ResistanceZone)

	s.Time = r.now().Format(timeLayout)
	for _, sink := range r.sinks {
		if err := sink.RecordSnapshot(s); err != nil {
			slog.Warn("snapshot sink failed", "err", err)
		}
	}
	return nil
}

// RecordOrder forwards an order event to every sink.
func (r *Reporter) RecordOrder(o domain.TradeOrder) error {
	for _, sink := range r.sinks {
		if err := sink.RecordOrder(o); err != nil {
			slog.Warn("order sink failed", "err", err, "order_id", o.ID)
		}
	}
	return nil
}
