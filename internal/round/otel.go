package round

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "dogfight-arena/internal/round"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	ticks     metric.Int64Counter
	rounds    metric.Int64Counter
	kills     metric.Int64Counter
	dropped   metric.Int64Counter
	tickTime  metric.Float64Histogram
	published metric.Int64Counter
}

// newMetrics registers the round instruments on the global provider.
// Without an SDK configured they are no-ops.
func newMetrics() (*metrics, error) {
	m := meter()
	var (
		out metrics
		err error
	)
	if out.ticks, err = m.Int64Counter("round.ticks",
		metric.WithDescription("Simulation ticks executed during battles")); err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}
	if out.rounds, err = m.Int64Counter("round.completed",
		metric.WithDescription("Rounds that reached the ended state")); err != nil {
		return nil, fmt.Errorf("creating rounds counter: %w", err)
	}
	if out.kills, err = m.Int64Counter("round.kills",
		metric.WithDescription("Ships destroyed")); err != nil {
		return nil, fmt.Errorf("creating kills counter: %w", err)
	}
	if out.dropped, err = m.Int64Counter("round.dropped",
		metric.WithDescription("Projectiles, pickups and events dropped at a cap")); err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}
	if out.published, err = m.Int64Counter("round.events.published",
		metric.WithDescription("Events delivered to sinks")); err != nil {
		return nil, fmt.Errorf("creating published counter: %w", err)
	}
	if out.tickTime, err = m.Float64Histogram("round.tick.duration",
		metric.WithDescription("Wall time spent in one tick"),
		metric.WithUnit("ms")); err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}
	return &out, nil
}
