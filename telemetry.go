package ferrysim

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/iti/ferrysim"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// runInstruments are created once, from the global provider in force at the first run
type runInstruments struct {
	runs     metric.Int64Counter
	served   metric.Int64Counter
	unserved metric.Int64Counter
	meanWait metric.Float64Histogram
}

var (
	instrumentsOnce sync.Once
	instruments     *runInstruments
)

// getInstruments returns the run instruments, or nil if any could not be created
func getInstruments() *runInstruments {
	instrumentsOnce.Do(func() {
		m := meter()
		ri := new(runInstruments)
		var err error

		if ri.runs, err = m.Int64Counter("ferrysim.runs",
			metric.WithDescription("Simulated operating days completed")); err != nil {
			logger.Warn().Err(err).Msg("creating runs counter")
			return
		}
		if ri.served, err = m.Int64Counter("ferrysim.vehicles.served",
			metric.WithDescription("Vehicles carried across")); err != nil {
			logger.Warn().Err(err).Msg("creating served counter")
			return
		}
		if ri.unserved, err = m.Int64Counter("ferrysim.vehicles.unserved",
			metric.WithDescription("Vehicles still queued when the window closed")); err != nil {
			logger.Warn().Err(err).Msg("creating unserved counter")
			return
		}
		if ri.meanWait, err = m.Float64Histogram("ferrysim.wait.mean",
			metric.WithDescription("Mean wait per run"), metric.WithUnit("min")); err != nil {
			logger.Warn().Err(err).Msg("creating wait histogram")
			return
		}
		instruments = ri
	})
	return instruments
}

// recordRun reports the outcome of one run to the global meter provider
func recordRun(policy string, res *SimulationResult) {
	ri := getInstruments()
	if ri == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("policy", policy))
	ri.runs.Add(ctx, 1, attrs)
	ri.served.Add(ctx, int64(res.Processed), attrs)
	ri.unserved.Add(ctx, int64(res.Backlog), attrs)
	ri.meanWait.Record(ctx, res.MeanWait, attrs)
}
