package ferrysim

// engine.go builds the run-time structures of one simulated operating day
// and drives them with a clock.  The clock is an event handler on the
// evtm event manager that reschedules itself every step; each tick runs,
// in order, the arrival generator, the maintenance/failure controller and
// the dispatcher.  All randomness comes from the one stream given to the engine.

import (
	"errors"
	"math"

	"github.com/iti/evt/evtm"
	"github.com/iti/evt/vrtime"
	"golang.org/x/exp/slices"
)

// one simulated minute is carried on the event list as 60 virtual seconds
const secondsPerMinute float64 = 60.0

func minutesToTime(minutes float64) vrtime.Time {
	return vrtime.SecondsToTime(minutes * secondsPerMinute)
}

// ErrEngineUsed is returned by Run on an engine that has already run
var ErrEngineUsed = errors.New("engine has already run")

// Engine holds the state of a single run.  It must not be shared between goroutines
type Engine struct {
	cfg     SimConfig
	rngstrm RandStream
	evtMgr  *evtm.EventManager

	vessels    []*Vessel
	arrivals   *ArrivalGenerator
	dispatcher *Dispatcher
	upkeep     *MaintenanceController
	trace      *TraceManager

	queueSamples []float64 // ready vehicles still waiting after each tick's dispatch
	ran          bool
}

// NewEngine validates the configuration and builds the vessels and the components
// that act on them.  If rngstrm is nil the stream is chosen by cfg.Seed
func NewEngine(cfg SimConfig, rngstrm RandStream) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.PeakWindows = slices.Clone(cfg.PeakWindows)

	eng := new(Engine)
	eng.cfg = cfg
	if rngstrm == nil {
		rngstrm = streamFor(&eng.cfg, "ferrysim")
	}
	eng.rngstrm = rngstrm
	eng.evtMgr = evtm.New()

	eng.arrivals = createArrivalGenerator(&eng.cfg, rngstrm)
	eng.dispatcher = createDispatcher(policyFor(cfg.Policy), cfg.CrossingMinutes)
	eng.upkeep = createMaintenanceController(&eng.cfg, rngstrm)
	eng.trace = CreateTraceManager(cfg.Policy, cfg.Trace)

	eng.vessels = make([]*Vessel, 0, cfg.Vessels)
	for idx := 1; idx <= cfg.Vessels; idx++ {
		vsl := createVessel(idx, cfg.Capacity, eng.upkeep.firstDue())
		eng.vessels = append(eng.vessels, vsl)
		if err := eng.trace.AddName(vsl.ID, vsl.Name); err != nil {
			return nil, err
		}
	}

	ticks := int(math.Ceil(cfg.WindowMinutes() / cfg.StepMinutes))
	eng.queueSamples = make([]float64, 0, ticks)
	return eng, nil
}

// Vessels exposes the vessels of the run, for inspection after Run
func (eng *Engine) Vessels() []*Vessel {
	return eng.vessels
}

// Pending returns the vehicles still waiting
func (eng *Engine) Pending() []*Vehicle {
	return eng.dispatcher.waiting
}

// Processed returns the vehicles carried across, in disembark order
func (eng *Engine) Processed() []*Vehicle {
	return eng.dispatcher.processed
}

// Run executes the whole operating window and returns its metrics
func (eng *Engine) Run() (SimulationResult, error) {
	if eng.ran {
		return SimulationResult{}, ErrEngineUsed
	}
	eng.ran = true

	start := eng.cfg.WindowStart.Minutes()
	end := eng.cfg.WindowEnd.Minutes()
	logger.Info().Str("policy", eng.cfg.Policy).Int("vessels", eng.cfg.Vessels).
		Float64("reservationrate", eng.cfg.ReservationRate).Stringer("start", eng.cfg.WindowStart).
		Stringer("end", eng.cfg.WindowEnd).Msg("run started")

	// the first tick fires at the opening of the window
	eng.evtMgr.Schedule(eng, 0, clockTick, minutesToTime(start))
	eng.evtMgr.Run(end * secondsPerMinute)

	for _, vsl := range eng.vessels {
		vsl.closeDowntime(end)
	}

	res := aggregate(&eng.cfg, eng.dispatcher.processed, eng.dispatcher.Pending(), eng.vessels,
		eng.queueSamples, eng.arrivals.Generated())
	if eng.trace.Active() {
		res.Events = eng.trace.Traces
	}
	recordRun(eng.cfg.Policy, &res)

	logger.Info().Str("policy", eng.cfg.Policy).Int("processed", res.Processed).
		Int("backlog", res.Backlog).Float64("meanwait", res.MeanWait).
		Float64("meanutilization", res.MeanUtilization).Msg("run finished")
	return res, nil
}

// Trace returns the raw event log of the run
func (eng *Engine) Trace() *TraceManager {
	return eng.trace
}

// clockTick is the event handler of the simulation clock.  Its data is the
// index of the tick, so the tick instant is exact: windowStart + k*step
func clockTick(evtMgr *evtm.EventManager, context any, data any) any {
	eng := context.(*Engine)
	k := data.(int)

	now := eng.cfg.WindowStart.Minutes() + float64(k)*eng.cfg.StepMinutes
	eng.tick(now)

	next := eng.cfg.WindowStart.Minutes() + float64(k+1)*eng.cfg.StepMinutes
	if next < eng.cfg.WindowEnd.Minutes() {
		evtMgr.Schedule(eng, k+1, clockTick, minutesToTime(next-now))
	}
	return nil
}

// tick runs the per-step logic at time now
func (eng *Engine) tick(now float64) {
	vrt := eng.evtMgr.CurrentTime()

	arrived := eng.arrivals.Generate(now)
	eng.dispatcher.Enqueue(arrived...)
	if len(arrived) > 0 {
		eng.trace.AddTrace(vrt, now, 0, "arrive", len(arrived))
	}

	for _, tr := range eng.upkeep.Update(now, eng.vessels) {
		eng.trace.AddTrace(vrt, tr.Time, tr.VesselID, tr.Op, 0)
	}

	for _, dpt := range eng.dispatcher.Dispatch(now, eng.vessels) {
		eng.trace.AddTrace(vrt, dpt.Time, dpt.VesselID, "depart", dpt.Load)
	}

	eng.queueSamples = append(eng.queueSamples, float64(eng.dispatcher.ReadyCount(now)))
}

// Run executes one full simulated operating day under cfg
func Run(cfg SimConfig) (SimulationResult, error) {
	eng, err := NewEngine(cfg, nil)
	if err != nil {
		return SimulationResult{}, err
	}
	return eng.Run()
}

// RunComparison runs the configuration twice, once with no reservations and once
// with the given reservation rate, and reports the improvement.  Both runs draw from
// streams built from the same seed, so they see the same arrivals and failures
func RunComparison(cfg SimConfig, reservationRate float64) (Comparison, error) {
	baseCfg := cfg
	baseCfg.ReservationRate = 0.0
	resCfg := cfg
	resCfg.ReservationRate = reservationRate

	// an unseeded comparison still needs both runs on one seed
	if cfg.Seed == 0 {
		seed := int64(NewNamedStream("ferrysim-comparison").RandU01()*math.MaxInt32) + 1
		baseCfg.Seed = seed
		resCfg.Seed = seed
	}

	baseEng, err := NewEngine(baseCfg, nil)
	if err != nil {
		return Comparison{}, err
	}
	resEng, err := NewEngine(resCfg, nil)
	if err != nil {
		return Comparison{}, err
	}

	// the runs execute one after the other: evtm numbers scheduled events from a
	// package-level counter, so two event managers must not schedule concurrently
	baseline, err := baseEng.Run()
	if err != nil {
		return Comparison{}, err
	}
	withRes, err := resEng.Run()
	if err != nil {
		return Comparison{}, err
	}
	return compare(baseline, withRes), nil
}
