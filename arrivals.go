package ferrysim

// arrivals.go holds the arrival process.  On every tick of the clock the
// generator computes how many vehicles are expected in the coming step,
// and appends that many new vehicles to the shared pending queue with
// arrival instants drawn uniformly inside the step

import (
	"math"
)

// ArrivalGenerator produces the stream of vehicles for each time step
type ArrivalGenerator struct {
	cfg     *SimConfig
	rngstrm RandStream

	baseRatePerStep float64 // expected arrivals per step outside of peaks
	peakMultiplier  float64 // multiplier in force inside peak windows
	penalize        bool    // whether unreserved peak arrivals lose priority

	nxtID     int // identifier of the next vehicle created
	generated int // number of vehicles created so far
}

// createArrivalGenerator is a constructor.  The peak-shift policy moves the reserved
// share of peak demand out of the peak, which lowers the effective multiplier
func createArrivalGenerator(cfg *SimConfig, rngstrm RandStream) *ArrivalGenerator {
	ag := new(ArrivalGenerator)
	ag.cfg = cfg
	ag.rngstrm = rngstrm

	operatingHours := cfg.WindowMinutes() / 60.0
	ag.baseRatePerStep = cfg.DailyVolume / operatingHours * (cfg.StepMinutes / 60.0)

	ag.peakMultiplier = cfg.PeakMultiplier
	if cfg.Policy == PolicyPeakShift {
		ag.peakMultiplier = 1.0 + (cfg.PeakMultiplier-1.0)*(1.0-cfg.ReservationRate)
	}
	ag.penalize = cfg.PeakPenalty && cfg.ReservationRate > 0.0
	ag.nxtID = 1
	return ag
}

// multiplier returns the intensity factor in force at time now
func (ag *ArrivalGenerator) multiplier(now float64) float64 {
	if ag.cfg.inPeak(now) {
		return ag.peakMultiplier
	}
	return 1.0
}

// stepLength is the part of the step starting at now that lies inside the window
func (ag *ArrivalGenerator) stepLength(now float64) float64 {
	return max(0.0, min(ag.cfg.StepMinutes, ag.cfg.WindowEnd.Minutes()-now))
}

// expected returns the expected number of arrivals in the step starting at now,
// given a U01 sample for the jitter.  A final partial step gets a pro-rated share
func (ag *ArrivalGenerator) expected(now, u01 float64) float64 {
	jitter := uniformRV(u01, ag.cfg.JitterMin, ag.cfg.JitterMax)
	share := ag.stepLength(now) / ag.cfg.StepMinutes
	return ag.baseRatePerStep * share * ag.multiplier(now) * jitter
}

// Generate creates the arrivals for the step beginning at now and returns them.
// The draw order (jitter, then per vehicle instant, class, reservation and penalty)
// is fixed, and the penalty draw is consumed even when no penalty applies
func (ag *ArrivalGenerator) Generate(now float64) []*Vehicle {
	count := int(math.Round(ag.expected(now, ag.rngstrm.RandU01())))
	if count <= 0 {
		return nil
	}

	step := ag.stepLength(now)
	vehicles := make([]*Vehicle, 0, count)
	for idx := 0; idx < count; idx++ {
		arrival := uniformRV(ag.rngstrm.RandU01(), now, now+step)

		class := Truck
		if bernoulliRV(ag.rngstrm.RandU01(), ag.cfg.CarRatio) {
			class = Car
		}
		reserved := bernoulliRV(ag.rngstrm.RandU01(), ag.cfg.ReservationRate)
		penaltyU01 := ag.rngstrm.RandU01()

		vhcl := createVehicle(ag.nxtID, class, arrival, reserved)
		ag.nxtID += 1

		if ag.penalize && !reserved && ag.cfg.inPeak(arrival) {
			vhcl.Penalty = uniformRV(penaltyU01, ag.cfg.PenaltyMinMinutes, ag.cfg.PenaltyMaxMinutes)
		}
		vehicles = append(vehicles, vhcl)
	}
	ag.generated += len(vehicles)
	return vehicles
}

// Generated returns the number of vehicles created over the run
func (ag *ArrivalGenerator) Generated() int {
	return ag.generated
}
