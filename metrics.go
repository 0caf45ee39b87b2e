package ferrysim

// metrics.go reduces the history of a run, the processed vehicles and the
// final vessel counters, into the queueing metrics reported to callers.
// Every average over an empty collection is defined to be zero.

import (
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// VesselStats reports the workload of one vessel over the window
type VesselStats struct {
	ID                 int     `json:"id" yaml:"id"`
	Name               string  `json:"name" yaml:"name"`
	Trips              int     `json:"trips" yaml:"trips"`
	BusyMinutes        float64 `json:"busyminutes" yaml:"busyminutes"`
	Utilization        float64 `json:"utilization" yaml:"utilization"` // percent, in [0,100]
	MaxLoad            int     `json:"maxload" yaml:"maxload"`
	MaintenanceMinutes float64 `json:"maintenanceminutes" yaml:"maintenanceminutes"`
	FailureMinutes     float64 `json:"failureminutes" yaml:"failureminutes"`
	Failures           int     `json:"failures" yaml:"failures"`
}

// SimulationResult holds the metrics of one simulated operating day.  Waits are in minutes
type SimulationResult struct {
	Policy          string  `json:"policy" yaml:"policy"`
	ReservationRate float64 `json:"reservationrate" yaml:"reservationrate"`
	ElapsedMinutes  float64 `json:"elapsedminutes" yaml:"elapsedminutes"`

	TotalArrivals int `json:"totalarrivals" yaml:"totalarrivals"`
	Processed     int `json:"processed" yaml:"processed"` // throughput
	Backlog       int `json:"backlog" yaml:"backlog"`     // left unserved at the end of the window

	MeanWait           float64 `json:"meanwait" yaml:"meanwait"` // Wq
	MeanWaitReserved   float64 `json:"meanwaitreserved" yaml:"meanwaitreserved"`
	MeanWaitUnreserved float64 `json:"meanwaitunreserved" yaml:"meanwaitunreserved"`
	MeanWaitCar        float64 `json:"meanwaitcar" yaml:"meanwaitcar"`
	MeanWaitTruck      float64 `json:"meanwaittruck" yaml:"meanwaittruck"`
	P90Wait            float64 `json:"p90wait" yaml:"p90wait"`
	MaxWait            float64 `json:"maxwait" yaml:"maxwait"`
	ReservedServed     int     `json:"reservedserved" yaml:"reservedserved"`

	MeanQueueLength float64 `json:"meanqueuelength" yaml:"meanqueuelength"` // Lq
	PeakQueueLength int     `json:"peakqueuelength" yaml:"peakqueuelength"`

	Vessels         []VesselStats `json:"vessels" yaml:"vessels"`
	TotalTrips      int           `json:"totaltrips" yaml:"totaltrips"`
	MeanUtilization float64       `json:"meanutilization" yaml:"meanutilization"`

	Events []TraceRecord `json:"events,omitempty" yaml:"events,omitempty"`
}

// Improvement summarizes the effect of the reservation policy
type Improvement struct {
	WaitReductionPercent float64 `json:"waitreductionpercent" yaml:"waitreductionpercent"`
	UtilizationDelta     float64 `json:"utilizationdelta" yaml:"utilizationdelta"`
	BacklogDelta         int     `json:"backlogdelta" yaml:"backlogdelta"`
}

// Comparison pairs a run without reservations with one using them
type Comparison struct {
	Baseline         SimulationResult `json:"baseline" yaml:"baseline"`
	WithReservations SimulationResult `json:"withreservations" yaml:"withreservations"`
	Improvement      Improvement      `json:"improvement" yaml:"improvement"`
}

// meanOf returns the mean of x, or zero when x is empty
func meanOf(x []float64) float64 {
	if len(x) == 0 {
		return 0.0
	}
	return stat.Mean(x, nil)
}

// aggregate computes the result of a run from its processed vehicles, the
// vehicles left waiting, the final vessel counters and the queue length samples
func aggregate(cfg *SimConfig, processed []*Vehicle, backlog int, vessels []*Vessel,
	queueSamples []float64, totalArrivals int) SimulationResult {

	res := SimulationResult{Policy: cfg.Policy, ReservationRate: cfg.ReservationRate,
		ElapsedMinutes: cfg.WindowMinutes(), TotalArrivals: totalArrivals,
		Processed: len(processed), Backlog: backlog}

	waits := make([]float64, 0, len(processed))
	reserved := []float64{}
	unreserved := []float64{}
	cars := []float64{}
	trucks := []float64{}
	for _, vhcl := range processed {
		waits = append(waits, vhcl.WaitTime)
		if vhcl.Reserved {
			reserved = append(reserved, vhcl.WaitTime)
		} else {
			unreserved = append(unreserved, vhcl.WaitTime)
		}
		if vhcl.Class == Car {
			cars = append(cars, vhcl.WaitTime)
		} else {
			trucks = append(trucks, vhcl.WaitTime)
		}
	}

	res.MeanWait = meanOf(waits)
	res.MeanWaitReserved = meanOf(reserved)
	res.MeanWaitUnreserved = meanOf(unreserved)
	res.MeanWaitCar = meanOf(cars)
	res.MeanWaitTruck = meanOf(trucks)
	res.ReservedServed = len(reserved)

	if len(waits) > 0 {
		sort.Float64s(waits)
		res.P90Wait = stat.Quantile(0.9, stat.Empirical, waits, nil)
		res.MaxWait = floats.Max(waits)
	}

	res.MeanQueueLength = meanOf(queueSamples)
	if len(queueSamples) > 0 {
		res.PeakQueueLength = int(floats.Max(queueSamples))
	}

	window := cfg.WindowMinutes()
	utils := make([]float64, 0, len(vessels))
	res.Vessels = make([]VesselStats, 0, len(vessels))
	for _, vsl := range vessels {
		util := 0.0
		if window > 0 {
			util = min(100.0, 100.0*vsl.BusyMinutes/window)
		}
		utils = append(utils, util)
		res.TotalTrips += vsl.TripsCompleted
		res.Vessels = append(res.Vessels, VesselStats{ID: vsl.ID, Name: vsl.Name,
			Trips: vsl.TripsCompleted, BusyMinutes: vsl.BusyMinutes, Utilization: util,
			MaxLoad: vsl.MaxLoad, MaintenanceMinutes: vsl.MaintenanceMinutes,
			FailureMinutes: vsl.FailureMinutes, Failures: vsl.Failures})
	}
	res.MeanUtilization = meanOf(utils)
	return res
}

// compare derives the improvement of a reservation run over its baseline
func compare(baseline, withRes SimulationResult) Comparison {
	imp := Improvement{
		UtilizationDelta: withRes.MeanUtilization - baseline.MeanUtilization,
		BacklogDelta:     withRes.Backlog - baseline.Backlog,
	}
	if baseline.MeanWait > 0 {
		imp.WaitReductionPercent = (baseline.MeanWait - withRes.MeanWait) / baseline.MeanWait * 100.0
	}
	return Comparison{Baseline: baseline, WithReservations: withRes, Improvement: imp}
}

// WriteToFile stores the result to the file whose name is given, as yaml or json by extension
func (res *SimulationResult) WriteToFile(filename string) error {
	return writeByExt(filename, res)
}

// WriteToFile stores the comparison to the file whose name is given, as yaml or json by extension
func (cmpr *Comparison) WriteToFile(filename string) error {
	return writeByExt(filename, cmpr)
}

func writeByExt(filename string, obj any) error {
	bytes, err := marshalByExt(filename, obj)
	if err != nil {
		return err
	}
	if werr := os.WriteFile(filename, bytes, 0644); werr != nil {
		return fmt.Errorf("writing %s: %w", filename, werr)
	}
	return nil
}
