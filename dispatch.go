package ferrysim

// dispatch.go holds the structures that match waiting vehicles to idle
// vessels.  The pending queue is kept in arrival (append) order and is not
// sorted; ordering is applied each tick, by the configured reservation policy,
// to the vehicles that have reached the terminal

import (
	"cmp"

	"golang.org/x/exp/slices"
)

// ReservationPolicy orders the ready set before vessels take from its front
type ReservationPolicy interface {
	Name() string
	Order(ready []*Vehicle)
}

// priorityPolicy puts reserved vehicles ahead of unreserved ones, FIFO within each class
type priorityPolicy struct{}

func (pp priorityPolicy) Name() string { return PolicyPriority }

func (pp priorityPolicy) Order(ready []*Vehicle) {
	slices.SortStableFunc(ready, func(a, b *Vehicle) int {
		if a.Reserved != b.Reserved {
			if a.Reserved {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.ArrivalTime, b.ArrivalTime)
	})
}

// peakShiftPolicy serves strictly in arrival order; its effect on reserved
// traffic is applied by the arrival generator instead
type peakShiftPolicy struct{}

func (ps peakShiftPolicy) Name() string { return PolicyPeakShift }

func (ps peakShiftPolicy) Order(ready []*Vehicle) {
	slices.SortStableFunc(ready, func(a, b *Vehicle) int {
		return cmp.Compare(a.ArrivalTime, b.ArrivalTime)
	})
}

// policyFor returns the policy a validated configuration names
func policyFor(name string) ReservationPolicy {
	if name == PolicyPeakShift {
		return peakShiftPolicy{}
	}
	return priorityPolicy{}
}

// Departure describes one batch crossing
type Departure struct {
	VesselID      int
	Time          float64
	DisembarkTime float64
	Load          int
}

// Dispatcher holds the pending queue and the processed history of a run
type Dispatcher struct {
	policy   ReservationPolicy
	crossing float64

	waiting   []*Vehicle // arrived or arriving vehicles not yet boarded
	processed []*Vehicle // vehicles that have crossed, in disembark order
}

// createDispatcher is a constructor
func createDispatcher(policy ReservationPolicy, crossing float64) *Dispatcher {
	dsp := new(Dispatcher)
	dsp.policy = policy
	dsp.crossing = crossing
	dsp.waiting = []*Vehicle{}
	dsp.processed = []*Vehicle{}
	return dsp
}

// Enqueue appends new arrivals to the pending queue
func (dsp *Dispatcher) Enqueue(vehicles ...*Vehicle) {
	dsp.waiting = append(dsp.waiting, vehicles...)
}

// Pending returns the number of vehicles not yet boarded
func (dsp *Dispatcher) Pending() int {
	return len(dsp.waiting)
}

// ReadyCount returns the number of queued vehicles that have arrived by time now
func (dsp *Dispatcher) ReadyCount(now float64) int {
	cnt := 0
	for _, vhcl := range dsp.waiting {
		if vhcl.ready(now) {
			cnt += 1
		}
	}
	return cnt
}

// Dispatch loads every idle vessel, in vessel order, from the front of the
// policy-ordered ready set, then runs each loaded vessel's crossing as a single batch.
// It returns a description of each departure
func (dsp *Dispatcher) Dispatch(now float64, vessels []*Vessel) []Departure {
	ready := make([]*Vehicle, 0, len(dsp.waiting))
	for _, vhcl := range dsp.waiting {
		if vhcl.ready(now) {
			ready = append(ready, vhcl)
		}
	}
	if len(ready) == 0 {
		return nil
	}
	dsp.policy.Order(ready)

	departures := []Departure{}
	taken := make(map[*Vehicle]bool)
	for _, vsl := range vessels {
		if len(ready) == 0 {
			break
		}
		if !vsl.Idle() {
			continue
		}

		n := min(vsl.Capacity, len(ready))
		batch := ready[:n]
		ready = ready[n:]

		for _, vhcl := range batch {
			vhcl.board(now)
			taken[vhcl] = true
		}
		vsl.load(batch)

		departures = append(departures, dsp.cross(now, vsl))
	}

	// remove the boarded vehicles from the pending queue, keeping the order of the rest
	remaining := dsp.waiting[:0]
	for _, vhcl := range dsp.waiting {
		if !taken[vhcl] {
			remaining = append(remaining, vhcl)
		}
	}
	clear(dsp.waiting[len(remaining):])
	dsp.waiting = remaining

	return departures
}

// cross runs the crossing of a loaded vessel to completion: every vehicle onboard
// disembarks together and moves to the processed history
func (dsp *Dispatcher) cross(now float64, vsl *Vessel) Departure {
	disembark := now + dsp.crossing
	load := len(vsl.Onboard)
	for _, vhcl := range vsl.Onboard {
		vhcl.DisembarkTime = disembark
	}
	dsp.processed = append(dsp.processed, vsl.unload(dsp.crossing)...)
	return Departure{VesselID: vsl.ID, Time: now, DisembarkTime: disembark, Load: load}
}
