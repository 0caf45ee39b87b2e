package ferrysim

// vessel.go holds the server side of the queueing model: the vessels
// that carry vehicles across, together with their availability state

import (
	"fmt"
)

// VesselState is the base type for an enumerated set of vessel conditions
type VesselState int

const (
	Available VesselState = iota
	Crossing
	Maintenance
	Failed
)

var stateToStr map[VesselState]string = map[VesselState]string{Available: "available",
	Crossing: "crossing", Maintenance: "maintenance", Failed: "failed"}

func (vs VesselState) String() string {
	str, present := stateToStr[vs]
	if !present {
		return fmt.Sprintf("state(%d)", int(vs))
	}
	return str
}

// Vessel is a server with a fixed capacity.  Onboard is non-empty only
// while the state is Crossing, and a vessel that is down (Maintenance or Failed)
// carries an UnavailableUntil time checked on every tick.
type Vessel struct {
	ID       int
	Name     string
	Capacity int
	Onboard  []*Vehicle
	State    VesselState

	TripsCompleted int
	BusyMinutes    float64
	MaxLoad        int // largest batch carried on one crossing

	NextMaintenanceDue   float64
	MaintenanceStartedAt float64
	UnavailableUntil     float64

	// downtime bookkeeping reported by the metrics aggregator
	MaintenanceMinutes float64
	FailureMinutes     float64
	Failures           int
	downSince          float64
}

// createVessel is a constructor.  The first maintenance falls due one
// full maintenance interval after the start of the day
func createVessel(id, capacity int, maintenanceDue float64) *Vessel {
	vsl := new(Vessel)
	vsl.ID = id
	vsl.Name = fmt.Sprintf("vessel-%d", id)
	vsl.Capacity = capacity
	vsl.Onboard = make([]*Vehicle, 0, capacity)
	vsl.State = Available
	vsl.NextMaintenanceDue = maintenanceDue
	vsl.MaintenanceStartedAt = -1.0
	return vsl
}

// Idle is true when the vessel may accept a new load
func (vsl *Vessel) Idle() bool {
	return vsl.State == Available && len(vsl.Onboard) == 0
}

// Down is true when the vessel is out of service for either cause
func (vsl *Vessel) Down() bool {
	return vsl.State == Maintenance || vsl.State == Failed
}

// load moves the vehicles onto the vessel and marks it as crossing
func (vsl *Vessel) load(vehicles []*Vehicle) {
	vsl.State = Crossing
	vsl.Onboard = append(vsl.Onboard, vehicles...)
	vsl.MaxLoad = max(vsl.MaxLoad, len(vsl.Onboard))
}

// unload empties the vessel after a crossing, returning the batch that disembarked
func (vsl *Vessel) unload(crossing float64) []*Vehicle {
	batch := vsl.Onboard
	vsl.Onboard = make([]*Vehicle, 0, vsl.Capacity)
	vsl.TripsCompleted += 1
	vsl.BusyMinutes += crossing
	vsl.State = Available
	return batch
}

// startMaintenance takes the vessel out of service at time now for the given duration
func (vsl *Vessel) startMaintenance(now, duration float64) {
	vsl.State = Maintenance
	vsl.MaintenanceStartedAt = now
	vsl.UnavailableUntil = now + duration
	vsl.downSince = now
}

// fail takes the vessel out of service for a fixed downtime
func (vsl *Vessel) fail(now, downtime float64) {
	vsl.State = Failed
	vsl.Failures += 1
	vsl.UnavailableUntil = now + downtime
	vsl.downSince = now
}

// recover returns a down vessel to service, charging the elapsed downtime
// to the cause that took it out
func (vsl *Vessel) recover(now float64) {
	switch vsl.State {
	case Maintenance:
		vsl.MaintenanceMinutes += now - vsl.downSince
	case Failed:
		vsl.FailureMinutes += now - vsl.downSince
	default:
		return
	}
	vsl.State = Available
	vsl.UnavailableUntil = 0.0
}

// closeDowntime charges an outage still open at the end of the window
func (vsl *Vessel) closeDowntime(end float64) {
	switch vsl.State {
	case Maintenance:
		vsl.MaintenanceMinutes += end - vsl.downSince
	case Failed:
		vsl.FailureMinutes += end - vsl.downSince
	}
}
