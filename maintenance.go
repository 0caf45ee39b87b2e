package ferrysim

// maintenance.go holds the controller that takes vessels out of service,
// either on the maintenance schedule or by random failure, and returns them.
// A vessel that is down from one cause ignores triggers from the other.

// transition ops recorded by the controller
const (
	opMaintenanceStart = "maintenance-start"
	opMaintenanceEnd   = "maintenance-end"
	opFail             = "fail"
	opRecover          = "recover"
)

// Transition records a change in a vessel's availability
type Transition struct {
	VesselID int
	Time     float64
	Op       string
}

// MaintenanceController toggles vessel availability each tick
type MaintenanceController struct {
	rngstrm RandStream

	maintenanceDuration float64 // minutes a scheduled maintenance lasts
	maintenanceInterval float64 // minutes between the end of one maintenance and the next due time
	failureProb         float64 // per-step probability that an available vessel fails
	failureDowntime     float64 // minutes a failed vessel stays out of service
}

// createMaintenanceController is a constructor
func createMaintenanceController(cfg *SimConfig, rngstrm RandStream) *MaintenanceController {
	mc := new(MaintenanceController)
	mc.rngstrm = rngstrm
	mc.maintenanceDuration = cfg.MaintenanceMinutes
	mc.maintenanceInterval = cfg.MaintenanceIntervalDays * minutesPerDay
	mc.failureProb = cfg.FailureProbability
	mc.failureDowntime = cfg.FailureDowntimeMinutes
	return mc
}

// firstDue gives the absolute time at which a new vessel's first maintenance falls due
func (mc *MaintenanceController) firstDue() float64 {
	return mc.maintenanceInterval
}

// Update applies, in vessel order, recovery of vessels whose downtime has elapsed,
// the start of maintenance that has fallen due, and one failure draw for each vessel
// still available.  It returns the transitions made
func (mc *MaintenanceController) Update(now float64, vessels []*Vessel) []Transition {
	transitions := []Transition{}

	for _, vsl := range vessels {
		if vsl.Down() {
			if now < vsl.UnavailableUntil {
				continue
			}
			op := opRecover
			if vsl.State == Maintenance {
				op = opMaintenanceEnd
			}
			vsl.recover(now)
			transitions = append(transitions, Transition{VesselID: vsl.ID, Time: now, Op: op})
			logger.Debug().Str("vessel", vsl.Name).Float64("time", now).Msg(op)
		}

		if vsl.State != Available {
			continue
		}

		if now >= vsl.NextMaintenanceDue {
			vsl.startMaintenance(now, mc.maintenanceDuration)
			vsl.NextMaintenanceDue = vsl.UnavailableUntil + mc.maintenanceInterval
			transitions = append(transitions, Transition{VesselID: vsl.ID, Time: now, Op: opMaintenanceStart})
			logger.Debug().Str("vessel", vsl.Name).Float64("time", now).
				Float64("until", vsl.UnavailableUntil).Msg(opMaintenanceStart)
			continue
		}

		if bernoulliRV(mc.rngstrm.RandU01(), mc.failureProb) {
			vsl.fail(now, mc.failureDowntime)
			transitions = append(transitions, Transition{VesselID: vsl.ID, Time: now, Op: opFail})
			logger.Debug().Str("vessel", vsl.Name).Float64("time", now).
				Float64("until", vsl.UnavailableUntil).Msg(opFail)
		}
	}
	return transitions
}
