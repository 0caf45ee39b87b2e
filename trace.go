package ferrysim

import (
	"fmt"

	"github.com/iti/evt/vrtime"
)

// TraceRecord saves information about one event of the simulated day,
// kept for post-run analysis
type TraceRecord struct {
	Time     float64 `json:"time" yaml:"time"`         // minutes since midnight
	Ticks    int64   `json:"ticks" yaml:"ticks"`       // ticks variable of the virtual time
	VesselID int     `json:"vesselid" yaml:"vesselid"` // 0 when no vessel is involved
	Op       string  `json:"op" yaml:"op"`             // "arrive", "depart", "maintenance-start", ...
	Count    int     `json:"count" yaml:"count"`       // vehicles involved
}

// TraceManager gathers the raw event log of a run.  By testing its InUse flag
// we can inhibit the gathering when we don't want it, while embedding calls to
// its methods everywhere we need them when it is
type TraceManager struct {
	// run uses trace
	InUse bool `json:"inuse" yaml:"inuse"`

	// name of experiment
	ExpName string `json:"expname" yaml:"expname"`

	// text name associated with each vessel id
	NameByID map[int]string `json:"namebyid" yaml:"namebyid"`

	// all trace records, in time order
	Traces []TraceRecord `json:"traces" yaml:"traces"`
}

// CreateTraceManager is a constructor.  It saves the name of the experiment
// and a flag indicating whether the trace manager is active
func CreateTraceManager(expName string, active bool) *TraceManager {
	tm := new(TraceManager)
	tm.InUse = active
	tm.ExpName = expName
	tm.NameByID = make(map[int]string)
	tm.Traces = make([]TraceRecord, 0)
	return tm
}

// Active tells the caller whether the Trace Manager is actively being used
func (tm *TraceManager) Active() bool {
	return tm.InUse
}

// AddTrace creates a record of the trace using its calling arguments, and stores it
func (tm *TraceManager) AddTrace(vrt vrtime.Time, minutes float64, vesselID int, op string, count int) {
	if !tm.InUse {
		return
	}
	tm.Traces = append(tm.Traces, TraceRecord{Time: minutes, Ticks: vrt.Ticks(),
		VesselID: vesselID, Op: op, Count: count})
}

// AddName adds an element to the id -> name dictionary of the trace
func (tm *TraceManager) AddName(id int, name string) error {
	if !tm.InUse {
		return nil
	}
	if _, present := tm.NameByID[id]; present {
		return fmt.Errorf("duplicated id %d in trace names", id)
	}
	tm.NameByID[id] = name
	return nil
}

// WriteToFile stores the trace to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
// Nothing is written, and false returned, when the manager is not in use
func (tm *TraceManager) WriteToFile(filename string) (bool, error) {
	if !tm.InUse {
		return false, nil
	}
	if err := writeByExt(filename, tm); err != nil {
		return false, err
	}
	return true, nil
}
