package ferrysim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_CapacityBoundsSingleBatch(t *testing.T) {
	dsp := createDispatcher(priorityPolicy{}, 80)
	dsp.Enqueue(readyVehicles(120, 300)...)
	vsl := createVessel(1, 50, 1440)

	departures := dsp.Dispatch(480, []*Vessel{vsl})

	require.Len(t, departures, 1)
	assert.Equal(t, Departure{VesselID: 1, Time: 480, DisembarkTime: 560, Load: 50}, departures[0])
	assert.Equal(t, 70, dsp.Pending())
	require.Len(t, dsp.processed, 50)

	for _, vhcl := range dsp.processed {
		assert.Equal(t, 480.0, vhcl.BoardingTime)
		assert.Equal(t, 560.0, vhcl.DisembarkTime)
		assert.Equal(t, 480.0-vhcl.ArrivalTime, vhcl.WaitTime)
	}
	// FIFO: the first 50 arrivals went, the queue keeps the rest in order
	assert.Equal(t, 50, dsp.processed[49].ID)
	assert.Equal(t, 51, dsp.waiting[0].ID)

	assert.Equal(t, 1, vsl.TripsCompleted)
	assert.Equal(t, 80.0, vsl.BusyMinutes)
	assert.Equal(t, 50, vsl.MaxLoad)
	assert.True(t, vsl.Idle())
}

func TestDispatch_ReservedFirstThenFIFO(t *testing.T) {
	dsp := createDispatcher(priorityPolicy{}, 80)
	vehicles := readyVehicles(6, 400)
	vehicles[1].Reserved = true
	vehicles[4].Reserved = true
	vehicles[5].Reserved = true
	// a later-queued reserved vehicle that arrived earliest
	early := createVehicle(7, Car, 390, true)
	dsp.Enqueue(vehicles...)
	dsp.Enqueue(early)

	vsl := createVessel(1, 4, 1440)
	dsp.Dispatch(420, []*Vessel{vsl})

	ids := []int{}
	for _, vhcl := range dsp.processed {
		ids = append(ids, vhcl.ID)
	}
	assert.Equal(t, []int{7, 2, 5, 6}, ids)

	left := []int{}
	for _, vhcl := range dsp.waiting {
		left = append(left, vhcl.ID)
	}
	assert.Equal(t, []int{1, 3, 4}, left)
}

func TestDispatch_PeakShiftIsFIFO(t *testing.T) {
	dsp := createDispatcher(peakShiftPolicy{}, 80)
	vehicles := readyVehicles(4, 400)
	vehicles[3].Reserved = true
	dsp.Enqueue(vehicles...)

	dsp.Dispatch(420, []*Vessel{createVessel(1, 2, 1440)})

	require.Len(t, dsp.processed, 2)
	assert.Equal(t, 1, dsp.processed[0].ID)
	assert.Equal(t, 2, dsp.processed[1].ID)
}

func TestDispatch_OnlyReadyVehicles(t *testing.T) {
	dsp := createDispatcher(priorityPolicy{}, 80)
	dsp.Enqueue(readyVehicles(3, 419)...) // arrivals at 419, 420, 421

	departures := dsp.Dispatch(420, []*Vessel{createVessel(1, 50, 1440)})

	require.Len(t, departures, 1)
	assert.Equal(t, 2, departures[0].Load)
	require.Equal(t, 1, dsp.Pending())
	assert.Equal(t, 421.0, dsp.waiting[0].ArrivalTime)
	assert.Equal(t, 0, dsp.ReadyCount(420))
	assert.Equal(t, 1, dsp.ReadyCount(421))
}

func TestDispatch_SkipsDownVessels(t *testing.T) {
	dsp := createDispatcher(priorityPolicy{}, 80)
	dsp.Enqueue(readyVehicles(30, 300)...)

	failed := createVessel(1, 10, 1440)
	failed.fail(400, 30)
	inMaint := createVessel(2, 10, 1440)
	inMaint.startMaintenance(400, 240)
	up := createVessel(3, 10, 1440)

	departures := dsp.Dispatch(420, []*Vessel{failed, inMaint, up})

	require.Len(t, departures, 1)
	assert.Equal(t, 3, departures[0].VesselID)
	assert.Zero(t, failed.TripsCompleted)
	assert.Zero(t, inMaint.TripsCompleted)
	assert.Empty(t, failed.Onboard)
	assert.Equal(t, 20, dsp.Pending())
}

func TestDispatch_SeveralVesselsShareTheOrdering(t *testing.T) {
	dsp := createDispatcher(priorityPolicy{}, 80)
	dsp.Enqueue(readyVehicles(25, 300)...)
	vessels := []*Vessel{createVessel(1, 10, 1440), createVessel(2, 10, 1440), createVessel(3, 10, 1440)}

	departures := dsp.Dispatch(420, vessels)

	require.Len(t, departures, 3)
	assert.Equal(t, 10, departures[0].Load)
	assert.Equal(t, 10, departures[1].Load)
	assert.Equal(t, 5, departures[2].Load)
	assert.Zero(t, dsp.Pending())
	assert.Equal(t, 11, dsp.processed[10].ID)
}

func TestDispatch_EmptyQueue(t *testing.T) {
	dsp := createDispatcher(priorityPolicy{}, 80)
	vsl := createVessel(1, 10, 1440)

	assert.Empty(t, dsp.Dispatch(420, []*Vessel{vsl}))
	assert.Zero(t, vsl.TripsCompleted)
	assert.Zero(t, vsl.BusyMinutes)
}

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, PolicyPriority, policyFor(PolicyPriority).Name())
	assert.Equal(t, PolicyPeakShift, policyFor(PolicyPeakShift).Name())
}
