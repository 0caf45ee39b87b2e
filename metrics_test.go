package ferrysim

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func servedVehicle(id int, class VehicleClass, reserved bool, wait float64) *Vehicle {
	vhcl := createVehicle(id, class, 400, reserved)
	vhcl.board(400 + wait)
	vhcl.DisembarkTime = vhcl.BoardingTime + 80
	return vhcl
}

func TestAggregate_EmptyIsZero(t *testing.T) {
	cfg := DefaultSimConfig()
	vessels := []*Vessel{createVessel(1, 50, 1440), createVessel(2, 50, 1440)}

	res := aggregate(&cfg, nil, 0, vessels, nil, 0)

	assert.Zero(t, res.Processed)
	assert.Zero(t, res.MeanWait)
	assert.Zero(t, res.MeanWaitReserved)
	assert.Zero(t, res.MeanWaitUnreserved)
	assert.Zero(t, res.P90Wait)
	assert.Zero(t, res.MaxWait)
	assert.Zero(t, res.MeanQueueLength)
	assert.Zero(t, res.MeanUtilization)
	assert.False(t, math.IsNaN(res.MeanWait))
	require.Len(t, res.Vessels, 2)
	for _, vs := range res.Vessels {
		assert.Zero(t, vs.Utilization)
	}
}

func TestAggregate_Waits(t *testing.T) {
	cfg := DefaultSimConfig()
	processed := []*Vehicle{
		servedVehicle(1, Car, true, 0),
		servedVehicle(2, Car, false, 20),
		servedVehicle(3, Truck, false, 40),
		servedVehicle(4, Car, true, 10),
	}

	res := aggregate(&cfg, processed, 3, nil, []float64{0, 4, 8}, 7)

	assert.Equal(t, 4, res.Processed)
	assert.Equal(t, 3, res.Backlog)
	assert.Equal(t, 7, res.TotalArrivals)
	assert.Equal(t, 17.5, res.MeanWait)
	assert.Equal(t, 5.0, res.MeanWaitReserved)
	assert.Equal(t, 30.0, res.MeanWaitUnreserved)
	assert.Equal(t, 10.0, res.MeanWaitCar)
	assert.Equal(t, 40.0, res.MeanWaitTruck)
	assert.Equal(t, 40.0, res.MaxWait)
	assert.Equal(t, 40.0, res.P90Wait)
	assert.Equal(t, 2, res.ReservedServed)
	assert.Equal(t, 4.0, res.MeanQueueLength)
	assert.Equal(t, 8, res.PeakQueueLength)
}

func TestAggregate_UtilizationCapped(t *testing.T) {
	cfg := DefaultSimConfig()
	busy := createVessel(1, 50, 1440)
	busy.BusyMinutes = 2000
	busy.TripsCompleted = 25
	half := createVessel(2, 50, 1440)
	half.BusyMinutes = 480
	half.TripsCompleted = 6

	res := aggregate(&cfg, nil, 0, []*Vessel{busy, half}, nil, 0)

	assert.Equal(t, 100.0, res.Vessels[0].Utilization)
	assert.Equal(t, 50.0, res.Vessels[1].Utilization)
	assert.Equal(t, 75.0, res.MeanUtilization)
	assert.Equal(t, 31, res.TotalTrips)
}

func TestCompare(t *testing.T) {
	base := SimulationResult{MeanWait: 20, MeanUtilization: 80, Backlog: 10}
	withRes := SimulationResult{MeanWait: 15, MeanUtilization: 82.5, Backlog: 7}

	cmpr := compare(base, withRes)
	assert.Equal(t, 25.0, cmpr.Improvement.WaitReductionPercent)
	assert.Equal(t, 2.5, cmpr.Improvement.UtilizationDelta)
	assert.Equal(t, -3, cmpr.Improvement.BacklogDelta)

	// a baseline without waiting has nothing to reduce
	cmpr = compare(SimulationResult{}, withRes)
	assert.Zero(t, cmpr.Improvement.WaitReductionPercent)
}

func TestSimulationResult_WriteToFile(t *testing.T) {
	dir := t.TempDir()
	res := SimulationResult{Policy: PolicyPriority, Processed: 3}

	require.NoError(t, res.WriteToFile(filepath.Join(dir, "result.yaml")))
	require.NoError(t, res.WriteToFile(filepath.Join(dir, "result.json")))
	assert.Error(t, res.WriteToFile(filepath.Join(dir, "result.csv")))

	cmpr := Comparison{Baseline: res, WithReservations: res}
	require.NoError(t, cmpr.WriteToFile(filepath.Join(dir, "comparison.yml")))
}
