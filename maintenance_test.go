package ferrysim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietConfig() SimConfig {
	cfg := DefaultSimConfig()
	cfg.FailureProbability = 0
	return cfg
}

func TestMaintenance_ScheduledCycle(t *testing.T) {
	cfg := quietConfig()
	mc := createMaintenanceController(&cfg, constStream(0.5))
	assert.Equal(t, 30*minutesPerDay, mc.firstDue())

	vsl := createVessel(1, 50, 400)
	vessels := []*Vessel{vsl}

	assert.Empty(t, mc.Update(360, vessels))
	assert.Equal(t, Available, vsl.State)

	trs := mc.Update(420, vessels)
	require.Len(t, trs, 1)
	assert.Equal(t, Transition{VesselID: 1, Time: 420, Op: opMaintenanceStart}, trs[0])
	assert.Equal(t, Maintenance, vsl.State)
	assert.Equal(t, 420.0, vsl.MaintenanceStartedAt)
	assert.Equal(t, 660.0, vsl.UnavailableUntil)
	assert.Equal(t, 660.0+30*minutesPerDay, vsl.NextMaintenanceDue)

	assert.Empty(t, mc.Update(600, vessels))
	assert.Equal(t, Maintenance, vsl.State)

	trs = mc.Update(660, vessels)
	require.Len(t, trs, 1)
	assert.Equal(t, opMaintenanceEnd, trs[0].Op)
	assert.Equal(t, Available, vsl.State)
	assert.Equal(t, 240.0, vsl.MaintenanceMinutes)
}

func TestMaintenance_FailureAndRecovery(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.FailureProbability = 0.2
	strm := &scriptedStream{vals: []float64{0.1, 0.9}}
	mc := createMaintenanceController(&cfg, strm)

	vsl := createVessel(1, 50, mc.firstDue())
	vessels := []*Vessel{vsl}

	trs := mc.Update(360, vessels)
	require.Len(t, trs, 1)
	assert.Equal(t, opFail, trs[0].Op)
	assert.Equal(t, Failed, vsl.State)
	assert.Equal(t, 390.0, vsl.UnavailableUntil)

	trs = mc.Update(420, vessels)
	require.Len(t, trs, 1)
	assert.Equal(t, opRecover, trs[0].Op)
	assert.Equal(t, Available, vsl.State)
	assert.Equal(t, 60.0, vsl.FailureMinutes)
	assert.Equal(t, 1, vsl.Failures)
	assert.Equal(t, 2, strm.draws)
}

func TestMaintenance_MutualExclusion(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.FailureProbability = 1
	strm := constStream(0.5)
	mc := createMaintenanceController(&cfg, strm)

	// a failed vessel whose maintenance falls due keeps failing out its downtime
	failed := createVessel(1, 50, 380)
	failed.fail(360, 120)
	assert.Empty(t, mc.Update(420, []*Vessel{failed}))
	assert.Equal(t, Failed, failed.State)
	assert.Zero(t, strm.draws)

	// a vessel under maintenance never draws for failure
	inMaint := createVessel(2, 50, 360)
	trs := mc.Update(360, []*Vessel{inMaint})
	require.Len(t, trs, 1)
	assert.Equal(t, opMaintenanceStart, trs[0].Op)
	assert.Empty(t, mc.Update(420, []*Vessel{inMaint}))
	assert.Zero(t, strm.draws)
	assert.Equal(t, 0, inMaint.Failures)
}

func TestMaintenance_OneDrawPerAvailableVessel(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.FailureProbability = 0.05
	strm := constStream(0.5)
	mc := createMaintenanceController(&cfg, strm)

	vessels := []*Vessel{createVessel(1, 50, mc.firstDue()), createVessel(2, 50, mc.firstDue()),
		createVessel(3, 50, mc.firstDue())}
	vessels[1].fail(300, 240)

	assert.Empty(t, mc.Update(360, vessels))
	assert.Equal(t, 2, strm.draws)
}
