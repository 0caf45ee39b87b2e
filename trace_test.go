package ferrysim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iti/evt/vrtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceManager_Inactive(t *testing.T) {
	tm := CreateTraceManager("off", false)
	assert.False(t, tm.Active())

	tm.AddTrace(vrtime.SecondsToTime(60), 1, 1, "depart", 10)
	require.NoError(t, tm.AddName(1, "vessel-1"))
	assert.Empty(t, tm.Traces)
	assert.Empty(t, tm.NameByID)

	written, err := tm.WriteToFile(filepath.Join(t.TempDir(), "events.json"))
	require.NoError(t, err)
	assert.False(t, written)
}

func TestTraceManager_Active(t *testing.T) {
	tm := CreateTraceManager("priority", true)
	require.NoError(t, tm.AddName(1, "vessel-1"))
	assert.Error(t, tm.AddName(1, "vessel-1"))

	tm.AddTrace(vrtime.SecondsToTime(420*60), 420, 1, "depart", 50)
	require.Len(t, tm.Traces, 1)
	assert.Equal(t, 420.0, tm.Traces[0].Time)
	assert.Equal(t, 50, tm.Traces[0].Count)

	filename := filepath.Join(t.TempDir(), "events.json")
	written, err := tm.WriteToFile(filename)
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"op": "depart"`)
	assert.Contains(t, string(data), `"expname": "priority"`)
}
