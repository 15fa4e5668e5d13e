package anticheat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineStartsIdle(t *testing.T) {
	sm := newMachine()
	assert.Equal(t, PhaseIdle, sm.MustState())
}

func TestMachineHappyPath(t *testing.T) {
	sm := newMachine()
	require.NoError(t, sm.Fire(triggerSnapshot))
	assert.Equal(t, PhaseSnapshotting, sm.MustState())
	require.NoError(t, sm.Fire(triggerFilter))
	assert.Equal(t, PhaseFiltering, sm.MustState())
	require.NoError(t, sm.Fire(triggerEnrich))
	assert.Equal(t, PhaseEnriching, sm.MustState())
	require.NoError(t, sm.Fire(triggerOverlays))
	assert.Equal(t, PhaseScanningOverlays, sm.MustState())
	require.NoError(t, sm.Fire(triggerFinish))
	assert.Equal(t, PhaseDone, sm.MustState())
}

func TestMachineFailTransitionsFromAnyInFlightPhase(t *testing.T) {
	advance := []string{triggerSnapshot, triggerFilter, triggerEnrich, triggerOverlays}
	for n := 1; n <= len(advance); n++ {
		sm := newMachine()
		for _, trigger := range advance[:n] {
			require.NoError(t, sm.Fire(trigger))
		}
		require.NoError(t, sm.Fire(triggerFail))
		assert.Equal(t, PhaseFailed, sm.MustState())
	}
}

func TestMachineRejectsOutOfOrderTrigger(t *testing.T) {
	sm := newMachine()
	err := sm.Fire(triggerEnrich)
	assert.Error(t, err)
	assert.Equal(t, PhaseIdle, sm.MustState())
}

func TestMachineTerminalStatesAcceptNoFurtherTriggers(t *testing.T) {
	sm := newMachine()
	require.NoError(t, sm.Fire(triggerSnapshot))
	require.NoError(t, sm.Fire(triggerFilter))
	require.NoError(t, sm.Fire(triggerEnrich))
	require.NoError(t, sm.Fire(triggerOverlays))
	require.NoError(t, sm.Fire(triggerFinish))
	assert.Error(t, sm.Fire(triggerFail))
}
