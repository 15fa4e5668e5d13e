package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kradscan/warden/pkg/handle"
)

func TestRenderCleanReport(t *testing.T) {
	r := &Report{TargetName: "game.exe", TargetPID: 1234, StartedAt: time.Now(), Duration: time.Second}
	out, err := Render(r)
	require.NoError(t, err)
	assert.Contains(t, out, "No suspicious handles or overlays detected.")
	assert.Contains(t, out, "game.exe")
	assert.Contains(t, out, "1234")
}

func TestRenderWithHandlesIncludesTable(t *testing.T) {
	signed := false
	r := &Report{
		TargetName: "game.exe",
		TargetPID:  1,
		StartedAt:  time.Now(),
		Handles: []*handle.Context{
			{
				Raw:    handle.Entry{OwnerPID: 42, GrantedAccess: 0x1F0FFF},
				Rights: []string{"PROCESS_VM_READ"},
				Image:  handle.Image{NTPath: `\Device\cheat.exe`, Signed: &signed},
			},
		},
	}
	out, err := Render(r)
	require.NoError(t, err)
	assert.Contains(t, out, "Suspicious Handles")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, `\Device\cheat.exe`)
}

func TestRenderWithYaraMatches(t *testing.T) {
	r := &Report{TargetName: "game.exe", YaraMatches: []string{"known_cheat_signature"}}
	out, err := Render(r)
	require.NoError(t, err)
	assert.Contains(t, out, "YARA Matches")
	assert.Contains(t, out, "known_cheat_signature")
}
