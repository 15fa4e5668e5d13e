package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kradscan/warden/pkg/handle"
	"github.com/kradscan/warden/pkg/overlay"
)

func TestCleanReportHasNothing(t *testing.T) {
	r := &Report{TargetName: "game.exe"}
	assert.True(t, r.Clean())
}

func TestReportWithHandlesIsNotClean(t *testing.T) {
	r := &Report{Handles: []*handle.Context{{}}}
	assert.False(t, r.Clean())
}

func TestReportWithWindowsIsNotClean(t *testing.T) {
	r := &Report{Windows: []overlay.Info{{}}}
	assert.False(t, r.Clean())
}
