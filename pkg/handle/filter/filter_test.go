package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kradscan/warden/pkg/handle"
)

func entries() []handle.Entry {
	return []handle.Entry{
		{OwnerPID: 1, TypeIndex: 7, GrantedAccess: 0x001FFFFF, Value: 0x10}, // self, full access
		{OwnerPID: 2, TypeIndex: 7, GrantedAccess: 0x0010 | 0x0020, Value: 0x20}, // other, VM_READ|VM_WRITE
		{OwnerPID: 3, TypeIndex: 7, GrantedAccess: 0x0400, Value: 0x30},          // other, query-only
		{OwnerPID: 4, TypeIndex: 25, GrantedAccess: 0x0010 | 0x0020, Value: 0x40}, // other, but a File not a Process
	}
}

func TestByTypeKeepsOnlyMatchingTag(t *testing.T) {
	p := New(entries()).ByType(handle.TagProcess)
	assert.Equal(t, 3, p.Len())
	for _, c := range p.Contexts() {
		assert.NotEqual(t, uint16(4), c.Raw.OwnerPID)
	}
}

func TestExcludeSelfNeverReturnsSelfPID(t *testing.T) {
	p := New(entries()).ExcludeSelf(1)
	assert.Equal(t, 3, p.Len())
	for _, c := range p.Contexts() {
		assert.NotEqual(t, uint16(1), c.Raw.OwnerPID)
	}
}

func TestExcludeSelfComposesWithLaterFilters(t *testing.T) {
	// exclude-self() then any filter must never reintroduce self_pid.
	p := New(entries()).ExcludeSelf(1).ByType(handle.TagProcess)
	for _, c := range p.Contexts() {
		assert.NotEqual(t, uint16(1), c.Raw.OwnerPID)
	}
}

func TestSuspiciousOnlyDropsQueryOnlyHandles(t *testing.T) {
	p := New(entries()).SuspiciousOnly()
	pids := make([]uint16, 0)
	for _, c := range p.Contexts() {
		pids = append(pids, c.Raw.OwnerPID)
	}
	assert.ElementsMatch(t, []uint16{1, 2, 4}, pids)
}

func TestByAccessMaskRequiredNeedsEveryBit(t *testing.T) {
	p := New(entries()).ByAccessMaskRequired(0x0010 | 0x0020)
	pids := make([]uint16, 0)
	for _, c := range p.Contexts() {
		pids = append(pids, c.Raw.OwnerPID)
	}
	assert.ElementsMatch(t, []uint16{1, 2, 4}, pids)
}

func TestByOwnerPID(t *testing.T) {
	p := New(entries()).ByOwnerPID(3)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, uint16(3), p.Contexts()[0].Raw.OwnerPID)
}

func TestPipelineChainPreservesOrder(t *testing.T) {
	p := New(entries()).ByType(handle.TagProcess).SuspiciousOnly()
	contexts := p.Contexts()
	assert.Equal(t, uint16(1), contexts[0].Raw.OwnerPID)
	assert.Equal(t, uint16(2), contexts[1].Raw.OwnerPID)
}

func TestContextsDoesNotConsumeThePipeline(t *testing.T) {
	p := New(entries())
	first := p.Contexts()
	second := p.Contexts()
	assert.Equal(t, len(first), len(second))
	assert.Equal(t, 4, p.Len())
}

func TestNewFromContextsRoundTrips(t *testing.T) {
	original := New(entries()).Contexts()
	p := NewFromContexts(original)
	assert.Equal(t, len(original), p.Len())
}

func TestLargeHandleTable(t *testing.T) {
	large := make([]handle.Entry, 0, 60000)
	for i := 0; i < 60000; i++ {
		large = append(large, handle.Entry{
			OwnerPID:      uint16(i % 500),
			TypeIndex:     7,
			GrantedAccess: 0x0010 | 0x0020,
			Value:         uint16(i),
		})
	}
	p := New(large).ByType(handle.TagProcess).SuspiciousOnly().ExcludeSelf(0)
	assert.Greater(t, p.Len(), 0)
	for _, c := range p.Contexts() {
		assert.NotEqual(t, uint16(0), c.Raw.OwnerPID)
	}
}
