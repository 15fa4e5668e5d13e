package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAccessMaskIsPure(t *testing.T) {
	mask := uint32(accessVMRead | accessVMWrite | accessTerminate)
	first := DecodeAccessMask(mask)
	second := DecodeAccessMask(mask)
	assert.Equal(t, first, second, "same mask must decode to the same ordered list every time")
	assert.Equal(t, []string{"PROCESS_TERMINATE", "PROCESS_VM_READ", "PROCESS_VM_WRITE"}, first)
}

func TestDecodeAccessMaskDropsUnknownBits(t *testing.T) {
	const unknownBit = 1 << 23
	rights := DecodeAccessMask(accessVMRead | unknownBit)
	assert.Equal(t, []string{"PROCESS_VM_READ"}, rights)
}

func TestDecodeAccessMaskEmpty(t *testing.T) {
	assert.Empty(t, DecodeAccessMask(0))
}

func TestIsSuspiciousFullAccess(t *testing.T) {
	assert.True(t, IsSuspicious(accessAllAccess))
}

func TestIsSuspiciousReadWrite(t *testing.T) {
	assert.True(t, IsSuspicious(accessVMRead|accessVMWrite))
}

func TestIsSuspiciousReadOnlyIsNot(t *testing.T) {
	assert.False(t, IsSuspicious(accessVMRead))
	assert.False(t, IsSuspicious(accessVMWrite))
}

func TestIsSuspiciousUnrelatedRightsAreNot(t *testing.T) {
	assert.False(t, IsSuspicious(accessTerminate|accessSetInformation))
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "Process", TagProcess.String())
	assert.Equal(t, "Mutant", TagMutex.String())
	assert.Equal(t, "Tag(99)", Tag(99).String())
}
