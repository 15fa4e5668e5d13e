package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextEnrichedDefaultsFalse(t *testing.T) {
	c := &Context{Raw: Entry{OwnerPID: 42, GrantedAccess: accessVMRead}}
	assert.False(t, c.Enriched())
	assert.False(t, c.HasImage())
}

func TestContextHasImage(t *testing.T) {
	c := &Context{Image: Image{NTPath: `\Device\HarddiskVolume1\foo.exe`}}
	assert.True(t, c.HasImage())
}

func TestContextStringIncludesSignature(t *testing.T) {
	signed := true
	c := &Context{
		Raw:   Entry{OwnerPID: 7, GrantedAccess: accessVMRead | accessVMWrite},
		Rights: []string{"PROCESS_VM_READ", "PROCESS_VM_WRITE"},
		Image: Image{
			NTPath:    `\Device\foo.exe`,
			Win32Path: `C:\foo.exe`,
			Account:   "bob",
			Domain:    "CORP",
			Signed:    &signed,
		},
	}
	out := c.String()
	assert.Contains(t, out, "Process ID: 7")
	assert.Contains(t, out, "PROCESS_VM_READ")
	assert.Contains(t, out, `C:\foo.exe`)
	assert.Contains(t, out, `CORP\bob`)
	assert.Contains(t, out, "signed")
}
