//go:build windows
// +build windows

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItoa(t *testing.T) {
	assert.Equal(t, "0", itoa(0))
	assert.Equal(t, "17763", itoa(17763))
	assert.Equal(t, "1", itoa(1))
}
