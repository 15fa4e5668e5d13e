//go:build windows
// +build windows

package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosestMatchFindsNearHit(t *testing.T) {
	names := []string{"explorer.exe", "notepad.exe", "csgo.exe"}
	assert.Equal(t, "csgo.exe", closestMatch("csgo.ex", names))
}

func TestClosestMatchEmptyCandidates(t *testing.T) {
	assert.Equal(t, "", closestMatch("game.exe", nil))
}

func TestClosestMatchNoReasonableCandidate(t *testing.T) {
	assert.Equal(t, "", closestMatch("zzzzzzzzzzzzzzzzzzzzzzzz", []string{"explorer.exe"}))
}

func TestUnicodeToStringTrimsAtFirstNUL(t *testing.T) {
	u := append(append([]uint16{}, []uint16("hello")...), 0, 'X', 'X')
	assert.Equal(t, "hello", unicodeToString(u))
}

func TestUnicodeToStringTrimsTrailingSpace(t *testing.T) {
	u := append([]uint16("padded   "), 0)
	assert.Equal(t, "padded", unicodeToString(u))
}

func TestUnicodeToStringNoNUL(t *testing.T) {
	u := []uint16("noterminator")
	assert.Equal(t, "noterminator", unicodeToString(u))
}

func TestSameImageNameIsCaseSensitive(t *testing.T) {
	assert.True(t, sameImageName("notepad.exe", "notepad.exe"))
	assert.False(t, sameImageName("Notepad.exe", "notepad.exe"))
	assert.False(t, sameImageName("notepad.exe", "wordpad.exe"))
}
