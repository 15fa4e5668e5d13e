package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectWidthHeight(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Right: 110, Bottom: 220}
	assert.Equal(t, int32(100), r.Width())
	assert.Equal(t, int32(200), r.Height())
}

func TestScreenPercentagesFullScreenWindow(t *testing.T) {
	primary := Rect{Right: 1920, Bottom: 1080}
	virtual := Rect{Right: 3840, Bottom: 1080}
	w := Info{Width: 1920, Height: 1080}

	percentPrimary, percentVirtual := w.ScreenPercentages(primary, virtual)
	assert.InDelta(t, 100.0, percentPrimary, 0.001)
	assert.InDelta(t, 50.0, percentVirtual, 0.001)
}

func TestScreenPercentagesQuarterWindow(t *testing.T) {
	primary := Rect{Right: 1000, Bottom: 1000}
	w := Info{Width: 500, Height: 500}

	percentPrimary, _ := w.ScreenPercentages(primary, Rect{})
	assert.InDelta(t, 25.0, percentPrimary, 0.001)
}

func TestScreenPercentagesZeroAreaScreenIsZeroNotNaN(t *testing.T) {
	w := Info{Width: 100, Height: 100}
	percentPrimary, percentVirtual := w.ScreenPercentages(Rect{}, Rect{})
	assert.Zero(t, percentPrimary)
	assert.Zero(t, percentVirtual)
}

func TestInfoStringIncludesGeometry(t *testing.T) {
	w := Info{Handle: 0x1234, Title: "cheat overlay", ClassName: "OVERLAY", PID: 99}
	out := w.String()
	assert.Contains(t, out, "cheat overlay")
	assert.Contains(t, out, "OVERLAY")
	assert.Contains(t, out, "Process ID: 99")
}
