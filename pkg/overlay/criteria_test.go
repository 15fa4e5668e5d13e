package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCriteriaScoreAllZeroMatchesNothing(t *testing.T) {
	var c Criteria
	satisfied, unsatisfied := c.Score(Info{}, Rect{}, Rect{})
	assert.Zero(t, satisfied)
	assert.Zero(t, unsatisfied)
	assert.False(t, c.Matches(Info{}, Rect{}, Rect{}))
}

func TestCriteriaStyleIsAnyBitMatch(t *testing.T) {
	c := Criteria{RequiredStyle: 0x10000000 | 0x00000080}
	info := Info{Style: 0x10000000}
	satisfied, unsatisfied := c.Score(info, Rect{}, Rect{})
	assert.Equal(t, 1, satisfied)
	assert.Zero(t, unsatisfied)
}

func TestCriteriaStyleExAnyBitMatch(t *testing.T) {
	c := Criteria{RequiredStyleEx: 0x00000020}
	assert.True(t, c.Matches(Info{StyleEx: 0x00080020}, Rect{}, Rect{}))
	assert.False(t, c.Matches(Info{StyleEx: 0x00000001}, Rect{}, Rect{}))
}

func TestCriteriaSatisfyAllRejectsOnFirstMiss(t *testing.T) {
	c := Criteria{
		ClassName:  "OVERLAY",
		Title:      "wrong title",
		SatisfyAll: true,
	}
	info := Info{ClassName: "OVERLAY", Title: "actual title"}
	satisfied, unsatisfied := c.Score(info, Rect{}, Rect{})
	assert.Equal(t, 1, satisfied)
	assert.Equal(t, 1, unsatisfied)
	assert.False(t, c.Matches(info, Rect{}, Rect{}))
}

func TestCriteriaAnyModeAcceptsOnSingleHit(t *testing.T) {
	c := Criteria{
		ClassName: "OVERLAY",
		Title:     "wrong title",
	}
	info := Info{ClassName: "OVERLAY", Title: "actual title"}
	assert.True(t, c.Matches(info, Rect{}, Rect{}))
}

func TestCriteriaMinPercentPrimary(t *testing.T) {
	c := Criteria{MinPercentPrimary: 90}
	primary := Rect{Right: 1000, Bottom: 1000}

	covering := Info{Width: 1000, Height: 1000}
	assert.True(t, c.Matches(covering, primary, Rect{}))

	small := Info{Width: 10, Height: 10}
	assert.False(t, c.Matches(small, primary, Rect{}))
}
