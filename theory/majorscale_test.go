package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCMajorScaleTone(t *testing.T) {
	assert.True(t, IsCMajorScaleTone(0))
	assert.True(t, IsCMajorScaleTone(11))
	assert.False(t, IsCMajorScaleTone(1))
	assert.False(t, IsCMajorScaleTone(6))
	// negative / out-of-range pitch classes normalize correctly
	assert.True(t, IsCMajorScaleTone(-1))
	assert.True(t, IsCMajorScaleTone(12))
}

func TestNearestScaleTonePitchClass(t *testing.T) {
	assert.Equal(t, 0, NearestScaleTonePitchClass(0))
	assert.Equal(t, 0, NearestScaleTonePitchClass(1))
	assert.Equal(t, 2, NearestScaleTonePitchClass(3))
}

func TestSecondaryDominantChordTones(t *testing.T) {
	tones := SecondaryDominantChordTones()
	vOfV := tones[DegreeV]
	assert.ElementsMatch(t, []int{2, 6, 9, 0}, vOfV)
}
