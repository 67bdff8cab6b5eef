package postprocess

import (
	"math/rand"
	"testing"

	"github.com/ako-music/songforge/song"
	"github.com/stretchr/testify/assert"
)

func TestApplyGrooveOffBeatPushesOnBeatNotesLater(t *testing.T) {
	notes := []song.NoteEvent{
		{StartTick: 0, Duration: 200, Pitch: 60},
		{StartTick: 480, Duration: 200, Pitch: 62},
	}
	ApplyGroove(notes, GrooveOffBeat)
	assert.Equal(t, uint32(480+grooveShiftTicks), notes[1].StartTick)
}

func TestApplyGrooveStraightLeavesNotesUntouched(t *testing.T) {
	notes := []song.NoteEvent{{StartTick: 10, Duration: 50, Pitch: 60}}
	ApplyGroove(notes, GrooveStraight)
	assert.Equal(t, uint32(10), notes[0].StartTick)
}

func TestShrinkToGapPreservesMinimumGap(t *testing.T) {
	prev := song.NoteEvent{StartTick: 0, Duration: 500}
	shrinkToGap(&prev, 100)
	assert.LessOrEqual(t, prev.EndTick(), uint32(100))
	assert.GreaterOrEqual(t, prev.Duration, uint32(1))
}

func TestHumanizeStaysWithinRandomJitterBounds(t *testing.T) {
	notes := []song.NoteEvent{{StartTick: 1000, Duration: 200, Pitch: 60, Velocity: 100}}
	rng := rand.New(rand.NewSource(1))
	Humanize(notes, rng)
	diff := int(notes[0].StartTick) - 1000
	assert.LessOrEqual(t, diff, 5)
	assert.GreaterOrEqual(t, diff, -5)
}
