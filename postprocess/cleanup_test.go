package postprocess

import (
	"testing"

	"github.com/ako-music/songforge/song"
	"github.com/stretchr/testify/assert"
)

func TestRemoveOverlapsTruncatesToMinDuration(t *testing.T) {
	notes := []song.NoteEvent{
		{StartTick: 0, Duration: 1000, Pitch: 60},
		{StartTick: 20, Duration: 200, Pitch: 64},
	}
	notes = RemoveOverlaps(notes)
	assert.Equal(t, uint32(minNoteDuration), notes[0].Duration)
}

func TestRemoveOverlapsLeavesNonOverlappingNotesAlone(t *testing.T) {
	notes := []song.NoteEvent{
		{StartTick: 0, Duration: 400, Pitch: 60},
		{StartTick: 480, Duration: 400, Pitch: 64},
	}
	notes = RemoveOverlaps(notes)
	assert.Equal(t, uint32(400), notes[0].Duration)
}

func TestMergeSamePitchTiesNotesWithinGap(t *testing.T) {
	notes := []song.NoteEvent{
		{StartTick: 0, Duration: 480, Pitch: 60},
		{StartTick: 500, Duration: 480, Pitch: 60},
	}
	merged := MergeSamePitch(notes)
	assert.Len(t, merged, 1)
	assert.Equal(t, uint32(980), merged[0].Duration)
}

func TestMergeSamePitchKeepsDifferentPitchesSeparate(t *testing.T) {
	notes := []song.NoteEvent{
		{StartTick: 0, Duration: 480, Pitch: 60},
		{StartTick: 490, Duration: 480, Pitch: 62},
	}
	merged := MergeSamePitch(notes)
	assert.Len(t, merged, 2)
}
