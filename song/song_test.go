package song

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSongHasAllRolesPresent(t *testing.T) {
	s := NewSong(42)
	for _, r := range []TrackRole{RoleVocal, RoleChord, RoleBass, RoleMotif, RoleArpeggio, RoleAux, RoleGuitar, RoleDrums, RoleSE} {
		tr := s.Track(r)
		assert.NotNil(t, tr)
		assert.Equal(t, r, tr.Role)
	}
}

func TestTrackSortOrdersByTickThenPitch(t *testing.T) {
	tr := &Track{Role: RoleChord}
	tr.Add(NoteEvent{StartTick: 480, Pitch: 60, Duration: 10})
	tr.Add(NoteEvent{StartTick: 0, Pitch: 67, Duration: 10})
	tr.Add(NoteEvent{StartTick: 0, Pitch: 60, Duration: 10})
	tr.Sort()

	assert.Equal(t, uint32(0), tr.Notes[0].StartTick)
	assert.Equal(t, uint8(60), tr.Notes[0].Pitch)
	assert.Equal(t, uint8(67), tr.Notes[1].Pitch)
	assert.Equal(t, uint32(480), tr.Notes[2].StartTick)
}

func TestNotesSoundingAtRespectsHalfOpenInterval(t *testing.T) {
	tr := &Track{Role: RoleBass}
	tr.Add(NoteEvent{StartTick: 100, Duration: 50, Pitch: 40})

	assert.Len(t, tr.NotesSoundingAt(100), 1)
	assert.Len(t, tr.NotesSoundingAt(149), 1)
	assert.Len(t, tr.NotesSoundingAt(150), 0)
	assert.Len(t, tr.NotesSoundingAt(99), 0)
}

func TestEndTick(t *testing.T) {
	n := NoteEvent{StartTick: 200, Duration: 120}
	assert.Equal(t, uint32(320), n.EndTick())
}
