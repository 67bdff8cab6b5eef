package generate

import (
	"testing"

	"github.com/ako-music/songforge/song"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAuxEmotionalPadNeverRetriggersWithinSustain(t *testing.T) {
	arr, _, f := buildTestContext()
	s := song.NewSong(1)
	GenerateAux(s, f, arr, AuxEmotionalPad, 48)

	notes := s.Track(song.RoleAux).Notes
	assert.NotEmpty(t, notes)
	for i := 1; i < len(notes); i++ {
		assert.GreaterOrEqual(t, notes[i].StartTick, notes[i-1].StartTick+notes[i-1].Duration-200)
	}
}

func TestMotionScorePrefersContraryMotion(t *testing.T) {
	assert.Greater(t, motionScore(2, -1), motionScore(2, 1))
}

func TestVocalDirectionAtNoNotesIsZero(t *testing.T) {
	tr := &song.Track{}
	assert.Equal(t, 0, vocalDirectionAt(tr, 100))
}
