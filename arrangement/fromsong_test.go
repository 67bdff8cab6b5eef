package arrangement

import (
	"testing"

	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
	"github.com/stretchr/testify/assert"
)

func TestFromSongRecoversStashedArrangement(t *testing.T) {
	arr := Build(StructureShortForm, theory.ProgressionByID(0), MoodBallad)
	s := song.NewSong(3)
	s.Arrangement = arr

	got, ok := FromSong(s)
	assert.True(t, ok)
	assert.Same(t, arr, got)
}

func TestFromSongFailsOnUnsetArrangement(t *testing.T) {
	s := song.NewSong(3)
	_, ok := FromSong(s)
	assert.False(t, ok)
}
