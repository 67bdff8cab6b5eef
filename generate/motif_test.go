package generate

import (
	"testing"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
	"github.com/stretchr/testify/assert"
)

func TestBuildMotifPhraseHasFourSteps(t *testing.T) {
	_, _, f := buildTestContext()
	phrase := buildMotifPhrase(f, 60)
	assert.Len(t, phrase, 4)
}

func TestPlaceMotifPhraseShiftsUpOctaveInChorus(t *testing.T) {
	_, _, f := buildTestContext()
	phrase := buildMotifPhrase(f, 60)

	verse := &song.Track{Role: song.RoleMotif}
	placeMotifPhrase(f, verse, 0, phrase, arrangement.SectionA)

	chorus := &song.Track{Role: song.RoleMotif}
	placeMotifPhrase(f, chorus, 0, phrase, arrangement.SectionChorus)

	assert.NotEmpty(t, verse.Notes)
	assert.NotEmpty(t, chorus.Notes)
	assert.Equal(t, int(verse.Notes[0].Pitch)+12, int(chorus.Notes[0].Pitch))
}

func TestGenerateMotifPopulatesTrack(t *testing.T) {
	arr, _, f := buildTestContext()
	s := song.NewSong(1)
	GenerateMotif(s, f, arr, 60)
	assert.NotEmpty(t, s.Track(song.RoleMotif).Notes)
}
