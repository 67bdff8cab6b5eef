package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/config"
	"github.com/ako-music/songforge/song"
)

func TestGenerateSongPopulatesCoreTracks(t *testing.T) {
	params := config.Default()
	params.Seed = 42

	s := GenerateSong(params)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, uint32(42), s.Seed)
	assert.NotEmpty(t, s.Track(song.RoleBass).Notes)
	assert.NotEmpty(t, s.Track(song.RoleChord).Notes)
	assert.NotEmpty(t, s.Track(song.RoleVocal).Notes)
	assert.NotEmpty(t, s.Track(song.RoleDrums).Notes)

	arr, ok := arrangement.FromSong(s)
	assert.True(t, ok)
	assert.NotNil(t, arr)
}

func TestGenerateSongIsDeterministicForSameSeed(t *testing.T) {
	params := config.Default()
	params.Seed = 99

	a := GenerateSong(params)
	b := GenerateSong(params)

	assert.Equal(t, len(a.Track(song.RoleBass).Notes), len(b.Track(song.RoleBass).Notes))
	for i := range a.Track(song.RoleBass).Notes {
		assert.Equal(t, a.Track(song.RoleBass).Notes[i].Pitch, b.Track(song.RoleBass).Notes[i].Pitch)
		assert.Equal(t, a.Track(song.RoleBass).Notes[i].StartTick, b.Track(song.RoleBass).Notes[i].StartTick)
	}
}

func TestGenerateSongBackgroundMotifRegistersMotifFirst(t *testing.T) {
	params := config.Default()
	params.Seed = 7
	params.CompositionStyle = config.StyleBackgroundMotif

	s := GenerateSong(params)
	assert.NotEmpty(t, s.Track(song.RoleMotif).Notes)
}

func TestGenerateSongSynthDrivenStillProducesAllTracks(t *testing.T) {
	params := config.Default()
	params.Seed = 7
	params.CompositionStyle = config.StyleSynthDriven

	s := GenerateSong(params)
	assert.NotEmpty(t, s.Track(song.RoleVocal).Notes)
	assert.NotEmpty(t, s.Track(song.RoleBass).Notes)
	assert.NotEmpty(t, s.Track(song.RoleChord).Notes)
}

func TestGenerateSongAppliesModulationWhenRequested(t *testing.T) {
	params := config.Default()
	params.Seed = 3
	params.Structure = arrangement.StructureFullPop
	params.ModulationTiming = config.ModulationLastChorus
	params.ModulationSemitones = 2

	s := GenerateSong(params)
	assert.True(t, s.ModulationApplied)
	assert.Equal(t, int8(2), s.ModulationAmount)
}
