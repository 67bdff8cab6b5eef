package harmony

import (
	"testing"

	"github.com/ako-music/songforge/song"
	"github.com/stretchr/testify/assert"
)

func TestPitchSelectorReturnsDesiredWhenSafe(t *testing.T) {
	ctx := &Context{}
	sel := NewPitchSelector(ctx).At(0, 480).WithPitch(67).ForTrack(song.RoleVocal)
	n, ok := sel.Build()
	assert.True(t, ok)
	assert.Equal(t, uint8(67), n.Pitch)
}

func TestPitchSelectorSkipFallbackGivesUpOnCollision(t *testing.T) {
	ctx := &Context{}
	ctx.RegisterNote(0, 480, 60, song.RoleChord)
	sel := NewPitchSelector(ctx).At(0, 480).WithPitch(61).ForTrack(song.RoleVocal).SkipOnCollision()
	_, ok := sel.Build()
	assert.False(t, ok)
}

func TestPitchSelectorFallbackToRootRecovers(t *testing.T) {
	ctx := &Context{}
	ctx.RegisterNote(0, 480, 60, song.RoleChord)
	// 73 clashes with 60 (interval class 1). The doubling step only
	// considers tones within an octave of the desired pitch, and 60 is 13
	// away, so the root fallback is what places the note.
	sel := NewPitchSelector(ctx).At(0, 480).WithPitch(73).ForTrack(song.RoleVocal).FallbackToRoot(67)
	n, ok := sel.Build()
	assert.True(t, ok)
	assert.Equal(t, uint8(67), n.Pitch)
}

func TestPitchSelectorFallbackToChordToneFindsNearestSafeTone(t *testing.T) {
	ctx := &Context{}
	ctx.RegisterNote(0, 480, 60, song.RoleChord) // C, so Db(61) is dissonant
	sel := NewPitchSelector(ctx).At(0, 480).WithPitch(61).ForTrack(song.RoleVocal).FallbackToChordTone(48, 84)
	n, ok := sel.Build()
	assert.True(t, ok)
	assert.NotEqual(t, uint8(61), n.Pitch)
}

func TestPitchSelectorAddToRegistersNote(t *testing.T) {
	ctx := &Context{}
	tr := &song.Track{Role: song.RoleVocal}
	ok := NewPitchSelector(ctx).At(0, 480).WithPitch(67).ForTrack(song.RoleVocal).AddTo(tr)
	assert.True(t, ok)
	assert.Len(t, tr.Notes, 1)
	assert.Len(t, ctx.notes, 1)
}
