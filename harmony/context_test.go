package harmony

import (
	"testing"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
	"github.com/stretchr/testify/assert"
)

func testArrangement() *arrangement.Arrangement {
	prog := theory.ProgressionByID(0)
	return arrangement.Build(arrangement.StructureShortForm, prog, arrangement.MoodBallad)
}

func TestNewContextBuildsGaplessTimeline(t *testing.T) {
	arr := testArrangement()
	ctx := NewContext(arr)
	assert.NotEmpty(t, ctx.timeline.spans)

	var tick uint32
	for _, sp := range ctx.timeline.spans {
		assert.Equal(t, tick, sp.Start)
		tick = sp.End
	}
	assert.Equal(t, arr.TotalTicks(), tick)
}

func TestGetChordDegreeAtFallsBackOnEmptyTimeline(t *testing.T) {
	ctx := &Context{}
	assert.Equal(t, theory.DegreeI, ctx.GetChordDegreeAt(0))
}

func TestRegisterAndIsPitchSafe(t *testing.T) {
	arr := testArrangement()
	ctx := NewContext(arr)

	ctx.RegisterNote(0, 480, 60, song.RoleChord) // C
	// minor 2nd against C is Db (61) -- should be dissonant regardless of chord
	assert.False(t, ctx.IsPitchSafe(61, 0, 480, song.RoleBass))
	// a safe consonant interval
	assert.True(t, ctx.IsPitchSafe(67, 0, 480, song.RoleBass))
	// excluding the same role should never see its own note as a collision
	assert.True(t, ctx.IsPitchSafe(61, 0, 480, song.RoleChord))
}

func TestClearNotesForTrack(t *testing.T) {
	ctx := &Context{}
	ctx.RegisterNote(0, 100, 60, song.RoleBass)
	ctx.RegisterNote(0, 100, 64, song.RoleChord)
	ctx.ClearNotesForTrack(song.RoleBass)
	assert.Len(t, ctx.notes, 1)
	assert.Equal(t, song.RoleChord, ctx.notes[0].role)
}

func TestHasBassCollisionLowRegisterOnly(t *testing.T) {
	ctx := &Context{}
	ctx.RegisterNote(0, 480, 36, song.RoleBass)
	// pitch 59 is just under threshold 60, octave multiple away from 36? 59-36=23, not <=3 and not %12==0
	assert.False(t, ctx.HasBassCollision(59, 0, 480, 3))
	// pitch 48 is exactly an octave from 36
	assert.True(t, ctx.HasBassCollision(48, 0, 480, 3))
	// above the low-register threshold, the stricter rule never applies
	assert.False(t, ctx.HasBassCollision(72, 0, 480, 3))
}

func TestGetPitchClassesFromTrackAt(t *testing.T) {
	ctx := &Context{}
	ctx.RegisterNote(0, 480, 60, song.RoleChord)
	ctx.RegisterNote(0, 480, 72, song.RoleChord)
	pcs := ctx.GetPitchClassesFromTrackAt(100, song.RoleChord)
	assert.ElementsMatch(t, []int{0}, pcs)
}
