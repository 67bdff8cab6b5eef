package generate

import (
	"math/rand"
	"testing"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/harmony"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
	"github.com/stretchr/testify/assert"
)

func TestArpeggioOrderUpIsAscending(t *testing.T) {
	_, _, f := buildTestContext()
	order := arpeggioOrder(f, []int{0, 4, 7}, 60, 2, ArpUp)
	for i := 1; i < len(order); i++ {
		assert.GreaterOrEqual(t, order[i], order[i-1])
	}
}

func TestArpeggioOrderDownIsDescending(t *testing.T) {
	_, _, f := buildTestContext()
	order := arpeggioOrder(f, []int{0, 4, 7}, 60, 1, ArpDown)
	for i := 1; i < len(order); i++ {
		assert.LessOrEqual(t, order[i], order[i-1])
	}
}

func TestResolveGateNeverZero(t *testing.T) {
	assert.Greater(t, resolveGate(240, 0.0), uint32(0))
}

func TestGenerateArpeggioProducesNotes(t *testing.T) {
	arr, _, f := buildTestContext()
	s := song.NewSong(1)
	GenerateArpeggio(s, f, arr, 60, 2, SpeedEighth, 0.8, ArpUp, false)
	assert.NotEmpty(t, s.Track(song.RoleArpeggio).Notes)
}

func TestArpeggioStyleForMoodCityPopIsTripletShuffle(t *testing.T) {
	style := arpeggioStyleForMood(arrangement.MoodCityPop)
	assert.Equal(t, SpeedTriplet, style.Speed)
	assert.Greater(t, style.SwingAmount, 0.0)
}

func TestArpeggioStyleForMoodRockAnthemDropsOctave(t *testing.T) {
	style := arpeggioStyleForMood(arrangement.MoodRockAnthem)
	assert.Equal(t, -12, style.OctaveOffset)
}

func TestClampIntClampsToRange(t *testing.T) {
	assert.Equal(t, 36, clampInt(10, 36, 96))
	assert.Equal(t, 96, clampInt(200, 36, 96))
	assert.Equal(t, 60, clampInt(60, 36, 96))
}

func TestDensityThresholdForBucketsByBackingDensity(t *testing.T) {
	assert.Equal(t, 70, densityThresholdFor(20))
	assert.Equal(t, 80, densityThresholdFor(50))
	assert.Equal(t, 90, densityThresholdFor(90))
}

func TestGenerateArpeggioBaseOctaveClampedByMoodOffset(t *testing.T) {
	prog := theory.ProgressionByID(0)
	arr := arrangement.Build(arrangement.StructureShortForm, prog, arrangement.MoodRockAnthem)
	ctx := harmony.NewContext(arr)
	rng := rand.New(rand.NewSource(3))
	harmony.PlanSecondaryDominants(arr, rng, ctx)
	f := NewNoteFactory(ctx, rng)

	s := song.NewSong(1)
	GenerateArpeggio(s, f, arr, 40, 2, SpeedEighth, 0.8, ArpUp, false)
	for _, n := range s.Track(song.RoleArpeggio).Notes {
		assert.GreaterOrEqual(t, n.Pitch, uint8(24))
	}
}

func TestGenerateArpeggioDurationNeverCrossesNextChordChange(t *testing.T) {
	arr, ctx, f := buildTestContext()
	s := song.NewSong(1)
	GenerateArpeggio(s, f, arr, 60, 1, SpeedSixteenth, 0.95, ArpUp, false)
	for _, n := range s.Track(song.RoleArpeggio).Notes {
		next := ctx.GetNextChordChangeTick(n.StartTick)
		if next == 0 {
			continue
		}
		assert.LessOrEqual(t, n.StartTick+n.Duration, next)
	}
}
