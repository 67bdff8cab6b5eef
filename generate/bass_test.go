package generate

import (
	"testing"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
	"github.com/stretchr/testify/assert"
)

func TestGenerateBassStaysWithinRange(t *testing.T) {
	arr, _, f := buildTestContext()
	s := song.NewSong(1)
	GenerateBass(s, f, arr, 28, 60, true)

	for _, n := range s.Track(song.RoleBass).Notes {
		assert.GreaterOrEqual(t, n.Pitch, uint8(24))
		assert.LessOrEqual(t, n.Pitch, uint8(96)) // octave fallback may exceed high slightly
	}
	assert.NotEmpty(t, s.Track(song.RoleBass).Notes)
}

func TestScaleIntervalsForMatchesQuality(t *testing.T) {
	assert.Equal(t, minorScaleIntervals, scaleIntervalsFor(theory.DegreeVI))
	assert.Equal(t, majorScaleIntervals, scaleIntervalsFor(theory.DegreeI))
}

func TestGenerateBassVocalAwareStaysWithinRange(t *testing.T) {
	arr, _, f := buildTestContext()
	s := song.NewSong(1)

	vocal := s.Track(song.RoleVocal)
	for _, sec := range arr.Sections {
		for bar := 0; bar < sec.Bars; bar++ {
			start := sec.StartTick + uint32(bar)*arrangement.TicksPerBar
			vocal.Add(song.NoteEvent{StartTick: start, Duration: 480, Pitch: 67})
			vocal.Add(song.NoteEvent{StartTick: start + 960, Duration: 480, Pitch: 72})
		}
	}
	f.Harmony.RegisterTrack(vocal, song.RoleVocal)

	GenerateBassVocalAware(s, f, arr, 28, 60, true)

	notes := s.Track(song.RoleBass).Notes
	assert.NotEmpty(t, notes)
	for _, n := range notes {
		assert.GreaterOrEqual(t, n.Pitch, uint8(24))
		assert.LessOrEqual(t, n.Pitch, uint8(96))
	}
}

func TestVocalDensityBucketRangesZeroToOne(t *testing.T) {
	arr, _, _ := buildTestContext()
	sec := arr.Sections[0]
	assert.Equal(t, 0.5, vocalDensityBucket(nil, sec))

	track := &song.Track{}
	track.Add(song.NoteEvent{StartTick: sec.StartTick, Duration: 100, Pitch: 60})
	d := vocalDensityBucket(track, sec)
	assert.GreaterOrEqual(t, d, 0.0)
	assert.LessOrEqual(t, d, 1.0)
}

func TestAdjustRootForMotionRejectsNonDiatonicAndMinorSecond(t *testing.T) {
	f := &NoteFactory{Rng: nil}
	// Oblique/zero direction never adjusts.
	assert.Equal(t, 40, adjustRootForMotion(f, 40, MotionOblique, 1, 0, true))
	assert.Equal(t, 40, adjustRootForMotion(f, 40, MotionContrary, 0, 0, true))
}

func TestAvoidVocalOctaveDoublingPushesDownAnOctave(t *testing.T) {
	// root pitch class 7 (G), vocal at 67 (G4) within 2 octaves -> push down.
	assert.Equal(t, 55-12, avoidVocalOctaveDoubling(55, 67, true, 24))
	// No vocal: unchanged.
	assert.Equal(t, 55, avoidVocalOctaveDoubling(55, 67, false, 24))
	// Different pitch class: unchanged.
	assert.Equal(t, 50, avoidVocalOctaveDoubling(50, 67, true, 24))
}

func TestApproachNoteAvoidsMinorSecondClash(t *testing.T) {
	// next root C (0+36=36-ish), target tones contain Db-adjacent clash case
	nextRoot := 36
	tones := []int{0, 4, 7} // C major triad pitch classes relative, but approachNote compares by intervalClassLocal which folds mod 12 regardless of octave
	p := approachNote(nextRoot, 24, tones)
	assert.GreaterOrEqual(t, p, 24)
}
