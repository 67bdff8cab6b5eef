package generate

import (
	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// GenerateMotif builds the dedicated Motif track used by the
// BackgroundMotif composition style. It runs before chord/bass
// generation and registers its notes with the harmony context so later
// voicing choices can avoid minor-2nd clashes with the motif's pitch
// classes.
func GenerateMotif(s *song.Song, f *NoteFactory, arr *arrangement.Arrangement, register int) {
	track := s.Track(song.RoleMotif)
	basePhrase := buildMotifPhrase(f, register)

	for _, sec := range arr.Sections {
		if !sec.TrackMask.Has(arrangement.MaskMotif) {
			continue
		}
		for bar := 0; bar < sec.Bars; bar += len(basePhrase) {
			barStart := sec.StartTick + uint32(bar)*arrangement.TicksPerBar
			placeMotifPhrase(f, track, barStart, basePhrase, sec.Type)
		}
	}
}

type motifStep struct {
	beatOffset int
	degreeStep int // semitone offset added to the chord root
	duration   uint32
}

// buildMotifPhrase generates a short (one bar) contour that
// repeats with per-section variation; grounded in the 7-note scale walk
// the teacher's melody generator already uses for its head phrases.
func buildMotifPhrase(f *NoteFactory, register int) []motifStep {
	shape := []int{0, 2, 4, 2}
	var steps []motifStep
	for i, d := range shape {
		steps = append(steps, motifStep{beatOffset: i, degreeStep: d, duration: arrangement.TicksPerBeat})
	}
	return steps
}

func placeMotifPhrase(f *NoteFactory, track *song.Track, barStart uint32, phrase []motifStep, sectionType arrangement.SectionType) {
	variationShift := 0
	if sectionType == arrangement.SectionChorus {
		variationShift = 12 // chorus restates the motif an octave up
	}
	for _, step := range phrase {
		tick := barStart + uint32(step.beatOffset)*arrangement.TicksPerBeat
		degree := f.Harmony.GetChordDegreeAt(tick)
		pc := theory.DegreeRoot(degree) + step.degreeStep
		pitch := pc + 60 + variationShift
		f.Select(song.RoleMotif, song.SourceMotif).
			At(tick, step.duration).WithPitch(uint8(clampPitch(pitch))).WithVelocity(78).
			FallbackToOctave(48, 84).
			AddTo(track)
	}
}
