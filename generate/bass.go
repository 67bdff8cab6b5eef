package generate

import (
	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// BassPattern names a bass rhythmic/contour pattern, grounded on the
// teacher's midi/bass.go pattern switch (root/root_fifth/walking/etc.),
// generalized to the degree-driven harmony model.
type BassPattern int

const (
	BassWholeNote BassPattern = iota
	BassRootFifth
	BassSyncopated
	BassDriving
	BassRhythmicDrive
	BassWalking
)

// minorScaleIntervals is used by the Walking pattern for minor-quality
// chords (ii, iii, vi): natural minor relative to the chord root.
var minorScaleIntervals = []int{0, 2, 3, 5, 7, 8, 10}

// majorScaleIntervals is used by the Walking pattern for major chords.
var majorScaleIntervals = []int{0, 2, 4, 5, 7, 9, 11}

// allowedBassPatterns resolves the weighted-random candidate list for
// (section, drumsEnabled, backingDensity).
func allowedBassPatterns(sec arrangement.Section, drumsEnabled bool) ([]BassPattern, []float64) {
	if !drumsEnabled {
		return []BassPattern{BassRhythmicDrive, BassDriving, BassSyncopated}, []float64{0.5, 0.3, 0.2}
	}
	switch sec.Type {
	case arrangement.SectionIntro, arrangement.SectionOutro, arrangement.SectionInterlude:
		return []BassPattern{BassWholeNote, BassRootFifth}, []float64{0.6, 0.4}
	case arrangement.SectionChorus, arrangement.SectionDrop:
		return []BassPattern{BassDriving, BassSyncopated, BassRootFifth}, []float64{0.45, 0.35, 0.2}
	case arrangement.SectionB:
		return []BassPattern{BassSyncopated, BassRootFifth, BassWalking}, []float64{0.4, 0.35, 0.25}
	default:
		if sec.BackingDensity < 40 {
			return []BassPattern{BassWholeNote, BassRootFifth}, []float64{0.5, 0.5}
		}
		return []BassPattern{BassRootFifth, BassSyncopated, BassWalking}, []float64{0.45, 0.3, 0.25}
	}
}

func pickBassPattern(f *NoteFactory, sec arrangement.Section, drumsEnabled bool) BassPattern {
	patterns, weights := allowedBassPatterns(sec, drumsEnabled)
	return patterns[f.WeightedPick(weights)]
}

// scaleIntervalsFor returns the scale used for the Walking pattern's
// scale-degree steps, based on the chord's quality.
func scaleIntervalsFor(d theory.Degree) []int {
	if theory.DegreeQuality(d) == theory.QualityMinor {
		return minorScaleIntervals
	}
	return majorScaleIntervals
}

// approachNote computes the approach-note pitch at a bar boundary: a
// fifth below the next root, falling back to the root an octave below if
// that clashes with a target chord tone by minor 2nd.
func approachNote(nextRoot int, low int, nextTones []int) int {
	candidate := nextRoot - 7
	for candidate < low {
		candidate += 12
	}
	for _, t := range nextTones {
		if intervalClassLocal(candidate, t) == 1 {
			fallback := nextRoot - 12
			for fallback < low {
				fallback += 12
			}
			return fallback
		}
	}
	return candidate
}

func intervalClassLocal(a, b int) int {
	d := (a - b) % 12
	if d < 0 {
		d = -d
	}
	if d > 6 {
		d = 12 - d
	}
	return d
}

// GenerateBass fills in the bass track for the whole arrangement using
// degree-driven patterns, submitting every note through the pitch safety
// builder with a ChordTone fallback.
func GenerateBass(s *song.Song, f *NoteFactory, arr *arrangement.Arrangement, low, high int, drumsEnabled bool) {
	track := s.Track(song.RoleBass)

	for _, sec := range arr.Sections {
		if !sec.TrackMask.Has(arrangement.MaskBass) {
			continue
		}
		pattern := pickBassPattern(f, sec, drumsEnabled)
		fillBassSection(f, track, sec, pattern, low, high, nil)
	}
}

// BassMotion names the melodic relationship a vocal-aware bass adjustment
// takes against the vocal line's direction into a bar, per spec.md §4.8's
// Vocal-first variant.
type BassMotion int

const (
	MotionContrary BassMotion = iota
	MotionSimilar
	MotionParallel
	MotionOblique
)

// vocalDensityBucket buckets a section's vocal note density the way
// spec.md §4.8 names it: dense vocal phrasing (>0.6) favors a sustained
// WholeNote bass so the two lines don't fight for rhythmic space; sparse
// vocal phrasing (<0.3) leaves room for Walking/Driving; anything between
// keeps the ordinary pattern pool.
func vocalDensityBucket(vocalTrack *song.Track, sec arrangement.Section) float64 {
	if vocalTrack == nil || sec.Bars == 0 {
		return 0.5
	}
	end := sec.EndTick()
	count := 0
	for _, n := range vocalTrack.Notes {
		if n.StartTick >= sec.StartTick && n.StartTick < end {
			count++
		}
	}
	maxPerBar := 8.0 // a busy UltraVocaloid bar can exceed this; clamp below
	density := float64(count) / (maxPerBar * float64(sec.Bars))
	if density > 1 {
		density = 1
	}
	return density
}

func allowedBassPatternsVocalAware(sec arrangement.Section, vocalTrack *song.Track, drumsEnabled bool) ([]BassPattern, []float64) {
	density := vocalDensityBucket(vocalTrack, sec)
	switch {
	case density > 0.6:
		return []BassPattern{BassWholeNote, BassRootFifth}, []float64{0.7, 0.3}
	case density < 0.3:
		return []BassPattern{BassWalking, BassDriving}, []float64{0.5, 0.5}
	default:
		return allowedBassPatterns(sec, drumsEnabled)
	}
}

// pickBassMotion chooses a motion type weighted-random, per §4.8 ("chosen
// weighted-random from vocal direction") — contrary and oblique are given
// more weight since they're the safer choices against a moving vocal.
func pickBassMotion(f *NoteFactory) BassMotion {
	return BassMotion(f.WeightedPick([]float64{0.35, 0.2, 0.2, 0.25}))
}

// adjustRootForMotion nudges root by 1 or 2 semitones to realize motion
// against vocalDir (+1 up, -1 down, 0 none), per §4.8: rejects the
// adjustment (keeping the original root) if it would land on a
// non-diatonic pitch class or create a minor 2nd with the vocal pitch
// class active at tick.
func adjustRootForMotion(f *NoteFactory, root int, motion BassMotion, vocalDir int, vocalPC int, hasVocal bool) int {
	if vocalDir == 0 || motion == MotionOblique {
		return root
	}
	var dir int
	switch motion {
	case MotionContrary:
		dir = -vocalDir
	case MotionSimilar, MotionParallel:
		dir = vocalDir
	}
	if dir == 0 {
		return root
	}
	step := []int{1, 2}[f.RandRange(0, 1)]
	candidate := root + dir*step
	candidatePC := ((candidate % 12) + 12) % 12
	if !theory.IsCMajorScaleTone(candidatePC) {
		return root
	}
	if hasVocal && intervalClassLocal(candidatePC, vocalPC) == 1 {
		return root
	}
	return candidate
}

// avoidVocalOctaveDoubling pushes root down an octave when its pitch
// class matches the vocal's active pitch class within 2 octaves, per
// §4.8's "Octave doubling with vocal pitch class within 2 octaves is
// pushed down an octave."
func avoidVocalOctaveDoubling(root int, vocalPitch int, hasVocal bool, low int) int {
	if !hasVocal {
		return root
	}
	if root%12 != ((vocalPitch % 12) + 12) % 12 {
		return root
	}
	diff := vocalPitch - root
	if diff < 0 {
		diff = -diff
	}
	if diff > 24 {
		return root
	}
	lowered := root - 12
	if lowered < low {
		return root
	}
	return lowered
}

// vocalNoteAt returns the vocal note sounding at tick, if any.
func vocalNoteAt(vocalTrack *song.Track, tick uint32) (song.NoteEvent, bool) {
	if vocalTrack == nil {
		return song.NoteEvent{}, false
	}
	for _, n := range vocalTrack.Notes {
		if tick >= n.StartTick && tick < n.EndTick() {
			return n, true
		}
	}
	return song.NoteEvent{}, false
}

// GenerateBassVocalAware implements spec.md §4.8's Vocal-first variant for
// the SynthDriven composition style, where GenerateVocal has already run
// and registered its track: pattern selection shifts to vocal-density
// buckets, and every bar's root is nudged toward a weighted-random motion
// type (Contrary/Similar/Parallel/Oblique) against the vocal's direction
// into that bar, subject to the diatonic/minor-2nd rejection rule and
// octave-doubling avoidance.
func GenerateBassVocalAware(s *song.Song, f *NoteFactory, arr *arrangement.Arrangement, low, high int, drumsEnabled bool) {
	track := s.Track(song.RoleBass)
	vocalTrack := s.Tracks[song.RoleVocal]

	for _, sec := range arr.Sections {
		if !sec.TrackMask.Has(arrangement.MaskBass) {
			continue
		}
		patterns, weights := allowedBassPatternsVocalAware(sec, vocalTrack, drumsEnabled)
		pattern := patterns[f.WeightedPick(weights)]
		fillBassSection(f, track, sec, pattern, low, high, func(barStart uint32, root int) int {
			vocalDir := vocalDirectionAt(vocalTrack, barStart)
			motion := pickBassMotion(f)
			vn, hasVocal := vocalNoteAt(vocalTrack, barStart)
			vocalPC := 0
			if hasVocal {
				vocalPC = ((int(vn.Pitch) % 12) + 12) % 12
			}
			root = adjustRootForMotion(f, root, motion, vocalDir, vocalPC, hasVocal)
			if hasVocal {
				root = avoidVocalOctaveDoubling(root, int(vn.Pitch), true, low)
			}
			return root
		})
	}
}

// rootAdjuster lets the vocal-aware variant nudge each bar's resolved root
// before the fixed rhythmic skeleton is laid down, without duplicating
// that skeleton.
type rootAdjuster func(barStart uint32, root int) int

// fillBassSection lays down pattern's fixed rhythmic skeleton for every
// bar of sec, optionally passing each bar's resolved root through adjust
// first (nil for the plain, non-vocal-aware path).
func fillBassSection(f *NoteFactory, track *song.Track, sec arrangement.Section, pattern BassPattern, low, high int, adjust rootAdjuster) {
	for bar := 0; bar < sec.Bars; bar++ {
		barStart := sec.StartTick + uint32(bar)*arrangement.TicksPerBar
		barEnd := barStart + arrangement.TicksPerBar
		degree := f.Harmony.GetChordDegreeAt(barStart)
		root := theory.DegreeRoot(degree) + 36 // default bass octave
		for root < low {
			root += 12
		}
		for root > high {
			root -= 12
		}
		if adjust != nil {
			root = adjust(barStart, root)
		}

		nextDegree := f.Harmony.GetChordDegreeAt(barEnd)
		nextRoot := theory.DegreeRoot(nextDegree) + 36
		nextTones := theory.TriadPitchClasses(nextDegree, theory.ExtNone)

		switch pattern {
		case BassWholeNote:
			placeBassNote(f, track, barStart, arrangement.TicksPerBar, root, 90)
		case BassRootFifth:
			half := arrangement.TicksPerBar / 2
			fifth := root + 7
			if fifth > high {
				fifth -= 12
			}
			placeBassNote(f, track, barStart, uint32(half), root, 92)
			placeBassNote(f, track, barStart+uint32(half), uint32(half), fifth, 88)
		case BassSyncopated:
			placeBassNote(f, track, barStart, 360, root, 95)
			placeBassNote(f, track, barStart+360, 120, root+7, 80)
			placeBassNote(f, track, barStart+480, 960, root, 90)
			placeBassNote(f, track, barStart+1440, 480, approachNote(nextRoot, low, nextTones), 85)
		case BassDriving:
			for q := 0; q < 4; q++ {
				vel := uint8(96)
				if q%2 == 1 {
					vel = 84
				}
				placeBassNote(f, track, barStart+uint32(q*480), 460, root, vel)
			}
		case BassRhythmicDrive:
			for e := 0; e < 8; e++ {
				vel := uint8(90)
				if e%2 == 1 {
					vel = 70
				}
				placeBassNote(f, track, barStart+uint32(e*240), 220, root, vel)
			}
		case BassWalking:
			scale := scaleIntervalsFor(degree)
			deg2 := root + scale[1]
			deg3 := root + scale[2]
			approach := approachNote(nextRoot, low, nextTones)
			placeBassNote(f, track, barStart, 480, root, 92)
			placeBassNote(f, track, barStart+480, 480, deg2, 86)
			placeBassNote(f, track, barStart+960, 480, deg3, 86)
			placeBassNote(f, track, barStart+1440, 480, approach, 88)
		}
	}
}

// placeBassNote clamps to MIDI range and submits through the pitch
// safety builder with ChordTone fallback, honoring the bass-to-chord
// tritone rule via PitchSelector.isSafe.
func placeBassNote(f *NoteFactory, track *song.Track, start, dur uint32, pitch int, vel uint8) {
	for pitch < 0 {
		pitch += 12
	}
	for pitch > 127 {
		pitch -= 12
	}
	f.Select(song.RoleBass, song.SourceBassPattern).
		At(start, dur).WithPitch(uint8(pitch)).WithVelocity(vel).
		FallbackToChordTone(24, 60).
		AddTo(track)
}
