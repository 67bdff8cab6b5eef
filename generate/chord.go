package generate

import (
	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// ArrangementGrowth names the one global intensity-growth treatment
// GenerateChord can apply across a song's Chorus sections, per spec.md
// §4.6's "register-add growth" paragraph.
type ArrangementGrowth int

const (
	GrowthFlat ArrangementGrowth = iota
	GrowthRegisterAdd
)

func (g ArrangementGrowth) String() string {
	if g == GrowthRegisterAdd {
		return "RegisterAdd"
	}
	return "Flat"
}

// ChordRhythmPattern names how often a chord voicing re-attacks within a
// bar.
type ChordRhythmPattern int

const (
	RhythmWhole ChordRhythmPattern = iota
	RhythmHalf
	RhythmQuarter
	RhythmEighth
)

// chordDensityWeights gives the per-pattern weight for a section's
// backing density bucket (Thin/Normal/Thick), sparser patterns favored
// when thin, busier when thick.
func chordDensityWeights(backingDensity int) [4]float64 {
	switch {
	case backingDensity < 40: // Thin
		return [4]float64{0.45, 0.35, 0.15, 0.05}
	case backingDensity > 75: // Thick
		return [4]float64{0.05, 0.20, 0.40, 0.35}
	default:
		return [4]float64{0.15, 0.35, 0.35, 0.15}
	}
}

func pickRhythmPattern(f *NoteFactory, backingDensity int) ChordRhythmPattern {
	weights := chordDensityWeights(backingDensity)
	idx := f.WeightedPick(weights[:])
	return ChordRhythmPattern(idx)
}

// attacksPerBar returns the tick offsets (within a bar) a pattern attacks
// on.
func attacksPerBar(p ChordRhythmPattern) []uint32 {
	switch p {
	case RhythmHalf:
		return []uint32{0, arrangement.TicksPerBar / 2}
	case RhythmQuarter:
		return []uint32{0, 480, 960, 1440}
	case RhythmEighth:
		return []uint32{0, 240, 480, 720, 960, 1200, 1440, 1680}
	default:
		return []uint32{0}
	}
}

// chordGenState tracks the running decisions a chord-bar treatment needs
// to know from the previous bar: its voicing, whether it was sus, and how
// many times in a row the same voicing has repeated.
type chordGenState struct {
	prevVoicing   VoicedChord
	prevWasSus    bool
	repeatedCount int
}

// pickExtension resolves the extension for a bar per §4.6's rules: sus
// favored on the first/penultimate bar of major chords (never two bars in
// a row), a dominant 7th on V 70% of the time, 7ths favored in
// B/Chorus, 9ths favored in Chorus.
func pickExtension(f *NoteFactory, d theory.Degree, t arrangement.SectionType, bar, sectionBars int, prevWasSus bool) theory.Extension {
	if prevWasSus {
		return extensionForDegree(f, d, t)
	}
	isEdgeBar := bar == 0 || bar == sectionBars-2
	major := theory.DegreeQuality(d) == theory.QualityMajor
	if isEdgeBar && major && f.RollProbability(0.25) {
		if f.RollProbability(0.5) {
			return theory.ExtSus4
		}
		return theory.ExtSus2
	}
	return extensionForDegree(f, d, t)
}

func extensionForDegree(f *NoteFactory, d theory.Degree, t arrangement.SectionType) theory.Extension {
	if d == theory.DegreeV {
		if f.RollProbability(0.7) {
			return theory.ExtDom7
		}
	}
	inHighEnergy := t == arrangement.SectionB || t == arrangement.SectionChorus
	if inHighEnergy && f.RollProbability(0.5) {
		if t == arrangement.SectionChorus && f.RollProbability(0.4) {
			switch theory.DegreeQuality(d) {
			case theory.QualityMinor:
				return theory.ExtMin9
			default:
				return theory.ExtDom9
			}
		}
		switch theory.DegreeQuality(d) {
		case theory.QualityMinor:
			return theory.ExtMin7
		case theory.QualityDiminished:
			return theory.ExtNone
		default:
			return theory.ExtMaj7
		}
	}
	return theory.ExtNone
}

// bassPitchClassMask builds the set of bass pitch classes sounding within
// [start, end). The vocal/motif/aux masks come from pitchClassMaskForRole
// directly; a mask simply comes back empty when that role hasn't been
// registered yet in the active composition style's generator order.
func bassPitchClassMask(ctx interface{ GetPitchClassesFromTrackAt(uint32, song.TrackRole) []int }, start, end uint32) map[int]bool {
	return pitchClassMaskForRole(ctx, song.RoleBass, start, end)
}

func pitchClassMaskForRole(ctx interface{ GetPitchClassesFromTrackAt(uint32, song.TrackRole) []int }, role song.TrackRole, start, end uint32) map[int]bool {
	mask := map[int]bool{}
	for tick := start; tick < end; tick += 240 {
		for _, pc := range ctx.GetPitchClassesFromTrackAt(tick, role) {
			mask[pc] = true
		}
	}
	return mask
}

// forcedBarDegree resolves the "special bar treatment" degree override
// from §4.6 that applies regardless of the harmony timeline's own degree
// at this tick: a section's penultimate/last bar pair is forced to ii/V
// when the progression doesn't divide the section's bar count evenly and
// a following section exists to resolve into. Returns the possibly-
// overridden degree and whether an override applied (the caller then
// re-picks the extension). The split before a Chorus is decided
// separately, by splitsBeforeChorus.
func forcedBarDegree(arr *arrangement.Arrangement, sec arrangement.Section, secIdx, bar int, natural theory.Degree) (theory.Degree, bool) {
	progLen := len(arr.Progression.Degrees)
	hasNextSection := secIdx+1 < len(arr.Sections)
	if progLen > 0 && sec.Bars%progLen != 0 && hasNextSection {
		if bar == sec.Bars-2 {
			return theory.DegreeII, true
		}
		if bar == sec.Bars-1 {
			return theory.DegreeV, true
		}
	}
	return natural, false
}

// splitsBeforeChorus reports whether bar is the last bar of sec, sec is
// followed by a Chorus, the mood isn't a ballad, and the bar's degree
// isn't already V — the condition under which §4.6 forces a first-half/
// second-half-V split independent of the harmonic-rhythm split rule.
func splitsBeforeChorus(arr *arrangement.Arrangement, sec arrangement.Section, secIdx, bar int, degree theory.Degree) bool {
	if bar != sec.Bars-1 {
		return false
	}
	if secIdx+1 >= len(arr.Sections) || arr.Sections[secIdx+1].Type != arrangement.SectionChorus {
		return false
	}
	if arr.Mood == arrangement.MoodBallad {
		return false
	}
	return degree != theory.DegreeV
}

// GenerateChord fills in the chord track for the whole arrangement.
// Bass-aware: it reads the already-generated bass track's pitch classes
// through the harmony context to bias rootless/voicing choice away from
// collisions. It is also vocal/motif-aware wherever the active
// composition style has already generated and registered those tracks
// (the SynthDriven and BackgroundMotif orders in engine.runGenerators),
// filtering candidate voicings against vocal doubling and aux/motif
// minor-2nd clashes exactly as bass clashes are filtered.
func GenerateChord(s *song.Song, f *NoteFactory, arr *arrangement.Arrangement, register int, growth ArrangementGrowth) {
	track := s.Track(song.RoleChord)
	st := &chordGenState{}

	for secIdx, sec := range arr.Sections {
		if !sec.TrackMask.Has(arrangement.MaskChord) {
			continue
		}
		preferredType := preferredVoicingType(sec.Type, f)
		parallelPenalty := parallelPenaltyForMood(arr.Mood)
		registerAdd := growth == GrowthRegisterAdd && sec.Type == arrangement.SectionChorus

		for bar := 0; bar < sec.Bars; bar++ {
			barStart := sec.StartTick + uint32(bar)*arrangement.TicksPerBar
			barEnd := barStart + arrangement.TicksPerBar

			natural := f.Harmony.GetChordDegreeAt(barStart)
			degree, forced := forcedBarDegree(arr, sec, secIdx, bar, natural)
			ext := pickExtension(f, degree, sec.Type, bar, sec.Bars, st.prevWasSus)
			if forced {
				ext = extensionForDegree(f, degree, sec.Type)
			}
			st.prevWasSus = ext == theory.ExtSus2 || ext == theory.ExtSus4

			rhythm, _ := arrangement.HarmonicRhythmFor(sec.Type, arr.Mood)
			split := arrangement.ShouldSplitPhraseEnd(sec.Type, arr.Mood, rhythm, bar, sec.Bars, len(arr.Progression.Degrees))
			forceChorusSplit := splitsBeforeChorus(arr, sec, secIdx, bar, degree)

			pattern := pickRhythmPattern(f, sec.BackingDensity)
			attacks := attacksPerBar(pattern)

			bassMask := bassPitchClassMask(f.Harmony, barStart, barEnd)
			vocalMask := pitchClassMaskForRole(f.Harmony, song.RoleVocal, barStart, barEnd)
			minorSecondMask := pitchClassMaskForRole(f.Harmony, song.RoleMotif, barStart, barEnd)
			for pc := range pitchClassMaskForRole(f.Harmony, song.RoleAux, barStart, barEnd) {
				minorSecondMask[pc] = true
			}

			emitVoicingAt := func(tick uint32, dur uint32, deg theory.Degree, e theory.Extension, vel uint8) {
				voicing := pickBestVoicing(f, deg, e, register, bassMask, vocalMask, minorSecondMask, preferredType, st.prevVoicing, parallelPenalty, st.repeatedCount)
				emitChordNotes(f, track, tick, dur, voicing, vel, deg)
				if registerAdd {
					emitRegisterAddDoubling(f, track, tick, dur, voicing, deg, vel)
				}
				if samePitches(voicing, st.prevVoicing) {
					st.repeatedCount++
				} else {
					st.repeatedCount = 0
				}
				st.prevVoicing = voicing
			}

			if forceChorusSplit {
				half := arrangement.TicksPerBar / 2
				vExt := extensionForDegree(f, theory.DegreeV, sec.Type)
				emitVoicingAt(barStart, uint32(half), degree, ext, 90)
				emitVoicingAt(barStart+uint32(half), uint32(half), theory.DegreeV, vExt, 88)
				continue
			}

			if split {
				half := arrangement.TicksPerBar / 2
				nextDegree := f.Harmony.GetChordDegreeAt(barEnd)
				emitVoicingAt(barStart, uint32(half), degree, ext, 90)
				emitVoicingAt(barStart+uint32(half), uint32(half), nextDegree, theory.ExtNone, 88)
				continue
			}

			for i, offset := range attacks {
				dur := arrangement.TicksPerBar / uint32(len(attacks))
				tick := barStart + offset
				vel := uint8(92)
				if i > 0 {
					vel = 82
				}
				emitVoicingAt(tick, dur, degree, ext, vel)
			}

			// anticipation stab: odd, non-last bars of sections that allow it
			if anticipationAllowed(sec.Type) && bar%2 == 1 && bar != sec.Bars-1 {
				nextTick := barEnd
				nextDegree := f.Harmony.GetChordDegreeAt(nextTick)
				stabVoicing := BuildVoicing(nextDegree, theory.ExtNone, VoicingClose, register, bassMask)
				emitChordNotes(f, track, barEnd-eighthTick, uint32(eighthTick), stabVoicing, 60, nextDegree)
			}
		}
	}
}

// emitRegisterAddDoubling implements §4.6's "Register-add growth": in
// Chorus, double the bar's primary voicing down
// an octave at a slightly softer velocity for intensity buildup. Reuses
// emitChordNotes's clamp/fallback so a doubled pitch below MIDI 0 is
// simply dropped rather than wrapped.
func emitRegisterAddDoubling(f *NoteFactory, track *song.Track, start, dur uint32, voicing VoicedChord, degree theory.Degree, vel uint8) {
	lowered := VoicedChord{Type: voicing.Type, Pitches: make([]int, len(voicing.Pitches))}
	for i, p := range voicing.Pitches {
		lowered.Pitches[i] = p - 12
	}
	emitChordNotes(f, track, start, dur, lowered, uint8(float64(vel)*0.8), degree)
}

func anticipationAllowed(t arrangement.SectionType) bool {
	switch t {
	case arrangement.SectionB, arrangement.SectionChorus, arrangement.SectionMixBreak,
		arrangement.SectionBridge, arrangement.SectionA:
		return true
	default:
		return false
	}
}

func samePitches(a, b VoicedChord) bool {
	if len(a.Pitches) != len(b.Pitches) {
		return false
	}
	for i := range a.Pitches {
		if a.Pitches[i] != b.Pitches[i] {
			return false
		}
	}
	return true
}

// pickBestVoicing tries the preferred type plus Close and OpenDrop2 as fallbacks,
// filters against the bass and vocal masks (dropping a doubled pitch
// class per candidate, per §4.6's bass-aware rule and its vocal-aware
// "avoid doubling" extension) and the combined motif/aux mask (dropping
// a minor-2nd clash against either, per the same paragraph's "avoid
// minor 2nd" rule), then scores each remaining candidate with the
// voice-leading score and keeps the best.
func pickBestVoicing(f *NoteFactory, d theory.Degree, ext theory.Extension, register int, bassMask, vocalMask, minorSecondMask map[int]bool, preferred VoicingType, prev VoicedChord, parallelPenalty, repeated int) VoicedChord {
	candidates := []VoicingType{preferred, VoicingClose, VoicingOpenDrop2}
	isFirst := len(prev.Pitches) == 0

	best := VoicedChord{}
	bestScore := -1 << 30
	seen := map[VoicingType]bool{}
	for _, vt := range candidates {
		if seen[vt] {
			continue
		}
		seen[vt] = true
		cand := BuildVoicing(d, ext, vt, register, bassMask)
		filterBassClash(&cand, bassMask)
		filterBassClash(&cand, vocalMask)
		filterMinorSecondClash(&cand, minorSecondMask)
		sc := scoreVoicing(prev, cand, preferred, isFirst, parallelPenalty)
		if repeated >= 2 {
			sc -= 50 * (repeated - 1)
		}
		sc += f.Rng.Intn(5) // tie-break jitter
		if sc > bestScore {
			bestScore = sc
			best = cand
		}
	}
	return best
}

// filterBassClash drops any chord pitch whose class exactly matches a
// pitch class already sounding in mask (bass, or a vocal-aware variant's
// vocal mask), unless that would leave fewer than two notes (the
// minimum-notes guarantee for functional harmony).
func filterBassClash(v *VoicedChord, mask map[int]bool) {
	if len(mask) == 0 || len(v.Pitches) <= 2 {
		return
	}
	var kept []int
	for _, p := range v.Pitches {
		if !mask[p%12] {
			kept = append(kept, p)
		}
	}
	if len(kept) >= 2 {
		v.Pitches = kept
	}
}

// filterMinorSecondClash drops any chord pitch a minor 2nd away from a
// pitch class in mask (the combined motif+aux mask), per §4.6's "avoid
// minor 2nd" rule — a weaker rejection than filterBassClash's exact-match
// since a minor 2nd against a background line is audible but not the
// outright unison/octave doubling the bass and vocal rules guard against.
func filterMinorSecondClash(v *VoicedChord, mask map[int]bool) {
	if len(mask) == 0 || len(v.Pitches) <= 2 {
		return
	}
	var kept []int
	for _, p := range v.Pitches {
		clash := false
		pc := ((p % 12) + 12) % 12
		for maskPC := range mask {
			if intervalClassLocal(pc, maskPC) == 1 {
				clash = true
				break
			}
		}
		if !clash {
			kept = append(kept, p)
		}
	}
	if len(kept) >= 2 {
		v.Pitches = kept
	}
}

func emitChordNotes(f *NoteFactory, track *song.Track, start, dur uint32, voicing VoicedChord, vel uint8, degree theory.Degree) {
	for _, p := range voicing.Pitches {
		if p < 0 || p > 127 {
			continue
		}
		f.Select(song.RoleChord, song.SourceChordVoicing).
			At(start, dur).WithPitch(uint8(p)).WithVelocity(vel).
			FallbackToOctave(24, 96).
			AddTo(track)
	}
}
