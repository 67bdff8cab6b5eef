package generate

import (
	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// VocalAttitude names the candidate-pitch-class pool a pitch choice draws
// from, per §4.9's pitch-selection rules.
type VocalAttitude int

const (
	AttitudeClean VocalAttitude = iota
	AttitudeExpressive
	AttitudeRaw
)

// MaxMelodicInterval is the default enforced max interval (a major 6th)
// between successive vocal notes, unless singability is disabled.
const MaxMelodicInterval = 9

// candidatePitchClasses returns the pool of pitch classes a vocal note
// may be chosen from, per the active attitude. Short notes force Clean
// for stability regardless of the configured attitude.
func candidatePitchClasses(degree theory.Degree, attitude VocalAttitude, duration uint32) []int {
	if duration < eighthTick {
		attitude = AttitudeClean
	}
	switch attitude {
	case AttitudeExpressive:
		pcs := theory.TriadPitchClasses(degree, theory.ExtNone)
		pcs = append(pcs, theory.AvailableTensions(degree)...)
		return pcs
	case AttitudeRaw:
		out := make([]int, len(theory.CMajorScale))
		copy(out, theory.CMajorScale)
		return out
	default:
		return theory.TriadPitchClasses(degree, theory.ExtNone)
	}
}

// VocalStyle names the coarse per-song vocal rendering style spec.md
// §4.9 step 1 uses, together with section type, to resolve a melody
// template.
type VocalStyle int

const (
	VocalStyleStandard VocalStyle = iota
	VocalStyleUltraVocaloid
)

func (v VocalStyle) String() string {
	switch v {
	case VocalStyleUltraVocaloid:
		return "UltraVocaloid"
	default:
		return "Standard"
	}
}

// MelodyTemplate is the small per-(vocal_style, section_type) rhythm-
// generator parameter set spec.md §4.9 calls a "melody template":
// ThirtysecondRatio >= 0.8 is UltraVocaloid's "machine-gun" mode
// (relaxes the strong-beat long-note rule and the consecutive-short-note
// cap up to MaxConsecutiveShort).
type MelodyTemplate struct {
	ThirtysecondRatio   float64
	MaxConsecutiveShort int
	RhythmDriven        bool
}

// pickMelodyTemplate resolves §4.9 step 1's "(vocal_style, section_type)"
// template lookup. Every section type currently maps to the same
// per-style template; a future section-specific override (busier
// templates for Chorus/B, for instance) would branch on t here.
func pickMelodyTemplate(style VocalStyle, t arrangement.SectionType) MelodyTemplate {
	if style == VocalStyleUltraVocaloid {
		return MelodyTemplate{ThirtysecondRatio: 1.0, MaxConsecutiveShort: 32, RhythmDriven: true}
	}
	return MelodyTemplate{ThirtysecondRatio: 0, MaxConsecutiveShort: 3}
}

// candidateCountForSection sizes the N-candidate generation pool in
// generateSectionWithEvaluation: hook-bearing sections get more
// candidates to choose the strongest melody from, per spec.md §4.9 step
// 5's "candidate_count varies by section importance".
func candidateCountForSection(t arrangement.SectionType) int {
	switch t {
	case arrangement.SectionChorus, arrangement.SectionB:
		return 5
	default:
		return 3
	}
}

// vocalRhythmSlot is one note-sized beat slot within a phrase.
type vocalRhythmSlot struct {
	startBeat float64
	duration  uint32 // in ticks
	strong    bool
}

// generatePhraseRhythm lays out the rhythm for a phrase of phraseBeats
// beats: once a beat or less remains it closes the phrase with a quarter
// note wherever that position falls (the closing note is not moved onto
// a strong beat), forces >= quarter notes on strong beats (unless tmpl is rhythm-
// driven or in UltraVocaloid machine-gun mode), and fills weak beats with
// a density roll, capping consecutive short notes at tmpl's limit.
func generatePhraseRhythm(f *NoteFactory, phraseBeats int, tmpl MelodyTemplate) []vocalRhythmSlot {
	var slots []vocalRhythmSlot
	consecutiveShort := 0
	beat := 0.0
	machineGun := tmpl.ThirtysecondRatio >= 0.8

	for beat < float64(phraseBeats) {
		strong := isStrongBeat(beat)
		remaining := float64(phraseBeats) - beat

		var dur uint32
		switch {
		case remaining <= 1.0:
			// phrase-ending long note
			dur = arrangement.TicksPerBeat
		case strong && !tmpl.RhythmDriven && !machineGun:
			dur = arrangement.TicksPerBeat // force >= quarter on strong beats
		default:
			dur = weakBeatDuration(f, consecutiveShort, tmpl)
		}

		if dur < arrangement.TicksPerBeat {
			consecutiveShort++
		} else {
			consecutiveShort = 0
		}

		slots = append(slots, vocalRhythmSlot{startBeat: beat, duration: dur, strong: strong})
		beat += float64(dur) / float64(arrangement.TicksPerBeat)
	}
	return slots
}

func isStrongBeat(beat float64) bool {
	// beats 0 and 2 (0-indexed) of a 4/4 bar are strong
	if beat != float64(int(beat)) {
		return false
	}
	bp := int(beat) % 4
	return bp == 0 || bp == 2
}

func weakBeatDuration(f *NoteFactory, consecutiveShort int, tmpl MelodyTemplate) uint32 {
	maxShort := tmpl.MaxConsecutiveShort
	if maxShort == 0 {
		maxShort = 3
	}
	if consecutiveShort >= maxShort {
		return arrangement.TicksPerBeat // break up a run of short notes
	}
	roll := f.Rng.Float64()
	thirtysecondChance := 0.15 + tmpl.ThirtysecondRatio*0.5
	switch {
	case roll < thirtysecondChance:
		return arrangement.TicksPerBeat / 8 // 32nd
	case roll < 0.45:
		return arrangement.TicksPerBeat / 4 // 16th
	case roll < 0.8:
		return arrangement.TicksPerBeat // quarter
	default:
		return arrangement.TicksPerBeat * 2 // half
	}
}

// choosePitch implements §4.9's per-slot pitch choice: build the
// candidate pool, prefer a whole-step scale neighbor for step motion,
// fall back to the nearest chord tone within range, and enforce the max
// melodic interval unless disabled.
func choosePitch(f *NoteFactory, prevPitch int, degree theory.Degree, attitude VocalAttitude, duration uint32, low, high int, disableSingability bool) int {
	pool := candidatePitchClasses(degree, attitude, duration)

	kind := f.WeightedPick([]float64{0.3, 0.25, 0.25, 0.2}) // Same/StepUp/StepDown/TargetStep
	var target int
	switch kind {
	case 0:
		target = prevPitch
	case 1:
		target = prevPitch + 2
	case 2:
		target = prevPitch - 2
	default:
		target = prevPitch + []int{-4, -2, 2, 4}[f.RandRange(0, 3)]
	}

	best := nearestPitchInPool(target, pool, low, high)

	if !disableSingability {
		diff := best - prevPitch
		if diff > MaxMelodicInterval {
			best = nearestPitchInPool(prevPitch+MaxMelodicInterval, pool, low, high)
		} else if diff < -MaxMelodicInterval {
			best = nearestPitchInPool(prevPitch-MaxMelodicInterval, pool, low, high)
		}
	}
	return best
}

// nearestPitchInPool finds the pitch in [low, high] whose pitch class is
// in pool and is closest to target.
func nearestPitchInPool(target int, pool []int, low, high int) int {
	best := target
	bestDist := 1 << 30
	found := false
	for _, pc := range pool {
		for oct := 0; oct < 11; oct++ {
			candidate := pc + oct*12
			if candidate < low || candidate > high {
				continue
			}
			dist := candidate - target
			if dist < 0 {
				dist = -dist
			}
			if dist < bestDist {
				bestDist = dist
				best = candidate
				found = true
			}
		}
	}
	if !found {
		return target
	}
	return best
}

// Tessitura is the effective singing range for a section: centered, with
// 20% (or >= 3 semitones) headroom top and bottom.
type Tessitura struct {
	Low, High, Center int
}

func computeTessitura(low, high int) Tessitura {
	span := high - low
	headroom := span / 5
	if headroom < 3 {
		headroom = 3
	}
	return Tessitura{Low: low + headroom, High: high - headroom, Center: (low + high) / 2}
}

// GlobalMotif is the interval sequence (successive relative-pitch deltas)
// of the song's first Chorus phrase, extracted once so later sections'
// candidate phrases can score higher for imitating its contour, per
// spec.md §4.9 step 7.
type GlobalMotif struct {
	Intervals []int
}

// Valid reports whether a motif was actually extracted (a phrase needs
// at least two notes to have an interval).
func (m GlobalMotif) Valid() bool { return len(m.Intervals) > 0 }

// extractGlobalMotif reads off p's relative-pitch interval sequence.
func extractGlobalMotif(p Phrase) GlobalMotif {
	if len(p.Notes) < 2 {
		return GlobalMotif{}
	}
	intervals := make([]int, 0, len(p.Notes)-1)
	for i := 1; i < len(p.Notes); i++ {
		intervals = append(intervals, p.Notes[i].RelPitch-p.Notes[i-1].RelPitch)
	}
	return GlobalMotif{Intervals: intervals}
}

func intervalSign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// contourSimilarity scores how closely p's interval sequence tracks
// motif's: an exact interval match scores a full point, a same-direction
// step scores a half point, normalized to [0,1] over the overlapping
// length.
func contourSimilarity(p Phrase, motif GlobalMotif) float64 {
	if !motif.Valid() || len(p.Notes) < 2 {
		return 0
	}
	n := len(p.Notes) - 1
	if n > len(motif.Intervals) {
		n = len(motif.Intervals)
	}
	if n == 0 {
		return 0
	}
	var score float64
	for i := 0; i < n; i++ {
		a := p.Notes[i+1].RelPitch - p.Notes[i].RelPitch
		b := motif.Intervals[i]
		switch {
		case a == b:
			score++
		case intervalSign(a) == intervalSign(b) && intervalSign(a) != 0:
			score += 0.5
		}
	}
	return score / float64(n)
}

// VocalGenState carries the phrase cache and cross-section state (last
// pitch, chorus-occurrence counts, the cached Global Motif) through the
// whole vocal generation pass.
type VocalGenState struct {
	cache       *PhraseCache
	lastPitch   int
	occurrences map[phraseCacheKey]int
	motif       GlobalMotif
}

func NewVocalGenState() *VocalGenState {
	return &VocalGenState{cache: NewPhraseCache(), occurrences: map[phraseCacheKey]int{}}
}

// GenerateVocal fills in the vocal track for every section that has the
// vocal mask bit set, using VocalStyleStandard's melody templates.
func GenerateVocal(s *song.Song, f *NoteFactory, arr *arrangement.Arrangement, low, high int, disableSingability bool) {
	GenerateVocalStyled(s, f, arr, low, high, disableSingability, VocalStyleStandard)
}

// GenerateVocalStyled is GenerateVocal with an explicit VocalStyle: it
// resolves a melody template per §4.9 step 1, generates N scored
// candidates per section (step 5), applies the transition-approach
// look-ahead to the next section (step 6), and extracts the song's
// Global Motif from the first Chorus phrase (step 7) so subsequent
// sections' candidates can score higher for imitating its contour.
// Repeated sections still hit the phrase cache exactly as before and
// skip template/candidate generation entirely.
func GenerateVocalStyled(s *song.Song, f *NoteFactory, arr *arrangement.Arrangement, low, high int, disableSingability bool, style VocalStyle) {
	track := s.Track(song.RoleVocal)
	state := NewVocalGenState()
	state.lastPitch = (low + high) / 2

	for secIdx, sec := range arr.Sections {
		if !sec.TrackMask.Has(arrangement.MaskVocal) {
			continue
		}
		tess := computeTessitura(low, high)
		degree := f.Harmony.GetChordDegreeAt(sec.StartTick)
		key := phraseCacheKey{sectionType: int(sec.Type), bars: sec.Bars, degree: degree}

		var phrase Phrase
		if cached, ok := state.cache.lookup(int(sec.Type), sec.Bars, degree); ok {
			state.occurrences[key]++
			phrase = applyVariation(f, cached, pickVariation(f, state.occurrences[key]))
		} else {
			tmpl := pickMelodyTemplate(style, sec.Type)
			candidateCount := candidateCountForSection(sec.Type)
			phrase = generateSectionWithEvaluation(f, sec, tess, state.lastPitch, disableSingability, tmpl, candidateCount, state.motif)

			if secIdx+1 < len(arr.Sections) {
				applyTransitionApproach(&phrase, sec.Type, arr.Sections[secIdx+1].Type, tess)
			}

			if sec.Type == arrangement.SectionChorus && !state.motif.Valid() {
				state.motif = extractGlobalMotif(phrase)
			}

			state.cache.store(int(sec.Type), sec.Bars, degree, phrase)
			state.occurrences[key] = 0
		}

		placePhrase(f, track, sec.StartTick, phrase, tess, &state.lastPitch)
		track.Phrase = append(track.Phrase, song.PhraseBoundary{
			Tick: sec.EndTick(), IsSectionEnd: true, Cadence: phrase.Cadence,
		})
	}
}

// generateSectionWithEvaluation implements spec.md §4.9 step 5: generate
// candidateCount candidate phrases from tmpl's rhythm-generator rules,
// score each against the composite rubric in scorePhrase, and keep the
// best (a small RNG jitter breaks exact ties, the same tie-break pattern
// pickBestVoicing uses for chord voicings).
func generateSectionWithEvaluation(f *NoteFactory, sec arrangement.Section, tess Tessitura, startPitch int, disableSingability bool, tmpl MelodyTemplate, candidateCount int, motif GlobalMotif) Phrase {
	best := Phrase{}
	bestScore := -1.0
	for i := 0; i < candidateCount; i++ {
		cand := generatePhraseFromTemplate(f, sec, tess, startPitch, disableSingability, tmpl)
		sc := scorePhrase(f, cand, sec, tess, motif) + f.Rng.Float64()*0.01
		if sc > bestScore {
			bestScore = sc
			best = cand
		}
	}
	return best
}

// scorePhrase implements spec.md §4.9 step 5's composite evaluation:
// chord-tone ratio at downbeats, contour similarity to the cached Global
// Motif, a repetition penalty for runs of identical pitches, how
// centered the phrase sits in tess, and a singability score for melodic
// leaps beyond MaxMelodicInterval.
func scorePhrase(f *NoteFactory, p Phrase, sec arrangement.Section, tess Tessitura, motif GlobalMotif) float64 {
	chordToneRatio := downbeatChordToneRatio(f, p, sec, tess)
	contour := contourSimilarity(p, motif)
	repetition := repetitionPenalty(p)
	register := registerFit(p, tess)
	singability := singabilityScore(p)

	return 40*chordToneRatio + 20*contour - 15*repetition + 15*register + 10*singability
}

// downbeatChordToneRatio checks only notes landing on a bar's first beat
// (the true downbeats), since off-downbeat notes are expected to pass
// through non-chord tones freely.
func downbeatChordToneRatio(f *NoteFactory, p Phrase, sec arrangement.Section, tess Tessitura) float64 {
	var onChord, total int
	for _, n := range p.Notes {
		if n.RelTick%arrangement.TicksPerBar != 0 {
			continue
		}
		total++
		degree := f.Harmony.GetChordDegreeAt(sec.StartTick + n.RelTick)
		pc := ((tess.Center+n.RelPitch)%12 + 12) % 12
		if theory.IsChordTone(degree, pc) {
			onChord++
		}
	}
	if total == 0 {
		return 0.5
	}
	return float64(onChord) / float64(total)
}

func repetitionPenalty(p Phrase) float64 {
	if len(p.Notes) < 2 {
		return 0
	}
	repeats := 0
	for i := 1; i < len(p.Notes); i++ {
		if p.Notes[i].RelPitch == p.Notes[i-1].RelPitch {
			repeats++
		}
	}
	return float64(repeats) / float64(len(p.Notes)-1)
}

// registerFit scores 1.0 for a phrase whose average pitch sits exactly
// at tess's center, decaying to 0 at the tessitura's edges.
func registerFit(p Phrase, tess Tessitura) float64 {
	if len(p.Notes) == 0 {
		return 0
	}
	var sum int
	for _, n := range p.Notes {
		sum += n.RelPitch
	}
	avg := float64(sum) / float64(len(p.Notes))
	if avg < 0 {
		avg = -avg
	}
	span := float64(tess.High-tess.Low) / 2
	if span <= 0 {
		return 1
	}
	fit := 1 - avg/span
	if fit < 0 {
		fit = 0
	}
	return fit
}

func singabilityScore(p Phrase) float64 {
	if len(p.Notes) < 2 {
		return 1
	}
	ok := 0
	for i := 1; i < len(p.Notes); i++ {
		diff := p.Notes[i].RelPitch - p.Notes[i-1].RelPitch
		if diff < 0 {
			diff = -diff
		}
		if diff <= MaxMelodicInterval {
			ok++
		}
	}
	return float64(ok) / float64(len(p.Notes)-1)
}

// applyTransitionApproach implements spec.md §4.9 step 6's look-ahead:
// a phrase ending right before a Chorus gets its final note nudged up a
// step for lift; one ending right before an Outro/Interlude gets nudged
// down to settle. Any other transition is left alone.
func applyTransitionApproach(p *Phrase, from, to arrangement.SectionType, tess Tessitura) {
	if len(p.Notes) == 0 {
		return
	}
	last := len(p.Notes) - 1
	switch to {
	case arrangement.SectionChorus:
		if from != arrangement.SectionChorus {
			p.Notes[last].RelPitch = clampRelPitch(p.Notes[last].RelPitch+2, tess)
		}
	case arrangement.SectionOutro, arrangement.SectionInterlude:
		p.Notes[last].RelPitch = clampRelPitch(p.Notes[last].RelPitch-2, tess)
	}
}

func clampRelPitch(relPitch int, tess Tessitura) int {
	if tess.Center+relPitch < tess.Low {
		return tess.Low - tess.Center
	}
	if tess.Center+relPitch > tess.High {
		return tess.High - tess.Center
	}
	return relPitch
}

// generatePhraseFromTemplate generates one phrase's worth of rhythm+
// pitch decisions for sec under tmpl, running the whole phrase in
// relative time (from startPitch, never mutating caller state) so
// generateSectionWithEvaluation can generate several independent
// candidates and the caller commits the winner's final pitch itself.
func generatePhraseFromTemplate(f *NoteFactory, sec arrangement.Section, tess Tessitura, startPitch int, disableSingability bool, tmpl MelodyTemplate) Phrase {
	attitude := attitudeForDensity(sec.VocalDensity)
	phraseBeats := sec.Bars * arrangement.BeatsPerBar
	slots := generatePhraseRhythm(f, phraseBeats, tmpl)

	var notes []PhraseNote
	prev := startPitch
	var lastDegree theory.Degree
	var lastSlot vocalRhythmSlot
	for _, slot := range slots {
		tick := uint32(slot.startBeat * float64(arrangement.TicksPerBeat))
		degree := sectionDegreeAtRelTick(f, sec, tick)
		lastDegree = degree
		pitch := choosePitch(f, prev, degree, attitude, slot.duration, tess.Low, tess.High, disableSingability)
		vel := uint8(95)
		if !slot.strong {
			vel = 82
		}
		notes = append(notes, PhraseNote{RelTick: tick, Duration: slot.duration, RelPitch: pitch - tess.Center, Velocity: vel})
		prev = pitch
		lastSlot = slot
	}

	cadence := song.CadenceWeak
	if len(notes) > 0 {
		finalPC := prev % 12
		if finalPC < 0 {
			finalPC += 12
		}
		cadence = classifyCadence(finalPC, lastDegree, lastSlot.strong, notes[len(notes)-1].Duration)
	}
	return Phrase{Notes: notes, Cadence: cadence}
}

func attitudeForDensity(density int) VocalAttitude {
	switch {
	case density > 85:
		return AttitudeRaw
	case density > 55:
		return AttitudeExpressive
	case density < 30:
		return AttitudeClean
	default:
		return AttitudeExpressive
	}
}

// sectionDegreeAtRelTick queries the harmony context for the degree at a
// section-relative tick.
func sectionDegreeAtRelTick(f *NoteFactory, sec arrangement.Section, relTick uint32) theory.Degree {
	return f.Harmony.GetChordDegreeAt(sec.StartTick + relTick)
}

// placePhrase shifts a cached/new phrase to an absolute section start and
// submits every note through the pitch safety builder (collision
// avoidance against bass/chord/aux already registered).
func placePhrase(f *NoteFactory, track *song.Track, sectionStart uint32, phrase Phrase, tess Tessitura, lastPitch *int) {
	for _, n := range phrase.Notes {
		pitch := tess.Center + n.RelPitch
		if pitch < tess.Low {
			pitch = tess.Low
		}
		if pitch > tess.High {
			pitch = tess.High
		}
		start := sectionStart + n.RelTick
		ok := f.Select(song.RoleVocal, song.SourceVocalPhrase).
			At(start, n.Duration).WithPitch(uint8(pitch)).WithVelocity(n.Velocity).
			FallbackToChordTone(uint8(tess.Low), uint8(tess.High)).
			AddTo(track)
		if ok {
			*lastPitch = pitch
		}
	}
}
