package generate

import (
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// PhraseNote is one note of a phrase expressed in relative time (from
// phrase start) and relative pitch (semitone offset from tessitura
// center), so a cached phrase can be replayed at a new section start and
// pitch range.
type PhraseNote struct {
	RelTick   uint32
	Duration  uint32
	RelPitch  int
	Velocity  uint8
}

// Phrase is a cached melodic idea: relative-time notes plus the cadence
// its last note resolved to.
type Phrase struct {
	Notes   []PhraseNote
	Cadence song.CadenceType
}

// phraseCacheKey is (section_type, bars, chord_degree), per §4.9.
type phraseCacheKey struct {
	sectionType int
	bars        int
	degree      theory.Degree
}

// PhraseCache stores generated phrases for reuse across repeated
// sections.
type PhraseCache struct {
	entries map[phraseCacheKey]Phrase
}

func NewPhraseCache() *PhraseCache {
	return &PhraseCache{entries: map[phraseCacheKey]Phrase{}}
}

func (c *PhraseCache) lookup(sectionType, bars int, degree theory.Degree) (Phrase, bool) {
	p, ok := c.entries[phraseCacheKey{sectionType, bars, degree}]
	return p, ok
}

func (c *PhraseCache) store(sectionType, bars int, degree theory.Degree, p Phrase) {
	c.entries[phraseCacheKey{sectionType, bars, degree}] = p
}

// PhraseVariation names one of the seven safe variation kinds applied to
// a repeated phrase.
type PhraseVariation int

const (
	VariationExact PhraseVariation = iota
	VariationLastNoteShift
	VariationLastNoteLong
	VariationBreathRestInsert
	VariationDynamicAccent
	VariationLateOnset
	VariationEchoRepeat
)

// exactRepeatProbability decreases with chorus occurrence count, per
// §4.9: 1st repeat 80%, 2nd 60%, 3rd+ 30%.
func exactRepeatProbability(occurrence int) float64 {
	switch {
	case occurrence <= 1:
		return 0.8
	case occurrence == 2:
		return 0.6
	default:
		return 0.3
	}
}

// pickVariation selects a variation for a repeated phrase occurrence; the
// first occurrence of any phrase is never varied (handled by the caller,
// which only invokes this on cache hits).
func pickVariation(f *NoteFactory, occurrence int) PhraseVariation {
	if f.RollProbability(exactRepeatProbability(occurrence)) {
		return VariationExact
	}
	weights := []float64{0, 0.2, 0.15, 0.15, 0.2, 0.15, 0.15}
	return PhraseVariation(1 + f.WeightedPick(weights[1:]))
}

// applyVariation transforms a phrase's notes per the chosen variation
// kind. Operates on a copy; the cached original is never mutated.
func applyVariation(f *NoteFactory, p Phrase, v PhraseVariation) Phrase {
	notes := append([]PhraseNote(nil), p.Notes...)
	if len(notes) == 0 {
		return p
	}
	last := len(notes) - 1

	switch v {
	case VariationLastNoteShift:
		notes[last].RelPitch += []int{-2, -1, 1, 2}[f.RandRange(0, 3)]
	case VariationLastNoteLong:
		notes[last].Duration = notes[last].Duration * 2
	case VariationBreathRestInsert:
		if last > 0 {
			notes[last-1].Duration = notes[last-1].Duration * 3 / 4
		}
	case VariationDynamicAccent:
		for i := range notes {
			if i%2 == 0 {
				notes[i].Velocity = clampVelocity(int(notes[i].Velocity) + 10)
			}
		}
	case VariationLateOnset:
		shift := uint32(eighthTick / 2)
		for i := range notes {
			notes[i].RelTick += shift
		}
	case VariationEchoRepeat:
		echo := notes[last]
		echo.RelTick += echo.Duration / 2
		echo.Velocity = clampVelocity(int(echo.Velocity) - 20)
		notes = append(notes, echo)
	}
	return Phrase{Notes: notes, Cadence: p.Cadence}
}

func clampVelocity(v int) uint8 {
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

// classifyCadence implements §4.9's cadence classification for a
// phrase's final pitch class under the active degree.
func classifyCadence(finalPC int, degree theory.Degree, onStrongBeat bool, duration uint32) song.CadenceType {
	tonicPCs := map[int]bool{0: true}
	if degree == theory.DegreeI && tonicPCs[finalPC] && onStrongBeat && duration >= 480 {
		return song.CadenceStrong
	}
	if degree == theory.DegreeVI && theory.IsChordTone(theory.DegreeVI, finalPC) {
		return song.CadenceDeceptive
	}
	floatingPCs := map[int]bool{2: true, 5: true, 11: true}
	if floatingPCs[finalPC] {
		return song.CadenceFloating
	}
	return song.CadenceWeak
}
