// Package arrangement lays out a song's sections before any notes exist:
// where each section starts, how many bars it runs, how dense its backing
// should be, and which tracks are even active. Every other generator reads
// an Arrangement but never mutates it.
package arrangement

import "github.com/ako-music/songforge/theory"

const (
	TicksPerBeat = 480
	BeatsPerBar  = 4
	TicksPerBar  = TicksPerBeat * BeatsPerBar
)

// SectionType names the functional role of a section within the song.
type SectionType int

const (
	SectionIntro SectionType = iota
	SectionA            // verse
	SectionB             // pre-chorus
	SectionChorus
	SectionBridge
	SectionInterlude
	SectionOutro
	SectionChant
	SectionMixBreak
	SectionDrop
)

func (s SectionType) String() string {
	switch s {
	case SectionIntro:
		return "Intro"
	case SectionA:
		return "A"
	case SectionB:
		return "B"
	case SectionChorus:
		return "Chorus"
	case SectionBridge:
		return "Bridge"
	case SectionInterlude:
		return "Interlude"
	case SectionOutro:
		return "Outro"
	case SectionChant:
		return "Chant"
	case SectionMixBreak:
		return "MixBreak"
	case SectionDrop:
		return "Drop"
	default:
		return "Unknown"
	}
}

// TrackMask is a bitmask of which track roles are active in a section.
type TrackMask uint16

const (
	MaskVocal TrackMask = 1 << iota
	MaskChord
	MaskBass
	MaskMotif
	MaskArpeggio
	MaskAux
	MaskDrums
)

func (m TrackMask) Has(bit TrackMask) bool { return m&bit != 0 }

// Section is one contiguous stretch of the song.
type Section struct {
	Type            SectionType
	StartTick       uint32
	Bars            int
	DensityPercent  int // overall busyness 0-100, drives velocity/humanize scale
	BackingDensity  int // chord/bass rhythmic density 0-100
	VocalDensity    int // vocal note density 0-100
	TrackMask       TrackMask
	PeakLevel       int // 0-100, used for transition-dynamics interpolation
	SectionModifier string
}

// EndTick is the exclusive tick this section ends at.
func (s Section) EndTick() uint32 {
	return s.StartTick + uint32(s.Bars)*TicksPerBar
}

// Arrangement is the ordered, gapless, non-overlapping sequence of
// sections making up a song, plus the chord progression and mood it was
// built for.
type Arrangement struct {
	Sections    []Section
	Progression theory.Progression
	Mood        Mood
}

// TotalTicks is the tick length of the whole arrangement.
func (a *Arrangement) TotalTicks() uint32 {
	if len(a.Sections) == 0 {
		return 0
	}
	last := a.Sections[len(a.Sections)-1]
	return last.EndTick()
}

// SectionAt returns the section (and its index) containing tick, or the
// last section if tick runs past the end (generators sometimes probe one
// tick beyond the final note).
func (a *Arrangement) SectionAt(tick uint32) (Section, int) {
	for i, s := range a.Sections {
		if tick >= s.StartTick && tick < s.EndTick() {
			return s, i
		}
	}
	if len(a.Sections) > 0 {
		last := len(a.Sections) - 1
		return a.Sections[last], last
	}
	return Section{}, -1
}

// validate checks the gapless, non-overlapping, monotonic invariant. Used
// by tests.
func (a *Arrangement) validate() bool {
	var tick uint32
	for _, s := range a.Sections {
		if s.StartTick != tick || s.Bars <= 0 {
			return false
		}
		tick = s.EndTick()
	}
	return true
}
