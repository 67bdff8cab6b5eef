// Package song holds the core data model that every generator reads and
// writes: notes, tracks, and the finished song. The Song type is the sole
// owner of all tracks and the arrangement; the harmony package borrows the arrangement and keeps its own, separate
// bookkeeping of registered notes.
package song

import "sort"

// TrackRole tags which instrument a Track represents. Channel and GM
// program assignment at emission time (midiio) is keyed off this.
type TrackRole int

const (
	RoleVocal TrackRole = iota
	RoleChord
	RoleBass
	RoleMotif
	RoleArpeggio
	RoleAux
	RoleGuitar
	RoleDrums
	RoleSE
)

func (r TrackRole) String() string {
	switch r {
	case RoleVocal:
		return "vocal"
	case RoleChord:
		return "chord"
	case RoleBass:
		return "bass"
	case RoleMotif:
		return "motif"
	case RoleArpeggio:
		return "arpeggio"
	case RoleAux:
		return "aux"
	case RoleGuitar:
		return "guitar"
	case RoleDrums:
		return "drums"
	case RoleSE:
		return "se"
	default:
		return "unknown"
	}
}

// NoteSource records which generation phase produced (or last rewrote) a
// note, for provenance and debugging.
type NoteSource int

const (
	SourceUnknown NoteSource = iota
	SourceBassPattern
	SourceChordVoicing
	SourceVocalPhrase
	SourceAuxFunction
	SourceMotif
	SourceArpeggio
	SourceDrumPattern
	SourcePostProcess
)

// Provenance records how a note came to have its final pitch: which phase
// produced it, what pitch was originally desired before any safety
// adjustment, which chord degree was active when it was chosen, and the
// tick that degree lookup used.
type Provenance struct {
	Source        NoteSource
	OriginalPitch uint8
	ChordDegree   int8
	LookupTick    uint32
}

// NoteEvent is a single MIDI-like note. Duration is always >= 1. Once a
// note is appended to a Track only the post-processor changes it: it
// rewrites notes in place, and its cleanup pass can merge same-pitch
// notes into one.
type NoteEvent struct {
	StartTick uint32
	Duration  uint32
	Pitch     uint8
	Velocity  uint8
	Prov      Provenance
}

// EndTick is the exclusive end of the note's span: [StartTick, EndTick).
func (n NoteEvent) EndTick() uint32 {
	return n.StartTick + n.Duration
}

// TextEvent is a meta text event (section names, lyrics) carried on a
// track alongside its notes.
type TextEvent struct {
	Tick uint32
	Text string
}

// CadenceType classifies how a vocal phrase resolves at its end.
type CadenceType int

const (
	CadenceStrong CadenceType = iota
	CadenceWeak
	CadenceFloating
	CadenceDeceptive
)

// PhraseBoundary marks a vocal phrase edge, attached after vocal
// generation completes.
type PhraseBoundary struct {
	Tick         uint32
	IsBreath     bool
	IsSectionEnd bool
	Cadence      CadenceType
}

// Track is an ordered, append-only (until post-processing) sequence of
// notes for one role.
type Track struct {
	Role   TrackRole
	Notes  []NoteEvent
	Texts  []TextEvent
	Phrase []PhraseBoundary // only populated on the vocal track
}

// Add appends a note at the end of the track. It does not re-sort; Sort
// restores the (start, pitch) ordering.
func (t *Track) Add(n NoteEvent) {
	t.Notes = append(t.Notes, n)
}

// Sort restores the start-tick/pitch ordering invariant. Generators may
// append out of order (e.g. when a fallback strategy revisits an earlier
// tick); callers must Sort before handing the track to anything that
// assumes sorted order.
func (t *Track) Sort() {
	sort.SliceStable(t.Notes, func(i, j int) bool {
		if t.Notes[i].StartTick != t.Notes[j].StartTick {
			return t.Notes[i].StartTick < t.Notes[j].StartTick
		}
		return t.Notes[i].Pitch < t.Notes[j].Pitch
	})
}

// NotesSoundingAt returns the notes whose [start, end) span contains tick.
func (t *Track) NotesSoundingAt(tick uint32) []NoteEvent {
	var out []NoteEvent
	for _, n := range t.Notes {
		if n.StartTick <= tick && tick < n.EndTick() {
			out = append(out, n)
		}
	}
	return out
}

// Song is the complete generated artifact: every track plus the
// arrangement metadata needed to render or analyze it. Arrangement is
// stored as an opaque value (any) here to avoid an import cycle with the
// arrangement package; callers type-assert via arrangement.FromSong.
type Song struct {
	ID          string // take identifier, assigned by the engine at creation
	Title       string
	Key         int // 0-11 target key; recorded in MIDI metadata, notes stay in C
	BPM         int
	Seed        uint32
	Tracks      map[TrackRole]*Track
	Arrangement interface{}

	ModulationTick    uint32
	ModulationAmount  int8
	ModulationApplied bool
}

// NewSong creates an empty song with all roles present (even if a given
// role's generator was disabled, its Track stays empty rather than nil, so
// downstream consumers never nil-check).
func NewSong(seed uint32) *Song {
	s := &Song{Seed: seed, Tracks: map[TrackRole]*Track{}}
	for _, r := range []TrackRole{RoleVocal, RoleChord, RoleBass, RoleMotif, RoleArpeggio, RoleAux, RoleGuitar, RoleDrums, RoleSE} {
		s.Tracks[r] = &Track{Role: r}
	}
	return s
}

// Track returns the track for a role, always non-nil.
func (s *Song) Track(role TrackRole) *Track {
	t, ok := s.Tracks[role]
	if !ok {
		t = &Track{Role: role}
		s.Tracks[role] = t
	}
	return t
}

// SortAll sorts every track; called once after generation completes and
// again after post-processing rewrites timings.
func (s *Song) SortAll() {
	for _, t := range s.Tracks {
		t.Sort()
	}
}
