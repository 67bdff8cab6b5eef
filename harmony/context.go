package harmony

import (
	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// LowRegisterThreshold is the pitch below which hasBassCollision's
// stricter interval rule applies (C4).
const LowRegisterThreshold = 60

// registeredNote is a trimmed-down snapshot of a committed note: just
// enough to run dissonance checks against, not a full song.NoteEvent.
type registeredNote struct {
	start, end uint32
	pitch      uint8
	role       song.TrackRole
}

// Context is the per-generation-run harmony query surface. It borrows the
// arrangement and owns its chord timeline plus the registered-note list
// accumulated as each track is generated.
type Context struct {
	arr      *arrangement.Arrangement
	timeline *Timeline
	notes    []registeredNote
}

// NewContext builds the chord timeline for arr (see initialize in the
// component design) but does not yet plan secondary dominants — callers
// must invoke the secondarydominant planner immediately afterward, before
// any track generation begins.
func NewContext(arr *arrangement.Arrangement) *Context {
	return &Context{
		arr:      arr,
		timeline: buildTimeline(arr),
	}
}

// Arrangement returns the borrowed arrangement.
func (c *Context) Arrangement() *arrangement.Arrangement { return c.arr }

// GetChordDegreeAt returns the active chord degree at tick.
func (c *Context) GetChordDegreeAt(tick uint32) theory.Degree {
	return c.timeline.degreeAt(tick)
}

// GetNextChordChangeTick returns the first tick after `after` where the
// chord degree changes, or 0 if there is none.
func (c *Context) GetNextChordChangeTick(after uint32) uint32 {
	return c.timeline.nextChangeTick(after)
}

// GetChordTonesAt returns the chord-tone pitch classes (root + triad
// intervals, no extension) active at tick.
func (c *Context) GetChordTonesAt(tick uint32) []int {
	return theory.TriadPitchClasses(c.GetChordDegreeAt(tick), theory.ExtNone)
}

// RegisterSecondaryDominant inserts or overrides a chord-timeline span to
// reflect a planned V/x, per §4.7. Must run before track generation.
func (c *Context) RegisterSecondaryDominant(start, end uint32, degree theory.Degree) {
	c.timeline.insertOrOverride(ChordSpan{start, end, degree})
}

// RegisterNote appends a committed note to the registered-note list. The
// list is never purged during generation.
func (c *Context) RegisterNote(start, duration uint32, pitch uint8, role song.TrackRole) {
	c.notes = append(c.notes, registeredNote{start, start + duration, pitch, role})
}

// RegisterTrack bulk-registers every note already on a track.
func (c *Context) RegisterTrack(t *song.Track, role song.TrackRole) {
	for _, n := range t.Notes {
		c.RegisterNote(n.StartTick, n.Duration, n.Pitch, role)
	}
}

// ClearNotes drops the entire registered-note list.
func (c *Context) ClearNotes() {
	c.notes = nil
}

// ClearNotesForTrack drops only the notes registered under role.
func (c *Context) ClearNotesForTrack(role song.TrackRole) {
	kept := c.notes[:0]
	for _, n := range c.notes {
		if n.role != role {
			kept = append(kept, n)
		}
	}
	c.notes = kept
}

// overlapping returns registered notes (excluding excludeRole) whose span
// overlaps [start, start+duration).
func (c *Context) overlapping(start, duration uint32, excludeRole song.TrackRole, hasExclude bool) []registeredNote {
	end := start + duration
	var out []registeredNote
	for _, n := range c.notes {
		if hasExclude && n.role == excludeRole {
			continue
		}
		if n.start < end && start < n.end {
			out = append(out, n)
		}
	}
	return out
}

// GetPitchClassesFromTrackAt returns the distinct pitch classes sounding
// on role's track at tick.
func (c *Context) GetPitchClassesFromTrackAt(tick uint32, role song.TrackRole) []int {
	seen := map[int]bool{}
	var out []int
	for _, n := range c.notes {
		if n.role != role {
			continue
		}
		if n.start <= tick && tick < n.end {
			pc := int(n.pitch) % 12
			if !seen[pc] {
				seen[pc] = true
				out = append(out, pc)
			}
		}
	}
	return out
}

// IsPitchSafe reports whether pitch may be placed at [start, start+duration)
// without a dissonant interval against any other registered note
// overlapping that span, given the chord active when the note starts.
func (c *Context) IsPitchSafe(pitch uint8, start, duration uint32, excludeRole song.TrackRole) bool {
	degree := c.GetChordDegreeAt(start)
	for _, n := range c.overlapping(start, duration, excludeRole, true) {
		if isDissonant(int(pitch), int(n.pitch), degree) {
			return false
		}
	}
	return true
}

// HasBassCollision applies the stricter low-register rule: below
// LowRegisterThreshold, any overlapping note within `threshold` semitones
// or an exact octave multiple of pitch counts as a collision, regardless
// of chord context.
func (c *Context) HasBassCollision(pitch uint8, start, duration uint32, threshold int) bool {
	if int(pitch) >= LowRegisterThreshold {
		return false
	}
	for _, n := range c.overlapping(start, duration, 0, false) {
		interval := int(n.pitch) - int(pitch)
		if interval < 0 {
			interval = -interval
		}
		if interval <= threshold || interval%12 == 0 {
			return true
		}
	}
	return false
}
