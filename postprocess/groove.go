// Package postprocess applies the timing/velocity passes the spec runs
// after every track generator has finished: groove-feel shifts,
// humanization jitter, overlap/duplicate cleanup, and dynamics shaping.
// Every pass is purely local to one track (or the whole song for
// dynamics). The only pass that reads the harmony context is the vocal
// phrase-seam pass, which looks up chord tones; pitch safety is not
// re-checked.
package postprocess

import (
	"math/rand"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
)

// GrooveStyle names a timing feel applied to a track's note onsets,
// mirroring the teacher's own swing/pattern vocabulary in
// midi/rhythm.go and midi/bass.go, generalized to a per-note shift table
// instead of per-pattern special-casing.
type GrooveStyle int

const (
	GrooveStraight GrooveStyle = iota
	GrooveOffBeat
	GrooveSwing
	GrooveSyncopated
	GrooveDriving16th
	GrooveBouncy8th
)

const (
	grooveShiftTicks = 30
	minGapTicks      = 10
)

// ApplyGroove shifts note onsets in place according to style, shrinking
// the preceding note's duration first to preserve at least minGapTicks
// between the two. Notes must already be sorted by start tick.
func ApplyGroove(notes []song.NoteEvent, style GrooveStyle) {
	if style == GrooveStraight {
		return
	}
	for i := range notes {
		var shift int32
		beat := (notes[i].StartTick % arrangement.TicksPerBar) / arrangement.TicksPerBeat
		withinBeat := notes[i].StartTick % arrangement.TicksPerBeat

		switch style {
		case GrooveOffBeat:
			if withinBeat == 0 {
				shift = grooveShiftTicks
			}
		case GrooveSwing:
			eighth := arrangement.TicksPerBeat / 2
			if withinBeat == uint32(eighth) {
				shift = grooveShiftTicks
			}
		case GrooveSyncopated:
			if withinBeat == 0 && (beat == 1 || beat == 3) {
				shift = -grooveShiftTicks
			}
		case GrooveDriving16th:
			sixteenth := arrangement.TicksPerBeat / 4
			if int(withinBeat)%sixteenth == 0 {
				shift = -grooveShiftTicks
			}
		case GrooveBouncy8th:
			eighth := arrangement.TicksPerBeat / 2
			if withinBeat == uint32(eighth) {
				shift = grooveShiftTicks
			} else if withinBeat == 0 {
				notes[i].Duration = notes[i].Duration * 85 / 100
			}
		}
		if shift == 0 {
			continue
		}
		if i > 0 {
			shrinkToGap(&notes[i-1], shiftedStart(notes[i].StartTick, shift))
		}
		notes[i].StartTick = shiftedStart(notes[i].StartTick, shift)
	}
}

func shiftedStart(start uint32, shift int32) uint32 {
	s := int64(start) + int64(shift)
	if s < 0 {
		return 0
	}
	return uint32(s)
}

// shrinkToGap trims prev's duration so it ends at least minGapTicks
// before nextStart, never growing it and never going below 1 tick.
func shrinkToGap(prev *song.NoteEvent, nextStart uint32) {
	if nextStart < minGapTicks {
		return
	}
	limit := nextStart - minGapTicks
	if prev.StartTick >= limit {
		return
	}
	if prev.EndTick() <= limit {
		return
	}
	prev.Duration = limit - prev.StartTick
	if prev.Duration < 1 {
		prev.Duration = 1
	}
}

// Humanize adds small timing and velocity jitter per note, using rng so
// the result stays reproducible under a fixed seed.
func Humanize(notes []song.NoteEvent, rng *rand.Rand) {
	for i := range notes {
		jitterTicks := rng.Intn(11) - 5 // -5..+5
		s := int64(notes[i].StartTick) + int64(jitterTicks)
		if s < 0 {
			s = 0
		}
		notes[i].StartTick = uint32(s)

		jitterVel := rng.Intn(11) - 5
		v := int(notes[i].Velocity) + jitterVel
		if v < 1 {
			v = 1
		}
		if v > 127 {
			v = 127
		}
		notes[i].Velocity = uint8(v)
	}
}
