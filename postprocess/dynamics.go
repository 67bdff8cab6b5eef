package postprocess

import "github.com/ako-music/songforge/song"

// ScaleVelocity multiplies every note's velocity by factor, clamping to
// the valid MIDI range. Used for composition-style-wide dynamics
// shaping (e.g. a quieter BGM render).
func ScaleVelocity(notes []song.NoteEvent, factor float64) {
	for i := range notes {
		v := int(float64(notes[i].Velocity) * factor)
		if v < 1 {
			v = 1
		}
		if v > 127 {
			v = 127
		}
		notes[i].Velocity = uint8(v)
	}
}

// TransitionDynamics linearly interpolates velocity across a section
// boundary: notes starting in [rampStart, rampEnd) — the last bar of the
// outgoing section followed by the first bar of the incoming one — have
// their velocity interpolated from fromLevel to toLevel.
func TransitionDynamics(notes []song.NoteEvent, rampStart, rampEnd uint32, fromLevel, toLevel uint8) {
	span := rampEnd - rampStart
	if span == 0 {
		return
	}
	for i := range notes {
		t := notes[i].StartTick
		if t < rampStart || t >= rampEnd {
			continue
		}
		frac := float64(t-rampStart) / float64(span)
		v := float64(fromLevel) + frac*(float64(toLevel)-float64(fromLevel))
		notes[i].Velocity = uint8(clampVel(v))
	}
}

func clampVel(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return v
}
