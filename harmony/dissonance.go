package harmony

import "github.com/ako-music/songforge/theory"

// BassSwingMargin is added to a bass note's duration when checking for a
// bass-to-chord tritone collision, so a note that ends right as the next
// chord's swung attack lands still gets flagged.
const BassSwingMargin = 160

// BassStartMargin nudges a bass note's start back by one tick before the
// tritone check, so a note landing exactly on a chord-change boundary is
// still checked against the outgoing chord.
const BassStartMargin = 1

// intervalClass folds an absolute pitch-class difference to 0..6.
func intervalClass(a, b int) int {
	d := (a - b) % 12
	if d < 0 {
		d = -d
	}
	if d > 6 {
		d = 12 - d
	}
	return d
}

// isDissonant is the chord-context dissonance predicate: a minor 2nd is
// always dissonant; a tritone is dissonant except when the active chord
// is V or vii°, where it is part of the chord itself.
func isDissonant(pitchA, pitchB int, degree theory.Degree) bool {
	ic := intervalClass(pitchA, pitchB)
	switch ic {
	case 1:
		return true
	case 6:
		return degree != theory.DegreeV && degree != theory.DegreeVII
	default:
		return false
	}
}

// IsDissonantPair exposes the chord-context dissonance predicate for
// read-only consumers outside this package (the analyzer's simultaneous-
// clash check) that need the exact same rule generators use, without
// duplicating it.
func IsDissonantPair(pitchA, pitchB int, degree theory.Degree) bool {
	return isDissonant(pitchA, pitchB, degree)
}

// HasBassChordTritone is the stricter bass-to-chord check described in
// §4.1: a tritone within the bass note's full duration (extended by the
// swing margin, and with the start pulled back by the start margin) is
// always dissonant, even on V or vii°, because a held bass tone across a
// chord change is far more exposed than a short inner voice.
func (c *Context) HasBassChordTritone(pitch uint8, start, duration uint32) bool {
	adjStart := start
	if adjStart >= BassStartMargin {
		adjStart -= BassStartMargin
	}
	adjDuration := duration + BassSwingMargin

	for tick := adjStart; tick < adjStart+adjDuration; tick += arrangementTickStep(adjDuration) {
		for _, pc := range c.GetChordTonesAt(tick) {
			if intervalClass(int(pitch), pc) == 6 {
				return true
			}
		}
	}
	return false
}

// arrangementTickStep bounds how finely HasBassChordTritone walks a long
// bass note's duration when re-sampling the chord timeline, so a
// multi-bar pad note doesn't degrade into a tick-by-tick scan.
func arrangementTickStep(duration uint32) uint32 {
	if duration > 960 {
		return 240
	}
	return 60
}
