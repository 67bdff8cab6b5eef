package theory

// CMajorScale is the fixed reference scale that all internal harmony is
// computed in. Notes are emitted in C; the song's target key is not
// applied to them.
var CMajorScale = []int{0, 2, 4, 5, 7, 9, 11}

// IsCMajorScaleTone reports whether a pitch class (0-11) belongs to the
// C-major scale.
func IsCMajorScaleTone(pc int) bool {
	pc = ((pc % 12) + 12) % 12
	for _, tone := range CMajorScale {
		if tone == pc {
			return true
		}
	}
	return false
}

// NearestScaleTonePitchClass returns the C-major scale tone pitch class
// closest to pc, biased toward the lower neighbor on ties.
func NearestScaleTonePitchClass(pc int) int {
	pc = ((pc % 12) + 12) % 12
	if IsCMajorScaleTone(pc) {
		return pc
	}
	best, bestDist := CMajorScale[0], 12
	for _, tone := range CMajorScale {
		d := tone - pc
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = tone, d
		}
	}
	return best
}

// SecondaryDominantChordTones returns the chord-tone pitch classes for the
// common secondary dominants, keyed by the degree they target: V/ii=A7,
// V/iii=B7, V/IV=C7, V/V=D7, V/vi=E7. Used by the dissonance analyzer's
// NonDiatonicNote classification.
func SecondaryDominantChordTones() map[Degree][]int {
	// A7, B7, C7, D7, E7 roots: 9, 11, 0, 2, 4. Dominant 7th = {0,4,7,10}.
	dom7 := func(root int) []int {
		out := make([]int, 4)
		for i, iv := range []int{0, 4, 7, 10} {
			out[i] = (root + iv) % 12
		}
		return out
	}
	return map[Degree][]int{
		DegreeII:  dom7(9),
		DegreeIII: dom7(11),
		DegreeIV:  dom7(0),
		DegreeV:   dom7(2),
		DegreeVI:  dom7(4),
	}
}
