package theory

import (
	"strings"
)

// NoteNames for display (sharps)
var NoteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteToMidi converts a note name to a pitch class (0-11), understanding
// both sharp and flat spellings. Used by config's key parser as a
// flat-aware fallback, and internally by parseChordRoot.
func NoteToMidi(note string) int {
	note = strings.TrimSpace(note)
	if note == "" {
		return 0
	}

	noteMap := map[string]int{
		"C": 0, "C#": 1, "Db": 1,
		"D": 2, "D#": 3, "Eb": 3,
		"E": 4, "Fb": 4, "E#": 5,
		"F": 5, "F#": 6, "Gb": 6,
		"G": 7, "G#": 8, "Ab": 8,
		"A": 9, "A#": 10, "Bb": 10,
		"B": 11, "Cb": 11, "B#": 0,
	}

	if midi, ok := noteMap[note]; ok {
		return midi
	}

	if len(note) >= 1 {
		base := strings.ToUpper(string(note[0]))
		if len(note) >= 2 {
			accidental := string(note[1])
			if accidental == "#" || accidental == "b" {
				if midi, ok := noteMap[base+accidental]; ok {
					return midi
				}
			}
		}
		if midi, ok := noteMap[base]; ok {
			return midi
		}
	}

	return 0
}

// parseChordRoot extracts the root pitch class from a chord symbol.
func parseChordRoot(chordSymbol string) int {
	if len(chordSymbol) == 0 {
		return 0
	}

	rootStr := string(chordSymbol[0])
	if len(chordSymbol) > 1 {
		second := chordSymbol[1]
		if second == '#' || second == 'b' {
			rootStr += string(second)
		}
	}

	return NoteToMidi(rootStr)
}

// GetChordTones returns the chord tones (R, 3, 5, 7) for a chord symbol
// as pitch classes (0-11).
func GetChordTones(chordSymbol string) []int {
	root := parseChordRoot(chordSymbol)
	quality := strings.ToLower(chordSymbol)

	var intervals []int

	switch {
	case strings.Contains(quality, "dim"):
		intervals = []int{0, 3, 6} // R, b3, b5
	case strings.Contains(quality, "aug"):
		intervals = []int{0, 4, 8} // R, 3, #5
	case strings.Contains(strings.ReplaceAll(quality, "maj", ""), "m"):
		intervals = []int{0, 3, 7} // R, b3, 5
	default:
		intervals = []int{0, 4, 7} // R, 3, 5 (major)
	}

	if strings.Contains(quality, "maj7") {
		intervals = append(intervals, 11) // major 7th
	} else if strings.Contains(quality, "7") {
		intervals = append(intervals, 10) // minor 7th (dominant)
	}

	tones := make([]int, len(intervals))
	for i, interval := range intervals {
		tones[i] = (root + interval) % 12
	}

	return tones
}
