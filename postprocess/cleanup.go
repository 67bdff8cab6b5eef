package postprocess

import "github.com/ako-music/songforge/song"

// minNoteDuration is the shortest a note may be truncated to by overlap
// removal; below this a note reads as an artifact rather than a note.
const minNoteDuration = 60

// RemoveOverlaps truncates each note so it never sounds past the start of
// the next note on the same track, preserving at least minNoteDuration.
// notes must be sorted by start tick.
func RemoveOverlaps(notes []song.NoteEvent) []song.NoteEvent {
	for i := 0; i < len(notes)-1; i++ {
		next := notes[i+1].StartTick
		if notes[i].EndTick() <= next {
			continue
		}
		dur := next - notes[i].StartTick
		if dur < minNoteDuration {
			dur = minNoteDuration
		}
		notes[i].Duration = dur
	}
	return notes
}

// mergeGapTicks is the maximum silent gap between two same-pitch notes
// that still counts as one tied note rather than two separate attacks.
const mergeGapTicks = 30

// MergeSamePitch collapses consecutive same-pitch notes separated by a
// gap no larger than mergeGapTicks into a single sustained note, matching
// the spec's "ties in notation" rule. notes must be sorted by start tick.
func MergeSamePitch(notes []song.NoteEvent) []song.NoteEvent {
	if len(notes) == 0 {
		return notes
	}
	merged := []song.NoteEvent{notes[0]}
	for i := 1; i < len(notes); i++ {
		last := &merged[len(merged)-1]
		gap := int64(notes[i].StartTick) - int64(last.EndTick())
		if notes[i].Pitch == last.Pitch && gap >= 0 && gap <= mergeGapTicks {
			newEnd := notes[i].EndTick()
			if newEnd > last.EndTick() {
				last.Duration = newEnd - last.StartTick
			}
			continue
		}
		merged = append(merged, notes[i])
	}
	return merged
}
