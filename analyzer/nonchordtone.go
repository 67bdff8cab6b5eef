package analyzer

import (
	"github.com/ako-music/songforge/harmony"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// findNonChordTones flags notes whose pitch class is neither a chord
// tone at their start tick nor an available tension for that degree.
// Severity escalates on strong beats, for bass notes, and when the pitch
// lies a 2nd from a tone of the timeline's chord at that tick. The check
// uses the chord degree's triad, not the notes actually sounding.
func findNonChordTones(s *song.Song, ctx *harmony.Context) []Issue {
	var issues []Issue
	for role, track := range s.Tracks {
		if role == song.RoleDrums || role == song.RoleSE {
			continue
		}
		for _, n := range track.Notes {
			degree := ctx.GetChordDegreeAt(n.StartTick)
			pc := int(n.Pitch) % 12
			if theory.IsChordTone(degree, pc) || theory.IsAvailableTension(degree, pc) {
				continue
			}

			sev := SeverityLow
			if isStrongBeatTick(n.StartTick) {
				sev = SeverityMedium
			}
			if role == song.RoleBass {
				sev = escalate(sev)
			}
			if closeToSoundingChordTone(ctx, pc, n.StartTick) {
				sev = escalate(sev)
			}

			bar, beat := barAndBeat(n.StartTick)
			issues = append(issues, Issue{
				Type: NonChordTone, Severity: sev, Tick: n.StartTick, Bar: bar, Beat: beat,
				Track: role.String(), Pitch: n.Pitch,
			})
		}
	}
	return issues
}

func escalate(s Severity) Severity {
	switch s {
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	default:
		return SeverityHigh
	}
}

// closeToSoundingChordTone reports whether pc sits a minor or major 2nd
// from any tone of the timeline's chord at tick.
func closeToSoundingChordTone(ctx *harmony.Context, pc int, tick uint32) bool {
	for _, tone := range ctx.GetChordTonesAt(tick) {
		d := (pc - tone) % 12
		if d < 0 {
			d = -d
		}
		if d == 1 || d == 2 || d == 11 || d == 10 {
			return true
		}
	}
	return false
}
