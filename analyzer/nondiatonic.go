package analyzer

import (
	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/harmony"
	"github.com/ako-music/songforge/song"
)

// findNonDiatonicNotes flags notes whose pitch class is outside the
// C-major scale, not a chord tone of the current or next chord, and not
// a chord tone of a common secondary dominant.
func findNonDiatonicNotes(s *song.Song, ctx *harmony.Context, arr *arrangement.Arrangement) []Issue {
	var issues []Issue
	for role, track := range s.Tracks {
		if role == song.RoleDrums || role == song.RoleSE {
			continue
		}
		for _, n := range track.Notes {
			pc := int(n.Pitch) % 12
			if isDiatonicOrChordTone(ctx, arr, pc, n.StartTick) {
				continue
			}

			sev := SeverityLow
			if isStrongBeatTick(n.StartTick) {
				sev = escalate(sev)
			}
			if isSectionStartBeat1(arr, n.StartTick) {
				sev = escalate(sev)
			}

			bar, beat := barAndBeat(n.StartTick)
			issues = append(issues, Issue{
				Type: NonDiatonicNote, Severity: sev, Tick: n.StartTick, Bar: bar, Beat: beat,
				Track: role.String(), Pitch: n.Pitch,
			})
		}
	}
	return issues
}
