package analyzer

import (
	"github.com/ako-music/songforge/harmony"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// findSustainedOverChordChanges flags notes that started as a chord tone
// but are still sounding when the chord changes underneath them and the
// pitch class is not a chord tone of the new chord.
func findSustainedOverChordChanges(s *song.Song, ctx *harmony.Context) []Issue {
	var issues []Issue
	for role, track := range s.Tracks {
		if role == song.RoleDrums || role == song.RoleSE {
			continue
		}
		for _, n := range track.Notes {
			startDegree := ctx.GetChordDegreeAt(n.StartTick)
			pc := int(n.Pitch) % 12
			if !theory.IsChordTone(startDegree, pc) {
				continue
			}
			changeTick := ctx.GetNextChordChangeTick(n.StartTick)
			if changeTick <= n.StartTick || changeTick >= n.EndTick() {
				continue
			}
			newDegree := ctx.GetChordDegreeAt(changeTick)
			if theory.IsChordTone(newDegree, pc) {
				continue
			}

			sev := SeverityMedium
			if isStrongBeatTick(changeTick) {
				sev = SeverityHigh
			}
			bar, beat := barAndBeat(changeTick)
			issues = append(issues, Issue{
				Type: SustainedOverChordChange, Severity: sev, Tick: changeTick, Bar: bar, Beat: beat,
				Track: role.String(), Pitch: n.Pitch,
			})
		}
	}
	return issues
}
