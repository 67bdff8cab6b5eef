package analyzer

import (
	"github.com/ako-music/songforge/harmony"
	"github.com/ako-music/songforge/song"
)

// trackOrder fixes a stable iteration order over roles so clash-pair
// reporting is deterministic regardless of Go's map iteration order.
var trackOrder = []song.TrackRole{
	song.RoleVocal, song.RoleChord, song.RoleBass, song.RoleMotif,
	song.RoleArpeggio, song.RoleAux, song.RoleGuitar,
}

// findSimultaneousClashes reports every overlapping note pair from
// different (non-drum) tracks whose interval is dissonant per the §4.1
// predicate, reusing ctx for chord-degree lookups at each pair's tick.
func findSimultaneousClashes(s *song.Song, ctx *harmony.Context) []Issue {
	var issues []Issue
	for ai, a := range trackOrder {
		trackA := s.Tracks[a]
		if trackA == nil {
			continue
		}
		for _, b := range trackOrder[ai+1:] {
			trackB := s.Tracks[b]
			if trackB == nil {
				continue
			}
			issues = append(issues, clashesBetween(ctx, trackA, a, trackB, b)...)
		}
	}
	return issues
}

// findNonContextualBassTritones reproduces the second tritone-severity
// call site spec.md §9's Open Question asks to keep unreconciled with
// the chord-contextual rule above: clashesBetween's harmony.IsDissonantPair
// exempts a tritone on V or vii° (it's part of the chord); this site
// uses harmony.HasBassChordTritone instead, which walks a Bass note's
// full duration against the chord timeline and always flags a tritone
// regardless of degree, because a held bass tone across a chord change
// is far more exposed than a passing inner-voice dissonance. The two
// rules are deliberately not unified — a bass note can be flagged here
// even where clashesBetween would have let the same pitch pair through.
func findNonContextualBassTritones(s *song.Song, ctx *harmony.Context) []Issue {
	bassTrack := s.Tracks[song.RoleBass]
	if bassTrack == nil {
		return nil
	}
	var issues []Issue
	for _, n := range bassTrack.Notes {
		if !ctx.HasBassChordTritone(n.Pitch, n.StartTick, n.Duration) {
			continue
		}
		bar, beat := barAndBeat(n.StartTick)
		issues = append(issues, Issue{
			Type: SimultaneousClash, Severity: SeverityHigh, Tick: n.StartTick, Bar: bar, Beat: beat,
			Track: song.RoleBass.String(), OtherTrack: song.RoleChord.String(),
			Pitch: n.Pitch,
		})
	}
	return issues
}

func clashesBetween(ctx *harmony.Context, trackA *song.Track, roleA song.TrackRole, trackB *song.Track, roleB song.TrackRole) []Issue {
	var issues []Issue
	for _, na := range trackA.Notes {
		for _, nb := range trackB.Notes {
			if na.StartTick >= nb.EndTick() || nb.StartTick >= na.EndTick() {
				continue
			}
			tick := na.StartTick
			if nb.StartTick > tick {
				tick = nb.StartTick
			}
			degree := ctx.GetChordDegreeAt(tick)
			if !harmony.IsDissonantPair(int(na.Pitch), int(nb.Pitch), degree) {
				continue
			}
			bar, beat := barAndBeat(tick)
			sev := SeverityMedium
			if isStrongBeatTick(tick) {
				sev = SeverityHigh
			}
			issues = append(issues, Issue{
				Type: SimultaneousClash, Severity: sev, Tick: tick, Bar: bar, Beat: beat,
				Track: roleA.String(), OtherTrack: roleB.String(),
				Pitch: na.Pitch, OtherPitch: nb.Pitch,
			})
		}
	}
	return issues
}
