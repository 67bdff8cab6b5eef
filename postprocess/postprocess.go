package postprocess

import (
	"math/rand"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/harmony"
	"github.com/ako-music/songforge/song"
)

// grooveForMood resolves which groove feel a mood's non-vocal tracks use
// by default. Vocal groove is chosen separately per composition style
// (see Options.VocalGroove) since the spec treats vocal groove as its own
// configuration knob, not a mood-derived constant.
func grooveForMood(m arrangement.Mood) GrooveStyle {
	switch m {
	case arrangement.MoodFunk, arrangement.MoodCityPop:
		return GrooveSwing
	case arrangement.MoodTrap, arrangement.MoodFutureBass:
		return GrooveDriving16th
	case arrangement.MoodRockAnthem, arrangement.MoodEnergeticDance:
		return GrooveSyncopated
	case arrangement.MoodIdolPop, arrangement.MoodYoasobi:
		return GrooveBouncy8th
	default:
		return GrooveStraight
	}
}

// Options configures a Run pass.
type Options struct {
	VocalGroove   GrooveStyle
	Humanize      bool
	VelocityScale float64
}

// Run applies every post-processing pass to a finished song: groove,
// humanization, overlap/merge cleanup, and velocity scaling for the
// pitched tracks, only humanization, overlap removal and velocity scaling
// for drums, the spec's extended vocal-only pipeline for the vocal track,
// and transition-dynamics ramps across every section boundary.
func Run(s *song.Song, arr *arrangement.Arrangement, ctx *harmony.Context, rng *rand.Rand, opts Options) {
	groove := grooveForMood(arr.Mood)

	for role, track := range s.Tracks {
		if len(track.Notes) == 0 {
			continue
		}
		if role == song.RoleVocal {
			RunVocalPostProcess(track, ctx, rng, opts.VocalGroove, opts.VelocityScale, opts.Humanize)
			continue
		}
		if role == song.RoleDrums {
			// percussion keeps its programmed groove; only humanize + clean it.
			if opts.Humanize {
				Humanize(track.Notes, rng)
				track.Sort()
			}
			track.Notes = RemoveOverlaps(track.Notes)
			ScaleVelocity(track.Notes, opts.VelocityScale)
			continue
		}

		ApplyGroove(track.Notes, groove)
		if opts.Humanize {
			Humanize(track.Notes, rng)
		}
		track.Sort()
		track.Notes = RemoveOverlaps(track.Notes)
		track.Notes = MergeSamePitch(track.Notes)
		ScaleVelocity(track.Notes, opts.VelocityScale)
	}

	applySectionTransitions(s, arr)
}

// applySectionTransitions ramps every track's velocity across each
// section boundary, linearly interpolating from the outgoing section's
// peak level to the incoming section's.
func applySectionTransitions(s *song.Song, arr *arrangement.Arrangement) {
	for i := 0; i < len(arr.Sections)-1; i++ {
		cur := arr.Sections[i]
		next := arr.Sections[i+1]
		rampStart := cur.EndTick() - arrangement.TicksPerBar
		rampEnd := next.StartTick + arrangement.TicksPerBar
		for _, track := range s.Tracks {
			TransitionDynamics(track.Notes, rampStart, rampEnd, uint8(cur.PeakLevel), uint8(next.PeakLevel))
		}
	}
}
