package postprocess

import (
	"math/rand"

	"github.com/ako-music/songforge/harmony"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// maxSeamInterval is the largest melodic leap the seam-enforcement pass
// allows across a phrase boundary before snapping to a nearer chord tone.
const maxSeamInterval = 9

// RunVocalPostProcess applies the vocal-only post-processing order from
// the spec: seam interval enforcement, scale snapping, groove, overlap
// removal, same-pitch merge, velocity scaling, then a final interval
// enforcement pass. It mutates track.Notes and leaves them sorted.
func RunVocalPostProcess(track *song.Track, ctx *harmony.Context, rng *rand.Rand, groove GrooveStyle, velocityScale float64, humanize bool) {
	enforceSeamIntervals(track, ctx)
	snapToScale(track)

	ApplyGroove(track.Notes, groove)
	if humanize {
		Humanize(track.Notes, rng)
	}
	track.Sort()

	track.Notes = RemoveOverlaps(track.Notes)
	track.Notes = MergeSamePitch(track.Notes)
	ScaleVelocity(track.Notes, velocityScale)

	enforceSeamIntervals(track, ctx)
}

// enforceSeamIntervals walks phrase boundaries and, for the note
// starting each new phrase, snaps its pitch to the nearest chord tone within maxSeamInterval of the previous phrase's final pitch when
// the raw interval would exceed that cap.
func enforceSeamIntervals(track *song.Track, ctx *harmony.Context) {
	if len(track.Notes) < 2 {
		return
	}
	for _, b := range track.Phrase {
		prevIdx, curIdx := -1, -1
		for i, n := range track.Notes {
			if n.StartTick < b.Tick {
				prevIdx = i
			} else if curIdx == -1 {
				curIdx = i
				break
			}
		}
		if prevIdx == -1 || curIdx == -1 {
			continue
		}
		prev := track.Notes[prevIdx]
		cur := &track.Notes[curIdx]
		interval := int(cur.Pitch) - int(prev.Pitch)
		if interval < 0 {
			interval = -interval
		}
		if interval <= maxSeamInterval {
			continue
		}
		if snapped, ok := nearestChordToneWithin(ctx, cur.StartTick, int(prev.Pitch), maxSeamInterval); ok {
			cur.Pitch = uint8(snapped)
		}
	}
}

func nearestChordToneWithin(ctx *harmony.Context, tick uint32, anchor, maxInterval int) (int, bool) {
	tones := ctx.GetChordTonesAt(tick)
	best, bestDist := 0, 1<<30
	found := false
	for _, pc := range tones {
		for oct := 0; oct < 11; oct++ {
			candidate := pc + oct*12
			if candidate < 0 || candidate > 127 {
				continue
			}
			dist := candidate - anchor
			if dist < 0 {
				dist = -dist
			}
			if dist > maxInterval {
				continue
			}
			if dist < bestDist {
				bestDist = dist
				best = candidate
				found = true
			}
		}
	}
	return best, found
}

// snapToScale clamps every note's pitch class onto the C-major reference
// scale, nudging non-scale tones to the nearest scale tone in the same
// octave.
func snapToScale(track *song.Track) {
	for i := range track.Notes {
		pitch := int(track.Notes[i].Pitch)
		pc := pitch % 12
		if theory.IsCMajorScaleTone(pc) {
			continue
		}
		snapped := theory.NearestScaleTonePitchClass(pc)
		track.Notes[i].Pitch = uint8(pitch - pc + snapped)
	}
}
