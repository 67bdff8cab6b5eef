package generate

import (
	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
)

// GM drum map (General MIDI standard percussion channel).
const (
	DrumKick        = 36
	DrumSnare       = 38
	DrumClosedHihat = 42
	DrumOpenHihat   = 46
	DrumRide        = 51
	DrumCrash       = 49
)

// drumVoicePattern names a Euclidean (hits, steps, rotation) shape for
// one drum voice within a bar.
type drumVoicePattern struct {
	note              uint8
	hits, steps, rotation int
	velocity          uint8
}

// patternForDensity resolves the kick/snare/hihat Euclidean shapes for a
// section's density percent, sparser at low density, busier at high —
// adapted from the teacher's style-preset table, generalized from named
// genre presets to a continuous density axis.
func patternForDensity(density int) []drumVoicePattern {
	switch {
	case density < 40:
		return []drumVoicePattern{
			{DrumKick, 2, 8, 0, 100},
			{DrumSnare, 1, 8, 4, 90},
			{DrumClosedHihat, 4, 8, 0, 60},
		}
	case density > 80:
		return []drumVoicePattern{
			{DrumKick, 5, 16, 0, 105},
			{DrumSnare, 2, 8, 4, 95},
			{DrumClosedHihat, 12, 16, 0, 70},
			{DrumOpenHihat, 2, 16, 2, 65},
		}
	default:
		return []drumVoicePattern{
			{DrumKick, 3, 8, 0, 100},
			{DrumSnare, 2, 8, 4, 92},
			{DrumClosedHihat, 8, 8, 0, 65},
		}
	}
}

// generateEuclideanRhythm implements Bjorklund's algorithm, producing a
// boolean hit pattern of length steps with hits evenly distributed,
// optionally rotated.
func generateEuclideanRhythm(hits, steps, rotation int) []bool {
	if hits >= steps {
		result := make([]bool, steps)
		for i := range result {
			result[i] = true
		}
		return result
	}
	if hits <= 0 {
		return make([]bool, steps)
	}

	pattern := make([][]bool, steps)
	for i := 0; i < hits; i++ {
		pattern[i] = []bool{true}
	}
	for i := hits; i < steps; i++ {
		pattern[i] = []bool{false}
	}

	count := steps
	for {
		smaller := hits
		if count-hits < smaller {
			smaller = count - hits
		}
		if smaller <= 1 {
			break
		}
		for i := 0; i < smaller; i++ {
			pattern[i] = append(pattern[i], pattern[count-smaller+i]...)
		}
		count -= smaller
		if hits > count-hits {
			hits = count - hits
		}
	}

	result := []bool{}
	for i := 0; i < count; i++ {
		result = append(result, pattern[i]...)
	}

	if rotation != 0 && len(result) > 0 {
		rot := rotation % len(result)
		result = append(result[rot:], result[:rot]...)
	}
	return result
}

// GenerateDrums fills in the drum track for every section with the
// drums mask bit set, using a density-resolved Euclidean pattern per
// voice.
func GenerateDrums(s *song.Song, f *NoteFactory, arr *arrangement.Arrangement) {
	track := s.Track(song.RoleDrums)

	for _, sec := range arr.Sections {
		if !sec.TrackMask.Has(arrangement.MaskDrums) {
			continue
		}
		voices := patternForDensity(sec.DensityPercent)

		for bar := 0; bar < sec.Bars; bar++ {
			barStart := sec.StartTick + uint32(bar)*arrangement.TicksPerBar
			for _, v := range voices {
				hits := generateEuclideanRhythm(v.hits, v.steps, v.rotation)
				stepTicks := arrangement.TicksPerBar / uint32(v.steps)
				for i, hit := range hits {
					if !hit {
						continue
					}
					tick := barStart + uint32(i)*stepTicks
					track.Add(song.NoteEvent{
						StartTick: tick,
						Duration:  stepTicks / 2,
						Pitch:     v.note,
						Velocity:  v.velocity,
						Prov:      song.Provenance{Source: song.SourceDrumPattern, LookupTick: tick},
					})
				}
			}

			// crash on the first bar of high-peak sections
			if bar == 0 && sec.PeakLevel >= 90 {
				track.Add(song.NoteEvent{StartTick: barStart, Duration: 480, Pitch: DrumCrash, Velocity: 100})
			}

			// occasional ghost snare on dense sections for a live feel
			if sec.DensityPercent > 70 && f.RollProbability(0.3) {
				ghostTick := barStart + uint32(arrangement.TicksPerBeat)*3 + arrangement.TicksPerBeat/2
				track.Add(song.NoteEvent{StartTick: ghostTick, Duration: 60, Pitch: DrumSnare, Velocity: 45})
			}
		}
	}
}
