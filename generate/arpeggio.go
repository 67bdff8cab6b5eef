package generate

import (
	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// ArpeggioPattern names the note order an arpeggio walks a chord's tones
// in.
type ArpeggioPattern int

const (
	ArpUp ArpeggioPattern = iota
	ArpDown
	ArpUpDown
	ArpRandom
)

// ArpeggioSpeed names the subdivision an arpeggio note fires on.
type ArpeggioSpeed int

const (
	SpeedEighth ArpeggioSpeed = iota
	SpeedSixteenth
	SpeedTriplet
)

func (s ArpeggioSpeed) ticks() uint32 {
	switch s {
	case SpeedSixteenth:
		return arrangement.TicksPerBeat / 4
	case SpeedTriplet:
		return arrangement.TicksPerBeat / 3
	default:
		return arrangement.TicksPerBeat / 2
	}
}

// ArpeggioStyle is the mood-keyed speed/gate/register/swing resolution
// spec.md §4.11 calls the "arpeggio-style-for-mood table". Grounded on
// original_source/src/track/generators/arpeggio.cpp's
// getArpeggioStyleForMood: CityPop gets a jazzy triplet shuffle,
// IdolPop/Yoasobi fast straight-ish 16ths, Ballad slow legato 8ths,
// RockAnthem an octave-down power-chord register, EnergeticDance/
// FutureBass staccato 16ths, Synthwave straight 16ths, Chill a soft
// triplet, everything else a generic synth-arp default.
type ArpeggioStyle struct {
	Speed        ArpeggioSpeed
	OctaveOffset int
	SwingAmount  float64
	Gate         float64
}

func arpeggioStyleForMood(m arrangement.Mood) ArpeggioStyle {
	switch m {
	case arrangement.MoodCityPop:
		return ArpeggioStyle{SpeedTriplet, 0, 0.5, 0.75}
	case arrangement.MoodIdolPop, arrangement.MoodYoasobi:
		return ArpeggioStyle{SpeedSixteenth, 0, 0.2, 0.7}
	case arrangement.MoodBallad:
		return ArpeggioStyle{SpeedEighth, 0, 0.0, 0.9}
	case arrangement.MoodRockAnthem:
		return ArpeggioStyle{SpeedEighth, -12, 0.0, 0.85}
	case arrangement.MoodEnergeticDance, arrangement.MoodFutureBass:
		return ArpeggioStyle{SpeedSixteenth, 0, 0.0, 0.6}
	case arrangement.MoodSynthwave:
		return ArpeggioStyle{SpeedSixteenth, 0, 0.0, 0.75}
	case arrangement.MoodChill:
		return ArpeggioStyle{SpeedTriplet, 0, 0.3, 0.85}
	default:
		return ArpeggioStyle{SpeedSixteenth, 0, 0.3, 0.8}
	}
}

// resolveGate returns the note duration as a fraction of the step size
// (gate < 1.0 leaves a rest between notes).
func resolveGate(step uint32, gate float64) uint32 {
	d := uint32(float64(step) * gate)
	if d < 1 {
		d = 1
	}
	return d
}

// arpeggioOrder returns the chord-tone pitch sequence (across octaveRange
// octaves above base) in the order pattern dictates.
func arpeggioOrder(f *NoteFactory, tones []int, base, octaveRange int, pattern ArpeggioPattern) []int {
	var pitches []int
	for oct := 0; oct < octaveRange; oct++ {
		for _, pc := range tones {
			pitches = append(pitches, base+pc+oct*12)
		}
	}
	switch pattern {
	case ArpDown:
		reversed := make([]int, len(pitches))
		for i, p := range pitches {
			reversed[len(pitches)-1-i] = p
		}
		return reversed
	case ArpUpDown:
		down := make([]int, len(pitches))
		for i, p := range pitches {
			down[len(pitches)-1-i] = p
		}
		return append(append([]int{}, pitches...), down[1:len(down)-1]...)
	case ArpRandom:
		shuffled := append([]int{}, pitches...)
		for i := len(shuffled) - 1; i > 0; i-- {
			j := f.RandRange(0, i)
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		}
		return shuffled
	default:
		return pitches
	}
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// densityThresholdFor mirrors the original's per-bucket skip threshold:
// thinner backing tolerates more probabilistic dropout before the
// arpeggio starts sounding sparse.
func densityThresholdFor(backingDensity int) int {
	switch {
	case backingDensity < 40:
		return 70
	case backingDensity > 75:
		return 90
	default:
		return 80
	}
}

// GenerateArpeggio fills in the arpeggio track. Speed and gate fall back
// to the mood's arpeggio style unless the caller passed an explicit
// non-default override (SpeedEighth/0.8 are config.Default()'s "unset"
// sentinels); the style's octave offset shifts the base octave, clamped
// to [C2, C7]. Each bar resolves harmonic-rhythm phrase-end splits the
// same way chord.go does, arpeggiating the first half against the bar's
// own degree and the second half against the next one. Density-percent
// can skip notes probabilistically (thinner backing tolerates more
// dropout), swing offsets upbeat notes by a style-given fraction of a
// step, and note duration is clamped to end a 30-tick gap before the
// next chord change so a sustained arpeggio note never bleeds into the
// next chord. When bgmOnly is true, each note is placed with
// SkipOnCollision, so a note that clashes with already-registered tracks
// is dropped as it is placed rather than shifted, matching the teacher's simpler "arpeggio never fights
// the mix" behavior for background-music-style renders.
func GenerateArpeggio(s *song.Song, f *NoteFactory, arr *arrangement.Arrangement, base, octaveRange int, speed ArpeggioSpeed, gate float64, pattern ArpeggioPattern, bgmOnly bool) {
	track := s.Track(song.RoleArpeggio)
	style := arpeggioStyleForMood(arr.Mood)

	effectiveSpeed := style.Speed
	if speed != SpeedEighth {
		effectiveSpeed = speed
	}
	effectiveGate := style.Gate
	if gate != 0.8 {
		effectiveGate = gate
	}
	step := effectiveSpeed.ticks()
	noteDur := resolveGate(step, effectiveGate)
	swingOffset := uint32(float64(step) * style.SwingAmount)

	effectiveBase := clampInt(base+style.OctaveOffset, 36, 96)

	for _, sec := range arr.Sections {
		if !sec.TrackMask.Has(arrangement.MaskArpeggio) {
			continue
		}
		rhythm, _ := arrangement.HarmonicRhythmFor(sec.Type, arr.Mood)
		threshold := densityThresholdFor(sec.BackingDensity)

		for bar := 0; bar < sec.Bars; bar++ {
			barStart := sec.StartTick + uint32(bar)*arrangement.TicksPerBar
			barEnd := barStart + arrangement.TicksPerBar

			degree := f.Harmony.GetChordDegreeAt(barStart)
			tones := theory.TriadPitchClasses(degree, theory.ExtNone)
			order := arpeggioOrder(f, tones, effectiveBase, octaveRange, pattern)
			if len(order) == 0 {
				continue
			}

			split := arrangement.ShouldSplitPhraseEnd(sec.Type, arr.Mood, rhythm, bar, sec.Bars, len(arr.Progression.Degrees))
			var nextOrder []int
			half := barStart + arrangement.TicksPerBar/2
			if split {
				nextDegree := f.Harmony.GetChordDegreeAt(barEnd)
				nextTones := theory.TriadPitchClasses(nextDegree, theory.ExtNone)
				nextOrder = arpeggioOrder(f, nextTones, effectiveBase, octaveRange, pattern)
			}

			i := 0
			for tick := barStart; tick < barEnd; tick += step {
				current := order
				if split && tick >= half && len(nextOrder) > 0 {
					current = nextOrder
				}
				pitch := current[i%len(current)]

				vel := uint8(90)
				if i%len(current) != 0 {
					vel = 78
				}

				if sec.DensityPercent < threshold && !f.RollProbability(float64(sec.DensityPercent)/100.0) {
					i++
					continue
				}

				notePos := tick
				if swingOffset > 0 && i%2 == 1 {
					notePos += swingOffset
				}

				dur := noteDur
				nextChordTick := f.Harmony.GetNextChordChangeTick(notePos)
				if nextChordTick > 0 && notePos+dur > nextChordTick {
					const chordGap = 30
					maxDur := nextChordTick - notePos
					if maxDur > chordGap {
						dur = maxDur - chordGap
					} else if maxDur > 0 {
						dur = maxDur
					}
				}

				sel := f.Select(song.RoleArpeggio, song.SourceArpeggio).
					At(notePos, dur).WithPitch(uint8(clampPitch(pitch))).WithVelocity(vel)
				if bgmOnly {
					sel.SkipOnCollision()
				} else {
					sel.FallbackToOctave(uint8(effectiveBase-12), uint8(effectiveBase+24))
				}
				sel.AddTo(track)

				i++
			}
		}
	}
}
