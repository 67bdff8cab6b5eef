package generate

import (
	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// AuxFunction names one of the auxiliary-track behaviors selectable by
// configuration.
type AuxFunction int

const (
	AuxPulseLoop AuxFunction = iota
	AuxTargetHint
	AuxGrooveAccent
	AuxPhraseTail
	AuxEmotionalPad
	AuxUnison
	AuxHarmony
	AuxMelodicHook
	AuxMotifCounter
)

// MinAuxNoteDuration is the minimum duration an aux note is clipped down
// to when a chord-boundary crossing forces a trim.
const MinAuxNoteDuration = arrangement.TicksPerBeat / 4 // sixteenth

// GenerateAux fills in the aux track for the arrangement using the
// configured function. The vocal and bass tracks must already be
// generated and registered, since several functions react to them.
func GenerateAux(s *song.Song, f *NoteFactory, arr *arrangement.Arrangement, fn AuxFunction, register int) {
	track := s.Track(song.RoleAux)

	for _, sec := range arr.Sections {
		if !sec.TrackMask.Has(arrangement.MaskAux) {
			continue
		}
		switch fn {
		case AuxPulseLoop:
			generatePulseLoop(f, track, sec, register)
		case AuxTargetHint:
			generateTargetHint(f, track, sec, register)
		case AuxGrooveAccent:
			generateGrooveAccent(f, track, sec, register)
		case AuxPhraseTail:
			generatePhraseTail(f, track, sec, register)
		case AuxEmotionalPad:
			generateEmotionalPad(f, track, sec, register)
		case AuxUnison:
			generateUnisonOrHarmony(f, track, sec, 0)
		case AuxHarmony:
			generateUnisonOrHarmony(f, track, sec, 4)
		case AuxMelodicHook:
			generateMelodicHook(f, track, sec, register)
		case AuxMotifCounter:
			generateMotifCounter(f, s, track, sec, register)
		}
	}
}

func generatePulseLoop(f *NoteFactory, track *song.Track, sec arrangement.Section, register int) {
	for bar := 0; bar < sec.Bars; bar++ {
		barStart := sec.StartTick + uint32(bar)*arrangement.TicksPerBar
		degree := f.Harmony.GetChordDegreeAt(barStart)
		root := theory.DegreeRoot(degree) + register
		for q := 0; q < 4; q++ {
			emitAuxNote(f, track, barStart+uint32(q*480), 200, root, 70)
		}
	}
}

func generateTargetHint(f *NoteFactory, track *song.Track, sec arrangement.Section, register int) {
	for bar := 0; bar < sec.Bars; bar++ {
		barStart := sec.StartTick + uint32(bar)*arrangement.TicksPerBar
		nextDegree := f.Harmony.GetChordDegreeAt(barStart + arrangement.TicksPerBar)
		root := theory.DegreeRoot(nextDegree) + register
		emitAuxNote(f, track, barStart+arrangement.TicksPerBar-uint32(eighthTick), uint32(eighthTick), root, 65)
	}
}

func generateGrooveAccent(f *NoteFactory, track *song.Track, sec arrangement.Section, register int) {
	accentTicks := []uint32{240, 720, 1200, 1680}
	for bar := 0; bar < sec.Bars; bar++ {
		barStart := sec.StartTick + uint32(bar)*arrangement.TicksPerBar
		degree := f.Harmony.GetChordDegreeAt(barStart)
		tones := theory.TriadPitchClasses(degree, theory.ExtNone)
		for _, off := range accentTicks {
			pitch := tones[f.RandRange(0, len(tones)-1)] + register
			emitAuxNote(f, track, barStart+off, 120, pitch, 72)
		}
	}
}

func generatePhraseTail(f *NoteFactory, track *song.Track, sec arrangement.Section, register int) {
	if sec.Bars == 0 {
		return
	}
	lastBarStart := sec.StartTick + uint32(sec.Bars-1)*arrangement.TicksPerBar
	degree := f.Harmony.GetChordDegreeAt(lastBarStart)
	root := theory.DegreeRoot(degree) + register
	emitAuxNote(f, track, lastBarStart+uint32(eighthTick*2), uint32(eighthTick*2), root, 68)
}

// generateEmotionalPad emits one sustained chord tone per chord change,
// never re-attacking within a sustained span, clipping a small gap before
// any boundary where the sustained pitch would become a non-chord-tone.
func generateEmotionalPad(f *NoteFactory, track *song.Track, sec arrangement.Section, register int) {
	tick := sec.StartTick
	end := sec.EndTick()
	for tick < end {
		next := f.Harmony.GetNextChordChangeTick(tick)
		if next == 0 || next > end {
			next = end
		}
		degree := f.Harmony.GetChordDegreeAt(tick)
		root := theory.DegreeRoot(degree) + register
		dur := next - tick
		nextDegree := f.Harmony.GetChordDegreeAt(next)
		if next < end && !theory.IsChordTone(nextDegree, root%12) {
			clip := uint32(120)
			if dur > clip+MinAuxNoteDuration {
				dur -= clip
			}
		}
		emitAuxNote(f, track, tick, dur, root, 55)
		tick = next
	}
}

// generateUnisonOrHarmony doubles the vocal track's already-registered
// notes at interval semitones above (0 = unison, 4 = a third above).
func generateUnisonOrHarmony(f *NoteFactory, track *song.Track, sec arrangement.Section, interval int) {
	for tick := sec.StartTick; tick < sec.EndTick(); tick += 240 {
		pcs := f.Harmony.GetPitchClassesFromTrackAt(tick, song.RoleVocal)
		for _, pc := range pcs {
			emitAuxNote(f, track, tick, 220, pc+48+interval, 60)
		}
	}
}

func generateMelodicHook(f *NoteFactory, track *song.Track, sec arrangement.Section, register int) {
	if sec.Bars == 0 {
		return
	}
	degree := f.Harmony.GetChordDegreeAt(sec.StartTick)
	tones := theory.TriadPitchClasses(degree, theory.ExtNone)
	for i, pc := range tones {
		emitAuxNote(f, track, sec.StartTick+uint32(i*240), 200, pc+register, 75)
	}
}

// generateMotifCounter is the richest aux function: at each counter-
// rhythm onset, it queries the chord degree, builds chord-tone pitch
// classes, prefers contrary/oblique motion against the vocal, and rejects
// any candidate that would create a minor-2nd or tritone with the vocal,
// bass, or chord at that tick.
func generateMotifCounter(f *NoteFactory, s *song.Song, track *song.Track, sec arrangement.Section, register int) {
	vocalTrack := s.Track(song.RoleVocal)
	prevPitch := register

	for bar := 0; bar < sec.Bars; bar++ {
		barStart := sec.StartTick + uint32(bar)*arrangement.TicksPerBar
		for beat := 0; beat < 4; beat += 2 {
			tick := barStart + uint32(beat)*arrangement.TicksPerBeat
			degree := f.Harmony.GetChordDegreeAt(tick)
			tones := theory.TriadPitchClasses(degree, theory.ExtNone)

			vocalDir := vocalDirectionAt(vocalTrack, tick)
			best := prevPitch
			bestScore := -1
			for _, pc := range tones {
				for oct := -1; oct <= 1; oct++ {
					candidate := pc + register + oct*12
					if !f.Harmony.IsPitchSafe(uint8(clampPitch(candidate)), tick, 240, song.RoleAux) {
						continue
					}
					motion := candidate - prevPitch
					score := motionScore(motion, vocalDir)
					if score > bestScore {
						bestScore = score
						best = candidate
					}
				}
			}

			if bestScore >= 0 { // motionScore is never negative, so a safe candidate was found
				emitAuxNote(f, track, tick, 220, best, 70)
				prevPitch = best
			}
		}
	}
}

// vocalDirectionAt returns +1/-1/0 for the vocal's melodic direction
// leading into tick, used to bias the counter-line toward contrary
// motion.
func vocalDirectionAt(vocalTrack *song.Track, tick uint32) int {
	var prev, cur int = -1, -1
	for _, n := range vocalTrack.Notes {
		if n.StartTick <= tick {
			prev = cur
			cur = int(n.Pitch)
		}
	}
	if prev == -1 || cur == -1 {
		return 0
	}
	if cur > prev {
		return 1
	}
	if cur < prev {
		return -1
	}
	return 0
}

// motionScore prefers contrary motion (counter moves opposite the vocal)
// and, failing that, oblique motion (counter stays still).
func motionScore(motion, vocalDir int) int {
	counterDir := 0
	if motion > 0 {
		counterDir = 1
	} else if motion < 0 {
		counterDir = -1
	}
	if vocalDir != 0 && counterDir == -vocalDir {
		return 2
	}
	if counterDir == 0 {
		return 1
	}
	return 0
}

func clampPitch(p int) int {
	if p < 0 {
		return 0
	}
	if p > 127 {
		return 127
	}
	return p
}

func emitAuxNote(f *NoteFactory, track *song.Track, start, dur uint32, pitch int, vel uint8) {
	pitch = clampPitch(pitch)
	f.Select(song.RoleAux, song.SourceAuxFunction).
		At(start, dur).WithPitch(uint8(pitch)).WithVelocity(vel).
		SkipOnCollision().
		AddTo(track)
}
