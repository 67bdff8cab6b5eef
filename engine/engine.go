// Package engine wires the leaf packages (theory, arrangement, harmony,
// generate, postprocess) into the single top-level entry point spec.md §2
// describes: GeneratorParams -> Arrangement -> HarmonyContext.init ->
// planSecondaryDominants -> per-track generators in composition-style
// order -> PostProcess -> Song. It lives above config (which config
// itself cannot depend on, since config is imported by generate's
// siblings) so it is the only package importing both config and every
// generator package.
package engine

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/config"
	"github.com/ako-music/songforge/generate"
	"github.com/ako-music/songforge/harmony"
	"github.com/ako-music/songforge/postprocess"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// auxFunctionForMood picks a default aux behavior so a bare GeneratorParams
// (no explicit aux selection exists in spec.md §6.1's input surface) still
// exercises the aux generator; moods that favor a held texture get the
// pad, busier moods get the counter-melody.
func auxFunctionForMood(m arrangement.Mood) generate.AuxFunction {
	switch m {
	case arrangement.MoodBallad, arrangement.MoodChill, arrangement.MoodCinematic, arrangement.MoodAmbient:
		return generate.AuxEmotionalPad
	case arrangement.MoodEnergeticDance, arrangement.MoodIdolPop, arrangement.MoodYoasobi, arrangement.MoodFutureBass:
		return generate.AuxMotifCounter
	default:
		return generate.AuxHarmony
	}
}

// bassLow/bassHigh and chordLow/chordHigh are the MIDI pitch windows spec.md §3's
// invariant table assigns to the Bass and Chord roles.
const (
	bassLow, bassHigh   = 36, 55
	chordLow, chordHigh = 48, 84
)

// resolvedSeed returns params.Seed, or a wall-clock-derived seed when it
// is 0, per spec.md §6.1 ("seed: u32 (0 = wall-clock)").
func resolvedSeed(params config.GeneratorParams) uint32 {
	if params.Seed != 0 {
		return params.Seed
	}
	return uint32(time.Now().UnixNano())
}

// GenerateSong runs the complete pipeline for params and returns the
// finished, post-processed Song. This is the module's single point of
// integration: every package below it is exercised from here in the
// order spec.md §2 and §5 describe.
func GenerateSong(params config.GeneratorParams) *song.Song {
	seed := resolvedSeed(params)
	rng := rand.New(rand.NewSource(int64(seed)))

	prog := theory.ProgressionByID(params.ChordID)
	arr := arrangement.Build(params.Structure, prog, params.Mood)

	ctx := harmony.NewContext(arr)
	harmony.PlanSecondaryDominants(arr, rng, ctx)

	s := song.NewSong(seed)
	s.ID = uuid.New().String()
	s.Title = params.Mood.String() + " " + params.Structure.String()
	s.Key = int(params.Key)
	s.BPM = int(params.BPM)
	s.Arrangement = arr

	f := generate.NewNoteFactory(ctx, rng)

	runGenerators(s, f, arr, params)
	applyModulation(s, arr, params)

	s.SortAll()

	postprocess.Run(s, arr, ctx, rng, postprocess.Options{
		VocalGroove:   vocalGrooveForStyle(params.CompositionStyle),
		Humanize:      params.Humanize,
		VelocityScale: 1.0,
	})

	s.SortAll()
	return s
}

// runGenerators dispatches to the fixed per-composition-style RNG-
// consumption order spec.md §5 requires ("the chosen order is part of the
// deterministic contract for that composition style"). MelodyLead runs
// the baseline Bass->Chord->Vocal->Aux->Arp->Drums order; BackgroundMotif
// generates and registers its motif first so later chord voicings avoid
// doubling it (spec.md §4.10's Motif Track paragraph, exercised by
// scenario S5); SynthDriven runs the melody-first variant spec.md §2
// names as an alternate flow, with Bass and Chord generated aware of the
// already-registered vocal track.
func runGenerators(s *song.Song, f *generate.NoteFactory, arr *arrangement.Arrangement, params config.GeneratorParams) {
	auxFn := auxFunctionForMood(params.Mood)

	switch params.CompositionStyle {
	case config.StyleBackgroundMotif:
		generate.GenerateMotif(s, f, arr, 60)
		f.Harmony.RegisterTrack(s.Track(song.RoleMotif), song.RoleMotif)

		generate.GenerateBass(s, f, arr, bassLow, bassHigh, params.DrumsEnabled)
		f.Harmony.RegisterTrack(s.Track(song.RoleBass), song.RoleBass)

		generate.GenerateChord(s, f, arr, chordLow, params.ArrangementGrowth)
		f.Harmony.RegisterTrack(s.Track(song.RoleChord), song.RoleChord)

		generate.GenerateVocalStyled(s, f, arr, int(params.VocalLow), int(params.VocalHigh), false, params.VocalStyle)
		f.Harmony.RegisterTrack(s.Track(song.RoleVocal), song.RoleVocal)

		generate.GenerateAux(s, f, arr, auxFn, 60)
		f.Harmony.RegisterTrack(s.Track(song.RoleAux), song.RoleAux)

	case config.StyleSynthDriven:
		generate.GenerateVocalStyled(s, f, arr, int(params.VocalLow), int(params.VocalHigh), true, params.VocalStyle)
		f.Harmony.RegisterTrack(s.Track(song.RoleVocal), song.RoleVocal)

		generate.GenerateBassVocalAware(s, f, arr, bassLow, bassHigh, params.DrumsEnabled)
		f.Harmony.RegisterTrack(s.Track(song.RoleBass), song.RoleBass)

		generate.GenerateChord(s, f, arr, chordLow, params.ArrangementGrowth)
		f.Harmony.RegisterTrack(s.Track(song.RoleChord), song.RoleChord)

		generate.GenerateAux(s, f, arr, auxFn, 60)
		f.Harmony.RegisterTrack(s.Track(song.RoleAux), song.RoleAux)

	default: // StyleMelodyLead
		generate.GenerateBass(s, f, arr, bassLow, bassHigh, params.DrumsEnabled)
		f.Harmony.RegisterTrack(s.Track(song.RoleBass), song.RoleBass)

		generate.GenerateChord(s, f, arr, chordLow, params.ArrangementGrowth)
		f.Harmony.RegisterTrack(s.Track(song.RoleChord), song.RoleChord)

		generate.GenerateVocalStyled(s, f, arr, int(params.VocalLow), int(params.VocalHigh), false, params.VocalStyle)
		f.Harmony.RegisterTrack(s.Track(song.RoleVocal), song.RoleVocal)

		generate.GenerateAux(s, f, arr, auxFn, 60)
		f.Harmony.RegisterTrack(s.Track(song.RoleAux), song.RoleAux)
	}

	if params.ArpeggioEnabled {
		bgmOnly := params.CompositionStyle == config.StyleSynthDriven || params.CompositionStyle == config.StyleBackgroundMotif
		generate.GenerateArpeggio(s, f, arr, 72, params.Arpeggio.OctaveRange, params.Arpeggio.Speed,
			params.Arpeggio.Gate, params.Arpeggio.Pattern, bgmOnly)
		f.Harmony.RegisterTrack(s.Track(song.RoleArpeggio), song.RoleArpeggio)
	}

	if params.DrumsEnabled {
		generate.GenerateDrums(s, f, arr)
	}
}

// vocalGrooveForStyle gives SynthDriven's machine-built vocal a stiffer,
// 16th-driven groove and the other two styles the ordinary off-beat push.
func vocalGrooveForStyle(style config.CompositionStyle) postprocess.GrooveStyle {
	if style == config.StyleSynthDriven {
		return postprocess.GrooveDriving16th
	}
	return postprocess.GrooveOffBeat
}

// applyModulation resolves the modulation tick for params.ModulationTiming
// and stamps it onto the song; the transposition itself only happens at
// MIDI emission time (midiio), never here, per spec.md §6.2's "applied
// once at emission time, never internally" rule.
func applyModulation(s *song.Song, arr *arrangement.Arrangement, params config.GeneratorParams) {
	if params.ModulationTiming == config.ModulationNone || params.ModulationSemitones == 0 {
		return
	}
	var tick uint32
	var found bool
	switch params.ModulationTiming {
	case config.ModulationLastChorus:
		for i := len(arr.Sections) - 1; i >= 0; i-- {
			if arr.Sections[i].Type == arrangement.SectionChorus {
				tick = arr.Sections[i].StartTick
				found = true
				break
			}
		}
	case config.ModulationBridge:
		for _, sec := range arr.Sections {
			if sec.Type == arrangement.SectionBridge {
				tick = sec.StartTick
				found = true
				break
			}
		}
	}
	if !found {
		return
	}
	s.ModulationTick = tick
	s.ModulationAmount = params.ModulationSemitones
	s.ModulationApplied = true
}
