// Package config holds the engine's plain-struct input surface
// (GeneratorParams, spec.md §6.1) and its YAML preset loader, adapted
// from the teacher's parser package (parser.LoadTrack reads a BTML
// file via gopkg.in/yaml.v3 and fills in defaults after Unmarshal;
// GeneratorParams presets follow the same read-then-default shape).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/generate"
	"github.com/ako-music/songforge/theory"
)

// Key is the song's target key as a pitch class (0=C .. 11=B). It is
// recorded on the song and in the MIDI metadata and used for tablature
// chord names; the MIDI writers emit notes in C and do not transpose them.
type Key int

const (
	KeyC Key = iota
	KeyCSharp
	KeyD
	KeyDSharp
	KeyE
	KeyF
	KeyFSharp
	KeyG
	KeyGSharp
	KeyA
	KeyASharp
	KeyB
)

var keyNames = [...]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

func (k Key) String() string {
	if int(k) < 0 || int(k) >= len(keyNames) {
		return "Unknown"
	}
	return keyNames[k]
}

func parseKey(name string) (Key, bool) {
	for i, n := range keyNames {
		if n == name {
			return Key(i), true
		}
	}
	// Fall back to theory.NoteToMidi so flat spellings ("Bb", "Db", ...)
	// resolve too, not just the canonical sharp names; still reject
	// anything that isn't a recognizable note letter.
	if len(name) == 0 || name[0] < 'A' || name[0] > 'G' {
		return 0, false
	}
	return Key(theory.NoteToMidi(name)), true
}

// CompositionStyle picks the fixed RNG-consumption order the pipeline
// runs generators in (spec.md §5: "Generators consume the RNG in a
// fixed order ... the chosen order is part of the deterministic
// contract for that composition style").
type CompositionStyle int

const (
	StyleMelodyLead CompositionStyle = iota
	StyleBackgroundMotif
	StyleSynthDriven
)

func (c CompositionStyle) String() string {
	switch c {
	case StyleMelodyLead:
		return "MelodyLead"
	case StyleBackgroundMotif:
		return "BackgroundMotif"
	case StyleSynthDriven:
		return "SynthDriven"
	default:
		return "Unknown"
	}
}

func parseCompositionStyle(name string) (CompositionStyle, bool) {
	for _, s := range []CompositionStyle{StyleMelodyLead, StyleBackgroundMotif, StyleSynthDriven} {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// ModulationTiming names when (if ever) the song key-changes.
type ModulationTiming int

const (
	ModulationNone ModulationTiming = iota
	ModulationLastChorus
	ModulationBridge
)

func (m ModulationTiming) String() string {
	switch m {
	case ModulationLastChorus:
		return "LastChorus"
	case ModulationBridge:
		return "Bridge"
	default:
		return "None"
	}
}

func parseModulationTiming(name string) (ModulationTiming, bool) {
	for _, m := range []ModulationTiming{ModulationNone, ModulationLastChorus, ModulationBridge} {
		if m.String() == name {
			return m, true
		}
	}
	return 0, false
}

func parseArrangementGrowth(name string) (generate.ArrangementGrowth, bool) {
	for _, g := range []generate.ArrangementGrowth{generate.GrowthFlat, generate.GrowthRegisterAdd} {
		if g.String() == name {
			return g, true
		}
	}
	return 0, false
}

func parseVocalStyle(name string) (generate.VocalStyle, bool) {
	for _, v := range []generate.VocalStyle{generate.VocalStyleStandard, generate.VocalStyleUltraVocaloid} {
		if v.String() == name {
			return v, true
		}
	}
	return 0, false
}

// ChordExtensionConfig controls how often GenerateChord reaches for
// sus/7th/9th voicings beyond a plain triad.
type ChordExtensionConfig struct {
	EnableSus          bool    `yaml:"enable_sus"`
	EnableSeventh      bool    `yaml:"enable_7th"`
	EnableNinth        bool    `yaml:"enable_9th"`
	SusProbability     float64 `yaml:"sus_probability"`
	SeventhProbability float64 `yaml:"seventh_probability"`
	NinthProbability   float64 `yaml:"ninth_probability"`
}

// ArpeggioConfig mirrors the fields GenerateArpeggio consumes.
type ArpeggioConfig struct {
	Pattern      generate.ArpeggioPattern `yaml:"-"`
	PatternName  string                   `yaml:"pattern"`
	Speed        generate.ArpeggioSpeed   `yaml:"-"`
	SpeedName    string                   `yaml:"speed"`
	OctaveRange  int                      `yaml:"octave_range"`
	Gate         float64                  `yaml:"gate"`
	SyncChord    bool                     `yaml:"sync_chord"`
	BaseVelocity uint8                    `yaml:"base_velocity"`
}

var arpeggioPatternNames = map[string]generate.ArpeggioPattern{
	"Up": generate.ArpUp, "Down": generate.ArpDown,
	"UpDown": generate.ArpUpDown, "Random": generate.ArpRandom,
}

var arpeggioSpeedNames = map[string]generate.ArpeggioSpeed{
	"Eighth": generate.SpeedEighth, "Sixteenth": generate.SpeedSixteenth,
	"Triplet": generate.SpeedTriplet,
}

func (a *ArpeggioConfig) resolve() error {
	if a.PatternName == "" {
		a.Pattern = generate.ArpUp
	} else if p, ok := arpeggioPatternNames[a.PatternName]; ok {
		a.Pattern = p
	} else {
		return fmt.Errorf("unknown arpeggio pattern %q", a.PatternName)
	}
	if a.SpeedName == "" {
		a.Speed = generate.SpeedEighth
	} else if sp, ok := arpeggioSpeedNames[a.SpeedName]; ok {
		a.Speed = sp
	} else {
		return fmt.Errorf("unknown arpeggio speed %q", a.SpeedName)
	}
	return nil
}

// GeneratorParams is the engine's complete configuration surface, per
// spec.md §6.1. Enum fields are decoded from their String() names via
// YAML `...Name` shadow fields and resolved by Normalize.
type GeneratorParams struct {
	StructureName string `yaml:"structure"`
	MoodName      string `yaml:"mood"`
	ChordID       int    `yaml:"chord_id"`
	KeyName       string `yaml:"key"`

	VocalLow  uint8 `yaml:"vocal_low"`
	VocalHigh uint8 `yaml:"vocal_high"`

	BPM  uint16 `yaml:"bpm"`
	Seed uint32 `yaml:"seed"`

	DrumsEnabled    bool `yaml:"drums_enabled"`
	ArpeggioEnabled bool `yaml:"arpeggio_enabled"`
	Humanize        bool `yaml:"humanize"`

	CompositionStyleName string `yaml:"composition_style"`

	ModulationTimingName string `yaml:"modulation_timing"`
	ModulationSemitones  int8   `yaml:"modulation_semitones"`

	ArrangementGrowthName string `yaml:"arrangement_growth"`

	VocalStyleName string `yaml:"vocal_style"`

	ChordExtension ChordExtensionConfig `yaml:"chord_extension"`
	Arpeggio       ArpeggioConfig       `yaml:"arpeggio"`

	Structure         arrangement.StructurePattern `yaml:"-"`
	Mood              arrangement.Mood             `yaml:"-"`
	Key               Key                          `yaml:"-"`
	CompositionStyle  CompositionStyle             `yaml:"-"`
	ModulationTiming  ModulationTiming              `yaml:"-"`
	ArrangementGrowth generate.ArrangementGrowth    `yaml:"-"`
	VocalStyle        generate.VocalStyle           `yaml:"-"`
}

// Default returns a GeneratorParams with spec-sane defaults (ShortForm
// structure, Ballad mood, chord progression 0, key of C, two-octave vocal
// range (60-84), drums+arpeggio+humanize on, MelodyLead style, no modulation).
func Default() GeneratorParams {
	return GeneratorParams{
		Structure:        arrangement.StructureShortForm,
		Mood:             arrangement.MoodBallad,
		ChordID:          0,
		Key:              KeyC,
		VocalLow:         60,
		VocalHigh:        84,
		DrumsEnabled:     true,
		ArpeggioEnabled:  true,
		Humanize:         true,
		CompositionStyle:  StyleMelodyLead,
		ModulationTiming:  ModulationNone,
		ArrangementGrowth: generate.GrowthFlat,
		VocalStyle:        generate.VocalStyleStandard,
		Arpeggio:         ArpeggioConfig{Pattern: generate.ArpUp, Speed: generate.SpeedEighth, OctaveRange: 1, Gate: 0.8, BaseVelocity: 80},
	}
}

// LoadParams reads and parses a YAML preset file, following the
// teacher's parser.LoadTrack shape: read the whole file, yaml.Unmarshal
// into the struct, then fill in defaults/resolve enum names.
func LoadParams(filename string) (GeneratorParams, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return GeneratorParams{}, err
	}

	params := Default()
	if err := yaml.Unmarshal(data, &params); err != nil {
		return GeneratorParams{}, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if err := params.Normalize(); err != nil {
		return GeneratorParams{}, fmt.Errorf("normalizing %s: %w", filename, err)
	}
	return params, nil
}

// Normalize resolves every `...Name` YAML shadow field into its typed
// enum value, applies spec.md §6.1's clamping/defaulting rules (BPM 0 =
// default-by-mood, vocal range auto-normalized, low > high swapped rather
// than rejected), and validates chord_id. A seed of 0 is left as is; the
// engine resolves it.
func (p *GeneratorParams) Normalize() error {
	if p.StructureName != "" {
		s, ok := arrangement.ParseStructurePattern(p.StructureName)
		if !ok {
			return fmt.Errorf("unknown structure %q", p.StructureName)
		}
		p.Structure = s
	}
	if p.MoodName != "" {
		m, ok := arrangement.ParseMood(p.MoodName)
		if !ok {
			return fmt.Errorf("unknown mood %q", p.MoodName)
		}
		p.Mood = m
	}
	if p.KeyName != "" {
		k, ok := parseKey(p.KeyName)
		if !ok {
			return fmt.Errorf("unknown key %q", p.KeyName)
		}
		p.Key = k
	}
	if p.CompositionStyleName != "" {
		c, ok := parseCompositionStyle(p.CompositionStyleName)
		if !ok {
			return fmt.Errorf("unknown composition style %q", p.CompositionStyleName)
		}
		p.CompositionStyle = c
	}
	if p.ModulationTimingName != "" {
		mt, ok := parseModulationTiming(p.ModulationTimingName)
		if !ok {
			return fmt.Errorf("unknown modulation timing %q", p.ModulationTimingName)
		}
		p.ModulationTiming = mt
	}
	if p.ArrangementGrowthName != "" {
		g, ok := parseArrangementGrowth(p.ArrangementGrowthName)
		if !ok {
			return fmt.Errorf("unknown arrangement growth %q", p.ArrangementGrowthName)
		}
		p.ArrangementGrowth = g
	}
	if p.VocalStyleName != "" {
		v, ok := parseVocalStyle(p.VocalStyleName)
		if !ok {
			return fmt.Errorf("unknown vocal style %q", p.VocalStyleName)
		}
		p.VocalStyle = v
	}
	if err := p.Arpeggio.resolve(); err != nil {
		return err
	}

	if p.ChordID < 0 || p.ChordID > 21 {
		return fmt.Errorf("chord_id %d out of range [0,21]", p.ChordID)
	}
	if p.VocalLow > p.VocalHigh {
		p.VocalLow, p.VocalHigh = p.VocalHigh, p.VocalLow
	}
	if p.VocalLow < 36 {
		p.VocalLow = 36
	}
	if p.VocalHigh > 96 {
		p.VocalHigh = 96
	}
	if p.BPM == 0 {
		p.BPM = defaultBPMForMood(p.Mood)
	}
	return nil
}

// defaultBPMForMood gives every mood a sane tempo when bpm=0. The
// grouping follows the mood families original_source/src/core/
// mood_utils.h classifies moods into (ballad/sparse, dance-oriented,
// rock, synth-oriented) rather than an explicit per-mood BPM table,
// which the original doesn't define either.
func defaultBPMForMood(m arrangement.Mood) uint16 {
	switch m {
	case arrangement.MoodBallad, arrangement.MoodChill, arrangement.MoodCinematic, arrangement.MoodAmbient:
		return 72
	case arrangement.MoodEnergeticDance, arrangement.MoodIdolPop, arrangement.MoodFutureBass, arrangement.MoodTrap:
		return 128
	case arrangement.MoodRockAnthem, arrangement.MoodFunk:
		return 120
	case arrangement.MoodLoFi:
		return 84
	default:
		return 100
	}
}
