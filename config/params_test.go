package config

import (
	"os"
	"testing"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/generate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultNormalizesCleanly(t *testing.T) {
	p := Default()
	require.NoError(t, p.Normalize())
	assert.Equal(t, arrangement.StructureShortForm, p.Structure)
	assert.Equal(t, arrangement.MoodBallad, p.Mood)
}

func TestNormalizeSwapsInvertedVocalRange(t *testing.T) {
	p := Default()
	p.VocalLow, p.VocalHigh = 80, 60
	require.NoError(t, p.Normalize())
	assert.LessOrEqual(t, p.VocalLow, p.VocalHigh)
}

func TestNormalizeRejectsOutOfRangeChordID(t *testing.T) {
	p := Default()
	p.ChordID = 99
	assert.Error(t, p.Normalize())
}

func TestNormalizeFillsBPMFromMoodWhenZero(t *testing.T) {
	p := Default()
	p.Mood = arrangement.MoodEnergeticDance
	p.BPM = 0
	require.NoError(t, p.Normalize())
	assert.Equal(t, uint16(128), p.BPM)
}

func TestNormalizeResolvesStringNames(t *testing.T) {
	p := Default()
	p.StructureName = "AABA"
	p.MoodName = "Synthwave"
	p.KeyName = "F#"
	p.CompositionStyleName = "SynthDriven"
	p.ModulationTimingName = "Bridge"
	p.ArrangementGrowthName = "RegisterAdd"
	p.VocalStyleName = "UltraVocaloid"
	require.NoError(t, p.Normalize())
	assert.Equal(t, arrangement.StructureAABA, p.Structure)
	assert.Equal(t, arrangement.MoodSynthwave, p.Mood)
	assert.Equal(t, KeyFSharp, p.Key)
	assert.Equal(t, StyleSynthDriven, p.CompositionStyle)
	assert.Equal(t, ModulationBridge, p.ModulationTiming)
	assert.Equal(t, generate.GrowthRegisterAdd, p.ArrangementGrowth)
	assert.Equal(t, generate.VocalStyleUltraVocaloid, p.VocalStyle)
}

func TestNormalizeRejectsUnknownArrangementGrowthName(t *testing.T) {
	p := Default()
	p.ArrangementGrowthName = "Nonexistent"
	assert.Error(t, p.Normalize())
}

func TestNormalizeRejectsUnknownVocalStyleName(t *testing.T) {
	p := Default()
	p.VocalStyleName = "Nonexistent"
	assert.Error(t, p.Normalize())
}

func TestNormalizeRejectsUnknownEnumName(t *testing.T) {
	p := Default()
	p.MoodName = "Nonexistent"
	assert.Error(t, p.Normalize())
}

func TestArpeggioConfigResolvesPatternAndSpeedNames(t *testing.T) {
	p := Default()
	p.Arpeggio.PatternName = "Down"
	p.Arpeggio.SpeedName = "Sixteenth"
	require.NoError(t, p.Normalize())
	assert.Equal(t, generate.ArpDown, p.Arpeggio.Pattern)
	assert.Equal(t, generate.SpeedSixteenth, p.Arpeggio.Speed)
}

func TestLoadParamsReadsYAMLFile(t *testing.T) {
	yamlContent := `
structure: StandardPop
mood: CityPop
chord_id: 3
key: "D"
bpm: 96
seed: 42
drums_enabled: true
arpeggio_enabled: false
composition_style: BackgroundMotif
arpeggio:
  pattern: Up
  speed: Eighth
`
	path := t.TempDir() + "/preset.yaml"
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	p, err := LoadParams(path)
	require.NoError(t, err)
	assert.Equal(t, arrangement.StructureStandardPop, p.Structure)
	assert.Equal(t, arrangement.MoodCityPop, p.Mood)
	assert.Equal(t, 3, p.ChordID)
	assert.Equal(t, KeyD, p.Key)
	assert.Equal(t, uint16(96), p.BPM)
	assert.Equal(t, uint32(42), p.Seed)
	assert.False(t, p.ArpeggioEnabled)
	assert.Equal(t, StyleBackgroundMotif, p.CompositionStyle)
}
