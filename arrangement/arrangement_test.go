package arrangement

import (
	"testing"

	"github.com/ako-music/songforge/theory"
	"github.com/stretchr/testify/assert"
)

func TestBuildProducesGaplessArrangement(t *testing.T) {
	prog := theory.ProgressionByID(0)
	a := Build(StructureStandardPop, prog, MoodIdolPop)
	assert.True(t, a.validate())
	assert.NotEmpty(t, a.Sections)
}

func TestSectionAtFindsContainingSection(t *testing.T) {
	prog := theory.ProgressionByID(0)
	a := Build(StructureShortForm, prog, MoodBallad)

	first := a.Sections[0]
	sec, idx := a.SectionAt(first.StartTick)
	assert.Equal(t, 0, idx)
	assert.Equal(t, first.Type, sec.Type)

	total := a.TotalTicks()
	secLast, idxLast := a.SectionAt(total + 1000)
	assert.Equal(t, len(a.Sections)-1, idxLast)
	assert.Equal(t, a.Sections[len(a.Sections)-1].Type, secLast.Type)
}

func TestTrackMaskDropsVocalOnInstrumentalSections(t *testing.T) {
	assert.False(t, trackMaskFor(SectionIntro).Has(MaskVocal))
	assert.True(t, trackMaskFor(SectionA).Has(MaskVocal))
}

func TestHarmonicRhythmForFallsBackToDefault(t *testing.T) {
	rhythm, subdiv := HarmonicRhythmFor(SectionA, MoodFunk)
	assert.Equal(t, RhythmNormal, rhythm)
	assert.Equal(t, SubdivHalf, subdiv)
}

func TestHarmonicRhythmForUsesTableEntry(t *testing.T) {
	rhythm, subdiv := HarmonicRhythmFor(SectionChorus, MoodYoasobi)
	assert.Equal(t, RhythmDense, rhythm)
	assert.Equal(t, SubdivEighth, subdiv)
}

func TestShouldSplitPhraseEndNeverSplitsLastBar(t *testing.T) {
	assert.False(t, ShouldSplitPhraseEnd(SectionChorus, MoodIdolPop, RhythmDense, 7, 8, 4))
}

func TestShouldSplitPhraseEndEveryFourthBar(t *testing.T) {
	assert.True(t, ShouldSplitPhraseEnd(SectionA, MoodBallad, RhythmDense, 3, 8, 4))
}

func TestShouldSplitPhraseEndRequiresDenseRhythm(t *testing.T) {
	assert.False(t, ShouldSplitPhraseEnd(SectionA, MoodBallad, RhythmNormal, 3, 8, 4))
	assert.False(t, ShouldSplitPhraseEnd(SectionA, MoodBallad, RhythmSlow, 3, 8, 4))
}

func TestShouldSplitPhraseEndDenseChorusExtra(t *testing.T) {
	assert.True(t, ShouldSplitPhraseEnd(SectionChorus, MoodEnergeticDance, RhythmDense, 2, 8, 5))
	assert.False(t, ShouldSplitPhraseEnd(SectionChorus, MoodBallad, RhythmDense, 2, 8, 5))
}

func TestSectionTensionKnownAndFallback(t *testing.T) {
	assert.Equal(t, 0.75, SectionTension(SectionChorus))
	assert.Equal(t, 0.45, SectionTension(SectionType(999)))
}
