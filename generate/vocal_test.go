package generate

import (
	"testing"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
	"github.com/stretchr/testify/assert"
)

func TestComputeTessituraAppliesHeadroom(t *testing.T) {
	tess := computeTessitura(60, 80)
	assert.Greater(t, tess.Low, 60)
	assert.Less(t, tess.High, 80)
	assert.Equal(t, 70, tess.Center)
}

func TestGeneratePhraseRhythmEndsWithLongNote(t *testing.T) {
	arr, _, f := buildTestContext()
	_ = arr
	slots := generatePhraseRhythm(f, 8, MelodyTemplate{MaxConsecutiveShort: 3})
	assert.NotEmpty(t, slots)
	last := slots[len(slots)-1]
	assert.GreaterOrEqual(t, last.duration, uint32(480))
}

func TestChoosePitchEnforcesMaxMelodicInterval(t *testing.T) {
	arr, _, f := buildTestContext()
	_ = arr
	p := choosePitch(f, 60, theory.DegreeI, AttitudeClean, 480, 40, 90, false)
	diff := p - 60
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqual(t, diff, MaxMelodicInterval)
}

func TestClassifyCadenceStrongOnTonic(t *testing.T) {
	c := classifyCadence(0, theory.DegreeI, true, 480)
	assert.Equal(t, song.CadenceStrong, c)
}

func TestClassifyCadenceDeceptiveOnSixth(t *testing.T) {
	c := classifyCadence(9, theory.DegreeVI, true, 480)
	assert.Equal(t, song.CadenceDeceptive, c)
}

func TestGenerateVocalPopulatesPhraseBoundaries(t *testing.T) {
	arr, _, f := buildTestContext()
	s := song.NewSong(1)
	GenerateVocal(s, f, arr, 60, 79, false)
	assert.NotEmpty(t, s.Track(song.RoleVocal).Phrase)
}

func TestGenerateVocalStyledUltraVocaloidProducesNotes(t *testing.T) {
	arr, _, f := buildTestContext()
	s := song.NewSong(1)
	GenerateVocalStyled(s, f, arr, 60, 79, true, VocalStyleUltraVocaloid)
	assert.NotEmpty(t, s.Track(song.RoleVocal).Notes)
}

func TestPickMelodyTemplateUltraVocaloidEnablesMachineGun(t *testing.T) {
	tmpl := pickMelodyTemplate(VocalStyleUltraVocaloid, arrangement.SectionChorus)
	assert.GreaterOrEqual(t, tmpl.ThirtysecondRatio, 0.8)
	assert.Equal(t, 32, tmpl.MaxConsecutiveShort)

	standard := pickMelodyTemplate(VocalStyleStandard, arrangement.SectionChorus)
	assert.Less(t, standard.ThirtysecondRatio, 0.8)
}

func TestCandidateCountForSectionFavorsHookSections(t *testing.T) {
	assert.Equal(t, 5, candidateCountForSection(arrangement.SectionChorus))
	assert.Equal(t, 3, candidateCountForSection(arrangement.SectionIntro))
}

func TestExtractGlobalMotifBuildsIntervalSequence(t *testing.T) {
	p := Phrase{Notes: []PhraseNote{{RelPitch: 0}, {RelPitch: 2}, {RelPitch: -1}}}
	motif := extractGlobalMotif(p)
	assert.True(t, motif.Valid())
	assert.Equal(t, []int{2, -3}, motif.Intervals)
}

func TestExtractGlobalMotifInvalidOnShortPhrase(t *testing.T) {
	p := Phrase{Notes: []PhraseNote{{RelPitch: 0}}}
	motif := extractGlobalMotif(p)
	assert.False(t, motif.Valid())
}

func TestContourSimilarityScoresExactMatchFull(t *testing.T) {
	motif := GlobalMotif{Intervals: []int{2, -2}}
	p := Phrase{Notes: []PhraseNote{{RelPitch: 0}, {RelPitch: 2}, {RelPitch: 0}}}
	assert.Equal(t, 1.0, contourSimilarity(p, motif))
}

func TestContourSimilarityZeroOnEmptyMotif(t *testing.T) {
	p := Phrase{Notes: []PhraseNote{{RelPitch: 0}, {RelPitch: 2}}}
	assert.Equal(t, 0.0, contourSimilarity(p, GlobalMotif{}))
}

func TestApplyTransitionApproachLiftsIntoChorus(t *testing.T) {
	tess := Tessitura{Low: 50, High: 90, Center: 70}
	p := Phrase{Notes: []PhraseNote{{RelPitch: 0}, {RelPitch: 0}}}
	applyTransitionApproach(&p, arrangement.SectionA, arrangement.SectionChorus, tess)
	assert.Equal(t, 2, p.Notes[1].RelPitch)
}

func TestApplyTransitionApproachSettlesIntoOutro(t *testing.T) {
	tess := Tessitura{Low: 50, High: 90, Center: 70}
	p := Phrase{Notes: []PhraseNote{{RelPitch: 0}, {RelPitch: 0}}}
	applyTransitionApproach(&p, arrangement.SectionChorus, arrangement.SectionOutro, tess)
	assert.Equal(t, -2, p.Notes[1].RelPitch)
}

func TestApplyTransitionApproachNoopWhenNotesEmpty(t *testing.T) {
	tess := Tessitura{Low: 50, High: 90, Center: 70}
	p := Phrase{}
	applyTransitionApproach(&p, arrangement.SectionA, arrangement.SectionChorus, tess)
	assert.Empty(t, p.Notes)
}

func TestRepetitionPenaltyCountsIdenticalPitches(t *testing.T) {
	p := Phrase{Notes: []PhraseNote{{RelPitch: 0}, {RelPitch: 0}, {RelPitch: 5}}}
	assert.InDelta(t, 0.5, repetitionPenalty(p), 1e-9)
}

func TestSingabilityScorePenalizesLargeLeaps(t *testing.T) {
	p := Phrase{Notes: []PhraseNote{{RelPitch: 0}, {RelPitch: 20}}}
	assert.Equal(t, 0.0, singabilityScore(p))
}

func TestGenerateSectionWithEvaluationStaysWithinTessitura(t *testing.T) {
	arr, _, f := buildTestContext()
	sec := arr.Sections[0]
	tess := computeTessitura(60, 84)
	tmpl := pickMelodyTemplate(VocalStyleStandard, sec.Type)
	phrase := generateSectionWithEvaluation(f, sec, tess, tess.Center, false, tmpl, 3, GlobalMotif{})
	assert.NotEmpty(t, phrase.Notes)
	for _, n := range phrase.Notes {
		pitch := tess.Center + n.RelPitch
		assert.GreaterOrEqual(t, pitch, tess.Low)
		assert.LessOrEqual(t, pitch, tess.High)
	}
}
