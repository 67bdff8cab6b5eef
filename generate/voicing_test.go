package generate

import (
	"testing"

	"github.com/ako-music/songforge/theory"
	"github.com/stretchr/testify/assert"
)

func TestBuildVoicingCloseStaysWithinOctaveOfBase(t *testing.T) {
	v := BuildVoicing(theory.DegreeI, theory.ExtNone, VoicingClose, 60, nil)
	assert.Len(t, v.Pitches, 3)
	for _, p := range v.Pitches {
		assert.GreaterOrEqual(t, p, 60)
		assert.Less(t, p, 72)
	}
}

func TestBuildVoicingOpenDrop2LowersSecondFromTop(t *testing.T) {
	close := BuildVoicing(theory.DegreeI, theory.ExtNone, VoicingClose, 60, nil)
	drop2 := BuildVoicing(theory.DegreeI, theory.ExtNone, VoicingOpenDrop2, 60, nil)
	assert.NotEqual(t, close.Pitches, drop2.Pitches)
}

func TestBuildVoicingRootlessOmitsRootPitchClass(t *testing.T) {
	v := BuildVoicing(theory.DegreeV, theory.ExtDom7, VoicingRootless, 60, map[int]bool{})
	root := theory.DegreeRoot(theory.DegreeV)
	for _, p := range v.Pitches {
		assert.NotEqual(t, root, p%12)
	}
}

func TestScoreVoicingRewardsCommonTonesAndPenalizesMovement(t *testing.T) {
	prev := VoicedChord{Pitches: []int{60, 64, 67}}
	same := VoicedChord{Pitches: []int{60, 64, 67}}
	moved := VoicedChord{Pitches: []int{61, 65, 68}}

	scoreSame := scoreVoicing(prev, same, VoicingClose, false, 100)
	scoreMoved := scoreVoicing(prev, moved, VoicingClose, false, 100)
	assert.Greater(t, scoreSame, scoreMoved)
}
