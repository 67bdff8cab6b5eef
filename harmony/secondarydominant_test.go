package harmony

import (
	"math/rand"
	"testing"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/theory"
	"github.com/stretchr/testify/assert"
)

func TestDominantDegreeForFollowsFifthAboveRoot(t *testing.T) {
	assert.Equal(t, theory.DegreeVI, dominantDegreeFor(theory.DegreeII))
	assert.Equal(t, theory.DegreeI, dominantDegreeFor(theory.DegreeIV))
	assert.Equal(t, theory.DegreeIII, dominantDegreeFor(theory.DegreeVI))
}

func TestSectionBoundaryDominantMapping(t *testing.T) {
	d, ok := sectionBoundaryDominant(theory.DegreeII)
	assert.True(t, ok)
	assert.Equal(t, theory.DegreeVI, d)

	d, ok = sectionBoundaryDominant(theory.DegreeIV)
	assert.True(t, ok)
	assert.Equal(t, theory.DegreeI, d)

	d, ok = sectionBoundaryDominant(theory.DegreeVI)
	assert.True(t, ok)
	assert.Equal(t, theory.DegreeIII, d)

	_, ok = sectionBoundaryDominant(theory.DegreeI)
	assert.False(t, ok)
}

func TestCheckSecondaryDominantRejectsIneligibleOrRedundant(t *testing.T) {
	_, ok := checkSecondaryDominant(theory.DegreeI, theory.DegreeI)
	assert.False(t, ok)

	dom, ok := checkSecondaryDominant(theory.DegreeI, theory.DegreeII)
	assert.True(t, ok)
	assert.Equal(t, theory.DegreeVI, dom)

	// degree already equals the computed dominant: no point reinserting
	_, ok = checkSecondaryDominant(theory.DegreeVI, theory.DegreeII)
	assert.False(t, ok)
}

func TestPlanSecondaryDominantsInsertsAtChorusBoundary(t *testing.T) {
	// Progression ending its prior section on ii (DegreeII) before a Chorus
	prog := theory.Progression{ID: 0, Name: "test", Degrees: []theory.Degree{theory.DegreeI, theory.DegreeII}}
	arr := arrangement.Build(arrangement.StructureShortForm, prog, arrangement.MoodBallad)
	ctx := NewContext(arr)
	rng := rand.New(rand.NewSource(1))

	PlanSecondaryDominants(arr, rng, ctx)

	// find the Chorus section and confirm a secondary dominant was inserted
	// in the half bar leading into it
	var chorusStart uint32 = 0
	for _, sec := range arr.Sections {
		if sec.Type == arrangement.SectionChorus {
			chorusStart = sec.StartTick
			break
		}
	}
	assert.NotZero(t, chorusStart)

	found := false
	for _, sp := range ctx.timeline.spans {
		if sp.End == chorusStart && sp.Start == chorusStart-uint32(arrangement.TicksPerBar/2) {
			found = true
		}
	}
	assert.True(t, found, "expected a secondary dominant span ending exactly at the chorus boundary")
}
