package harmony

import (
	"math/rand"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/theory"
)

// eligibleSecondaryDominantTargets is the set of degrees a secondary
// dominant can resolve to; I, vii°, and the borrowed degrees are excluded.
var eligibleSecondaryDominantTargets = map[theory.Degree]bool{
	theory.DegreeII:  true,
	theory.DegreeIII: true,
	theory.DegreeIV:  true,
	theory.DegreeV:   true,
	theory.DegreeVI:  true,
}

// basicDegrees is the search space for dominantDegreeFor: the seven
// diatonic scale degrees, each keyed by its root pitch class.
var basicDegrees = []theory.Degree{
	theory.DegreeI, theory.DegreeII, theory.DegreeIII, theory.DegreeIV,
	theory.DegreeV, theory.DegreeVI, theory.DegreeVII,
}

// dominantDegreeFor finds the diatonic degree whose root is a perfect
// fifth above target's root — the secondary dominant's root, reused as an
// existing degree label so the chord timeline stays within the fixed
// degree table (the planner only needs the root right for collision
// purposes; the chord generator decides the actual voiced quality).
func dominantDegreeFor(target theory.Degree) theory.Degree {
	want := (theory.DegreeRoot(target) + 7) % 12
	for _, d := range basicDegrees {
		if theory.DegreeRoot(d) == want {
			return d
		}
	}
	return target
}

// checkSecondaryDominant decides whether the bar ending on `next` is a
// candidate for an RNG-gated within-section secondary dominant: next must
// be a degree with a usable dominant, and the dominant must differ from
// the chord already sounding (no point re-announcing the current chord).
func checkSecondaryDominant(degree, next theory.Degree) (dominant theory.Degree, shouldInsert bool) {
	if !eligibleSecondaryDominantTargets[next] {
		return 0, false
	}
	dom := dominantDegreeFor(next)
	if dom == degree {
		return 0, false
	}
	return dom, true
}

// sectionBoundaryDominant implements the deterministic rule: a Chorus
// preceded by a section whose last bar sat on ii, IV, or vi gets a
// secondary dominant inserted over the half-bar leading into it.
func sectionBoundaryDominant(prevLastDegree theory.Degree) (theory.Degree, bool) {
	switch prevLastDegree {
	case theory.DegreeII:
		return theory.DegreeVI, true
	case theory.DegreeIV:
		return theory.DegreeI, true
	case theory.DegreeVI:
		return theory.DegreeIII, true
	default:
		return 0, false
	}
}

// PlanSecondaryDominants walks the arrangement bar by bar and registers
// secondary dominants into ctx's chord timeline: a deterministic
// section-boundary insertion ahead of a qualifying Chorus, and an
// RNG-gated within-section insertion driven by each section's base
// tension. Must run immediately after NewContext and before any track
// generation, so every generator observes the same augmented timeline.
func PlanSecondaryDominants(arr *arrangement.Arrangement, rng *rand.Rand, ctx *Context) {
	degrees := arr.Progression.Degrees
	progLen := len(degrees)
	if progLen == 0 {
		return
	}

	var prevLastDegree theory.Degree

	for secIdx, sec := range arr.Sections {
		if secIdx > 0 && sec.Type == arrangement.SectionChorus {
			if domDegree, ok := sectionBoundaryDominant(prevLastDegree); ok {
				tickHalf := uint32(arrangement.TicksPerBar / 2)
				insertStart := sec.StartTick - tickHalf
				ctx.RegisterSecondaryDominant(insertStart, sec.StartTick, domDegree)
			}
		}

		tension := arrangement.SectionTension(sec.Type)

		for bar := 0; bar < sec.Bars; bar++ {
			barStart := sec.StartTick + uint32(bar)*arrangement.TicksPerBar
			degree := ctx.GetChordDegreeAt(barStart)

			if bar < sec.Bars-2 {
				nextDegree := ctx.GetChordDegreeAt(barStart + arrangement.TicksPerBar)

				if domDegree, ok := checkSecondaryDominant(degree, nextDegree); ok {
					if rng.Float64() < tension {
						tickHalf := uint32(arrangement.TicksPerBar / 2)
						ctx.RegisterSecondaryDominant(barStart+tickHalf, barStart+arrangement.TicksPerBar, domDegree)
					}
				}
			}

			prevLastDegree = degree
		}
	}
}
