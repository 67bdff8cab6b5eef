// Package harmony is the authoritative query surface every generator
// consults: what chord is active at a tick, which notes are already
// committed by other tracks, and whether a candidate pitch is safe to
// place. It borrows an *arrangement.Arrangement and owns its own chord
// timeline and registered-note list; it is discarded once post-processing
// finishes (see song.Song's ownership note).
package harmony

import (
	"sort"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/theory"
)

// ChordSpan is one entry in the chord timeline: the chord active over the
// half-open tick range [Start, End).
type ChordSpan struct {
	Start  uint32
	End    uint32
	Degree theory.Degree
}

// Timeline is a contiguous, gapless sequence of chord spans covering the
// whole arrangement, searchable by tick.
type Timeline struct {
	spans []ChordSpan
}

// degreeAt binary searches for the span containing tick, returning the
// fallback degree (I) if the timeline is empty.
func (tl *Timeline) degreeAt(tick uint32) theory.Degree {
	if tl == nil || len(tl.spans) == 0 {
		return theory.DegreeI
	}
	i := sort.Search(len(tl.spans), func(i int) bool {
		return tl.spans[i].End > tick
	})
	if i >= len(tl.spans) {
		return tl.spans[len(tl.spans)-1].Degree
	}
	return tl.spans[i].Degree
}

// nextChangeTick returns the first tick strictly after `after` where the
// chord degree changes, or 0 if there is none.
func (tl *Timeline) nextChangeTick(after uint32) uint32 {
	if tl == nil {
		return 0
	}
	current := tl.degreeAt(after)
	for _, sp := range tl.spans {
		if sp.Start > after && sp.Degree != current {
			return sp.Start
		}
	}
	return 0
}

// insertOrOverride inserts a new span, splitting or trimming any spans it
// overlaps, used by RegisterSecondaryDominant. Spans are kept sorted and contiguous.
func (tl *Timeline) insertOrOverride(span ChordSpan) {
	var out []ChordSpan
	inserted := false
	for _, existing := range tl.spans {
		switch {
		case existing.End <= span.Start || existing.Start >= span.End:
			// no overlap
			if !inserted && existing.Start >= span.End {
				out = append(out, span)
				inserted = true
			}
			out = append(out, existing)
		default:
			// overlaps: keep the non-overlapping remainder(s)
			if existing.Start < span.Start {
				out = append(out, ChordSpan{existing.Start, span.Start, existing.Degree})
			}
			if !inserted {
				out = append(out, span)
				inserted = true
			}
			if existing.End > span.End {
				out = append(out, ChordSpan{span.End, existing.End, existing.Degree})
			}
		}
	}
	if !inserted {
		out = append(out, span)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	tl.spans = out
}

// harmonicRhythmBars returns how many bars each chord span covers for a
// section's resolved harmonic rhythm.
func harmonicRhythmBars(rhythm arrangement.HarmonicRhythm) int {
	switch rhythm {
	case arrangement.RhythmSlow:
		return 2
	default:
		return 1
	}
}

// buildTimeline lays out one ChordSpan per harmonic-rhythm-resolved chord
// change across every section, cycling through the progression's degrees.
// Dense sections split each bar into TicksPerBar/subdivision slices (the
// subdivision resolved by arrangement.HarmonicRhythmFor), advancing one
// degree per slice.
func buildTimeline(a *arrangement.Arrangement) *Timeline {
	tl := &Timeline{}
	degreeIdx := 0
	degrees := a.Progression.Degrees
	if len(degrees) == 0 {
		degrees = []theory.Degree{theory.DegreeI}
	}

	for _, sec := range a.Sections {
		rhythm, subdiv := arrangement.HarmonicRhythmFor(sec.Type, a.Mood)
		barsPerChord := harmonicRhythmBars(rhythm)

		bar := 0
		for bar < sec.Bars {
			barStart := sec.StartTick + uint32(bar)*arrangement.TicksPerBar
			span := barsPerChord * arrangement.TicksPerBar
			spanEnd := barStart + uint32(span)
			if spanEnd > sec.EndTick() {
				spanEnd = sec.EndTick()
			}

			if rhythm == arrangement.RhythmDense && int(subdiv) < arrangement.TicksPerBar {
				// split this bar into TicksPerBar/subdiv slices, one
				// degree advance per slice
				step := uint32(subdiv)
				for t := barStart; t < barStart+arrangement.TicksPerBar && t < sec.EndTick(); t += step {
					end := t + step
					if end > sec.EndTick() {
						end = sec.EndTick()
					}
					tl.spans = append(tl.spans, ChordSpan{t, end, degrees[degreeIdx%len(degrees)]})
					degreeIdx++
				}
			} else {
				tl.spans = append(tl.spans, ChordSpan{barStart, spanEnd, degrees[degreeIdx%len(degrees)]})
				degreeIdx++
			}
			bar += barsPerChord
		}
	}

	sort.Slice(tl.spans, func(i, j int) bool { return tl.spans[i].Start < tl.spans[j].Start })
	return tl
}
