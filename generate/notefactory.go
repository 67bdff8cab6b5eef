// Package generate holds the per-role track generators: bass, chord,
// vocal, aux/motif, arpeggio, and drums. Each generator receives a
// *song.Song (for the one track it fills in) and a *harmony.Context
// (borrowed, mutable — every note it commits must be registered) plus a
// single shared *rand.Rand so the whole run stays deterministic for a
// given seed.
package generate

import (
	"math/rand"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/harmony"
	"github.com/ako-music/songforge/song"
)

// NoteFactory threads the shared RNG and harmony context through a
// generator, and is the single place generators build a PitchSelector
// from, so every generator configures provenance and registration the
// same way.
type NoteFactory struct {
	Harmony *harmony.Context
	Rng     *rand.Rand
}

// NewNoteFactory creates a factory bound to one harmony context and RNG
// stream.
func NewNoteFactory(h *harmony.Context, rng *rand.Rand) *NoteFactory {
	return &NoteFactory{Harmony: h, Rng: rng}
}

// Select starts a PitchSelector pre-bound to this factory's harmony
// context, tagged with role and source for provenance.
func (f *NoteFactory) Select(role song.TrackRole, source song.NoteSource) *harmony.PitchSelector {
	return harmony.NewPitchSelector(f.Harmony).ForTrack(role).Source(source)
}

// RandRange returns a uniform random int in [low, high].
func (f *NoteFactory) RandRange(low, high int) int {
	if high <= low {
		return low
	}
	return low + f.Rng.Intn(high-low+1)
}

// RollProbability reports whether an event with probability p fires.
func (f *NoteFactory) RollProbability(p float64) bool {
	return f.Rng.Float64() < p
}

// WeightedPick chooses an index from weights (must sum > 0), proportional
// to each weight.
func (f *NoteFactory) WeightedPick(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	r := f.Rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// eighthTick is one eighth note (used by anticipation stabs, aux figures,
// phrase variations and the vocal).
const eighthTick = arrangement.TicksPerBeat / 2
