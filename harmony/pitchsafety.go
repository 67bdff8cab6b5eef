package harmony

import "github.com/ako-music/songforge/song"

// FallbackStrategy names how a PitchSelector recovers when the desired
// pitch is unsafe.
type FallbackStrategy int

const (
	// FallbackSkip drops the note entirely. Default.
	FallbackSkip FallbackStrategy = iota
	// FallbackRoot falls back to a caller-given root pitch.
	FallbackRoot
	// FallbackChordTone searches chord tones in nearby octaves.
	FallbackChordTone
	// FallbackOctave tries the same pitch class in other octaves.
	FallbackOctave
)

// PitchSelector is a fluent builder consolidating the
// "try the desired pitch, fall back if unsafe" pattern every generator
// needs. Construct with NewPitchSelector, chain the setters, then call
// Build or AddTo.
type PitchSelector struct {
	ctx *Context

	start, duration uint32
	pitch, velocity uint8
	role            song.TrackRole
	source          song.NoteSource

	fallback     FallbackStrategy
	fallbackRoot uint8
	low, high    uint8
}

// NewPitchSelector starts a builder bound to ctx for collision checks.
func NewPitchSelector(ctx *Context) *PitchSelector {
	return &PitchSelector{ctx: ctx, velocity: 100, low: 0, high: 127}
}

func (b *PitchSelector) At(start, duration uint32) *PitchSelector {
	b.start, b.duration = start, duration
	return b
}

func (b *PitchSelector) WithPitch(pitch uint8) *PitchSelector {
	b.pitch = pitch
	return b
}

func (b *PitchSelector) WithVelocity(v uint8) *PitchSelector {
	b.velocity = v
	return b
}

func (b *PitchSelector) ForTrack(role song.TrackRole) *PitchSelector {
	b.role = role
	return b
}

func (b *PitchSelector) Source(src song.NoteSource) *PitchSelector {
	b.source = src
	return b
}

func (b *PitchSelector) SkipOnCollision() *PitchSelector {
	b.fallback = FallbackSkip
	return b
}

func (b *PitchSelector) FallbackToRoot(root uint8) *PitchSelector {
	b.fallback = FallbackRoot
	b.fallbackRoot = root
	return b
}

func (b *PitchSelector) FallbackToChordTone(low, high uint8) *PitchSelector {
	b.fallback = FallbackChordTone
	b.low, b.high = low, high
	return b
}

func (b *PitchSelector) FallbackToOctave(low, high uint8) *PitchSelector {
	b.fallback = FallbackOctave
	b.low, b.high = low, high
	return b
}

// isSafe checks both the general dissonance predicate and, for the bass
// role, the stricter full-duration tritone check.
func (b *PitchSelector) isSafe(pitch uint8) bool {
	if !b.ctx.IsPitchSafe(pitch, b.start, b.duration, b.role) {
		return false
	}
	if b.role == song.RoleBass && b.ctx.HasBassChordTritone(pitch, b.start, b.duration) {
		return false
	}
	return true
}

// findSafePitch runs the fallback ladder: desired, doubling, nearest
// chord tone, semitone search, give up — gated by the configured
// strategy for steps 2-4 (Skip never goes past step 1).
func (b *PitchSelector) findSafePitch() (uint8, bool) {
	if b.isSafe(b.pitch) {
		return b.pitch, true
	}
	if b.fallback == FallbackSkip {
		return b.pitch, false
	}

	if p, ok := b.tryDoubleExistingTone(); ok {
		return p, true
	}

	switch b.fallback {
	case FallbackRoot:
		if b.isSafe(b.fallbackRoot) {
			return b.fallbackRoot, true
		}
	case FallbackChordTone:
		if p, ok := b.tryNearestChordTone(); ok {
			return p, true
		}
	case FallbackOctave:
		if p, ok := b.tryOctaves(); ok {
			return p, true
		}
	}

	if p, ok := b.tryNearestChordTone(); ok {
		return p, true
	}
	if p, ok := b.trySemitoneSearch(); ok {
		return p, true
	}
	return b.pitch, false
}

// tryDoubleExistingTone scans notes sounding at the target tick from
// other tracks and picks one within an octave of the desired pitch, in
// range, that remains safe once chosen (step 2 of the ladder).
func (b *PitchSelector) tryDoubleExistingTone() (uint8, bool) {
	for _, n := range b.ctx.overlapping(b.start, b.duration, b.role, true) {
		candidate := n.pitch
		if candidate < b.low || candidate > b.high {
			continue
		}
		diff := int(candidate) - int(b.pitch)
		if diff < 0 {
			diff = -diff
		}
		if diff > 12 {
			continue
		}
		if b.isSafe(candidate) {
			return candidate, true
		}
	}
	return 0, false
}

// tryNearestChordTone enumerates chord-tone pitch classes at start, all
// octave placements within [low, high], and picks the safe one closest to
// the desired pitch (step 3).
func (b *PitchSelector) tryNearestChordTone() (uint8, bool) {
	tones := b.ctx.GetChordTonesAt(b.start)
	best := uint8(0)
	bestDist := 1 << 30
	found := false
	for _, pc := range tones {
		for oct := 0; oct < 11; oct++ {
			candidate := pc + oct*12
			if candidate < int(b.low) || candidate > int(b.high) {
				continue
			}
			if !b.isSafe(uint8(candidate)) {
				continue
			}
			dist := candidate - int(b.pitch)
			if dist < 0 {
				dist = -dist
			}
			if dist < bestDist {
				bestDist = dist
				best = uint8(candidate)
				found = true
			}
		}
	}
	return best, found
}

// semitoneOffsets is the outward search order for step 4: musically
// meaningful intervals first (minor 3rd, major 3rd, perfect 4th/5th,
// octave, major 2nd, minor 2nd), then exhaustive.
var semitoneOffsets = []int{3, 4, 5, 7, 12, 2, 1}

func (b *PitchSelector) trySemitoneSearch() (uint8, bool) {
	for _, off := range semitoneOffsets {
		for _, sign := range []int{1, -1} {
			candidate := int(b.pitch) + sign*off
			if candidate < 0 || candidate > 127 {
				continue
			}
			if b.isSafe(uint8(candidate)) {
				return uint8(candidate), true
			}
		}
	}
	for off := 1; off <= 24; off++ {
		for _, sign := range []int{1, -1} {
			candidate := int(b.pitch) + sign*off
			if candidate < 0 || candidate > 127 {
				continue
			}
			if b.isSafe(uint8(candidate)) {
				return uint8(candidate), true
			}
		}
	}
	return 0, false
}

func (b *PitchSelector) tryOctaves() (uint8, bool) {
	pc := int(b.pitch) % 12
	best := uint8(0)
	bestDist := 1 << 30
	found := false
	for oct := 0; oct < 11; oct++ {
		candidate := pc + oct*12
		if candidate < int(b.low) || candidate > int(b.high) {
			continue
		}
		if !b.isSafe(uint8(candidate)) {
			continue
		}
		dist := candidate - int(b.pitch)
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			bestDist = dist
			best = uint8(candidate)
			found = true
		}
	}
	return best, found
}

// Build returns the note this selector would place, or ok=false if no
// safe pitch was found (Skip gives up after the desired pitch, the other
// strategies after the whole fallback ladder). It does not register the
// note or add it to any track.
func (b *PitchSelector) Build() (song.NoteEvent, bool) {
	pitch, ok := b.findSafePitch()
	if !ok {
		return song.NoteEvent{}, false
	}
	return song.NoteEvent{
		StartTick: b.start,
		Duration:  b.duration,
		Pitch:     pitch,
		Velocity:  b.velocity,
		Prov: song.Provenance{
			Source:        b.source,
			OriginalPitch: b.pitch,
			LookupTick:    b.start,
			ChordDegree:   int8(b.ctx.GetChordDegreeAt(b.start)),
		},
	}, true
}

// AddTo builds the note, appends it to track, and immediately registers
// it with the harmony context so subsequent selections see it. Returns
// false if the note was skipped.
func (b *PitchSelector) AddTo(track *song.Track) bool {
	n, ok := b.Build()
	if !ok {
		return false
	}
	track.Add(n)
	b.ctx.RegisterNote(n.StartTick, n.Duration, n.Pitch, b.role)
	return true
}
