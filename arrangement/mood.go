package arrangement

// Mood is the overall stylistic target for a generated song. It drives
// harmonic rhythm density, groove choice in postprocess, and the
// phrase-end splitting heuristic below.
type Mood int

const (
	MoodEnergeticDance Mood = iota
	MoodIdolPop
	MoodYoasobi
	MoodFutureBass
	MoodBallad
	MoodCityPop
	MoodRockAnthem
	MoodChill
	MoodCinematic
	MoodLoFi
	MoodFunk
	MoodSynthwave
	MoodAcoustic
	MoodOrchestral
	MoodTrap
	MoodAmbient
)

func (m Mood) String() string {
	names := [...]string{
		"EnergeticDance", "IdolPop", "Yoasobi", "FutureBass", "Ballad",
		"CityPop", "RockAnthem", "Chill", "Cinematic", "LoFi", "Funk",
		"Synthwave", "Acoustic", "Orchestral", "Trap", "Ambient",
	}
	if int(m) < 0 || int(m) >= len(names) {
		return "Unknown"
	}
	return names[m]
}

// ParseMood looks up a Mood by its String() name, for decoding the
// `mood:` field of a YAML preset. ok is false for an unrecognized name.
func ParseMood(name string) (Mood, bool) {
	for m := MoodEnergeticDance; m <= MoodAmbient; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return 0, false
}

// denseBarMoods is the set of moods for which the "Dense extra" phrase
// split (see ShouldSplitPhraseEnd) applies on even, non-zero chorus bars.
var denseBarMoods = map[Mood]bool{
	MoodEnergeticDance: true,
	MoodIdolPop:        true,
	MoodYoasobi:        true,
	MoodFutureBass:     true,
}
