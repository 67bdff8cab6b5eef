package theory

// Tuning names the open-string MIDI notes for a guitar tuning, low to high.
type Tuning struct {
	Name  string
	Notes [6]int
}

// Tunings is the set of tunings the tablature renderer can target.
var Tunings = map[string]Tuning{
	"standard": {Name: "Standard", Notes: [6]int{40, 45, 50, 55, 59, 64}},
	"drop_d":   {Name: "Drop D", Notes: [6]int{38, 45, 50, 55, 59, 64}},
	"half_down": {Name: "Half Step Down", Notes: [6]int{39, 44, 49, 54, 58, 63}},
	"open_g":    {Name: "Open G", Notes: [6]int{38, 45, 50, 55, 59, 62}},
}

// ChordVoicing is a dynamically derived guitar shape: one fret per string
// (-1 = muted) relative to baseFret.
type ChordVoicing struct {
	Frets    [6]int
	BaseFret int
}

// GenerateChordVoicing derives a playable shape for an arbitrary chord
// symbol when no hand-curated shape exists in GuitarVoicings. It puts the
// root on the lowest string at the lowest fret (0-12) that sounds it, then
// fills each of the five upper strings with a chord tone within
// baseFret..baseFret+4, doubling a tone when no new one fits.
func GenerateChordVoicing(symbol string, tuning Tuning) ChordVoicing {
	tones := GetChordTones(symbol)
	if len(tones) == 0 {
		return ChordVoicing{Frets: [6]int{-1, -1, -1, -1, -1, -1}}
	}
	root := tones[0]

	frets := [6]int{-1, -1, -1, -1, -1, -1}
	baseFret := 0
	for fret := 0; fret <= 12; fret++ {
		if (tuning.Notes[0]+fret)%12 == root {
			baseFret = fret
			frets[0] = fret
			break
		}
	}

	used := map[int]bool{root: true}
	for s := 1; s < 6; s++ {
		placed := false
		for fret := baseFret; fret <= baseFret+4; fret++ {
			pc := (tuning.Notes[s] + fret) % 12
			for _, t := range tones {
				if t == pc && !used[pc] {
					frets[s] = fret
					used[pc] = true
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			// Double a tone rather than mute, so the shape stays full;
			// prefer the root or fifth.
			for fret := baseFret; fret <= baseFret+4; fret++ {
				pc := (tuning.Notes[s] + fret) % 12
				for _, t := range tones {
					if t == pc {
						frets[s] = fret
						placed = true
						break
					}
				}
				if placed {
					break
				}
			}
		}
	}

	return ChordVoicing{Frets: frets, BaseFret: baseFret}
}
