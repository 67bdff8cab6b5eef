// Package tablature renders a generated Chord track as guitar chord
// diagrams. Adapted from the teacher's midi/voicings.go (GuitarVoicing
// shapes, GuitarVoicings table), midi/tablature.go (ASCII bar rendering),
// and display/tablature.go (string/fret layout), generalized to run over
// songforge's song.Song/theory.Degree model instead of a parsed BTML
// chord list.
package tablature

import (
	"fmt"
	"strings"

	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// GuitarVoicing is a playable chord shape: one fret per string (-1 =
// muted/not played, 0 = open, 1+ = fret number). Strings are indexed
// 0-5, low E to high e.
type GuitarVoicing struct {
	Name       string
	Frets      [6]int
	Fingers    [6]int
	BassFret   int
	BassString int
}

// GetFretNoteWithCapo returns the MIDI note for a string/fret, adjusted
// for a capo position (capo raises pitch by its fret count).
func GetFretNoteWithCapo(tuning theory.Tuning, stringNum, fret, capo int) int {
	if fret < 0 || stringNum < 0 || stringNum >= len(tuning.Notes) {
		return -1
	}
	return tuning.Notes[stringNum] + fret + capo
}

// GetNotes returns every sounding MIDI note in the voicing, low to high.
func (v GuitarVoicing) GetNotes(tuning theory.Tuning, capo int) []int {
	var notes []int
	for i := 0; i < 6; i++ {
		if v.Frets[i] >= 0 {
			notes = append(notes, GetFretNoteWithCapo(tuning, i, v.Frets[i], capo))
		}
	}
	return notes
}

// GuitarVoicings is the hand-curated shape table, carried over verbatim
// from the teacher's equivalent table since these are real guitar chord
// shapes (data, not application logic) rather than anything the domain
// transformation changes.
var GuitarVoicings = map[string]GuitarVoicing{
	"C":      {"C", [6]int{-1, 3, 2, 0, 1, 0}, [6]int{0, 3, 2, 0, 1, 0}, 3, 1},
	"D":      {"D", [6]int{-1, -1, 0, 2, 3, 2}, [6]int{0, 0, 0, 1, 3, 2}, 0, 2},
	"E":      {"E", [6]int{0, 2, 2, 1, 0, 0}, [6]int{0, 2, 3, 1, 0, 0}, 0, 0},
	"F":      {"F", [6]int{1, 3, 3, 2, 1, 1}, [6]int{1, 3, 4, 2, 1, 1}, 1, 0},
	"G":      {"G", [6]int{3, 2, 0, 0, 0, 3}, [6]int{2, 1, 0, 0, 0, 3}, 3, 0},
	"A":      {"A", [6]int{-1, 0, 2, 2, 2, 0}, [6]int{0, 0, 1, 2, 3, 0}, 0, 1},
	"B":      {"B", [6]int{-1, 2, 4, 4, 4, 2}, [6]int{0, 1, 2, 3, 4, 1}, 2, 1},
	"Am":     {"Am", [6]int{-1, 0, 2, 2, 1, 0}, [6]int{0, 0, 2, 3, 1, 0}, 0, 1},
	"Bm":     {"Bm", [6]int{-1, 2, 4, 4, 3, 2}, [6]int{0, 1, 3, 4, 2, 1}, 2, 1},
	"Cm":     {"Cm", [6]int{-1, 3, 5, 5, 4, 3}, [6]int{0, 1, 3, 4, 2, 1}, 3, 1},
	"Dm":     {"Dm", [6]int{-1, -1, 0, 2, 3, 1}, [6]int{0, 0, 0, 2, 3, 1}, 0, 2},
	"Em":     {"Em", [6]int{0, 2, 2, 0, 0, 0}, [6]int{0, 2, 3, 0, 0, 0}, 0, 0},
	"Fm":     {"Fm", [6]int{1, 3, 3, 1, 1, 1}, [6]int{1, 3, 4, 1, 1, 1}, 1, 0},
	"Gm":     {"Gm", [6]int{3, 5, 5, 3, 3, 3}, [6]int{1, 3, 4, 1, 1, 1}, 3, 0},
	"A7":     {"A7", [6]int{-1, 0, 2, 0, 2, 0}, [6]int{0, 0, 1, 0, 2, 0}, 0, 1},
	"B7":     {"B7", [6]int{-1, 2, 1, 2, 0, 2}, [6]int{0, 2, 1, 3, 0, 4}, 2, 1},
	"C7":     {"C7", [6]int{-1, 3, 2, 3, 1, 0}, [6]int{0, 3, 2, 4, 1, 0}, 3, 1},
	"D7":     {"D7", [6]int{-1, -1, 0, 2, 1, 2}, [6]int{0, 0, 0, 2, 1, 3}, 0, 2},
	"E7":     {"E7", [6]int{0, 2, 0, 1, 0, 0}, [6]int{0, 2, 0, 1, 0, 0}, 0, 0},
	"F7":     {"F7", [6]int{1, 3, 1, 2, 1, 1}, [6]int{1, 3, 1, 2, 1, 1}, 1, 0},
	"G7":     {"G7", [6]int{3, 2, 0, 0, 0, 1}, [6]int{3, 2, 0, 0, 0, 1}, 3, 0},
	"Am7":    {"Am7", [6]int{-1, 0, 2, 0, 1, 0}, [6]int{0, 0, 2, 0, 1, 0}, 0, 1},
	"Bm7":    {"Bm7", [6]int{-1, 2, 4, 2, 3, 2}, [6]int{0, 1, 3, 1, 2, 1}, 2, 1},
	"Cm7":    {"Cm7", [6]int{-1, 3, 5, 3, 4, 3}, [6]int{0, 1, 3, 1, 2, 1}, 3, 1},
	"Dm7":    {"Dm7", [6]int{-1, -1, 0, 2, 1, 1}, [6]int{0, 0, 0, 2, 1, 1}, 0, 2},
	"Em7":    {"Em7", [6]int{0, 2, 0, 0, 0, 0}, [6]int{0, 2, 0, 0, 0, 0}, 0, 0},
	"Fm7":    {"Fm7", [6]int{1, 3, 1, 1, 1, 1}, [6]int{1, 3, 1, 1, 1, 1}, 1, 0},
	"Gm7":    {"Gm7", [6]int{3, 5, 3, 3, 3, 3}, [6]int{1, 3, 1, 1, 1, 1}, 3, 0},
	"Amaj7":  {"Amaj7", [6]int{-1, 0, 2, 1, 2, 0}, [6]int{0, 0, 2, 1, 3, 0}, 0, 1},
	"Bmaj7":  {"Bmaj7", [6]int{-1, 2, 4, 3, 4, 2}, [6]int{0, 1, 3, 2, 4, 1}, 2, 1},
	"Cmaj7":  {"Cmaj7", [6]int{-1, 3, 2, 0, 0, 0}, [6]int{0, 3, 2, 0, 0, 0}, 3, 1},
	"Dmaj7":  {"Dmaj7", [6]int{-1, -1, 0, 2, 2, 2}, [6]int{0, 0, 0, 1, 1, 1}, 0, 2},
	"Emaj7":  {"Emaj7", [6]int{0, 2, 1, 1, 0, 0}, [6]int{0, 3, 1, 2, 0, 0}, 0, 0},
	"Fmaj7":  {"Fmaj7", [6]int{-1, -1, 3, 2, 1, 0}, [6]int{0, 0, 3, 2, 1, 0}, 3, 2},
	"Gmaj7":  {"Gmaj7", [6]int{3, 2, 0, 0, 0, 2}, [6]int{2, 1, 0, 0, 0, 3}, 3, 0},
	"Asus2":  {"Asus2", [6]int{-1, 0, 2, 2, 0, 0}, [6]int{0, 0, 1, 2, 0, 0}, 0, 1},
	"Asus4":  {"Asus4", [6]int{-1, 0, 2, 2, 3, 0}, [6]int{0, 0, 1, 2, 3, 0}, 0, 1},
	"Dsus2":  {"Dsus2", [6]int{-1, -1, 0, 2, 3, 0}, [6]int{0, 0, 0, 1, 2, 0}, 0, 2},
	"Dsus4":  {"Dsus4", [6]int{-1, -1, 0, 2, 3, 3}, [6]int{0, 0, 0, 1, 2, 3}, 0, 2},
	"Esus4":  {"Esus4", [6]int{0, 2, 2, 2, 0, 0}, [6]int{0, 1, 2, 3, 0, 0}, 0, 0},
	"Gsus4":  {"Gsus4", [6]int{3, 3, 0, 0, 1, 3}, [6]int{2, 3, 0, 0, 1, 4}, 3, 0},
	"Cadd9":  {"Cadd9", [6]int{-1, 3, 2, 0, 3, 0}, [6]int{0, 2, 1, 0, 3, 0}, 3, 1},
	"Dadd9":  {"Dadd9", [6]int{-1, -1, 0, 2, 3, 0}, [6]int{0, 0, 0, 1, 2, 0}, 0, 2},
	"Eadd9":  {"Eadd9", [6]int{0, 2, 2, 1, 0, 2}, [6]int{0, 2, 3, 1, 0, 4}, 0, 0},
	"Gadd9":  {"Gadd9", [6]int{3, 2, 0, 2, 0, 3}, [6]int{2, 1, 0, 3, 0, 4}, 3, 0},
	"F#":     {"F#", [6]int{2, 4, 4, 3, 2, 2}, [6]int{1, 3, 4, 2, 1, 1}, 2, 0},
	"F#m":    {"F#m", [6]int{2, 4, 4, 2, 2, 2}, [6]int{1, 3, 4, 1, 1, 1}, 2, 0},
	"F#m7":   {"F#m7", [6]int{2, 4, 2, 2, 2, 2}, [6]int{1, 3, 1, 1, 1, 1}, 2, 0},
	"F#7":    {"F#7", [6]int{2, 4, 2, 3, 2, 2}, [6]int{1, 3, 1, 2, 1, 1}, 2, 0},
	"Bb":     {"Bb", [6]int{-1, 1, 3, 3, 3, 1}, [6]int{0, 1, 2, 3, 4, 1}, 1, 1},
	"Bbm":    {"Bbm", [6]int{-1, 1, 3, 3, 2, 1}, [6]int{0, 1, 3, 4, 2, 1}, 1, 1},
	"Eb":     {"Eb", [6]int{-1, -1, 1, 3, 4, 3}, [6]int{0, 0, 1, 2, 4, 3}, 1, 2},
	"Ab":     {"Ab", [6]int{4, 6, 6, 5, 4, 4}, [6]int{1, 3, 4, 2, 1, 1}, 4, 0},
	"C#m":    {"C#m", [6]int{-1, 4, 6, 6, 5, 4}, [6]int{0, 1, 3, 4, 2, 1}, 4, 1},
	"C#m7":   {"C#m7", [6]int{-1, 4, 6, 4, 5, 4}, [6]int{0, 1, 3, 1, 2, 1}, 4, 1},
	"G#m":    {"G#m", [6]int{4, 6, 6, 4, 4, 4}, [6]int{1, 3, 4, 1, 1, 1}, 4, 0},
	"F#sus4": {"F#sus4", [6]int{2, 4, 4, 4, 2, 2}, [6]int{1, 2, 3, 4, 1, 1}, 2, 0},
}

// chordSymbolFor names the chord symbol a degree (transposed into key)
// resolves to, the lookup key GuitarVoicings and theory.GenerateChordVoicing
// both key on. 9th extensions fall back to the 7th symbol; sus2/sus4/add9
// keep their symbol on major chords and fall back to the plain triad on
// minor chords, and diminished chords always use the plain triad.
// GenerateChordVoicing still derives a playable shape for any root.
func chordSymbolFor(degree theory.Degree, ext theory.Extension, key int) string {
	root := (theory.DegreeRoot(degree) + key) % 12
	name := theory.NoteNames[root]

	switch theory.DegreeQuality(degree) {
	case theory.QualityDiminished:
		return name + "dim"
	case theory.QualityMinor:
		switch ext {
		case theory.ExtMin7, theory.ExtMin9:
			return name + "m7"
		default:
			return name + "m"
		}
	default:
		switch ext {
		case theory.ExtMaj7, theory.ExtMaj9:
			return name + "maj7"
		case theory.ExtDom7, theory.ExtDom9:
			return name + "7"
		case theory.ExtSus2:
			return name + "sus2"
		case theory.ExtSus4:
			return name + "sus4"
		case theory.ExtAdd9:
			return name + "add9"
		default:
			return name
		}
	}
}

// VoicingFor resolves the guitar shape for a chord: a hand-curated shape
// if one exists for the symbol, otherwise a dynamically derived one via
// theory.GenerateChordVoicing.
func VoicingFor(degree theory.Degree, ext theory.Extension, key int, tuning theory.Tuning) GuitarVoicing {
	symbol := chordSymbolFor(degree, ext, key)
	if v, ok := GuitarVoicings[symbol]; ok {
		return v
	}
	tv := theory.GenerateChordVoicing(symbol, tuning)
	gv := GuitarVoicing{Name: symbol, Frets: tv.Frets, BassFret: tv.BaseFret}
	for i := 0; i < 6; i++ {
		if tv.Frets[i] >= 0 {
			gv.BassString = i
			gv.BassFret = tv.Frets[i]
			break
		}
	}
	return gv
}

// Bar is one bar's worth of tablature: the chord sounding and its shape.
type Bar struct {
	BarNumber int
	ChordName string
	Voicing   GuitarVoicing
}

// Tablature is the whole song rendered as a sequence of chord-diagram
// bars, one entry per bar the Chord track re-attacks in.
type Tablature struct {
	Bars   []Bar
	Tuning theory.Tuning
	Capo   int
}

// BuildFromChordTrack walks the generated Chord track's notes (already
// carrying each note's provenance chord degree, stamped by
// harmony.PitchSelector.Build) and produces one Bar per distinct bar a
// new chord starts sounding in, using the tuning/capo/key the song was
// rendered with.
func BuildFromChordTrack(chordTrack *song.Track, key int, tuning theory.Tuning, capo int) *Tablature {
	const ticksPerBar = 1920
	tab := &Tablature{Tuning: tuning, Capo: capo}
	seenBar := map[uint32]bool{}

	for _, n := range chordTrack.Notes {
		bar := n.StartTick / ticksPerBar
		if seenBar[bar] {
			continue
		}
		seenBar[bar] = true

		degree := theory.Degree(n.Prov.ChordDegree)
		voicing := VoicingFor(degree, theory.ExtNone, key, tuning)
		tab.Bars = append(tab.Bars, Bar{
			BarNumber: int(bar) + 1,
			ChordName: voicing.Name,
			Voicing:   voicing,
		})
	}
	return tab
}

// RenderBar renders one bar as a 6-line ASCII fretboard diagram, adapted
// from the teacher's RenderBar/renderStringLine (single static chord
// shape per bar rather than a beat-by-beat arranged pattern, since the
// generated Chord track already carries its own rhythm in the MIDI
// output — the tablature view exists to show guitarists the shapes, not
// re-derive a strum pattern).
func RenderBar(b Bar) []string {
	stringNames := []string{"e", "B", "G", "D", "A", "E"}
	var lines []string
	lines = append(lines, fmt.Sprintf("Bar %d: %s", b.BarNumber, b.ChordName))
	for display := 0; display < 6; display++ {
		actual := 5 - display
		fret := b.Voicing.Frets[actual]
		cell := "x"
		if fret == 0 {
			cell = "0"
		} else if fret > 0 {
			cell = fmt.Sprintf("%d", fret)
		}
		lines = append(lines, fmt.Sprintf("%s|%s", stringNames[display], cell))
	}
	return lines
}

// Render renders the full tablature as a single string, one chord-diagram
// block per bar.
func (t *Tablature) Render() string {
	var sb strings.Builder
	for _, b := range t.Bars {
		for _, line := range RenderBar(b) {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
