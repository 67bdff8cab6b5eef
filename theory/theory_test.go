package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoteToMidiHandlesSharpsAndFlats(t *testing.T) {
	assert.Equal(t, 1, NoteToMidi("C#"))
	assert.Equal(t, 1, NoteToMidi("Db"))
	assert.Equal(t, 0, NoteToMidi("C"))
	assert.Equal(t, 10, NoteToMidi("Bb"))
}

func TestNoteToMidiDefaultsToCForUnknown(t *testing.T) {
	assert.Equal(t, 0, NoteToMidi(""))
}

func TestGetChordTonesMajorTriad(t *testing.T) {
	assert.ElementsMatch(t, []int{0, 4, 7}, GetChordTones("C"))
}

func TestGetChordTonesMinorTriad(t *testing.T) {
	assert.ElementsMatch(t, []int{9, 0, 4}, GetChordTones("Am"))
}

func TestGetChordTonesDominantSeventh(t *testing.T) {
	assert.ElementsMatch(t, []int{7, 11, 2, 5}, GetChordTones("G7"))
}

func TestGetChordTonesMajorSeventh(t *testing.T) {
	assert.ElementsMatch(t, []int{0, 4, 7, 11}, GetChordTones("Cmaj7"))
}

func TestGetChordTonesDiminished(t *testing.T) {
	assert.ElementsMatch(t, []int{11, 2, 5}, GetChordTones("Bdim"))
}
