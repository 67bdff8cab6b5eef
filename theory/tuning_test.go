package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateChordVoicingPlacesRootOnBassString(t *testing.T) {
	v := GenerateChordVoicing("C", Tunings["standard"])
	require := assert.New(t)
	require.NotEqual(-1, v.Frets[0])
	root := (Tunings["standard"].Notes[0] + v.Frets[0]) % 12
	require.Equal(0, root) // C = pitch class 0
}

func TestGenerateChordVoicingFillsAllPlayableStrings(t *testing.T) {
	v := GenerateChordVoicing("Am", Tunings["standard"])
	filled := 0
	for _, f := range v.Frets {
		if f != -1 {
			filled++
		}
	}
	assert.Greater(t, filled, 3)
}
