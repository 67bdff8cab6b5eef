package theory

import "testing"

import "github.com/stretchr/testify/assert"

func TestDegreeRootAndQuality(t *testing.T) {
	assert.Equal(t, 0, DegreeRoot(DegreeI))
	assert.Equal(t, 7, DegreeRoot(DegreeV))
	assert.Equal(t, 9, DegreeRoot(DegreeVI))
	assert.Equal(t, QualityMajor, DegreeQuality(DegreeI))
	assert.Equal(t, QualityMinor, DegreeQuality(DegreeVI))
	assert.Equal(t, QualityDiminished, DegreeQuality(DegreeVII))
}

func TestTriadPitchClasses(t *testing.T) {
	assert.Equal(t, []int{0, 4, 7}, TriadPitchClasses(DegreeI, ExtNone))
	assert.Equal(t, []int{9, 0, 4}, TriadPitchClasses(DegreeVI, ExtNone))
	assert.Equal(t, []int{7, 11, 2, 5}, TriadPitchClasses(DegreeV, ExtDom7))
}

func TestIsChordTone(t *testing.T) {
	assert.True(t, IsChordTone(DegreeI, 0))
	assert.True(t, IsChordTone(DegreeI, 4))
	assert.True(t, IsChordTone(DegreeI, 7))
	assert.False(t, IsChordTone(DegreeI, 2))
}

func TestAvailableTensionsExcludeChordTones(t *testing.T) {
	for _, d := range []Degree{DegreeI, DegreeII, DegreeIV, DegreeV, DegreeVI} {
		for _, tension := range AvailableTensions(d) {
			assert.False(t, IsChordTone(d, tension), "degree %v tension %d should not be a chord tone", d, tension)
		}
	}
}

func TestDiminishedHasNoAvailableTensions(t *testing.T) {
	assert.Empty(t, AvailableTensions(DegreeVII))
}
