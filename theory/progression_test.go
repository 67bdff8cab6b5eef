package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressionByID(t *testing.T) {
	p := ProgressionByID(0)
	assert.Equal(t, "Pop1 (I-V-vi-IV)", p.Name)

	last := ProgressionByID(len(Progressions) - 1)
	assert.Equal(t, Progressions[len(Progressions)-1].Name, last.Name)
}

func TestProgressionByIDClampsOutOfRange(t *testing.T) {
	assert.Equal(t, Progressions[0].Name, ProgressionByID(-1).Name)
	assert.Equal(t, Progressions[0].Name, ProgressionByID(999).Name)
}

func TestAllProgressionsHaveFourOrFiveDegrees(t *testing.T) {
	for _, p := range Progressions {
		assert.GreaterOrEqual(t, len(p.Degrees), 4, "progression %s", p.Name)
	}
}
