package analyzer

import (
	"encoding/json"
	"testing"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/harmony"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
	"github.com/stretchr/testify/assert"
)

func buildAnalyzerTestSong() (*song.Song, *arrangement.Arrangement) {
	prog := theory.ProgressionByID(0)
	arr := arrangement.Build(arrangement.StructureShortForm, prog, arrangement.MoodBallad)
	s := song.NewSong(1)
	s.Arrangement = arr
	return s, arr
}

func TestAnalyzeEmptySongHasNoIssues(t *testing.T) {
	s, arr := buildAnalyzerTestSong()
	report := Analyze(s, arr)
	assert.Equal(t, uint32(0), report.Summary.TotalIssues)
	assert.Empty(t, report.Issues)
}

func TestFindSimultaneousClashesFlagsMinorSecond(t *testing.T) {
	s, arr := buildAnalyzerTestSong()
	ctx := harmony.NewContext(arr)
	s.Track(song.RoleChord).Add(song.NoteEvent{StartTick: 0, Duration: 480, Pitch: 60})
	s.Track(song.RoleAux).Add(song.NoteEvent{StartTick: 0, Duration: 480, Pitch: 61})

	issues := findSimultaneousClashes(s, ctx)
	assert.NotEmpty(t, issues)
	assert.Equal(t, SimultaneousClash, issues[0].Type)
}

func TestFindNonContextualBassTritonesFlagsEvenOnDominant(t *testing.T) {
	s, arr := buildAnalyzerTestSong()
	ctx := harmony.NewContext(arr)

	// Progression 0 is I-V-vi-IV and the Ballad intro changes chord every
	// two bars, so bar 2 sits on V (root pitch class 7). A bass note a
	// tritone away (pitch class 1) is let through on a dominant by the
	// chord-contextual rule (clashesBetween), but the non-contextual
	// bass-tritone rule always flags it.
	barStart := uint32(2) * arrangement.TicksPerBar
	degree := ctx.GetChordDegreeAt(barStart)
	assert.Equal(t, theory.DegreeV, degree)

	s.Track(song.RoleBass).Add(song.NoteEvent{StartTick: barStart, Duration: 480, Pitch: 37})
	s.Track(song.RoleChord).Add(song.NoteEvent{StartTick: barStart, Duration: 480, Pitch: 67})

	issues := findNonContextualBassTritones(s, ctx)
	assert.NotEmpty(t, issues)
	assert.Equal(t, SeverityHigh, issues[0].Severity)

	contextual := clashesBetween(ctx, s.Track(song.RoleBass), song.RoleBass, s.Track(song.RoleChord), song.RoleChord)
	assert.Empty(t, contextual)
}

func TestFindNonChordTonesSkipsActualChordTones(t *testing.T) {
	s, arr := buildAnalyzerTestSong()
	ctx := harmony.NewContext(arr)
	degree := ctx.GetChordDegreeAt(0)
	tone := theory.TriadPitchClasses(degree, theory.ExtNone)[0]
	s.Track(song.RoleChord).Add(song.NoteEvent{StartTick: 0, Duration: 480, Pitch: uint8(60 + tone)})

	issues := findNonChordTones(s, ctx)
	assert.Empty(t, issues)
}

func TestSummarizeCountsSeverityBuckets(t *testing.T) {
	issues := []Issue{
		{Type: SimultaneousClash, Severity: SeverityHigh, Tick: 10},
		{Type: NonChordTone, Severity: SeverityLow, Tick: 20},
	}
	sum := summarize(&song.Song{}, issues)
	assert.Equal(t, uint32(2), sum.TotalIssues)
	assert.Equal(t, uint32(1), sum.HighSeverity)
	assert.Equal(t, uint32(1), sum.LowSeverity)
}

func TestReportMarshalsToJSON(t *testing.T) {
	s, arr := buildAnalyzerTestSong()
	report := Analyze(s, arr)
	data, err := json.Marshal(report)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "\"total_issues\"")
}
