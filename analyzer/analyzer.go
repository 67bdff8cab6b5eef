// Package analyzer is a read-only pass over a finished Song that reports
// dissonance and harmony issues without ever modifying the song. It
// exists to give the test suite (and the CLI's `analyze` subcommand) a structured, JSON-serializable verdict instead of a
// human reading the MIDI by ear.
package analyzer

import (
	"sort"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/harmony"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/theory"
)

// IssueKind names the four classes of harmony problem the analyzer can
// surface, per spec.md §4.13.
type IssueKind string

const (
	SimultaneousClash        IssueKind = "simultaneous_clash"
	NonChordTone             IssueKind = "non_chord_tone"
	SustainedOverChordChange IssueKind = "sustained_over_chord_change"
	NonDiatonicNote          IssueKind = "non_diatonic_note"
)

// Severity ranks how badly an issue hurts the listening experience.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Issue is one flagged occurrence, with enough context to locate and
// explain it without re-reading the song.
type Issue struct {
	Type     IssueKind `json:"type"`
	Severity Severity  `json:"severity"`
	Tick     uint32    `json:"tick"`
	Bar      uint32    `json:"bar"`
	Beat     float64   `json:"beat"`

	Track     string `json:"track,omitempty"`
	OtherTrack string `json:"other_track,omitempty"`
	Pitch     uint8  `json:"pitch,omitempty"`
	OtherPitch uint8 `json:"other_pitch,omitempty"`
}

// Summary is the report's aggregate counters, matching spec.md §6.3's
// JSON schema field-for-field.
type Summary struct {
	TotalIssues               uint32 `json:"total_issues"`
	SimultaneousClashes       uint32 `json:"simultaneous_clashes"`
	NonChordTones             uint32 `json:"non_chord_tones"`
	SustainedOverChordChanges uint32 `json:"sustained_over_chord_change"`
	NonDiatonicNotes          uint32 `json:"non_diatonic_notes"`
	HighSeverity              uint32 `json:"high_severity"`
	MediumSeverity            uint32 `json:"medium_severity"`
	LowSeverity               uint32 `json:"low_severity"`
	ModulationTick            uint32 `json:"modulation_tick"`
	ModulationAmount          int8   `json:"modulation_amount"`
	PreModulationIssues       uint32 `json:"pre_modulation_issues"`
	PostModulationIssues      uint32 `json:"post_modulation_issues"`
}

// Report is the complete analyzer output, ready for json.Marshal.
type Report struct {
	Summary Summary `json:"summary"`
	Issues  []Issue `json:"issues"`
}

// Analyze runs every check against s and returns the combined report.
// arr is the song's arrangement (used for bar/beat conversion and chord
// lookups via a fresh, read-only harmony.Context).
func Analyze(s *song.Song, arr *arrangement.Arrangement) Report {
	ctx := harmony.NewContext(arr)

	var issues []Issue
	issues = append(issues, findSimultaneousClashes(s, ctx)...)
	issues = append(issues, findNonContextualBassTritones(s, ctx)...)
	issues = append(issues, findNonChordTones(s, ctx)...)
	issues = append(issues, findSustainedOverChordChanges(s, ctx)...)
	issues = append(issues, findNonDiatonicNotes(s, ctx, arr)...)

	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Tick < issues[j].Tick })

	return Report{Summary: summarize(s, issues), Issues: issues}
}

func summarize(s *song.Song, issues []Issue) Summary {
	sum := Summary{
		ModulationTick:   s.ModulationTick,
		ModulationAmount: s.ModulationAmount,
	}
	for _, is := range issues {
		sum.TotalIssues++
		switch is.Type {
		case SimultaneousClash:
			sum.SimultaneousClashes++
		case NonChordTone:
			sum.NonChordTones++
		case SustainedOverChordChange:
			sum.SustainedOverChordChanges++
		case NonDiatonicNote:
			sum.NonDiatonicNotes++
		}
		switch is.Severity {
		case SeverityHigh:
			sum.HighSeverity++
		case SeverityMedium:
			sum.MediumSeverity++
		case SeverityLow:
			sum.LowSeverity++
		}
		if s.ModulationApplied && is.Tick >= s.ModulationTick {
			sum.PostModulationIssues++
		} else {
			sum.PreModulationIssues++
		}
	}
	return sum
}

func barAndBeat(tick uint32) (uint32, float64) {
	bar := tick / arrangement.TicksPerBar
	within := tick % arrangement.TicksPerBar
	beat := float64(within) / float64(arrangement.TicksPerBeat)
	return bar, beat
}

func isStrongBeatTick(tick uint32) bool {
	within := tick % arrangement.TicksPerBar
	beat := within / arrangement.TicksPerBeat
	return within%arrangement.TicksPerBeat == 0 && (beat == 0 || beat == 2)
}

func isSectionStartBeat1(arr *arrangement.Arrangement, tick uint32) bool {
	sec, idx := arr.SectionAt(tick)
	return idx >= 0 && tick == sec.StartTick
}

// isSecondaryDominantTone reports whether pc is a chord tone of any of
// the five common secondary dominants named in spec.md §4.13 (V/ii=A7,
// V/iii=B7, V/IV=C7, V/V=D7, V/vi=E7).
func isSecondaryDominantTone(pc int) bool {
	for _, tones := range theory.SecondaryDominantChordTones() {
		for _, t := range tones {
			if t == pc {
				return true
			}
		}
	}
	return false
}

func isDiatonicOrChordTone(ctx *harmony.Context, arr *arrangement.Arrangement, pc int, tick uint32) bool {
	if theory.IsCMajorScaleTone(pc) {
		return true
	}
	degree := ctx.GetChordDegreeAt(tick)
	if theory.IsChordTone(degree, pc) {
		return true
	}
	next := ctx.GetNextChordChangeTick(tick)
	if next > tick {
		nextDegree := ctx.GetChordDegreeAt(next)
		if theory.IsChordTone(nextDegree, pc) {
			return true
		}
	}
	return isSecondaryDominantTone(pc)
}
