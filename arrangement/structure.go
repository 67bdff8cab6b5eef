package arrangement

import "github.com/ako-music/songforge/theory"

// StructurePattern names a template of section types and bar counts.
type StructurePattern int

const (
	StructureFullPop StructurePattern = iota
	StructureStandardPop
	StructureShortForm
	StructureAABA
	StructureEDMBuild
	StructureThroughComposed
)

func (p StructurePattern) String() string {
	switch p {
	case StructureFullPop:
		return "FullPop"
	case StructureStandardPop:
		return "StandardPop"
	case StructureShortForm:
		return "ShortForm"
	case StructureAABA:
		return "AABA"
	case StructureEDMBuild:
		return "EDMBuild"
	case StructureThroughComposed:
		return "ThroughComposed"
	default:
		return "Unknown"
	}
}

// ParseStructurePattern looks up a StructurePattern by its String()
// name, for decoding the `structure:` field of a YAML preset.
func ParseStructurePattern(name string) (StructurePattern, bool) {
	for p := StructureFullPop; p <= StructureThroughComposed; p++ {
		if p.String() == name {
			return p, true
		}
	}
	return 0, false
}

// slot is a template entry: a section type and its bar count.
type slot struct {
	typ  SectionType
	bars int
}

// templates maps each structure pattern to its ordered section slots.
// Bar counts follow common pop-song conventions (4-bar intro/outro,
// 8-bar verse/chorus, 4-bar pre-chorus/bridge).
var templates = map[StructurePattern][]slot{
	StructureFullPop: {
		{SectionIntro, 4}, {SectionA, 8}, {SectionB, 4}, {SectionChorus, 8},
		{SectionA, 8}, {SectionB, 4}, {SectionChorus, 8}, {SectionBridge, 4},
		{SectionChorus, 8}, {SectionOutro, 4},
	},
	StructureStandardPop: {
		{SectionIntro, 4}, {SectionA, 8}, {SectionChorus, 8},
		{SectionA, 8}, {SectionChorus, 8}, {SectionOutro, 4},
	},
	StructureShortForm: {
		{SectionIntro, 4}, {SectionA, 8}, {SectionChorus, 8}, {SectionOutro, 4},
	},
	StructureAABA: {
		{SectionA, 8}, {SectionA, 8}, {SectionBridge, 8}, {SectionA, 8},
	},
	StructureEDMBuild: {
		{SectionIntro, 8}, {SectionA, 8}, {SectionB, 4}, {SectionDrop, 8},
		{SectionMixBreak, 4}, {SectionDrop, 8}, {SectionOutro, 4},
	},
	StructureThroughComposed: {
		{SectionIntro, 4}, {SectionA, 8}, {SectionB, 4}, {SectionChorus, 8},
		{SectionInterlude, 4}, {SectionChant, 4}, {SectionOutro, 4},
	},
}

// densityBySectionType gives the default overall/backing/vocal density
// triplet for a section type, before any mood adjustment.
var densityBySectionType = map[SectionType][3]int{
	SectionIntro:     {40, 45, 20},
	SectionA:         {55, 55, 60},
	SectionB:         {65, 70, 65},
	SectionChorus:    {85, 85, 80},
	SectionBridge:    {60, 55, 55},
	SectionInterlude: {35, 40, 10},
	SectionOutro:     {30, 35, 15},
	SectionChant:     {50, 30, 70},
	SectionMixBreak:  {50, 60, 20},
	SectionDrop:      {95, 90, 50},
}

// fullMask is every track active; sections dial individual tracks off via
// trackMaskFor below.
const fullMask = MaskVocal | MaskChord | MaskBass | MaskMotif | MaskArpeggio | MaskAux | MaskDrums

// trackMaskFor derives which tracks sound in a section: intros/outros/
// interludes drop the vocal (instrumental), mix-breaks drop drums.
func trackMaskFor(t SectionType) TrackMask {
	switch t {
	case SectionIntro, SectionOutro, SectionInterlude:
		return fullMask &^ MaskVocal
	case SectionMixBreak:
		return fullMask &^ MaskDrums
	case SectionDrop:
		return fullMask &^ MaskVocal
	default:
		return fullMask
	}
}

// peakLevelFor is the section's target dynamic peak (0-100), used by
// postprocess's transition-dynamics interpolation across boundaries.
func peakLevelFor(t SectionType) int {
	switch t {
	case SectionChorus, SectionDrop:
		return 100
	case SectionB, SectionBridge:
		return 75
	case SectionIntro, SectionOutro, SectionInterlude:
		return 40
	case SectionChant:
		return 60
	case SectionMixBreak:
		return 55
	default:
		return 65
	}
}

// Build assembles an Arrangement from a structure pattern, a chord
// progression, and a mood. Sections are laid out back to back starting at
// tick 0 with no gaps, satisfying the arrangement's gapless invariant.
func Build(pattern StructurePattern, prog theory.Progression, mood Mood) *Arrangement {
	slots := templates[pattern]
	if slots == nil {
		slots = templates[StructureStandardPop]
	}

	a := &Arrangement{Progression: prog, Mood: mood}
	var tick uint32
	for _, sl := range slots {
		d := densityBySectionType[sl.typ]
		sec := Section{
			Type:           sl.typ,
			StartTick:      tick,
			Bars:           sl.bars,
			DensityPercent: d[0],
			BackingDensity: d[1],
			VocalDensity:   d[2],
			TrackMask:      trackMaskFor(sl.typ),
			PeakLevel:      peakLevelFor(sl.typ),
		}
		a.Sections = append(a.Sections, sec)
		tick = sec.EndTick()
	}
	return a
}
