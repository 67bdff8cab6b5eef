package theory

// Progression is a fixed-length sequence of Degree ids, looked up by id
// (chord_id in GeneratorParams). Most progressions have 4 or 5 degrees;
// Folk (id 12) has 6 and Canon (id 4) has 8.
type Progression struct {
	ID      int
	Name    string
	Degrees []Degree
}

// Progressions is the canonical table of 22 progressions, indexed by id
// (0-21). Built in the teacher's table-of-constants style (theory.go's
// ScaleIntervals / ScaleNames pattern), generalized to Roman-numeral
// degree sequences instead of scale intervals.
var Progressions = []Progression{
	{0, "Pop1 (I-V-vi-IV)", []Degree{DegreeI, DegreeV, DegreeVI, DegreeIV}},
	{1, "Pop2 (vi-IV-I-V)", []Degree{DegreeVI, DegreeIV, DegreeI, DegreeV}},
	{2, "50s (I-vi-IV-V)", []Degree{DegreeI, DegreeVI, DegreeIV, DegreeV}},
	{3, "Pop3 (I-IV-vi-V)", []Degree{DegreeI, DegreeIV, DegreeVI, DegreeV}},
	{4, "Canon (I-V-vi-iii-IV-I-IV-V)", []Degree{DegreeI, DegreeV, DegreeVI, DegreeIII, DegreeIV, DegreeI, DegreeIV, DegreeV}},
	{5, "Andalusian (vi-V-IV-III)", []Degree{DegreeVI, DegreeV, DegreeIV, DegreeIII}},
	{6, "Axis (I-V-vi-IV alt)", []Degree{DegreeI, DegreeV, DegreeVI, DegreeIV}},
	{7, "JazzTurnaround (I-vi-ii-V)", []Degree{DegreeI, DegreeVI, DegreeII, DegreeV}},
	{8, "ii-V-I (ii-V-I-I)", []Degree{DegreeII, DegreeV, DegreeI, DegreeI}},
	{9, "Blues (I-IV-I-V)", []Degree{DegreeI, DegreeIV, DegreeI, DegreeV}},
	{10, "RockMinor (i-bVII-bVI-bVII)", []Degree{DegreeVI, DegreeBVII, DegreeBVI, DegreeBVII}},
	{11, "DramaticMinor (vi-IV-I-bVII)", []Degree{DegreeVI, DegreeIV, DegreeI, DegreeBVII}},
	{12, "Folk (I-IV-I-IV-V-I)", []Degree{DegreeI, DegreeIV, DegreeI, DegreeIV, DegreeV, DegreeI}},
	{13, "Ballad (I-iii-IV-V)", []Degree{DegreeI, DegreeIII, DegreeIV, DegreeV}},
	{14, "Gospel (I-IV-I-V-I)", []Degree{DegreeI, DegreeIV, DegreeI, DegreeV, DegreeI}},
	{15, "Descending (I-V-IV-iii)", []Degree{DegreeI, DegreeV, DegreeIV, DegreeIII}},
	{16, "Sentimental (vi-ii-V-I)", []Degree{DegreeVI, DegreeII, DegreeV, DegreeI}},
	{17, "Anthemic (IV-I-V-vi)", []Degree{DegreeIV, DegreeI, DegreeV, DegreeVI}},
	{18, "Modal (bVI-bVII-I)", []Degree{DegreeBVI, DegreeBVII, DegreeI, DegreeI}},
	{19, "BorrowedMinor (i-iv-bVII-bIII)", []Degree{DegreeVI, DegreeIVm, DegreeBVII, DegreeBIII}},
	{20, "LamentBass (I-V-vi-iii-IV)", []Degree{DegreeI, DegreeV, DegreeVI, DegreeIII, DegreeIV}},
	{21, "Chromatic (I-bII-I-V)", []Degree{DegreeI, DegreeBII, DegreeI, DegreeV}},
}

// ProgressionByID returns the progression for chord_id, clamping to the
// valid range rather than erroring (generation never fails on bad input).
func ProgressionByID(id int) Progression {
	if id < 0 || id >= len(Progressions) {
		return Progressions[0]
	}
	return Progressions[id]
}
