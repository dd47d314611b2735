package postprocess

import (
	"strings"
	"unicode"
)

// gyromagneticRatios holds gamma/2pi in MHz/T, keyed by normalized nucleus ("1H", "13C").
// The table is read-only and shared by every parse.
var gyromagneticRatios = map[string]float64{
	"1H":    42.577478,
	"2H":    6.536,
	"3H":    45.415,
	"3He":   -32.434,
	"6Li":   6.266,
	"7Li":   16.548,
	"9Be":   -5.983,
	"10B":   4.575,
	"11B":   13.663,
	"13C":   10.7084,
	"14N":   3.077,
	"15N":   -4.316,
	"17O":   -5.772,
	"19F":   40.078,
	"23Na":  11.262,
	"25Mg":  -2.606,
	"27Al":  11.103,
	"29Si":  -8.465,
	"31P":   17.235,
	"33S":   3.272,
	"35Cl":  4.176,
	"37Cl":  3.476,
	"39K":   1.989,
	"43Ca":  -2.869,
	"51V":   11.213,
	"55Mn":  10.553,
	"57Fe":  1.382,
	"59Co":  10.077,
	"63Cu":  11.319,
	"65Cu":  12.103,
	"67Zn":  2.669,
	"77Se":  8.157,
	"79Br":  10.704,
	"81Br":  11.539,
	"89Y":   -2.093,
	"103Rh": -1.348,
	"107Ag": -1.730,
	"109Ag": -1.990,
	"111Cd": -9.069,
	"113Cd": -9.487,
	"117Sn": -15.261,
	"119Sn": -15.966,
	"125Te": -13.545,
	"127I":  8.578,
	"129Xe": -11.860,
	"133Cs": 5.623,
	"183W":  1.795,
	"195Pt": 9.203,
	"199Hg": 7.712,
	"205Tl": 24.731,
	"207Pb": 8.907,
}

// NormalizeNucleus turns "^1H", "1h", "H1" or "C-13" into the "1H"/"13C" form.
func NormalizeNucleus(s string) string {
	var digits, letters strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case unicode.IsLetter(r):
			letters.WriteRune(r)
		}
	}
	l := letters.String()
	if l == "" {
		return digits.String()
	}
	l = strings.ToUpper(l[:1]) + strings.ToLower(l[1:])
	return digits.String() + l
}

// GyromagneticRatio returns gamma/2pi in MHz/T for nucleus.
func GyromagneticRatio(nucleus string) (float64, bool) {
	g, ok := gyromagneticRatios[NormalizeNucleus(nucleus)]
	return g, ok
}
