package asdf

// Class is the role a byte plays in an ASDF stream.
type Class uint8

const (
	ClassInvalid   Class = iota
	ClassDigit           // 0-9
	ClassDecimal         // '.' or ','
	ClassSQZ             // @ A-I, a-i: absolute value, first digit squeezed in
	ClassDIF             // % J-R, j-r: difference from the previous Y
	ClassDUP             // S-Z, s: repeat the previous operation
	ClassMinus           // '-'
	ClassSeparator       // space, tab, '+', ';'
	ClassNewline         // CR, LF
	ClassDollar          // '$', a comment when doubled
)

func (c Class) String() string {
	switch c {
	case ClassDigit:
		return "digit"
	case ClassDecimal:
		return "decimal"
	case ClassSQZ:
		return "sqz"
	case ClassDIF:
		return "dif"
	case ClassDUP:
		return "dup"
	case ClassMinus:
		return "minus"
	case ClassSeparator:
		return "separator"
	case ClassNewline:
		return "newline"
	case ClassDollar:
		return "dollar"
	default:
		return "invalid"
	}
}

// symbol is one entry of the lookup table: its class, the digit it contributes and its sign.
type symbol struct {
	class    Class
	digit    uint8
	negative bool
}

var table = buildTable()

func buildTable() [256]symbol {
	var t [256]symbol
	for c := '0'; c <= '9'; c++ {
		t[c] = symbol{class: ClassDigit, digit: uint8(c - '0')}
	}
	t['.'] = symbol{class: ClassDecimal}
	t[','] = symbol{class: ClassDecimal}

	for c := '@'; c <= 'I'; c++ {
		t[c] = symbol{class: ClassSQZ, digit: uint8(c - '@')}
	}
	for c := 'a'; c <= 'i'; c++ {
		t[c] = symbol{class: ClassSQZ, digit: uint8(c - 'a' + 1), negative: true}
	}

	t['%'] = symbol{class: ClassDIF, digit: 0}
	for c := 'J'; c <= 'R'; c++ {
		t[c] = symbol{class: ClassDIF, digit: uint8(c - 'I')}
	}
	for c := 'j'; c <= 'r'; c++ {
		t[c] = symbol{class: ClassDIF, digit: uint8(c - 'i'), negative: true}
	}

	for c := 'S'; c <= 'Z'; c++ {
		t[c] = symbol{class: ClassDUP, digit: uint8(c - 'R')}
	}
	t['s'] = symbol{class: ClassDUP, digit: 9}

	t['-'] = symbol{class: ClassMinus}
	for _, c := range []byte{' ', '\t', '+', ';', '\f', '\v'} {
		t[c] = symbol{class: ClassSeparator}
	}
	t['\r'] = symbol{class: ClassNewline}
	t['\n'] = symbol{class: ClassNewline}
	t['$'] = symbol{class: ClassDollar}
	return t
}

// Classify returns the class of b.
func Classify(b byte) Class {
	return table[b].class
}
