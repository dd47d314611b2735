// Package asdf decodes the ASCII squeezed difference form (SQZ/DIF/DUP) that JCAMP-DX uses for
// XYDATA and compressed DATA TABLE blocks.
package asdf

import (
	"fmt"
	"math"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

// SyntaxError locates a byte that belongs to no ASDF class.
type SyntaxError struct {
	Offset int
	Char   byte
}

func (e *SyntaxError) Error() string {
	if e.Char >= 0x20 && e.Char < 0x7f {
		return fmt.Sprintf("unexpected character %q", rune(e.Char))
	}
	return fmt.Sprintf("unexpected byte 0x%02x", e.Char)
}

// MaxPoints bounds a block decoded without a declared point count.
const MaxPoints = 1 << 24

// LimitError reports a block that expands past its point limit.
type LimitError struct {
	Offset int
	Limit  int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("block expands past %d points", e.Limit)
}

type pendingKind uint8

const (
	pendingPlain pendingKind = iota
	pendingDIF
	pendingDUP
)

// decoder holds the scan state. One decoder decodes one block.
type decoder struct {
	deltaX  float64
	yFactor float64
	limit   int
	out     types.XY

	currentX float64
	currentY float64

	// value being read
	inValue  bool
	value    float64
	decimals int
	negative bool
	kind     pendingKind

	// line and operation state
	newLine          bool
	skipFirstValue   bool
	isLastDifference bool
	lastDifference   float64
	lastValue        float64
	inComment        bool
}

// Decode expands one ASDF block into (x, y) pairs. text must not include the "(X++(Y..Y))"
// header line. The first value of every line is the X checkpoint and is not emitted; after a
// line that ended in DIF mode, the Y check value that follows the checkpoint is skipped too.
func Decode(firstX, deltaX, yFactor float64, text string) (types.XY, error) {
	return DecodeLimit(firstX, deltaX, yFactor, text, MaxPoints)
}

// DecodeLimit is Decode failing with a LimitError as soon as the block would hold more than
// limit points. A limit below one means MaxPoints.
func DecodeLimit(firstX, deltaX, yFactor float64, text string, limit int) (types.XY, error) {
	if limit < 1 || limit > MaxPoints {
		limit = MaxPoints
	}
	d := &decoder{
		deltaX:   deltaX,
		yFactor:  yFactor,
		limit:    limit,
		currentX: firstX,
		newLine:  true,
	}
	if err := d.scan(text); err != nil {
		return d.out, err
	}
	return d.out, nil
}

func (d *decoder) scan(text string) error {
	for i := 0; i < len(text); i++ {
		c := text[i]
		sym := table[c]

		if d.inComment {
			if sym.class == ClassNewline {
				d.inComment = false
				d.newLine = true
			}
			continue
		}

		switch sym.class {
		case ClassDigit:
			d.inValue = true
			if d.decimals > 0 {
				d.value += float64(sym.digit) / math.Pow(10, float64(d.decimals))
				d.decimals++
			} else {
				d.value = d.value*10 + float64(sym.digit)
			}
			continue
		case ClassDecimal:
			d.inValue = true
			if d.decimals == 0 {
				d.decimals = 1
			}
			continue
		}

		// every other class ends the pending value
		if err := d.flush(i); err != nil {
			return err
		}

		switch sym.class {
		case ClassSQZ:
			d.start(pendingPlain, sym)
			d.isLastDifference = false
		case ClassDIF:
			d.start(pendingDIF, sym)
		case ClassDUP:
			d.start(pendingDUP, sym)
		case ClassMinus:
			if i+1 >= len(text) {
				return &SyntaxError{Offset: i, Char: c}
			}
			if next := Classify(text[i+1]); next != ClassDigit && next != ClassDecimal {
				return &SyntaxError{Offset: i, Char: c}
			}
			d.inValue = true
			d.negative = true
			if !d.newLine {
				d.isLastDifference = false
			}
		case ClassSeparator:
		case ClassNewline:
			d.newLine = true
		case ClassDollar:
			if i+1 < len(text) && text[i+1] == '$' {
				d.inComment = true
				i++
				continue
			}
			return &SyntaxError{Offset: i, Char: c}
		default:
			return &SyntaxError{Offset: i, Char: c}
		}
	}
	return d.flush(len(text))
}

func (d *decoder) start(kind pendingKind, sym symbol) {
	d.inValue = true
	d.kind = kind
	d.value = float64(sym.digit)
	d.negative = sym.negative
}

// flush resolves the pending value, if any. at is the offset of the byte that ended it.
func (d *decoder) flush(at int) error {
	if !d.inValue {
		return nil
	}
	v := d.value
	if d.negative {
		v = -v
	}
	kind := d.kind
	count := d.value
	d.inValue = false
	d.value = 0
	d.decimals = 0
	d.negative = false
	d.kind = pendingPlain

	if d.newLine {
		// X checkpoint
		d.newLine = false
		if d.isLastDifference {
			d.skipFirstValue = true
		}
		return nil
	}
	if d.skipFirstValue {
		// Y check value repeating the last point of the previous line
		d.skipFirstValue = false
		return nil
	}

	repeat := 1
	switch kind {
	case pendingDIF:
		d.lastDifference = v
		d.isLastDifference = true
	case pendingDUP:
		if count-1 > float64(d.limit-len(d.out.X)) {
			return &LimitError{Offset: at, Limit: d.limit}
		}
		repeat = int(count) - 1
	default:
		d.lastValue = v
		d.isLastDifference = false
	}
	if len(d.out.X)+repeat > d.limit {
		return &LimitError{Offset: at, Limit: d.limit}
	}
	for j := 0; j < repeat; j++ {
		if d.isLastDifference {
			d.currentY += d.lastDifference
		} else {
			d.currentY = d.lastValue
		}
		d.out.X = append(d.out.X, d.currentX)
		d.out.Y = append(d.out.Y, d.currentY*d.yFactor)
		d.currentX += d.deltaX
	}
	return nil
}
