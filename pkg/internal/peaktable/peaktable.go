// Package peaktable parses the uncompressed JCAMP-DX data block variants: (XY..XY) peak tables,
// (XYZ..XYZ) NTUPLES rows and (XYA) peak assignments.
package peaktable

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

var (
	lineSplit   = regexp.MustCompile(`,? *,?[;\r\n]+ *`)
	tokenSplit  = regexp.MustCompile(`[,\t ]+`)
	xyaStrip    = regexp.MustCompile(`(\(+|\)+|<+|>+|\s+)`)
	commentMark = "$$"
)

// lines splits a block body into data lines. Comments are cut from each physical line before
// the split, so a ';' inside a comment never starts a line. The first line is the "(XY..XY)"
// header and is dropped. Line numbers are 1-based offsets from the header.
func lines(text string) []string {
	if strings.Contains(text, commentMark) {
		physical := strings.Split(text, "\n")
		for i, l := range physical {
			physical[i] = stripComment(l)
		}
		text = strings.Join(physical, "\n")
	}
	parts := lineSplit.Split(text, -1)
	if len(parts) == 0 {
		return nil
	}
	return parts[1:]
}

func stripComment(line string) string {
	if i := strings.Index(line, commentMark); i >= 0 {
		return line[:i]
	}
	return line
}

func tokens(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	out := tokenSplit.Split(line, -1)
	n := 0
	for _, t := range out {
		if t != "" {
			out[n] = t
			n++
		}
	}
	return out[:n]
}

func parseFloats(toks []string) ([]float64, error) {
	out := make([]float64, len(toks))
	for i, t := range toks {
		f, err := types.ParseNumber(t)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", t)
		}
		out[i] = f
	}
	return out, nil
}

func diag(line int, format string, args ...interface{}) types.Diagnostic {
	return types.Diagnostic{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// ParseXY decodes an (XY..XY) block. Each line holds one or more x,y pairs; a line with an odd
// token count or a non-numeric token is reported and skipped.
func ParseXY(text string, xFactor, yFactor float64) (types.XY, []types.Diagnostic) {
	var (
		out   types.XY
		diags []types.Diagnostic
	)
	for i, line := range lines(text) {
		toks := tokens(line)
		if len(toks) == 0 {
			continue
		}
		if len(toks)%2 != 0 {
			diags = append(diags, diag(i+1, "odd token count %d: %q", len(toks), strings.TrimSpace(line)))
			continue
		}
		vals, err := parseFloats(toks)
		if err != nil {
			diags = append(diags, diag(i+1, "%v", err))
			continue
		}
		for j := 0; j < len(vals); j += 2 {
			out.X = append(out.X, vals[j]*xFactor)
			out.Y = append(out.Y, vals[j+1]*yFactor)
		}
	}
	return out, diags
}

// ParseXYZ decodes a k-variable block, distributing tokens round-robin over the k columns.
// factors[i] scales column i; a missing factor counts as 1. A line whose token count is not a
// multiple of k is reported and skipped.
func ParseXYZ(text string, k int, factors []float64) ([][]float64, []types.Diagnostic) {
	if k <= 0 {
		return nil, []types.Diagnostic{diag(0, "no declared variables")}
	}
	cols := make([][]float64, k)
	var diags []types.Diagnostic
	for i, line := range lines(text) {
		toks := tokens(line)
		if len(toks) == 0 {
			continue
		}
		if len(toks)%k != 0 {
			diags = append(diags, diag(i+1, "token count %d is not a multiple of %d", len(toks), k))
			continue
		}
		vals, err := parseFloats(toks)
		if err != nil {
			diags = append(diags, diag(i+1, "%v", err))
			continue
		}
		for j, v := range vals {
			c := j % k
			f := 1.0
			if c < len(factors) && factors[c] != 0 {
				f = factors[c]
			}
			cols[c] = append(cols[c], v*f)
		}
	}
	return cols, diags
}

// ParseXYA decodes a (XYA) assignment block: brackets and whitespace are removed and the first
// two comma separated values of each line become x and y. The assignment text is ignored.
func ParseXYA(text string) (types.XY, []types.Diagnostic) {
	var (
		out   types.XY
		diags []types.Diagnostic
	)
	for i, line := range lines(text) {
		line = xyaStrip.ReplaceAllString(line, "")
		if line == "" {
			continue
		}
		toks := strings.Split(line, ",")
		if len(toks) < 2 {
			diags = append(diags, diag(i+1, "expected x,y assignment: %q", line))
			continue
		}
		vals, err := parseFloats(toks[:2])
		if err != nil {
			diags = append(diags, diag(i+1, "%v", err))
			continue
		}
		out.X = append(out.X, vals[0])
		out.Y = append(out.Y, vals[1])
	}
	return out, diags
}
