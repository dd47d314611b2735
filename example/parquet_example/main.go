package main

import (
	"bytes"
	"fmt"

	"github.com/joeydtaylor/jcamp/pkg/builder"
)

// Two pages of an NTUPLES mass spectrum, one row per point in the export.
const massSpectrum = `##TITLE=GC/MS run
##JCAMP-DX=5.00
##DATA TYPE=MASS SPECTRUM
##NTUPLES=MASS SPECTRUM
##VAR_NAME=MASS, INTENSITY, RETENTION TIME
##SYMBOL=X, Y, T
##VAR_TYPE=INDEPENDENT, DEPENDENT, INDEPENDENT
##VAR_FORM=AFFN, AFFN, AFFN
##VAR_DIM=, , 2
##UNITS=M/Z, RELATIVE ABUNDANCE, SECONDS
##PAGE=T=5.2
##NPOINTS=3
##DATA TABLE=(XY..XY), PEAKS
41,120
43,999
57,340
##PAGE=T=5.7
##NPOINTS=2
##DATA TABLE=(XY..XY), PEAKS
43,410
71,88
##END NTUPLES=MASS SPECTRUM
##END=
`

func main() {
	logger := builder.NewLogger()
	asm := builder.NewAssembler(builder.AssemblerWithLogger(logger), builder.AssemblerWithChromatogram(true))

	res, err := asm.Parse(massSpectrum)
	if err != nil {
		panic(err)
	}

	cfg := builder.DefaultConfig()
	var buf bytes.Buffer
	n, err := builder.WriteParquet(&buf, res.Document, cfg.Export)
	if err != nil {
		panic(err)
	}
	fmt.Printf("wrote %d rows (%d bytes, %s)\n", n, buf.Len(), cfg.Export.Compression)

	rows, err := builder.ReadParquet(bytes.NewReader(buf.Bytes()))
	if err != nil {
		panic(err)
	}
	for _, r := range rows {
		fmt.Printf("entry=%d spectrum=%d page=%v x=%v y=%v\n", r.Entry, r.Spectrum, r.Page, r.X, r.Y)
	}

	if c := res.Document.Entries[0].Chromatogram; c != nil {
		fmt.Printf("chromatogram times: %v\n", c.Times)
		if tic := c.Get("tic"); tic != nil {
			fmt.Printf("tic: %v\n", tic.Values)
		}
	}
}
