package main

import (
	"fmt"
	"os"

	"github.com/joeydtaylor/jcamp/pkg/builder"
)

const infrared = `##TITLE=polystyrene film
##JCAMP-DX=4.24
##DATA TYPE=INFRARED SPECTRUM
##ORIGIN=demo
##OWNER=public domain
##$RESOLUTION=4
##XUNITS=1/CM
##YUNITS=TRANSMITTANCE
##FIRSTX=3100
##LASTX=3088
##DELTAX=-2
##XFACTOR=1
##YFACTOR=0.001
##NPOINTS=7
##XYDATA=(X++(Y..Y))
3100 812 805 796 784 790 801 809
##END=
`

func main() {
	logger := builder.NewLogger(builder.LoggerWithLevel("debug"))
	defer logger.Flush()

	asm := builder.NewAssembler(
		builder.AssemblerWithLogger(logger),
		builder.AssemblerWithCanonicLabels(true),
	)

	res, err := asm.Parse(infrared)
	if err != nil {
		fmt.Printf("Error parsing document: %v\n", err)
		return
	}
	for _, l := range res.Logs() {
		fmt.Println("diagnostic:", l)
	}

	for _, e := range res.Document.Flatten() {
		s := e.Spectra[0]
		fmt.Printf("%s: %d points, x %v..%v %s\n", e.Title, len(s.Data.X), s.Data.X[0], s.Data.X[len(s.Data.X)-1], s.XUnits)
		fmt.Printf("resolution (user label): %v\n", e.Meta.String("RESOLUTION"))
	}

	if err := builder.NewJSONEncoder[*builder.Document]("  ").Encode(os.Stdout, res.Document); err != nil {
		fmt.Printf("Error converting output to JSON: %v\n", err)
	}
}
