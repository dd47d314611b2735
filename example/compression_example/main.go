package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joeydtaylor/jcamp/pkg/builder"
)

const doc = "##TITLE=ramp\n##JCAMP-DX=5.01\n##XUNITS=SECONDS\n##YUNITS=COUNTS\n" +
	"##FIRSTX=0\n##LASTX=9\n##DELTAX=1\n##XFACTOR=1\n##YFACTOR=1\n##NPOINTS=10\n" +
	"##XYDATA=(X++(Y..Y))\n0 10 12 14 16 18\n5 20 22 24 26 28\n##END="

func main() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "jcamp-compression")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	res, err := builder.Parse(doc)
	if err != nil {
		panic(err)
	}

	z := builder.NewSerializer(builder.SerializerWithOwner("example"))
	for _, name := range []string{"ramp.jdx", "ramp.jdx.gz", "ramp.jdx.zst", "ramp.jdx.sz", "ramp.jdx.br", "ramp.jdx.lz4"} {
		path := filepath.Join(dir, name)
		if err := builder.WriteFile(z, path, res.Document); err != nil {
			panic(err)
		}
		info, err := os.Stat(path)
		if err != nil {
			panic(err)
		}
		back, err := builder.ParseFile(ctx, nil, path)
		if err != nil {
			panic(err)
		}
		y := back.Document.Entries[0].Spectra[0].Data.Y
		fmt.Printf("%-14s %-7s %5d bytes, %d points, last y %v\n",
			name, builder.CompressionFromPath(path), info.Size(), len(y), y[len(y)-1])
	}
}
