package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joeydtaylor/jcamp/pkg/builder"
)

// Debug records for each label and finalized spectrum go to stderr and to a file sink.
const sample = "##TITLE=sample\n##JCAMP-DX=4.24\n##XUNITS=HZ\n##YUNITS=ARBITRARY UNITS\n" +
	"##FIRSTX=0\n##LASTX=3\n##DELTAX=1\n##XFACTOR=1\n##YFACTOR=1\n##NPOINTS=4\n" +
	"##XYDATA=(X++(Y..Y))\n0 5 6 7 8\n##$OPERATOR=nobody\n##END="

func main() {
	logger := builder.NewLogger(
		builder.LoggerWithLevel("debug"),
		builder.LoggerWithFields(map[string]interface{}{"app": "logging-example"}),
	)
	defer logger.Flush()

	path := filepath.Join(os.TempDir(), "jcamp-example.log")
	if err := logger.AddSink("file", builder.SinkConfig{
		Type:   string(builder.FileSink),
		Config: map[string]interface{}{"path": path},
	}); err != nil {
		fmt.Printf("Error adding file sink: %v\n", err)
		return
	}

	asm := builder.NewAssembler(
		builder.AssemblerWithLogger(logger),
		builder.AssemblerWithComponentMetadata("example-parser", "parser-1"),
	)
	res, err := asm.Parse(sample)
	if err != nil {
		fmt.Printf("Error parsing: %v\n", err)
		return
	}
	fmt.Printf("parsed %d entries with %d diagnostics, log at %s\n",
		len(res.Document.Entries), len(res.Diagnostics), path)

	sinks, _ := logger.ListSinks()
	fmt.Println("sinks:", sinks)
}
