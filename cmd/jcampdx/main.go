// Command jcampdx converts JCAMP-DX documents to JSON, JCAMP-DX, parquet and back, and moves
// them in and out of object storage.
//
//	jcampdx [-config file.yaml] <command> [flags] <input>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/joeydtaylor/jcamp/pkg/builder"
)

// env is what every subcommand receives: resolved configuration, a logger and the process
// streams.
type env struct {
	cfg    builder.Config
	logger builder.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"json":         {"decode a document and print it as JSON", runJSON},
	"jcamp":        {"decode a document and write it back as JCAMP-DX", runJCAMP},
	"parquet":      {"export every decoded point as a parquet row", runParquet},
	"chromatogram": {"print the time-resolved series of each entry", runChromatogram},
	"smooth":       {"Savitzky-Golay smooth every spectrum", runSmooth},
	"container":    {"convert a zip instrument container to JCAMP-DX", runContainer},
	"crystal":      {"simulate a powder pattern from a CIF file", runCrystal},
	"s3":           {"get, put or list documents in object storage", runS3},
}

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jcampdx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", builder.EnvOr("JCAMP_CONFIG", ""), "YAML configuration file")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		usage(stderr)
		return 2
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "jcampdx: unknown command %q\n", name)
		usage(stderr)
		return 2
	}

	cfg, err := builder.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "jcampdx: %v\n", err)
		return 1
	}
	logger := builder.NewLoggerFromConfig(cfg.Log)
	defer logger.Flush()

	e := &env{cfg: cfg, logger: logger, stdin: stdin, stdout: stdout, stderr: stderr}
	if err := cmd.run(ctx, e, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintf(stderr, "jcampdx %s: %v\n", name, err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: jcampdx [-config file.yaml] <command> [flags] <input>")
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-13s %s\n", n, commands[n].summary)
	}
}

// newFlags returns a subcommand flag set printing its defaults to e.stderr.
func newFlags(e *env, name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "usage: jcampdx %s [flags] %s\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}
