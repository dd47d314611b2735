package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/joeydtaylor/jcamp/pkg/builder"
)

func runS3(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(e.stderr, "usage: jcampdx s3 <get|put|ls> ...")
		return errUsage
	}
	switch args[0] {
	case "get":
		return runS3Get(ctx, e, args[1:])
	case "put":
		return runS3Put(ctx, e, args[1:])
	case "ls":
		return runS3List(ctx, e, args[1:])
	default:
		fmt.Fprintf(e.stderr, "jcampdx s3: unknown action %q\n", args[0])
		return errUsage
	}
}

func runS3Get(ctx context.Context, e *env, args []string) error {
	fs := newFlags(e, "s3 get", "<key>")
	out := fs.String("o", "", "output file, compressed by extension (default stdout)")
	asJSON := fs.Bool("json", false, "print the decoded document as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	key, err := oneInput(fs)
	if err != nil {
		return err
	}
	store, err := builder.NewDocumentStore(ctx, e.cfg, e.logger)
	if err != nil {
		return err
	}
	res, err := store.FetchDocument(ctx, key)
	if err != nil {
		return err
	}
	if *asJSON {
		return e.writeJSON(res, *out, false)
	}
	return e.writeJCAMP(res.Document, *out)
}

func runS3Put(ctx context.Context, e *env, args []string) error {
	fs := newFlags(e, "s3 put", "<input> <key>")
	parquet := fs.Bool("parquet", false, "store the parquet export instead of JCAMP-DX")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errUsage
	}
	res, err := e.load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	store, err := builder.NewDocumentStore(ctx, e.cfg, e.logger)
	if err != nil {
		return err
	}

	var stored string
	if *parquet {
		stored, err = store.PutParquet(ctx, fs.Arg(1), res.Document, builder.ExportOptionsFromConfig(e.cfg.Export))
	} else {
		stored, err = store.PutDocument(ctx, fs.Arg(1), res.Document)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, stored)
	return nil
}

func runS3List(ctx context.Context, e *env, args []string) error {
	fs := newFlags(e, "s3 ls", "[prefix]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return errUsage
	}
	store, err := builder.NewDocumentStore(ctx, e.cfg, e.logger)
	if err != nil {
		return err
	}
	keys, err := store.ListDocuments(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		fmt.Fprintln(e.stdout, strings.Join(keys, "\n"))
	}
	return nil
}
