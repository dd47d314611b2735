package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joeydtaylor/jcamp/pkg/builder"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Same LocalStack bucket the writer example fills; environment variables may override it.
	cfg := builder.DefaultConfig()
	cfg.S3 = builder.S3Config{
		Bucket:         "spectra-dev",
		Prefix:         "uvvis/demo/",
		Region:         "us-east-1",
		Endpoint:       "http://localhost:4566",
		ForcePathStyle: true,
		AccessKey:      "test",
		SecretKey:      "test",
	}
	builder.ApplyEnv(&cfg)

	logger := builder.NewLoggerFromConfig(cfg.Log)
	defer logger.Flush()

	store, err := builder.NewDocumentStore(ctx, cfg, logger)
	if err != nil {
		panic(err)
	}

	keys, err := store.ListDocuments(ctx, "")
	if err != nil {
		panic(err)
	}
	for _, key := range keys {
		res, err := store.FetchDocument(ctx, key)
		if err != nil {
			fmt.Printf("%s: %v\n", key, err)
			continue
		}
		for _, e := range res.Document.Flatten() {
			s := e.Spectra[0]
			fmt.Printf("%s: %q %d points %s/%s\n", key, e.Title, len(s.Data.X), s.XUnits, s.YUnits)
		}
	}
}
