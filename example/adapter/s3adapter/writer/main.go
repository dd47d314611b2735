package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/joeydtaylor/jcamp/pkg/builder"
)

const uvVis = "##TITLE=caffeine in water\n##JCAMP-DX=4.24\n##DATA TYPE=UV/VIS SPECTRUM\n" +
	"##XUNITS=NANOMETERS\n##YUNITS=ABSORBANCE\n##FIRSTX=260\n##LASTX=280\n##DELTAX=5\n" +
	"##XFACTOR=1\n##YFACTOR=0.001\n##NPOINTS=5\n##XYDATA=(X++(Y..Y))\n260 512 644 701 598 421\n##END="

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// LocalStack S3 client with static creds
	cli, err := builder.NewS3ClientStatic(ctx, "us-east-1", "test", "test", "", "http://localhost:4566", true)
	if err != nil {
		panic(err)
	}

	const bucket = "spectra-dev"
	const prefix = "uvvis/demo/"

	_, _ = cli.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})

	logger := builder.NewLogger(builder.LoggerWithLevel("debug"))
	defer logger.Flush()

	store := builder.NewS3Client(
		builder.S3ClientWithClientAndBucket(cli, bucket),
		builder.S3ClientWithPrefix(prefix),
		builder.S3ClientWithCompression(builder.CompressZstd),
		builder.S3ClientWithSerializer(builder.NewSerializer(builder.SerializerWithOrigin("uv-lab"))),
		builder.S3ClientWithLogger(logger),
	)

	res, err := builder.Parse(uvVis)
	if err != nil {
		panic(err)
	}

	key, err := store.PutDocument(ctx, "caffeine.jdx", res.Document)
	if err != nil {
		panic(err)
	}
	fmt.Println("stored", key)

	pq, err := store.PutParquet(ctx, "caffeine", res.Document, builder.ExportOptions{Compression: "zstd"})
	if err != nil {
		panic(err)
	}
	fmt.Println("stored", pq)
}
