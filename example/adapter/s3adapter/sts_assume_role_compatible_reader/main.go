package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/joeydtaylor/jcamp/pkg/builder"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// LocalStack accepts any role; on AWS point JCAMP_S3_ROLE_ARN at a role that can read the bucket.
	roleARN := builder.EnvOr("JCAMP_S3_ROLE_ARN", "arn:aws:iam::000000000000:role/spectra-reader")
	source := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("test", "test", ""))

	cli, err := builder.NewS3ClientAssumeRole(ctx,
		"us-east-1",
		roleARN,
		"jcamp-example",
		15*time.Minute,
		"",
		source,
		builder.EnvOr("JCAMP_S3_ENDPOINT", "http://localhost:4566"),
		true,
	)
	if err != nil {
		panic(err)
	}

	store := builder.NewS3Client(
		builder.S3ClientWithClientAndBucket(cli, builder.EnvOr("JCAMP_S3_BUCKET", "spectra-dev")),
		builder.S3ClientWithPrefix("uvvis/demo/"),
		builder.S3ClientWithLogger(builder.NewLogger()),
	)

	res, err := store.FetchDocument(ctx, "caffeine.jdx.zst")
	if err != nil {
		panic(err)
	}
	if err := builder.NewJSONEncoder[*builder.Result]("  ").Encode(os.Stdout, res); err != nil {
		panic(err)
	}
}
