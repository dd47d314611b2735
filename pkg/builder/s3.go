package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	s3ClientAdapter "github.com/joeydtaylor/jcamp/pkg/internal/adapter/s3client"
	"github.com/joeydtaylor/jcamp/pkg/internal/assembler"
	"github.com/joeydtaylor/jcamp/pkg/internal/compression"
	"github.com/joeydtaylor/jcamp/pkg/internal/serializer"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

type S3Client = s3ClientAdapter.S3Client

// NewS3Client creates a document store over an S3 bucket.
func NewS3Client(options ...types.Option[*S3Client]) *S3Client {
	return s3ClientAdapter.NewS3Client(options...)
}

// S3ClientWithClientAndBucket injects the AWS client and bucket.
func S3ClientWithClientAndBucket(cli *s3.Client, bucket string) types.Option[*S3Client] {
	return s3ClientAdapter.WithClientAndBucket(cli, bucket)
}

func S3ClientWithPrefix(prefix string) types.Option[*S3Client] {
	return s3ClientAdapter.WithPrefix(prefix)
}

func S3ClientWithCompression(alg compression.Algorithm) types.Option[*S3Client] {
	return s3ClientAdapter.WithCompression(alg)
}

func S3ClientWithSSE(mode, kmsKey string) types.Option[*S3Client] {
	return s3ClientAdapter.WithSSE(mode, kmsKey)
}

func S3ClientWithMaxObjectBytes(n int64) types.Option[*S3Client] {
	return s3ClientAdapter.WithMaxObjectBytes(n)
}

func S3ClientWithAssembler(asm *assembler.Assembler) types.Option[*S3Client] {
	return s3ClientAdapter.WithAssembler(asm)
}

func S3ClientWithSerializer(z *serializer.Serializer) types.Option[*S3Client] {
	return s3ClientAdapter.WithSerializer(z)
}

func S3ClientWithLogger(l ...types.Logger) types.Option[*S3Client] {
	return s3ClientAdapter.WithLogger(l...)
}

// sharedResolver returns an endpoint resolver that maps BOTH S3 and STS to the same override.
func sharedResolver(endpoint string) aws.EndpointResolverWithOptionsFunc {
	return aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
		switch service {
		case s3.ServiceID, sts.ServiceID:
			return aws.Endpoint{URL: endpoint, HostnameImmutable: true}, nil
		default:
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}
	})
}

// NewS3ClientStatic creates an S3 client using static credentials.
// If endpoint != "", it's used (LocalStack/MinIO). forcePathStyle=true for emulators.
func NewS3ClientStatic(
	ctx context.Context,
	region string,
	accessKey string,
	secretKey string,
	sessionToken string, // "" if none
	endpoint string, // "" for AWS
	forcePathStyle bool,
) (*s3.Client, error) {
	var loaders []func(*config.LoadOptions) error
	if region != "" {
		loaders = append(loaders, config.WithRegion(region))
	}
	loaders = append(loaders, config.WithCredentialsProvider(
		credentials.NewStaticCredentialsProvider(accessKey, secretKey, sessionToken),
	))
	if endpoint != "" {
		loaders = append(loaders, config.WithEndpointResolverWithOptions(sharedResolver(endpoint)))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) { o.UsePathStyle = forcePathStyle }), nil
}

// NewS3ClientDefault creates an S3 client from the default credential chain.
func NewS3ClientDefault(ctx context.Context, region, endpoint string, forcePathStyle bool) (*s3.Client, error) {
	var loaders []func(*config.LoadOptions) error
	if region != "" {
		loaders = append(loaders, config.WithRegion(region))
	}
	if endpoint != "" {
		loaders = append(loaders, config.WithEndpointResolverWithOptions(sharedResolver(endpoint)))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) { o.UsePathStyle = forcePathStyle }), nil
}

// NewS3ClientAssumeRole creates an S3 client by assuming an IAM role via STS.
// sourceCreds: underlying creds to call STS (static keys, SSO, etc.). If nil, default chain.
// externalID optional. duration capped by role MaxSessionDuration.
func NewS3ClientAssumeRole(
	ctx context.Context,
	region string,
	roleARN string,
	sessionName string,
	duration time.Duration,
	externalID string,
	sourceCreds aws.CredentialsProvider, // nil => default provider chain
	endpoint string, // optional S3/STS endpoint override
	forcePathStyle bool,
) (*s3.Client, error) {
	if roleARN == "" {
		return nil, fmt.Errorf("role ARN is required")
	}
	var loaders []func(*config.LoadOptions) error
	if region != "" {
		loaders = append(loaders, config.WithRegion(region))
	}
	if sourceCreds != nil {
		loaders = append(loaders, config.WithCredentialsProvider(sourceCreds))
	}
	if endpoint != "" {
		loaders = append(loaders, config.WithEndpointResolverWithOptions(sharedResolver(endpoint)))
	}
	baseCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, err
	}

	// STS client also uses the same resolver (so it doesn't go to real AWS).
	stsClient := sts.NewFromConfig(baseCfg)

	provider := stscreds.NewAssumeRoleProvider(stsClient, roleARN, func(o *stscreds.AssumeRoleOptions) {
		if sessionName != "" {
			o.RoleSessionName = sessionName
		}
		if duration > 0 {
			o.Duration = duration
		}
		if externalID != "" {
			o.ExternalID = &externalID
		}
	})

	assumed := baseCfg
	assumed.Credentials = aws.NewCredentialsCache(provider)

	return s3.NewFromConfig(assumed, func(o *s3.Options) { o.UsePathStyle = forcePathStyle }), nil
}

// NewS3ClientFromConfig picks the credential source from cfg: an assumed role when RoleARN is
// set, static keys when AccessKey is set, the default chain otherwise.
func NewS3ClientFromConfig(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	switch {
	case cfg.RoleARN != "":
		var source aws.CredentialsProvider
		if cfg.AccessKey != "" {
			source = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken))
		}
		return NewS3ClientAssumeRole(ctx, cfg.Region, cfg.RoleARN, cfg.SessionName, cfg.Duration, cfg.ExternalID, source, cfg.Endpoint, cfg.ForcePathStyle)
	case cfg.AccessKey != "":
		return NewS3ClientStatic(ctx, cfg.Region, cfg.AccessKey, cfg.SecretKey, cfg.SessionToken, cfg.Endpoint, cfg.ForcePathStyle)
	default:
		return NewS3ClientDefault(ctx, cfg.Region, cfg.Endpoint, cfg.ForcePathStyle)
	}
}

// NewDocumentStore builds the AWS client from cfg.S3 and wraps it in an S3Client configured
// with the parse, serialize and compression settings of cfg.
func NewDocumentStore(ctx context.Context, cfg Config, loggers ...types.Logger) (*S3Client, error) {
	if cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	cli, err := NewS3ClientFromConfig(ctx, cfg.S3)
	if err != nil {
		return nil, err
	}
	alg, err := compression.Parse(cfg.Serialize.Compression)
	if err != nil {
		return nil, err
	}
	asm, err := NewAssemblerFromConfig(cfg.Parse, loggers...)
	if err != nil {
		return nil, err
	}
	return NewS3Client(
		S3ClientWithClientAndBucket(cli, cfg.S3.Bucket),
		S3ClientWithPrefix(cfg.S3.Prefix),
		S3ClientWithCompression(alg),
		S3ClientWithSSE(cfg.S3.SSEMode, cfg.S3.KMSKeyID),
		S3ClientWithAssembler(asm),
		S3ClientWithSerializer(NewSerializerFromConfig(cfg.Serialize, loggers...)),
		S3ClientWithLogger(loggers...),
	), nil
}
