package s3client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3api "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/joeydtaylor/jcamp/pkg/internal/archive"
	"github.com/joeydtaylor/jcamp/pkg/internal/compression"
	"github.com/joeydtaylor/jcamp/pkg/internal/export"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"github.com/joeydtaylor/jcamp/pkg/internal/utils"
	"github.com/joeydtaylor/jcamp/pkg/logschema"
)

const (
	contentTypeJCAMP   = "chemical/x-jcamp-dx"
	contentTypeParquet = "application/parquet"
	contentTypeBinary  = "application/octet-stream"
)

var documentExtensions = map[string]bool{
	".jdx":   true,
	".dx":    true,
	".jcamp": true,
	".jcm":   true,
}

// Key resolves name against the configured prefix.
func (a *S3Client) Key(name string) string {
	name = strings.TrimPrefix(name, "/")
	if a.prefix == "" || strings.HasPrefix(name, a.prefix+"/") {
		return name
	}
	return path.Join(a.prefix, name)
}

// FetchBytes downloads an object and undoes the compression named by its extension.
func (a *S3Client) FetchBytes(ctx context.Context, key string) ([]byte, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	key = a.Key(key)

	get, err := a.cli.GetObject(ctx, &s3api.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		a.NotifyLoggers(types.ErrorLevel, "GetObject failed",
			logschema.FieldEvent, "GetObject",
			logschema.FieldKey, key,
			logschema.FieldError, err,
		)
		return nil, err
	}
	defer get.Body.Close()

	if get.ContentLength != nil && *get.ContentLength > a.maxObjectBytes {
		return nil, fmt.Errorf("s3client: %s is %d bytes, limit %d", key, *get.ContentLength, a.maxObjectBytes)
	}
	raw, err := io.ReadAll(io.LimitReader(get.Body, a.maxObjectBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > a.maxObjectBytes {
		return nil, fmt.Errorf("s3client: %s exceeds %d bytes", key, a.maxObjectBytes)
	}

	alg := compression.FromPath(key)
	data, err := compression.Decompress(raw, alg)
	if err != nil {
		return nil, fmt.Errorf("s3client: %s: %w", key, err)
	}
	a.NotifyLoggers(types.DebugLevel, "object fetched",
		logschema.FieldEvent, "GetObject",
		logschema.FieldKey, key,
		logschema.FieldBytes, len(raw),
		logschema.FieldCompression, string(alg),
	)
	return data, nil
}

// FetchDocument downloads and parses one document. Instrument containers (.zip) are read
// through their RawData0.xml member and returned as a single-entry document.
func (a *S3Client) FetchDocument(ctx context.Context, key string) (*types.Result, error) {
	data, err := a.FetchBytes(ctx, key)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(path.Ext(compression.TrimExtension(key)), ".zip") {
		e, err := archive.ReadRawData(data)
		if err != nil {
			return nil, err
		}
		return &types.Result{Document: types.NewDocument(e)}, nil
	}
	return a.assembler.ParseBytesContext(ctx, data)
}

// PutDocument serializes doc, compresses it with the configured algorithm and stores it.
// The stored key, including any compression extension, is returned.
func (a *S3Client) PutDocument(ctx context.Context, key string, doc *types.Document) (string, error) {
	if err := a.ready(); err != nil {
		return "", err
	}
	text, err := a.serializer.MarshalDocument(doc)
	if err != nil {
		return "", err
	}
	body, err := compression.Compress(text, a.compression)
	if err != nil {
		return "", err
	}

	key = a.Key(key)
	if ext := compression.Extension(a.compression); ext != "" && !strings.HasSuffix(strings.ToLower(key), ext) {
		key += ext
	}
	ct := contentTypeJCAMP
	if a.compression != compression.None {
		ct = contentTypeBinary
	}
	put := a.putInput(key, body, ct)
	put.Metadata = map[string]string{"content-sha256": utils.Sha256Hex(text)}
	if a.compression != compression.None {
		put.Metadata["compression"] = string(a.compression)
	}
	if err := a.putWithRetry(ctx, put, key, len(body)); err != nil {
		return "", err
	}
	return key, nil
}

// PutParquet stores the points of doc as a parquet object. A ".parquet" suffix is added
// when missing.
func (a *S3Client) PutParquet(ctx context.Context, key string, doc *types.Document, opts types.ExportOptions) (string, error) {
	if err := a.ready(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	n, err := export.WriteParquet(&buf, doc, opts)
	if err != nil {
		return "", err
	}
	key = a.Key(key)
	if !strings.HasSuffix(strings.ToLower(key), ".parquet") {
		key += ".parquet"
	}
	if err := a.putWithRetry(ctx, a.putInput(key, buf.Bytes(), contentTypeParquet), key, buf.Len()); err != nil {
		return "", err
	}
	a.NotifyLoggers(types.InfoLevel, "parquet stored",
		logschema.FieldEvent, "PutParquet",
		logschema.FieldKey, key,
		logschema.FieldRecords, n,
		logschema.FieldCompression, export.CompressionName(opts.Compression),
	)
	return key, nil
}

// ListDocuments returns the keys under prefix (joined to the configured prefix) that name
// JCAMP-DX documents, compressed or not.
func (a *S3Client) ListDocuments(ctx context.Context, prefix string) ([]string, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	full := a.prefix
	if prefix != "" {
		full = a.Key(prefix)
	}

	in := &s3api.ListObjectsV2Input{
		Bucket:  aws.String(a.bucket),
		Prefix:  aws.String(full),
		MaxKeys: aws.Int32(a.pageSize),
	}
	var keys []string
	for {
		lo, err := a.cli.ListObjectsV2(ctx, in)
		if err != nil {
			return nil, err
		}
		page := make([]string, 0, len(lo.Contents))
		for _, obj := range lo.Contents {
			page = append(page, aws.ToString(obj.Key))
		}
		keys = append(keys, utils.Filter(page, IsDocumentKey)...)
		if !aws.ToBool(lo.IsTruncated) || lo.NextContinuationToken == nil {
			break
		}
		in.ContinuationToken = lo.NextContinuationToken
	}
	a.NotifyLoggers(types.DebugLevel, "documents listed",
		logschema.FieldEvent, "ListObjectsV2",
		logschema.FieldKey, full,
		logschema.FieldRecords, len(keys),
	)
	return keys, nil
}

// IsDocumentKey reports whether key names a JCAMP-DX document or an instrument container,
// optionally with a compression extension.
func IsDocumentKey(key string) bool {
	ext := strings.ToLower(path.Ext(compression.TrimExtension(key)))
	return documentExtensions[ext] || ext == ".zip"
}

func (a *S3Client) putInput(key string, body []byte, contentType string) *s3api.PutObjectInput {
	put := &s3api.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	}
	switch strings.ToLower(a.sseMode) {
	case "aes256":
		put.ServerSideEncryption = s3types.ServerSideEncryptionAes256
	case "aws:kms":
		put.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		if a.kmsKey != "" {
			put.SSEKMSKeyId = aws.String(a.kmsKey)
		}
	}
	return put
}

func (a *S3Client) ready() error {
	if a.cli == nil || a.bucket == "" {
		return fmt.Errorf("s3client: client and bucket are required")
	}
	return nil
}
