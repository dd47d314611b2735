package s3client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	s3api "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"github.com/joeydtaylor/jcamp/pkg/logschema"
)

const (
	defaultMaxAttempts   = 5
	defaultBaseBackoff   = 100 * time.Millisecond
	defaultMaxBackoff    = 3 * time.Second
	defaultJitterEnabled = true
)

// backoffDuration is safe for concurrent puts; the top-level math/rand source locks.
func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := defaultBaseBackoff << (attempt - 1)
	if d > defaultMaxBackoff {
		d = defaultMaxBackoff
	}
	if defaultJitterEnabled {
		return time.Duration(rand.Int63n(int64(d) + 1))
	}
	return d
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "throttl"),
		strings.Contains(msg, "slowdown"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "eof"),
		strings.Contains(msg, "internalerror"),
		strings.Contains(msg, "service unavailable"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "500"):
		return true
	default:
		return false
	}
}

func (a *S3Client) putWithRetry(ctx context.Context, put *s3api.PutObjectInput, key string, size int) error {
	rs, ok := put.Body.(io.ReadSeeker)
	if !ok {
		return fmt.Errorf("s3client: put requires an io.ReadSeeker body")
	}

	var lastErr error
	for attempt := 1; attempt <= defaultMaxAttempts; attempt++ {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return err
		}

		start := time.Now()
		_, err := a.cli.PutObject(ctx, put)
		if err == nil {
			a.NotifyLoggers(types.InfoLevel, "object stored",
				logschema.FieldEvent, "PutObject",
				logschema.FieldKey, key,
				logschema.FieldBytes, size,
				"duration", time.Since(start),
			)
			return nil
		}

		lastErr = err
		a.NotifyLoggers(types.WarnLevel, "PutObject retry",
			logschema.FieldEvent, "PutObject",
			logschema.FieldKey, key,
			logschema.FieldError, err,
			"attempt", attempt,
			"max_attempts", defaultMaxAttempts,
		)

		if !isRetryable(err) || attempt == defaultMaxAttempts || ctx.Err() != nil {
			return err
		}

		select {
		case <-time.After(backoffDuration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
