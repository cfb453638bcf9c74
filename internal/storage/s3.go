package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/fitlifehq/gym-api/internal/httperr"
)

// S3Store uploads user media to a bucket and hands back CDN URLs. When no
// bucket is configured the store stays nil-safe and every upload reports
// storage_not_configured.
type S3Store struct {
	client  *s3.Client
	bucket  string
	cdnBase string
}

func NewS3Store(ctx context.Context, bucket, region, cdnBase string) (*S3Store, error) {
	st := &S3Store{bucket: bucket, cdnBase: strings.TrimSuffix(cdnBase, "/")}
	if bucket == "" {
		return st, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	st.client = s3.NewFromConfig(cfg)
	return st, nil
}

func (st *S3Store) Configured() bool {
	return st != nil && st.client != nil
}

// Upload stores the bytes under a generated key inside the given folder and
// returns the public URL.
func (st *S3Store) Upload(ctx context.Context, folder, filename, contentType string, data []byte) (string, error) {
	if !st.Configured() {
		return "", httperr.ErrBusiness("storage_not_configured")
	}

	ext := path.Ext(filename)
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)

	_, err := st.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(st.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	if st.cdnBase != "" {
		return fmt.Sprintf("%s/%s", st.cdnBase, key), nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", st.bucket, key), nil
}
