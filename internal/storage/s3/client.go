package s3

import (
	"context"
	"fmt"
	"time"

	"select-studio/internal/config"
	"select-studio/internal/domain/asset"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"golang.org/x/sync/errgroup"
)

const (
	emptyAWSSessionToken = ""
	rawPrefix            = "raw"
	finalPrefix          = "final"

	errFailedCreateAWSSessionFmt             = "failed to create AWS session: %w"
	errFailedGeneratePresignedUploadURLFmt   = "failed to generate presigned upload URL: %w"
	errFailedGeneratePresignedDownloadURLFmt = "failed to generate presigned download URL: %w"
	errFailedDeleteObjectFmt                 = "failed to delete object: %w"
)

// Client is the asset store: raw uploads in and final deliveries out,
// always through presigned URLs so image bytes never pass through this
// service.
type Client struct {
	svc                *s3.S3
	bucket             string
	presignedURLExpiry time.Duration
	batchSize          int
}

func NewClient(cfg *config.AWSConfig, presignedURLExpiry time.Duration, batchSize int) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	})

	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &Client{
		svc:                s3.New(sess),
		bucket:             cfg.Bucket,
		presignedURLExpiry: presignedURLExpiry,
		batchSize:          batchSize,
	}, nil
}

// UploadTarget pairs an allocated asset with the URL its bytes go to.
type UploadTarget struct {
	Asset     asset.Asset `json:"asset"`
	UploadURL string      `json:"upload_url"`
}

func (c *Client) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string) (string, error) {
	req, _ := c.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	})
	req.SetContext(ctx)

	url, err := req.Presign(c.presignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf(errFailedGeneratePresignedUploadURLFmt, err)
	}

	return url, nil
}

func (c *Client) GeneratePresignedDownloadURL(ctx context.Context, objectKey string) (string, error) {
	req, _ := c.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	req.SetContext(ctx)

	url, err := req.Presign(c.presignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf(errFailedGeneratePresignedDownloadURLFmt, err)
	}

	return url, nil
}

// PrepareUploads allocates catalog ids for the manifest and generates
// upload URLs, at most batchSize presign calls in flight at once.
// catalogSize is the current catalog length so appended uploads continue
// the id sequence.
func (c *Client) PrepareUploads(ctx context.Context, projectID string, catalogSize int, inputs []asset.UploadInput, kind asset.Kind) ([]UploadTarget, error) {
	targets := make([]UploadTarget, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batchSize)

	for i, input := range inputs {
		i, input := i, input
		id := asset.AllocateID(catalogSize + i)
		key := ObjectKey(projectID, kind, id, input.Name)

		g.Go(func() error {
			url, err := c.GeneratePresignedUploadURL(gctx, key, input.ContentType)
			if err != nil {
				return err
			}

			targets[i] = UploadTarget{
				Asset: asset.Asset{
					ID:   id,
					URL:  PublicObjectURL(c.bucket, key),
					Name: input.Name,
					Kind: kind,
				},
				UploadURL: url,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return targets, nil
}

// DownloadURLs generates presigned download URLs for delivered assets,
// again with a bounded number of presign calls in flight.
func (c *Client) DownloadURLs(ctx context.Context, projectID string, assets []asset.Asset) (map[string]string, error) {
	urls := make([]string, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batchSize)

	for i, a := range assets {
		i, a := i, a
		key := ObjectKey(projectID, a.Kind, a.ID, a.Name)

		g.Go(func() error {
			url, err := c.GeneratePresignedDownloadURL(gctx, key)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]string, len(assets))
	for i, a := range assets {
		byID[a.ID] = urls[i]
	}
	return byID, nil
}

func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})

	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}

	return nil
}

// ObjectKey builds the bucket key for one asset. Raw and final variants
// of the same image live under separate prefixes of the project folder.
func ObjectKey(projectID string, kind asset.Kind, assetID, filename string) string {
	prefix := rawPrefix
	if kind == asset.KindFinal {
		prefix = finalPrefix
	}
	return fmt.Sprintf("projects/%s/%s/%s_%s", projectID, prefix, assetID, filename)
}

// PublicObjectURL is the stable (non-presigned) URL stored on the asset
// record; gallery rendering goes through it via the CDN in front of the
// bucket.
func PublicObjectURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
}
