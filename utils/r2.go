// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArtifactStore wraps the R2 buckets: a public one for covers/banners served
// through the CDN, and a private one for game binaries that are only ever
// reached through short-lived presigned URLs. Constructed once in main and
// passed to the services that need it.
type ArtifactStore struct {
	client        *s3.Client
	presigner     *s3.PresignClient
	publicBucket  string
	privateBucket string
	cdnBaseURL    string
}

func NewArtifactStore() (*ArtifactStore, error) {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	publicBucket := os.Getenv("R2_PUBLIC_BUCKET")
	privateBucket := os.Getenv("R2_BINARIES_BUCKET")
	if privateBucket == "" {
		privateBucket = "game-binaries"
	}
	cdnBaseURL := os.Getenv("CDN_BASE_URL")
	if cdnBaseURL == "" {
		cdnBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &ArtifactStore{
		client:        client,
		presigner:     s3.NewPresignClient(client),
		publicBucket:  publicBucket,
		privateBucket: privateBucket,
		cdnBaseURL:    cdnBaseURL,
	}, nil
}

// SignedDownloadURL mints a presigned GET for a private binary. The URL is
// the only way callers reach the object; nothing in this service streams
// artifact bytes.
func (s *ArtifactStore) SignedDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	out, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.privateBucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return out.URL, nil
}

// UploadPublicAsset uploads a small public asset (cover, banner) and returns
// its CDN URL.
func (s *ArtifactStore) UploadPublicAsset(ctx context.Context, fileHeader *multipart.FileHeader, key string) (string, error) {
	if err := s.putObject(ctx, s.publicBucket, fileHeader, key); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", s.cdnBaseURL, key), nil
}

// UploadArtifact uploads a game binary to the private bucket and returns the
// object key to register as a download target.
func (s *ArtifactStore) UploadArtifact(ctx context.Context, fileHeader *multipart.FileHeader, key string) (string, error) {
	if err := s.putObject(ctx, s.privateBucket, fileHeader, key); err != nil {
		return "", err
	}
	return key, nil
}

func (s *ArtifactStore) putObject(ctx context.Context, bucket string, fileHeader *multipart.FileHeader, key string) error {
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        buf,
		ContentType: aws.String(fileHeader.Header.Get("Content-Type")),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to R2: %w", err)
	}
	return nil
}
