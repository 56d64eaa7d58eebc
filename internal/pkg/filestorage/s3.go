package filestorage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/yigit/edupath/internal/pkg/logger"
)

// S3Config configures an S3-compatible bucket (AWS, MinIO or Supabase storage).
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PublicURL overrides the generated object URL prefix.
	PublicURL string
}

// S3Storage stores objects in a bucket.
type S3Storage struct {
	client    s3iface.S3API
	bucket    string
	publicURL string
}

// NewS3Storage creates a session and makes sure the bucket exists.
func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	awsConfig := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	}

	// custom endpoints (MinIO, Supabase) need path-style addressing
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		awsConfig.DisableSSL = aws.Bool(!cfg.UseSSL)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := s3.New(sess)
	if _, err := client.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		if _, err := client.CreateBucket(&s3.CreateBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
			logger.Warn().Err(err).Str("bucket", cfg.Bucket).Msg("Bucket is not reachable and could not be created")
		}
	}

	return NewS3StorageWithClient(client, cfg.Bucket, s3PublicURL(cfg)), nil
}

// NewS3StorageWithClient wraps an existing client.
func NewS3StorageWithClient(client s3iface.S3API, bucket, publicURL string) *S3Storage {
	return &S3Storage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func s3PublicURL(cfg S3Config) string {
	if cfg.PublicURL != "" {
		return cfg.PublicURL
	}
	if cfg.Endpoint != "" && !strings.Contains(cfg.Endpoint, "amazonaws.com") {
		protocol := "http"
		if cfg.UseSSL {
			protocol = "https"
		}
		endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
		return fmt.Sprintf("%s://%s/%s", protocol, strings.TrimRight(endpoint, "/"), cfg.Bucket)
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}

func (s *S3Storage) Save(ctx context.Context, folder string, upload *Upload) (*StoredFile, error) {
	key := objectKey(folder, upload)

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          reader(upload),
		ContentType:   aws.String(upload.ContentType),
		ContentLength: aws.Int64(upload.Size()),
	})
	if err != nil {
		logger.Error().Err(err).Str("bucket", s.bucket).Str("key", key).Msg("Failed to upload file to S3")
		return nil, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return &StoredFile{
		Key:         key,
		URL:         s.publicURL + "/" + key,
		Name:        upload.Name,
		Size:        upload.Size(),
		ContentType: upload.ContentType,
	}, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}
