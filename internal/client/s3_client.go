package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	appConfig "github.com/Diego-SJ/PaleteriaChuchin/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DownloadURLTTL is how long a presigned image URL stays valid
const DownloadURLTTL = 15 * time.Minute

// assetFolders are the object key prefixes records may upload into
var assetFolders = map[string]bool{
	"products": true,
}

// ObjectStore defines the object storage operations used for record assets
type ObjectStore interface {
	AssetKey(recordType, assetID string) (string, error)
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
}

// S3Client wraps the AWS S3 client and implements ObjectStore
type S3Client struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	region        string
	endpoint      string // set for MinIO
}

// NewS3Client creates a new S3 client
func NewS3Client(cfg *appConfig.S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	var awsCfg aws.Config
	var err error

	if cfg.Endpoint != "" {
		// MinIO requires explicit credentials
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("access key and secret key are required for MinIO endpoint")
		}
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
		)
	} else if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
		)
	} else {
		// default credential chain (IAM role, ~/.aws/credentials)
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      cfg.Endpoint,
	}, nil
}

// AssetKey returns the object key of an asset
// Format: {recordType}/{assetID}
func (c *S3Client) AssetKey(recordType, assetID string) (string, error) {
	return assetKey(recordType, assetID)
}

func assetKey(recordType, assetID string) (string, error) {
	if !assetFolders[recordType] {
		return "", fmt.Errorf("invalid record type: %q (must be 'products')", recordType)
	}
	if assetID == "" || strings.Contains(assetID, "/") {
		return "", fmt.Errorf("invalid asset id: %q", assetID)
	}
	return recordType + "/" + assetID, nil
}

// GenerateDownloadURL presigns a GET for key, valid for DownloadURLTTL
func (c *S3Client) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}

	req, err := c.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = DownloadURLTTL
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	finalURL := req.URL
	// the API reaches MinIO by its compose host name; browsers need the public one
	if c.endpoint != "" {
		const internalMinIOHost = "minio:9000"
		externalHost := strings.TrimPrefix(strings.TrimPrefix(c.endpoint, "http://"), "https://")
		finalURL = strings.Replace(finalURL, internalMinIOHost, externalHost, 1)
	}
	return finalURL, nil
}

// UploadFile uploads a file to S3
func (c *S3Client) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return c.GetFileURL(key), nil
}

// DeleteFile deletes a file from S3
func (c *S3Client) DeleteFile(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// GetFileURL returns the public URL for a file
func (c *S3Client) GetFileURL(key string) string {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.endpoint, "/"), c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}
