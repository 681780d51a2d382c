package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rotaguide/rota-backend/config"
	"github.com/rotaguide/rota-backend/pkg/logger"
)

const presignExpiry = 15 * time.Minute

// Upload folders, one per image owner kind.
const (
	FolderPlaces  = "places"
	FolderReviews = "reviews"
)

var (
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrUnknownFolder          = errors.New("unknown upload folder")
)

// AllowedImageTypes maps accepted content types to the file extension stored in the key.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type PresignedURLResponse struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewS3Storage uses static credentials when both keys are set and the default
// AWS credential chain otherwise.
func NewS3Storage(ctx context.Context, cfg *config.S3Config) *S3Storage {
	var awsCfg aws.Config
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Falling back to region-only AWS config", map[string]interface{}{
				"error": err.Error(),
			})
			loaded = aws.Config{Region: cfg.Region}
		}
		awsCfg = loaded
	}

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// PresignImageUpload returns a short-lived PUT URL for one image and the
// public URL the image will have once uploaded.
func (s *S3Storage) PresignImageUpload(ctx context.Context, folder, contentType string) (*PresignedURLResponse, error) {
	if folder != FolderPlaces && folder != FolderReviews {
		return nil, ErrUnknownFolder
	}
	ext, ok := AllowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)

	presigned, err := s3.NewPresignClient(s.client).PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		logger.Error("Failed to presign upload", err, map[string]interface{}{
			"folder": folder,
		})
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: presigned.URL,
		FileURL:   s.PublicURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}

// PublicURL is the URL clients store in image lists.
func (s *S3Storage) PublicURL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}

// IsHostedURL reports whether url points into this bucket.
func (s *S3Storage) IsHostedURL(url string) bool {
	return strings.HasPrefix(url, s.PublicURL(""))
}
