package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/timeline/internal/common"
	sc "github.com/dmitrijs2005/timeline/internal/server/config"
	"github.com/google/uuid"
)

// PresignExpiry bounds the lifetime of issued image URLs.
const PresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ImageService issues presigned object-storage URLs for entry images. The
// object key is what entries keep as ImageRef.
type ImageService struct {
	config *sc.Config
	now    func() time.Time
}

func NewImageService(config *sc.Config) *ImageService {
	return &ImageService{config: config, now: time.Now}
}

// StorageKey builds a fresh object key under the user's prefix.
func (s *ImageService) StorageKey(userID string) string {
	d := s.now()
	return fmt.Sprintf("%s%d/%d/%d/%v", userPrefix(userID), d.Year(), d.Month(), d.Day(), uuid.New())
}

func userPrefix(userID string) string {
	return "users/" + userID + "/"
}

func (s *ImageService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// CreateUpload returns a new image key and a presigned PUT URL for it.
func (s *ImageService) CreateUpload(ctx context.Context, userID string) (string, string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := s.StorageKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("error presigning upload: %w", err)
	}

	return key, req.URL, nil
}

// GetURL returns a presigned GET URL for one of the user's images.
func (s *ImageService) GetURL(ctx context.Context, userID, key string) (string, error) {
	if !strings.HasPrefix(key, userPrefix(userID)) {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}

	return req.URL, nil
}
