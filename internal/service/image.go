package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/config"
)

const imageKeyPrefix = "recipes/images/"

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// S3ImageStore keeps recipe images in a bucket and hands back their public URL
type S3ImageStore struct {
	s3Config *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

// Save uploads a data:image/...;base64 payload
func (s *S3ImageStore) Save(ctx context.Context, dataURI string) (string, error) {
	contentType, data, err := DecodeImageDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := imageKeyPrefix + uuid.New().String() + imageExtensions[contentType]
	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.s3Config.PublicURL(key)
	log.Printf("[ImageStore] Uploaded recipe image %s", url)
	return url, nil
}

// Delete removes an image previously returned by Save. URLs this store did
// not produce are ignored.
func (s *S3ImageStore) Delete(ctx context.Context, url string) error {
	prefix := s.s3Config.PublicURL("")
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(strings.TrimPrefix(url, prefix)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// IsImageDataURI reports whether image is an inline upload rather than a stored reference
func IsImageDataURI(image string) bool {
	return strings.HasPrefix(image, "data:image/")
}

// DecodeImageDataURI splits "data:image/png;base64,...." into its content
// type and decoded bytes.
func DecodeImageDataURI(dataURI string) (string, []byte, error) {
	if !IsImageDataURI(dataURI) {
		return "", nil, ValidationError("invalid image", map[string]string{"image": "must be a data:image/...;base64 payload"})
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(dataURI, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, ValidationError("invalid image", map[string]string{"image": "must be base64 encoded"})
	}
	contentType := strings.TrimSuffix(header, ";base64")
	if _, known := imageExtensions[contentType]; !known {
		return "", nil, ValidationError("invalid image", map[string]string{"image": "unsupported image type " + contentType})
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return "", nil, ValidationError("invalid image", map[string]string{"image": "must be base64 encoded"})
	}
	return contentType, data, nil
}
