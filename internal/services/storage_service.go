// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/technoshop/technoshop-backend/internal/config"
)

// Storage persists uploaded media and hands back the relative path
// ("<folder>/<uuid><ext>") stored on the owning entity.
type Storage interface {
	Save(folder string, header *multipart.FileHeader) (string, error)
	Delete(path string) error
}

type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

// NewStorageService uploads to S3 when AWS credentials are configured and
// falls back to the local uploads directory otherwise.
func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

func (s *StorageService) Save(folder string, header *multipart.FileHeader) (string, error) {
	if header.Size > s.config.Uploads.MaxFileSize {
		return "", fmt.Errorf("%w: file size %d exceeds the %d byte limit",
			ErrInvalidInput, header.Size, s.config.Uploads.MaxFileSize)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	if s.s3Client != nil {
		if err := s.putS3(key, content, header.Header.Get("Content-Type")); err != nil {
			return "", err
		}
		return key, nil
	}

	if err := s.putLocal(key, content); err != nil {
		return "", err
	}
	return key, nil
}

func (s *StorageService) Delete(path string) error {
	if path == "" {
		return nil
	}

	if s.s3Client != nil {
		_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s.config.AWS.S3Bucket),
			Key:    aws.String(path),
		})
		if err != nil {
			return fmt.Errorf("failed to delete from S3: %w", err)
		}
		return nil
	}

	target := filepath.Join(s.config.Uploads.LocalDir, filepath.FromSlash(path))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete local file: %w", err)
	}
	return nil
}

func (s *StorageService) putS3(key string, content []byte, contentType string) error {
	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(content))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *StorageService) putLocal(key string, content []byte) error {
	target := filepath.Join(s.config.Uploads.LocalDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %w", err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("failed to write local file: %w", err)
	}
	logrus.WithField("path", target).Debug("Stored upload locally")
	return nil
}

// URL resolves a stored relative path to the public URL clients fetch it
// from.
func (s *StorageService) URL(path string) string {
	if path == "" {
		return ""
	}
	if s.s3Client != nil {
		if s.config.AWS.CloudFrontURL != "" {
			return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, path)
		}
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
			s.config.AWS.S3Bucket, s.config.AWS.Region, path)
	}
	return "/" + path
}
