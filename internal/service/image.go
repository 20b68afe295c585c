package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plateful/backend/config"
	"github.com/plateful/backend/internal/domain"
)

// ImageService stores recipe images posted as base64 data URIs. With an S3
// config it uploads to the bucket; without one it writes under localDir,
// which is what dev and tests use.
type ImageService struct {
	s3Config *config.S3Config
	localDir string
	baseURL  string
	logger   *zap.Logger
}

func NewImageService(s3Config *config.S3Config, localDir, baseURL string, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{s3Config: s3Config, localDir: localDir, baseURL: baseURL, logger: logger}
}

// Store decodes a data-URI (or bare base64) image payload and persists it,
// returning the public URL. An empty payload is the caller's concern; Store
// rejects only payloads that are present but undecodable.
func (s *ImageService) Store(ctx context.Context, payload string) (string, error) {
	ext := "png"
	data := payload
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ";base64,", 2)
		if len(parts) != 2 {
			return "", domain.MissingRequiredField("image")
		}
		if mediaType := strings.TrimPrefix(parts[0], "data:image/"); mediaType != parts[0] && mediaType != "" {
			ext = mediaType
		}
		data = parts[1]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", domain.MissingRequiredField("image")
	}

	key := fmt.Sprintf("recipes/%s.%s", uuid.New().String(), ext)

	if s.s3Config != nil {
		_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.s3Config.BucketName),
			Key:         aws.String(key),
			Body:        bytes.NewReader(raw),
			ContentType: aws.String("image/" + ext),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload image: %w", err)
		}
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
	}

	path := filepath.Join(s.localDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	s.logger.Debug("image stored locally", zap.String("path", path))
	return s.baseURL + "/media/" + key, nil
}
