package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"training-center-api/config"
	"training-center-api/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ReportStore хранит выгруженные отчеты в MinIO и выдает на них presigned URL.
type ReportStore struct {
	client *minio.Client
	bucket string
	urlTTL time.Duration
}

func NewReportStore(cfg *config.Config) (*ReportStore, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &ReportStore{
		client: client,
		bucket: cfg.ReportBucket,
		urlTTL: cfg.PresignedURLTTL,
	}, nil
}

// EnsureBucket создает бакет отчетов, если его еще нет.
func (s *ReportStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	log.Printf("Создан бакет отчетов: %s", s.bucket)
	return nil
}

// Save загружает отчет и возвращает ссылку на скачивание.
func (s *ReportStore) Save(ctx context.Context, objectPath string, data []byte, contentType string) (*models.PresignedURLResponse, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectPath, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}
	return s.PresignedURL(ctx, objectPath)
}

// PresignedURL генерирует presigned URL для скачивания
func (s *ReportStore) PresignedURL(ctx context.Context, objectPath string) (*models.PresignedURLResponse, error) {
	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", fmt.Sprintf("attachment; filename=\"%s\"", extractFileName(objectPath)))

	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, objectPath, s.urlTTL, reqParams)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned url: %w", err)
	}

	return &models.PresignedURLResponse{
		URL:       presignedURL.String(),
		ExpiresAt: time.Now().Add(s.urlTTL),
		FileName:  extractFileName(objectPath),
	}, nil
}

// ReportPath: путь отчета в бакете: reports/<kind>/<from>_<to>.xlsx
func ReportPath(kind string, from, to models.Date) string {
	return fmt.Sprintf("reports/%s/%s_%s.xlsx", kind, from, to)
}

func extractFileName(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}
