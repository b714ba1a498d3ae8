package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	apperrors "ecofinds/pkg/errors"
	"ecofinds/pkg/logger"
)

const (
	publicURLPrefix = "https://storage.googleapis.com/"
	ProductFolder   = "public/products"
)

// ErrForeignObject is returned when a URL does not point into the bucket.
var ErrForeignObject = errors.New("url does not reference an object of this bucket")

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
	projectID  string
}

func NewCloudStorageClient(ctx context.Context, bucketName, projectID, credentialsPath string, allowOrigins []string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	storageClient := &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
		projectID:  projectID,
	}

	if err := storageClient.setBucketCORS(ctx, allowOrigins); err != nil {
		logger.Warn("Failed to set bucket CORS configuration: %v", err)
	}

	return storageClient, nil
}

func (c *CloudStorageClient) setBucketCORS(ctx context.Context, origins []string) error {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	bucket := c.client.Bucket(c.bucketName)

	bucketAttrs, err := bucket.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bucket attributes: %w", err)
	}
	if len(bucketAttrs.CORS) > 0 {
		return nil
	}

	_, err = bucket.Update(ctx, storage.BucketAttrsToUpdate{
		CORS: []storage.CORS{{
			MaxAge:          time.Hour,
			Methods:         []string{"GET", "HEAD"},
			Origins:         origins,
			ResponseHeaders: []string{"Content-Type"},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to update bucket CORS: %w", err)
	}
	return nil
}

// ObjectName builds "<folder>/<uuid>-<timestamp>.<ext>" for a content type.
func ObjectName(folder, contentType string, now time.Time) string {
	return fmt.Sprintf("%s/%s-%s%s", strings.TrimSuffix(folder, "/"), uuid.New().String(), now.Format("20060102150405"), extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}

// UploadImage stores a product image and returns its public URL.
func (c *CloudStorageClient) UploadImage(ctx context.Context, file io.Reader, contentType string) (string, error) {
	filename := ObjectName(ProductFolder, contentType, time.Now())

	obj := c.client.Bucket(c.bucketName).Object(filename)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %w", err)
	}

	return publicURLPrefix + c.bucketName + "/" + filename, nil
}

// DeleteImage removes the object a public URL refers to.
func (c *CloudStorageClient) DeleteImage(ctx context.Context, fileURL string) error {
	objectName, err := ParseObjectURL(fileURL, c.bucketName)
	if err != nil {
		return apperrors.New("VALIDATION_ERROR", "Image URL does not belong to this bucket", http.StatusBadRequest, err)
	}

	if err := c.client.Bucket(c.bucketName).Object(objectName).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ParseObjectURL extracts the object name from
// https://storage.googleapis.com/<bucket>/<object>.
func ParseObjectURL(fileURL, bucketName string) (string, error) {
	if !strings.HasPrefix(fileURL, publicURLPrefix) {
		return "", ErrForeignObject
	}
	parts := strings.SplitN(strings.TrimPrefix(fileURL, publicURLPrefix), "/", 2)
	if len(parts) != 2 || parts[0] != bucketName || parts[1] == "" {
		return "", ErrForeignObject
	}
	return parts[1], nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
