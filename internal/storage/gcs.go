package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ArtifactStore keeps exported report documents (HTML/PDF/PNG) in a GCS
// bucket so downloads can be re-served without re-rendering.
type ArtifactStore struct {
	client     *storage.Client
	bucketName string
}

type UploadResult struct {
	ObjectName string `json:"object_name"`
	PublicURL  string `json:"public_url"`
	Size       int64  `json:"size"`
}

func NewArtifactStore(ctx context.Context, bucketName, credentialsPath string) (*ArtifactStore, error) {
	var client *storage.Client
	var err error

	if credentialsPath != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsPath))
	} else {
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &ArtifactStore{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (a *ArtifactStore) Upload(ctx context.Context, reader io.Reader, objectName, contentType string) (*UploadResult, error) {
	obj := a.client.Bucket(a.bucketName).Object(objectName)
	writer := obj.NewWriter(ctx)

	if contentType != "" {
		writer.ContentType = contentType
	}

	size, err := io.Copy(writer, reader)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to copy artifact to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close GCS writer: %w", err)
	}

	return &UploadResult{
		ObjectName: objectName,
		PublicURL:  fmt.Sprintf("https://storage.googleapis.com/%s/%s", a.bucketName, objectName),
		Size:       size,
	}, nil
}

func (a *ArtifactStore) Read(ctx context.Context, objectName string) (io.ReadCloser, error) {
	obj := a.client.Bucket(a.bucketName).Object(objectName)
	return obj.NewReader(ctx)
}

func (a *ArtifactStore) Delete(ctx context.Context, objectName string) error {
	obj := a.client.Bucket(a.bucketName).Object(objectName)
	return obj.Delete(ctx)
}

func (a *ArtifactStore) SignedURL(objectName string, expiry time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	}

	return a.client.Bucket(a.bucketName).SignedURL(objectName, opts)
}

func (a *ArtifactStore) Close() error {
	return a.client.Close()
}

// ExportObjectName builds the bucket path for one exported document.
func ExportObjectName(templateID, exportID, format string) string {
	timestamp := time.Now().Unix()
	return fmt.Sprintf("exports/%s/%d_%s.%s", templateID, timestamp, exportID, format)
}
