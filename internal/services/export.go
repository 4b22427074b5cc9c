package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"RB-CORE/internal/models"
	"RB-CORE/internal/render"
	"RB-CORE/internal/storage"

	"github.com/starwalkn/gotenberg-go-client/v8"
	"github.com/starwalkn/gotenberg-go-client/v8/document"
)

// ExportService turns templates into deliverable documents: HTML directly
// from the render core, PDF/PNG by handing the HTML to a Gotenberg instance.
// Exported bytes are optionally mirrored to the artifact store.
type ExportService struct {
	client    *gotenberg.Client
	timeout   time.Duration
	artifacts *storage.ArtifactStore // nil when no bucket is configured
}

func NewExportService(gotenbergURL, timeoutStr string, artifacts *storage.ArtifactStore) (*ExportService, error) {
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		// Fallback to the default if parsing fails
		timeout = 30 * time.Second
		fmt.Printf("Warning: failed to parse timeout '%s', using default 30s: %v\n", timeoutStr, err)
	}

	httpClient := &http.Client{
		Timeout: timeout,
	}

	client, err := gotenberg.NewClient(gotenbergURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gotenberg client: %w", err)
	}

	return &ExportService{
		client:    client,
		timeout:   timeout,
		artifacts: artifacts,
	}, nil
}

// RenderTemplateHTML renders a stored template version against a data
// object. The template's saved default variables apply first; request data
// overrides them key by key.
func (s *ExportService) RenderTemplateHTML(template *models.ReportTemplate, data map[string]any, backgroundColor, backgroundImageURL string) (string, error) {
	var components []render.Component
	if err := json.Unmarshal([]byte(template.Components), &components); err != nil {
		return "", fmt.Errorf("failed to unmarshal template components: %w", err)
	}

	merged := make(map[string]any)
	if template.Variables != "" {
		var defaults map[string]any
		if err := json.Unmarshal([]byte(template.Variables), &defaults); err == nil {
			for k, v := range defaults {
				merged[k] = v
			}
		}
	}
	for k, v := range data {
		merged[k] = v
	}

	return render.Render(components, merged, template.Name, backgroundColor, backgroundImageURL), nil
}

func (s *ExportService) ConvertHTMLToPDF(ctx context.Context, html string) (io.ReadCloser, error) {
	return s.convertWithRetry(ctx, html, "pdf", 3)
}

func (s *ExportService) ConvertHTMLToPNG(ctx context.Context, html string) (io.ReadCloser, error) {
	return s.convertWithRetry(ctx, html, "png", 3)
}

func (s *ExportService) convertWithRetry(ctx context.Context, html, format string, maxRetries int) (io.ReadCloser, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		convertCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		index, err := document.FromString("index.html", html)
		if err != nil {
			return nil, fmt.Errorf("failed to create document from html: %w", err)
		}

		if format == "png" {
			resp, err := s.client.Screenshot(convertCtx, gotenberg.NewHTMLRequest(index))
			if err == nil {
				return resp.Body, nil
			}
			lastErr = err
		} else {
			resp, err := s.client.Send(convertCtx, gotenberg.NewHTMLRequest(index))
			if err == nil {
				return resp.Body, nil
			}
			lastErr = err
		}
		fmt.Printf("%s conversion attempt %d/%d failed: %v\n", format, attempt, maxRetries, err)

		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	return nil, fmt.Errorf("failed to convert document after %d attempts: %w", maxRetries, lastErr)
}

// StoreArtifact mirrors an exported document to the artifact store. Returns
// the stored object name, or "" when no store is configured.
func (s *ExportService) StoreArtifact(ctx context.Context, reader io.Reader, objectName, contentType string) (string, error) {
	if s.artifacts == nil {
		return "", nil
	}
	result, err := s.artifacts.Upload(ctx, reader, objectName, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store export artifact: %w", err)
	}
	return result.ObjectName, nil
}

// ArtifactDownloadURL issues a short-lived signed URL for a stored export.
func (s *ExportService) ArtifactDownloadURL(objectName string) (string, error) {
	if s.artifacts == nil {
		return "", fmt.Errorf("artifact store not configured")
	}
	return s.artifacts.SignedURL(objectName, 15*time.Minute)
}
