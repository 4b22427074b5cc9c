package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"RB-CORE/internal/render"
	"RB-CORE/internal/services"
	"RB-CORE/internal/storage"
	"RB-CORE/internal/validate"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RenderHandler struct {
	templateService *services.TemplateService
	exportService   *services.ExportService
	stagingDir      string
}

func NewRenderHandler(templateService *services.TemplateService, exportService *services.ExportService, stagingDir string) *RenderHandler {
	return &RenderHandler{
		templateService: templateService,
		exportService:   exportService,
		stagingDir:      stagingDir,
	}
}

type RenderRequest struct {
	Data               map[string]any `json:"data"`
	Format             string         `json:"format"`
	BackgroundColor    string         `json:"background_color"`
	BackgroundImageURL string         `json:"background_image_url"`
	Store              bool           `json:"store"`
}

type PreviewRequest struct {
	Components         []render.Component `json:"components"`
	Data               map[string]any     `json:"data"`
	TemplateName       string             `json:"template_name"`
	BackgroundColor    string             `json:"background_color"`
	BackgroundImageURL string             `json:"background_image_url"`
}

// RenderTemplate renders a stored template with request data. HTML is
// returned inline; PDF and PNG are converted through Gotenberg and streamed
// back as attachments. A staged copy stays on disk (until the cleanup sweep)
// so the download endpoint can re-serve it by export id.
func (h *RenderHandler) RenderTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.Format == "" {
		req.Format = "html"
	}
	if req.Format != "html" && req.Format != "pdf" && req.Format != "png" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format must be html, pdf or png"})
		return
	}

	template, err := h.templateService.Get(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	html, err := h.exportService.RenderTemplateHTML(template, req.Data, req.BackgroundColor, req.BackgroundImageURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Format == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	var body io.ReadCloser
	if req.Format == "png" {
		body, err = h.exportService.ConvertHTMLToPNG(c.Request.Context(), html)
	} else {
		body, err = h.exportService.ConvertHTMLToPDF(c.Request.Context(), html)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert document"})
		return
	}
	defer body.Close()

	if err := os.MkdirAll(h.stagingDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create staging directory"})
		return
	}

	exportID := uuid.New().String()
	filePath := filepath.Join(h.stagingDir, exportID+"."+req.Format)

	out, err := os.Create(filePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stage export"})
		return
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stage export"})
		return
	}
	if err := out.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stage export"})
		return
	}

	if req.Store {
		staged, err := os.Open(filePath)
		if err == nil {
			objectName := storage.ExportObjectName(template.ID, exportID, req.Format)
			stored, storeErr := h.exportService.StoreArtifact(c.Request.Context(), staged, objectName, contentTypeFor(req.Format))
			staged.Close()
			if storeErr != nil {
				fmt.Printf("Failed to store export artifact: %v\n", storeErr)
			} else if stored != "" {
				c.Header("X-Artifact-Object", stored)
			}
		}
	}

	c.Header("X-Export-Id", exportID)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", exportID, req.Format))
	c.Header("Content-Type", contentTypeFor(req.Format))

	c.File(filePath)
}

// DownloadExport streams a staged export as a file attachment.
func (h *RenderHandler) DownloadExport(c *gin.Context) {
	exportID := c.Param("exportId")
	format := c.Query("format")
	if exportID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Export ID is required"})
		return
	}
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "png" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format must be pdf or png"})
		return
	}

	filePath := filepath.Join(h.stagingDir, exportID+"."+format)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Export not found"})
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", exportID, format))
	c.Header("Content-Type", contentTypeFor(format))

	c.File(filePath)
}

// PreviewTemplate renders inline components without persisting anything.
// Used by the builder UI for live preview.
func (h *RenderHandler) PreviewTemplate(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	name := req.TemplateName
	if name == "" {
		name = "Preview"
	}

	html := render.Render(req.Components, req.Data, name, req.BackgroundColor, req.BackgroundImageURL)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// ValidateData checks a raw JSON payload against one of the known schemas.
// Validation failures are reported in the result body, not as HTTP errors.
func (h *RenderHandler) ValidateData(c *gin.Context) {
	kind := validate.Kind(c.Param("kind"))
	if !validate.KnownKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown validation kind %q", kind)})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	result := validate.Validate(kind, string(body))
	c.JSON(http.StatusOK, result)
}

// GetExample returns a sample payload that passes the kind's schema.
func (h *RenderHandler) GetExample(c *gin.Context) {
	kind := validate.Kind(c.Param("kind"))
	example, err := validate.ExampleJSON(kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json", []byte(example))
}

func contentTypeFor(format string) string {
	switch format {
	case "pdf":
		return "application/pdf"
	case "png":
		return "image/png"
	default:
		return "text/html; charset=utf-8"
	}
}
