package handlers

import (
	"net/http"
	"strconv"

	"RB-CORE/internal/services"

	"github.com/gin-gonic/gin"
)

type TemplatesHandler struct {
	templateService *services.TemplateService
}

func NewTemplatesHandler(templateService *services.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{
		templateService: templateService,
	}
}

type CreateTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	services.TemplateContent
}

type UpdateTemplateRequest struct {
	services.TemplateContent
}

type RevertRequest struct {
	Version int `json:"version"`
}

func (h *TemplatesHandler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	template, err := h.templateService.Create(req.Name, req.Description, req.TemplateContent)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, template)
}

func (h *TemplatesHandler) ListTemplates(c *gin.Context) {
	publishedOnly := c.Query("published") == "true"

	templates, err := h.templateService.List(publishedOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"total":     len(templates),
	})
}

func (h *TemplatesHandler) GetTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	template, err := h.templateService.Get(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, template)
}

// UpdateTemplate saves edited content as a new version of the family.
func (h *TemplatesHandler) UpdateTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	template, err := h.templateService.CreateVersion(templateID, req.TemplateContent)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, template)
}

func (h *TemplatesHandler) DeleteTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	if err := h.templateService.Delete(templateID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

func (h *TemplatesHandler) ListVersions(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	versions, err := h.templateService.Versions(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"versions": versions,
		"total":    len(versions),
	})
}

// RevertTemplate rolls the family back to a past version by creating a new
// latest version with that version's content.
func (h *TemplatesHandler) RevertTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	var req RevertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Allow ?version=N as an alternative to the body
		versionStr := c.Query("version")
		version, convErr := strconv.Atoi(versionStr)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Target version is required"})
			return
		}
		req.Version = version
	}
	if req.Version <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target version must be positive"})
		return
	}

	template, err := h.templateService.Revert(templateID, req.Version)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, template)
}

func (h *TemplatesHandler) PublishTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	template, err := h.templateService.Publish(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, template)
}

func (h *TemplatesHandler) UnpublishTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	template, err := h.templateService.Unpublish(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, template)
}

// GetVariables lists the {{variable}} names a template's components reference.
func (h *TemplatesHandler) GetVariables(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	template, err := h.templateService.Get(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	variables, err := h.templateService.Variables(template)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract variables"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"template_id": template.ID,
		"variables":   variables,
	})
}

func (h *TemplatesHandler) GetAuditTrail(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	entries, err := h.templateService.AuditTrail(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audit_trail": entries,
		"total":       len(entries),
	})
}
