package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"RB-CORE/internal/models"
	"RB-CORE/internal/services"

	"github.com/gin-gonic/gin"
)

type LogsHandler struct {
	activityLogService *services.ActivityLogService
}

func NewLogsHandler(activityLogService *services.ActivityLogService) *LogsHandler {
	return &LogsHandler{
		activityLogService: activityLogService,
	}
}

type LogsResponse struct {
	Logs       interface{} `json:"logs"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// GetAllLogs returns all activity logs with pagination
func (h *LogsHandler) GetAllLogs(c *gin.Context) {
	limit, page := parsePagination(c)
	method := c.Query("method")
	path := c.Query("path")

	offset := (page - 1) * limit

	var logs []models.ActivityLog
	var total int64
	var err error

	if method != "" {
		logs, total, err = h.activityLogService.GetLogsByMethod(method, limit, offset)
	} else if path != "" {
		logs, total, err = h.activityLogService.GetLogsByPath(path, limit, offset)
	} else {
		logs, total, err = h.activityLogService.GetAllLogs(limit, offset)
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	response := LogsResponse{
		Logs:       logs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}

	c.JSON(http.StatusOK, response)
}

// GetLogStats returns statistics about the logs
func (h *LogsHandler) GetLogStats(c *gin.Context) {
	logs, total, err := h.activityLogService.GetAllLogs(0, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch log stats"})
		return
	}

	methodCounts := make(map[string]int)
	pathCounts := make(map[string]int)
	statusCounts := make(map[int]int)

	for _, log := range logs {
		methodCounts[log.Method]++
		pathCounts[log.Path]++
		statusCounts[log.StatusCode]++
	}

	stats := gin.H{
		"total_requests": total,
		"methods":        methodCounts,
		"paths":          pathCounts,
		"status_codes":   statusCounts,
	}

	c.JSON(http.StatusOK, stats)
}

// GetRenderHistory returns only render/preview POST requests with the data
// users rendered with
func (h *LogsHandler) GetRenderHistory(c *gin.Context) {
	limit, page := parsePagination(c)
	offset := (page - 1) * limit

	logs, total, err := h.activityLogService.GetLogsByPath("render", limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch render history"})
		return
	}

	history := make([]gin.H, 0)
	for _, log := range logs {
		if log.Method != "POST" || len(log.RequestBody) == 0 {
			continue
		}

		entry := gin.H{
			"timestamp":     log.CreatedAt,
			"path":          log.Path,
			"template_id":   extractTemplateID(log.Path),
			"ip_address":    log.IPAddress,
			"user_agent":    log.UserAgent,
			"response_time": log.ResponseTime,
		}

		var requestData map[string]interface{}
		if err := json.Unmarshal([]byte(log.RequestBody), &requestData); err == nil {
			entry["user_data"] = requestData
		} else {
			entry["raw_data"] = log.RequestBody
		}
		history = append(history, entry)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"history":     history,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": totalPages,
	})
}

func parsePagination(c *gin.Context) (limit, page int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 1000 { // Prevent too large requests
		limit = 1000
	}

	page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}

	return limit, page
}

// Helper function to extract template ID from path like "/api/v1/templates/123/render"
func extractTemplateID(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "templates" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return "unknown"
}
