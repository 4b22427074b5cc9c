package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"RB-CORE/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityLogService struct {
	db *gorm.DB
}

func NewActivityLogService(db *gorm.DB) *ActivityLogService {
	return &ActivityLogService{db: db}
}

func (s *ActivityLogService) LogRequest(c *gin.Context, statusCode int, responseTime time.Duration) {
	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = c.Request.RemoteAddr
	}

	queryParams := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}

	// Request body is stored in context by the middleware below
	var requestBody string
	if body, exists := c.Get("request_body"); exists {
		if bodyStr, ok := body.(string); ok {
			requestBody = bodyStr
		}
	}

	queryParamsJSON, _ := json.Marshal(queryParams)

	activityLog := &models.ActivityLog{
		ID:           uuid.New().String(),
		Method:       c.Request.Method,
		Path:         c.Request.URL.Path,
		UserAgent:    c.Request.UserAgent(),
		IPAddress:    clientIP,
		RequestBody:  requestBody,
		QueryParams:  string(queryParamsJSON),
		StatusCode:   statusCode,
		ResponseTime: responseTime.Milliseconds(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	// Save to database (don't block the request if this fails)
	go func() {
		if err := s.db.Create(activityLog).Error; err != nil {
			fmt.Printf("Failed to save activity log: %v\n", err)
		}
	}()
}

func (s *ActivityLogService) GetAllLogs(limit int, offset int) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog
	var total int64

	if err := s.db.Model(&models.ActivityLog{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	query := s.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch logs: %w", err)
	}

	return logs, total, nil
}

func (s *ActivityLogService) GetLogsByMethod(method string, limit int, offset int) ([]models.ActivityLog, int64, error) {
	return s.getLogsWhere("method = ?", strings.ToUpper(method), limit, offset)
}

func (s *ActivityLogService) GetLogsByPath(path string, limit int, offset int) ([]models.ActivityLog, int64, error) {
	return s.getLogsWhere("path LIKE ?", "%"+path+"%", limit, offset)
}

func (s *ActivityLogService) getLogsWhere(condition string, value any, limit int, offset int) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog
	var total int64

	query := s.db.Where(condition, value)

	if err := query.Model(&models.ActivityLog{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch logs: %w", err)
	}

	return logs, total, nil
}

// LoggingMiddleware records every request; render/validate POST bodies are
// captured (truncated past 10KB) so the history endpoints can show what
// data users rendered with.
func (s *ActivityLogService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		if c.Request.Method == "POST" && c.Request.Body != nil {
			bodyBytes, err := io.ReadAll(c.Request.Body)
			if err == nil {
				// Restore the body for other handlers
				c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

				if len(bodyBytes) > 0 {
					if len(bodyBytes) > 10000 {
						c.Set("request_body", fmt.Sprintf("[Large body: %d bytes] %s...", len(bodyBytes), string(bodyBytes[:100])))
					} else {
						c.Set("request_body", string(bodyBytes))
					}
				}
			}
		}

		c.Next()

		duration := time.Since(start)
		s.LogRequest(c, c.Writer.Status(), duration)
	}
}
