package models

import (
	"time"

	"gorm.io/gorm"
)

// ReportTemplate is one version row of a template family. The family root is
// the version-1 row; later versions point back to it via ParentID and
// exactly one row per family carries IsLatest.
type ReportTemplate struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(191);not null;index" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Version     int            `gorm:"not null;default:1" json:"version"`
	ParentID    *string        `gorm:"type:varchar(36);index" json:"parent_id"`
	IsLatest    bool           `gorm:"not null;default:true;index" json:"is_latest"`
	IsPublished bool           `gorm:"not null;default:false" json:"is_published"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	Components  string         `gorm:"type:json" json:"components"` // JSON array of components
	Variables   string         `gorm:"type:json" json:"variables"`  // JSON object of default variable values
	Styles      string         `gorm:"type:json" json:"styles"`     // JSON object of template-level styles
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReportTemplate) TableName() string {
	return "report_templates"
}

// FamilyID returns the id shared by every version of this template.
func (t *ReportTemplate) FamilyID() string {
	if t.ParentID != nil && *t.ParentID != "" {
		return *t.ParentID
	}
	return t.ID
}

// TemplateAuditLog records one mutation of a template family.
type TemplateAuditLog struct {
	ID         string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	TemplateID string         `gorm:"type:varchar(36);not null;index" json:"template_id"`
	Version    int            `gorm:"not null" json:"version"`
	Action     string         `gorm:"type:varchar(32);not null" json:"action"`
	Detail     string         `gorm:"type:text" json:"detail"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TemplateAuditLog) TableName() string {
	return "template_audit_logs"
}
