package services

import (
	"encoding/json"
	"fmt"
	"time"

	"RB-CORE/internal/models"
	"RB-CORE/internal/render"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateService owns the template store: creation, linear versioning,
// publish state and the per-family audit trail. Versioning never mutates
// history — every change lands as a new row.
type TemplateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

// TemplateContent is the editable payload of a template version.
type TemplateContent struct {
	Components json.RawMessage `json:"components"`
	Variables  json.RawMessage `json:"variables"`
	Styles     json.RawMessage `json:"styles"`
}

func (c TemplateContent) componentsJSON() string {
	if len(c.Components) == 0 {
		return "[]"
	}
	return string(c.Components)
}

func (c TemplateContent) variablesJSON() string {
	if len(c.Variables) == 0 {
		return "{}"
	}
	return string(c.Variables)
}

func (c TemplateContent) stylesJSON() string {
	if len(c.Styles) == 0 {
		return "{}"
	}
	return string(c.Styles)
}

func (s *TemplateService) Create(name, description string, content TemplateContent) (*models.ReportTemplate, error) {
	if name == "" {
		return nil, fmt.Errorf("template name is required")
	}

	var count int64
	if err := s.db.Model(&models.ReportTemplate{}).
		Where("name = ? AND is_latest = ?", name, true).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check template name: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("template name %q already exists", name)
	}

	if err := validateComponents(content.Components); err != nil {
		return nil, err
	}

	template := &models.ReportTemplate{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Version:     1,
		IsLatest:    true,
		Components:  content.componentsJSON(),
		Variables:   content.variablesJSON(),
		Styles:      content.stylesJSON(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(template).Error; err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}
		return s.recordAudit(tx, template.ID, 1, "created", fmt.Sprintf("template %q created", name))
	})
	if err != nil {
		return nil, err
	}

	return template, nil
}

func (s *TemplateService) Get(templateID string) (*models.ReportTemplate, error) {
	var template models.ReportTemplate
	if err := s.db.First(&template, "id = ?", templateID).Error; err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}
	return &template, nil
}

// Latest resolves any version row of a family to the family's latest row.
func (s *TemplateService) Latest(templateID string) (*models.ReportTemplate, error) {
	template, err := s.Get(templateID)
	if err != nil {
		return nil, err
	}
	if template.IsLatest {
		return template, nil
	}

	var latest models.ReportTemplate
	familyID := template.FamilyID()
	if err := s.db.Where("(id = ? OR parent_id = ?) AND is_latest = ?", familyID, familyID, true).
		First(&latest).Error; err != nil {
		return nil, fmt.Errorf("latest version not found: %w", err)
	}
	return &latest, nil
}

// List returns the latest version of every family, newest first.
func (s *TemplateService) List(publishedOnly bool) ([]models.ReportTemplate, error) {
	query := s.db.Where("is_latest = ?", true)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var templates []models.ReportTemplate
	if err := query.Order("updated_at DESC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// CreateVersion inserts a new version row with the given content, flipping
// the previous latest off inside the same transaction.
func (s *TemplateService) CreateVersion(templateID string, content TemplateContent) (*models.ReportTemplate, error) {
	latest, err := s.Latest(templateID)
	if err != nil {
		return nil, err
	}

	if err := validateComponents(content.Components); err != nil {
		return nil, err
	}

	familyID := latest.FamilyID()
	next := &models.ReportTemplate{
		ID:          uuid.New().String(),
		Name:        latest.Name,
		Description: latest.Description,
		Version:     latest.Version + 1,
		ParentID:    &familyID,
		IsLatest:    true,
		IsPublished: latest.IsPublished,
		PublishedAt: latest.PublishedAt,
		Components:  content.componentsJSON(),
		Variables:   content.variablesJSON(),
		Styles:      content.stylesJSON(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ReportTemplate{}).
			Where("id = ?", latest.ID).
			Update("is_latest", false).Error; err != nil {
			return fmt.Errorf("failed to retire previous version: %w", err)
		}
		if err := tx.Create(next).Error; err != nil {
			return fmt.Errorf("failed to save new version: %w", err)
		}
		return s.recordAudit(tx, familyID, next.Version, "version_created",
			fmt.Sprintf("version %d created", next.Version))
	})
	if err != nil {
		return nil, err
	}

	return next, nil
}

// Versions lists every row of a family in version order.
func (s *TemplateService) Versions(templateID string) ([]models.ReportTemplate, error) {
	template, err := s.Get(templateID)
	if err != nil {
		return nil, err
	}
	familyID := template.FamilyID()

	var versions []models.ReportTemplate
	if err := s.db.Where("id = ? OR parent_id = ?", familyID, familyID).
		Order("version ASC").Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return versions, nil
}

// Revert creates a new latest version copying a target version's content.
// The target row itself is never touched.
func (s *TemplateService) Revert(templateID string, targetVersion int) (*models.ReportTemplate, error) {
	versions, err := s.Versions(templateID)
	if err != nil {
		return nil, err
	}

	var target *models.ReportTemplate
	for i := range versions {
		if versions[i].Version == targetVersion {
			target = &versions[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("version %d not found", targetVersion)
	}

	next, err := s.CreateVersion(templateID, TemplateContent{
		Components: json.RawMessage(target.Components),
		Variables:  json.RawMessage(target.Variables),
		Styles:     json.RawMessage(target.Styles),
	})
	if err != nil {
		return nil, err
	}

	if err := s.recordAudit(s.db, next.FamilyID(), next.Version, "reverted",
		fmt.Sprintf("reverted to version %d as version %d", targetVersion, next.Version)); err != nil {
		fmt.Printf("Warning: failed to record revert audit entry: %v\n", err)
	}
	return next, nil
}

func (s *TemplateService) Publish(templateID string) (*models.ReportTemplate, error) {
	return s.setPublished(templateID, true)
}

func (s *TemplateService) Unpublish(templateID string) (*models.ReportTemplate, error) {
	return s.setPublished(templateID, false)
}

func (s *TemplateService) setPublished(templateID string, published bool) (*models.ReportTemplate, error) {
	latest, err := s.Latest(templateID)
	if err != nil {
		return nil, err
	}

	action := "unpublished"
	updates := map[string]any{"is_published": false}
	if published {
		action = "published"
		updates["is_published"] = true
		updates["published_at"] = time.Now()
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ReportTemplate{}).
			Where("id = ?", latest.ID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update publish state: %w", err)
		}
		return s.recordAudit(tx, latest.FamilyID(), latest.Version, action,
			fmt.Sprintf("version %d %s", latest.Version, action))
	})
	if err != nil {
		return nil, err
	}

	return s.Get(latest.ID)
}

// Delete removes the entire family (every version row). The audit trail is
// kept; it outlives the template for bookkeeping.
func (s *TemplateService) Delete(templateID string) error {
	template, err := s.Get(templateID)
	if err != nil {
		return err
	}
	familyID := template.FamilyID()

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? OR parent_id = ?", familyID, familyID).
			Delete(&models.ReportTemplate{}).Error; err != nil {
			return fmt.Errorf("failed to delete template family: %w", err)
		}
		return s.recordAudit(tx, familyID, template.Version, "deleted",
			fmt.Sprintf("template %q deleted", template.Name))
	})
}

// AuditTrail returns a family's audit entries, newest first.
func (s *TemplateService) AuditTrail(templateID string) ([]models.TemplateAuditLog, error) {
	template, err := s.Get(templateID)
	if err != nil {
		return nil, err
	}

	var entries []models.TemplateAuditLog
	if err := s.db.Where("template_id = ?", template.FamilyID()).
		Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch audit trail: %w", err)
	}
	return entries, nil
}

// ComponentList unmarshals a template's component tree.
func (s *TemplateService) ComponentList(template *models.ReportTemplate) ([]render.Component, error) {
	var components []render.Component
	if err := json.Unmarshal([]byte(template.Components), &components); err != nil {
		return nil, fmt.Errorf("failed to unmarshal components: %w", err)
	}
	return components, nil
}

// Variables returns the de-duplicated {{variable}} names referenced by a
// template's component tree.
func (s *TemplateService) Variables(template *models.ReportTemplate) ([]string, error) {
	components, err := s.ComponentList(template)
	if err != nil {
		return nil, err
	}
	return render.CollectVariables(components), nil
}

func (s *TemplateService) recordAudit(tx *gorm.DB, templateID string, version int, action, detail string) error {
	entry := &models.TemplateAuditLog{
		ID:         uuid.New().String(),
		TemplateID: templateID,
		Version:    version,
		Action:     action,
		Detail:     detail,
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

func validateComponents(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var components []render.Component
	if err := json.Unmarshal(raw, &components); err != nil {
		return fmt.Errorf("invalid components payload: %w", err)
	}
	seen := make(map[string]bool)
	for _, c := range components {
		if c.ID == "" {
			continue
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate component id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}
