package internal

import (
	"fmt"

	"RB-CORE/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(cfg *config.Config) error {
	dsn := cfg.Database.DSN()

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate the schema
	if err := autoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	fmt.Println("Database connected and migrated successfully")
	return nil
}

func autoMigrate() error {
	// Create tables only if they don't exist (preserve existing data)
	fmt.Println("Ensuring report_templates table exists...")
	result := DB.Exec(`
        CREATE TABLE IF NOT EXISTS report_templates (
            id varchar(36) PRIMARY KEY,
            name varchar(191) NOT NULL,
            description text,
            version int NOT NULL DEFAULT 1,
            parent_id varchar(36) NULL,
            is_latest tinyint(1) NOT NULL DEFAULT 1,
            is_published tinyint(1) NOT NULL DEFAULT 0,
            published_at datetime(3) NULL,
            components json,
            variables json,
            styles json,
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_report_templates_name (name),
            INDEX idx_report_templates_parent_id (parent_id),
            INDEX idx_report_templates_is_latest (is_latest),
            INDEX idx_report_templates_deleted_at (deleted_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create report_templates table: %w", result.Error)
	}

	ensureTemplateColumns := map[string]string{
		"description":  "ALTER TABLE report_templates ADD COLUMN description text",
		"is_published": "ALTER TABLE report_templates ADD COLUMN is_published tinyint(1) NOT NULL DEFAULT 0",
		"published_at": "ALTER TABLE report_templates ADD COLUMN published_at datetime(3) NULL",
		"variables":    "ALTER TABLE report_templates ADD COLUMN variables json",
		"styles":       "ALTER TABLE report_templates ADD COLUMN styles json",
	}

	for column, stmt := range ensureTemplateColumns {
		if err := ensureColumn("report_templates", column, stmt); err != nil {
			return err
		}
	}

	fmt.Println("Creating template_audit_logs table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS template_audit_logs (
            id varchar(36) PRIMARY KEY,
            template_id varchar(36) NOT NULL,
            version int NOT NULL,
            action varchar(32) NOT NULL,
            detail text,
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_template_audit_logs_template_id (template_id),
            INDEX idx_template_audit_logs_deleted_at (deleted_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create template_audit_logs table: %w", result.Error)
	}

	fmt.Println("Creating activity_logs table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS activity_logs (
            id varchar(36) PRIMARY KEY,
            method varchar(10) NOT NULL,
            path varchar(255) NOT NULL,
            user_agent text,
            ip_address varchar(45),
            request_body text,
            query_params text,
            status_code int NOT NULL,
            response_time bigint NOT NULL,
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_activity_logs_deleted_at (deleted_at),
            INDEX idx_activity_logs_method (method),
            INDEX idx_activity_logs_path (path),
            INDEX idx_activity_logs_created_at (created_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create activity_logs table: %w", result.Error)
	}

	fmt.Println("Tables created/verified successfully")
	return nil
}

func ensureColumn(table, column, statement string) error {
	if DB.Migrator().HasColumn(table, column) {
		return nil
	}

	fmt.Printf("Adding missing column %s.%s...\n", table, column)
	if err := DB.Exec(statement).Error; err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}

	return nil
}

func CloseDB() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
