// Package store persists run reports to Postgres.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"seo-automator/internal/pipeline"
)

// Run is one batch execution.
type Run struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	StartedAt       time.Time `gorm:"not null"`
	FinishedAt      time.Time `gorm:"not null"`
	TopicsRequested int       `gorm:"not null"`
	TopicsReceived  int       `gorm:"not null"`
	Published       int       `gorm:"not null;default:0"`
	PublishFailed   int       `gorm:"not null;default:0"`
	Skipped         int       `gorm:"not null;default:0"`
	Items           []RunItem `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
}

func (Run) TableName() string {
	return "seo_runs"
}

// RunItem is one article or pillar page of a run.
type RunItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key"`
	RunID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Kind        string         `gorm:"not null;type:text"`
	Position    int            `gorm:"not null"`
	Title       string         `gorm:"not null;type:text"`
	Slug        string         `gorm:"not null;type:text;index"`
	Path        *string        `gorm:"type:text"`
	Status      string         `gorm:"not null;type:text"`
	Reason      *string        `gorm:"type:text"`
	PublishedAt time.Time      `gorm:"not null"`
	HasImage    bool           `gorm:"not null;default:false"`
	LinkedSlugs pq.StringArray `gorm:"type:text[];default:'{}'"`
}

func (RunItem) TableName() string {
	return "seo_run_items"
}

// PostgresStore saves reports with gorm.
type PostgresStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open connects to dsn. It does not touch the schema; writers call Migrate first.
func Open(dsn string, log *zap.Logger) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to report database: %w", err)
	}
	return New(db, log), nil
}

// New wraps an existing connection.
func New(db *gorm.DB, log *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: log.With(zap.String("component", "store"))}
}

// Migrate creates or updates the report tables.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Run{}, &RunItem{}); err != nil {
		return fmt.Errorf("migrating report tables: %w", err)
	}
	return nil
}

// Save writes the run and all of its items in one transaction.
func (s *PostgresStore) Save(ctx context.Context, report *pipeline.Report) error {
	run, err := toRecords(report)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("error saving run %s: %w", report.RunID, err)
	}

	s.log.Info("run report saved", zap.String("run_id", report.RunID), zap.Int("items", len(run.Items)))
	return nil
}

// Recent returns the latest runs, newest first, without their items.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	err := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("error listing runs: %w", err)
	}
	return runs, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecords(report *pipeline.Report) (*Run, error) {
	runID, err := uuid.Parse(report.RunID)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", report.RunID, err)
	}

	run := &Run{
		ID:              runID,
		StartedAt:       report.StartedAt,
		FinishedAt:      report.FinishedAt,
		TopicsRequested: report.TopicsRequested,
		TopicsReceived:  report.TopicsReceived,
		Published:       report.Count("", pipeline.StatusPublished),
		PublishFailed:   report.Count("", pipeline.StatusPublishFailed),
		Skipped:         report.Count("", pipeline.StatusSkipped),
		Items:           make([]RunItem, 0, len(report.Items)),
	}

	for i, item := range report.Items {
		linked := item.LinkedSlugs
		if linked == nil {
			linked = []string{}
		}
		run.Items = append(run.Items, RunItem{
			ID:          uuid.New(),
			RunID:       runID,
			Kind:        string(item.Kind),
			Position:    i,
			Title:       item.Title,
			Slug:        item.Slug,
			Path:        optional(item.Path),
			Status:      string(item.Status),
			Reason:      optional(item.Reason),
			PublishedAt: item.PublishedAt,
			HasImage:    item.HasImage,
			LinkedSlugs: pq.StringArray(linked),
		})
	}
	return run, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
