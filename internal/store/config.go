package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aarambh-bootcamp/registration-api/internal/forms"
	"github.com/aarambh-bootcamp/registration-api/internal/models"
	"gorm.io/gorm"
)

// ErrInvalidSchema marks a field list that violates the schema invariants
// (duplicate names, missing options, unknown types).
var ErrInvalidSchema = errors.New("invalid form schema")

// ConfigStore owns the single SiteConfig record. The form field list is only
// ever replaced as a whole, never patched field by field.
type ConfigStore struct {
	db *gorm.DB
}

func NewConfigStore(db *gorm.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// Get returns the configuration record, creating it with the default form
// fields on first use.
func (s *ConfigStore) Get(ctx context.Context) (*models.SiteConfig, error) {
	var cfg models.SiteConfig
	err := s.db.WithContext(ctx).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.SiteConfig{
			FormFields: models.DefaultFormFields(),
			SiteInfo:   models.DefaultSiteInfo(),
		}
		if err := s.db.WithContext(ctx).Create(&cfg).Error; err != nil {
			return nil, fmt.Errorf("seed site config: %w", err)
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReplaceFormFields swaps the whole schema atomically. The list is validated
// first and the numeric order is rewritten from array position, so what comes
// back out of Get is exactly what was accepted here.
func (s *ConfigStore) ReplaceFormFields(ctx context.Context, schema forms.Schema) (*models.SiteConfig, error) {
	if err := schema.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	schema.Normalize()

	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg.FormFields = schema
	if err := s.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return nil, fmt.Errorf("replace form fields: %w", err)
	}
	return cfg, nil
}

// UpdateSiteInfo replaces the site info block. Last write wins; admin edits
// are infrequent enough that no conflict resolution is needed.
func (s *ConfigStore) UpdateSiteInfo(ctx context.Context, info models.SiteInfo) (*models.SiteConfig, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg.SiteInfo = info
	if err := s.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return nil, fmt.Errorf("update site info: %w", err)
	}
	return cfg, nil
}
