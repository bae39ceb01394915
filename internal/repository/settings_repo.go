package repository

import (
	"context"
	"errors"

	"dukapos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SettingsRepository interface {
	// Get returns the settings row, creating the default one on first call.
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, s *model.Settings) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	var s model.Settings
	err := r.db.WithContext(ctx).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = model.Settings{
			StoreName: "Duka POS",
			TaxRate:   decimal.Zero,
			Currency:  "KES",
		}
		if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	return &s, err
}

func (r *settingsRepo) Update(ctx context.Context, s *model.Settings) error {
	return r.db.WithContext(ctx).Save(s).Error
}
