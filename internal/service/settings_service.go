package service

import (
	"context"
	"encoding/json"
	"time"

	"dukapos/internal/dto"
	"dukapos/internal/model"
	"dukapos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	settingsCacheKey = "cache:settings"
	settingsCacheTTL = 5 * time.Minute
)

// SettingsService serves the single-row store configuration with a short
// Redis cache in front; every update invalidates the cache.
type SettingsService struct {
	settings repository.SettingsRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

func NewSettingsService(settings repository.SettingsRepository, rdb *redis.Client, log zerolog.Logger) *SettingsService {
	return &SettingsService{
		settings: settings,
		rdb:      rdb,
		log:      log.With().Str("component", "settings_service").Logger(),
	}
}

func (s *SettingsService) Get(ctx context.Context) (*model.Settings, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, settingsCacheKey).Bytes()
		if err == nil {
			var cached model.Settings
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, cfg)
	return cfg, nil
}

func (s *SettingsService) Update(ctx context.Context, req dto.SettingsUpdateRequest) (*model.Settings, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.StoreName != nil {
		cfg.StoreName = *req.StoreName
	}
	if req.TaxRate != nil {
		cfg.TaxRate = *req.TaxRate
	}
	if req.Currency != nil {
		cfg.Currency = *req.Currency
	}
	if req.ReceiptPhone != nil {
		cfg.ReceiptPhone = req.ReceiptPhone
	}
	if req.ReceiptAddress != nil {
		cfg.ReceiptAddress = req.ReceiptAddress
	}
	if req.ReceiptHeader != nil {
		cfg.ReceiptHeader = req.ReceiptHeader
	}
	if req.ReceiptFooter != nil {
		cfg.ReceiptFooter = req.ReceiptFooter
	}
	if req.ShiftAutoRotate != nil {
		cfg.ShiftAutoRotate = *req.ShiftAutoRotate
	}
	if req.AllowPriceBelowBase != nil {
		cfg.AllowPriceBelowBase = *req.AllowPriceBelowBase
	}

	if err := s.settings.Update(ctx, cfg); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, settingsCacheKey).Err(); err != nil {
			s.log.Warn().Err(err).Msg("could not invalidate settings cache")
		}
	}
	return cfg, nil
}

func (s *SettingsService) cache(ctx context.Context, cfg *model.Settings) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, settingsCacheKey, raw, settingsCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("could not cache settings")
	}
}
