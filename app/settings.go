// Package app contains the services that orchestrate the billing engine:
// loading reference data, invoking the pure computations, and persisting
// the results.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wisptel/netbill/domain/settings"
	"github.com/wisptel/netbill/ports"
)

// SettingsService provides access to application settings.
type SettingsService struct {
	store  ports.SettingsStore
	logger zerolog.Logger
	mu     sync.RWMutex
	cache  settings.Settings
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store ports.SettingsStore, logger zerolog.Logger) *SettingsService {
	return &SettingsService{
		store:  store,
		logger: logger,
		cache:  settings.Defaults(),
	}
}

// Load loads all settings from the store and merges with defaults.
func (s *SettingsService) Load(ctx context.Context) error {
	loaded, err := s.store.GetAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache = settings.Merge(loaded)
	s.mu.Unlock()

	s.logger.Info().Int("count", len(loaded)).Msg("settings loaded from database")
	return nil
}

// All returns a copy of every setting, defaults included.
func (s *SettingsService) All() settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(settings.Settings, len(s.cache))
	for k, v := range s.cache {
		out[k] = v
	}
	return out
}

// GetValue returns a single setting value.
func (s *SettingsService) GetValue(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.Get(key)
}

// CompanyStateCode returns the company's GST state code. Empty means the
// operator has not completed tax setup; billing will refuse to resolve a
// jurisdiction until it is set.
func (s *SettingsService) CompanyStateCode() string {
	return s.GetValue(settings.KeyCompanyStateCode)
}

// LegacyPeriodRule reports whether the historical period algorithm is
// enabled for reproducing old invoices.
func (s *SettingsService) LegacyPeriodRule() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.GetBool(settings.KeyBillingLegacyPeriodRule)
}

// Set updates a setting in both cache and store.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()

	s.logger.Debug().Str("key", key).Msg("setting updated")
	return nil
}
