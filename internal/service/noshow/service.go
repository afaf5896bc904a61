package noshow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
)

const (
	settingsCacheTTL     = 5 * time.Minute
	settingsCacheCleanup = 10 * time.Minute
)

// Service tracks customer no-shows and blacklists a customer once the
// tenant's threshold is reached. Blacklisting is one-way here; lifting
// it is a manual admin action.
type Service struct {
	customers repository.CustomerRepository
	settings  repository.SettingsRepository
	cache     *gocache.Cache
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(customers repository.CustomerRepository, settings repository.SettingsRepository, logger zerolog.Logger) *Service {
	return &Service{
		customers: customers,
		settings:  settings,
		cache:     gocache.New(settingsCacheTTL, settingsCacheCleanup),
		logger:    logger,
		now:       time.Now,
	}
}

// RecordNoShow resolves the customer through the tenant-scoped phone
// join and bumps the counter. A missing phone or unmatched customer is
// logged and skipped: the appointment keeps its no_show status either
// way.
func (s *Service) RecordNoShow(ctx context.Context, apt *model.Appointment) error {
	if apt.CustomerPhone == "" {
		s.logger.Warn().
			Str("appointment_id", apt.ID.String()).
			Msg("appointment has no customer phone, no-show not recorded")
		return nil
	}

	customer, err := s.customers.GetByPhone(ctx, apt.TenantID, apt.CustomerPhone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().
				Str("appointment_id", apt.ID.String()).
				Str("phone", apt.CustomerPhone).
				Msg("no customer matches phone, no-show not recorded")
			return nil
		}
		return fmt.Errorf("lookup customer by phone: %w", err)
	}

	count, err := s.customers.IncrementNoShow(ctx, customer.ID)
	if err != nil {
		return fmt.Errorf("increment no-show count: %w", err)
	}

	threshold, err := s.blacklistThreshold(ctx, apt.TenantID)
	if err != nil {
		return fmt.Errorf("read blacklist threshold: %w", err)
	}

	if count < threshold || customer.IsBlacklisted {
		return nil
	}

	blacklisted, err := s.customers.Blacklist(ctx, customer.ID, s.now())
	if err != nil {
		return fmt.Errorf("blacklist customer %s: %w", customer.ID, err)
	}
	if blacklisted {
		s.logger.Info().
			Str("customer_id", customer.ID.String()).
			Int("no_show_count", count).
			Int("threshold", threshold).
			Msg("customer blacklisted after repeated no-shows")
	}
	return nil
}

func (s *Service) blacklistThreshold(ctx context.Context, tenantID uuid.UUID) (int, error) {
	key := tenantID.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(int), nil
	}

	threshold, err := s.settings.GetBlacklistThreshold(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	s.cache.Set(key, threshold, gocache.DefaultExpiration)
	return threshold, nil
}
