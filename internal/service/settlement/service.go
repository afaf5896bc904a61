package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
)

// Service settles package-funded appointments against the customer's
// entitlement: one unit out on settlement, one unit back on a later
// cancellation, keeping the owning package's active/completed status
// derived from its usage rows.
type Service struct {
	repo   repository.PackageRepository
	logger zerolog.Logger
}

func NewService(repo repository.PackageRepository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Deduct consumes one unit of the referenced usage row. Direct-payment
// appointments (no package reference) are a no-op. An exhausted or
// missing usage row is logged and skipped, never an error: the status
// write already committed and quantities must not go negative.
func (s *Service) Deduct(ctx context.Context, apt *model.Appointment) error {
	if !apt.PackageFunded() {
		return nil
	}
	ref := apt.PackageInfo

	deducted, err := s.repo.DeductUsage(ctx, ref.UsageID)
	if err != nil {
		return fmt.Errorf("deduct usage %s: %w", ref.UsageID, err)
	}
	if !deducted {
		s.logger.Warn().
			Str("appointment_id", apt.ID.String()).
			Str("usage_id", ref.UsageID.String()).
			Msg("package usage missing or exhausted, nothing deducted")
		return nil
	}

	completed, err := s.repo.MarkCompletedIfExhausted(ctx, ref.CustomerPackageID)
	if err != nil {
		return fmt.Errorf("check package completion %s: %w", ref.CustomerPackageID, err)
	}
	if completed {
		s.logger.Info().
			Str("customer_package_id", ref.CustomerPackageID.String()).
			Msg("customer package fully used, marked completed")
	}
	return nil
}

// Refund gives one unit back, reversing a prior Deduct when a settled
// appointment is cancelled. A usage row with nothing used is logged and
// skipped so quantities never exceed the total.
func (s *Service) Refund(ctx context.Context, apt *model.Appointment) error {
	if !apt.PackageFunded() {
		return nil
	}
	ref := apt.PackageInfo

	refunded, err := s.repo.RefundUsage(ctx, ref.UsageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().
				Str("usage_id", ref.UsageID.String()).
				Msg("package usage not found, nothing refunded")
			return nil
		}
		return fmt.Errorf("refund usage %s: %w", ref.UsageID, err)
	}
	if !refunded {
		s.logger.Warn().
			Str("appointment_id", apt.ID.String()).
			Str("usage_id", ref.UsageID.String()).
			Msg("package usage missing or unused, nothing refunded")
		return nil
	}

	reactivated, err := s.repo.Reactivate(ctx, ref.CustomerPackageID)
	if err != nil {
		return fmt.Errorf("reactivate package %s: %w", ref.CustomerPackageID, err)
	}
	if reactivated {
		s.logger.Info().
			Str("customer_package_id", ref.CustomerPackageID.String()).
			Msg("completed package reactivated after refund")
	}
	return nil
}
