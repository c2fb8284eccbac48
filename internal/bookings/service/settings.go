package service

import (
	"context"
	"errors"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/internal/bookings/repository"
	"hotelbooking/pkg/config"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/model"
)

// SettingsService exposes the price-to-point ratio used when checking in.
type SettingsService interface {
	PriceToPoint(ctx context.Context) (float64, error)
	SetPriceToPoint(ctx context.Context, actor *model.Actor, ratio float64) error
}

type settingsService struct {
	repo repository.SettingRepository
	cfg  *config.Config
}

func NewSettingsService(repo repository.SettingRepository, cfg *config.Config) SettingsService {
	return &settingsService{repo: repo, cfg: cfg}
}

func (s *settingsService) PriceToPoint(ctx context.Context) (float64, error) {
	ratio, err := s.repo.GetFloat(ctx, model.SettingPriceToPoint)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrSettingNotFound) {
			return 0, apperrors.NotFound("Setting")
		}
		s.cfg.Log.FromContext(ctx).Error("Failed to read setting", "name", model.SettingPriceToPoint, "error", err)
		return 0, apperrors.Internal("Failed to read setting", err)
	}
	return ratio, nil
}

func (s *settingsService) SetPriceToPoint(ctx context.Context, actor *model.Actor, ratio float64) error {
	log := s.cfg.Log.FromContext(ctx)
	if actor == nil {
		return apperrors.Unauthorized("User not authenticated")
	}
	if actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("Only admins can change settings")
	}
	if ratio <= 0 {
		return apperrors.InvalidInput("priceToPoint must be greater than zero")
	}

	if err := s.repo.Set(ctx, model.SettingPriceToPoint, ratio); err != nil {
		log.Error("Failed to update setting", "name", model.SettingPriceToPoint, "error", err)
		return apperrors.Internal("Failed to update setting", err)
	}

	log.Info("Setting updated", "name", model.SettingPriceToPoint, "value", ratio, "actor_id", actor.ID)
	return nil
}
