package service

//go:generate mockgen -source=user.go -destination=mocks/user_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/flood_watch/internal/geo"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
)

// UserRepository определяет контракт для работы с бд жителей
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByPlatformID(ctx context.Context, platform models.PlatformType, platformID string) (*models.User, error)
	List(ctx context.Context, platform models.PlatformType, skip, limit int) ([]*models.User, error)
	Update(ctx context.Context, id uuid.UUID, update models.UserUpdate) (*models.User, error)
	AdjustCredibility(ctx context.Context, id uuid.UUID, delta int) (int, error)
	Touch(ctx context.Context, id uuid.UUID) error
	FindSubscribedWithin(ctx context.Context, lat, lon, radiusKM float64) ([]*models.User, error)
	FindNearby(ctx context.Context, lat, lon, radiusKM float64, excludeID uuid.UUID, limit int) ([]*models.User, error)
}

// UserService профили жителей и их подписки на оповещения
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByPlatform(ctx context.Context, platform models.PlatformType, platformID string) (*models.User, error)
	ListUsers(ctx context.Context, platform models.PlatformType, skip, limit int) ([]*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, update models.UserUpdate) (*models.User, error)
	AdjustCredibility(ctx context.Context, id uuid.UUID, delta int) (int, error)
	GetOrCreateByPlatform(ctx context.Context, platform models.PlatformType, platformID, phone, language string) (*models.User, bool, error)
}

type userService struct {
	repo   UserRepository
	logger *logrus.Logger
}

func NewUserService(repo UserRepository, logger *logrus.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "user",
			"method":  "GetUser",
			"user_id": id,
		}).WithError(err).Warn("Failed to get user in repository")
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	return user, nil
}

func (s *userService) GetByPlatform(ctx context.Context, platform models.PlatformType, platformID string) (*models.User, error) {
	user, err := s.repo.GetByPlatformID(ctx, platform, platformID)
	if err != nil {
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, platform models.PlatformType, skip, limit int) ([]*models.User, error) {
	if platform != "" && !platform.Valid() {
		return nil, fmt.Errorf("service: invalid platform %q: %w", platform, models.ErrInvalidInput)
	}
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	users, err := s.repo.List(ctx, platform, skip, limit)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "user",
			"method":  "ListUsers",
		}).WithError(err).Error("Failed to list users from repository")
		return nil, fmt.Errorf("service: could not list users: %w", err)
	}
	return users, nil
}

// UpdateUser меняет язык, координаты и параметры подписки
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, update models.UserUpdate) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "UpdateUser",
		"user_id": id,
	})
	log.Info("Attempting to update user")

	if (update.Latitude == nil) != (update.Longitude == nil) {
		return nil, fmt.Errorf("service: latitude and longitude must be set together: %w", models.ErrInvalidInput)
	}
	if update.Latitude != nil && !geo.ValidCoordinates(*update.Latitude, *update.Longitude) {
		return nil, fmt.Errorf("service: invalid coordinates: %w", models.ErrInvalidInput)
	}
	if update.AlertRadiusKM != nil && (*update.AlertRadiusKM < models.MinAlertRadiusKM || *update.AlertRadiusKM > models.MaxAlertRadiusKM) {
		return nil, fmt.Errorf("service: alert radius must be between %d and %d km: %w", models.MinAlertRadiusKM, models.MaxAlertRadiusKM, models.ErrInvalidInput)
	}
	if update.LanguageCode != nil {
		lang := strings.TrimSpace(*update.LanguageCode)
		if lang == "" {
			return nil, fmt.Errorf("service: language code must not be empty: %w", models.ErrInvalidInput)
		}
		update.LanguageCode = &lang
	}

	user, err := s.repo.Update(ctx, id, update)
	if err != nil {
		log.WithError(err).Warn("Failed to update user in repository")
		return nil, fmt.Errorf("service: could not update user: %w", err)
	}

	log.Info("User updated successfully")
	return user, nil
}

// AdjustCredibility меняет рейтинг доверия, результат ограничен 0..200
func (s *userService) AdjustCredibility(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	score, err := s.repo.AdjustCredibility(ctx, id, delta)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "user",
			"method":  "AdjustCredibility",
			"user_id": id,
		}).WithError(err).Warn("Failed to adjust credibility")
		return 0, fmt.Errorf("service: could not adjust credibility: %w", err)
	}
	return score, nil
}

// GetOrCreateByPlatform находит жителя по идентификатору в мессенджере или регистрирует нового.
// Второе значение true, если пользователь создан.
func (s *userService) GetOrCreateByPlatform(ctx context.Context, platform models.PlatformType, platformID, phone, language string) (*models.User, bool, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "user",
		"method":      "GetOrCreateByPlatform",
		"platform":    platform,
		"platform_id": platformID,
	})

	if !platform.Valid() || platformID == "" {
		return nil, false, fmt.Errorf("service: platform and platform id are required: %w", models.ErrInvalidInput)
	}

	user, err := s.repo.GetByPlatformID(ctx, platform, platformID)
	if err == nil {
		if err := s.repo.Touch(ctx, user.ID); err != nil {
			log.WithError(err).Warn("Failed to update last activity")
		}
		return user, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		log.WithError(err).Error("Failed to get user by platform id")
		return nil, false, fmt.Errorf("service: could not get user: %w", err)
	}

	if phone == "" {
		phone = "platform_" + platformID
	}
	if language == "" {
		language = "en"
	}
	user = &models.User{
		PhoneNumber:      phone,
		Platform:         platform,
		PlatformID:       platformID,
		LanguageCode:     language,
		AlertSubscribed:  true,
		AlertRadiusKM:    5,
		CredibilityScore: models.DefaultCredibility,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		log.WithError(err).Error("Failed to create user in repository")
		return nil, false, fmt.Errorf("service: could not create user: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered from messenger")
	return user, true, nil
}
