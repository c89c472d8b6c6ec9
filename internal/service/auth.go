package service

//go:generate mockgen -source=auth.go -destination=mocks/auth_mock.go -package=mocks

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/flood_watch/internal/auth"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	verificationCodeTTL     = 5 * time.Minute
	maxVerificationAttempts = 3
	resendCooldown          = 60 * time.Second
	minPasswordLength       = 8
)

// AdminRepository определяет контракт для работы с бд сотрудников и кодов подтверждения
type AdminRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	List(ctx context.Context) ([]*models.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	CreateVerificationCode(ctx context.Context, code *models.EmailVerificationCode) error
	LatestActiveCode(ctx context.Context, adminID uuid.UUID, now time.Time) (*models.EmailVerificationCode, error)
	IncrementCodeAttempts(ctx context.Context, codeID uuid.UUID) (int, error)
	MarkCodeVerified(ctx context.Context, codeID uuid.UUID, at time.Time) error
	DeleteExpiredCodes(ctx context.Context, before time.Time) (int64, error)
}

// Mailer отправка писем сотрудникам
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// AuthService регистрация и вход сотрудников служб реагирования
type AuthService interface {
	Register(ctx context.Context, admin *models.AdminUser, password string) error
	Login(ctx context.Context, username, password string) (*models.Token, error)
	Authenticate(ctx context.Context, token string) (*models.AdminUser, error)
	VerifyEmail(ctx context.Context, adminID uuid.UUID, code string) error
	ResendVerification(ctx context.Context, adminID uuid.UUID) error
	ListAdmins(ctx context.Context) ([]*models.AdminUser, error)
	CleanupExpiredCodes(ctx context.Context) (int64, error)
}

type authService struct {
	repo   AdminRepository
	jwt    *auth.JWTManager
	mailer Mailer
	logger *logrus.Logger
	clock  clockwork.Clock
}

func NewAuthService(repo AdminRepository, jwt *auth.JWTManager, mailer Mailer, logger *logrus.Logger, clock clockwork.Clock) AuthService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &authService{
		repo:   repo,
		jwt:    jwt,
		mailer: mailer,
		logger: logger,
		clock:  clock,
	}
}

// Register создает учетную запись сотрудника и отправляет код подтверждения почты.
// Сбой отправки письма не отменяет регистрацию.
func (s *authService) Register(ctx context.Context, admin *models.AdminUser, password string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "auth",
		"method":   "Register",
		"username": admin.Username,
	})
	log.Info("Registering admin user")

	admin.Username = strings.TrimSpace(admin.Username)
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	if admin.Username == "" || admin.Email == "" {
		return fmt.Errorf("service: username and email are required: %w", models.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("service: password must be at least %d characters: %w", minPasswordLength, models.ErrInvalidInput)
	}
	if admin.Role == "" {
		admin.Role = models.RoleViewer
	}
	if !admin.Role.Valid() {
		return fmt.Errorf("service: invalid role %q: %w", admin.Role, models.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service: could not hash password: %w", err)
	}
	admin.PasswordHash = string(hash)
	admin.EmailVerified = false

	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			log.Warn("Username or email already registered")
		} else {
			log.WithError(err).Error("Failed to create admin user")
		}
		return fmt.Errorf("service: could not register admin: %w", err)
	}

	if err := s.issueCode(ctx, log, admin); err != nil {
		log.WithError(err).Error("Failed to issue verification code")
	}

	log.WithField("admin_id", admin.ID).Info("Admin user registered")
	return nil
}

// Login проверяет пароль и выдает токен доступа
func (s *authService) Login(ctx context.Context, username, password string) (*models.Token, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "auth",
		"method":   "Login",
		"username": username,
	})

	admin, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("Login attempt for unknown user")
			return nil, fmt.Errorf("service: incorrect username or password: %w", models.ErrUnauthorized)
		}
		log.WithError(err).Error("Failed to get admin user")
		return nil, fmt.Errorf("service: could not get admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		log.Warn("Login attempt with wrong password")
		return nil, fmt.Errorf("service: incorrect username or password: %w", models.ErrUnauthorized)
	}

	if err := s.repo.UpdateLastLogin(ctx, admin.ID, s.clock.Now()); err != nil {
		log.WithError(err).Warn("Failed to update last login")
	}

	token, expiresAt, err := s.jwt.GenerateToken(admin.ID, admin.Username, string(admin.Role))
	if err != nil {
		log.WithError(err).Error("Failed to generate token")
		return nil, fmt.Errorf("service: could not generate token: %w", err)
	}

	log.Info("Admin logged in")
	return &models.Token{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt}, nil
}

// Authenticate возвращает сотрудника по действующему токену
func (s *authService) Authenticate(ctx context.Context, token string) (*models.AdminUser, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("service: could not validate credentials: %w", models.ErrUnauthorized)
	}

	admin, err := s.repo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("service: user not found: %w", models.ErrUnauthorized)
		}
		return nil, fmt.Errorf("service: could not get admin: %w", err)
	}
	return admin, nil
}

// VerifyEmail проверяет код из письма
func (s *authService) VerifyEmail(ctx context.Context, adminID uuid.UUID, code string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "auth",
		"method":   "VerifyEmail",
		"admin_id": adminID,
	})

	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return fmt.Errorf("service: could not get admin: %w", err)
	}
	if admin.EmailVerified {
		return fmt.Errorf("service: email already verified: %w", models.ErrConflict)
	}

	record, err := s.repo.LatestActiveCode(ctx, adminID, s.clock.Now())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("No valid verification code")
			return fmt.Errorf("service: no valid verification code, request a new one: %w", models.ErrCodeExpired)
		}
		return fmt.Errorf("service: could not get verification code: %w", err)
	}
	if record.Attempts >= maxVerificationAttempts {
		log.Warn("Too many verification attempts")
		return fmt.Errorf("service: too many failed attempts, request a new code: %w", models.ErrTooManyAttempts)
	}

	attempts, err := s.repo.IncrementCodeAttempts(ctx, record.ID)
	if err != nil {
		return fmt.Errorf("service: could not record attempt: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		remaining := maxVerificationAttempts - attempts
		log.WithField("attempts_remaining", remaining).Warn("Incorrect verification code")
		if remaining <= 0 {
			return fmt.Errorf("service: incorrect code, maximum attempts reached: %w", models.ErrTooManyAttempts)
		}
		return fmt.Errorf("service: incorrect code, %d attempts remaining: %w", remaining, models.ErrInvalidInput)
	}

	if err := s.repo.MarkCodeVerified(ctx, record.ID, s.clock.Now()); err != nil {
		return fmt.Errorf("service: could not mark code verified: %w", err)
	}
	if err := s.repo.MarkEmailVerified(ctx, adminID); err != nil {
		return fmt.Errorf("service: could not mark email verified: %w", err)
	}

	body := fmt.Sprintf("Hello %s,\n\nYour Flood Watch account is now active.\n", admin.Username)
	if err := s.mailer.Send(ctx, admin.Email, "Welcome to Flood Watch", body); err != nil {
		log.WithError(err).Warn("Failed to send welcome email")
	}

	log.Info("Email verified")
	return nil
}

// ResendVerification выдает новый код не чаще раза в минуту
func (s *authService) ResendVerification(ctx context.Context, adminID uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "auth",
		"method":   "ResendVerification",
		"admin_id": adminID,
	})

	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return fmt.Errorf("service: could not get admin: %w", err)
	}
	if admin.EmailVerified {
		return fmt.Errorf("service: email already verified: %w", models.ErrConflict)
	}

	return s.issueCode(ctx, log, admin)
}

func (s *authService) issueCode(ctx context.Context, log *logrus.Entry, admin *models.AdminUser) error {
	now := s.clock.Now()

	recent, err := s.repo.LatestActiveCode(ctx, admin.ID, now)
	switch {
	case err == nil:
		if elapsed := now.Sub(recent.CreatedAt); elapsed < resendCooldown {
			wait := int((resendCooldown - elapsed).Seconds())
			return fmt.Errorf("service: please wait %d seconds before requesting a new code: %w", wait, models.ErrCooldown)
		}
	case !errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("service: could not get verification code: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("service: could not generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service: could not hash code: %w", err)
	}

	record := &models.EmailVerificationCode{
		AdminUserID: admin.ID,
		CodeHash:    string(hash),
		CreatedAt:   now,
		ExpiresAt:   now.Add(verificationCodeTTL),
	}
	if err := s.repo.CreateVerificationCode(ctx, record); err != nil {
		return fmt.Errorf("service: could not store verification code: %w", err)
	}

	body := fmt.Sprintf("Your Flood Watch verification code is %s.\n\nIt expires in %d minutes.\n", code, int(verificationCodeTTL.Minutes()))
	if err := s.mailer.Send(ctx, admin.Email, "Flood Watch email verification", body); err != nil {
		// код уже сохранен, письмо можно запросить повторно
		log.WithError(err).Error("Failed to send verification email")
		return nil
	}

	log.Info("Verification code sent")
	return nil
}

func (s *authService) ListAdmins(ctx context.Context) ([]*models.AdminUser, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list admins: %w", err)
	}
	return admins, nil
}

// CleanupExpiredCodes удаляет просроченные коды подтверждения
func (s *authService) CleanupExpiredCodes(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredCodes(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("service: could not delete expired codes: %w", err)
	}
	if n > 0 {
		s.logger.WithField("deleted", n).Info("Expired verification codes removed")
	}
	return n, nil
}

// generateCode шестизначный код из криптографического генератора
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
