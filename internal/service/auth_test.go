package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/flood_watch/internal/auth"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

var codePattern = regexp.MustCompile(`code is (\d{6})`)

func newTestAuthService(t *testing.T) (*authService, *mocks.MockAdminRepository, *mocks.MockMailer, *clockwork.FakeClock) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockAdminRepository(ctrl)
	mailerMock := mocks.NewMockMailer(ctrl)
	clock := clockwork.NewFakeClockAt(testNow)

	jwt, err := auth.NewJWTManager("test-secret", time.Hour, clock)
	require.NoError(t, err)

	service := NewAuthService(repoMock, jwt, mailerMock, newTestLogger(), clock).(*authService)
	return service, repoMock, mailerMock, clock
}

func hashed(t *testing.T, s string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister_SendsVerificationCode(t *testing.T) {
	// Подготовка
	service, repoMock, mailerMock, _ := newTestAuthService(t)
	ctx := context.Background()
	admin := &models.AdminUser{Username: "dispatcher", Email: " Dispatch@Example.org "}
	var stored *models.EmailVerificationCode
	var mailed string

	// Ожидания
	repoMock.EXPECT().Create(ctx, admin).
		DoAndReturn(func(ctx context.Context, a *models.AdminUser) error {
			assert.Equal(t, "dispatch@example.org", a.Email)
			assert.Equal(t, models.RoleViewer, a.Role)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("s3cret-pass")))
			a.ID = uuid.New()
			return nil
		}).Times(1)
	repoMock.EXPECT().LatestActiveCode(ctx, gomock.Any(), testNow).Return(nil, models.ErrNotFound).Times(1)
	repoMock.EXPECT().CreateVerificationCode(ctx, gomock.Any()).
		Do(func(ctx context.Context, c *models.EmailVerificationCode) {
			stored = c
		}).Return(nil).Times(1)
	mailerMock.EXPECT().Send(ctx, "dispatch@example.org", gomock.Any(), gomock.Any()).
		Do(func(ctx context.Context, to, subject, body string) {
			mailed = body
		}).Return(nil).Times(1)

	// Действие
	err := service.Register(ctx, admin, "s3cret-pass")

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, testNow.Add(5*time.Minute), stored.ExpiresAt)
	match := codePattern.FindStringSubmatch(mailed)
	require.Len(t, match, 2)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.CodeHash), []byte(match[1])))
}

func TestRegister_Duplicate(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(models.ErrAlreadyExists).Times(1)

	// Действие
	err := service.Register(ctx, &models.AdminUser{Username: "a", Email: "a@b.c"}, "password123")

	// Проверки
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)

	testCases := []struct {
		name     string
		admin    *models.AdminUser
		password string
	}{
		{"missing email", &models.AdminUser{Username: "a"}, "password123"},
		{"short password", &models.AdminUser{Username: "a", Email: "a@b.c"}, "short"},
		{"unknown role", &models.AdminUser{Username: "a", Email: "a@b.c", Role: "root"}, "password123"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.Register(context.Background(), tc.admin, tc.password)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestAuthService(t)
	ctx := context.Background()
	admin := &models.AdminUser{ID: uuid.New(), Username: "ops", Role: models.RoleResponder, PasswordHash: hashed(t, "password123")}

	// Ожидания
	repoMock.EXPECT().GetByUsername(ctx, "ops").Return(admin, nil).Times(2)
	repoMock.EXPECT().UpdateLastLogin(ctx, admin.ID, testNow).Return(nil).Times(1)

	// Действие
	token, err := service.Login(ctx, "ops", "password123")
	require.NoError(t, err)
	authenticated, authErr := service.Authenticate(ctx, token.AccessToken)

	// Проверки
	assert.Equal(t, "bearer", token.TokenType)
	assert.Equal(t, testNow.Add(time.Hour), token.ExpiresAt)
	require.NoError(t, authErr)
	assert.Equal(t, admin.ID, authenticated.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestAuthService(t)
	ctx := context.Background()
	admin := &models.AdminUser{ID: uuid.New(), Username: "ops", PasswordHash: hashed(t, "password123")}

	// Ожидания
	repoMock.EXPECT().GetByUsername(ctx, "ops").Return(admin, nil).Times(1)
	repoMock.EXPECT().UpdateLastLogin(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := service.Login(ctx, "ops", "nope")

	// Проверки
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().GetByUsername(ctx, "ghost").Return(nil, models.ErrNotFound).Times(1)

	// Действие
	_, err := service.Login(ctx, "ghost", "password123")

	// Проверки
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)

	_, err := service.Authenticate(context.Background(), "not-a-token")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestVerifyEmail_Success(t *testing.T) {
	// Подготовка
	service, repoMock, mailerMock, _ := newTestAuthService(t)
	ctx := context.Background()
	admin := &models.AdminUser{ID: uuid.New(), Username: "ops", Email: "ops@example.org"}
	code := &models.EmailVerificationCode{ID: uuid.New(), AdminUserID: admin.ID, CodeHash: hashed(t, "123456")}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, admin.ID).Return(admin, nil).Times(1)
	repoMock.EXPECT().LatestActiveCode(ctx, admin.ID, testNow).Return(code, nil).Times(1)
	repoMock.EXPECT().IncrementCodeAttempts(ctx, code.ID).Return(1, nil).Times(1)
	repoMock.EXPECT().MarkCodeVerified(ctx, code.ID, testNow).Return(nil).Times(1)
	repoMock.EXPECT().MarkEmailVerified(ctx, admin.ID).Return(nil).Times(1)
	mailerMock.EXPECT().Send(ctx, "ops@example.org", "Welcome to Flood Watch", gomock.Any()).Return(nil).Times(1)

	// Действие
	err := service.VerifyEmail(ctx, admin.ID, " 123456 ")

	// Проверки
	require.NoError(t, err)
}

func TestVerifyEmail_WrongCode(t *testing.T) {
	testCases := []struct {
		name     string
		attempts int
		wantErr  error
		wantText string
	}{
		{"attempts remaining", 1, models.ErrInvalidInput, "2 attempts remaining"},
		{"last attempt", 3, models.ErrTooManyAttempts, "maximum attempts reached"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Подготовка
			service, repoMock, _, _ := newTestAuthService(t)
			ctx := context.Background()
			admin := &models.AdminUser{ID: uuid.New()}
			code := &models.EmailVerificationCode{ID: uuid.New(), CodeHash: hashed(t, "123456"), Attempts: tc.attempts - 1}

			// Ожидания
			repoMock.EXPECT().GetByID(ctx, admin.ID).Return(admin, nil).Times(1)
			repoMock.EXPECT().LatestActiveCode(ctx, admin.ID, gomock.Any()).Return(code, nil).Times(1)
			repoMock.EXPECT().IncrementCodeAttempts(ctx, code.ID).Return(tc.attempts, nil).Times(1)
			repoMock.EXPECT().MarkEmailVerified(gomock.Any(), gomock.Any()).Times(0)

			// Действие
			err := service.VerifyEmail(ctx, admin.ID, "654321")

			// Проверки
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorContains(t, err, tc.wantText)
		})
	}
}

func TestVerifyEmail_TooManyAttempts(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestAuthService(t)
	ctx := context.Background()
	admin := &models.AdminUser{ID: uuid.New()}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, admin.ID).Return(admin, nil).Times(1)
	repoMock.EXPECT().LatestActiveCode(ctx, admin.ID, gomock.Any()).
		Return(&models.EmailVerificationCode{ID: uuid.New(), Attempts: 3}, nil).Times(1)
	repoMock.EXPECT().IncrementCodeAttempts(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.VerifyEmail(ctx, admin.ID, "123456")

	// Проверки
	assert.ErrorIs(t, err, models.ErrTooManyAttempts)
}

func TestVerifyEmail_Expired(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestAuthService(t)
	ctx := context.Background()
	admin := &models.AdminUser{ID: uuid.New()}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, admin.ID).Return(admin, nil).Times(1)
	repoMock.EXPECT().LatestActiveCode(ctx, admin.ID, gomock.Any()).Return(nil, models.ErrNotFound).Times(1)

	// Действие
	err := service.VerifyEmail(ctx, admin.ID, "123456")

	// Проверки
	assert.ErrorIs(t, err, models.ErrCodeExpired)
}

func TestVerifyEmail_AlreadyVerified(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestAuthService(t)
	ctx := context.Background()
	admin := &models.AdminUser{ID: uuid.New(), EmailVerified: true}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, admin.ID).Return(admin, nil).Times(1)

	// Действие
	err := service.VerifyEmail(ctx, admin.ID, "123456")

	// Проверки
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestResendVerification_Cooldown(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestAuthService(t)
	ctx := context.Background()
	admin := &models.AdminUser{ID: uuid.New(), Email: "ops@example.org"}
	recent := &models.EmailVerificationCode{ID: uuid.New(), CreatedAt: testNow.Add(-20 * time.Second)}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, admin.ID).Return(admin, nil).Times(1)
	repoMock.EXPECT().LatestActiveCode(ctx, admin.ID, testNow).Return(recent, nil).Times(1)
	repoMock.EXPECT().CreateVerificationCode(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.ResendVerification(ctx, admin.ID)

	// Проверки
	assert.ErrorIs(t, err, models.ErrCooldown)
	assert.ErrorContains(t, err, "wait 40 seconds")
}

func TestResendVerification_MailFailureIsNotFatal(t *testing.T) {
	// Подготовка
	service, repoMock, mailerMock, clock := newTestAuthService(t)
	ctx := context.Background()
	admin := &models.AdminUser{ID: uuid.New(), Email: "ops@example.org"}
	old := &models.EmailVerificationCode{ID: uuid.New(), CreatedAt: testNow}
	clock.Advance(2 * time.Minute)

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, admin.ID).Return(admin, nil).Times(1)
	repoMock.EXPECT().LatestActiveCode(ctx, admin.ID, gomock.Any()).Return(old, nil).Times(1)
	repoMock.EXPECT().CreateVerificationCode(ctx, gomock.Any()).Return(nil).Times(1)
	mailerMock.EXPECT().Send(ctx, admin.Email, gomock.Any(), gomock.Any()).Return(fmt.Errorf("smtp down")).Times(1)

	// Действие
	err := service.ResendVerification(ctx, admin.ID)

	// Проверки
	require.NoError(t, err)
}

func TestCleanupExpiredCodes(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().DeleteExpiredCodes(ctx, testNow).Return(int64(4), nil).Times(1)

	// Действие
	n, err := service.CleanupExpiredCodes(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}
