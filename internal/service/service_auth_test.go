package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gsdportal/reserva-api/internal/config"
	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/store"
	"github.com/gsdportal/reserva-api/internal/utils"
	"github.com/gsdportal/reserva-api/internal/validators"
	"github.com/gsdportal/reserva-api/models"
)

func testAuthConfig() config.App {
	return config.App{
		TokenSignKey:      "test-sign-key",
		TokenIssuer:       "reserva-test",
		TokenDuration:     time.Hour,
		HashKey:           "test-hash-key",
		CaptchaTTL:        5 * time.Minute,
		OTPTTL:            5 * time.Minute,
		OTPResendCooldown: 180 * time.Second,
		OTPMaxAttempts:    3,
	}
}

func newTestAuthService(users *mockUserRepository, challenges *mockChallengeRepository, mailer *mockOTPMailer) AuthService {
	return NewAuthService(users, challenges, mailer, testAuthConfig(), logger.Nop())
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// storedCaptcha issues a captcha through the service and returns both the
// plaintext challenge handed to the caller and the hashed row that was
// persisted.
func storedCaptcha(t *testing.T, svc AuthService, challenges *mockChallengeRepository) (models.CaptchaChallenge, models.CaptchaChallenge) {
	t.Helper()

	var persisted models.CaptchaChallenge
	challenges.createCaptchaFn = func(_ context.Context, c models.CaptchaChallenge) error {
		persisted = c
		return nil
	}

	issued, err := svc.FetchCaptcha(context.Background())
	require.NoError(t, err)
	return issued, persisted
}

func TestFetchCaptcha_StoresHashNotAnswer(t *testing.T) {
	challenges := &mockChallengeRepository{}
	svc := newTestAuthService(&mockUserRepository{}, challenges, &mockOTPMailer{})

	issued, persisted := storedCaptcha(t, svc, challenges)

	require.Len(t, issued.Text, captchaLength)
	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, issued.ID, persisted.ID)
	assert.NotEqual(t, issued.Text, persisted.Text)
	assert.Equal(t, utils.HashString(issued.Text, "test-hash-key"), persisted.Text)
}

func TestLogin_StaleCaptchaFails(t *testing.T) {
	challenges := &mockChallengeRepository{
		consumeCaptchaFn: func(_ context.Context, _ string) (models.CaptchaChallenge, error) {
			return models.CaptchaChallenge{}, store.ErrChallengeNotFound
		},
	}
	svc := newTestAuthService(&mockUserRepository{}, challenges, &mockOTPMailer{})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		SchoolID:      "2021-00042-MN",
		Password:      "Secret1!",
		CaptchaID:     "gone",
		CaptchaAnswer: "ABC234",
	})
	assert.ErrorIs(t, err, ErrCaptchaFailed)
}

func TestLogin_WrongCaptchaAnswerConsumesChallenge(t *testing.T) {
	consumed := 0
	challenges := &mockChallengeRepository{
		consumeCaptchaFn: func(_ context.Context, _ string) (models.CaptchaChallenge, error) {
			consumed++
			return models.CaptchaChallenge{
				ID:   "captcha-1",
				Text: utils.HashString("RIGHT1", "test-hash-key"),
			}, nil
		},
	}
	svc := newTestAuthService(&mockUserRepository{}, challenges, &mockOTPMailer{})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		SchoolID:      "2021-00042-MN",
		Password:      "Secret1!",
		CaptchaID:     "captcha-1",
		CaptchaAnswer: "WRONG2",
	})
	assert.ErrorIs(t, err, ErrCaptchaFailed)
	assert.Equal(t, 1, consumed)
}

func loginChallenges(answer string) *mockChallengeRepository {
	return &mockChallengeRepository{
		consumeCaptchaFn: func(_ context.Context, _ string) (models.CaptchaChallenge, error) {
			return models.CaptchaChallenge{
				ID:   "captcha-1",
				Text: utils.HashString(answer, "test-hash-key"),
			}, nil
		},
	}
}

func loginRequest() models.LoginRequest {
	return models.LoginRequest{
		SchoolID:      "2021-00042-MN",
		Password:      "Secret1!",
		CaptchaID:     "captcha-1",
		CaptchaAnswer: "ABC234",
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	users := &mockUserRepository{
		findBySchoolIDFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{UserID: 7, PasswordHash: mustHash(t, "other"), IsActive: true}, nil
		},
	}
	svc := newTestAuthService(users, loginChallenges("ABC234"), &mockOTPMailer{})

	_, err := svc.Login(context.Background(), loginRequest())
	assert.ErrorIs(t, err, ErrWrongCredentials)
}

func TestLogin_UnknownAccount(t *testing.T) {
	users := &mockUserRepository{
		findBySchoolIDFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{}, store.ErrNoUserWasFound
		},
	}
	svc := newTestAuthService(users, loginChallenges("ABC234"), &mockOTPMailer{})

	_, err := svc.Login(context.Background(), loginRequest())
	assert.ErrorIs(t, err, ErrWrongCredentials)
}

func TestLogin_ArchivedAccount(t *testing.T) {
	users := &mockUserRepository{
		findBySchoolIDFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{UserID: 7, PasswordHash: mustHash(t, "Secret1!"), IsActive: false}, nil
		},
	}
	svc := newTestAuthService(users, loginChallenges("ABC234"), &mockOTPMailer{})

	_, err := svc.Login(context.Background(), loginRequest())
	assert.ErrorIs(t, err, ErrAccountArchived)
}

func TestLogin_FirstLoginForcesPasswordChange(t *testing.T) {
	users := &mockUserRepository{
		findBySchoolIDFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{UserID: 7, PasswordHash: mustHash(t, "Secret1!"), IsActive: true, FirstLogin: true}, nil
		},
	}
	svc := newTestAuthService(users, loginChallenges("ABC234"), &mockOTPMailer{})

	result, err := svc.Login(context.Background(), loginRequest())
	require.NoError(t, err)
	assert.Equal(t, models.NextPasswordChange, result.Next)
	assert.Equal(t, int64(7), result.UserID)
	assert.Empty(t, result.Token)
}

func TestLogin_OTPEnabledMailsCode(t *testing.T) {
	users := &mockUserRepository{
		findBySchoolIDFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{
				UserID:       7,
				Email:        "maria@campus.edu",
				PasswordHash: mustHash(t, "Secret1!"),
				IsActive:     true,
				OTPEnabled:   true,
			}, nil
		},
	}
	challenges := loginChallenges("ABC234")
	var persisted models.OTPChallenge
	challenges.createOTPFn = func(_ context.Context, c models.OTPChallenge) error {
		persisted = c
		return nil
	}
	mailer := &mockOTPMailer{}
	svc := newTestAuthService(users, challenges, mailer)

	result, err := svc.Login(context.Background(), loginRequest())
	require.NoError(t, err)
	assert.Equal(t, models.NextOTP, result.Next)
	assert.Empty(t, result.Token)

	require.Len(t, mailer.sent, 1)
	code := mailer.sent[0]
	require.Len(t, code, otpDigits)

	// Only the digest hits storage.
	assert.NotEqual(t, code, persisted.CodeHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(persisted.CodeHash), []byte(code)))
}

func TestLogin_PlainAccountOpensSession(t *testing.T) {
	users := &mockUserRepository{
		findBySchoolIDFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{
				UserID:       7,
				SchoolID:     "2021-00042-MN",
				RoleID:       models.RoleAdmin,
				PasswordHash: mustHash(t, "Secret1!"),
				IsActive:     true,
			}, nil
		},
	}
	svc := newTestAuthService(users, loginChallenges("ABC234"), &mockOTPMailer{})

	result, err := svc.Login(context.Background(), loginRequest())
	require.NoError(t, err)
	assert.Equal(t, models.NextSession, result.Next)
	assert.Equal(t, "/admin/dashboard", result.LandingRoute)
	require.NotEmpty(t, result.Token)

	token, err := svc.ParseToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), token.UserID)
	assert.Equal(t, models.RoleAdmin, token.Role)
}

func TestSendLoginOTP_CooldownBlocksResend(t *testing.T) {
	users := &mockUserRepository{
		findByIDFn: func(_ context.Context, _ int64) (models.User, error) {
			return models.User{UserID: 7, Email: "maria@campus.edu", IsActive: true, OTPEnabled: true}, nil
		},
	}
	challenges := &mockChallengeRepository{
		activeOTPFn: func(_ context.Context, _ int64) (models.OTPChallenge, error) {
			return models.OTPChallenge{ID: "otp-1", LastSentAt: time.Now().Add(-30 * time.Second)}, nil
		},
	}
	svc := newTestAuthService(users, challenges, &mockOTPMailer{})

	err := svc.SendLoginOTP(context.Background(), 7)
	assert.ErrorIs(t, err, ErrOTPCooldown)
}

func TestSendLoginOTP_RetiresOldChallenge(t *testing.T) {
	users := &mockUserRepository{
		findByIDFn: func(_ context.Context, _ int64) (models.User, error) {
			return models.User{UserID: 7, Email: "maria@campus.edu", IsActive: true, OTPEnabled: true}, nil
		},
	}
	var retired []string
	challenges := &mockChallengeRepository{
		activeOTPFn: func(_ context.Context, _ int64) (models.OTPChallenge, error) {
			return models.OTPChallenge{ID: "otp-old", LastSentAt: time.Now().Add(-5 * time.Minute)}, nil
		},
		consumeOTPFn: func(_ context.Context, id string) error {
			retired = append(retired, id)
			return nil
		},
	}
	mailer := &mockOTPMailer{}
	svc := newTestAuthService(users, challenges, mailer)

	err := svc.SendLoginOTP(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"otp-old"}, retired)
	assert.Len(t, mailer.sent, 1)
}

func TestValidateLoginOTP_WrongCodeBurnsAttempt(t *testing.T) {
	challenges := &mockChallengeRepository{
		activeOTPFn: func(_ context.Context, _ int64) (models.OTPChallenge, error) {
			return models.OTPChallenge{ID: "otp-1", UserID: 7, CodeHash: mustHash(t, "123456")}, nil
		},
		registerFn: func(_ context.Context, _ string) (int, error) {
			return 1, nil
		},
	}
	svc := newTestAuthService(&mockUserRepository{}, challenges, &mockOTPMailer{})

	_, err := svc.ValidateLoginOTP(context.Background(), models.ValidateOTPRequest{UserID: 7, Code: "999999"})
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestValidateLoginOTP_AttemptBudgetExhausts(t *testing.T) {
	retired := false
	challenges := &mockChallengeRepository{
		activeOTPFn: func(_ context.Context, _ int64) (models.OTPChallenge, error) {
			return models.OTPChallenge{ID: "otp-1", UserID: 7, CodeHash: mustHash(t, "123456"), Attempts: 2}, nil
		},
		registerFn: func(_ context.Context, _ string) (int, error) {
			return 3, nil
		},
		consumeOTPFn: func(_ context.Context, _ string) error {
			retired = true
			return nil
		},
	}
	svc := newTestAuthService(&mockUserRepository{}, challenges, &mockOTPMailer{})

	_, err := svc.ValidateLoginOTP(context.Background(), models.ValidateOTPRequest{UserID: 7, Code: "999999"})
	assert.ErrorIs(t, err, ErrOTPAttemptsExceeded)
	assert.True(t, retired)
}

func TestValidateLoginOTP_CorrectCodeOpensSession(t *testing.T) {
	users := &mockUserRepository{
		findByIDFn: func(_ context.Context, _ int64) (models.User, error) {
			return models.User{UserID: 7, RoleID: models.RoleDean, IsActive: true}, nil
		},
	}
	consumed := false
	challenges := &mockChallengeRepository{
		activeOTPFn: func(_ context.Context, _ int64) (models.OTPChallenge, error) {
			return models.OTPChallenge{ID: "otp-1", UserID: 7, CodeHash: mustHash(t, "123456")}, nil
		},
		consumeOTPFn: func(_ context.Context, _ string) error {
			consumed = true
			return nil
		},
	}
	svc := newTestAuthService(users, challenges, &mockOTPMailer{})

	result, err := svc.ValidateLoginOTP(context.Background(), models.ValidateOTPRequest{UserID: 7, Code: "123456"})
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Equal(t, models.NextSession, result.Next)
	assert.Equal(t, "/dean/dashboard", result.LandingRoute)
	assert.NotEmpty(t, result.Token)
}

func TestValidateLoginOTP_PendingPasswordChangeBlocksSession(t *testing.T) {
	users := &mockUserRepository{
		findByIDFn: func(_ context.Context, _ int64) (models.User, error) {
			return models.User{UserID: 7, RoleID: models.RoleDean, FirstLogin: true, IsActive: true}, nil
		},
	}
	challenges := &mockChallengeRepository{
		activeOTPFn: func(_ context.Context, _ int64) (models.OTPChallenge, error) {
			return models.OTPChallenge{ID: "otp-1", UserID: 7, CodeHash: mustHash(t, "123456")}, nil
		},
		consumeOTPFn: func(_ context.Context, _ string) error {
			return nil
		},
	}
	svc := newTestAuthService(users, challenges, &mockOTPMailer{})

	result, err := svc.ValidateLoginOTP(context.Background(), models.ValidateOTPRequest{UserID: 7, Code: "123456"})
	require.NoError(t, err)
	assert.Equal(t, models.NextPasswordChange, result.Next)
	assert.Equal(t, int64(7), result.UserID)
	assert.Empty(t, result.Token, "no session may be issued while a password change is pending")
}

func TestValidateLoginOTP_NoActiveChallenge(t *testing.T) {
	challenges := &mockChallengeRepository{
		activeOTPFn: func(_ context.Context, _ int64) (models.OTPChallenge, error) {
			return models.OTPChallenge{}, store.ErrChallengeNotFound
		},
	}
	svc := newTestAuthService(&mockUserRepository{}, challenges, &mockOTPMailer{})

	_, err := svc.ValidateLoginOTP(context.Background(), models.ValidateOTPRequest{UserID: 7, Code: "123456"})
	assert.ErrorIs(t, err, ErrOTPNotRequested)
}

func TestUpdatePassword_WrongCurrent(t *testing.T) {
	users := &mockUserRepository{
		findByIDFn: func(_ context.Context, _ int64) (models.User, error) {
			return models.User{UserID: 7, PasswordHash: mustHash(t, "Current1!")}, nil
		},
	}
	svc := newTestAuthService(users, &mockChallengeRepository{}, &mockOTPMailer{})

	err := svc.UpdatePassword(context.Background(), models.UpdatePasswordRequest{
		UserID:          7,
		CurrentPassword: "nope",
		NewPassword:     "FreshPass1!",
	})
	assert.ErrorIs(t, err, ErrWrongCredentials)
}

func TestUpdatePassword_PolicyViolation(t *testing.T) {
	users := &mockUserRepository{
		findByIDFn: func(_ context.Context, _ int64) (models.User, error) {
			return models.User{UserID: 7, PasswordHash: mustHash(t, "Current1!")}, nil
		},
	}
	svc := newTestAuthService(users, &mockChallengeRepository{}, &mockOTPMailer{})

	err := svc.UpdatePassword(context.Background(), models.UpdatePasswordRequest{
		UserID:          7,
		CurrentPassword: "Current1!",
		NewPassword:     "NoDigits!",
	})
	assert.ErrorIs(t, err, validators.ErrPasswordNoDigit)
}

func TestUpdatePassword_MustDiffer(t *testing.T) {
	users := &mockUserRepository{
		findByIDFn: func(_ context.Context, _ int64) (models.User, error) {
			return models.User{UserID: 7, PasswordHash: mustHash(t, "Current1!")}, nil
		},
	}
	svc := newTestAuthService(users, &mockChallengeRepository{}, &mockOTPMailer{})

	err := svc.UpdatePassword(context.Background(), models.UpdatePasswordRequest{
		UserID:          7,
		CurrentPassword: "Current1!",
		NewPassword:     "Current1!",
	})
	assert.ErrorIs(t, err, ErrPasswordSameAsCurrent)
}

func TestUpdatePassword_Success(t *testing.T) {
	var storedHash string
	users := &mockUserRepository{
		findByIDFn: func(_ context.Context, _ int64) (models.User, error) {
			return models.User{UserID: 7, PasswordHash: mustHash(t, "Current1!")}, nil
		},
		updatePasswordFn: func(_ context.Context, _ int64, passwordHash string) error {
			storedHash = passwordHash
			return nil
		},
	}
	svc := newTestAuthService(users, &mockChallengeRepository{}, &mockOTPMailer{})

	err := svc.UpdatePassword(context.Background(), models.UpdatePasswordRequest{
		UserID:          7,
		CurrentPassword: "Current1!",
		NewPassword:     "FreshPass1!",
	})
	require.NoError(t, err)
	require.NotEmpty(t, storedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("FreshPass1!")))
}

func TestUpdateFirstLogin_ClearsFlag(t *testing.T) {
	var got struct {
		userID int64
		flag   bool
	}
	users := &mockUserRepository{
		setFirstLoginFn: func(_ context.Context, userID int64, firstLogin bool) error {
			got.userID, got.flag = userID, firstLogin
			return nil
		},
	}
	svc := newTestAuthService(users, &mockChallengeRepository{}, &mockOTPMailer{})

	require.NoError(t, svc.UpdateFirstLogin(context.Background(), 7))
	assert.Equal(t, int64(7), got.userID)
	assert.False(t, got.flag)
}
