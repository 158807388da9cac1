package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gracepointe/engage/internal/mail"
	"github.com/gracepointe/engage/internal/model"
	"github.com/gracepointe/engage/internal/repository"
	"github.com/gracepointe/engage/pkg/apperror"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EmergencyAdminID is the fixed token subject issued by the hardcoded
// emergency credential pair. It never matches a database row; the auth
// middleware recognizes it directly. Operational escape hatch only.
const EmergencyAdminID = "ADMIN_001"

const resetCodeTTL = time.Hour

type RegisterInput struct {
	Name          string  `json:"name" binding:"required,min=2,max=100"`
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=8"`
	ReferralCode  *string `json:"referral_code"`
	DateOfBirth   *string `json:"date_of_birth"`
	Hobby         *string `json:"hobby"`
	FavoriteVerse *string `json:"favorite_verse"`
}

// LoginInput carries the identifier in the email field; members may log in
// with either their email or their display name.
type LoginInput struct {
	Identifier string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *model.User `json:"user"`
}

type AuthConfig struct {
	Secret                 string
	TokenTTL               time.Duration
	EmergencyAdminEmail    string
	EmergencyAdminPassword string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	Me(ctx context.Context, subject string) (*model.User, error)
	BeginPasswordReset(ctx context.Context, email string) (string, error)
	CompletePasswordReset(ctx context.Context, email, code, newPassword string) error
}

type authService struct {
	repo    repository.UserRepository
	rewards RewardService
	codes   *ResetCodeStore
	mailer  mail.Mailer
	cfg     AuthConfig
	logger  *zap.Logger
}

func NewAuthService(repo repository.UserRepository, rewards RewardService, codes *ResetCodeStore, mailer mail.Mailer, cfg AuthConfig, logger *zap.Logger) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	return &authService{
		repo:    repo,
		rewards: rewards,
		codes:   codes,
		mailer:  mailer,
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.ErrDuplicateAccount
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := s.uniqueReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	// A referral code that resolves to nothing is silently ignored.
	var referrer *model.User
	if input.ReferralCode != nil && *input.ReferralCode != "" {
		if found, err := s.repo.FindByReferralCode(ctx, strings.ToUpper(strings.TrimSpace(*input.ReferralCode))); err == nil {
			referrer = found
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	user := &model.User{
		Name:          strings.TrimSpace(input.Name),
		Email:         email,
		PasswordHash:  string(hashed),
		Role:          model.RoleMember,
		ReferralCode:  code,
		DateOfBirth:   normalizeOptional(input.DateOfBirth),
		Hobby:         normalizeOptional(input.Hobby),
		FavoriteVerse: normalizeOptional(input.FavoriteVerse),
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if referrer != nil {
		desc := fmt.Sprintf("Referral bonus for inviting %s", user.Name)
		if _, err := s.rewards.Grant(ctx, referrer.ID, model.RewardReferral, desc); err != nil {
			// The new account exists either way; the missing bonus is an
			// operational problem, not a registration failure.
			s.logger.Error("referral grant failed",
				zap.String("referrer_id", referrer.ID.String()),
				zap.Error(err),
			)
		}
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	if user := s.emergencyAdmin(input.Identifier, input.Password); user != nil {
		return s.buildAuthResponseWithSubject(user, EmergencyAdminID)
	}

	user, err := s.repo.FindByEmail(ctx, input.Identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.repo.FindByName(ctx, input.Identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

// emergencyAdmin is the single place the hardcoded recovery credential is
// checked. It bypasses the database entirely.
func (s *authService) emergencyAdmin(identifier, password string) *model.User {
	if s.cfg.EmergencyAdminEmail == "" || s.cfg.EmergencyAdminPassword == "" {
		return nil
	}

	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(identifier)), []byte(strings.ToLower(s.cfg.EmergencyAdminEmail))) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.EmergencyAdminPassword)) == 1
	if !emailOK || !passOK {
		return nil
	}

	s.logger.Warn("emergency admin login used")
	return EmergencyAdminUser(s.cfg.EmergencyAdminEmail)
}

// EmergencyAdminUser synthesizes the transient admin account backing the
// emergency credential; it has no database row.
func EmergencyAdminUser(email string) *model.User {
	return &model.User{
		Name:  "Super Admin",
		Email: email,
		Role:  model.RoleAdmin,
	}
}

func (s *authService) Me(ctx context.Context, subject string) (*model.User, error) {
	if subject == EmergencyAdminID {
		return EmergencyAdminUser(s.cfg.EmergencyAdminEmail), nil
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) BeginPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.ErrNotFound
		}
		return "", err
	}

	code := GenerateResetCode(6)
	s.codes.Save(ctx, user.Email, code, resetCodeTTL)

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(ctx, user.Email, code); err != nil {
			return "", fmt.Errorf("send reset email: %w", err)
		}
	} else {
		s.logger.Warn("mailer not configured, reset code not delivered",
			zap.String("email", user.Email))
	}

	return code, nil
}

func (s *authService) CompletePasswordReset(ctx context.Context, email, code, newPassword string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if !s.codes.VerifyAndConsume(ctx, user.Email, code) {
		return fmt.Errorf("%w: invalid or expired reset code", apperror.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePasswordHash(ctx, user.ID, string(hashed))
}

func (s *authService) buildAuthResponse(user *model.User) (*AuthResponse, error) {
	return s.buildAuthResponseWithSubject(user, user.ID.String())
}

func (s *authService) buildAuthResponseWithSubject(user *model.User, subject string) (*AuthResponse, error) {
	expiresAt := time.Now().Add(s.cfg.TokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &AuthResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.cfg.TokenTTL.Seconds()),
		User:        user,
	}, nil
}

const referralCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func (s *authService) uniqueReferralCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := randomReferralCode(6)
		if err != nil {
			return "", err
		}

		_, err = s.repo.FindByReferralCode(ctx, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not allocate a unique referral code")
}

func randomReferralCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = referralCharset[int(buf[i])%len(referralCharset)]
	}
	return string(buf), nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}
