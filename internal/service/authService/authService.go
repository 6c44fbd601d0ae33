package authService

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clouddrive/internal/apperr"
	"clouddrive/internal/model/account"
	"clouddrive/internal/model/billing"
	"clouddrive/internal/model/content"
	"clouddrive/internal/repository/BlackListRepo"
	"clouddrive/internal/repository/refreshToken"
	"clouddrive/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Сделал регулярку для проверки почты на валидность
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	refreshTokenExpireTime = 7 * 24 * time.Hour
	jwtTokenExpireTime     = 3 * time.Hour
	minPasswordLength      = 6
)

type UserRepository interface {
	Create(ctx context.Context, u *account.User) error
	GetByID(ctx context.Context, id int64) (*account.User, error)
	GetByEmail(ctx context.Context, email string) (*account.User, error)
}

type StorageRepository interface {
	Create(ctx context.Context, s *account.Storage) error
}

type ContentRepository interface {
	Create(ctx context.Context, c *content.Content) error
}

type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// QuotaSource отдаёт квоту тарифа по умолчанию.
type QuotaSource interface {
	DefaultQuota(ctx context.Context) (int64, error)
}

type Repositories struct {
	Users    UserRepository
	Storages StorageRepository
	Contents ContentRepository
	Tx       TxManager
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	repos         Repositories
	plans         QuotaSource
	jwtSecretKey  string
	refreshRepo   *refreshToken.RefreshTokenRepo
	blacklistRepo *BlackListRepo.BlackListRepo
}

func New(repos Repositories, plans QuotaSource, jwtString string, tokenRepo *refreshToken.RefreshTokenRepo, blacklistrepo *BlackListRepo.BlackListRepo) *AuthService {
	return &AuthService{repos: repos, plans: plans, jwtSecretKey: jwtString, refreshRepo: tokenRepo, blacklistRepo: blacklistrepo}
}

// SignUp заводит пользователя, его хранилище с квотой бесплатного тарифа и папку home одной транзакцией.
func (s *AuthService) SignUp(ctx context.Context, email, password, name string) (string, string, error) {
	email = strings.TrimSpace(email)
	if !emailRegex.MatchString(email) {
		return "", "", apperr.Unknown("Invalid email format")
	}
	if len(password) < minPasswordLength {
		return "", "", apperr.Unknown("Password must contain at least %d characters", minPasswordLength)
	}
	if name == "" {
		name = email[:strings.IndexByte(email, '@')]
	}

	existingUser, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("failed to check email: %w", err)
	}
	if existingUser != nil {
		return "", "", apperr.AlreadyExists("User with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	quota, err := s.defaultQuota(ctx)
	if err != nil {
		return "", "", err
	}

	user := &account.User{Email: email, Name: name, Password: string(hashedPassword)}
	err = s.repos.Tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repos.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		storage := &account.Storage{UserID: user.ID, Quota: quota}
		if err := s.repos.Storages.Create(ctx, storage); err != nil {
			return fmt.Errorf("failed to create storage: %w", err)
		}
		home := &content.Content{
			StorageID: storage.ID,
			Type:      content.TypeFolder,
			State:     content.StateReady,
			Name:      content.HomePath,
			Path:      content.HomePath,
		}
		if err := s.repos.Contents.Create(ctx, home); err != nil {
			return fmt.Errorf("failed to create home folder: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}

	logger.GetLogger(ctx).Info("user signed up", zap.Int64("user_id", user.ID))
	return s.issueTokens(ctx, user)
}

func (s *AuthService) defaultQuota(ctx context.Context) (int64, error) {
	quota, err := s.plans.DefaultQuota(ctx)
	if apperr.Is(err, apperr.KindNotFound) {
		logger.GetLogger(ctx).Warn("default plan is not seeded, using built-in quota")
		return billing.DefaultPlans()[0].AvailableQuote, nil
	}
	return quota, err
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.repos.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", "", apperr.NotFound("User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", apperr.PermissionDenied("Wrong password")
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *account.User) (string, string, error) {
	accessToken, err := s.generateJWT(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.generateRefreshToken(ctx, user.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

func (s *AuthService) generateJWT(user *account.User) (string, error) {
	payload := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwtTokenExpireTime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	tokenStr, err := token.SignedString([]byte(s.jwtSecretKey))
	if err != nil {
		return "", err
	}
	return tokenStr, nil
}

func (s *AuthService) parse(token string) (*Claims, error) {
	payload := &Claims{}
	parsedToken, err := jwt.ParseWithClaims(token, payload, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsedToken.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return payload, nil
}

// GetPrincipalByToken проверяет подпись, срок и чёрный список, возвращает id и почту владельца токена.
func (s *AuthService) GetPrincipalByToken(ctx context.Context, token string) (int64, string, bool) {
	blacklisted, err := s.blacklistRepo.IsRevoked(ctx, token)
	if err != nil || blacklisted {
		return 0, "", false
	}

	payload, err := s.parse(token)
	if err != nil {
		return 0, "", false
	}

	uid, err := strconv.ParseInt(payload.Subject, 10, 64)
	if err != nil || payload.Email == "" {
		return 0, "", false
	}

	return uid, payload.Email, true
}

func (s *AuthService) generateRefreshToken(ctx context.Context, userID int64) (string, error) {
	refreshToken := uuid.NewString()
	err := s.refreshRepo.SaveToken(ctx, userID, refreshToken, refreshTokenExpireTime)
	if err != nil {
		return "", err
	}
	return refreshToken, nil
}

func (s *AuthService) Logout(ctx context.Context, userID int64, accessToken string) error {
	if err := s.refreshRepo.DeleteToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	payload, err := s.parse(accessToken)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if err := s.blacklistRepo.Revoke(ctx, accessToken, payload.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

func (s *AuthService) RefreshToken(ctx context.Context, userID int64, oldRefreshToken string) (string, string, error) {
	valid, err := s.refreshRepo.Consume(ctx, userID, oldRefreshToken)
	if err != nil {
		return "", "", fmt.Errorf("failed to validate refresh token: %w", err)
	}
	if !valid {
		return "", "", apperr.PermissionDenied("Expired refresh token")
	}

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", "", apperr.NotFound("User not found")
	}

	return s.issueTokens(ctx, user)
}

// для тестов
// ---------------------------------------
func (s *AuthService) GenerateJWT(user *account.User) (string, error) {
	return s.generateJWT(user)
}

func (s *AuthService) BlacklistRepo() *BlackListRepo.BlackListRepo {
	return s.blacklistRepo
}

//---------------------------------------
