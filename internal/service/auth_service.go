package service

import (
	"context"
	"strings"
	"time"

	"fender-store/internal/models"
	"fender-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	loginMaxFailures  = 5
	loginFailureTTL   = 15 * time.Minute
	loginLockDuration = 15 * time.Minute
)

type AuthService struct {
	users  repository.UserRepo
	orders repository.OrderRepo
	hasher PasswordHasher
	tokens TokenProvider
	cache  CacheClient // может быть nil, если Redis выключен

	accessTTL time.Duration
	now       func() time.Time

	log *zap.Logger
}

func NewAuthService(
	users repository.UserRepo,
	orders repository.OrderRepo,
	hasher PasswordHasher,
	tokens TokenProvider,
	cache CacheClient,
	accessTTL time.Duration,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		orders:    orders,
		hasher:    hasher,
		tokens:    tokens,
		cache:     cache,
		accessTTL: accessTTL,
		now:       time.Now,
		log:       log,
	}
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	// домен регистронезависим, локальную часть оставляем как есть
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func (s *AuthService) createUser(ctx context.Context, u *models.User, password string) error {
	existing, err := s.users.GetByEmail(ctx, u.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	u.Password = hash
	return s.users.Create(ctx, u)
}

func (s *AuthService) issue(ctx context.Context, u *models.User) (*AuthResult, error) {
	token, _, exp, err := s.tokens.SignAccess(ctx, u.ID, u.IsStaff, u.IsSuperuser, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: AccessToken{Token: token, ExpiresAt: exp}}, nil
}

// Register creates an active customer account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := Validate(in); err != nil {
		return nil, err
	}

	u := &models.User{
		Email:     in.Email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		IsActive:  true,
		CreatedAt: s.now(),
	}
	if err := s.createUser(ctx, u, in.Password); err != nil {
		return nil, err
	}
	s.log.Info("User registered", zap.String("user_id", u.ID.String()))

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		s.log.Warn("Failed to update last login", zap.String("user_id", u.ID.String()), zap.Error(err))
	}
	u.LastLogin = &now
	return s.issue(ctx, u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := Validate(in); err != nil {
		return nil, err
	}

	lockKey := "login_lock:" + strings.ToLower(in.Email)
	failKey := "login_fail:" + strings.ToLower(in.Email)
	if s.cache != nil {
		locked, err := s.cache.CheckRateLimit(ctx, lockKey)
		if err != nil {
			s.log.Warn("Rate limit check failed", zap.Error(err))
		} else if locked {
			return nil, ErrTooManyRequests
		}
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Compare(user.Password, in.Password) {
		s.registerFailure(ctx, failKey, lockKey)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, failKey)
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("Failed to update last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	user.LastLogin = &now
	return s.issue(ctx, user)
}

func (s *AuthService) registerFailure(ctx context.Context, failKey, lockKey string) {
	if s.cache == nil {
		return
	}
	n, err := s.cache.IncrWithTTL(ctx, failKey, loginFailureTTL)
	if err != nil {
		s.log.Warn("Failed to count login failure", zap.Error(err))
		return
	}
	if n >= loginMaxFailures {
		if err := s.cache.SetRateLimit(ctx, lockKey, loginLockDuration); err != nil {
			s.log.Warn("Failed to set login lock", zap.Error(err))
		}
	}
}

// Logout blacklists the token until it expires. Without Redis it is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ParseAndValidateAccess(ctx, token)
	if err != nil {
		return ErrUnauthorized
	}
	if s.cache == nil || claims.TokenID == "" {
		return nil
	}
	ttl := claims.Exp.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.cache.BlacklistToken(ctx, claims.TokenID, ttl)
}

// Authenticate validates an access token and checks the blacklist. Staff
// flags come from the current user row, not from the token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokens.ParseAndValidateAccess(ctx, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if s.cache != nil && claims.TokenID != "" {
		revoked, err := s.cache.IsTokenBlacklisted(ctx, claims.TokenID)
		if err != nil {
			s.log.Warn("Blacklist check failed", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	// удалённый или деактивированный пользователь теряет доступ сразу
	if u == nil || !u.IsActive {
		return nil, ErrUnauthorized
	}
	claims.IsStaff, claims.IsSuperuser = u.IsStaff, u.IsSuperuser
	return claims, nil
}

// CreateSuperuser creates a user with staff, superuser and active forced on.
// Explicitly passing is_staff=false or is_superuser=false is an error.
func (s *AuthService) CreateSuperuser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := Validate(in); err != nil {
		return nil, err
	}
	if !in.IsStaff {
		return nil, fieldErr("is_staff", "superuser must have is_staff=true", "superuser")
	}
	if !in.IsSuperuser {
		return nil, fieldErr("is_superuser", "superuser must have is_superuser=true", "superuser")
	}

	u := &models.User{
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
		CreatedAt:   s.now(),
	}
	if err := s.createUser(ctx, u, in.Password); err != nil {
		return nil, err
	}
	s.log.Info("Superuser created", zap.String("user_id", u.ID.String()), zap.String("email", u.Email))
	return u, nil
}

// Profile returns the user and their orders, newest first.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, []models.Order, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, ErrUserNotFound
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return u, orders, nil
}

var _ AuthUseCase = (*AuthService)(nil)

