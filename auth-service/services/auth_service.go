package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/clients"
	"placify-backend/shared/database/models"
	"placify-backend/shared/database/models/notification"
	"placify-backend/shared/logger"
	"placify-backend/shared/metrics"
	"placify-backend/shared/utils/auth"
)

var errInvalidCredentials = apperrors.Unauthorized("Invalid credentials")

// Store loads and creates users
type Store interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// Tokens signs and validates the JWT pair
type Tokens interface {
	IssuePair(p auth.Principal) (auth.TokenPair, error)
	ValidateRefresh(token string) (*auth.Claims, error)
}

type Notifier interface {
	Send(ctx context.Context, req clients.SendRequest) error
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required" example:"Jane Doe"`
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"securepass1"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"securepass1"`
}

// UserInfo is the public view of the caller
type UserInfo struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Image       string      `json:"image,omitempty"`
	Role        models.Role `json:"role"`
	IsOnboarded bool        `json:"is_onboarded"`
}

// Session is what register, login and refresh answer with
type Session struct {
	auth.TokenPair
	User UserInfo `json:"user"`
}

type AuthService struct {
	store    Store
	tokens   Tokens
	notifier Notifier
}

func NewAuthService(store Store, tokens Tokens, notifier Notifier) *AuthService {
	return &AuthService{store: store, tokens: tokens, notifier: notifier}
}

// Register creates an account without a role. The role is picked later during onboarding.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	fields := map[string]string{}
	if err := auth.ValidateLength(in.Name, "name", 2, 200); err != nil {
		fields["name"] = err.Error()
	}
	if err := auth.ValidateEmail(email); err != nil {
		fields["email"] = err.Error()
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		fields["password"] = err.Error()
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation("invalid registration", fields)
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("an account with this email already exists")
	} else if !apperrors.Is(err, apperrors.CodeNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Role:     models.RoleUnset,
		IsActive: true,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	s.welcome(ctx, user)
	logger.FromContext(ctx).Info("user registered", zap.String("user_id", user.ID.String()))
	return s.session(user)
}

// Login checks the password and issues a fresh pair
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(in.Email))
	if apperrors.Is(err, apperrors.CodeNotFound) {
		// spend the same time as a real comparison
		auth.CheckPasswordHash(in.Password, dummyHash)
		metrics.RecordLogin("invalid_credentials")
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPasswordHash(in.Password, user.Password) {
		metrics.RecordLogin("invalid_credentials")
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		metrics.RecordLogin("inactive")
		return nil, apperrors.Unauthorized("Account is inactive")
	}

	metrics.RecordLogin("success")
	return s.session(user)
}

// Refresh trades a refresh token for a new pair carrying the user's current role
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}
	p, err := claims.Principal()
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}

	user, err := s.store.FindByID(ctx, p.UserID)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		return nil, apperrors.Unauthorized("account no longer exists")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("Account is inactive")
	}
	return s.session(user)
}

// Me returns the stored view of the caller, which may be newer than the token
func (s *AuthService) Me(ctx context.Context, p auth.Principal) (*UserInfo, error) {
	user, err := s.store.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	info := userInfo(user)
	return &info, nil
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	pair, err := s.tokens.IssuePair(auth.Principal{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, apperrors.Internal("could not generate token", err)
	}
	return &Session{TokenPair: pair, User: userInfo(user)}, nil
}

func (s *AuthService) welcome(ctx context.Context, user *models.User) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Send(ctx, clients.SendRequest{
		UserID:  user.ID,
		Type:    notification.TypeGeneral,
		Level:   notification.NotificationLevelSuccess,
		Title:   "Welcome to Placify",
		Message: "Pick your role to finish setting up your account.",
	})
	if err != nil {
		metrics.RecordNotification(notification.TypeGeneral, false)
		logger.FromContext(ctx).Warn("welcome notification failed", zap.Error(err))
	}
}

func userInfo(u *models.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Image:       u.Image,
		Role:        u.Role,
		IsOnboarded: u.IsOnboarded(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// dummyHash is a well formed bcrypt hash at the default cost used for unknown emails
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z1n5Yl/1Dk1E1cSXmTTAhtBa"

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *GormStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormStore) first(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(where, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	return &user, nil
}

func (s *GormStore) Create(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict("an account with this email already exists")
	}
	if err != nil {
		return apperrors.Internal("failed to create user", err)
	}
	return nil
}
