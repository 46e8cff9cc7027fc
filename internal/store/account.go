package store

import (
	"context"
	"errors"
	"time"

	"secretpages/backend/internal/auth"
	"secretpages/backend/internal/config"
	"secretpages/backend/internal/models"
	"secretpages/backend/pkg/jwt"

	"gorm.io/gorm"
)

// AccountStore wraps account lifecycle and session issuance.
type AccountStore struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAccountStore(db *gorm.DB, cfg *config.Config) *AccountStore {
	return &AccountStore{db: db, cfg: cfg}
}

// Register creates a new account. The caller surfaces the confirmation-sent
// state; no session is issued here.
func (s *AccountStore) Register(ctx context.Context, email, password string) (*models.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{Email: email, PasswordHash: hash}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

// Session is an issued token pair.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"-"`
}

// Login checks credentials and issues an access/refresh token pair.
func (s *AccountStore) Login(ctx context.Context, email, password string) (*Session, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(s.db.WithContext(ctx), user)
}

// Refresh rotates a refresh token: the old one is revoked and a new pair is
// issued inside one transaction.
func (s *AccountStore) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var session *Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec models.RefreshToken
		err := tx.Where("token = ? AND revoked_at IS NULL AND expires_at > ?", refreshToken, time.Now()).First(&rec).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		now := time.Now()
		if err := tx.Model(&models.RefreshToken{}).Where("token = ?", refreshToken).Update("revoked_at", &now).Error; err != nil {
			return err
		}
		var user models.User
		if err := tx.First(&user, "id = ?", rec.UserID).Error; err != nil {
			return err
		}
		session, err = s.issueSession(tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Logout revokes the presented refresh token. Revoking an unknown token is
// not an error; sign-out stays idempotent.
func (s *AccountStore) Logout(ctx context.Context, refreshToken string) error {
	now := time.Now()
	return s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ? AND revoked_at IS NULL", refreshToken).
		Update("revoked_at", &now).Error
}

// Get loads an account by ID.
func (s *AccountStore) Get(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Delete removes the account and everything hanging off it in a single
// transaction: friend requests in either direction, the secret message, and
// all refresh tokens. Either the whole cascade applies or none of it does.
func (s *AccountStore) Delete(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.FriendRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.SecretMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.User{}, "id = ?", userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *AccountStore) issueSession(tx *gorm.DB, user models.User) (*Session, error) {
	at, err := jwt.GenerateToken(user.ID, s.cfg.JWTSecret, time.Duration(s.cfg.AccessTokenTTLMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}
	rt, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	rec := models.RefreshToken{
		UserID:    user.ID,
		Token:     rt,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.RefreshTokenTTLDays) * 24 * time.Hour),
	}
	if err := tx.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &Session{AccessToken: at, RefreshToken: rt, User: user}, nil
}
