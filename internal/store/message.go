package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"secretpages/backend/internal/hub"
	"secretpages/backend/internal/metrics"
	"secretpages/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageEvent is the payload broadcast to live subscribers when a user's
// secret message changes.
type MessageEvent struct {
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageStore holds the single secret message per user and pushes change
// events into the hub on every successful save.
type MessageStore struct {
	db  *gorm.DB
	hub *hub.Hub
}

func NewMessageStore(db *gorm.DB, h *hub.Hub) *MessageStore {
	return &MessageStore{db: db, hub: h}
}

// Get returns the user's latest message or ErrNotFound when none exists.
func (s *MessageStore) Get(ctx context.Context, userID string) (*models.SecretMessage, error) {
	var msg models.SecretMessage
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// Save validates locally, then upserts keyed on user_id. Empty or
// whitespace-only text is rejected before any database work.
func (s *MessageStore) Save(ctx context.Context, userID, text string) (*models.SecretMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	msg := models.SecretMessage{
		UserID:    userID,
		Message:   text,
		CreatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"message", "created_at"}),
	}).Create(&msg).Error
	if err != nil {
		return nil, err
	}

	metrics.MessagesSavedTotal.Inc()
	s.hub.Broadcast(userID, hub.Event{
		Type: "message",
		Payload: MessageEvent{
			UserID:    userID,
			Message:   msg.Message,
			CreatedAt: msg.CreatedAt,
		},
	})
	return &msg, nil
}

// LatestFor returns each listed user's current message, keyed by user ID.
// Users without a message are simply absent from the map.
func (s *MessageStore) LatestFor(ctx context.Context, userIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var msgs []models.SecretMessage
	err := s.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		out[m.UserID] = m.Message
	}
	return out, nil
}
