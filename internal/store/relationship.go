package store

import (
	"context"
	"errors"

	"secretpages/backend/internal/metrics"
	"secretpages/backend/internal/models"

	"gorm.io/gorm"
)

// RelationshipStore owns the friend-request state machine:
//
//	pending --accept--> accepted  (status updated in place)
//	pending --reject--> deleted
//	any     --unfriend--> deleted
//
// A friendship is derived, not stored: an accepted request with the pair
// treated as unordered.
type RelationshipStore struct {
	db *gorm.DB
}

func NewRelationshipStore(db *gorm.DB) *RelationshipStore {
	return &RelationshipStore{db: db}
}

// SendRequest resolves targetEmail and creates a pending request from the
// requester. The existence check gives precise conflict answers; the unique
// index on the normalized pair is the backstop for two concurrent sends that
// both pass the check.
func (s *RelationshipStore) SendRequest(ctx context.Context, requesterID, requesterEmail, targetEmail string) (*models.FriendRequest, error) {
	var target models.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND id <> ?", targetEmail, requesterID).
		First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	lo, hi := models.NormalizePair(requesterID, target.ID)
	var existing models.FriendRequest
	err = s.db.WithContext(ctx).
		Where("pair_lo = ? AND pair_hi = ?", lo, hi).
		First(&existing).Error
	if err == nil {
		if existing.Status == models.StatusAccepted {
			return nil, ErrAlreadyFriends
		}
		return nil, ErrRequestPending
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	request := models.FriendRequest{
		SenderID:    requesterID,
		ReceiverID:  target.ID,
		SenderEmail: requesterEmail,
		Status:      models.StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent send for the same pair.
			return nil, ErrRequestPending
		}
		return nil, err
	}

	metrics.FriendRequestsTotal.WithLabelValues("sent").Inc()
	return &request, nil
}

// Respond resolves a pending request addressed to receiverID. Accepting
// mutates the status in place; rejecting deletes the row, so a rejected
// request is never observable in storage.
func (s *RelationshipStore) Respond(ctx context.Context, receiverID, requestID string, decision models.RequestStatus) error {
	if decision != models.StatusAccepted && decision != models.StatusRejected {
		return ErrInvalidDecision
	}

	var request models.FriendRequest
	err := s.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ? AND status = ?", requestID, receiverID, models.StatusPending).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if decision == models.StatusRejected {
		if err := s.db.WithContext(ctx).Delete(&request).Error; err != nil {
			return err
		}
		metrics.FriendRequestsTotal.WithLabelValues("rejected").Inc()
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&request).Update("status", models.StatusAccepted).Error; err != nil {
		return err
	}
	metrics.FriendRequestsTotal.WithLabelValues("accepted").Inc()
	return nil
}

// Friends returns the users on the other side of every accepted request
// involving userID. An empty list is a valid result, not an error.
func (s *RelationshipStore) Friends(ctx context.Context, userID string) ([]models.User, error) {
	var relations []models.FriendRequest
	err := s.db.WithContext(ctx).
		Where("status = ? AND (sender_id = ? OR receiver_id = ?)", models.StatusAccepted, userID, userID).
		Find(&relations).Error
	if err != nil {
		return nil, err
	}

	friendIDs := make([]string, 0, len(relations))
	for _, r := range relations {
		if r.SenderID == userID {
			friendIDs = append(friendIDs, r.ReceiverID)
		} else {
			friendIDs = append(friendIDs, r.SenderID)
		}
	}
	if len(friendIDs) == 0 {
		return []models.User{}, nil
	}

	var friends []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", friendIDs).Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// PendingReceived lists the pending requests addressed to userID, oldest
// first.
func (s *RelationshipStore) PendingReceived(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := s.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, models.StatusPending).
		Order("created_at asc").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// Unfriend deletes whatever request rows exist for the unordered pair,
// whichever direction and status. Deleting zero rows is not an error, so the
// operation is idempotent.
func (s *RelationshipStore) Unfriend(ctx context.Context, userID, otherID string) error {
	lo, hi := models.NormalizePair(userID, otherID)
	result := s.db.WithContext(ctx).
		Where("pair_lo = ? AND pair_hi = ?", lo, hi).
		Delete(&models.FriendRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		metrics.FriendRequestsTotal.WithLabelValues("unfriended").Inc()
	}
	return nil
}

// IsFriend reports whether the unordered pair has an accepted request.
func (s *RelationshipStore) IsFriend(ctx context.Context, userID, otherID string) (bool, error) {
	lo, hi := models.NormalizePair(userID, otherID)
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("pair_lo = ? AND pair_hi = ? AND status = ?", lo, hi, models.StatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
