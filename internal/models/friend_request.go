package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus defines the state of a friend request between two users.
type RequestStatus string

const (
	// StatusPending means the request has been sent but not yet answered.
	StatusPending RequestStatus = "pending"

	// StatusAccepted means the request was accepted; the users are friends.
	StatusAccepted RequestStatus = "accepted"

	// StatusRejected is accepted on the respond endpoint but never persisted:
	// a rejection deletes the request row.
	StatusRejected RequestStatus = "rejected"
)

// FriendRequest is a directed relationship proposal. A friendship is not a
// separate table: it is any request whose status is accepted, with the pair
// treated as unordered.
//
// PairLo/PairHi hold the two user IDs in lexicographic order. The composite
// unique index on them means two concurrent sends for the same pair cannot
// both insert, whichever direction each one goes.
type FriendRequest struct {
	ID         string        `gorm:"type:uuid;primaryKey"`
	SenderID   string        `gorm:"type:uuid;not null;index"`
	ReceiverID string        `gorm:"type:uuid;not null;index"`
	Status     RequestStatus `gorm:"type:varchar(20);not null;default:'pending'"`

	// SenderEmail is denormalized at creation time so the receiver's pending
	// list can be rendered without a join.
	SenderEmail string `gorm:"size:255;not null"`

	PairLo string `gorm:"type:uuid;not null;uniqueIndex:idx_friend_request_pair"`
	PairHi string `gorm:"type:uuid;not null;uniqueIndex:idx_friend_request_pair"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Sender   User `gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Receiver User `gorm:"foreignKey:ReceiverID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (fr *FriendRequest) BeforeCreate(tx *gorm.DB) error {
	if fr.ID == "" {
		fr.ID = uuid.New().String()
	}
	fr.PairLo, fr.PairHi = NormalizePair(fr.SenderID, fr.ReceiverID)
	return nil
}

// NormalizePair orders two user IDs so an unordered pair always maps to the
// same (lo, hi) columns.
func NormalizePair(a, b string) (lo, hi string) {
	if a < b {
		return a, b
	}
	return b, a
}
