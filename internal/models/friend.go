package models

import "time"

// Friend edge statuses.
const (
	FriendStatusPending  = "PENDING"
	FriendStatusAccepted = "ACCEPTED"
)

// Friend is a directed edge in the social graph. A mutual friendship is two
// ACCEPTED edges, one in each direction. The unique index guarantees at most
// one edge per ordered (UserID, FriendID) pair.
type Friend struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_friend_edge"`
	FriendID  uint      `json:"friend_id" gorm:"index;uniqueIndex:idx_user_friend_edge"`
	Status    string    `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	CreatedAt time.Time `json:"created_at"`
}

// AcceptFriendRequest defines the request body for accepting a pending
// friend request. UserID is the accepting user, FriendID the original requester.
type AcceptFriendRequest struct {
	UserID   uint `json:"userId" validate:"required"`
	FriendID uint `json:"friendId" validate:"required"`
}
