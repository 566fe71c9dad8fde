package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles the relational repositories so services can receive
// one handle, either bound to the pooled connection or to a transaction.
type Repositories struct {
	Users         UserRepository
	Friends       FriendRepository
	Posts         PostRepository
	Likes         LikeRepository
	Comments      CommentRepository
	Notifications NotificationRepository
}

// NewPostgresRepositories builds the full repository set on a gorm handle.
// The handle may be the shared pool or an open transaction.
func NewPostgresRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewPostgresUserRepository(db),
		Friends:       NewPostgresFriendRepository(db),
		Posts:         NewPostgresPostRepository(db),
		Likes:         NewPostgresLikeRepository(db),
		Comments:      NewPostgresCommentRepository(db),
		Notifications: NewPostgresNotificationRepository(db),
	}
}

// TxManager runs a function against a transaction-bound repository set.
// Check-then-act sequences (friend toggle, accept, like toggle) must go
// through it so both steps see and mutate the same consistent state.
type TxManager interface {
	InTx(ctx context.Context, fn func(r *Repositories) error) error
}

// GormTxManager implements TxManager over gorm's transaction support
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GormTxManager
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// InTx opens a transaction, passes a tx-bound repository set to fn, and
// commits or rolls back on fn's result.
func (m *GormTxManager) InTx(ctx context.Context, fn func(r *Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewPostgresRepositories(tx))
	})
}
