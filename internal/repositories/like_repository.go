package repositories

import (
	"github.com/nabilhq/openwall/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	GetLike(userID, postID uint) (*models.Like, error)
	CreateLike(like *models.Like) error
	DeleteLike(id uint) error
	GetLikesByUser(userID uint) ([]models.Like, error)
	GetLikesByPost(postID uint) ([]models.Like, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// GetLike retrieves the like row for a (user, post) pair
func (r *PostgresLikeRepository) GetLike(userID, postID uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

// CreateLike creates a new like in PostgreSQL
func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

// DeleteLike deletes a like by id
func (r *PostgresLikeRepository) DeleteLike(id uint) error {
	res := r.db.Delete(&models.Like{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetLikesByUser retrieves all likes placed by a user, newest first
func (r *PostgresLikeRepository) GetLikesByUser(userID uint) ([]models.Like, error) {
	var likes []models.Like
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

// GetLikesByPost retrieves all likes on a post, oldest first
func (r *PostgresLikeRepository) GetLikesByPost(postID uint) ([]models.Like, error) {
	var likes []models.Like
	if err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}
