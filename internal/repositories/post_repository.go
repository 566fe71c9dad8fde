package repositories

import (
	"github.com/nabilhq/openwall/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPosts(offset, limit int) ([]models.Post, error)
	GetPostsByAuthor(authorID uint) ([]models.Post, error)
	GetPostsByIDs(ids []uint) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post in PostgreSQL
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post by ID from PostgreSQL
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPosts retrieves a page of posts ordered by creation time descending
func (r *PostgresPostRepository) GetPosts(offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostsByAuthor retrieves all posts by an author, newest first
func (r *PostgresPostRepository) GetPostsByAuthor(authorID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("author_id = ?", authorID).Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostsByIDs retrieves the posts whose ids are in the given set
func (r *PostgresPostRepository) GetPostsByIDs(ids []uint) ([]models.Post, error) {
	var posts []models.Post
	if len(ids) == 0 {
		return posts, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
