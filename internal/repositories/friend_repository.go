package repositories

import (
	"github.com/nabilhq/openwall/backend/internal/models"
	"gorm.io/gorm"
)

// FriendRepository defines the interface for friend edge data operations
type FriendRepository interface {
	GetEdge(userID, friendID uint) (*models.Friend, error)
	CreateEdge(edge *models.Friend) error
	DeleteEdge(id uint) error
	UpdateEdgeStatus(id uint, status string) error
	GetAcceptedEdgesInvolving(userID uint) ([]models.Friend, error)
	GetIncomingEdges(userID uint, statuses []string) ([]models.Friend, error)
	GetOutgoingEdges(userID uint, statuses []string) ([]models.Friend, error)
}

// PostgresFriendRepository implements FriendRepository for PostgreSQL
type PostgresFriendRepository struct {
	db *gorm.DB
}

// NewPostgresFriendRepository creates a new PostgresFriendRepository
func NewPostgresFriendRepository(db *gorm.DB) *PostgresFriendRepository {
	return &PostgresFriendRepository{db: db}
}

// GetEdge retrieves the directed edge userID -> friendID
func (r *PostgresFriendRepository) GetEdge(userID, friendID uint) (*models.Friend, error) {
	var edge models.Friend
	if err := r.db.Where("user_id = ? AND friend_id = ?", userID, friendID).First(&edge).Error; err != nil {
		return nil, err
	}
	return &edge, nil
}

// CreateEdge creates a new directed edge
func (r *PostgresFriendRepository) CreateEdge(edge *models.Friend) error {
	return r.db.Create(edge).Error
}

// DeleteEdge deletes an edge by id
func (r *PostgresFriendRepository) DeleteEdge(id uint) error {
	res := r.db.Delete(&models.Friend{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateEdgeStatus updates the status of an edge
func (r *PostgresFriendRepository) UpdateEdgeStatus(id uint, status string) error {
	return r.db.Model(&models.Friend{}).Where("id = ?", id).Update("status", status).Error
}

// GetAcceptedEdgesInvolving retrieves ACCEPTED edges where the user is on
// either end, most recent first
func (r *PostgresFriendRepository) GetAcceptedEdgesInvolving(userID uint) ([]models.Friend, error) {
	var edges []models.Friend
	err := r.db.
		Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, models.FriendStatusAccepted).
		Order("created_at DESC").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}

// GetIncomingEdges retrieves edges pointing at the user, most recent first,
// optionally restricted to the given statuses
func (r *PostgresFriendRepository) GetIncomingEdges(userID uint, statuses []string) ([]models.Friend, error) {
	var edges []models.Friend
	q := r.db.Where("friend_id = ?", userID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("created_at DESC").Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// GetOutgoingEdges retrieves edges originating at the user, optionally
// restricted to the given statuses
func (r *PostgresFriendRepository) GetOutgoingEdges(userID uint, statuses []string) ([]models.Friend, error) {
	var edges []models.Friend
	q := r.db.Where("user_id = ?", userID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("created_at DESC").Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}
