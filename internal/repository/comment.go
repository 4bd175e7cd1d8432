package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID uint) ([]models.Comment, error)
	ListVisible(ctx context.Context, articleID uint, viewerID uint) ([]models.Comment, error)
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, wrapLookup(err, "Comment", id)
	}
	return &comment, nil
}

// ListByArticle returns the whole thread, oldest first, with no block filtering.
func (r *commentRepository) ListByArticle(ctx context.Context, articleID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("article_id = ?", articleID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// ListVisible returns the thread as viewerID may see it: comments whose author
// blocks the viewer, or is blocked by the viewer, are left out. The viewer's
// own comments always stay. viewerID 0 means anonymous and sees everything.
func (r *commentRepository) ListVisible(ctx context.Context, articleID uint, viewerID uint) ([]models.Comment, error) {
	if viewerID == 0 {
		return r.ListByArticle(ctx, articleID)
	}

	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("comments.article_id = ?", articleID).
		Where(`comments.user_id = ? OR NOT EXISTS (
			SELECT 1 FROM blocks
			WHERE (blocks.blocker_id = ? AND blocks.blocked_id = comments.user_id)
			   OR (blocks.blocker_id = comments.user_id AND blocks.blocked_id = ?)
		)`, viewerID, viewerID, viewerID).
		Order("comments.created_at ASC, comments.id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}
