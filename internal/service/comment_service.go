package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
}

type CreateCommentInput struct {
	ActorID   uint
	ArticleID uint
	Body      string
}

func NewCommentService(comments repository.CommentRepository, articles repository.ArticleRepository) *CommentService {
	return &CommentService{comments: comments, articles: articles}
}

// Create returns the new comment and the article it belongs to.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, *models.Article, error) {
	if err := requireViewer(in.ActorID); err != nil {
		return nil, nil, err
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, nil, models.NewValidationError("Comment body is required")
	}
	if len(body) > maxCommentLen {
		return nil, nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	article, err := s.articles.GetByID(ctx, in.ArticleID, 0)
	if err != nil {
		return nil, nil, err
	}

	comment := &models.Comment{
		ArticleID: in.ArticleID,
		UserID:    in.ActorID,
		Body:      body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, nil, err
	}

	created, err := s.comments.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, article, nil
}

// Delete allows the comment's author or the article's owner.
func (s *CommentService) Delete(ctx context.Context, commentID, actor uint) (*models.Comment, error) {
	if err := requireViewer(actor); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	article, err := s.articles.GetByID(ctx, comment.ArticleID, 0)
	if err != nil {
		return nil, err
	}
	if !CanDeleteComment(actor, comment, article) {
		return nil, models.NewForbiddenError("You can only delete your own comments or comments on your articles")
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return nil, err
	}
	return comment, nil
}
