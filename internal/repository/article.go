package repository

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Article, error)
	ListFeed(ctx context.Context, viewerID uint, limit, offset int) ([]models.Article, error)
	ListByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]models.Article, error)
	CreateWithTags(ctx context.Context, article *models.Article, tags []string, mode TagSyncMode) error
	UpdateWithTags(ctx context.Context, article *models.Article, tags []string, mode TagSyncMode) error
	Delete(ctx context.Context, id uint) error
	Likers(ctx context.Context, articleID uint) ([]models.User, error)
	Like(ctx context.Context, userID, articleID uint) error
	Unlike(ctx context.Context, userID, articleID uint) error
}

type articleRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db, log: observability.NewRepoLogger("articles")}
}

// applyArticleDetails adds the computed counters and the viewer's like flag.
func applyArticleDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "articles.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.article_id = articles.id) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.article_id = articles.id) as likes_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.article_id = articles.id AND likes.user_id = ?) as liked", viewerID)
	}
	return db.Select(selectQuery + ", false as liked")
}

func (r *articleRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Article, error) {
	var article models.Article
	err := applyArticleDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Preload("Category").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		First(&article, id).Error
	if err != nil {
		return nil, wrapLookup(err, "Article", id)
	}
	return &article, nil
}

// ListFeed returns the articles written by the viewer, by users the viewer
// follows and by users following the viewer, newest first. Blocks are not
// consulted here.
func (r *articleRepository) ListFeed(ctx context.Context, viewerID uint, limit, offset int) ([]models.Article, error) {
	defer observability.TrackQuery("list_feed", "articles")()
	ctx, span := observability.TraceRepositoryMethod(ctx, "ListFeed", "articles")
	defer span.End()

	limit, offset = clampPage(limit, offset)
	followees := r.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", viewerID)
	followers := r.db.Model(&models.Follow{}).Select("follower_id").Where("followed_id = ?", viewerID)

	var articles []models.Article
	err := applyArticleDetails(r.db.WithContext(ctx), viewerID).
		Where("articles.user_id = ? OR articles.user_id IN (?) OR articles.user_id IN (?)", viewerID, followees, followers).
		Preload("User").
		Preload("Category").
		Preload("Tags").
		Order("articles.created_at DESC, articles.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

func (r *articleRepository) ListByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]models.Article, error) {
	limit, offset = clampPage(limit, offset)

	var articles []models.Article
	err := applyArticleDetails(r.db.WithContext(ctx), 0).
		Where("articles.category_id = ?", categoryID).
		Preload("User").
		Order("articles.created_at DESC, articles.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

// CreateWithTags inserts the article and applies its tags in one transaction.
func (r *articleRepository) CreateWithTags(ctx context.Context, article *models.Article, tags []string, mode TagSyncMode) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(article).Error; err != nil {
			return err
		}
		return syncTags(tx, article.ID, tags, mode)
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return wrapErr(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"id": article.ID, "user_id": article.UserID})
	return nil
}

// UpdateWithTags saves the editable columns and applies its tags in one transaction.
func (r *articleRepository) UpdateWithTags(ctx context.Context, article *models.Article, tags []string, mode TagSyncMode) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Article{ID: article.ID}).Updates(map[string]interface{}{
			"title":       article.Title,
			"content":     article.Content,
			"category_id": article.CategoryID,
			"feature":     article.Feature,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Article", article.ID)
		}
		return syncTags(tx, article.ID, tags, mode)
	})
	if err != nil {
		return wrapErr(err)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"id": article.ID})
	return nil
}

// Delete detaches tags and removes the article with its comments and likes.
func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteArticles(tx, []uint{id})
	})
	if err != nil {
		return wrapErr(err)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"id": id})
	return nil
}

// deleteArticles removes the given articles and every row that hangs off them.
func deleteArticles(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Exec("DELETE FROM article_tag WHERE article_id IN ?", ids).Error; err != nil {
		return err
	}
	if err := tx.Where("article_id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("article_id IN ?", ids).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Article{}).Error
}

func (r *articleRepository) Likers(ctx context.Context, articleID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.article_id = ?", articleID).
		Order("likes.created_at ASC, users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *articleRepository) Like(ctx context.Context, userID, articleID uint) error {
	// ON CONFLICT DO NOTHING keeps repeated likes idempotent under races.
	like := models.Like{UserID: userID, ArticleID: articleID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *articleRepository) Unlike(ctx context.Context, userID, articleID uint) error {
	err := r.db.WithContext(ctx).Where("user_id = ? AND article_id = ?", userID, articleID).Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
