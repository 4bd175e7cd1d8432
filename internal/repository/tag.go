package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagSyncMode selects how a tag list is applied to an article.
type TagSyncMode int

const (
	// TagSyncCreateOrAttach creates missing tags and attaches all of them,
	// keeping whatever was already attached.
	TagSyncCreateOrAttach TagSyncMode = iota
	// TagSyncReplaceAll detaches every tag, then attaches the given set.
	// An empty set leaves the article untagged.
	TagSyncReplaceAll
)

func (m TagSyncMode) String() string {
	if m == TagSyncReplaceAll {
		return "replace-all"
	}
	return "create-or-attach"
}

// TagRepository reads the tag vocabulary. Tags are written through
// ArticleRepository so that they change in the same transaction as the article.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

// syncTags applies names to the article inside tx. Callers own the transaction.
func syncTags(tx *gorm.DB, articleID uint, names []string, mode TagSyncMode) error {
	assoc := tx.Model(&models.Article{ID: articleID}).Association("Tags")

	if len(names) == 0 {
		if mode == TagSyncReplaceAll {
			return assoc.Clear()
		}
		return nil
	}

	tags, err := ensureTags(tx, names)
	if err != nil {
		return err
	}

	if mode == TagSyncReplaceAll {
		return assoc.Replace(tags)
	}
	return assoc.Append(tags)
}

// ensureTags returns the Tag rows for names, inserting the ones that do not exist yet.
func ensureTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	fresh := make([]models.Tag, 0, len(names))
	for _, n := range names {
		fresh = append(fresh, models.Tag{Name: n})
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	var tags []models.Tag
	if err := tx.Where("name IN ?", names).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
