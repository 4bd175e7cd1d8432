package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	CreateWithProfile(ctx context.Context, user *models.User) error
	DeleteAccount(ctx context.Context, userID uint) (*AccountFiles, error)
}

// AccountFiles lists the stored files that belonged to a deleted account.
// They are removed from storage only after the row deletions commit.
type AccountFiles struct {
	ProfileImage string
	Features     []string
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrapLookup(err, "User", id)
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByUsername returns nil, nil when no user has the username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// CreateWithProfile inserts the user and its profile together. A missing
// profile is created empty with the placeholder image.
func (r *userRepository) CreateWithProfile(ctx context.Context, user *models.User) error {
	profile := user.Profile
	if profile == nil {
		profile = &models.Profile{}
	}
	if profile.ProfileImage == "" {
		profile.ProfileImage = models.NoImage
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Omit(clause.Associations).Create(profile).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Username or email already taken")
		}
		return models.NewInternalError(err)
	}
	user.Profile = profile
	r.log.LogCreate(ctx, map[string]interface{}{"id": user.ID})
	return nil
}

// DeleteAccount removes the user's profile, articles (with their tags,
// comments and likes), the user's own comments, likes, follows and blocks,
// then the user row, all in one transaction. It returns the file names the
// caller must delete once the transaction has committed.
func (r *userRepository) DeleteAccount(ctx context.Context, userID uint) (*AccountFiles, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "DeleteAccount", "users")
	defer span.End()

	files := &AccountFiles{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return wrapLookup(err, "User", userID)
		}

		var profile models.Profile
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		switch {
		case err == nil:
			files.ProfileImage = profile.ProfileImage
			if err := tx.Delete(&profile).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		var articles []models.Article
		if err := tx.Select("id", "feature").Where("user_id = ?", userID).Find(&articles).Error; err != nil {
			return err
		}
		ids := make([]uint, 0, len(articles))
		for _, a := range articles {
			ids = append(ids, a.ID)
			files.Features = append(files.Features, a.Feature)
		}
		if err := deleteArticles(tx, ids); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", userID, userID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blocker_id = ? OR blocked_id = ?", userID, userID).Delete(&models.Block{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		observability.RecordErrorInContext(ctx, err)
		r.log.LogError(ctx, err, "delete_account")
		return nil, wrapErr(err)
	}

	cache.InvalidateProfile(ctx, userID)
	r.log.LogDelete(ctx, map[string]interface{}{"id": userID, "articles": len(files.Features)})
	return files, nil
}
