package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type ArticleService struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
	comments   repository.CommentRepository
	profiles   repository.ProfileRepository
	uploads    *UploadService
}

// ArticleInput carries the create and update form. Tags is the raw comma
// separated field; Feature is nil when no file was sent.
type ArticleInput struct {
	ActorID    uint
	Title      string
	Content    string
	CategoryID uint
	Tags       string
	Feature    *UploadedFile
}

// ArticleDetail is what a viewer sees on an article page.
type ArticleDetail struct {
	Article    *models.Article  `json:"article"`
	Comments   []models.Comment `json:"comments"`
	Liked      bool             `json:"liked"`
	LikesCount int              `json:"likes_count"`
	Likers     []models.User    `json:"likers"`
	FeatureURL string           `json:"feature_url"`

	// FeatureThumbURL is empty when thumbnails are off or there is no feature.
	FeatureThumbURL string          `json:"feature_thumb_url"`
	Author          *models.Profile `json:"author_profile,omitempty"`
}

// ArticleEditData backs the edit form.
type ArticleEditData struct {
	Article    *models.Article   `json:"article"`
	Categories []models.Category `json:"categories"`
	Tags       string            `json:"tags"`
}

func NewArticleService(
	articles repository.ArticleRepository,
	categories repository.CategoryRepository,
	comments repository.CommentRepository,
	profiles repository.ProfileRepository,
	uploads *UploadService,
) *ArticleService {
	return &ArticleService{
		articles:   articles,
		categories: categories,
		comments:   comments,
		profiles:   profiles,
		uploads:    uploads,
	}
}

// ParseTags splits the comma separated tag field into trimmed, unique names
// in input order.
func ParseTags(raw string) ([]string, error) {
	var tags []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		if err := validation.ValidateTagName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	return tags, nil
}

func (s *ArticleService) Create(ctx context.Context, in ArticleInput) (*models.Article, error) {
	span, ctx := observability.NewSpan(ctx, "ArticleService.Create")
	defer span.End()

	if err := requireViewer(in.ActorID); err != nil {
		return nil, err
	}
	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if in.CategoryID == 0 {
		return nil, models.NewValidationError("Category is required")
	}
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	tags, err := ParseTags(in.Tags)
	if err != nil {
		return nil, err
	}

	feature, err := s.uploads.Store(ctx, FeatureDir, in.Feature)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	article := &models.Article{
		UserID:     in.ActorID,
		CategoryID: in.CategoryID,
		Title:      strings.TrimSpace(in.Title),
		Content:    in.Content,
		Feature:    feature,
	}
	if err := s.articles.CreateWithTags(ctx, article, tags, repository.TagSyncCreateOrAttach); err != nil {
		s.uploads.discard(ctx, FeatureDir, feature)
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int("article.id", int(article.ID)), attribute.Int("article.tags", len(tags)))

	return s.articles.GetByID(ctx, article.ID, in.ActorID)
}

// Show loads an article as viewer sees it. Comments go through the block
// filter; viewer 0 is anonymous.
func (s *ArticleService) Show(ctx context.Context, id, viewer uint) (*ArticleDetail, error) {
	article, err := s.articles.GetByID(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListVisible(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	likers, err := s.articles.Likers(ctx, id)
	if err != nil {
		return nil, err
	}
	// The author card is read through the profile cache.
	author, err := s.profiles.GetByUserID(ctx, article.UserID)
	if err != nil && models.ErrorCode(err) != models.CodeNotFound {
		return nil, err
	}
	return &ArticleDetail{
		Article:         article,
		Comments:        comments,
		Liked:           article.Liked,
		LikesCount:      article.LikesCount,
		Likers:          likers,
		FeatureURL:      s.featureURL(article),
		FeatureThumbURL: s.uploads.ThumbnailURL(FeatureDir, article.Feature),
		Author:          author,
	}, nil
}

// Update is owner only. Tags are replaced wholesale; an empty field clears
// them. The feature is swapped only when a new file is sent.
func (s *ArticleService) Update(ctx context.Context, id uint, in ArticleInput) (*models.Article, error) {
	span, ctx := observability.NewSpan(ctx, "ArticleService.Update")
	defer span.End()

	if err := requireViewer(in.ActorID); err != nil {
		return nil, err
	}
	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	tags, err := ParseTags(in.Tags)
	if err != nil {
		return nil, err
	}

	article, err := s.articles.GetByID(ctx, id, 0)
	if err != nil {
		return nil, err
	}
	if !CanModifyArticle(in.ActorID, article) {
		return nil, models.NewForbiddenError("You can only edit your own articles")
	}
	if in.CategoryID != 0 && in.CategoryID != article.CategoryID {
		if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		article.CategoryID = in.CategoryID
	}
	article.Title = strings.TrimSpace(in.Title)
	article.Content = in.Content

	_, err = s.uploads.Replace(ctx, FeatureDir, article.Feature, in.Feature, func(name string) error {
		article.Feature = name
		return s.articles.UpdateWithTags(ctx, article, tags, repository.TagSyncReplaceAll)
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	return s.articles.GetByID(ctx, id, in.ActorID)
}

// Delete is owner only. The feature file goes after the rows are gone.
func (s *ArticleService) Delete(ctx context.Context, id, actor uint) error {
	if err := requireViewer(actor); err != nil {
		return err
	}
	article, err := s.articles.GetByID(ctx, id, 0)
	if err != nil {
		return err
	}
	if !CanModifyArticle(actor, article) {
		return models.NewForbiddenError("You can only delete your own articles")
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return err
	}
	s.uploads.discard(ctx, FeatureDir, article.Feature)
	return nil
}

// List is the viewer's home listing: their own articles and those of
// everyone they follow or who follows them.
func (s *ArticleService) List(ctx context.Context, viewer uint, limit, offset int) ([]models.Article, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	return s.articles.ListFeed(ctx, viewer, limit, offset)
}

func (s *ArticleService) EditData(ctx context.Context, id, actor uint) (*ArticleEditData, error) {
	if err := requireViewer(actor); err != nil {
		return nil, err
	}
	article, err := s.articles.GetByID(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !CanModifyArticle(actor, article) {
		return nil, models.NewForbiddenError("You can only edit your own articles")
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ArticleEditData{
		Article:    article,
		Categories: categories,
		Tags:       strings.Join(article.TagNames(), ", "),
	}, nil
}

// Like is idempotent and returns the article with fresh counters.
func (s *ArticleService) Like(ctx context.Context, id, actor uint) (*models.Article, error) {
	if err := requireViewer(actor); err != nil {
		return nil, err
	}
	if _, err := s.articles.GetByID(ctx, id, 0); err != nil {
		return nil, err
	}
	if err := s.articles.Like(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.articles.GetByID(ctx, id, actor)
}

func (s *ArticleService) Unlike(ctx context.Context, id, actor uint) (*models.Article, error) {
	if err := requireViewer(actor); err != nil {
		return nil, err
	}
	if _, err := s.articles.GetByID(ctx, id, 0); err != nil {
		return nil, err
	}
	if err := s.articles.Unlike(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.articles.GetByID(ctx, id, actor)
}

func (s *ArticleService) ensureCategory(ctx context.Context, id uint) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return models.NewValidationError("Selected category does not exist")
		}
		return err
	}
	return nil
}

func (s *ArticleService) featureURL(a *models.Article) string {
	if !a.HasFeature() {
		return ""
	}
	return s.uploads.URL(FeatureDir, a.Feature)
}
