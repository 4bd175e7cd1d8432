package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArticleService(t *testing.T, articles *articleRepoStub, categories *categoryRepoStub, comments *commentRepoStub) (*ArticleService, *UploadService, *storage.MemoryStore) {
	t.Helper()
	uploads, store := newUploads(t, false)
	return NewArticleService(articles, categories, comments, &profileRepoStub{}, uploads), uploads, store
}

func TestParseTags(t *testing.T) {
	tags, err := ParseTags(" go, web ,, go,Go ")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web", "Go"}, tags)

	tags, err = ParseTags("")
	require.NoError(t, err)
	assert.Empty(t, tags)

	_, err = ParseTags("ok, a/b")
	assertCode(t, models.CodeValidation, err)
}

func TestArticleService_Create_Validation(t *testing.T) {
	svc, _, store := newArticleService(t, &articleRepoStub{}, &categoryRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return nil, models.NewNotFoundError("Category", id)
		},
	}, &commentRepoStub{})
	ctx := context.Background()

	tests := []struct {
		name string
		in   ArticleInput
		code string
	}{
		{name: "anonymous", in: ArticleInput{Title: "t", Content: "c", CategoryID: 1}, code: models.CodeUnauthorized},
		{name: "missing title", in: ArticleInput{ActorID: 1, Content: "c", CategoryID: 1}, code: models.CodeValidation},
		{name: "missing content", in: ArticleInput{ActorID: 1, Title: "t", CategoryID: 1}, code: models.CodeValidation},
		{name: "missing category", in: ArticleInput{ActorID: 1, Title: "t", Content: "c"}, code: models.CodeValidation},
		{name: "unknown category", in: ArticleInput{ActorID: 1, Title: "t", Content: "c", CategoryID: 9}, code: models.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assertCode(t, tt.code, err)
		})
	}
	assert.Empty(t, store.Keys())
}

func TestArticleService_CreateUsesCreateOrAttach(t *testing.T) {
	var gotMode repository.TagSyncMode
	var gotTags []string
	var saved *models.Article
	articles := &articleRepoStub{
		createWithTagsFn: func(_ context.Context, a *models.Article, tags []string, mode repository.TagSyncMode) error {
			a.ID = 42
			saved, gotTags, gotMode = a, tags, mode
			return nil
		},
	}
	svc, _, store := newArticleService(t, articles, &categoryRepoStub{}, &commentRepoStub{})

	article, err := svc.Create(context.Background(), ArticleInput{
		ActorID: 7, Title: " Hello ", Content: "body", CategoryID: 3, Tags: "go, web",
		Feature: pngFile(t, "cover.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), article.ID)

	assert.Equal(t, repository.TagSyncCreateOrAttach, gotMode)
	assert.Equal(t, []string{"go", "web"}, gotTags)
	assert.Equal(t, "Hello", saved.Title)
	assert.Equal(t, uint(7), saved.UserID)
	assert.Equal(t, []string{"features/" + saved.Feature}, store.Keys())
}

func TestArticleService_CreateWithoutFeatureUsesPlaceholder(t *testing.T) {
	var saved *models.Article
	svc, _, store := newArticleService(t, &articleRepoStub{
		createWithTagsFn: func(_ context.Context, a *models.Article, _ []string, _ repository.TagSyncMode) error {
			saved = a
			return nil
		},
	}, &categoryRepoStub{}, &commentRepoStub{})

	_, err := svc.Create(context.Background(), ArticleInput{ActorID: 1, Title: "t", Content: "c", CategoryID: 1})
	require.NoError(t, err)
	assert.Equal(t, models.NoImage, saved.Feature)
	assert.Empty(t, store.Keys())
}

func TestArticleService_CreateRemovesFileWhenInsertFails(t *testing.T) {
	svc, _, store := newArticleService(t, &articleRepoStub{
		createWithTagsFn: func(context.Context, *models.Article, []string, repository.TagSyncMode) error {
			return models.NewInternalError(errors.New("tx aborted"))
		},
	}, &categoryRepoStub{}, &commentRepoStub{})

	_, err := svc.Create(context.Background(), ArticleInput{
		ActorID: 1, Title: "t", Content: "c", CategoryID: 1, Feature: pngFile(t, "x.png"),
	})
	assertCode(t, models.CodeInternal, err)
	assert.Empty(t, store.Keys())
}

func ownedArticle(owner uint, feature string) func(context.Context, uint, uint) (*models.Article, error) {
	return func(_ context.Context, id, _ uint) (*models.Article, error) {
		return &models.Article{
			ID: id, UserID: owner, CategoryID: 1, Title: "old", Content: "old", Feature: feature,
			Tags: []models.Tag{{Name: "go"}, {Name: "sql"}},
		}, nil
	}
}

func TestArticleService_UpdateUsesReplaceAll(t *testing.T) {
	var gotMode repository.TagSyncMode
	var gotTags []string
	articles := &articleRepoStub{
		getByIDFn: ownedArticle(5, models.NoImage),
		updateWithTagsFn: func(_ context.Context, _ *models.Article, tags []string, mode repository.TagSyncMode) error {
			gotTags, gotMode = tags, mode
			return nil
		},
	}
	svc, _, _ := newArticleService(t, articles, &categoryRepoStub{}, &commentRepoStub{})

	_, err := svc.Update(context.Background(), 1, ArticleInput{ActorID: 5, Title: "new", Content: "new"})
	require.NoError(t, err)
	assert.Equal(t, repository.TagSyncReplaceAll, gotMode)
	assert.Empty(t, gotTags, "empty tag field clears tags")
}

func TestArticleService_UpdateForbiddenForNonOwner(t *testing.T) {
	called := false
	svc, _, store := newArticleService(t, &articleRepoStub{
		getByIDFn: ownedArticle(5, models.NoImage),
		updateWithTagsFn: func(context.Context, *models.Article, []string, repository.TagSyncMode) error {
			called = true
			return nil
		},
	}, &categoryRepoStub{}, &commentRepoStub{})

	_, err := svc.Update(context.Background(), 1, ArticleInput{ActorID: 6, Title: "t", Content: "c", Feature: pngFile(t, "x.png")})
	assertCode(t, models.CodeForbidden, err)
	assert.False(t, called)
	assert.Empty(t, store.Keys())
}

func TestArticleService_UpdateFeature(t *testing.T) {
	ctx := context.Background()

	t.Run("new file replaces old", func(t *testing.T) {
		uploads, store := newUploads(t, false)
		old, err := uploads.Store(ctx, FeatureDir, pngFile(t, "old.png"))
		require.NoError(t, err)

		var saved string
		svc := NewArticleService(&articleRepoStub{
			getByIDFn: ownedArticle(5, old),
			updateWithTagsFn: func(_ context.Context, a *models.Article, _ []string, _ repository.TagSyncMode) error {
				saved = a.Feature
				return nil
			},
		}, &categoryRepoStub{}, &commentRepoStub{}, &profileRepoStub{}, uploads)

		_, err = svc.Update(ctx, 1, ArticleInput{ActorID: 5, Title: "t", Content: "c", Feature: pngFile(t, "new.png")})
		require.NoError(t, err)
		assert.NotEqual(t, old, saved)
		assert.Equal(t, []string{"features/" + saved}, store.Keys())
	})

	t.Run("no file keeps old", func(t *testing.T) {
		uploads, store := newUploads(t, false)
		old, err := uploads.Store(ctx, FeatureDir, pngFile(t, "old.png"))
		require.NoError(t, err)

		var saved string
		svc := NewArticleService(&articleRepoStub{
			getByIDFn: ownedArticle(5, old),
			updateWithTagsFn: func(_ context.Context, a *models.Article, _ []string, _ repository.TagSyncMode) error {
				saved = a.Feature
				return nil
			},
		}, &categoryRepoStub{}, &commentRepoStub{}, &profileRepoStub{}, uploads)

		_, err = svc.Update(ctx, 1, ArticleInput{ActorID: 5, Title: "t", Content: "c", Tags: "go"})
		require.NoError(t, err)
		assert.Equal(t, old, saved)
		assert.Equal(t, []string{"features/" + old}, store.Keys())
	})
}

func TestArticleService_UpdateChecksNewCategory(t *testing.T) {
	svc, _, _ := newArticleService(t, &articleRepoStub{getByIDFn: ownedArticle(5, models.NoImage)}, &categoryRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return nil, models.NewNotFoundError("Category", id)
		},
	}, &commentRepoStub{})

	_, err := svc.Update(context.Background(), 1, ArticleInput{ActorID: 5, Title: "t", Content: "c", CategoryID: 99})
	assertCode(t, models.CodeValidation, err)
}

func TestArticleService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes row then file", func(t *testing.T) {
		uploads, store := newUploads(t, false)
		feature, err := uploads.Store(ctx, FeatureDir, pngFile(t, "f.png"))
		require.NoError(t, err)

		var order []string
		svc := NewArticleService(&articleRepoStub{
			getByIDFn: ownedArticle(5, feature),
			deleteFn: func(context.Context, uint) error {
				exists, _ := store.Exists(ctx, "features/"+feature)
				assert.True(t, exists, "file survives until the rows are gone")
				order = append(order, "rows")
				return nil
			},
		}, &categoryRepoStub{}, &commentRepoStub{}, &profileRepoStub{}, uploads)

		require.NoError(t, svc.Delete(ctx, 1, 5))
		assert.Equal(t, []string{"rows"}, order)
		assert.Empty(t, store.Keys())
	})

	t.Run("placeholder feature is never deleted", func(t *testing.T) {
		uploads, store := newUploads(t, false)
		svc := NewArticleService(&articleRepoStub{getByIDFn: ownedArticle(5, models.NoImage)}, &categoryRepoStub{}, &commentRepoStub{}, &profileRepoStub{}, uploads)

		require.NoError(t, svc.Delete(ctx, 1, 5))
		assert.Empty(t, store.Deletes())
	})

	t.Run("failed row delete keeps the file", func(t *testing.T) {
		uploads, store := newUploads(t, false)
		feature, err := uploads.Store(ctx, FeatureDir, pngFile(t, "f.png"))
		require.NoError(t, err)
		svc := NewArticleService(&articleRepoStub{
			getByIDFn: ownedArticle(5, feature),
			deleteFn: func(context.Context, uint) error {
				return models.NewInternalError(errors.New("boom"))
			},
		}, &categoryRepoStub{}, &commentRepoStub{}, &profileRepoStub{}, uploads)

		assertCode(t, models.CodeInternal, svc.Delete(ctx, 1, 5))
		assert.Equal(t, []string{"features/" + feature}, store.Keys())
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		deleted := false
		svc, _, _ := newArticleService(t, &articleRepoStub{
			getByIDFn: ownedArticle(5, models.NoImage),
			deleteFn:  func(context.Context, uint) error { deleted = true; return nil },
		}, &categoryRepoStub{}, &commentRepoStub{})

		assertCode(t, models.CodeForbidden, svc.Delete(ctx, 1, 6))
		assert.False(t, deleted)
	})
}

func TestArticleService_ShowFiltersCommentsForViewer(t *testing.T) {
	var gotViewer uint
	svc, _, _ := newArticleService(t, &articleRepoStub{
		getByIDFn: func(_ context.Context, id, viewer uint) (*models.Article, error) {
			return &models.Article{ID: id, Liked: viewer == 3, LikesCount: 2, Feature: models.NoImage}, nil
		},
		likersFn: func(context.Context, uint) ([]models.User, error) {
			return []models.User{{ID: 3}, {ID: 4}}, nil
		},
	}, &categoryRepoStub{}, &commentRepoStub{
		listVisibleFn: func(_ context.Context, _ uint, viewer uint) ([]models.Comment, error) {
			gotViewer = viewer
			return []models.Comment{{ID: 1}}, nil
		},
	})

	detail, err := svc.Show(context.Background(), 10, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), gotViewer)
	assert.True(t, detail.Liked)
	assert.Equal(t, 2, detail.LikesCount)
	assert.Len(t, detail.Likers, 2)
	assert.Len(t, detail.Comments, 1)
	assert.Empty(t, detail.FeatureURL)
}

func TestArticleService_ShowAuthorCardAndThumbnail(t *testing.T) {
	ctx := context.Background()
	uploads, _ := newUploads(t, true)
	feature, err := uploads.Store(ctx, FeatureDir, pngFile(t, "cover.png"))
	require.NoError(t, err)

	articles := &articleRepoStub{
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Article, error) {
			return &models.Article{ID: id, UserID: 7, Feature: feature}, nil
		},
	}

	var askedFor uint
	profiles := &profileRepoStub{
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			askedFor = userID
			return &models.Profile{ID: 70, UserID: userID, Fullname: "Ada Writer"}, nil
		},
	}
	svc := NewArticleService(articles, &categoryRepoStub{}, &commentRepoStub{}, profiles, uploads)

	detail, err := svc.Show(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(7), askedFor)
	require.NotNil(t, detail.Author)
	assert.Equal(t, "Ada Writer", detail.Author.Fullname)
	assert.Equal(t, "/storage/features/"+feature, detail.FeatureURL)
	assert.Equal(t, uploads.ThumbnailURL(FeatureDir, feature), detail.FeatureThumbURL)
	assert.NotEmpty(t, detail.FeatureThumbURL)

	t.Run("missing profile leaves the card empty", func(t *testing.T) {
		profiles.getByUserIDFn = func(_ context.Context, userID uint) (*models.Profile, error) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		detail, err := svc.Show(ctx, 1, 0)
		require.NoError(t, err)
		assert.Nil(t, detail.Author)
	})

	t.Run("profile lookup failure surfaces", func(t *testing.T) {
		profiles.getByUserIDFn = func(context.Context, uint) (*models.Profile, error) {
			return nil, models.NewInternalError(errors.New("db down"))
		}
		_, err := svc.Show(ctx, 1, 0)
		assertCode(t, models.CodeInternal, err)
	})
}

func TestArticleService_ListRequiresViewer(t *testing.T) {
	svc, _, _ := newArticleService(t, &articleRepoStub{}, &categoryRepoStub{}, &commentRepoStub{})
	_, err := svc.List(context.Background(), 0, 20, 0)
	assertCode(t, models.CodeUnauthorized, err)
}

func TestArticleService_EditData(t *testing.T) {
	svc, _, _ := newArticleService(t, &articleRepoStub{getByIDFn: ownedArticle(5, models.NoImage)}, &categoryRepoStub{
		listFn: func(context.Context) ([]models.Category, error) {
			return []models.Category{{ID: 1, Name: "A"}}, nil
		},
	}, &commentRepoStub{})

	data, err := svc.EditData(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "go, sql", data.Tags)
	assert.Len(t, data.Categories, 1)

	_, err = svc.EditData(context.Background(), 1, 6)
	assertCode(t, models.CodeForbidden, err)
}

func TestArticleService_LikeChecksArticle(t *testing.T) {
	liked := false
	svc, _, _ := newArticleService(t, &articleRepoStub{
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Article, error) {
			return nil, models.NewNotFoundError("Article", id)
		},
		likeFn: func(context.Context, uint, uint) error { liked = true; return nil },
	}, &categoryRepoStub{}, &commentRepoStub{})

	_, err := svc.Like(context.Background(), 1, 2)
	assertCode(t, models.CodeNotFound, err)
	assert.False(t, liked)
}
