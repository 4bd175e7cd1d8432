package repository

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_CRUD(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	books := &models.Category{Name: "Books"}
	require.NoError(t, repo.Create(ctx, books))
	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Art"}))
	assert.Equal(t, models.CodeConflict, models.ErrorCode(repo.Create(ctx, &models.Category{Name: "Books"})))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Art", list[0].Name)

	books.Name = "Novels"
	require.NoError(t, repo.Update(ctx, books))
	got, err := repo.GetByID(ctx, books.ID)
	require.NoError(t, err)
	assert.Equal(t, "Novels", got.Name)

	assert.Equal(t, models.CodeNotFound, models.ErrorCode(repo.Update(ctx, &models.Category{ID: 999, Name: "x"})))
	require.NoError(t, repo.Delete(ctx, books.ID))
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(repo.Delete(ctx, books.ID)))
}

func TestCategoryRepository_DeleteInUse(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewCategoryRepository(db)

	u := testutil.CreateUser(t, db, "writer")
	cat := testutil.CreateCategory(t, db, "Busy")
	testutil.CreateArticle(t, db, u, cat, "a", time.Now())

	err := repo.Delete(context.Background(), cat.ID)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
}

func TestProfileRepository_UpdateAndLookup(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "writer")
	profile, err := repo.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.User)

	bday := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)
	profile.Fullname = "Writer Person"
	profile.Birthday = &bday
	profile.ProfileImage = "face_1.png"
	require.NoError(t, repo.Update(ctx, profile))

	reloaded, err := repo.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Writer Person", reloaded.Fullname)
	assert.Equal(t, "face_1.png", reloaded.ProfileImage)
	require.NotNil(t, reloaded.Birthday)
	assert.Equal(t, "1990-04-02", reloaded.Birthday.Format(models.BirthdayLayout))

	_, err = repo.GetByID(ctx, 999)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}
