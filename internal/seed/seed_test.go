package seed

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadCatalog_Embedded(t *testing.T) {
	c, err := LoadCatalog(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Categories)
	for _, e := range c.Categories {
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Tags, e.Name)
	}
	assert.Contains(t, c.TagsFor("Programming"), "go")
	assert.Nil(t, c.TagsFor("Nope"))
}

func TestLoadCatalog_Rejects(t *testing.T) {
	_, err := LoadCatalog([]byte("categories: []"))
	assert.Error(t, err)
	_, err = LoadCatalog([]byte("categories: [unterminated"))
	assert.Error(t, err)
}

func TestSanitizeUsername(t *testing.T) {
	assert.Equal(t, "jo_smith12", sanitizeUsername("jo-_smith12!"))
	assert.Equal(t, "abc", sanitizeUsername("__abc__"))
	assert.Len(t, sanitizeUsername("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), 30)
}

func TestFactory_CreateUser(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f, err := NewFactory(db, Options{SkipBcrypt: true, RandSeed: 7})
	require.NoError(t, err)

	user, err := f.CreateUser(context.Background(), func(u *models.User) { u.Username = "fixed" })
	require.NoError(t, err)
	assert.Equal(t, "fixed", user.Username)
	require.NotNil(t, user.Profile)
	assert.Equal(t, user.ID, user.Profile.UserID)
	assert.Equal(t, models.NoImage, user.Profile.ProfileImage)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(DefaultPassword)))
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	s, err := NewSeeder(db, Options{NumUsers: 8, NumArticles: 20, SkipBcrypt: true, MaxDays: 10, RandSeed: 42})
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, res.Users)
	assert.Equal(t, 20, res.Articles)

	var n int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&n).Error)
	assert.Equal(t, int64(8), n, "every user has a profile")
	require.NoError(t, db.Model(&models.Article{}).Count(&n).Error)
	assert.Equal(t, int64(20), n)
	require.NoError(t, db.Model(&models.Category{}).Count(&n).Error)
	assert.Equal(t, int64(res.Categories), n)
	require.NoError(t, db.Model(&models.Follow{}).Where("follower_id = followed_id").Count(&n).Error)
	assert.Zero(t, n, "nobody follows themselves")
	require.NoError(t, db.Model(&models.Comment{}).Count(&n).Error)
	assert.Equal(t, int64(res.Comments), n)
	require.NoError(t, db.Model(&models.Like{}).Count(&n).Error)
	assert.Equal(t, int64(res.Likes), n)
}

func TestSeeder_ClearAllThenReseed(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	s, err := NewSeeder(db, Options{NumUsers: 3, NumArticles: 4, SkipBcrypt: true, RandSeed: 1})
	require.NoError(t, err)

	_, err = s.Run(ctx)
	require.NoError(t, err)
	require.NoError(t, s.ClearAll(ctx))

	for _, model := range []interface{}{&models.User{}, &models.Article{}, &models.Tag{}, &models.Category{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T", model)
	}

	categories, err := s.SeedCategories(ctx)
	require.NoError(t, err)
	again, err := s.SeedCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(categories), len(again), "categories are created once")
}
