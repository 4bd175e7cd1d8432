package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func followingIDs(t *testing.T, db *gorm.DB, userID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&models.Follow{}).Where("follower_id = ?", userID).Order("id ASC").Pluck("followed_id", &ids).Error)
	return ids
}

func followerIDs(t *testing.T, db *gorm.DB, userID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&models.Follow{}).Where("followed_id = ?", userID).Order("id ASC").Pluck("follower_id", &ids).Error)
	return ids
}

// blocksInvolving returns every block edge where userID is either side.
func blocksInvolving(t *testing.T, db *gorm.DB, userID uint) []models.Block {
	t.Helper()
	var edges []models.Block
	require.NoError(t, db.Where("blocker_id = ? OR blocked_id = ?", userID, userID).Order("id ASC").Find(&edges).Error)
	return edges
}

func TestRelationRepository_FollowIsDirectedAndIdempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewRelationRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	created, err := repo.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)

	following, err := repo.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	reverse, err := repo.IsFollowing(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	followers, err := repo.Followers(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	followings, err := repo.Followings(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, followings, 1)
	assert.Equal(t, b.ID, followings[0].ID)

	require.NoError(t, repo.Unfollow(ctx, a.ID, b.ID))
	assert.Empty(t, followingIDs(t, db, a.ID))
}

func TestRelationRepository_BlockIsDirected(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewRelationRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")
	c := testutil.CreateUser(t, db, "carol")

	require.NoError(t, repo.Block(ctx, a.ID, b.ID))
	require.NoError(t, repo.Block(ctx, a.ID, b.ID))
	require.NoError(t, repo.Block(ctx, c.ID, a.ID))

	blocking, err := repo.IsBlocking(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, blocking)

	reverse, err := repo.IsBlocking(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	assert.Len(t, blocksInvolving(t, db, a.ID), 2)

	require.NoError(t, repo.Unblock(ctx, a.ID, b.ID))
	assert.Empty(t, blocksInvolving(t, db, b.ID))
}
