package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	CategoriesKey    = "categories:all"
	ProfileKeyPrefix = "profile:%d"
)

const (
	CategoriesTTL = 10 * time.Minute
	ProfileTTL    = 5 * time.Minute
)

// ProfileKey is keyed by the owning user's id.
func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProfile(ctx context.Context, userID uint) {
	Invalidate(ctx, ProfileKey(userID))
}

func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoriesKey)
}
