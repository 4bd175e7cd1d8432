package models

import "time"

// Like represents a user's like on an article.
// The combination of UserID and ArticleID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_article" json:"user_id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_like_user_article;index" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}
