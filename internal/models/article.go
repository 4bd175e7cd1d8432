package models

import "time"

// Article is a blog post written by a user.
type Article struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Feature    string    `gorm:"size:255;not null;default:'noimage.jpg'" json:"feature"`
	Tags       []Tag     `gorm:"many2many:article_tag;" json:"tags,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`
	// Liked indicates whether the requesting viewer liked this article (computed)
	Liked     bool      `gorm:"->;-:migration" json:"liked"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasFeature reports whether a custom feature image is stored.
func (a Article) HasFeature() bool {
	return a.Feature != "" && a.Feature != NoImage
}

// TagNames returns the names of the attached tags in order.
func (a Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Name)
	}
	return names
}

// AuthorID returns the id of the user who wrote the article.
func (a Article) AuthorID() uint { return a.UserID }
