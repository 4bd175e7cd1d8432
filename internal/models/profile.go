package models

import "time"

// NoImage is the stored image name meaning "no user-uploaded file exists".
const NoImage = "noimage.jpg"

// BirthdayLayout is the wire format of Profile.Birthday.
const BirthdayLayout = "2006-01-02"

// Profile holds the public details of a User. Exactly one per user.
type Profile struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User         *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Fullname     string     `gorm:"size:120" json:"fullname"`
	Gender       string     `gorm:"size:20" json:"gender"`
	Birthday     *time.Time `gorm:"type:date" json:"birthday,omitempty"`
	Bio          string     `gorm:"type:text" json:"bio"`
	ProfileImage string     `gorm:"size:255;not null;default:'noimage.jpg'" json:"profile_image"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// HasImage reports whether a custom profile image is stored.
func (p *Profile) HasImage() bool {
	return p.ProfileImage != "" && p.ProfileImage != NoImage
}
