package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const maxBioLen = 2000

type ProfileService struct {
	profiles  repository.ProfileRepository
	users     repository.UserRepository
	relations repository.RelationRepository
	uploads   *UploadService
}

// ProfileInput is the profile edit form. Image is nil when no file was sent.
type ProfileInput struct {
	ActorID  uint
	Fullname string
	Gender   string
	Birthday string
	Bio      string
	Image    *UploadedFile
}

// ProfileDetail is a profile as a viewer sees it. The relationship flags
// are all false for anonymous viewers.
type ProfileDetail struct {
	Profile *models.Profile `json:"profile"`
	models.Relationship
	Followers  []models.User `json:"followers"`
	Followings []models.User `json:"followings"`
	ImageURL   string        `json:"image_url"`
	ThumbURL   string        `json:"image_thumb_url"`
}

func NewProfileService(
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	relations repository.RelationRepository,
	uploads *UploadService,
) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		users:     users,
		relations: relations,
		uploads:   uploads,
	}
}

func (s *ProfileService) Show(ctx context.Context, id, viewer uint) (*ProfileDetail, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rel, err := lookupRelationship(ctx, s.relations, viewer, profile.UserID)
	if err != nil {
		return nil, err
	}
	followers, err := s.relations.Followers(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	followings, err := s.relations.Followings(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}

	detail := &ProfileDetail{
		Profile:      profile,
		Relationship: rel,
		Followers:    followers,
		Followings:   followings,
	}
	if profile.HasImage() {
		detail.ImageURL = s.uploads.URL(ProfileImageDir, profile.ProfileImage)
		detail.ThumbURL = s.uploads.ThumbnailURL(ProfileImageDir, profile.ProfileImage)
	}
	return detail, nil
}

// Update is owner only. Every text field is required; the image is replaced
// only when a new file is sent.
func (s *ProfileService) Update(ctx context.Context, id uint, in ProfileInput) (*models.Profile, error) {
	if err := requireViewer(in.ActorID); err != nil {
		return nil, err
	}
	in.Fullname = strings.TrimSpace(in.Fullname)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Bio = strings.TrimSpace(in.Bio)
	if in.Fullname == "" || in.Gender == "" || strings.TrimSpace(in.Birthday) == "" || in.Bio == "" {
		return nil, models.NewValidationError("Fullname, gender, birthday and bio are required")
	}
	if len(in.Fullname) > 120 || len(in.Gender) > 20 {
		return nil, models.NewValidationError("Fullname or gender too long")
	}
	if len(in.Bio) > maxBioLen {
		return nil, models.NewValidationError("Bio too long (max 2000 characters)")
	}
	birthday, err := time.Parse(models.BirthdayLayout, strings.TrimSpace(in.Birthday))
	if err != nil {
		return nil, models.NewValidationError("Birthday must be a date in YYYY-MM-DD format")
	}
	if birthday.After(time.Now()) {
		return nil, models.NewValidationError("Birthday cannot be in the future")
	}

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanModifyProfile(in.ActorID, profile) {
		return nil, models.NewForbiddenError("You can only edit your own profile")
	}

	profile.Fullname = in.Fullname
	profile.Gender = in.Gender
	profile.Birthday = &birthday
	profile.Bio = in.Bio

	_, err = s.uploads.Replace(ctx, ProfileImageDir, profile.ProfileImage, in.Image, func(name string) error {
		profile.ProfileImage = name
		return s.profiles.Update(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	return s.profiles.GetByID(ctx, id)
}

// Delete removes the whole account: profile, articles with their tags,
// comments and likes, the user's social edges and the user. Rows go in one
// transaction; stored files are removed only after it commits.
func (s *ProfileService) Delete(ctx context.Context, id, actor uint) error {
	span, ctx := observability.NewSpan(ctx, "ProfileService.Delete")
	defer span.End()

	if err := requireViewer(actor); err != nil {
		return err
	}
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanModifyProfile(actor, profile) {
		return models.NewForbiddenError("You can only delete your own profile")
	}

	files, err := s.users.DeleteAccount(ctx, profile.UserID)
	if err != nil {
		span.SetError(err)
		return err
	}
	span.AddAttributes(
		attribute.Int("user.id", int(profile.UserID)),
		attribute.Int("account.articles", len(files.Features)),
	)

	s.uploads.discard(ctx, ProfileImageDir, files.ProfileImage)
	for _, feature := range files.Features {
		s.uploads.discard(ctx, FeatureDir, feature)
	}
	return nil
}

func (s *ProfileService) EditData(ctx context.Context, id, actor uint) (*models.Profile, error) {
	if err := requireViewer(actor); err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanModifyProfile(actor, profile) {
		return nil, models.NewForbiddenError("You can only edit your own profile")
	}
	return profile, nil
}
