// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "Password123!"

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db       *gorm.DB
	opts     Options
	users    repository.UserRepository
	articles repository.ArticleRepository
	rng      *rand.Rand
	hash     string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	cost := bcrypt.DefaultCost
	if opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	// One hash serves every seeded user.
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)

	return &Factory{
		db:       db,
		opts:     opts,
		users:    repository.NewUserRepository(db),
		articles: repository.NewArticleRepository(db),
		// #nosec G404: acceptable for seeding
		rng:  rand.New(rand.NewSource(seed)),
		hash: string(hash),
	}, nil
}

// CreateUser constructs and persists a user with a filled-in profile.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	person := gofakeit.Person()
	username := strings.ToLower(fmt.Sprintf("%s_%s%d", person.FirstName, person.LastName, gofakeit.Number(10, 9999)))
	username = sanitizeUsername(username)
	birthday := gofakeit.DateRange(time.Now().AddDate(-70, 0, 0), time.Now().AddDate(-16, 0, 0))

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: f.hash,
		Profile: &models.Profile{
			Fullname:     person.FirstName + " " + person.LastName,
			Gender:       person.Gender,
			Birthday:     &birthday,
			Bio:          gofakeit.Sentence(12),
			ProfileImage: models.NoImage,
		},
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.users.CreateWithProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildArticle constructs an article without persisting it. CreatedAt is
// spread over the last MaxDays days.
func (f *Factory) BuildArticle(author *models.User, category *models.Category) *models.Article {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute

	title := strings.TrimSuffix(gofakeit.Sentence(f.rng.Intn(6)+3), ".")
	return &models.Article{
		UserID:     author.ID,
		CategoryID: category.ID,
		Title:      title,
		Content:    gofakeit.Paragraph(f.rng.Intn(3)+1, 4, 10, "\n\n"),
		Feature:    models.NoImage,
		CreatedAt:  time.Now().Add(-back),
	}
}

// CreateArticle persists a generated article with up to three tags from pool.
func (f *Factory) CreateArticle(ctx context.Context, author *models.User, category *models.Category, pool []string) (*models.Article, error) {
	article := f.BuildArticle(author, category)
	tags := f.pick(pool, f.rng.Intn(4))
	if err := f.articles.CreateWithTags(ctx, article, tags, repository.TagSyncCreateOrAttach); err != nil {
		return nil, err
	}
	return article, nil
}

// CreateComment persists a comment by user on article.
func (f *Factory) CreateComment(ctx context.Context, user *models.User, article *models.Article) (*models.Comment, error) {
	comment := &models.Comment{
		ArticleID: article.ID,
		UserID:    user.ID,
		Body:      gofakeit.Sentence(f.rng.Intn(15) + 4),
	}
	if err := f.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from user on article; repeats are ignored.
func (f *Factory) CreateLike(ctx context.Context, user *models.User, article *models.Article) error {
	return f.articles.Like(ctx, user.ID, article.ID)
}

func (f *Factory) pick(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, 0, n)
	for _, i := range f.rng.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

// sanitizeUsername keeps what the signup validator accepts.
func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
		if b.Len() == 30 {
			break
		}
	}
	return strings.Trim(b.String(), "_")
}
