// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumArticles int
	ShouldClean bool
	// SkipBcrypt hashes the shared password with the minimum cost.
	SkipBcrypt bool
	// MaxDays bounds how far back article timestamps are spread.
	MaxDays int
	// RandSeed makes a run reproducible; zero picks a time-based seed.
	RandSeed int64
}

// Result counts what a run created.
type Result struct {
	Categories int
	Users      int
	Articles   int
	Follows    int
	Blocks     int
	Comments   int
	Likes      int
}

// Seeder populates a database with a connected social graph.
type Seeder struct {
	db        *gorm.DB
	opts      Options
	factory   *Factory
	relations repository.RelationRepository
	catalog   *Catalog
}

// NewSeeder returns a Seeder using the embedded category catalogue.
func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	factory, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}
	catalog, err := LoadCatalog(nil)
	if err != nil {
		return nil, err
	}
	return &Seeder{
		db:        db,
		opts:      opts,
		factory:   factory,
		relations: repository.NewRelationRepository(db),
		catalog:   catalog,
	}, nil
}

// ClearAll deletes every row in dependency order. Plain DELETEs work on
// both Postgres and SQLite.
func (s *Seeder) ClearAll(ctx context.Context) error {
	log.Println("🗑️  Clearing existing data...")
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := tx.Exec("DELETE FROM article_tag").Error; err != nil {
		return fmt.Errorf("clear article_tag: %w", err)
	}
	for _, model := range []interface{}{
		&models.Like{}, &models.Comment{}, &models.Article{}, &models.Tag{},
		&models.Follow{}, &models.Block{}, &models.Profile{}, &models.User{}, &models.Category{},
	} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// SeedCategories creates every catalogue category that does not exist yet.
func (s *Seeder) SeedCategories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.catalog.Categories))
	for _, entry := range s.catalog.Categories {
		var category models.Category
		if err := s.db.WithContext(ctx).Where(models.Category{Name: entry.Name}).FirstOrCreate(&category).Error; err != nil {
			return nil, fmt.Errorf("seed category %q: %w", entry.Name, err)
		}
		out = append(out, category)
	}
	return out, nil
}

// SeedUsers creates n users with profiles. Username collisions are retried.
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for attempts := 0; len(users) < n && attempts < n*3; attempts++ {
		user, err := s.factory.CreateUser(ctx)
		if err != nil {
			if models.ErrorCode(err) == models.CodeConflict {
				continue
			}
			return nil, err
		}
		users = append(users, user)
		if len(users)%100 == 0 {
			log.Printf("Created %d users...", len(users))
		}
	}
	if len(users) < n {
		return users, fmt.Errorf("created %d of %d users", len(users), n)
	}
	return users, nil
}

// SeedArticles spreads n articles over users and categories.
func (s *Seeder) SeedArticles(ctx context.Context, users []*models.User, categories []models.Category, n int) ([]*models.Article, error) {
	if len(users) == 0 || len(categories) == 0 {
		return nil, nil
	}
	rng := s.factory.rng
	articles := make([]*models.Article, 0, n)
	for i := 0; i < n; i++ {
		author := users[rng.Intn(len(users))]
		category := &categories[rng.Intn(len(categories))]
		article, err := s.factory.CreateArticle(ctx, author, category, s.catalog.TagsFor(category.Name))
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// SeedSocialGraph makes every user follow a handful of others and
// occasionally block one. It returns the follow and block counts.
func (s *Seeder) SeedSocialGraph(ctx context.Context, users []*models.User) (int, int, error) {
	if len(users) < 2 {
		return 0, 0, nil
	}
	rng := s.factory.rng
	follows, blocks := 0, 0
	for _, user := range users {
		for i := 0; i < rng.Intn(6)+1; i++ {
			other := users[rng.Intn(len(users))]
			if other.ID == user.ID {
				continue
			}
			created, err := s.relations.Follow(ctx, user.ID, other.ID)
			if err != nil {
				return follows, blocks, err
			}
			if created {
				follows++
			}
		}
		if rng.Intn(10) == 0 {
			other := users[rng.Intn(len(users))]
			if other.ID == user.ID {
				continue
			}
			if err := s.relations.Block(ctx, user.ID, other.ID); err != nil {
				return follows, blocks, err
			}
			blocks++
		}
	}
	return follows, blocks, nil
}

// SeedEngagement adds comments and likes from random users to articles.
func (s *Seeder) SeedEngagement(ctx context.Context, users []*models.User, articles []*models.Article) (int, int, error) {
	if len(users) == 0 {
		return 0, 0, nil
	}
	rng := s.factory.rng
	comments, likes := 0, 0
	for _, article := range articles {
		for i := 0; i < rng.Intn(4); i++ {
			if _, err := s.factory.CreateComment(ctx, users[rng.Intn(len(users))], article); err != nil {
				return comments, likes, err
			}
			comments++
		}
		for _, idx := range rng.Perm(len(users))[:rng.Intn(len(users)+1)/2] {
			if err := s.factory.CreateLike(ctx, users[idx], article); err != nil {
				return comments, likes, err
			}
			likes++
		}
	}
	return comments, likes, nil
}

// Run executes a full seeding pass according to the options.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	log.Printf("🌱 Starting database seeding with %d users and %d articles...", s.opts.NumUsers, s.opts.NumArticles)

	if s.opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	res := &Result{}
	categories, err := s.SeedCategories(ctx)
	if err != nil {
		return nil, err
	}
	res.Categories = len(categories)
	log.Printf("✓ %d categories available", res.Categories)

	users, err := s.SeedUsers(ctx, s.opts.NumUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	res.Users = len(users)
	log.Printf("✓ %d users created", res.Users)

	articles, err := s.SeedArticles(ctx, users, categories, s.opts.NumArticles)
	if err != nil {
		return nil, fmt.Errorf("failed to create articles: %w", err)
	}
	res.Articles = len(articles)
	log.Printf("✓ %d articles created", res.Articles)

	if res.Follows, res.Blocks, err = s.SeedSocialGraph(ctx, users); err != nil {
		return nil, fmt.Errorf("failed to create relations: %w", err)
	}
	log.Printf("✓ %d follows, %d blocks", res.Follows, res.Blocks)

	if res.Comments, res.Likes, err = s.SeedEngagement(ctx, users, articles); err != nil {
		return nil, fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Printf("✓ %d comments, %d likes", res.Comments, res.Likes)

	log.Println("🎉 Database seeding completed successfully!")
	return res, nil
}
