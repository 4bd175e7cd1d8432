package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// Function-field stubs for the repository interfaces. An unset field
// returns zero values.

type articleRepoStub struct {
	getByIDFn        func(context.Context, uint, uint) (*models.Article, error)
	listFeedFn       func(context.Context, uint, int, int) ([]models.Article, error)
	listByCategoryFn func(context.Context, uint, int, int) ([]models.Article, error)
	createWithTagsFn func(context.Context, *models.Article, []string, repository.TagSyncMode) error
	updateWithTagsFn func(context.Context, *models.Article, []string, repository.TagSyncMode) error
	deleteFn         func(context.Context, uint) error
	likersFn         func(context.Context, uint) ([]models.User, error)
	likeFn           func(context.Context, uint, uint) error
	unlikeFn         func(context.Context, uint, uint) error
}

func (s *articleRepoStub) GetByID(ctx context.Context, id, viewer uint) (*models.Article, error) {
	if s.getByIDFn == nil {
		return &models.Article{ID: id}, nil
	}
	return s.getByIDFn(ctx, id, viewer)
}
func (s *articleRepoStub) ListFeed(ctx context.Context, viewer uint, limit, offset int) ([]models.Article, error) {
	if s.listFeedFn == nil {
		return nil, nil
	}
	return s.listFeedFn(ctx, viewer, limit, offset)
}
func (s *articleRepoStub) ListByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]models.Article, error) {
	if s.listByCategoryFn == nil {
		return nil, nil
	}
	return s.listByCategoryFn(ctx, categoryID, limit, offset)
}
func (s *articleRepoStub) CreateWithTags(ctx context.Context, a *models.Article, tags []string, mode repository.TagSyncMode) error {
	if s.createWithTagsFn == nil {
		return nil
	}
	return s.createWithTagsFn(ctx, a, tags, mode)
}
func (s *articleRepoStub) UpdateWithTags(ctx context.Context, a *models.Article, tags []string, mode repository.TagSyncMode) error {
	if s.updateWithTagsFn == nil {
		return nil
	}
	return s.updateWithTagsFn(ctx, a, tags, mode)
}
func (s *articleRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}
func (s *articleRepoStub) Likers(ctx context.Context, id uint) ([]models.User, error) {
	if s.likersFn == nil {
		return nil, nil
	}
	return s.likersFn(ctx, id)
}
func (s *articleRepoStub) Like(ctx context.Context, userID, articleID uint) error {
	if s.likeFn == nil {
		return nil
	}
	return s.likeFn(ctx, userID, articleID)
}
func (s *articleRepoStub) Unlike(ctx context.Context, userID, articleID uint) error {
	if s.unlikeFn == nil {
		return nil
	}
	return s.unlikeFn(ctx, userID, articleID)
}

type tagRepoStub struct {
	tags []models.Tag
}

func (s *tagRepoStub) List(context.Context) ([]models.Tag, error) { return s.tags, nil }

type categoryRepoStub struct {
	listFn    func(context.Context) ([]models.Category, error)
	getByIDFn func(context.Context, uint) (*models.Category, error)
	createFn  func(context.Context, *models.Category) error
	updateFn  func(context.Context, *models.Category) error
	deleteFn  func(context.Context, uint) error
}

func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	if s.getByIDFn == nil {
		return &models.Category{ID: id}, nil
	}
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) Create(ctx context.Context, c *models.Category) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, c)
}
func (s *categoryRepoStub) Update(ctx context.Context, c *models.Category) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, c)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listByArticleFn func(context.Context, uint) ([]models.Comment, error)
	listVisibleFn   func(context.Context, uint, uint) ([]models.Comment, error)
	deleteFn        func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	if s.getByIDFn == nil {
		return &models.Comment{ID: id}, nil
	}
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByArticle(ctx context.Context, articleID uint) ([]models.Comment, error) {
	if s.listByArticleFn == nil {
		return nil, nil
	}
	return s.listByArticleFn(ctx, articleID)
}
func (s *commentRepoStub) ListVisible(ctx context.Context, articleID, viewer uint) ([]models.Comment, error) {
	if s.listVisibleFn == nil {
		return nil, nil
	}
	return s.listVisibleFn(ctx, articleID, viewer)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	getByEmailFn        func(context.Context, string) (*models.User, error)
	getByUsernameFn     func(context.Context, string) (*models.User, error)
	createWithProfileFn func(context.Context, *models.User) error
	deleteAccountFn     func(context.Context, uint) (*repository.AccountFiles, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn == nil {
		return &models.User{ID: id}, nil
	}
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn == nil {
		return nil, nil
	}
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.getByUsernameFn == nil {
		return nil, nil
	}
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) CreateWithProfile(ctx context.Context, u *models.User) error {
	if s.createWithProfileFn == nil {
		return nil
	}
	return s.createWithProfileFn(ctx, u)
}
func (s *userRepoStub) DeleteAccount(ctx context.Context, userID uint) (*repository.AccountFiles, error) {
	if s.deleteAccountFn == nil {
		return &repository.AccountFiles{}, nil
	}
	return s.deleteAccountFn(ctx, userID)
}

type profileRepoStub struct {
	getByIDFn     func(context.Context, uint) (*models.Profile, error)
	getByUserIDFn func(context.Context, uint) (*models.Profile, error)
	updateFn      func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	if s.getByIDFn == nil {
		return &models.Profile{ID: id}, nil
	}
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	if s.getByUserIDFn == nil {
		return &models.Profile{UserID: userID}, nil
	}
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) Update(ctx context.Context, p *models.Profile) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, p)
}

// relationRepoStub answers from in-memory edge sets.
type relationRepoStub struct {
	follows map[[2]uint]bool
	blocks  map[[2]uint]bool
	calls   []string
}

func newRelationRepoStub() *relationRepoStub {
	return &relationRepoStub{follows: map[[2]uint]bool{}, blocks: map[[2]uint]bool{}}
}

func (s *relationRepoStub) Follow(_ context.Context, a, b uint) (bool, error) {
	s.calls = append(s.calls, "follow")
	created := !s.follows[[2]uint{a, b}]
	s.follows[[2]uint{a, b}] = true
	return created, nil
}
func (s *relationRepoStub) Unfollow(_ context.Context, a, b uint) error {
	s.calls = append(s.calls, "unfollow")
	delete(s.follows, [2]uint{a, b})
	return nil
}
func (s *relationRepoStub) Block(_ context.Context, a, b uint) error {
	s.calls = append(s.calls, "block")
	s.blocks[[2]uint{a, b}] = true
	return nil
}
func (s *relationRepoStub) Unblock(_ context.Context, a, b uint) error {
	s.calls = append(s.calls, "unblock")
	delete(s.blocks, [2]uint{a, b})
	return nil
}
func (s *relationRepoStub) IsFollowing(_ context.Context, a, b uint) (bool, error) {
	return s.follows[[2]uint{a, b}], nil
}
func (s *relationRepoStub) IsBlocking(_ context.Context, a, b uint) (bool, error) {
	return s.blocks[[2]uint{a, b}], nil
}
func (s *relationRepoStub) followingIDs(userID uint) []uint {
	var ids []uint
	for e := range s.follows {
		if e[0] == userID {
			ids = append(ids, e[1])
		}
	}
	return ids
}
func (s *relationRepoStub) followerIDs(userID uint) []uint {
	var ids []uint
	for e := range s.follows {
		if e[1] == userID {
			ids = append(ids, e[0])
		}
	}
	return ids
}
func (s *relationRepoStub) Followings(_ context.Context, userID uint) ([]models.User, error) {
	return usersFor(s.followingIDs(userID)), nil
}
func (s *relationRepoStub) Followers(_ context.Context, userID uint) ([]models.User, error) {
	return usersFor(s.followerIDs(userID)), nil
}
func usersFor(ids []uint) []models.User {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.User{ID: id})
	}
	return out
}
