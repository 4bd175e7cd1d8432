package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// RelationService manages follow and block edges. Blocking leaves
// existing follows in place.
type RelationService struct {
	relations repository.RelationRepository
	users     repository.UserRepository
}

func NewRelationService(relations repository.RelationRepository, users repository.UserRepository) *RelationService {
	return &RelationService{relations: relations, users: users}
}

func (s *RelationService) checkTarget(ctx context.Context, actor, target uint) error {
	if err := requireViewer(actor); err != nil {
		return err
	}
	if actor == target {
		return models.NewValidationError("You cannot target yourself")
	}
	_, err := s.users.GetByID(ctx, target)
	return err
}

// Follow reports whether a new edge was created.
func (s *RelationService) Follow(ctx context.Context, actor, target uint) (bool, error) {
	if err := s.checkTarget(ctx, actor, target); err != nil {
		return false, err
	}
	return s.relations.Follow(ctx, actor, target)
}

func (s *RelationService) Unfollow(ctx context.Context, actor, target uint) error {
	if err := s.checkTarget(ctx, actor, target); err != nil {
		return err
	}
	return s.relations.Unfollow(ctx, actor, target)
}

func (s *RelationService) Block(ctx context.Context, actor, target uint) error {
	if err := s.checkTarget(ctx, actor, target); err != nil {
		return err
	}
	return s.relations.Block(ctx, actor, target)
}

func (s *RelationService) Unblock(ctx context.Context, actor, target uint) error {
	if err := s.checkTarget(ctx, actor, target); err != nil {
		return err
	}
	return s.relations.Unblock(ctx, actor, target)
}

// Relationship describes how viewer relates to target. Anonymous viewers
// and self views get all false.
func (s *RelationService) Relationship(ctx context.Context, viewer, target uint) (models.Relationship, error) {
	return lookupRelationship(ctx, s.relations, viewer, target)
}

func lookupRelationship(ctx context.Context, relations repository.RelationRepository, viewer, target uint) (models.Relationship, error) {
	var rel models.Relationship
	if viewer == 0 || viewer == target {
		return rel, nil
	}
	var err error
	if rel.Followed, err = relations.IsFollowing(ctx, viewer, target); err != nil {
		return rel, err
	}
	if rel.Blocking, err = relations.IsBlocking(ctx, viewer, target); err != nil {
		return rel, err
	}
	if rel.Blocked, err = relations.IsBlocking(ctx, target, viewer); err != nil {
		return rel, err
	}
	return rel, nil
}
