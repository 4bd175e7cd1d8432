package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/users/:id/follow
// @Summary Follow a user
// @Tags relations
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Relationship
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/follow [post]
func (s *Server) Follow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	target, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := viewerID(c)

	created, err := s.relationService.Follow(ctx, actor, target)
	if err != nil {
		return respondServiceError(c, err)
	}

	if created {
		payload := map[string]interface{}{
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		}
		if follower, err := s.userRepo.GetByID(ctx, actor); err == nil {
			payload["follower"] = userSummary(follower.ID, follower.Username)
		}
		s.publishUserEvent(ctx, target, EventNewFollower, payload)
	}

	return s.respondRelationship(c, actor, target)
}

// Unfollow handles DELETE /api/users/:id/follow
func (s *Server) Unfollow(c *fiber.Ctx) error {
	target, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := viewerID(c)
	if err := s.relationService.Unfollow(c.UserContext(), actor, target); err != nil {
		return respondServiceError(c, err)
	}
	return s.respondRelationship(c, actor, target)
}

// Block handles POST /api/users/:id/block. Blocking does not remove follows.
func (s *Server) Block(c *fiber.Ctx) error {
	target, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := viewerID(c)
	if err := s.relationService.Block(c.UserContext(), actor, target); err != nil {
		return respondServiceError(c, err)
	}
	return s.respondRelationship(c, actor, target)
}

// Unblock handles DELETE /api/users/:id/block
func (s *Server) Unblock(c *fiber.Ctx) error {
	target, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := viewerID(c)
	if err := s.relationService.Unblock(c.UserContext(), actor, target); err != nil {
		return respondServiceError(c, err)
	}
	return s.respondRelationship(c, actor, target)
}

func (s *Server) respondRelationship(c *fiber.Ctx, actor, target uint) error {
	rel, err := s.relationService.Relationship(c.UserContext(), actor, target)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rel)
}
