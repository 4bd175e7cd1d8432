package server

import (
	"time"

	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/articles/:id/comments
// @Summary Comment on an article
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Article ID"
// @Param request body object{body=string} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /articles/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	articleID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body string `json:"body" form:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	actor := viewerID(c)
	comment, article, err := s.commentService.Create(ctx, service.CreateCommentInput{
		ActorID:   actor,
		ArticleID: articleID,
		Body:      req.Body,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	if article.UserID != actor {
		s.publishUserEvent(ctx, article.UserID, EventCommentCreated, map[string]interface{}{
			"article_id": article.ID,
			"comment":    comment,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id. The comment's author and
// the article's author may delete it.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.commentService.Delete(c.UserContext(), id, viewerID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
