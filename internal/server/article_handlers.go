package server

import (
	"time"

	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// articleForm accepts both JSON bodies and the multipart form that carries the feature image.
type articleForm struct {
	Title      string `json:"title" form:"title"`
	Content    string `json:"content" form:"content"`
	CategoryID uint   `json:"category_id" form:"category_id"`
	Tags       string `json:"tags" form:"tags"`
}

func (s *Server) parseArticleForm(c *fiber.Ctx) (service.ArticleInput, error) {
	var req articleForm
	if err := c.BodyParser(&req); err != nil {
		_ = badRequest(c, "Invalid request body")
		return service.ArticleInput{}, errResponseWritten
	}
	feature, err := formUpload(c, "feature")
	if err != nil {
		_ = respondServiceError(c, err)
		return service.ArticleInput{}, errResponseWritten
	}
	return service.ArticleInput{
		ActorID:    viewerID(c),
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
		Feature:    feature,
	}, nil
}

// ListArticles handles GET /api/articles, the viewer's feed.
// @Summary Article feed
// @Description Articles by the viewer, the users they follow and their followers, newest first
// @Tags articles
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {array} models.Article
// @Router /articles [get]
func (s *Server) ListArticles(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPageSize)
	articles, err := s.articleService.List(c.UserContext(), viewerID(c), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(articles)
}

// CreateArticle handles POST /api/articles
// @Summary Create an article
// @Tags articles
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param category_id formData int true "Category"
// @Param tags formData string false "Comma separated tags"
// @Param feature formData file false "Feature image"
// @Success 201 {object} models.Article
// @Failure 400 {object} models.ErrorResponse
// @Router /articles [post]
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	in, err := s.parseArticleForm(c)
	if err != nil {
		return nil
	}
	article, err := s.articleService.Create(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// GetArticle handles GET /api/articles/:id
// @Summary Show an article
// @Description Article with comments, likers and the viewer's like flag. Anonymous access is allowed.
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} service.ArticleDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /articles/{id} [get]
func (s *Server) GetArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	detail, err := s.articleService.Show(c.UserContext(), id, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// EditArticle handles GET /api/articles/:id/edit
func (s *Server) EditArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	data, err := s.articleService.EditData(c.UserContext(), id, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(data)
}

// UpdateArticle handles PUT /api/articles/:id. Tags in the form replace the current set.
// @Summary Update an article
// @Tags articles
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} models.Article
// @Failure 403 {object} models.ErrorResponse
// @Router /articles/{id} [put]
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	in, err := s.parseArticleForm(c)
	if err != nil {
		return nil
	}
	article, err := s.articleService.Update(c.UserContext(), id, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(article)
}

// DeleteArticle handles DELETE /api/articles/:id
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.articleService.Delete(c.UserContext(), id, viewerID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeArticle handles POST /api/articles/:id/like
func (s *Server) LikeArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := viewerID(c)
	article, err := s.articleService.Like(c.UserContext(), id, actor)
	if err != nil {
		return respondServiceError(c, err)
	}

	if article.UserID != actor {
		s.publishUserEvent(c.UserContext(), article.UserID, EventArticleLiked, map[string]interface{}{
			"article_id": article.ID,
			"user_id":    actor,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
	return c.JSON(article)
}

// UnlikeArticle handles DELETE /api/articles/:id/like
func (s *Server) UnlikeArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	article, err := s.articleService.Unlike(c.UserContext(), id, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(article)
}
