package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profiles/:id
// @Summary Show a profile
// @Description Profile with followers, followings and the viewer's follow and block flags
// @Tags profiles
// @Produce json
// @Param id path int true "Profile ID"
// @Success 200 {object} service.ProfileDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{id} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	detail, err := s.profileService.Show(c.UserContext(), id, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// EditProfile handles GET /api/profiles/:id/edit
func (s *Server) EditProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profile, err := s.profileService.EditData(c.UserContext(), id, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfile handles PUT /api/profiles/:id
// @Summary Update a profile
// @Tags profiles
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Profile ID"
// @Param fullname formData string true "Full name"
// @Param gender formData string true "Gender"
// @Param birthday formData string true "Birthday (YYYY-MM-DD)"
// @Param bio formData string true "Bio"
// @Param image formData file false "Profile image"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /profiles/{id} [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Fullname string `json:"fullname" form:"fullname"`
		Gender   string `json:"gender" form:"gender"`
		Birthday string `json:"birthday" form:"birthday"`
		Bio      string `json:"bio" form:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	image, err := formUpload(c, "image")
	if err != nil {
		return respondServiceError(c, err)
	}

	profile, err := s.profileService.Update(c.UserContext(), id, service.ProfileInput{
		ActorID:  viewerID(c),
		Fullname: req.Fullname,
		Gender:   req.Gender,
		Birthday: req.Birthday,
		Bio:      req.Bio,
		Image:    image,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// DeleteProfile handles DELETE /api/profiles/:id, deleting the whole account.
// The bearer token is revoked so the deleted user cannot keep using it.
func (s *Server) DeleteProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.profileService.Delete(c.UserContext(), id, viewerID(c)); err != nil {
		return respondServiceError(c, err)
	}

	if jti, _ := c.Locals("jti").(string); jti != "" && s.redis != nil {
		if err := s.redis.Set(c.UserContext(), blacklistPrefix+jti, "1", tokenTTL).Err(); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to revoke token of deleted account", "error", err)
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}
