package service

import "inkwell/internal/models"

// CanModifyArticle reports whether actor may edit or delete article.
func CanModifyArticle(actor uint, article *models.Article) bool {
	return actor != 0 && article != nil && article.UserID == actor
}

// CanModifyProfile reports whether actor owns profile.
func CanModifyProfile(actor uint, profile *models.Profile) bool {
	return actor != 0 && profile != nil && profile.UserID == actor
}

// CanDeleteComment allows the comment's author and the owner of the article it is on.
func CanDeleteComment(actor uint, comment *models.Comment, article *models.Article) bool {
	if actor == 0 || comment == nil {
		return false
	}
	return comment.UserID == actor || CanModifyArticle(actor, article)
}

func requireViewer(viewer uint) error {
	if viewer == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	return nil
}
