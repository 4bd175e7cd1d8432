package server

import (
	"context"

	"inkwell/internal/middleware"
	"inkwell/internal/notifications"
	"inkwell/internal/observability"
)

// Event type constants prevent typos in event names.
const (
	EventNewFollower    = "new_follower"
	EventCommentCreated = "comment_created"
	EventArticleLiked   = "article_liked"
)

// publishUserEvent delivers an event to every socket of userID. With Redis
// wired the event goes through the user's channel so that every instance
// sees it; otherwise it is delivered to this instance's hub only.
func (s *Server) publishUserEvent(ctx context.Context, userID uint, eventType string, payload map[string]interface{}) {
	message, err := notifications.Event{Type: eventType, Payload: payload}.Encode()
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to encode event", "event_type", eventType, "error", err)
		return
	}
	observability.NotificationsPublished.WithLabelValues(eventType).Inc()

	if s.notifier != nil && s.wired.Load() {
		err := s.notifier.PublishUser(ctx, userID, message)
		if err == nil {
			return
		}
		middleware.Logger.WarnContext(ctx, "failed to publish event, delivering locally",
			"event_type", eventType, "recipient_id", userID, "error", err)
	}
	if !s.hub.IsOnline(userID) {
		middleware.Logger.DebugContext(ctx, "recipient has no socket here, event dropped",
			"event_type", eventType, "recipient_id", userID)
		return
	}
	s.hub.Broadcast(userID, message)
}

func userSummary(id uint, username string) map[string]interface{} {
	return map[string]interface{}{
		"id":       id,
		"username": username,
	}
}
