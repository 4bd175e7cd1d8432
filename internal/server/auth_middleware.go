package server

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	wsTicketPrefix  = "ws_ticket:"
	wsTicketTTL     = 60 * time.Second
	blacklistPrefix = "blacklist:"

	// A websocket upgrade can pass through the middleware more than once;
	// a consumed ticket stays valid in-process for this long.
	consumedTicketGrace = 10 * time.Second
)

type consumedTicketEntry struct {
	userID    uint
	consumeAt time.Time
}

// AuthRequired accepts a single-use websocket ticket (?ticket=) or a bearer
// token. Revoked token ids are rejected. On success the user id is stored in
// locals and in the user context.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isWSPath := strings.HasPrefix(c.Path(), "/api/ws") && !strings.HasPrefix(c.Path(), "/api/ws/ticket")

		if ticket := c.Query("ticket"); ticket != "" {
			if userID, ok := s.resolveWSTicket(c.UserContext(), ticket); ok {
				c.Locals("wsTicket", ticket)
				return s.authenticated(c, userID)
			}
			if isWSPath {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
			}
		}

		tokenString, err := middleware.BearerToken(c)
		if err != nil && !isWSPath {
			// Query tokens are accepted everywhere except the websocket, which must use a ticket.
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := middleware.ParseToken(s.config.JWTSecret, tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(err.Error()))
		}

		if s.isRevoked(c.UserContext(), claims.JTI) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token has been revoked"))
		}

		c.Locals("jti", claims.JTI)
		return s.authenticated(c, claims.UserID)
	}
}

// OptionalAuth resolves the viewer from a bearer token when one is present.
// Missing, invalid and revoked tokens all continue as an anonymous request.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := middleware.BearerToken(c)
		if err != nil {
			return c.Next()
		}
		claims, err := middleware.ParseToken(s.config.JWTSecret, tokenString)
		if err != nil || s.isRevoked(c.UserContext(), claims.JTI) {
			return c.Next()
		}
		c.Locals("jti", claims.JTI)
		return s.authenticated(c, claims.UserID)
	}
}

// isRevoked reports whether logout blacklisted the token id. A Redis failure
// is counted and the token is let through.
func (s *Server) isRevoked(ctx context.Context, jti string) bool {
	if jti == "" || s.redis == nil {
		return false
	}
	n, err := s.redis.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("blacklist_check").Inc()
		return false
	}
	return n > 0
}

func (s *Server) authenticated(c *fiber.Ctx, userID uint) error {
	c.Locals("userID", userID)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
	return c.Next()
}

// resolveWSTicket atomically takes the ticket out of Redis, then remembers
// it in-process for the rest of the handshake.
func (s *Server) resolveWSTicket(ctx context.Context, ticket string) (uint, bool) {
	now := time.Now()

	s.consumedTicketsMu.Lock()
	for t, e := range s.consumedTickets {
		if now.Sub(e.consumeAt) > consumedTicketGrace {
			delete(s.consumedTickets, t)
		}
	}
	if e, ok := s.consumedTickets[ticket]; ok {
		s.consumedTicketsMu.Unlock()
		return e.userID, true
	}
	s.consumedTicketsMu.Unlock()

	if s.redis == nil {
		return 0, false
	}
	raw, err := s.redis.GetDel(ctx, wsTicketPrefix+ticket).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("ws_ticket").Inc()
		}
		return 0, false
	}
	userID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || userID == 0 {
		return 0, false
	}

	s.consumedTicketsMu.Lock()
	s.consumedTickets[ticket] = consumedTicketEntry{userID: uint(userID), consumeAt: now}
	s.consumedTicketsMu.Unlock()
	return uint(userID), true
}

// consumeWSTicket forgets a ticket once its socket is established.
func (s *Server) consumeWSTicket(_ context.Context, ticket interface{}) {
	t, ok := ticket.(string)
	if !ok || t == "" {
		return
	}
	s.consumedTicketsMu.Lock()
	delete(s.consumedTickets, t)
	s.consumedTicketsMu.Unlock()
}
