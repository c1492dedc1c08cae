package stubserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/beritahub/go-portal-client/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUser stores the authenticated user
const ContextKeyUser ContextKey = "user"

var (
	roleAdminOnly = []users.Role{users.RoleAdmin}
	roleAuthors   = []users.Role{users.RoleWriter, users.RoleAdmin}
)

// requireAuth validates the Bearer access token and injects the caller's
// identity into the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			writeError(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		userID, err := s.tokens.ParseAccessToken(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, ok := s.store.userByID(userID)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUser, user)
		next(w, r.WithContext(ctx))
	}
}

// requireRole chains requireAuth with a role-set check.
func (s *Server) requireRole(next http.HandlerFunc, allowed ...users.Role) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		if !user.Role.In(allowed...) {
			log.Debug().Str("user", user.Username).Str("role", user.Role.String()).Msg("role check failed")
			writeError(w, http.StatusForbidden, "access denied")
			return
		}
		next(w, r)
	})
}

func currentUser(r *http.Request) users.User {
	user, _ := r.Context().Value(ContextKeyUser).(users.User)
	return user
}
