// Package stubserver is an in-memory implementation of the portal REST API,
// used for local development and for integration-testing the client. It
// covers the full consumed surface: login with bearer access tokens and a
// rotating cookie-borne refresh credential, role-gated management routes,
// and the enveloped article/category/comment/user CRUD.
package stubserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"

	defaultAccessTokenTTL = 15 * time.Minute
)

// Server implements http.Handler for the stub portal API.
type Server struct {
	mux    *http.ServeMux
	store  *memStore
	tokens *tokenManager
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAccessTokenTTL overrides the access-token lifetime. Tests use very
// short lifetimes to drive the client's silent-refresh path.
func WithAccessTokenTTL(ttl time.Duration) ServerOption {
	return func(s *Server) {
		s.tokens.accessTTL = ttl
	}
}

// New creates a seeded stub server signing access tokens with secret.
func New(secret string, options ...ServerOption) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		store:  newMemStore(),
		tokens: newTokenManager([]byte(secret), defaultAccessTokenTTL),
	}

	for _, opt := range options {
		opt(s)
	}

	s.store.seed()
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	// User and auth
	s.mux.HandleFunc("POST /api/user/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/user/logout", s.handleLogout)
	s.mux.HandleFunc("POST /api/user/refresh-token", s.handleRefreshToken)
	s.mux.HandleFunc("POST /api/user/register", s.handleRegister)
	s.mux.HandleFunc("GET /api/user/users/{id}", s.requireAuth(s.handleGetUser))
	s.mux.HandleFunc("PUT /api/user/edit/{id}", s.requireAuth(s.handleEditUser))
	s.mux.HandleFunc("GET /api/user/all", s.requireRole(s.handleAllUsers, roleAdminOnly...))
	s.mux.HandleFunc("PUT /api/user/role/{id}", s.requireRole(s.handleSetRole, roleAdminOnly...))
	s.mux.HandleFunc("DELETE /api/user/delete/{id}", s.requireRole(s.handleDeleteUser, roleAdminOnly...))

	// Categories
	s.mux.HandleFunc("GET /api/categories/all", s.handleAllCategories)
	s.mux.HandleFunc("GET /api/categories/categories/{id}", s.handleGetCategory)
	s.mux.HandleFunc("POST /api/categories/new", s.requireRole(s.handleCreateCategory, roleAdminOnly...))
	s.mux.HandleFunc("DELETE /api/categories/delete/{id}", s.requireRole(s.handleDeleteCategory, roleAdminOnly...))

	// Articles
	s.mux.HandleFunc("GET /api/articles/articles", s.handleListArticles)
	s.mux.HandleFunc("GET /api/articles/articles/{id}", s.handleGetArticle)
	s.mux.HandleFunc("GET /api/articles/category/{id}", s.handleArticlesByCategory)
	s.mux.HandleFunc("GET /api/articles/user/{id}", s.handleArticlesByAuthor)
	s.mux.HandleFunc("POST /api/articles/new", s.requireRole(s.handleCreateArticle, roleAuthors...))
	s.mux.HandleFunc("PUT /api/articles/edit/{id}", s.requireRole(s.handleEditArticle, roleAuthors...))
	s.mux.HandleFunc("DELETE /api/articles/delete/{id}", s.requireRole(s.handleDeleteArticle, roleAuthors...))

	// Comments
	s.mux.HandleFunc("GET /api/comments/article/{id}", s.handleCommentsForArticle)
	s.mux.HandleFunc("POST /api/comments/new/{id}", s.requireAuth(s.handleCreateComment))
	s.mux.HandleFunc("PUT /api/comments/edit/{id}", s.requireAuth(s.handleEditComment))
	s.mux.HandleFunc("DELETE /api/comments/delete/{id}", s.requireAuth(s.handleDeleteComment))
}

// writeJSON serializes payload as-is.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encoding response failed")
	}
}

// writeData wraps payload in the {data} read envelope.
func writeData(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, map[string]any{"data": payload})
}

// writeMessage wraps a mutation result in the {message, data} envelope.
func writeMessage(w http.ResponseWriter, status int, message string, payload any) {
	body := map[string]any{"message": message}
	if payload != nil {
		body["data"] = payload
	}
	writeJSON(w, status, body)
}

// writeError reports a business failure with the message the front end
// shows verbatim.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
