package stubserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/beritahub/go-portal-client/users"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	acct, ok := s.store.userByEmail(body.Email)
	if !ok || !s.store.checkPassword(acct, body.Password) {
		writeError(w, http.StatusBadRequest, "email atau password salah")
		return
	}

	accessToken, err := s.tokens.IssueAccessToken(&acct.user)
	if err != nil {
		log.Error().Err(err).Msg("issuing access token failed")
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	setRefreshCookie(w, s.tokens.IssueRefreshToken(acct.user.ID))

	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": accessToken,
		"user":        acct.user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		if userID, err := s.tokens.RedeemRefreshToken(cookie.Value); err == nil {
			s.tokens.RevokeRefreshTokens(userID)
		}
	}
	clearRefreshCookie(w)
	writeMessage(w, http.StatusOK, "logged out", nil)
}

// handleRefreshToken exchanges the cookie-borne refresh credential for a new
// access token. The credential rotates on every successful exchange.
func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	userID, err := s.tokens.RedeemRefreshToken(cookie.Value)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	user, ok := s.store.userByID(userID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	accessToken, err := s.tokens.IssueAccessToken(&user)
	if err != nil {
		log.Error().Err(err).Msg("issuing access token failed")
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	setRefreshCookie(w, s.tokens.IssueRefreshToken(userID))

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": accessToken})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if strings.TrimSpace(body.Username) == "" || strings.TrimSpace(body.Email) == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email, and password are required")
		return
	}
	if _, exists := s.store.userByEmail(body.Email); exists {
		writeError(w, http.StatusBadRequest, "email already registered")
		return
	}

	// New accounts always start as readers
	s.store.addUser(users.User{
		Username:  body.Username,
		Email:     body.Email,
		FullName:  body.FullName,
		Role:      users.RoleReader,
		CreatedAt: NowTimeFunc(),
	}, body.Password)

	writeJSON(w, http.StatusCreated, map[string]string{"message": "registration successful, please log in"})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.store.userByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeData(w, http.StatusOK, user)
}

// handleEditUser accepts the multipart profile form. Users may edit
// themselves; admins may edit anyone.
func (s *Server) handleEditUser(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)
	id := r.PathValue("id")
	if caller.ID != id && caller.Role != users.RoleAdmin {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart form")
		return
	}

	updated, ok := s.store.updateUser(id, func(acct *account) {
		if v := r.FormValue("username"); v != "" {
			acct.user.Username = v
		}
		if v := r.FormValue("email"); v != "" {
			acct.user.Email = v
		}
		if v := r.FormValue("fullName"); v != "" {
			acct.user.FullName = v
		}
		if _, header, err := r.FormFile("profilePicture"); err == nil {
			acct.user.ProfilePicture = "/uploads/" + header.Filename
		}
	})
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeMessage(w, http.StatusOK, "profile updated", updated)
}

func (s *Server) handleAllUsers(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, s.store.allUsers())
}

func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		NewRole string `json:"newRole"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	role, err := users.ParseRole(body.NewRole)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}

	updated, ok := s.store.updateUser(r.PathValue("id"), func(acct *account) {
		acct.user.Role = role
	})
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeMessage(w, http.StatusOK, "role updated", updated)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.deleteUser(id) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	s.tokens.RevokeRefreshTokens(id)
	writeMessage(w, http.StatusOK, "user deleted", nil)
}
