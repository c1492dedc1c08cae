package stubserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	errs "github.com/beritahub/go-portal-client/internal/errors"
	"github.com/beritahub/go-portal-client/users"
)

const refreshCookieName = "refreshToken"

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// tokenManager mints short-lived HS256 access tokens and tracks the opaque
// refresh tokens delivered as HttpOnly cookies. Refresh tokens rotate on
// every use; a single refresh token exists per user.
type tokenManager struct {
	secret    []byte
	accessTTL time.Duration

	mu      sync.Mutex
	refresh map[string]string // refresh token -> user ID
}

func newTokenManager(secret []byte, accessTTL time.Duration) *tokenManager {
	return &tokenManager{
		secret:    secret,
		accessTTL: accessTTL,
		refresh:   make(map[string]string),
	}
}

// IssueAccessToken signs a bearer token for the user.
func (m *tokenManager) IssueAccessToken(user *users.User) (string, error) {
	now := NowTimeFunc()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role.String(),
		"iat":  now.Unix(),
		"exp":  now.Add(m.accessTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "[tokenManager.IssueAccessToken] SignedString")
	}
	return token, nil
}

// ParseAccessToken validates a bearer token and returns the subject user ID.
func (m *tokenManager) ParseAccessToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errs.Wrapf(errs.ErrInvalidToken, "parse access token")
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errs.Wrapf(errs.ErrInvalidToken, "missing subject")
	}
	return sub, nil
}

// IssueRefreshToken replaces the user's refresh token with a fresh one.
func (m *tokenManager) IssueRefreshToken(userID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, owner := range m.refresh {
		if owner == userID {
			delete(m.refresh, token)
		}
	}
	token := uuid.NewString()
	m.refresh[token] = userID
	return token
}

// RedeemRefreshToken validates and consumes a refresh token, returning the
// owner. The caller must issue a replacement (rotation).
func (m *tokenManager) RedeemRefreshToken(token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.refresh[token]
	if !ok {
		return "", errs.Wrapf(errs.ErrRefreshFailed, "unknown refresh token")
	}
	delete(m.refresh, token)
	return userID, nil
}

// RevokeRefreshTokens drops every refresh token owned by the user.
func (m *tokenManager) RevokeRefreshTokens(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, owner := range m.refresh {
		if owner == userID {
			delete(m.refresh, token)
		}
	}
}

func setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
