// Package guard decides, at navigation time, whether protected content may
// render for the current session. It returns decisions; performing the
// redirect or drawing the placeholder is the host's job.
package guard

import (
	"github.com/pkg/errors"

	"github.com/beritahub/go-portal-client/session"
	"github.com/beritahub/go-portal-client/users"
)

// Session is the slice of session state the guard consumes.
type Session interface {
	Loading() bool
	IsAuthenticated() bool
	User() *users.User
}

// Outcome is a navigation decision.
type Outcome int

const (
	// Render allows the guarded content.
	Render Outcome = iota + 1
	// Placeholder defers the decision: startup verification is still
	// running and redirecting now would bounce a valid session to login.
	Placeholder
	// RedirectLogin sends the visitor to the login entry point, replacing
	// history so back-navigation cannot loop into the guarded page.
	RedirectLogin
	// RedirectHome sends an authenticated user without the required role to
	// the public landing page.
	RedirectHome
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Placeholder:
		return "placeholder"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	}
	return "unknown"
}

// Target returns the navigation target for redirect outcomes, empty
// otherwise.
func (o Outcome) Target() string {
	switch o {
	case RedirectLogin:
		return session.RouteLogin
	case RedirectHome:
		return session.RouteHome
	}
	return ""
}

// Guard checks navigations against a session.
type Guard struct {
	session Session
}

func New(s Session) (*Guard, error) {
	if s == nil {
		return nil, errors.New("[guard.New] session is required")
	}
	return &Guard{session: s}, nil
}

// Check evaluates a navigation that requires one of the allowed roles. An
// empty set means any authenticated role is enough.
func (g *Guard) Check(allowed ...users.Role) Outcome {
	if g.session.Loading() {
		return Placeholder
	}
	if !g.session.IsAuthenticated() {
		return RedirectLogin
	}
	if len(allowed) == 0 {
		return Render
	}

	user := g.session.User()
	if user == nil || !user.Role.In(allowed...) {
		return RedirectHome
	}
	return Render
}
