package guard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beritahub/go-portal-client/guard"
	"github.com/beritahub/go-portal-client/session"
	"github.com/beritahub/go-portal-client/users"
)

type fakeSession struct {
	loading bool
	user    *users.User
}

func (f fakeSession) Loading() bool         { return f.loading }
func (f fakeSession) IsAuthenticated() bool { return f.user != nil }
func (f fakeSession) User() *users.User     { return f.user }

func userWithRole(role users.Role) *users.User {
	return &users.User{ID: "7", Username: "rina", Role: role}
}

func TestGuardCheck(t *testing.T) {
	tests := []struct {
		name    string
		session fakeSession
		allowed []users.Role
		want    guard.Outcome
	}{
		{
			name:    "loading defers with a placeholder",
			session: fakeSession{loading: true},
			allowed: []users.Role{users.RoleAdmin},
			want:    guard.Placeholder,
		},
		{
			name:    "loading defers even for public role sets",
			session: fakeSession{loading: true, user: userWithRole(users.RoleAdmin)},
			want:    guard.Placeholder,
		},
		{
			name:    "unauthenticated goes to login",
			session: fakeSession{},
			allowed: []users.Role{users.RoleReader},
			want:    guard.RedirectLogin,
		},
		{
			name:    "unauthenticated goes to login regardless of roles",
			session: fakeSession{},
			want:    guard.RedirectLogin,
		},
		{
			name:    "empty role set renders for any authenticated user",
			session: fakeSession{user: userWithRole(users.RoleReader)},
			want:    guard.Render,
		},
		{
			name:    "role outside the allowed set goes home",
			session: fakeSession{user: userWithRole(users.RoleReader)},
			allowed: []users.Role{users.RoleWriter, users.RoleAdmin},
			want:    guard.RedirectHome,
		},
		{
			name:    "role inside the allowed set renders",
			session: fakeSession{user: userWithRole(users.RoleWriter)},
			allowed: []users.Role{users.RoleWriter, users.RoleAdmin},
			want:    guard.Render,
		},
		{
			name:    "admin passes an admin-only gate",
			session: fakeSession{user: userWithRole(users.RoleAdmin)},
			allowed: []users.Role{users.RoleAdmin},
			want:    guard.Render,
		},
		{
			name:    "unknown role fails closed",
			session: fakeSession{user: userWithRole(users.Role("superuser"))},
			allowed: []users.Role{users.RoleWriter, users.RoleAdmin},
			want:    guard.RedirectHome,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := guard.New(tc.session)
			require.NoError(t, err)
			require.Equal(t, tc.want, g.Check(tc.allowed...))
		})
	}
}

func TestOutcomeTargets(t *testing.T) {
	require.Equal(t, session.RouteLogin, guard.RedirectLogin.Target())
	require.Equal(t, session.RouteHome, guard.RedirectHome.Target())
	require.Empty(t, guard.Render.Target())
	require.Empty(t, guard.Placeholder.Target())
}

func TestGuardRequiresSession(t *testing.T) {
	_, err := guard.New(nil)
	require.Error(t, err)
}
