// Package session holds the client's authentication state for the lifetime
// of the process: the cached identity, the loading window during startup
// verification, and the login/logout transitions. Durable state survives
// restarts through the storage package; navigation side effects go through
// an injected Navigator.
package session

// Well-known navigation targets.
const (
	RouteHome  = "/"
	RouteLogin = "/login"
)

// Navigator performs navigation on behalf of the session store. Navigate is
// an ordinary in-app transition; Reload is the hard, router-bypassing
// navigation used when the session dies under the host's feet.
type Navigator interface {
	Navigate(path string)
	Reload(path string)
}

// Result reports a login attempt to the caller. Message carries the
// server's human-readable explanation on failure.
type Result struct {
	Success bool
	Message string
}
