// Package storage persists the client's durable authentication state: the
// opaque access token and the JSON-serialized identity record. The two are
// written independently but always cleared together, mirroring the pair of
// keys the portal front end keeps in browser-local storage.
package storage

// Storage is the durable store read by the request interceptor and written
// by login, logout, refresh and startup verification. Absent values are
// reported as zero values, not errors.
type Storage interface {
	AccessToken() (string, error)
	SetAccessToken(token string) error
	Identity() ([]byte, error)
	SetIdentity(identity []byte) error
	// Clear removes the access token and the identity together.
	Clear() error
}
