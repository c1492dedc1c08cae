package users

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/beritahub/go-portal-client/api"
)

// Service exposes the /user surface of the portal API.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[users.NewService] client is required")
	}
	return &Service{client: client}, nil
}

// LoginResult is the bare (non-enveloped) login response.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}

// Login exchanges credentials for an access token and the user's identity.
// The refresh credential arrives out-of-band on the transport cookie jar.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := s.client.Post(ctx, "/user/login", body, &result); err != nil {
		return nil, errors.Wrap(err, "[Service.Login]")
	}
	if result.AccessToken == "" || result.User == nil {
		return nil, errors.New("[Service.Login] malformed login response")
	}
	return &result, nil
}

// Logout tells the server to drop the refresh credential. Callers treat a
// failure here as non-fatal; local cleanup proceeds regardless.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.client.Post(ctx, "/user/logout", nil, nil); err != nil {
		return errors.Wrap(err, "[Service.Logout]")
	}
	return nil
}

// Registration is the sign-up form. New accounts always start as readers.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Register creates an account and returns the server's confirmation message.
func (s *Service) Register(ctx context.Context, reg Registration) (string, error) {
	var env api.Envelope
	if err := s.client.Post(ctx, "/user/register", reg, &env); err != nil {
		return "", errors.Wrap(err, "[Service.Register]")
	}
	return env.Message, nil
}

// Get fetches a user by id. This doubles as the startup token-validity
// probe: an expired session surfaces here as an authorization failure.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	var env api.Envelope
	if err := s.client.Get(ctx, fmt.Sprintf("/user/users/%s", id), &env); err != nil {
		return nil, errors.Wrap(err, "[Service.Get]")
	}
	var user User
	if err := env.Decode(&user); err != nil {
		return nil, errors.Wrap(err, "[Service.Get]")
	}
	return &user, nil
}

// ProfileUpdate is the multipart profile-edit form. Zero-valued fields are
// still sent; the API treats the form as a full replacement. Password is
// only included when non-empty.
type ProfileUpdate struct {
	Username       string
	Email          string
	FullName       string
	Password       string
	ProfilePicture *api.FormFile
}

// Update edits a profile and returns the updated identity.
func (s *Service) Update(ctx context.Context, id string, update ProfileUpdate) (*User, error) {
	fields := map[string]string{
		"username": update.Username,
		"email":    update.Email,
		"fullName": update.FullName,
	}
	if update.Password != "" {
		fields["password"] = update.Password
	}
	var files []api.FormFile
	if update.ProfilePicture != nil {
		file := *update.ProfilePicture
		file.Field = "profilePicture"
		files = append(files, file)
	}

	var env api.Envelope
	if err := s.client.PutForm(ctx, fmt.Sprintf("/user/edit/%s", id), fields, files, &env); err != nil {
		return nil, errors.Wrap(err, "[Service.Update]")
	}
	var user User
	if err := env.Decode(&user); err != nil {
		return nil, errors.Wrap(err, "[Service.Update]")
	}
	return &user, nil
}

// All lists every user. Admin only.
func (s *Service) All(ctx context.Context) ([]User, error) {
	var env api.Envelope
	if err := s.client.Get(ctx, "/user/all", &env); err != nil {
		return nil, errors.Wrap(err, "[Service.All]")
	}
	var list []User
	if err := env.Decode(&list); err != nil {
		return nil, errors.Wrap(err, "[Service.All]")
	}
	return list, nil
}

// SetRole changes a user's role. Admin only.
func (s *Service) SetRole(ctx context.Context, id string, role Role) (*User, error) {
	if !role.Valid() {
		return nil, errors.Errorf("[Service.SetRole] unknown role %q", role)
	}
	body := map[string]string{"newRole": role.String()}
	var env api.Envelope
	if err := s.client.Put(ctx, fmt.Sprintf("/user/role/%s", id), body, &env); err != nil {
		return nil, errors.Wrap(err, "[Service.SetRole]")
	}
	var user User
	if err := env.Decode(&user); err != nil {
		return nil, errors.Wrap(err, "[Service.SetRole]")
	}
	return &user, nil
}

// Delete removes a user. Admin only.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/user/delete/%s", id), nil); err != nil {
		return errors.Wrap(err, "[Service.Delete]")
	}
	return nil
}
