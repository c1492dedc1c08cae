package categories

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/beritahub/go-portal-client/api"
)

// Service exposes category browsing (public) and management (admin).
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[categories.NewService] client is required")
	}
	return &Service{client: client}, nil
}

// All lists every category.
func (s *Service) All(ctx context.Context) ([]Category, error) {
	var env api.Envelope
	if err := s.client.Get(ctx, "/categories/all", &env); err != nil {
		return nil, errors.Wrap(err, "[Service.All]")
	}
	var list []Category
	if err := env.Decode(&list); err != nil {
		return nil, errors.Wrap(err, "[Service.All]")
	}
	return list, nil
}

// Get fetches a single category.
func (s *Service) Get(ctx context.Context, id string) (*Category, error) {
	var env api.Envelope
	if err := s.client.Get(ctx, fmt.Sprintf("/categories/categories/%s", id), &env); err != nil {
		return nil, errors.Wrap(err, "[Service.Get]")
	}
	var category Category
	if err := env.Decode(&category); err != nil {
		return nil, errors.Wrap(err, "[Service.Get]")
	}
	return &category, nil
}

// Create adds a category. Admin only.
func (s *Service) Create(ctx context.Context, name string) (*Category, error) {
	if name == "" {
		return nil, errors.New("[Service.Create] name is required")
	}
	var env api.Envelope
	if err := s.client.Post(ctx, "/categories/new", map[string]string{"name": name}, &env); err != nil {
		return nil, errors.Wrap(err, "[Service.Create]")
	}
	var category Category
	if err := env.Decode(&category); err != nil {
		return nil, errors.Wrap(err, "[Service.Create]")
	}
	return &category, nil
}

// Delete removes a category. Admin only.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/categories/delete/%s", id), nil); err != nil {
		return errors.Wrap(err, "[Service.Delete]")
	}
	return nil
}
