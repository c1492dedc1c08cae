package comments

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/beritahub/go-portal-client/api"
)

// Service exposes comment reading (public) and writing (any authenticated
// role; editing is owner-or-admin, enforced server-side).
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[comments.NewService] client is required")
	}
	return &Service{client: client}, nil
}

// ForArticle lists the comments under an article.
func (s *Service) ForArticle(ctx context.Context, articleID string) ([]Comment, error) {
	var env api.Envelope
	if err := s.client.Get(ctx, fmt.Sprintf("/comments/article/%s", articleID), &env); err != nil {
		return nil, errors.Wrap(err, "[Service.ForArticle]")
	}
	var list []Comment
	if err := env.Decode(&list); err != nil {
		return nil, errors.Wrap(err, "[Service.ForArticle]")
	}
	return list, nil
}

// Create posts a comment under an article.
func (s *Service) Create(ctx context.Context, articleID, content string) (*Comment, error) {
	if content == "" {
		return nil, errors.New("[Service.Create] content is required")
	}
	var env api.Envelope
	if err := s.client.Post(ctx, fmt.Sprintf("/comments/new/%s", articleID), map[string]string{"content": content}, &env); err != nil {
		return nil, errors.Wrap(err, "[Service.Create]")
	}
	var comment Comment
	if err := env.Decode(&comment); err != nil {
		return nil, errors.Wrap(err, "[Service.Create]")
	}
	return &comment, nil
}

// Edit replaces a comment's content.
func (s *Service) Edit(ctx context.Context, id, content string) (*Comment, error) {
	if content == "" {
		return nil, errors.New("[Service.Edit] content is required")
	}
	var env api.Envelope
	if err := s.client.Put(ctx, fmt.Sprintf("/comments/edit/%s", id), map[string]string{"content": content}, &env); err != nil {
		return nil, errors.Wrap(err, "[Service.Edit]")
	}
	var comment Comment
	if err := env.Decode(&comment); err != nil {
		return nil, errors.Wrap(err, "[Service.Edit]")
	}
	return &comment, nil
}

// Delete removes a comment.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/comments/delete/%s", id), nil); err != nil {
		return errors.Wrap(err, "[Service.Delete]")
	}
	return nil
}
