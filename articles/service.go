package articles

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/beritahub/go-portal-client/api"
)

// Service exposes article browsing (public) and authoring (writer/admin).
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[articles.NewService] client is required")
	}
	return &Service{client: client}, nil
}

// List returns all published articles.
func (s *Service) List(ctx context.Context) ([]Article, error) {
	return s.list(ctx, "/articles/articles")
}

// ByCategory returns the articles filed under a category.
func (s *Service) ByCategory(ctx context.Context, categoryID string) ([]Article, error) {
	return s.list(ctx, fmt.Sprintf("/articles/category/%s", categoryID))
}

// ByAuthor returns the articles written by a user.
func (s *Service) ByAuthor(ctx context.Context, userID string) ([]Article, error) {
	return s.list(ctx, fmt.Sprintf("/articles/user/%s", userID))
}

func (s *Service) list(ctx context.Context, path string) ([]Article, error) {
	var env api.Envelope
	if err := s.client.Get(ctx, path, &env); err != nil {
		return nil, errors.Wrap(err, "[Service.list]")
	}
	var list []Article
	if err := env.Decode(&list); err != nil {
		return nil, errors.Wrap(err, "[Service.list]")
	}
	return list, nil
}

// Get fetches a single article.
func (s *Service) Get(ctx context.Context, id string) (*Article, error) {
	var env api.Envelope
	if err := s.client.Get(ctx, fmt.Sprintf("/articles/articles/%s", id), &env); err != nil {
		return nil, errors.Wrap(err, "[Service.Get]")
	}
	var article Article
	if err := env.Decode(&article); err != nil {
		return nil, errors.Wrap(err, "[Service.Get]")
	}
	return &article, nil
}

// Create publishes a new article from a draft. Writer or admin.
func (s *Service) Create(ctx context.Context, draft Draft) (*Article, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	var env api.Envelope
	if err := s.client.PostForm(ctx, "/articles/new", draftFields(draft), draftFiles(draft), &env); err != nil {
		return nil, errors.Wrap(err, "[Service.Create]")
	}
	var article Article
	if err := env.Decode(&article); err != nil {
		return nil, errors.Wrap(err, "[Service.Create]")
	}
	return &article, nil
}

// Update edits an existing article. Writer (own articles) or admin.
func (s *Service) Update(ctx context.Context, id string, draft Draft) (*Article, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	var env api.Envelope
	if err := s.client.PutForm(ctx, fmt.Sprintf("/articles/edit/%s", id), draftFields(draft), draftFiles(draft), &env); err != nil {
		return nil, errors.Wrap(err, "[Service.Update]")
	}
	var article Article
	if err := env.Decode(&article); err != nil {
		return nil, errors.Wrap(err, "[Service.Update]")
	}
	return &article, nil
}

// Delete removes an article.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/articles/delete/%s", id), nil); err != nil {
		return errors.Wrap(err, "[Service.Delete]")
	}
	return nil
}

// validateDraft is the client-side short-circuit: required fields are
// checked before any network call is made.
func validateDraft(draft Draft) error {
	if draft.Title == "" || draft.Content == "" || draft.CategoryID == "" {
		return errors.New("[articles.validateDraft] title, content, and category are required")
	}
	return nil
}

func draftFields(draft Draft) map[string]string {
	return map[string]string{
		"title":      draft.Title,
		"content":    draft.Content,
		"categoryId": draft.CategoryID,
	}
}

func draftFiles(draft Draft) []api.FormFile {
	if draft.Image == nil {
		return nil
	}
	// The image file part is named imageUrl, matching the upload middleware
	// on the server side.
	return []api.FormFile{{
		Field:   "imageUrl",
		Name:    draft.Image.Name,
		Content: bytes.NewReader(draft.Image.Content),
	}}
}
