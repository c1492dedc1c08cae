package stubserver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/beritahub/go-portal-client/api"
	"github.com/beritahub/go-portal-client/articles"
	"github.com/beritahub/go-portal-client/categories"
	"github.com/beritahub/go-portal-client/comments"
	"github.com/beritahub/go-portal-client/storage"
	"github.com/beritahub/go-portal-client/stubserver"
	"github.com/beritahub/go-portal-client/users"
)

type clientStack struct {
	store      *storage.InMemoryStorage
	users      *users.Service
	articles   *articles.Service
	categories *categories.Service
	comments   *comments.Service
	expired    *bool
}

func newClientStack(t *testing.T, baseURL string) clientStack {
	t.Helper()

	store := storage.NewInMemoryStorage()
	expired := false
	client, err := api.New(baseURL, store,
		api.WithSessionExpiredHandler(func() { expired = true }))
	require.NoError(t, err)

	stack := clientStack{store: store, expired: &expired}
	stack.users, err = users.NewService(client)
	require.NoError(t, err)
	stack.articles, err = articles.NewService(client)
	require.NoError(t, err)
	stack.categories, err = categories.NewService(client)
	require.NoError(t, err)
	stack.comments, err = comments.NewService(client)
	require.NoError(t, err)
	return stack
}

func (c clientStack) login(t *testing.T, email string) *users.User {
	t.Helper()
	result, err := c.users.Login(context.Background(), email, stubserver.SeedPassword)
	require.NoError(t, err)
	require.NoError(t, c.store.SetAccessToken(result.AccessToken))
	return result.User
}

func newStub(t *testing.T, options ...stubserver.ServerOption) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(stubserver.New("test-secret", options...))
	t.Cleanup(server.Close)
	return server
}

func TestSeededContentIsPubliclyReadable(t *testing.T) {
	stack := newClientStack(t, newStub(t).URL+"/api")
	ctx := context.Background()

	list, err := stack.articles.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first
	require.Equal(t, "Pemilu Daerah Memasuki Tahap Akhir", list[0].Title)
	require.NotNil(t, list[0].Author)
	require.Equal(t, "Rina Wulandari", list[0].Byline())

	cats, err := stack.categories.All(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)

	older := list[1]
	comms, err := stack.comments.ForArticle(ctx, older.ID)
	require.NoError(t, err)
	require.Len(t, comms, 1)
	require.Equal(t, "Artikel yang menarik!", comms[0].Content)
}

func TestWriterAuthorsArticles(t *testing.T) {
	stack := newClientStack(t, newStub(t).URL+"/api")
	ctx := context.Background()
	writer := stack.login(t, stubserver.SeedWriterEmail)

	cats, err := stack.categories.All(ctx)
	require.NoError(t, err)

	created, err := stack.articles.Create(ctx, articles.Draft{
		Title:      "Banjir di Kalimantan",
		Content:    "Hujan deras menyebabkan banjir.",
		CategoryID: cats[0].ID,
		Image:      &articles.Image{Name: "banjir.jpg", Content: []byte("fake-jpg")},
	})
	require.NoError(t, err)
	require.Equal(t, "/uploads/banjir.jpg", created.ImageURL)
	require.Equal(t, writer.ID, created.Author.ID)

	updated, err := stack.articles.Update(ctx, created.ID, articles.Draft{
		Title: "Banjir Besar di Kalimantan", Content: created.Content, CategoryID: created.CategoryID,
	})
	require.NoError(t, err)
	require.Equal(t, "Banjir Besar di Kalimantan", updated.Title)

	mine, err := stack.articles.ByAuthor(ctx, writer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 3)

	require.NoError(t, stack.articles.Delete(ctx, created.ID))
	mine, err = stack.articles.ByAuthor(ctx, writer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
}

func TestRoleGatesAreEnforced(t *testing.T) {
	stack := newClientStack(t, newStub(t).URL+"/api")
	ctx := context.Background()
	stack.login(t, stubserver.SeedReaderEmail)

	_, err := stack.articles.Create(ctx, articles.Draft{
		Title: "Judul", Content: "Isi", CategoryID: "c1",
	})
	require.Error(t, err)
	require.True(t, api.IsStatus(err, http.StatusForbidden))

	_, err = stack.users.All(ctx)
	require.Error(t, err)
	require.True(t, api.IsStatus(err, http.StatusForbidden))

	_, err = stack.categories.Create(ctx, "Ekonomi")
	require.Error(t, err)
	require.True(t, api.IsStatus(err, http.StatusForbidden))
}

func TestAdminManagesUsersAndCategories(t *testing.T) {
	stack := newClientStack(t, newStub(t).URL+"/api")
	ctx := context.Background()
	stack.login(t, stubserver.SeedAdminEmail)

	all, err := stack.users.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	var reader users.User
	for _, u := range all {
		if u.Role == users.RoleReader {
			reader = u
		}
	}
	require.NotEmpty(t, reader.ID)

	promoted, err := stack.users.SetRole(ctx, reader.ID, users.RoleWriter)
	require.NoError(t, err)
	require.Equal(t, users.RoleWriter, promoted.Role)

	created, err := stack.categories.Create(ctx, "Ekonomi")
	require.NoError(t, err)
	require.NoError(t, stack.categories.Delete(ctx, created.ID))

	_, err = stack.categories.Create(ctx, "teknologi")
	require.Error(t, err)
	require.Equal(t, "category already exists", api.Message(err, "fallback"))
}

func TestCommentOwnershipIsEnforced(t *testing.T) {
	server := newStub(t)
	ctx := context.Background()

	readerStack := newClientStack(t, server.URL+"/api")
	readerStack.login(t, stubserver.SeedReaderEmail)

	list, err := readerStack.articles.List(ctx)
	require.NoError(t, err)
	posted, err := readerStack.comments.Create(ctx, list[0].ID, "Komentar pembaca")
	require.NoError(t, err)

	edited, err := readerStack.comments.Edit(ctx, posted.ID, "Komentar diedit")
	require.NoError(t, err)
	require.Equal(t, "Komentar diedit", edited.Content)

	writerStack := newClientStack(t, server.URL+"/api")
	writerStack.login(t, stubserver.SeedWriterEmail)
	_, err = writerStack.comments.Edit(ctx, posted.ID, "Bukan milik saya")
	require.Error(t, err)
	require.True(t, api.IsStatus(err, http.StatusForbidden))

	// Admins may moderate anyone's comment.
	adminStack := newClientStack(t, server.URL+"/api")
	adminStack.login(t, stubserver.SeedAdminEmail)
	require.NoError(t, adminStack.comments.Delete(ctx, posted.ID))
}

func TestSilentRefreshKeepsSessionAlive(t *testing.T) {
	server := newStub(t, stubserver.WithAccessTokenTTL(100*time.Millisecond))
	stack := newClientStack(t, server.URL+"/api")
	ctx := context.Background()
	writer := stack.login(t, stubserver.SeedWriterEmail)

	time.Sleep(150 * time.Millisecond)

	// The stored token has expired; the lookup rides the refresh path.
	fetched, err := stack.users.Get(ctx, writer.ID)
	require.NoError(t, err)
	require.Equal(t, writer.ID, fetched.ID)
	require.False(t, *stack.expired)

	token, err := stack.store.AccessToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// The rotated refresh credential keeps working on the next expiry.
	time.Sleep(150 * time.Millisecond)
	_, err = stack.users.Get(ctx, writer.ID)
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshCredential(t *testing.T) {
	server := newStub(t, stubserver.WithAccessTokenTTL(100*time.Millisecond))
	stack := newClientStack(t, server.URL+"/api")
	ctx := context.Background()
	writer := stack.login(t, stubserver.SeedWriterEmail)

	require.NoError(t, stack.users.Logout(ctx))
	time.Sleep(150 * time.Millisecond)

	_, err := stack.users.Get(ctx, writer.ID)
	require.Error(t, err)
	require.True(t, errors.Is(err, api.ErrSessionExpired))
	require.True(t, *stack.expired)

	token, err := stack.store.AccessToken()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestRegisterThenLogin(t *testing.T) {
	stack := newClientStack(t, newStub(t).URL+"/api")
	ctx := context.Background()

	message, err := stack.users.Register(ctx, users.Registration{
		Username: "citra",
		Email:    "citra@beritahub.test",
		Password: "kata-sandi",
		FullName: "Citra Lestari",
	})
	require.NoError(t, err)
	require.Equal(t, "registration successful, please log in", message)

	_, err = stack.users.Register(ctx, users.Registration{
		Username: "citra2", Email: "citra@beritahub.test", Password: "kata-sandi",
	})
	require.Error(t, err)
	require.Equal(t, "email already registered", api.Message(err, "fallback"))

	result, err := stack.users.Login(ctx, "citra@beritahub.test", "kata-sandi")
	require.NoError(t, err)
	require.Equal(t, users.RoleReader, result.User.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	stack := newClientStack(t, newStub(t).URL+"/api")

	_, err := stack.users.Login(context.Background(), stubserver.SeedAdminEmail, "salah")
	require.Error(t, err)
	require.Equal(t, "email atau password salah", api.Message(err, "fallback"))
}
