package categories_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beritahub/go-portal-client/api"
	"github.com/beritahub/go-portal-client/categories"
	"github.com/beritahub/go-portal-client/storage"
)

func newTestService(t *testing.T, handler http.Handler) *categories.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(server.URL, storage.NewInMemoryStorage())
	require.NoError(t, err)
	service, err := categories.NewService(client)
	require.NoError(t, err)
	return service
}

func TestAllDecodesList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories/all", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"c1","name":"Teknologi"},{"id":"c2","name":"Olahraga"}]}`))
	})
	service := newTestService(t, mux)

	list, err := service.All(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Teknologi", list[0].Name)
}

func TestGetUnwrapsEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories/categories/c1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"c1","name":"Teknologi"}}`))
	})
	service := newTestService(t, mux)

	category, err := service.Get(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, "Teknologi", category.Name)
}

func TestCreate(t *testing.T) {
	t.Run("posts the name and decodes the result", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /categories/new", func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			require.JSONEq(t, `{"name":"Politik"}`, string(body))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"category created","data":{"id":"c3","name":"Politik"}}`))
		})
		service := newTestService(t, mux)

		created, err := service.Create(context.Background(), "Politik")
		require.NoError(t, err)
		require.Equal(t, "c3", created.ID)
	})

	t.Run("rejects an empty name locally", func(t *testing.T) {
		service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))
		_, err := service.Create(context.Background(), "")
		require.Error(t, err)
	})

	t.Run("surfaces the duplicate-name message", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /categories/new", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"category already exists"}`))
		})
		service := newTestService(t, mux)

		_, err := service.Create(context.Background(), "Teknologi")
		require.Error(t, err)
		require.Equal(t, "category already exists", api.Message(err, "fallback"))
	})
}

func TestDelete(t *testing.T) {
	var gotPath string
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		_, _ = w.Write([]byte(`{"message":"category deleted"}`))
	}))

	require.NoError(t, service.Delete(context.Background(), "c1"))
	require.Equal(t, "DELETE /categories/delete/c1", gotPath)
}
