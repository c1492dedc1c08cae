package stubserver

import (
	"net/http"

	"github.com/beritahub/go-portal-client/articles"
	"github.com/beritahub/go-portal-client/users"
)

func (s *Server) handleListArticles(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, s.store.listArticles(nil))
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	article, ok := s.store.articleByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	writeData(w, http.StatusOK, article)
}

func (s *Server) handleArticlesByCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	writeData(w, http.StatusOK, s.store.listArticles(func(a *articles.Article) bool {
		return a.CategoryID == id
	}))
}

func (s *Server) handleArticlesByAuthor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	writeData(w, http.StatusOK, s.store.listArticles(func(a *articles.Article) bool {
		return a.Author != nil && a.Author.ID == id
	}))
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart form")
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	categoryID := r.FormValue("categoryId")
	if title == "" || content == "" || categoryID == "" {
		writeError(w, http.StatusBadRequest, "title, content, and category are required")
		return
	}
	if _, ok := s.store.categoryByID(categoryID); !ok {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	draft := articles.Article{Title: title, Content: content, CategoryID: categoryID}
	if _, header, err := r.FormFile("imageUrl"); err == nil {
		draft.ImageURL = "/uploads/" + header.Filename
	}

	created := s.store.addArticle(draft, caller, NowTimeFunc())
	writeMessage(w, http.StatusCreated, "article published", created)
}

func (s *Server) handleEditArticle(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)
	id := r.PathValue("id")

	existing, ok := s.store.articleByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	if !s.mayManageArticle(caller, existing) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart form")
		return
	}

	updated, _ := s.store.updateArticle(id, func(a *articles.Article) {
		if v := r.FormValue("title"); v != "" {
			a.Title = v
		}
		if v := r.FormValue("content"); v != "" {
			a.Content = v
		}
		if v := r.FormValue("categoryId"); v != "" {
			a.CategoryID = v
		}
		if _, header, err := r.FormFile("imageUrl"); err == nil {
			a.ImageURL = "/uploads/" + header.Filename
		}
	})
	writeMessage(w, http.StatusOK, "article updated", updated)
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)
	id := r.PathValue("id")

	existing, ok := s.store.articleByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	if !s.mayManageArticle(caller, existing) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	s.store.deleteArticle(id)
	writeMessage(w, http.StatusOK, "article deleted", nil)
}

// mayManageArticle: writers manage their own articles, admins manage all.
func (s *Server) mayManageArticle(caller users.User, article articles.Article) bool {
	if caller.Role == users.RoleAdmin {
		return true
	}
	return article.Author != nil && article.Author.ID == caller.ID
}
