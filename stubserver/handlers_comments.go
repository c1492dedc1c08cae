package stubserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/beritahub/go-portal-client/comments"
	"github.com/beritahub/go-portal-client/users"
)

func (s *Server) handleCommentsForArticle(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.store.commentsForArticle(r.PathValue("id")))
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)
	articleID := r.PathValue("id")

	if _, ok := s.store.articleByID(articleID); !ok {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}

	content, ok := decodeCommentBody(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	created := s.store.addComment(articleID, content, &caller, NowTimeFunc())
	writeMessage(w, http.StatusCreated, "comment posted", created)
}

func (s *Server) handleEditComment(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)
	id := r.PathValue("id")

	existing, ok := s.store.commentByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "comment not found")
		return
	}
	if !mayManageComment(caller, existing) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	content, ok := decodeCommentBody(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	updated, _ := s.store.updateComment(id, func(c *comments.Comment) {
		c.Content = content
	})
	writeMessage(w, http.StatusOK, "comment updated", updated)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)
	id := r.PathValue("id")

	existing, ok := s.store.commentByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "comment not found")
		return
	}
	if !mayManageComment(caller, existing) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	s.store.deleteComment(id)
	writeMessage(w, http.StatusOK, "comment deleted", nil)
}

func decodeCommentBody(r *http.Request) (string, bool) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", false
	}
	content := strings.TrimSpace(body.Content)
	return content, content != ""
}

// mayManageComment: authors manage their own comments, admins manage all.
func mayManageComment(caller users.User, comment comments.Comment) bool {
	if caller.Role == users.RoleAdmin {
		return true
	}
	return comment.Author != nil && comment.Author.ID == caller.ID
}
