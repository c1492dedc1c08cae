package stubserver

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (s *Server) handleAllCategories(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, s.store.allCategories())
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := s.store.categoryByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeData(w, http.StatusOK, category)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, exists := s.store.categoryByName(name); exists {
		writeError(w, http.StatusBadRequest, "category already exists")
		return
	}

	created := s.store.addCategory(name)
	writeMessage(w, http.StatusCreated, "category created", created)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if !s.store.deleteCategory(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeMessage(w, http.StatusOK, "category deleted", nil)
}
