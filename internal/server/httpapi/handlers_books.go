package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/bookworm/internal/common"
	"github.com/dmitrijs2005/bookworm/internal/server/models"
)

type addToListRequest struct {
	Data struct {
		Title      string `json:"title"`
		Author     string `json:"author"`
		Publisher  string `json:"publisher"`
		Year       string `json:"year"`
		Identifier string `json:"identifier"`
		Thumbnail  string `json:"thumbnail"`
		Table      string `json:"table"`
	} `json:"data"`
}

func (s *Server) handleAddToList(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	var req addToListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if req.Data.Identifier == "" {
		respondBadRequest(w, "identifier is required")
		return
	}

	entry := &models.BookEntry{
		Title:      req.Data.Title,
		Author:     req.Data.Author,
		Publisher:  req.Data.Publisher,
		Year:       req.Data.Year,
		Identifier: req.Data.Identifier,
		Thumbnail:  req.Data.Thumbnail,
	}

	kind, err := s.books.Add(r.Context(), SessionFromContext(r.Context()), req.Data.Table, entry, claims.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Book successfully added to "+string(kind), nil)
}

// handleListBooks returns a handler serving one fixed list kind; the three
// list routes differ only in the kind they are bound to.
func (s *Server) handleListBooks(kind models.ListKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			respondError(w, common.ErrorUnauthorized)
			return
		}

		entries, err := s.books.List(r.Context(), SessionFromContext(r.Context()), kind, claims.Email)
		if err != nil {
			respondError(w, err)
			return
		}

		respondSuccess(w, "Books successfully returned", entries)
	}
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	identifier := r.URL.Query().Get("identifier")
	kind := r.URL.Query().Get("table")
	if identifier == "" {
		respondBadRequest(w, "identifier is required")
		return
	}

	if err := s.books.Delete(r.Context(), SessionFromContext(r.Context()), kind, identifier, claims.Email); err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Book successfully deleted", nil)
}

// handleSearchBooks proxies a catalog query. Public: searching needs no
// account.
func (s *Server) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	terms := q.Get("search-terms")
	if terms == "" {
		respondBadRequest(w, "search-terms is required")
		return
	}

	data, err := s.catalog.Search(r.Context(), terms, q.Get("criteria"), q.Get("page"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Search successful.", data)
}
