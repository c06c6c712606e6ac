package comments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PostResolver maps a request to the post id of the item being read.
type PostResolver func(r *http.Request) (postID int, ok bool)

// RegisterRoutes mounts comment endpoints under /api/comments.
func RegisterRoutes(r chi.Router, client *Client, resolve PostResolver) {
	r.Route("/api/comments", func(r chi.Router) {
		r.Get("/", handleList(client, resolve))
		r.Post("/", handleCreate(client, resolve))
	})
}

func handleList(client *Client, resolve PostResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := resolve(r)
		if !ok {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "no content item selected"})
			return
		}

		list, err := client.List(r.Context(), postID)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"post_id": postID, "comments": list})
	}
}

// createRequest is the JSON body for POST /api/comments.
type createRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Body  string `json:"body"`
}

func handleCreate(client *Client, resolve PostResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := resolve(r)
		if !ok {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "no content item selected"})
			return
		}

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		created, err := client.Post(r.Context(), Comment{
			PostID: postID,
			Name:   req.Name,
			Email:  req.Email,
			Body:   req.Body,
		})
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "validation failed", "fields": verr.Fields})
			return
		case err != nil:
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
