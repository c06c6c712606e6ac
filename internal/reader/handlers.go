package reader

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/learnroute/internal/catalog"
	"github.com/ziadkadry99/learnroute/internal/navigator"
)

// topicView is a catalog entry with its display attributes.
type topicView struct {
	catalog.Topic
	Icon   string `json:"icon"`
	Accent string `json:"accent"`
}

// contentResponse is the JSON response for the content endpoint.
type contentResponse struct {
	Index   int                 `json:"index"`
	Rank    int                 `json:"rank"`
	Name    string              `json:"name"`
	Type    catalog.ContentType `json:"type"`
	HTML    template.HTML       `json:"html"`
	HasPrev bool                `json:"has_prev"`
	HasNext bool                `json:"has_next"`
}

func (rd *Reader) topicViews() []topicView {
	topics := rd.cfg.Catalog.Topics()
	out := make([]topicView, len(topics))
	for i, t := range topics {
		p := catalog.PresentationFor(t.ID, i)
		out[i] = topicView{Topic: t, Icon: p.Icon, Accent: p.Accent}
	}
	return out
}

func (rd *Reader) handleTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rd.topicViews())
}

func (rd *Reader) handleState(w http.ResponseWriter, r *http.Request) {
	nav, ok := rd.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nav.Snapshot())
}

func (rd *Reader) handleContent(w http.ResponseWriter, r *http.Request) {
	nav, ok := rd.session(w, r)
	if !ok {
		return
	}

	snap := nav.Snapshot()
	if snap.Current == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no content item selected"})
		return
	}
	html, err := rd.cfg.Renderer.Render(*snap.Current)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	idx, _ := snap.State.FileIndex()
	writeJSON(w, http.StatusOK, contentResponse{
		Index:   idx,
		Rank:    snap.Current.Rank,
		Name:    snap.Current.Name,
		Type:    snap.Current.Type,
		HTML:    html,
		HasPrev: snap.HasPrev,
		HasNext: snap.HasNext,
	})
}

func (rd *Reader) handleSelectTopic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rd.transition(w, r, func(ctx context.Context, nav *navigator.Navigator) error {
		return nav.SelectTopic(ctx, id)
	})
}

func (rd *Reader) handleToggleTopic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rd.transition(w, r, func(ctx context.Context, nav *navigator.Navigator) error {
		return nav.ToggleTopicExpansion(ctx, id)
	})
}

func (rd *Reader) handleTopicFiles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := rd.cfg.Catalog.Find(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "topic not found"})
		return
	}

	items := rd.cfg.Loader.LoadFiles(r.Context(), id)
	files := make([]navigator.FileSummary, len(items))
	for i, it := range items {
		files[i] = navigator.FileSummary{Index: i, Rank: it.Rank, Name: it.Name, Type: it.Type, File: it.File}
	}
	writeJSON(w, http.StatusOK, files)
}

func (rd *Reader) handleOpenRank(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rank, err := strconv.Atoi(chi.URLParam(r, "rank"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rank must be an integer"})
		return
	}
	rd.transition(w, r, func(ctx context.Context, nav *navigator.Navigator) error {
		return nav.OpenRank(ctx, id, rank)
	})
}

func (rd *Reader) handleSelectFile(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index must be an integer"})
		return
	}
	rd.transition(w, r, func(ctx context.Context, nav *navigator.Navigator) error {
		return nav.SelectFile(ctx, index)
	})
}

// themeRequest is the JSON body for PUT /api/theme.
type themeRequest struct {
	Theme navigator.Theme `json:"theme"`
}

func (rd *Reader) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	rd.transition(w, r, func(ctx context.Context, nav *navigator.Navigator) error {
		return nav.SetTheme(ctx, req.Theme)
	})
}

// handleStep adapts a parameterless transition such as Next or GoHome.
func (rd *Reader) handleStep(step func(*navigator.Navigator, context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rd.transition(w, r, func(ctx context.Context, nav *navigator.Navigator) error {
			return step(nav, ctx)
		})
	}
}

// transition runs fn on the session's navigator and replies with the
// resulting snapshot.
func (rd *Reader) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, *navigator.Navigator) error) {
	nav, ok := rd.session(w, r)
	if !ok {
		return
	}
	if err := fn(r.Context(), nav); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nav.Snapshot())
}

// session resolves the navigator and sets the session cookie when a new
// session was started. It writes the error response itself.
func (rd *Reader) session(w http.ResponseWriter, r *http.Request) (*navigator.Navigator, bool) {
	nav, _, cookie, err := rd.navigatorFor(r)
	if err != nil {
		log.Printf("reader: resolving session: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
		return nil, false
	}
	if cookie != nil {
		http.SetCookie(w, cookie)
	}
	return nav, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, navigator.ErrUnknownTopic):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, navigator.ErrFileIndexOutOfRange), errors.Is(err, navigator.ErrInvalidTheme):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("reader: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
