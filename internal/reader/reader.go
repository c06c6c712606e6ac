package reader

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ziadkadry99/learnroute/internal/catalog"
	"github.com/ziadkadry99/learnroute/internal/comments"
	"github.com/ziadkadry99/learnroute/internal/navigator"
	"github.com/ziadkadry99/learnroute/internal/render"
	"github.com/ziadkadry99/learnroute/internal/session"
)

// CookieName is the cookie carrying the reader session id.
const CookieName = "learnroute_session"

// Config wires a Reader to its collaborators.
type Config struct {
	Catalog  *catalog.Catalog
	Loader   navigator.Loader
	Renderer render.Renderer
	// Sessions persists navigation state. When nil, state lives in memory
	// for the lifetime of the process.
	Sessions     *session.Manager
	DefaultTheme navigator.Theme
	// Comments is optional; without it the comment endpoints are not mounted.
	Comments *comments.Client
	// ContentDir and AssetPrefix mount a local content root for reference
	// types (PDF, images). Leave ContentDir empty for remote roots.
	ContentDir  string
	AssetPrefix string
	// MaxSessions bounds the navigators held in memory. The least recently
	// seen one is dropped first; with Sessions set it is restored from the
	// database on its next request. Zero means DefaultMaxSessions.
	MaxSessions int
}

// DefaultMaxSessions is the default bound on in-memory navigators.
const DefaultMaxSessions = 10000

// touchInterval limits how often request activity reaches the session table.
const touchInterval = time.Minute

// entry is one session held in memory.
type entry struct {
	nav       *navigator.Navigator
	lastSeen  time.Time
	touchedAt time.Time
}

// Reader serves the reading UI and its JSON and websocket APIs.
type Reader struct {
	cfg Config

	mu        sync.Mutex
	entries   map[string]*entry
	memStores map[string]*session.MemoryStore
}

// New creates a Reader.
func New(cfg Config) *Reader {
	if cfg.Renderer == nil {
		cfg.Renderer = &render.Basic{}
	}
	if !cfg.DefaultTheme.Valid() {
		cfg.DefaultTheme = navigator.ThemeBlue
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	return &Reader{
		cfg:       cfg,
		entries:   make(map[string]*entry),
		memStores: make(map[string]*session.MemoryStore),
	}
}

// RegisterRoutes mounts all reader routes onto the given router.
func (rd *Reader) RegisterRoutes(r chi.Router) {
	r.Get("/", rd.ServeIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/topics", rd.handleTopics)
		r.Get("/state", rd.handleState)
		r.Get("/content", rd.handleContent)

		r.Route("/topics/{id}", func(r chi.Router) {
			r.Post("/select", rd.handleSelectTopic)
			r.Post("/toggle", rd.handleToggleTopic)
			r.Get("/files", rd.handleTopicFiles)
			r.Post("/ranks/{rank}", rd.handleOpenRank)
		})
		r.Post("/files/{index}", rd.handleSelectFile)
		r.Post("/next", rd.handleStep((*navigator.Navigator).Next))
		r.Post("/prev", rd.handleStep((*navigator.Navigator).Prev))
		r.Post("/home", rd.handleStep((*navigator.Navigator).GoHome))
		r.Put("/theme", rd.handleSetTheme)
		r.Post("/theme/toggle", rd.handleStep((*navigator.Navigator).ToggleTheme))
	})

	if rd.cfg.Comments != nil {
		comments.RegisterRoutes(r, rd.cfg.Comments, rd.currentPostID)
	}

	r.Get("/ws/reader", rd.handleWebSocket)

	if rd.cfg.ContentDir != "" {
		prefix := "/" + strings.Trim(rd.cfg.AssetPrefix, "/")
		if prefix == "/" {
			prefix = "/content"
		}
		fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(rd.cfg.ContentDir)))
		r.Handle(prefix+"/*", fs)
	}
}

// navigatorFor returns the navigator of the request's session and its id.
// When the request carries no known session id a new session is started and
// the returned cookie must be sent to the client.
func (rd *Reader) navigatorFor(r *http.Request) (*navigator.Navigator, string, *http.Cookie, error) {
	ctx := r.Context()

	if id, ok := sessionID(r); ok {
		nav, found, err := rd.open(ctx, id, false)
		if err != nil {
			return nil, "", nil, err
		}
		if found {
			return nav, id, nil, nil
		}
	}

	id, err := rd.newSessionID(ctx)
	if err != nil {
		return nil, "", nil, err
	}
	nav, _, err := rd.open(ctx, id, true)
	if err != nil {
		return nil, "", nil, err
	}
	return nav, id, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// lookup returns the navigator of an existing session without starting one.
func (rd *Reader) lookup(r *http.Request) (*navigator.Navigator, bool) {
	id, ok := sessionID(r)
	if !ok {
		return nil, false
	}
	nav, found, err := rd.open(r.Context(), id, false)
	if err != nil {
		log.Printf("reader: opening session %s: %v", id, err)
		return nil, false
	}
	return nav, found
}

func sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

func (rd *Reader) newSessionID(ctx context.Context) (string, error) {
	if rd.cfg.Sessions == nil {
		return uuid.New().String(), nil
	}
	return rd.cfg.Sessions.Create(ctx)
}

// open returns the navigator for id, restoring it from the store when it is
// not held in memory, and records activity on it. Unless fresh is set, an id
// that names no known session reports found == false.
func (rd *Reader) open(ctx context.Context, id string, fresh bool) (nav *navigator.Navigator, found bool, err error) {
	now := time.Now()

	rd.mu.Lock()
	if e, ok := rd.entries[id]; ok {
		e.lastSeen = now
		touch := rd.cfg.Sessions != nil && now.Sub(e.touchedAt) >= touchInterval
		if touch {
			e.touchedAt = now
		}
		rd.mu.Unlock()
		if touch {
			if err := rd.cfg.Sessions.Touch(ctx, id); err != nil {
				log.Printf("reader: %v", err)
			}
		}
		return e.nav, true, nil
	}
	_, inMemory := rd.memStores[id]
	rd.mu.Unlock()

	if !fresh {
		known := inMemory
		if rd.cfg.Sessions != nil {
			if known, err = rd.cfg.Sessions.Exists(ctx, id); err != nil {
				return nil, false, err
			}
		}
		if !known {
			return nil, false, nil
		}
	}

	if rd.cfg.Sessions != nil {
		if err := rd.cfg.Sessions.Touch(ctx, id); err != nil {
			return nil, false, err
		}
	}

	rd.mu.Lock()
	store := rd.storeFor(id)
	rd.mu.Unlock()

	nav = navigator.New(rd.cfg.Catalog, rd.cfg.Loader, store, rd.cfg.DefaultTheme)
	if err := nav.Restore(ctx); err != nil {
		return nil, false, fmt.Errorf("restoring session %s: %w", id, err)
	}

	rd.mu.Lock()
	defer rd.mu.Unlock()
	if e, ok := rd.entries[id]; ok {
		e.lastSeen = now
		return e.nav, true, nil
	}
	rd.entries[id] = &entry{nav: nav, lastSeen: now, touchedAt: now}
	rd.evictOverflow()
	return nav, true, nil
}

// storeFor must be called with rd.mu held.
func (rd *Reader) storeFor(id string) session.Store {
	if rd.cfg.Sessions != nil {
		return rd.cfg.Sessions.Store(id)
	}
	ms, ok := rd.memStores[id]
	if !ok {
		ms = session.NewMemoryStore()
		rd.memStores[id] = ms
	}
	return ms
}

// evictOverflow drops the least recently seen sessions until the bound
// holds. Must be called with rd.mu held.
func (rd *Reader) evictOverflow() {
	for len(rd.entries) > rd.cfg.MaxSessions {
		var oldest string
		var oldestSeen time.Time
		for id, e := range rd.entries {
			if oldest == "" || e.lastSeen.Before(oldestSeen) {
				oldest, oldestSeen = id, e.lastSeen
			}
		}
		rd.drop(oldest)
	}
}

// drop forgets a session held in memory. Without a database its state is
// gone with it. Must be called with rd.mu held.
func (rd *Reader) drop(id string) {
	delete(rd.entries, id)
	delete(rd.memStores, id)
}

// Sweep ends sessions idle for longer than ttl once per interval until ctx
// is done.
func (rd *Reader) Sweep(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rd.sweepIdle(ctx, time.Now().Add(-ttl))
		}
	}
}

// sweepIdle drops the navigators last seen before cutoff, flushes the
// activity of the others to the session table, then deletes the sessions
// there that are idle since before cutoff.
func (rd *Reader) sweepIdle(ctx context.Context, cutoff time.Time) {
	rd.mu.Lock()
	evicted := 0
	var active []string
	for id, e := range rd.entries {
		if e.lastSeen.Before(cutoff) {
			rd.drop(id)
			evicted++
			continue
		}
		if e.touchedAt.Before(e.lastSeen) {
			e.touchedAt = e.lastSeen
			active = append(active, id)
		}
	}
	rd.mu.Unlock()

	if evicted > 0 {
		log.Printf("reader: dropped %d idle session(s) from memory", evicted)
	}
	if rd.cfg.Sessions == nil {
		return
	}

	for _, id := range active {
		if err := rd.cfg.Sessions.Touch(ctx, id); err != nil {
			log.Printf("reader: sweep: %v", err)
		}
	}
	n, err := rd.cfg.Sessions.DeleteIdleBefore(ctx, cutoff)
	if err != nil {
		log.Printf("reader: sweep: %v", err)
		return
	}
	if n > 0 {
		log.Printf("reader: removed %d idle session(s)", n)
	}
}

// currentPostID resolves the comment thread of the item being read.
func (rd *Reader) currentPostID(r *http.Request) (int, bool) {
	nav, ok := rd.lookup(r)
	if !ok {
		return 0, false
	}
	if _, idx, ok := nav.Current(); ok {
		return comments.PostIDForIndex(idx), true
	}
	return 0, false
}

// Sessions returns the number of navigators held in memory.
func (rd *Reader) Sessions() int {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return len(rd.entries)
}
