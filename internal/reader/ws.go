package reader

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/learnroute/internal/navigator"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// command is the incoming WebSocket message format.
type command struct {
	Type    string          `json:"type"` // select, toggle, open, file, next, prev, home, theme, toggle_theme, state
	TopicID string          `json:"topic_id,omitempty"`
	Rank    int             `json:"rank,omitempty"`
	Index   int             `json:"index,omitempty"`
	Theme   navigator.Theme `json:"theme,omitempty"`
}

// reply is the outgoing WebSocket message format.
type reply struct {
	Type     string              `json:"type"` // "state" or "error"
	Snapshot *navigator.Snapshot `json:"snapshot,omitempty"`
	HTML     template.HTML       `json:"html,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func (rd *Reader) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	nav, id, cookie, err := rd.navigatorFor(r)
	if err != nil {
		log.Printf("reader: resolving session: %v", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	var header http.Header
	if cookie != nil {
		header = http.Header{"Set-Cookie": {cookie.String()}}
	}
	conn, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		log.Printf("reader: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("reader: websocket read: %v", err)
			}
			return
		}

		var cmd command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			rd.sendError(conn, "invalid message format")
			continue
		}

		// The session may have been dropped from memory or expired since
		// the last message.
		current, found, err := rd.open(ctx, id, false)
		if err != nil {
			log.Printf("reader: resolving session %s: %v", id, err)
			rd.sendError(conn, "session unavailable")
			continue
		}
		if !found {
			rd.sendError(conn, "session expired")
			return
		}
		nav = current

		switch cmd.Type {
		case "state":
		case "select":
			err = nav.SelectTopic(ctx, cmd.TopicID)
		case "toggle":
			err = nav.ToggleTopicExpansion(ctx, cmd.TopicID)
		case "open":
			err = nav.OpenRank(ctx, cmd.TopicID, cmd.Rank)
		case "file":
			err = nav.SelectFile(ctx, cmd.Index)
		case "next":
			err = nav.Next(ctx)
		case "prev":
			err = nav.Prev(ctx)
		case "home":
			err = nav.GoHome(ctx)
		case "theme":
			err = nav.SetTheme(ctx, cmd.Theme)
		case "toggle_theme":
			err = nav.ToggleTheme(ctx)
		default:
			rd.sendError(conn, "unknown message type: "+cmd.Type)
			continue
		}
		if err != nil {
			rd.sendError(conn, err.Error())
			continue
		}
		rd.sendState(conn, nav)
	}
}

func (rd *Reader) sendState(conn *websocket.Conn, nav *navigator.Navigator) {
	snap := nav.Snapshot()
	resp := reply{Type: "state", Snapshot: &snap}
	if snap.Current != nil {
		html, err := rd.cfg.Renderer.Render(*snap.Current)
		if err != nil {
			rd.sendError(conn, "rendering: "+err.Error())
			return
		}
		resp.HTML = html
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("reader: websocket write: %v", err)
	}
}

func (rd *Reader) sendError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(reply{Type: "error", Error: message}); err != nil {
		log.Printf("reader: websocket write error: %v", err)
	}
}
