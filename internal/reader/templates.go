package reader

import (
	_ "embed"
	"html/template"
	"log"
	"net/http"

	"github.com/ziadkadry99/learnroute/internal/navigator"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// indexData is the data passed to the page template.
type indexData struct {
	Topics  []topicView
	State   navigator.State
	Content template.HTML
}

// ServeIndex renders the reader page for the request's session.
func (rd *Reader) ServeIndex(w http.ResponseWriter, r *http.Request) {
	nav, ok := rd.session(w, r)
	if !ok {
		return
	}

	snap := nav.Snapshot()
	data := indexData{Topics: rd.topicViews(), State: snap.State}
	if snap.Current != nil && snap.State.View == navigator.ViewReader {
		html, err := rd.cfg.Renderer.Render(*snap.Current)
		if err != nil {
			log.Printf("reader: rendering %s: %v", snap.Current.File, err)
		}
		data.Content = html
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("reader: executing index template: %v", err)
	}
}
