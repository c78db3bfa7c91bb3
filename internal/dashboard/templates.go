package dashboard

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"fragment": func(fragments map[string]template.HTML, id string) template.HTML {
		if html := fragments[id]; html != "" {
			return html
		}
		return `<p class="placeholder">Loading…</p>`
	},
}).ParseFS(templateFS, "templates/*.html"))

// renderPage buffers the page; a template error yields a 500, never a partial page.
func renderPage(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("dashboard: rendering %s: %v", name, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
