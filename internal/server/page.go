package server

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"pingcheck/internal/models"
)

const logDateLayout = "Jan 2, 03:04 PM"

var pageFuncs = template.FuncMap{
	"stamp": func(t time.Time) string { return t.Local().Format(logDateLayout) },
	"ago":   humanize.Time,
	"isStatus": func(s models.Status, want string) bool {
		return string(s) == want
	},
}

func parsePage(staticFS fs.FS) *template.Template {
	return template.Must(template.New("index.html").Funcs(pageFuncs).ParseFS(staticFS, "index.html"))
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, "index.html", s.checker.Snapshot())
}

func (s *Server) handleFragment(w http.ResponseWriter, _ *http.Request) {
	s.render(w, "app", s.checker.Snapshot())
}

func (s *Server) render(w http.ResponseWriter, name string, snap models.Snapshot) {
	var buf bytes.Buffer
	if err := s.page.ExecuteTemplate(&buf, name, snap); err != nil {
		s.logger.Error("render page", zap.String("template", name), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
