package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = []string{"login", "register", "forgot", "dashboard", "create", "post", "error"}

type fieldView struct {
	Name, Type, Label, Value, Error, Placeholder string
}

func templateFuncs(msgs Catalog) template.FuncMap {
	return template.FuncMap{
		"t":        msgs.T,
		"locale":   msgs.Locale,
		"date":     msgs.Date,
		"longdate": msgs.LongDate,
		"imgsrc":   imageSrc,
		"field": func(name, typ, label, value, errMsg, placeholder string) fieldView {
			return fieldView{Name: name, Type: typ, Label: label, Value: value, Error: errMsg, Placeholder: placeholder}
		},
	}
}

// imageSrc lets inline data:image URLs through the template's URL filter.
// Anything else is left to the normal escaping.
func imageSrc(u string) any {
	if strings.HasPrefix(u, "data:image/") && !strings.ContainsAny(u, "\"'<> ") {
		return template.URL(u)
	}
	return u
}

func parseTemplates(msgs Catalog) (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		tmpl, err := template.New(name).Funcs(templateFuncs(msgs)).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		out[name] = tmpl
	}
	return out, nil
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := s.templates[page]
	if !ok {
		s.log.WithField("page", page).Error("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.WithError(err).WithField("page", page).Error("render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Message   string
	Back      string
	BackLabel string
}

func (s *Server) renderError(w http.ResponseWriter, status int, msg string) {
	s.render(w, status, "error", errorPage{
		Message:   msg,
		Back:      "/dashboard",
		BackLabel: s.msgs.T("common.back_to_dashboard"),
	})
}
