package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/config"
	"finitefield.org/storefront-web/internal/i18n"
	"finitefield.org/storefront-web/internal/platform/requestctx"
	"finitefield.org/storefront-web/templates"
)

// templateSet is one parse of the template tree: a clone of the shared layout per page,
// plus the shared set for fragments.
type templateSet struct {
	shared *template.Template
	pages  map[string]*template.Template
}

// templateLoader hands out template sets. In dev mode, templates are reparsed from disk
// on each request; otherwise the embedded set is parsed once.
type templateLoader struct {
	devMode bool
	fsys    fs.FS
	funcs   template.FuncMap
	cached  *templateSet
}

func newTemplateLoader(server config.ServerConfig, bundle *i18n.Bundle) (*templateLoader, error) {
	tl := &templateLoader{
		devMode: server.DevMode,
		fsys:    templates.FS,
		funcs:   templateFuncs(bundle),
	}
	if server.DevMode {
		tl.fsys = os.DirFS(server.TemplatesDir)
	}
	// parse once up front so broken templates fail at startup
	set, err := parseTemplates(tl.fsys, tl.funcs)
	if err != nil {
		return nil, err
	}
	tl.cached = set
	return tl, nil
}

func (tl *templateLoader) get() (*templateSet, error) {
	if tl.devMode {
		return parseTemplates(tl.fsys, tl.funcs)
	}
	return tl.cached, nil
}

func templateFuncs(bundle *i18n.Bundle) template.FuncMap {
	return template.FuncMap{
		"t": func(lang, key string) string {
			return bundle.T(lang, key)
		},
		"year": func() int { return time.Now().Year() },
	}
}

func parseTemplates(fsys fs.FS, funcs template.FuncMap) (*templateSet, error) {
	shared, err := template.New("_root").Funcs(funcs).ParseFS(fsys, "layouts/*.tmpl", "partials/*.tmpl")
	if err != nil {
		return nil, err
	}
	pageFiles, err := fs.Glob(fsys, "pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	if len(pageFiles) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	set := &templateSet{shared: shared, pages: make(map[string]*template.Template, len(pageFiles))}
	for _, file := range pageFiles {
		clone, err := shared.Clone()
		if err != nil {
			return nil, err
		}
		page, err := clone.ParseFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		set.pages[strings.TrimSuffix(path.Base(file), ".tmpl")] = page
	}
	return set, nil
}

// renderPage executes the base layout with the named page's content at status.
func (a *app) renderPage(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	set, err := a.templates.get()
	if err != nil {
		a.templateError(w, r, "parse", err)
		return
	}
	page, ok := set.pages[name]
	if !ok {
		a.templateError(w, r, "lookup", fmt.Errorf("unknown page %q", name))
		return
	}
	a.execute(w, r, page, "base", status, data)
}

// renderTemplate executes a single named fragment.
func (a *app) renderTemplate(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	set, err := a.templates.get()
	if err != nil {
		a.templateError(w, r, "parse", err)
		return
	}
	a.execute(w, r, set.shared, name, status, data)
}

func (a *app) execute(w http.ResponseWriter, r *http.Request, t *template.Template, name string, status int, data any) {
	// buffer so a failing template never leaves a half-written 200
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		a.templateError(w, r, "exec", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (a *app) templateError(w http.ResponseWriter, r *http.Request, stage string, err error) {
	requestctx.Logger(r.Context()).Error("template error", zap.String("stage", stage), zap.Error(err))
	http.Error(w, "template error", http.StatusInternalServerError)
}
