// Package web renders the browser front-end.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"flash-gen/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Page is the data behind the index page.
type Page struct {
	Title    string
	View     session.View
	Warning  string
	Error    string
	Text     string
	NumCards int
	Language string
	MinCards int
	MaxCards int
}

// Render writes the index page.
func Render(w io.Writer, page Page) error {
	if page.Title == "" {
		page.Title = "Flash Card Generator"
	}
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// Assets serves the embedded stylesheet.
func Assets() http.Handler {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
