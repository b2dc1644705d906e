package view

import (
	"embed"
	"html/template"
)

// Template names
const (
	ProductTemplate = "product"
	CartTemplate    = "cart"
	OrderTemplate   = "order"
	LoadingTemplate = "loading"
	ErrorTemplate   = "error"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"noReviews": func() string { return NoReviews },
	}).ParseFS(templateFS, "templates/*.html")
}
