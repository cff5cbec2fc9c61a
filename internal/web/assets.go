package web

import (
	"embed"
	"html/template"
)

//go:embed templates
var FS embed.FS

var indexTemplate = template.Must(template.ParseFS(FS, "templates/index.html"))
