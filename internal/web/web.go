package web

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var files embed.FS

//go:embed static/*
var static embed.FS

// ScriptPath is where the admin shell loads its script from.
const ScriptPath = "/static/admin.js"

// Sections are the admin pages reachable under /admin/<section>.
var Sections = []string{
	"services",
	"formations",
	"reservations",
	"calendar",
	"gallery",
	"reviews",
	"faq",
	"users",
	"invoices",
	"team",
	"site",
	"contact",
	"audit",
}

func IsSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}

// Templates parses the embedded pages for gin's HTML renderer.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(files, "templates/*.html")
}

// Static serves the embedded admin assets.
func Static() http.FileSystem {
	return http.FS(static)
}
