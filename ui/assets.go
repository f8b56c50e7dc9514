package ui

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html static content/*.md
var assets embed.FS

// Logo returns the embedded letterhead logo.
func Logo() ([]byte, error) {
	return fs.ReadFile(assets, "static/images/logo.png")
}
