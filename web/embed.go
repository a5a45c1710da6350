// Package web embeds the page templates, partials and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the static assets served under /static/.
func StaticFS() fs.FS {
	return sub("static")
}

// TemplatesFS returns the page layout, pages and partials/.
func TemplatesFS() fs.FS {
	return sub("templates")
}

// sub only fails on an invalid directory name, which is a build defect.
func sub(dir string) fs.FS {
	s, err := fs.Sub(content, dir)
	if err != nil {
		panic("web: " + err.Error())
	}
	return s
}
