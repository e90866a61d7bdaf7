// Package web embeds the resident app shell, the admin pages and their
// static assets.
package web

import (
	"embed"
	"io/fs"
)

var (
	//go:embed templates
	templates embed.FS

	//go:embed static
	static embed.FS
)

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// GetTemplatesFS returns the HTML templates rooted at templates/
func GetTemplatesFS() fs.FS {
	return mustSub(templates, "templates")
}

// GetStaticFS returns the CSS and JS served under /static/
func GetStaticFS() fs.FS {
	return mustSub(static, "static")
}
