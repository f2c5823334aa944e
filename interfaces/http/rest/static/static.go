// Package static serves the bundled public site.
package static

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed public
var embedded embed.FS

// Public is the site root
var Public fs.FS = mustSub(embedded, "public")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// NotFoundPage returns the HTML body served for unknown paths
func NotFoundPage() []byte {
	page, err := fs.ReadFile(Public, "404.html")
	if err != nil {
		return []byte("<h1>404 Not Found</h1>")
	}
	return page
}

// Handler serves files from the public site. Paths that do not name a
// file are passed to notFound.
func Handler(notFound http.Handler) http.Handler {
	files := http.FileServer(http.FS(Public))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}

		info, err := fs.Stat(Public, name)
		if err != nil || info.IsDir() {
			notFound.ServeHTTP(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
