package handlers

import (
	"net/http"

	"statesapi/interfaces/http/rest/static"

	"github.com/munnerz/goautoneg"
)

const notFoundText = "404 Not Found"

// notFoundTypes is in preference order
var notFoundTypes = []string{"text/html", "application/json", "text/plain"}

// NotFound answers unmatched routes in the representation the client
// prefers: the HTML 404 page, a JSON error, or plain text
func NotFound() http.HandlerFunc {
	page := static.NotFoundPage()

	return func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept")
		contentType := "text/html"
		if accept != "" {
			contentType = goautoneg.Negotiate(accept, notFoundTypes)
		}

		switch contentType {
		case "text/html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			w.Write(page)
		case "application/json":
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"404 Not Found"}`))
		default:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(notFoundText))
		}
	}
}
