package http

import (
	"net/http"

	"github.com/Lego1st/quizzess/internal/app"
)

// NewRouter mounts the view endpoints.
func NewRouter(sessions *app.SessionService, authoring *app.AuthoringService, play *app.PlayService) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/session", NewSessionHandler(sessions))
	mux.HandleFunc("/ws/author", NewAuthorHandler(authoring, sessions).ServeWS)
	mux.HandleFunc("/ws/play", NewPlayHandler(play).ServeWS)
	return mux
}
