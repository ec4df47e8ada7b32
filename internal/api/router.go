package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler, maxRequestBytes int64) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)                       // Basic request logging
	r.Use(middleware.Recoverer)                    // Recover from panics
	r.Use(middleware.StripSlashes)                 // Ensure consistent path handling
	r.Use(middleware.RequestSize(maxRequestBytes)) // PDFs arrive base64-encoded in the body

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/register", apiHandler.RegisterHandler)
	r.Post("/login", apiHandler.LoginHandler)

	// /chat is anonymous per turn; the only gate is the client's login flow.
	r.Post("/chat", apiHandler.ChatHandler)

	return r
}
