package http

import (
	"net/http"

	"github.com/MKhiriev/golden-glimpses/internal/adapter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, withGZip, middleware.Recoverer)

	// the countdown stream outlives any request timeout
	router.Group(func(r chi.Router) {
		r.Use(h.optionalAuth)
		r.Get("/api/capsules/{id}/countdown", h.countdown)
	})

	router.Group(func(r chi.Router) {
		if h.requestTimeout > 0 {
			r.Use(middleware.Timeout(h.requestTimeout))
		}

		// routes without authorization
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/refresh", h.refresh)
		r.Post("/api/auth/logout", h.logout)
		r.Get("/api/version/", h.getServerVersion)
		r.Get("/api/capsules/explore", h.exploreCapsules)

		r.Group(func(r chi.Router) {
			r.Use(h.optionalAuth)
			r.Get("/api/capsules/{id}", h.getCapsule)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Post("/api/capsules", h.createCapsule)
			r.Get("/api/capsules", h.listCapsules)
			r.Post("/api/capsules/{id}/media", h.addMedia)
			r.Post("/api/capsules/{id}/media/upload", h.uploadCapsuleMedia)
			r.Put("/api/capsules/{id}/seal", h.sealCapsule)
			r.Delete("/api/capsules/{id}", h.deleteCapsule)
			r.Post("/api/media/upload", h.uploadMedia)
		})

		if h.uploadsDir != "" {
			prefix := adapter.UploadsRoute + "/"
			r.Handle(prefix+"*", withUploadHeaders(http.StripPrefix(prefix, http.FileServer(http.Dir(h.uploadsDir)))))
		}
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// withUploadHeaders keeps user files from being sniffed into, or run as,
// active content on the API origin.
func withUploadHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
		next.ServeHTTP(w, r)
	})
}
