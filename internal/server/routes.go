package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sky_mods/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1/mod", func(r chi.Router) {
			r.Route("/description", func(r chi.Router) {
				r.Post("/", handler(s.postV1Description))
				r.Post("/rendered", handler(s.postV1DescriptionRendered))
			})
			r.Route("/settings", func(r chi.Router) {
				r.Get("/{accountId}", handler(s.getV1Settings))
				r.Put("/{accountId}", handler(s.putV1Settings))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
