package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"voterreg/internal/handlers"
	"voterreg/internal/middleware"
)

func RegisterRouter(h *handlers.Handler, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	// Public verification (no auth, that is the point).
	r.Get("/api/verify/{vin}", h.VerifyVoter)
	r.Get("/api/verify/{vin}/qrcode", h.GetVerificationQR)
	r.Get("/api/v1/card-info/{vin}", h.CardInfo)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(jwtSecret))

		r.Post("/api/applications", h.CreateApplication)
		r.Get("/api/applications/{id}", h.GetApplication)
		r.Get("/api/voter-card/{id}", h.GetVoterCard)
		r.Post("/api/v1/cards/generate-share-link", h.GenerateShareLink)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly)
			r.Get("/api/admin/applications", h.ListApplications)
			r.Patch("/api/admin/applications/{id}/status", h.UpdateApplicationStatus)
			r.Post("/api/admin/applications/bulk-upload", h.BulkUploadApplications)
		})
	})
	return r
}
