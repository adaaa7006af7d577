package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"etax-gateway/src/config"
	"etax-gateway/src/directory"
	"etax-gateway/src/handlers"
	"etax-gateway/src/linking"
	"etax-gateway/src/middleware"
	"etax-gateway/src/taxcore"
)

func NewRouter(core *taxcore.Client, provider *directory.Provider, sessions *linking.Store, coordinator *linking.Coordinator, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.DemoModeMiddleware(cfg.IsDemo))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(core))
		r.Post("/register", handlers.Register(core))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(cfg.JWTSecret)).Group(func(r chi.Router) {
			// User
			r.Post("/logout", handlers.Logout(core))
			r.Get("/user", handlers.GetUser(core))
			r.Post("/user/update-profile", handlers.UpdateProfile(core))
			r.Post("/identity-verification", handlers.IdentityVerification(core))
			r.Get("/qr-bank", handlers.GetQrBank(core))

			// Banks
			r.Get("/banks", handlers.GetBanks(provider))
			r.Get("/user/list-bank", handlers.GetLinkedAccounts(provider))
			r.Post("/user/add-bank", handlers.AddBank(core, provider))

			// Link flow
			r.Post("/link/sessions", handlers.StartLinkSession(sessions, provider))
			r.Get("/link/sessions/{session_id}", handlers.GetLinkSession(sessions))
			r.Post("/link/sessions/{session_id}/bank", handlers.SelectLinkBank(sessions, provider))
			r.Delete("/link/sessions/{session_id}/bank", handlers.ReselectLinkBank(sessions))
			r.Put("/link/sessions/{session_id}/draft", handlers.UpdateLinkDraft(sessions))
			r.Post("/link/sessions/{session_id}/submit", handlers.SubmitLink(sessions, coordinator))
		})
	})

	return r
}
