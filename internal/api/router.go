package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/Deck-Analyzer/internal/api/handlers"
	"github.com/ramonehamilton/Deck-Analyzer/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	deckHandler := handlers.NewDeckHandler(s.analyzer, s.wsHub)
	shareHandler := handlers.NewShareHandler()
	systemHandler := handlers.NewSystemHandler(s.index)

	s.router.Get("/health", s.healthCheck)
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/deck", func(r chi.Router) {
			r.Post("/analyze", deckHandler.Analyze)
			r.Post("/validate", deckHandler.Validate)
			r.Post("/montecarlo", deckHandler.MonteCarlo)
		})

		r.Route("/share", func(r chi.Router) {
			r.Post("/encode", shareHandler.Encode)
			r.Post("/decode", shareHandler.Decode)
		})

		r.Route("/system", func(r chi.Router) {
			r.Get("/version", systemHandler.GetVersion)
			r.Get("/index", systemHandler.GetIndexStatus)
			r.Post("/index/refresh", systemHandler.RefreshIndex)
		})
	})
}

// healthCheck returns the health status of the API.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status":  "healthy",
		"service": "deck-analyzer-api",
	})
}
