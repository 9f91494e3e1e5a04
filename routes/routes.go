package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tournio/swiss-system/handlers"
	"github.com/tournio/swiss-system/middleware"
)

// SetupRoutes настраивает маршрутизатор: публичные чтения и защищённые
// токеном мутации.
func SetupRoutes(
	router *chi.Mux,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret []byte,
	allowedOrigins []string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/login", authHandler.Login)

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты для просмотра
		r.Get("/", tournamentHandler.List)
		r.Get("/{id}", tournamentHandler.Get)
		r.Get("/{id}/rankings", tournamentHandler.Rankings)
		r.Get("/{id}/tiebreak", tournamentHandler.TieBreakStatus)
		r.Get("/{id}/statistics", tournamentHandler.Statistics)
		r.Get("/{id}/validation", tournamentHandler.Validate)

		// Мутации только для оператора
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/", tournamentHandler.Create)
			r.Post("/{id}/participants", tournamentHandler.AddParticipant)
			r.Post("/{id}/rounds", tournamentHandler.StartNextRound)
			r.Post("/{id}/rounds/{round}/matches/{match}/result", tournamentHandler.RecordResult)
			r.Post("/{id}/close-round", tournamentHandler.CloseRound)
			r.Post("/{id}/tiebreak", tournamentHandler.RunTieBreakRound)
			r.Post("/{id}/finish", tournamentHandler.Finish)
			r.Post("/{id}/recompute-scores", tournamentHandler.RecomputeScores)
		})
	})

	router.Get("/ws/tournaments/{id}", webSocketHandler.ServeWs)
}
