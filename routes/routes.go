package routes

import (
	"github.com/Dosada05/padel-ladder-system/handlers"
	"github.com/Dosada05/padel-ladder-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes собирает дерево маршрутов: публичные чтения, мутации под
// JWT, административные правки дополнительно под X-Admin-Key.
func SetupRoutes(
	router *chi.Mux,
	teamHandler *handlers.TeamHandler,
	ladderHandler *handlers.LadderHandler,
	rankingHandler *handlers.RankingHandler,
	challengeHandler *handlers.ChallengeHandler,
	matchHandler *handlers.MatchHandler,
	tournamentHandler *handlers.TournamentHandler,
	americanoHandler *handlers.AmericanoHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret []byte,
	adminKeyHash string,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	requireAdminKey := middleware.RequireAdminKey(adminKeyHash)

	router.Route("/clubs/{clubID}", func(r chi.Router) {
		r.Get("/teams", teamHandler.ListByClubHandler)
		r.Get("/tournaments", tournamentHandler.ListByClubHandler)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", teamHandler.GetByIDHandler)
		r.Get("/{teamID}/challenges", challengeHandler.ListByTeamHandler)
		r.Get("/{teamID}/matches", matchHandler.ListByTeamHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", teamHandler.CreateHandler)
		})
	})

	router.Route("/ladders", func(r chi.Router) {
		r.Get("/{ladderID}", ladderHandler.GetLadderHandler)
		r.Get("/{ladderID}/categories", ladderHandler.ListCategoriesHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", ladderHandler.CreateLadderHandler)
			r.Post("/{ladderID}/categories", ladderHandler.CreateCategoryHandler)
		})
	})

	router.Route("/categories/{categoryID}", func(r chi.Router) {
		r.Get("/", ladderHandler.GetCategoryHandler)
		r.Get("/standings", rankingHandler.StandingsHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/entries", rankingHandler.EnsureEntryHandler)
		})
	})

	router.Route("/challenges", func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/", challengeHandler.ProposeHandler)
		r.Post("/{challengeID}/accept", challengeHandler.AcceptHandler)
		r.Post("/{challengeID}/decline", challengeHandler.DeclineHandler)
		r.Post("/{challengeID}/cancel", challengeHandler.CancelHandler)
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/", matchHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Put("/schedule", matchHandler.ScheduleHandler)
			r.Post("/score", matchHandler.SubmitScoreHandler)
			r.Post("/score/confirm", matchHandler.ConfirmScoreHandler)
			r.Post("/score/dispute", matchHandler.DisputeScoreHandler)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/{tournamentID}", tournamentHandler.GetDetailHandler)
		r.Get("/{tournamentID}/standings", tournamentHandler.GroupStandingsHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", tournamentHandler.CreateHandler)
			r.Post("/{tournamentID}/open", tournamentHandler.OpenRegistrationHandler)
			r.Post("/{tournamentID}/start", tournamentHandler.StartHandler)
			r.Post("/{tournamentID}/register", tournamentHandler.RegisterHandler)
			r.Post("/{tournamentID}/withdraw", tournamentHandler.WithdrawHandler)
			r.Post("/{tournamentID}/groups", tournamentHandler.AssignGroupsHandler)
			r.Post("/{tournamentID}/matches/generate", tournamentHandler.GenerateGroupMatchesHandler)
			r.Post("/{tournamentID}/knockout/seed", tournamentHandler.SeedKnockoutHandler)
		})
	})

	router.Route("/tournament-matches/{matchID}", func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/score", tournamentHandler.SubmitGroupScoreHandler)
		r.Post("/knockout-score", tournamentHandler.SubmitKnockoutScoreHandler)
	})

	router.Route("/americano", func(r chi.Router) {
		r.Get("/{sessionID}", americanoHandler.GetSessionHandler)
		r.Get("/{sessionID}/matches", americanoHandler.ListMatchesHandler)
		r.Get("/{sessionID}/leaderboard", americanoHandler.LeaderboardHandler)
		r.Get("/{sessionID}/players/{playerID}/stats", americanoHandler.PlayerStatsHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", americanoHandler.CreateSessionHandler)
			r.Post("/{sessionID}/start", americanoHandler.StartHandler)
			r.Post("/matches/{matchID}/score", americanoHandler.SubmitScoreHandler)
			r.Put("/matches/{matchID}/score", americanoHandler.CorrectScoreHandler)
		})
	})

	// Административные правки: журналируемые операции под отдельным ключом.
	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(requireAdminKey)

		r.Put("/entries/{entryID}/stats", rankingHandler.AdjustStatsHandler)
		r.Post("/entries/swap", rankingHandler.SwapRanksHandler)
		r.Put("/teams/{teamID}/freeze", teamHandler.SetFreezeHandler)
	})

	router.Route("/ws", func(r chi.Router) {
		r.Get("/categories/{categoryID}", webSocketHandler.ServeCategoryWs)
		r.Get("/tournaments/{tournamentID}", webSocketHandler.ServeTournamentWs)
	})
}
