package routes

import (
	"github.com/DeporS/worn11/handlers"
	"github.com/DeporS/worn11/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes mounts the full HTTP surface onto the router.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	teamHandler *handlers.TeamHandler,
	catalogHandler *handlers.CatalogHandler,
	optionsHandler *handlers.OptionsHandler,
	searchHandler *handlers.SearchHandler,
	collectionHandler *handlers.CollectionHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Get("/options", optionsHandler.ListOptions)
	router.Get("/catalog", catalogHandler.ListKits)
	router.Get("/teams/search", searchHandler.SearchTeams)
	router.Get("/users/search", searchHandler.SearchUsers)

	router.Route("/teams/{teamID}", func(r chi.Router) {
		r.Get("/", teamHandler.GetTeamByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Patch("/verify", teamHandler.VerifyTeam)
			r.Post("/logo", teamHandler.UploadTeamLogo)
		})
	})

	router.Get("/profiles/{username}", profileHandler.GetByUsername)

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/users/me", profileHandler.CurrentUser)
		r.Patch("/profiles/me", profileHandler.UpdateBio)
		r.Post("/profiles/me/avatar", profileHandler.UploadAvatar)

		r.Route("/my-collection", func(r chi.Router) {
			r.Get("/", collectionHandler.ListMine)
			r.Post("/", collectionHandler.Create)
			r.Get("/{id}", collectionHandler.GetMine)
			r.Patch("/{id}", collectionHandler.Update)
			r.Delete("/{id}", collectionHandler.Delete)
		})

		r.Post("/kits/{id}/like", collectionHandler.ToggleLike)
	})

	// Public collection views personalize the liked flag for logged-in viewers.
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthenticateOptional)
		r.Get("/user-collection/{username}", collectionHandler.UserCollection)
		r.Get("/user-stats/{username}", collectionHandler.UserStats)
	})
}
