package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fanvault/fanvault-be/internal/api/handlers"
	"github.com/fanvault/fanvault-be/internal/auth"
	"github.com/fanvault/fanvault-be/internal/blob"
	"github.com/fanvault/fanvault-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	userService services.UserServiceProvider,
	creatorService services.CreatorServiceProvider,
	postService services.PostServiceProvider,
	monetizeService services.MonetizeServiceProvider,
	earningsService services.EarningsServiceProvider,
	messageService services.MessageServiceProvider,
	blobs blob.Store,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	creatorHandler := handlers.NewCreatorHandler(creatorService, earningsService)
	postHandler := handlers.NewPostHandler(postService)
	monetizeHandler := handlers.NewMonetizeHandler(monetizeService)
	messageHandler := handlers.NewMessageHandler(messageService)
	mediaHandler := handlers.NewMediaHandler(blobs)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.Post("/verify/{token}", userHandler.Verify)
			r.With(auth.RequireAuth()).Get("/me", userHandler.GetMe)
		})

		r.Route("/media", func(r chi.Router) {
			r.With(auth.RequireAuth()).Post("/", mediaHandler.Upload)
			r.Get("/{handle}", mediaHandler.Serve)
		})

		r.Route("/creators", func(r chi.Router) {
			r.With(auth.RequireAuth()).Post("/", creatorHandler.Create)

			r.Route("/{username}", func(r chi.Router) {
				// Read and monetization paths take an optional token: a
				// stale token degrades to an anonymous viewer instead of
				// failing the request.
				r.Use(auth.OptionalAuth())

				r.Get("/", creatorHandler.Get)
				r.Get("/earnings", creatorHandler.Earnings)
				r.Post("/tips", monetizeHandler.Tip)
				r.Post("/subscribe", monetizeHandler.Subscribe)

				r.Route("/posts", func(r chi.Router) {
					r.Get("/", postHandler.List)
					r.With(auth.RequireAuth()).Post("/", postHandler.Create)
					r.Post("/{postID}/unlock", monetizeHandler.Unlock)
					r.Post("/{postID}/like", postHandler.Like)
				})

				r.Route("/messages", func(r chi.Router) {
					r.Post("/", messageHandler.Send)
					r.With(auth.RequireAuth()).Get("/", messageHandler.List)
				})
			})
		})
	})

	return r
}
