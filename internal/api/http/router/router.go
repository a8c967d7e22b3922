package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dtroode/bookshelf-server/internal/api/http/handler"
	"github.com/dtroode/bookshelf-server/internal/api/http/middleware"
	"github.com/dtroode/bookshelf-server/internal/logger"
	"github.com/dtroode/bookshelf-server/internal/model"
)

// Config holds the transport settings of the router.
type Config struct {
	CORSOrigins  []string
	CookieName   string
	CookieSecure bool
}

// Router wires services to the HTTP API.
type Router struct {
	authService       handler.AuthService
	bookService       handler.BookService
	enrichmentService handler.EnrichmentService
	sessionService    middleware.SessionService
	contextManager    model.ContextManager
	cfg               Config
	logger            *logger.Logger
}

func New(
	authService handler.AuthService,
	bookService handler.BookService,
	enrichmentService handler.EnrichmentService,
	sessionService middleware.SessionService,
	contextManager model.ContextManager,
	cfg Config,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:       authService,
		bookService:       bookService,
		enrichmentService: enrichmentService,
		sessionService:    sessionService,
		contextManager:    contextManager,
		cfg:               cfg,
		logger:            logger,
	}
}

// Register builds the handler tree. Routes answer with and without the
// trailing slash.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	csrf := middleware.NewCSRF(r.cfg.CookieName, r.logger)
	authenticate := middleware.NewAuthenticate(r.sessionService, r.contextManager, r.cfg.CookieName, r.logger)
	requireUser := middleware.RequireUser(r.contextManager)

	authHandler := handler.NewAuth(r.authService, r.contextManager, handler.CookieConfig{
		Name:   r.cfg.CookieName,
		Secure: r.cfg.CookieSecure,
	}, r.logger)
	bookHandler := handler.NewBook(r.bookService, r.contextManager, r.logger)
	enrichmentHandler := handler.NewEnrichment(r.enrichmentService, bookHandler, r.logger)

	mux := chi.NewRouter()
	mux.Use(
		chimw.RequestID,
		logging.Handle,
		chimw.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   r.cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.CSRFHeaderName},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		chimw.StripSlashes,
		csrf.Handle,
		authenticate.Handle,
	)

	mux.Get("/healthz", handler.Health)

	mux.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.Post("/logout", authHandler.Logout)
			auth.Post("/register", authHandler.Register)
			auth.With(requireUser).Get("/user", authHandler.User)
		})

		api.Route("/books", func(books chi.Router) {
			books.Use(requireUser)
			books.Get("/", bookHandler.List)
			books.Post("/", bookHandler.Create)
			books.Route("/{id}", func(book chi.Router) {
				book.Get("/", bookHandler.Get)
				book.Put("/", bookHandler.Replace)
				book.Patch("/", bookHandler.Patch)
				book.Delete("/", bookHandler.Delete)
				book.Post("/remind-me", enrichmentHandler.RemindMe)
			})
		})

		api.Get("/analyze-bookshelf", enrichmentHandler.AnalyzeBookshelf)
	})

	return mux
}
