// Package api provides the HTTP API server and handlers for the Inkwell
// bookstore.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"log/slog"

	"github.com/Jawed-lol/inkwell-sub000/internal/auth"
	"github.com/Jawed-lol/inkwell-sub000/internal/ratelimit"
	"github.com/Jawed-lol/inkwell-sub000/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tokenService    *auth.TokenService
	authService     *service.AuthService
	catalogService  *service.CatalogService
	cartService     *service.CartService
	orderService    *service.OrderService
	reviewService   *service.ReviewService
	wishlistService *service.WishlistService
	authLimiter     *ratelimit.KeyedRateLimiter
	frontendURL     string
	router          *chi.Mux
	logger          *slog.Logger
}

// Options bundles the server's dependencies.
type Options struct {
	TokenService    *auth.TokenService
	AuthService     *service.AuthService
	CatalogService  *service.CatalogService
	CartService     *service.CartService
	OrderService    *service.OrderService
	ReviewService   *service.ReviewService
	WishlistService *service.WishlistService
	AuthLimiter     *ratelimit.KeyedRateLimiter
	FrontendURL     string
	Logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	s := &Server{
		tokenService:    opts.TokenService,
		authService:     opts.AuthService,
		catalogService:  opts.CatalogService,
		cartService:     opts.CartService,
		orderService:    opts.OrderService,
		reviewService:   opts.ReviewService,
		wishlistService: opts.WishlistService,
		authLimiter:     opts.AuthLimiter,
		frontendURL:     opts.FrontendURL,
		router:          chi.NewRouter(),
		logger:          opts.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// Auth endpoints. The public ones are rate limited per IP.
	s.router.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimitByIP)
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/forgot-password", s.handleForgotPassword)
			r.Post("/reset-password", s.handleResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/profile", s.handleProfile)
			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", s.handleListWishlist)
				r.Post("/{bookID}", s.handleAddToWishlist)
				r.Delete("/{bookID}", s.handleRemoveFromWishlist)
			})
		})
	})

	// Catalog (public).
	s.router.Route("/books", func(r chi.Router) {
		r.Get("/", s.handleListBooks)
		r.Get("/search", s.handleSearchBooks)
		r.Get("/random", s.handleRandomBooks)
		r.Get("/{slug}", s.handleGetBook)
	})

	// Cart (per-user).
	s.router.Route("/cart", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleGetCart)
		r.Put("/", s.handleSetCart)
	})

	// Orders (per-user).
	s.router.Route("/orders", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/", s.handlePlaceOrder)
		r.Get("/", s.handleOrderHistory)
	})

	// Reviews. Reading a book's reviews is public; everything else needs
	// the reviewer's identity from the token.
	s.router.Route("/reviews", func(r chi.Router) {
		r.Get("/book/{slug}", s.handleListBookReviews)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleSubmitReview)
			r.Get("/user", s.handleListUserReviews)
			r.Delete("/{bookID}/{reviewID}", s.handleDeleteReview)
		})
	})
}
