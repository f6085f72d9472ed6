package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterDeps struct {
	Cart           *CartHandler
	Product        *ProductHandler
	User           *UserHandler
	AuthMiddleware func(http.Handler) http.Handler
	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(deps.AuthMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/signup", deps.User.Signup)
		r.Post("/login", deps.User.Login)
		r.Get("/user", deps.User.CurrentUser)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Product.ListAvailable)
			r.Get("/all", deps.Product.ListAll)
			r.Get("/{id}", deps.Product.GetByID)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
			r.Post("/checkout", deps.Cart.Checkout)
		})
	})

	return otelhttp.NewHandler(r, "storefront-api")
}
