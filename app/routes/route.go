package routes

import (
	"net/http"

	"github.com/Rakhulsr/mellomelt/app/configs"
	"github.com/Rakhulsr/mellomelt/app/handlers"
	"github.com/Rakhulsr/mellomelt/app/middlewares"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/Rakhulsr/mellomelt/app/services"
	"github.com/Rakhulsr/mellomelt/app/utils/calc"
	"github.com/Rakhulsr/mellomelt/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type Dependencies struct {
	Render   *render.Render
	Logger   *zap.Logger
	Sessions sessions.SessionStore
	Registry *services.SessionRegistry
	Catalog  repositories.ProductRepositoryImpl
	Users    repositories.UserRepositoryImpl
	Cart     *services.CartService
	Orders   *services.OrderService
	Auth     *services.AuthService
	Account  *services.AccountService
	Contact  *services.ContactService
	Limiter  *middlewares.RateLimiter
	Store    configs.StoreInfo
	Pricing  calc.Pricing

	// CSRFKey enables gorilla/csrf when set.
	CSRFKey []byte
	Secure  bool
}

func NewRouter(d Dependencies) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = d.Render.JSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = d.Render.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	home := handlers.NewHomeHandler(d.Render, d.Store, d.Pricing)
	router.HandleFunc("/healthz", home.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middlewares.Recoverer(d.Render, d.Logger))
	api.Use(middlewares.RequestLogger(d.Logger))
	if len(d.CSRFKey) > 0 {
		api.Use(csrf.Protect(d.CSRFKey,
			csrf.Secure(d.Secure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.RequestHeader("X-CSRF-Token"),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				d.Logger.Info("csrf: request rejected", zap.String("path", r.URL.Path), zap.Error(csrf.FailureReason(r)))
				_ = d.Render.JSON(w, http.StatusForbidden, map[string]string{"error": "invalid or missing CSRF token, refresh and try again"})
			})),
		))
	}
	api.Use(middlewares.SessionMiddleware(d.Sessions, d.Render, d.Logger))

	limited := func(h http.HandlerFunc) http.Handler {
		if d.Limiter == nil {
			return h
		}
		return d.Limiter.Limit(h)
	}

	api.HandleFunc("/csrf", home.CSRF).Methods(http.MethodGet)
	api.HandleFunc("/store", home.Store).Methods(http.MethodGet)

	products := handlers.NewProductHandler(d.Render, d.Catalog, d.Logger)
	api.HandleFunc("/categories", products.Categories).Methods(http.MethodGet)
	api.HandleFunc("/products", products.List).Methods(http.MethodGet)
	api.HandleFunc("/products/featured", products.Featured).Methods(http.MethodGet)
	api.HandleFunc("/products/trending", products.Trending).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", products.Get).Methods(http.MethodGet)
	api.HandleFunc("/search", products.Search).Methods(http.MethodGet)

	cart := handlers.NewCartHandler(d.Render, d.Registry, d.Cart, d.Logger)
	api.HandleFunc("/cart", cart.GetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart", cart.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", cart.AddItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id}", cart.UpdateItem).Methods(http.MethodPatch)
	api.HandleFunc("/cart/items/{id}", cart.RemoveItem).Methods(http.MethodDelete)
	api.HandleFunc("/cart/open", cart.SetOpen).Methods(http.MethodPut)
	api.HandleFunc("/cart/sync", cart.Sync).Methods(http.MethodPost)

	checkout := handlers.NewCheckoutHandler(d.Render, d.Registry, d.Account, d.Auth, d.Logger)
	api.HandleFunc("/checkout", checkout.Get).Methods(http.MethodGet)
	api.HandleFunc("/checkout/address", checkout.UpdateAddress).Methods(http.MethodPut)
	api.HandleFunc("/checkout/payment-method", checkout.SetPaymentMethod).Methods(http.MethodPut)
	api.HandleFunc("/checkout/advance", checkout.Advance).Methods(http.MethodPost)
	api.HandleFunc("/checkout/back", checkout.Back).Methods(http.MethodPost)
	api.HandleFunc("/checkout/reset", checkout.Reset).Methods(http.MethodPost)
	api.Handle("/checkout/place-order", limited(checkout.PlaceOrder)).Methods(http.MethodPost)

	auth := handlers.NewAuthHandler(d.Render, d.Auth, d.Registry, d.Sessions, d.Logger)
	api.Handle("/auth/register", limited(auth.Register)).Methods(http.MethodPost)
	api.Handle("/auth/login", limited(auth.Login)).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", auth.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", auth.Me).Methods(http.MethodGet)

	contact := handlers.NewContactHandler(d.Render, d.Contact, d.Logger)
	api.Handle("/contact", limited(contact.Submit)).Methods(http.MethodPost)
	api.Handle("/bookings", limited(contact.Book)).Methods(http.MethodPost)

	account := handlers.NewAccountHandler(d.Render, d.Account, d.Orders, d.Logger)
	acc := api.PathPrefix("/account").Subrouter()
	acc.Use(middlewares.RequireUser(d.Users, d.Render, d.Logger))
	acc.HandleFunc("/orders", account.Orders).Methods(http.MethodGet)
	acc.HandleFunc("/orders/{number}", account.Order).Methods(http.MethodGet)
	acc.HandleFunc("/addresses", account.ListAddresses).Methods(http.MethodGet)
	acc.HandleFunc("/addresses", account.CreateAddress).Methods(http.MethodPost)
	acc.HandleFunc("/addresses/{id}", account.DeleteAddress).Methods(http.MethodDelete)
	acc.HandleFunc("/addresses/{id}/primary", account.SetPrimaryAddress).Methods(http.MethodPut)
	acc.HandleFunc("/wishlist", account.Wishlist).Methods(http.MethodGet)
	acc.HandleFunc("/wishlist", account.AddToWishlist).Methods(http.MethodPost)
	acc.HandleFunc("/wishlist/{productId}", account.RemoveFromWishlist).Methods(http.MethodDelete)

	return router
}
