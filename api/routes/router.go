package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arielsonkoue/mboashop-backend/api/controllers"
	"github.com/arielsonkoue/mboashop-backend/api/middleware"
	"github.com/arielsonkoue/mboashop-backend/internal/auth"
	"github.com/arielsonkoue/mboashop-backend/internal/notifications"
	"github.com/arielsonkoue/mboashop-backend/internal/orders"
	"github.com/arielsonkoue/mboashop-backend/internal/restaurant"
	"github.com/arielsonkoue/mboashop-backend/pkg/config"
	"github.com/arielsonkoue/mboashop-backend/pkg/db"
	"github.com/arielsonkoue/mboashop-backend/pkg/logger"
	"github.com/arielsonkoue/mboashop-backend/pkg/pubsub"
	"github.com/arielsonkoue/mboashop-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	PubSub        *pubsub.Client
	Auth          auth.Service
	Orders        orders.Service
	Restaurant    restaurant.Service
	Notifications notifications.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.PubSub))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
	})
	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AdminAuthLogin(deps.Auth, logg))
	})

	// Public storefront surface. Guest orders carry contact details in the
	// body; tracking and cancellation authenticate by code + email.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateGuestOrder(deps.Orders, logg))
			r.Get("/track", controllers.TrackOrder(deps.Orders, logg))
			r.Post("/guest-cancel", controllers.GuestCancelOrder(deps.Orders, logg))
		})
		r.Route("/api/v1/bookings", func(r chi.Router) {
			r.Post("/", controllers.CreateGuestBooking(deps.Restaurant, logg))
			r.Post("/guest-cancel", controllers.GuestCancelBooking(deps.Restaurant, logg))
		})
		r.Route("/api/v1/food-orders", func(r chi.Router) {
			r.Post("/", controllers.CreateGuestFoodOrder(deps.Restaurant, logg))
			r.Get("/track", controllers.TrackFoodOrder(deps.Restaurant, logg))
			r.Post("/guest-cancel", controllers.GuestCancelFoodOrder(deps.Restaurant, logg))
		})
	})

	// Authenticated customer surface.
	r.Route("/api/v1/me", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateMyOrder(deps.Orders, logg))
			r.Get("/", controllers.ListMyOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.GetMyOrder(deps.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.CancelMyOrder(deps.Orders, logg))
		})
		r.Post("/bookings", controllers.CreateMyBooking(deps.Restaurant, logg))
		r.Post("/food-orders", controllers.CreateMyFoodOrder(deps.Restaurant, logg))
	})

	// Admin dashboard surface.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Get("/revenue", controllers.AdminOrdersRevenue(deps.Orders, logg))
			r.Get("/{orderId}", controllers.AdminGetOrder(deps.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.AdminCancelOrder(deps.Orders, logg))
		})
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.AdminListBookings(deps.Restaurant, logg))
			r.Get("/{bookingId}", controllers.AdminGetBooking(deps.Restaurant, logg))
			r.Post("/{bookingId}/confirm", controllers.AdminConfirmBooking(deps.Restaurant, logg))
			r.Post("/{bookingId}/cancel", controllers.AdminCancelBooking(deps.Restaurant, logg))
		})
		r.Route("/food-orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListFoodOrders(deps.Restaurant, logg))
			r.Get("/{foodOrderId}", controllers.AdminGetFoodOrder(deps.Restaurant, logg))
			r.Patch("/{foodOrderId}/status", controllers.AdminUpdateFoodOrderStatus(deps.Restaurant, logg))
			r.Post("/{foodOrderId}/cancel", controllers.AdminCancelFoodOrder(deps.Restaurant, logg))
		})
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})
	})

	return r
}
