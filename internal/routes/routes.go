package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/triporia/triporia-backend/internal/handlers"
	"github.com/triporia/triporia-backend/internal/middleware"
	"github.com/triporia/triporia-backend/internal/models"
	"github.com/triporia/triporia-backend/internal/services"
	"github.com/triporia/triporia-backend/internal/store"
)

// Setup mounts the API. Protected subtrees run Authenticate first and then
// an Authorize check with the roles the original frontend contract expects.
func Setup(r *chi.Mux, tokens *services.TokenService, users store.UserStore) {
	authenticate := middleware.Authenticate(tokens, users)
	adminOnly := middleware.Authorize(models.RoleAdmin)

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(middleware.LoginRateLimit)
		r.Post("/register", handlers.Register)
		r.Post("/login", handlers.Login)
		r.Post("/logout", handlers.Logout)
		r.Post("/google-login", handlers.GoogleLogin)
		r.Get("/google", handlers.GoogleRedirect)
		r.Get("/google/callback", handlers.GoogleCallback)
		r.Post("/forgot-password", handlers.ForgotPassword)
		r.Post("/reset-password", handlers.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", handlers.Me)
			r.With(adminOnly).Put("/verify/{id}", handlers.VerifyUser)
		})
	})

	r.Route("/api/trips", func(r chi.Router) {
		r.Get("/", handlers.GetTrips)
		r.Get("/{id}", handlers.GetTrip)
		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", handlers.CreateTrip)
			r.Put("/{id}", handlers.UpdateTrip)
			r.Delete("/{id}", handlers.DeleteTrip)
		})
	})

	r.Route("/api/hotels", func(r chi.Router) {
		r.Get("/", handlers.GetHotels)
		r.Get("/{id}", handlers.GetHotel)
		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", handlers.CreateHotel)
			r.Put("/{id}", handlers.UpdateHotel)
			r.Delete("/{id}", handlers.DeleteHotel)
		})
	})

	r.Route("/api/rooms", func(r chi.Router) {
		r.Get("/", handlers.GetRoomsByHotel)
		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", handlers.CreateRoom)
			r.Put("/{id}", handlers.UpdateRoom)
			r.Delete("/{id}", handlers.DeleteRoom)
		})
	})

	r.Route("/api/vehicles", func(r chi.Router) {
		r.Get("/", handlers.GetVehicles)
		r.Get("/{id}", handlers.GetVehicle)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.With(middleware.Authorize(models.RoleAdmin, models.RoleCarOwner)).Post("/", handlers.CreateVehicle)
			r.Put("/{id}", handlers.UpdateVehicle)    // owner-or-admin checked in handler
			r.Delete("/{id}", handlers.DeleteVehicle) // owner-or-admin checked in handler
		})
	})

	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", handlers.GetBookings)
		r.Post("/", handlers.CreateBooking)
		r.With(adminOnly).Put("/{id}/status", handlers.UpdateBookingStatus)
		r.Put("/{id}/cancel", handlers.CancelBooking)
	})

	r.Route("/api/blogs", func(r chi.Router) {
		r.Get("/", handlers.GetBlogs)
		r.Get("/{id}", handlers.GetBlog)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", handlers.CreateBlog)
			r.Put("/{id}", handlers.UpdateBlog)
			r.Delete("/{id}", handlers.DeleteBlog)
			r.Post("/{id}/comments", handlers.CommentBlog)
			r.Post("/{id}/like", handlers.LikeBlog)
		})
	})

	r.Route("/api/reviews", func(r chi.Router) {
		r.Get("/", handlers.GetReviews)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.With(middleware.Authorize(models.RoleUser)).Post("/", handlers.CreateReview)
			r.With(middleware.Authorize(models.RoleUser, models.RoleAdmin)).Delete("/{id}", handlers.DeleteReview)
		})
	})

	r.With(authenticate, middleware.Authorize(models.RoleAdmin, models.RoleCarOwner)).
		Post("/api/upload", handlers.UploadImage)
}
