package router

import (
	"github.com/julienschmidt/httprouter"

	"massage-booking-api/internal/handler"
	"massage-booking-api/internal/middleware"
)

// New wires the REST surface. Admin routes re-check the caller's role
// in storage on every request.
func New(h *handler.Handler, roles middleware.RoleProvider, secret string, rl *middleware.RateLimiter) *httprouter.Router {
	r := httprouter.New()

	authed := func(next httprouter.Handle) httprouter.Handle {
		return middleware.Authenticate(secret, next)
	}
	admin := func(next httprouter.Handle) httprouter.Handle {
		return middleware.Authenticate(secret, middleware.RequireAdmin(roles, next))
	}

	r.GET("/health", h.Health)

	// auth
	r.POST("/auth/login", rl.Limit(h.Login))
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", authed(h.Logout))

	// users
	r.POST("/user", rl.Limit(h.Register))
	r.POST("/user/admin", admin(h.CreateAdmin))
	r.GET("/user", admin(h.ListUsers))
	r.GET("/user/:userId", admin(h.GetUser))
	r.PATCH("/user/:userId", admin(h.UpdateUser))
	r.PATCH("/user/:userId/role", admin(h.UpdateUserRole))
	r.DELETE("/user/:userId", admin(h.DeleteUser))

	// massages
	r.GET("/massages", h.ListMassages)
	r.GET("/massages/:id", h.GetMassage)
	r.POST("/massages", admin(h.CreateMassage))
	r.PUT("/massages/:id", admin(h.UpdateMassage))
	r.DELETE("/massages/:id", admin(h.DeleteMassage))
	r.GET("/uploads/massages/:filename", h.ServeMassageImage)

	// planning
	r.POST("/planning/creneaux", admin(h.CreateSlot))
	r.GET("/planning/creneaux", h.ListSlots)
	r.PUT("/planning/creneaux/:id", admin(h.UpdateSlot))
	r.DELETE("/planning/creneaux/:id", admin(h.DeactivateSlot))

	r.POST("/planning/reservations", authed(h.CreateBooking))
	r.GET("/planning/mes-rendez-vous", authed(h.ListMyBookings))
	r.GET("/planning/reservations", admin(h.ListAllBookings))
	r.PUT("/planning/reservations/:id", authed(h.UpdateBooking))
	r.DELETE("/planning/reservations/:id/annuler", authed(h.CancelBooking))
	r.DELETE("/planning/reservations/:id", admin(h.DeleteBooking))

	return r
}
