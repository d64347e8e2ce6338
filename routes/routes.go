package routes

import (
	"smartpark/handlers"
	"smartpark/middleware"

	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handlers wired in main.
type HandlerBundle struct {
	Booking *handlers.BookingHandler
	Kiosk   *handlers.KioskHandler
	Wallet  *handlers.WalletHandler
	Floor   *handlers.FloorHandler
	User    *handlers.UserHandler
}

// RegisterRoutes registers all endpoints for the parking service.
func RegisterRoutes(r *gin.Engine, b *HandlerBundle) {
	api := r.Group("/api")

	// Kiosks authenticate at the network layer, not per driver; a scan is
	// the credential.
	kiosk := api.Group("/kiosk")
	{
		kiosk.POST("/entry", b.Kiosk.EntryScan)
		kiosk.POST("/exit", b.Kiosk.ExitScan)
		kiosk.POST("/exit/complete", b.Kiosk.CompleteExit)
	}

	authed := api.Group("")
	authed.Use(middleware.JWTAuthMiddleware())
	{
		booking := authed.Group("/bookings")
		{
			booking.POST("", b.Booking.CreateBooking)
			booking.GET("", b.Booking.ListBookings)
			booking.GET("/:bookingID", b.Booking.GetBooking)
			booking.POST("/:bookingID/cancel", b.Booking.CancelBooking)
			booking.POST("/:bookingID/extend", b.Booking.ExtendBooking)
		}

		floors := authed.Group("/floors")
		{
			floors.GET("", b.Floor.ListFloors)
			floors.GET("/:floorID/availability", b.Floor.GetAvailability)
		}

		wallet := authed.Group("/wallet")
		{
			wallet.GET("", b.Wallet.GetWallet)
			wallet.POST("/recharge", b.Wallet.Recharge)
			wallet.POST("/dues/clear", b.Wallet.ClearDues)
			wallet.GET("/transactions", b.Wallet.ListTransactions)
			wallet.GET("/transactions/:txnID", b.Wallet.GetTransaction)
		}

		users := authed.Group("/users")
		{
			users.POST("/register", b.User.Register)
			users.GET("/me", b.User.GetProfile)
			users.PUT("/me", b.User.UpdateProfile)
		}

		admin := authed.Group("/admin")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/floors", b.Floor.CreateFloor)
			admin.PUT("/floors/:floorID", b.Floor.UpdateFloor)
			admin.PATCH("/floors/:floorID", b.Floor.SetActive)
		}
	}
}
