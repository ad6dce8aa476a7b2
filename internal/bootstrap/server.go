package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/irodova/placestay/api"
	"github.com/irodova/placestay/config"
	"github.com/irodova/placestay/internal/repository"
	"github.com/irodova/placestay/internal/service/booking"
	"github.com/irodova/placestay/internal/service/places"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, gate api.Authorizer, placeSvc places.PlaceUseCase, bookingSvc booking.BookingUseCase, users repository.UserRepository) error {
	router := NewRouter(gate, placeSvc, bookingSvc, users)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter wires handlers and middleware onto a gin engine. Public routes
// need no credential, booking routes any valid token, admin routes the
// stored admin role.
func NewRouter(gate api.Authorizer, placeSvc places.PlaceUseCase, bookingSvc booking.BookingUseCase, users repository.UserRepository) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	placeHandler := api.NewPlaceHandler(placeSvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	adminHandler := api.NewAdminHandler(placeSvc, bookingSvc, users)

	root := router.Group("/")
	placeHandler.RegisterSearch(root)

	placesGroup := router.Group("/places")
	placeHandler.Register(placesGroup)

	bookingsGroup := router.Group("/bookings", api.AuthRequired(gate))
	bookingHandler.Register(bookingsGroup)

	adminGroup := router.Group("/admin", api.AdminRequired(gate))
	adminHandler.Register(adminGroup)

	return router
}
