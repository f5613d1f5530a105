package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Domenick1991/flightapi/api"
	"github.com/Domenick1991/flightapi/config"
	"github.com/Domenick1991/flightapi/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerSpec = "/swagger/flights.swagger.json"

// Run serves the HTTP API and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewHandler(cfg, flightSvc, log),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.HTTP.Address).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewHandler(cfg *config.Config, flightSvc flights.FlightUseCase, log zerolog.Logger) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api.NewFlightHandler(flightSvc).Register(router.Group("/api/flights"))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerSpec))))
	}

	return router
}
