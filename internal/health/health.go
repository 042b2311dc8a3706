// Package health serves the liveness HTTP endpoint hosting providers probe.
package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hshehabu/salah-times/internal/buildinfo"
	"github.com/hshehabu/salah-times/internal/logger"
)

// NewRouter builds the health router. Split from Serve so tests can drive
// it through httptest.
func NewRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	status := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Salah Times Bot is running!",
			"version": buildinfo.Version,
			"commit":  buildinfo.Commit,
		})
	}
	r.GET("/", status)
	r.GET("/healthz", status)
	return r
}

// Serve runs the health endpoint until ctx is done. An empty listen address
// disables the server.
func Serve(ctx context.Context, listen string) error {
	if listen == "" {
		return nil
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info(ctx, "health", "listen", slog.String("addr", listen))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
