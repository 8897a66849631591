// Package newsletter exposes the HTTP handler as a Cloud Functions entry
// point. The components are built on the first request and reused after.
package newsletter

import (
	"context"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/deusflow/newsletter/internal/app"
	"github.com/deusflow/newsletter/internal/config"
	"github.com/deusflow/newsletter/internal/logger"
	"github.com/deusflow/newsletter/internal/server"
)

const defaultFunctionTarget = "Newsletter"

var (
	initOnce sync.Once
	handler  http.Handler
	initErr  error
)

func init() {
	target := os.Getenv("FUNCTION_TARGET")
	if target == "" {
		target = defaultFunctionTarget
	}
	functions.HTTP(target, Handle)
}

// Handle serves every route of the service.
func Handle(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(func() {
		cfg, err := config.Load(os.Getenv("NEWSLETTER_CONFIG"))
		if err != nil {
			initErr = err
			return
		}
		logger.Init(logger.Config{Level: cfg.Log.Level, Format: "json"})

		a, err := app.New(context.Background(), cfg, os.Getenv("K_REVISION"))
		if err != nil {
			initErr = err
			return
		}
		handler = a.Handler()
	})

	serve(w, r, handler, initErr)
}

func serve(w http.ResponseWriter, r *http.Request, h http.Handler, err error) {
	if err != nil {
		logger.Error("Function initialization failed", "error", err)
		server.WriteError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	h.ServeHTTP(w, r)
}
