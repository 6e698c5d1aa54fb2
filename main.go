package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reports-api/entities/report"
	"reports-api/middlewares"
	"reports-api/utils"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := utils.LoadEnvVariables(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	env := os.Getenv(utils.ENV)
	if env == utils.ENV_RELEASE {
		logger.Warn("running in PRODUCTION environment")
	} else {
		logger.Info("environment loaded", zap.String("env", env))
	}

	ctx := context.Background()

	service, cleanup, err := report.Bootstrap(ctx)
	if err != nil {
		logger.Fatal("cannot start reports service", zap.Error(err))
	}
	defer cleanup()

	auth := func(next http.Handler) http.Handler { return next }
	if authURL := os.Getenv(utils.AUTH_API_URL); authURL != "" {
		auth = middlewares.RequireAuth(authURL)
	} else {
		logger.Warn("AUTH_API_URL not set, report routes are not authenticated")
	}

	mux := http.NewServeMux()

	report.NewHandler(service).Register(mux, auth)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		utils.SendResponse(w, http.StatusOK, "ok", nil, 0)
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%s", os.Getenv(utils.PORT))
	logger.Info("server started", zap.String("addr", addr), zap.String("at", time.Now().Format("2006-01-02 15:04:05")))

	handler := middlewares.RequestLogger(middlewares.SecurityHeaders(middlewares.Cors(mux)))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
