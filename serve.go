package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sebastien-chopin-dev/rne-dashboard/charts"
	"github.com/sebastien-chopin-dev/rne-dashboard/config"
	"github.com/sebastien-chopin-dev/rne-dashboard/data"
	"github.com/sebastien-chopin-dev/rne-dashboard/handlers"
	"github.com/sebastien-chopin-dev/rne-dashboard/middleware"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *cfg)
		},
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	startTime := time.Now()
	config.Log.Info("starting server initialization", zap.String("source", cfg.Source))

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer config.CloseDB()

	// Selector options are built once up front; a source that cannot be
	// read stops the process here rather than on the first page view.
	opts, err := data.LoadOptions(ctx, src)
	if err != nil {
		return fmt.Errorf("loading selector options from %s: %w", src.Name(), err)
	}
	config.Log.Info("source ready",
		zap.String("source", src.Name()),
		zap.Int("departments", len(opts.Departments.Codes)),
		zap.Duration("elapsed", time.Since(startTime)))

	dash := handlers.NewDashboard(data.NewService(src), charts.Palette{Male: cfg.ColorMale, Female: cfg.ColorFemale})
	dash.PublicURL = cfg.PublicURL

	srv := &http.Server{
		Handler:           newRouter(cfg, dash),
		Addr:              ":" + cfg.Port,
		WriteTimeout:      60 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		config.Log.Info("server listening", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		config.Log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		config.Log.Info("server shutdown completed")
		return nil
	})
	return g.Wait()
}

// openSource picks the record source named by SOURCE, connecting to the
// database first when needed.
func openSource(cfg config.Config) (data.Source, error) {
	switch cfg.Source {
	case config.SourceCSV, "":
		return data.NewCSVSource(cfg.DataFile), nil
	case config.SourcePostgres:
		if err := config.InitDBWithRetry(cfg.Postgres); err != nil {
			return nil, err
		}
		return data.NewPostgresSource(config.DB, cfg.Postgres.Table), nil
	case config.SourceMongo:
		if err := config.ConnectMongoWithRetry(cfg.Mongo); err != nil {
			return nil, err
		}
		return data.NewMongoSource(config.MongoDB, cfg.Mongo.Collection), nil
	}
	return nil, fmt.Errorf("unknown SOURCE %q (want csv, postgres or mongo)", cfg.Source)
}

func newRouter(cfg config.Config, dash *handlers.Dashboard) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.MetricsMiddleware)

	r.HandleFunc("/", dash.GetPage).Methods("GET")
	r.HandleFunc("/sitemap.xml", dash.GetSitemap).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	registerRoutes(api, dash)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Requested-With",
			"Origin",
			middleware.RequestIDHeader,
		},
		ExposedHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Content-Disposition",
			middleware.RequestIDHeader,
		},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	var h http.Handler = ghandlers.CompressHandler(r)
	h = corsHandler.Handler(h)
	if cfg.CORSDebug {
		h = middleware.CORSDebugMiddleware(h)
	}
	return h
}

func registerRoutes(api *mux.Router, dash *handlers.Dashboard) {
	api.HandleFunc("/options", dash.GetOptions).Methods("GET")
	api.HandleFunc("/dashboard", dash.GetDashboard).Methods("GET")
	api.HandleFunc("/charts/{name}.svg", dash.GetChartSVG).Methods("GET")
	api.HandleFunc("/export.xlsx", dash.GetExport).Methods("GET")

	api.HandleFunc("/health", handlers.GetHealth).Methods("GET")
	api.HandleFunc("/health/detailed", dash.GetDetailedHealth).Methods("GET")
}
