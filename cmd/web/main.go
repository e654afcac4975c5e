package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"exec-dashboard/internal/config"
	"exec-dashboard/internal/dataset"
	"exec-dashboard/internal/format"
	"exec-dashboard/internal/handlers"
	"exec-dashboard/internal/middleware"
	"exec-dashboard/internal/observability"
	"exec-dashboard/internal/sales"
	"exec-dashboard/internal/server"
	"exec-dashboard/internal/services"
)

type options struct {
	dataFile      string
	referenceDate string
	city          string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	serve := func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), opts)
	}

	root := &cobra.Command{
		Use:           "exec-dashboard",
		Short:         "Executive sales dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	root.PersistentFlags().StringVar(&opts.dataFile, "data", "", "sales dataset (.csv or .xlsx), overrides DATA_FILE")
	root.PersistentFlags().StringVar(&opts.referenceDate, "reference-date", "", "reference date YYYY-MM-DD, overrides REFERENCE_DATE")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve the dashboard over HTTP",
		RunE:  serve,
	})

	report := &cobra.Command{
		Use:   "report",
		Short: "Load the dataset and print the KPIs for one city",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
	report.Flags().StringVar(&opts.city, "city", "", "city to report on (default all cities)")
	root.AddCommand(report)

	return root
}

// loadConfig applies command-line overrides on top of config.Load.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.dataFile != "" {
		cfg.Dataset.File = opts.dataFile
	}
	if opts.referenceDate != "" {
		cfg.Dashboard.RawReference = opts.referenceDate
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadAnalytics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*services.Analytics, error) {
	analytics := services.NewAnalytics(services.Options{
		ReferenceDate: cfg.Dashboard.ReferenceDate,
		PricePolicy:   sales.PricePolicy(cfg.Dataset.PricePolicy),
		CacheDir:      cfg.Dataset.CacheDir,
		Logger:        logger,
	})

	ctx, cancel := context.WithTimeout(ctx, cfg.Dataset.LoadTimeout)
	defer cancel()

	ctx, span := observability.StartSpan(ctx, "load dataset")
	span.SetTag("path", cfg.Dataset.File)
	defer span.Finish(logger)

	start := time.Now()
	if err := analytics.LoadFromFile(ctx, cfg.Dataset.File); err != nil {
		span.SetError(err)
		logLoadError(logger, err)
		return nil, err
	}
	logger.Info("dataset ready", "duration", time.Since(start), "reference_date", format.FooterDate(cfg.Dashboard.ReferenceDate))
	return analytics, nil
}

func logLoadError(logger *slog.Logger, err error) {
	var loadErr *dataset.LoadError
	var parseErr *sales.ParseError
	switch {
	case errors.As(err, &loadErr):
		logger.Error("failed to load dataset", "path", loadErr.Path, "line", loadErr.Line, "reason", loadErr.Reason, "error", err)
	case errors.As(err, &parseErr):
		logger.Error("failed to parse price", "line", parseErr.Line, "row", parseErr.Row, "price", parseErr.Price, "error", err)
	default:
		logger.Error("failed to load dataset", "error", err)
	}
}

func newHandler(cfg *config.Config, analytics *services.Analytics, logger *slog.Logger) http.Handler {
	templateHandlers := &server.TemplateHandlers{
		Dashboard: handlers.NewPageHandlers(analytics, logger).HandleDashboard,
	}

	srv := server.NewServer(analytics, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

func runServe(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	logger := observability.NewLogger(cfg.Logger, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"data_file", cfg.Dataset.File,
		"reference_date", cfg.Dashboard.RawReference,
		"price_policy", cfg.Dataset.PricePolicy,
	)

	analytics, err := loadAnalytics(ctx, cfg, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, analytics, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service", "stats", analytics.Stats())
		return nil
	})

	if err := gracefulServer.ListenAndServe(ctx); err != nil {
		logger.Error("server failed", "error", err)
		return err
	}

	logger.Info("application stopped gracefully")
	return nil
}

// runReport prints the dashboard header, KPI strip and footer as plain text.
func runReport(ctx context.Context, stdout, stderr io.Writer, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return err
	}

	logger := observability.NewLogger(cfg.Logger, stderr)

	analytics, err := loadAnalytics(ctx, cfg, logger)
	if err != nil {
		return err
	}

	view, err := analytics.Dashboard(opts.city)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, view.Title)
	fmt.Fprintf(stdout, "YTD Sales $:   %s\n", format.Metric(view.KPIs.SalesYTD))
	fmt.Fprintf(stdout, "YTD Sales Qty: %s\n", format.MetricInt(view.KPIs.QuantityYTD))
	fmt.Fprintf(stdout, "MTD Sales $:   %s\n", format.Metric(view.KPIs.SalesMTD))
	fmt.Fprintf(stdout, "MTD Sales Qty: %s\n", format.MetricInt(view.KPIs.QuantityMTD))
	fmt.Fprintf(stdout, "Effective as at %s\n", format.FooterDate(view.ReferenceDate))
	return nil
}
