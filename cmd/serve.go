package cmd

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shoecreatify/shoecreatify-api/api"
	"github.com/shoecreatify/shoecreatify-api/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	sessionPurgeInterval = time.Hour
	drainTimeout         = 10 * time.Second
)

var serveCommand = cobra.Command{
	Use:   "serve",
	Short: "starts the http server",
	Long:  `Starts a http server and serves the service`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		stack := mustResolveAccountStack(reg)
		defer func() {
			drainCtx, stop := context.WithTimeout(context.Background(), drainTimeout)
			defer stop()
			stack.close(drainCtx)
		}()
		go stack.sessions.RunJanitor(ctx, sessionPurgeInterval)

		httpMetrics, err := metrics.NewHTTPMetrics(reg)
		if err != nil {
			TopLevelLogger.Fatal("Failed to register http metrics", zap.Error(err))
		}

		deps := &api.Dependencies{
			Lifecycle: stack.service,
			Sessions:  stack.sessions,
			Store:     stack.store,
			Registry:  stack.registry,
			Metrics:   httpMetrics,
			Gatherer:  reg,
		}
		// interfaces stay untyped nil when the feature is off
		if limiter := mustResolveLimiter(ctx, reg); limiter != nil {
			deps.Limiter = limiter
		}
		if google := mustResolveGoogle(ctx); google != nil {
			deps.Google = google
		}

		server, err := api.NewServer(LoadedConfig, TopLevelLogger.Named("server"), deps)
		if err != nil {
			TopLevelLogger.Fatal("Failed to create server", zap.Error(err))
		}
		if err := server.Start(ctx); err != nil {
			TopLevelLogger.Error("Server stopped with error", zap.Error(err))
		}
		TopLevelLogger.Info("Shutdown complete")
	},
}

func init() {
	viper.SetDefault("server.port", 5000)
}
