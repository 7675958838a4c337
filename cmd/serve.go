package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/application"
	"github.com/spigell/talentscout/internal/interview"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/metrics"
	"github.com/spigell/talentscout/internal/secrets"
	"github.com/spigell/talentscout/internal/server"
	"github.com/spigell/talentscout/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interview API, the application log and metrics over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (default :8080)")
	serveCmd.Flags().String("database", "", "SQLite database for the application log (default applications.db)")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("server.database", serveCmd.Flags().Lookup("database"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the talentscout server", zap.String("version", version))

	machine, err := newMachine(config.Interview)
	if err != nil {
		logger.Fatal("preparing the interview", zap.Error(err))
	}

	st, err := store.Open(ctx, config.Server.Database, logger)
	if err != nil {
		logger.Fatal("opening the application log", zap.Error(err))
	}
	defer st.Close()

	token, err := secrets.Optional(secrets.Source{
		Name: "server token",
		Env:  "TALENTSCOUT_SERVER_TOKEN",
		File: config.Server.TokenFile,
	})
	if err != nil {
		logger.Fatal("loading the server token", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheusRecorder(reg)

	// Sessions completed here go to the configured sink, or straight into the local log.
	var sink application.Sink = st
	if config.Sink.URL != "" {
		remote, closeSink, err := newSink(ctx, config, logger)
		if err != nil {
			logger.Fatal("preparing the application sink", zap.Error(err))
		}
		defer closeSink()
		sink = remote
	}

	srv := server.New(server.Deps{
		Machine:   machine,
		Scheduler: interview.TimerScheduler{},
		Assembler: application.NewAssembler(application.WithDateLayout(config.Interview.DateLayout)),
		Submitter: newSubmitter(sink, config, logger, recorder),
		Store:     st,
		Logger:    logger,
		Metrics:   recorder,
		Gatherer:  reg,
		Token:     token,

		SessionIdleTimeout: config.Server.SessionIdleTimeout,
	})
	go srv.RunJanitor(ctx)

	httpServer := &http.Server{
		Addr:              config.Server.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("address", config.Server.Listen))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serving http", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down", zap.String("reason", "signal received"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	srv.Shutdown()
}
