package cmd

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/forecast-service/internal/pkg/config"
	"github.com/anicoll/forecast-service/internal/pkg/database"
	"github.com/anicoll/forecast-service/internal/pkg/database/migration"
	"github.com/anicoll/forecast-service/internal/pkg/forecast"
	"github.com/anicoll/forecast-service/internal/pkg/notifier"
	"github.com/anicoll/forecast-service/internal/pkg/server"
)

func ForecastCommand(ctx *cli.Context) error {
	tuning, err := config.LoadTuning()
	if err != nil {
		return err
	}

	cfg := &config.Config{
		DatabaseURL:      ctx.String("database-url"),
		MigrationsFolder: ctx.String("migrations-folder"),
		ListenAddr:       ctx.String("listen-addr"),
		KafkaCfg: &config.KafkaConfig{
			Brokers: strings.Split(ctx.String("kafka-brokers"), ","),
			Topic:   ctx.String("kafka-topic"),
		},
		LogLevel: ctx.String("log-level"),
		Tuning:   tuning,
	}

	return run(ctx.Context, cfg)
}

func run(ctx context.Context, cfg *config.Config) error {
	var err error

	eg, ctx := errgroup.WithContext(ctx)
	logCfg := zap.NewProductionConfig()

	logCfg.Level, err = zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	logger := zap.Must(logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)))
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	if err := migration.Migrate(cfg.DatabaseURL, cfg.MigrationsFolder); err != nil {
		return err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	poolCfg.MaxConns = cfg.Tuning.PoolMaxConns
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := database.NewDatabase(pool)
	if err := db.SeedPlants(ctx); err != nil {
		return err
	}

	changeNotifier := notifier.NewKafka(notifier.KafkaOptions{
		Brokers:      cfg.KafkaCfg.Brokers,
		Topic:        cfg.KafkaCfg.Topic,
		RequiredAcks: cfg.Tuning.KafkaRequiredAcks,
		BatchTimeout: cfg.Tuning.KafkaBatchTimeout,
		WriteTimeout: cfg.Tuning.KafkaWriteTimeout,
	})
	defer func() {
		// Close flushes events enqueued but not yet transmitted.
		if err := changeNotifier.Close(); err != nil {
			logger.Error("failed to close notifier", zap.Error(err))
		}
	}()

	svc := forecast.New(db, changeNotifier)

	srv := &http.Server{
		Handler:      server.New(svc, cfg.Tuning.QueryTimeout).Handler(),
		Addr:         cfg.ListenAddr,
		WriteTimeout: cfg.Tuning.HTTPWriteTimeout,
		ReadTimeout:  cfg.Tuning.HTTPReadTimeout,
	}

	eg.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Tuning.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
