package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/stockprice-etl/internal/checkpoint"
	"github.com/rickgao/stockprice-etl/internal/config"
	"github.com/rickgao/stockprice-etl/internal/database"
	"github.com/rickgao/stockprice-etl/internal/decoder"
	"github.com/rickgao/stockprice-etl/internal/logging"
	"github.com/rickgao/stockprice-etl/internal/mapper"
	"github.com/rickgao/stockprice-etl/internal/server"
	"github.com/rickgao/stockprice-etl/internal/sink"
	"github.com/rickgao/stockprice-etl/internal/stream"
	"github.com/rickgao/stockprice-etl/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file; environment variables override it")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "config", *configPath, "error", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		slog.Error("failed to create logger", "error", err)
		os.Exit(1)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	logger.Info("starting processor", "app", cfg.App.Name, version.Attr())
	logger.Info("configuration loaded",
		"kafka_brokers", cfg.Kafka.Brokers,
		"topic", cfg.Kafka.Topic,
		"starting_offsets", cfg.Kafka.StartingOffsets,
		"database", cfg.Database,
		"error_policy", cfg.Sink.ErrorPolicy,
		"diagnostics", cfg.Sink.Diagnostics,
		"checkpoint_dir", cfg.Checkpoint.Dir,
		"log_level", cfg.Log.Level,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("processor failed", "error", err)
		closer.Close()
		os.Exit(1)
	}
	logger.Info("processor stopped")
}

func run(ctx context.Context, cfg *config.ProcessorConfig, logger *slog.Logger) error {
	policy, err := sink.ParsePolicy(cfg.Sink.ErrorPolicy)
	if err != nil {
		return err
	}
	mode, err := sink.ParseDiagnosticsMode(cfg.Sink.Diagnostics)
	if err != nil {
		return err
	}

	pool, err := database.Connect(ctx, cfg.Database, cfg.App.Name)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("database connected")

	table := sink.TableName(cfg.Kafka.Topic)
	writer := sink.NewPostgresWriter(pool, table, cfg.Sink.WriteTimeout)
	if cfg.Sink.CreateTableEnabled() {
		if err := writer.EnsureTable(ctx); err != nil {
			return err
		}
	}
	handler := sink.WithPolicy(policy,
		sink.NewBatchSink(writer, sink.Diagnostics{Mode: mode, SampleSize: cfg.Sink.SampleSize}, logger),
		logger,
	)

	store, err := checkpoint.NewFileStore(cfg.Checkpoint.Dir)
	if err != nil {
		return err
	}
	state, err := store.Load(ctx, cfg.Kafka.Topic)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}

	source, err := stream.NewKafkaSource(ctx, cfg.Kafka, cfg.App.Name, state.Offsets, logger)
	if err != nil {
		return err
	}
	defer source.Close()

	runner := stream.New(stream.Config{
		Topic:              cfg.Kafka.Topic,
		MaxRecordsPerBatch: cfg.Stream.MaxRecordsPerBatch,
		TriggerInterval:    cfg.Stream.TriggerInterval,
	}, state, source, decoder.New(), mapper.New(), handler, store, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		return server.Run(gctx, addr, server.Handler(cfg.Metrics.Path, pool), logger)
	})
	g.Go(func() error {
		return runner.Run(gctx)
	})
	return g.Wait()
}
