package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0x6flab/namegenerator"
	"github.com/absmach/quadra/pkg/mqtt"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/worker"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	envPrefix = "QUADRA_WORKER_"
	pathEnv   = ".env"
)

type envConfig struct {
	LogLevel           string        `env:"LOG_LEVEL"           envDefault:"info"`
	ID                 string        `env:"ID"`
	Name               string        `env:"NAME"`
	Kind               string        `env:"KIND"                envDefault:"native"`
	WasmFile           string        `env:"WASM_FILE"`
	Policy             string        `env:"BOUND_POLICY"        envDefault:"strict"`
	BurnIterations     int64         `env:"BURN_ITERATIONS"     envDefault:"100000000"`
	BenchmarkRounds    int           `env:"BENCHMARK_ROUNDS"    envDefault:"3"`
	LivelinessInterval time.Duration `env:"LIVELINESS_INTERVAL" envDefault:"10s"`
	MQTTAddress        string        `env:"MQTT_ADDRESS"        envDefault:"tcp://localhost:1883"`
	MQTTQoS            uint8         `env:"MQTT_QOS"            envDefault:"2"`
	MQTTTimeout        time.Duration `env:"MQTT_TIMEOUT"        envDefault:"30s"`
	MQTTUsername       string        `env:"MQTT_USERNAME"`
	MQTTPassword       string        `env:"MQTT_PASSWORD"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Name == "" {
		cfg.Name = namegenerator.NewGenerator().Generate()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Printf("Invalid log level: %s. Defaulting to info.\n", cfg.LogLevel)
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	w, err := newWorker(ctx, cfg)
	if err != nil {
		logger.Error("Failed to create worker", slog.String("kind", cfg.Kind), slog.Any("error", err))

		return err
	}
	defer func() {
		if err := w.Close(context.Background()); err != nil {
			logger.Error("Failed to close worker", slog.Any("error", err))
		}
	}()

	score, err := w.Benchmark(ctx)
	if err != nil {
		logger.Error("Failed to benchmark worker", slog.Any("error", err))

		return err
	}
	logger.Info("Worker benchmarked",
		slog.String("id", cfg.ID),
		slog.String("name", cfg.Name),
		slog.Float64("score", score),
	)

	pubsub, err := mqtt.NewPubSub(mqtt.Config{
		URL:      cfg.MQTTAddress,
		QoS:      cfg.MQTTQoS,
		ID:       cfg.ID,
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
		Timeout:  cfg.MQTTTimeout,
		Will: &mqtt.Will{
			Topic: worker.AnnounceTopic,
			Payload: worker.Announcement{
				WorkerID: cfg.ID,
				Name:     cfg.Name,
				Status:   worker.StatusOffline,
			},
		},
	}, logger)
	if err != nil {
		return errors.Join(errors.New("failed to initialize mqtt client"), err)
	}

	srv := worker.NewServer(w, pubsub, cfg.LivelinessInterval, logger)
	if err := srv.Start(ctx); err != nil {
		return errors.Join(errors.New("failed to start worker server"), err)
	}
	logger.Info("Worker started", slog.String("tasks_topic", worker.TasksTopic(cfg.ID)))

	<-ctx.Done()
	logger.Info("Shutting down worker")

	stopCtx, stop := context.WithTimeout(context.Background(), cfg.MQTTTimeout)
	defer stop()

	return errors.Join(srv.Stop(stopCtx), pubsub.Disconnect(stopCtx))
}

func newWorker(ctx context.Context, cfg envConfig) (worker.Worker, error) {
	policy, err := numeric.ParseBoundPolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	opts := []worker.Option{
		worker.WithID(cfg.ID),
		worker.WithBoundPolicy(policy),
		worker.WithBurnIterations(cfg.BurnIterations),
		worker.WithBenchmarkRounds(cfg.BenchmarkRounds),
	}

	switch worker.Kind(cfg.Kind) {
	case worker.KindNative:
		return worker.NewNative(cfg.Name, opts...), nil
	case worker.KindWasm:
		if cfg.WasmFile == "" {
			return nil, errors.New("wasm workers need QUADRA_WORKER_WASM_FILE")
		}
		bin, err := os.ReadFile(cfg.WasmFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read WASM file: %w", err)
		}

		return worker.NewWasm(ctx, cfg.Name, bin, opts...)
	default:
		return nil, fmt.Errorf("unsupported worker kind %q", cfg.Kind)
	}
}
