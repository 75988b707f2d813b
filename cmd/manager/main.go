package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/absmach/quadra"
	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/manager"
	"github.com/absmach/quadra/manager/api"
	"github.com/absmach/quadra/manager/middleware"
	"github.com/absmach/quadra/pkg/mqtt"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/pkg/prometheus"
	"github.com/absmach/quadra/pkg/scheduler"
	"github.com/absmach/quadra/pkg/server"
	"github.com/absmach/quadra/pkg/storage"
	"github.com/absmach/quadra/pkg/tracing"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	svcName       = "manager"
	defHTTPPort   = "7070"
	envPrefix     = "QUADRA_MANAGER_"
	envPrefixHTTP = "QUADRA_MANAGER_HTTP_"
	pathEnv       = ".env"
	jobsTable     = "jobs"
)

type envConfig struct {
	LogLevel       string        `env:"LOG_LEVEL"       envDefault:"info"`
	InstanceID     string        `env:"INSTANCE_ID"`
	ConfigFile     string        `env:"CONFIG_FILE"`
	Scheduler      string        `env:"SCHEDULER"       envDefault:"weighted"`
	Policy         string        `env:"BOUND_POLICY"    envDefault:"strict"`
	WasmFile       string        `env:"WASM_FILE"`
	BurnIterations int64         `env:"BURN_ITERATIONS" envDefault:"100000000"`
	RemoteTimeout  time.Duration `env:"REMOTE_TIMEOUT"  envDefault:"1m"`
	MQTTAddress    string        `env:"MQTT_ADDRESS"`
	MQTTQoS        uint8         `env:"MQTT_QOS"        envDefault:"2"`
	MQTTTimeout    time.Duration `env:"MQTT_TIMEOUT"    envDefault:"30s"`
	MQTTUsername   string        `env:"MQTT_USERNAME"`
	MQTTPassword   string        `env:"MQTT_PASSWORD"`
	OTELURL        url.URL       `env:"OTEL_URL"`
	TraceRatio     float64       `env:"TRACE_RATIO"     envDefault:"0"`
	Storage        storage.Config
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	fileCfg := &quadra.Config{}
	if cfg.ConfigFile != "" {
		c, err := quadra.LoadConfig(cfg.ConfigFile)
		if err != nil {
			logger.Error("failed to load config file", slog.String("path", cfg.ConfigFile), slog.Any("error", err))

			return
		}
		fileCfg = c
	}
	svcCfg, err := serviceConfig(cfg, fileCfg.Manager)
	if err != nil {
		logger.Error("failed to build manager configuration", slog.Any("error", err))

		return
	}

	var tp trace.TracerProvider
	switch {
	case cfg.OTELURL == (url.URL{}):
		tp = noop.NewTracerProvider()
	default:
		sdktp, err := tracing.NewProvider(ctx, svcName, cfg.OTELURL, cfg.InstanceID, cfg.TraceRatio)
		if err != nil {
			logger.Error("failed to initialize opentelemetry", slog.String("error", err.Error()))

			return
		}
		defer func() {
			if err := sdktp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	jobsDB, err := storage.New[job.Job](cfg.Storage, jobsTable)
	if err != nil {
		logger.Error("failed to initialize job storage", slog.String("type", cfg.Storage.Type), slog.Any("error", err))

		return
	}
	defer func() {
		if err := jobsDB.Close(); err != nil {
			logger.Error("failed to close job storage", slog.Any("error", err))
		}
	}()

	var pubsub mqtt.PubSub
	if cfg.MQTTAddress != "" {
		pubsub, err = mqtt.NewPubSub(mqtt.Config{
			URL:      cfg.MQTTAddress,
			QoS:      cfg.MQTTQoS,
			ID:       svcName + "-" + cfg.InstanceID,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
			Timeout:  cfg.MQTTTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize mqtt pubsub", slog.String("error", err.Error()))

			return
		}
		defer func() {
			if err := pubsub.Disconnect(context.Background()); err != nil {
				logger.Error("failed to disconnect from mqtt", slog.Any("error", err))
			}
		}()
	}

	sched, err := newScheduler(cfg.Scheduler)
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))

		return
	}

	svc := manager.NewService(jobsDB, sched, pubsub, svcCfg, logger)
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)
	defer func() {
		if err := svc.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shut down manager", slog.Any("error", err))
		}
	}()

	if pubsub != nil {
		if err := svc.Subscribe(ctx); err != nil {
			logger.Error("failed to subscribe to worker announcements", slog.String("error", err.Error()))

			return
		}
	}

	pool, err := fileCfg.Pool()
	if err != nil {
		logger.Error("invalid worker pool", slog.Any("error", err))

		return
	}
	for _, spec := range pool {
		if _, err := svc.AddWorker(ctx, spec); err != nil {
			logger.Error("failed to start worker", slog.String("name", spec.Name), slog.Any("error", err))

			return
		}
	}

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))

		return
	}

	hs := server.NewHTTPServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
	}
}

// serviceConfig merges the environment with the file configuration; file
// values win where both are set.
func serviceConfig(cfg envConfig, fileCfg quadra.ManagerConfig) (manager.Config, error) {
	policy := cfg.Policy
	if fileCfg.Policy != "" {
		policy = fileCfg.Policy
	}
	p, err := numeric.ParseBoundPolicy(policy)
	if err != nil {
		return manager.Config{}, err
	}

	burn := cfg.BurnIterations
	if fileCfg.BurnIterations > 0 {
		burn = fileCfg.BurnIterations
	}

	wasmFile := cfg.WasmFile
	if fileCfg.WasmFile != "" {
		wasmFile = fileCfg.WasmFile
	}
	var wasmBinary []byte
	if wasmFile != "" {
		if wasmBinary, err = os.ReadFile(wasmFile); err != nil {
			return manager.Config{}, fmt.Errorf("failed to read wasm module: %w", err)
		}
	}

	return manager.Config{
		Policy:         p,
		WasmBinary:     wasmBinary,
		BurnIterations: burn,
		RemoteTimeout:  cfg.RemoteTimeout,
	}, nil
}

func newScheduler(name string) (scheduler.Scheduler, error) {
	switch name {
	case "", "weighted":
		return scheduler.NewWeighted(), nil
	case "roundrobin":
		return scheduler.NewRoundRobin(), nil
	default:
		return nil, fmt.Errorf("unknown scheduler %q", name)
	}
}
