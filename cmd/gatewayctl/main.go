package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevin07696/card-gateway/internal/adapters/aim"
	"github.com/kevin07696/card-gateway/internal/adapters/transport"
	"github.com/kevin07696/card-gateway/internal/config"
	"github.com/kevin07696/card-gateway/pkg/observability"
	"github.com/kevin07696/card-gateway/pkg/resilience"
	"github.com/kevin07696/card-gateway/pkg/security"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 64
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 78
	}

	logger := initLogger(cfg.Logger, stderr)
	defer logger.Sync()

	logger.Info("Starting gatewayctl",
		zap.String("operation", opts.operation),
		zap.Bool("sandbox", cfg.Gateway.Sandbox),
	)

	timeouts := resilience.DefaultTimeoutConfig().WithExternalAPI(cfg.Gateway.Timeout)

	posterConfig := transport.DefaultHTTPSPosterConfig()
	posterConfig.Timeout = timeouts.ExternalAPI
	posterConfig.RateLimit = cfg.Gateway.RateLimit
	posterConfig.RateBurst = cfg.Gateway.RateBurst
	poster := transport.NewHTTPSPosterWithDefaults(posterConfig, security.NewZapLogger(logger))

	adapter := aim.NewAdapter(cfg.Gateway.AdapterConfig(), poster, security.NewZapLogger(logger))

	var metricsDone func()
	if cfg.Metrics.Port > 0 {
		healthChecker := observability.NewHealthChecker()
		healthChecker.Register("gateway_circuit", poster.HealthCheck)
		server := observability.StartMetricsServer(strconv.Itoa(cfg.Metrics.Port), healthChecker, logger)
		logger.Info("Metrics server started", zap.Int("port", cfg.Metrics.Port))
		metricsDone = func() {
			if err := observability.ShutdownMetricsServer(server); err != nil {
				logger.Error("Metrics server shutdown error", zap.Error(err))
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmdCtx, cancel := timeouts.CommandContext(ctx)
	result, err := execute(cmdCtx, adapter, opts)
	cancel()

	var code int
	if err != nil {
		logger.Error("Transaction rejected before submission", zap.Error(err))
		fmt.Fprintf(stderr, "request error: %v\n", err)
		code = 65
	} else {
		if err := result.Err(); err != nil {
			logger.Warn("Transaction not approved",
				zap.String("category", string(result.Category)),
				zap.Error(err),
			)
		}
		if err := printResult(stdout, result); err != nil {
			logger.Error("Failed to print result", zap.Error(err))
		}
		code = exitCode(result)
	}

	if metricsDone != nil {
		holdMetrics(ctx, opts.holdMetrics, logger)
		metricsDone()
	}

	return code
}

// holdMetrics keeps the process alive so the metrics endpoint can be scraped
func holdMetrics(ctx context.Context, d time.Duration, logger *zap.Logger) {
	if d <= 0 {
		return
	}
	logger.Info("Holding metrics server", zap.Duration("duration", d))
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// initLogger initializes the logger. Output goes to w so stdout stays
// reserved for the JSON result.
func initLogger(cfg config.LoggerConfig, w io.Writer) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encoderCfg)
	if cfg.Development {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller())
}
