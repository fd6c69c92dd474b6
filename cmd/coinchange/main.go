package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/coin-change/internal/application"
	"github.com/eugenenazirov/coin-change/internal/change"
	"github.com/eugenenazirov/coin-change/internal/compare"
	"github.com/eugenenazirov/coin-change/internal/config"
	"github.com/eugenenazirov/coin-change/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("coinchange", "Coin change calculator - compares greedy and minimum-coin change making")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	denominationsStr := kingpinApp.Flag("denominations", "Comma-separated denominations, largest first").String()
	maxAmountFlag := kingpinApp.Flag("max-amount", "Largest amount the dynamic-programming solver accepts (0 disables the limit)").Default("-1").Int()
	logLevel := kingpinApp.Flag("log-level", "Log level: debug, info, warn, error").String()

	serveCmd := kingpinApp.Command("serve", "Start the HTTP service")
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	redisAddr := serveCmd.Flag("redis-addr", "Redis address for caching comparison reports").String()

	compareCmd := kingpinApp.Command("compare", "Compare greedy and minimum-coin solvers and print timings")
	amounts := compareCmd.Flag("amount", "Amount to compare (repeatable); defaults to the configured samples").Ints()
	asJSON := compareCmd.Flag("json", "Print reports as JSON").Bool()

	canonicalCmd := kingpinApp.Command("canonical", "Check whether greedy selection is optimal for the denominations")

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *denominationsStr != "" {
		overrides.DenominationsStr = denominationsStr
	}

	if *maxAmountFlag >= 0 {
		overrides.MaxAmount = maxAmountFlag
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	if *redisAddr != "" {
		overrides.RedisAddr = redisAddr
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case serveCmd.FullCommand():
		serve(cfg, logger)
	case compareCmd.FullCommand():
		samples := samplesFor(cfg, *amounts)
		if err := runCompare(ctx, os.Stdout, cfg, logger, samples, *asJSON); err != nil {
			logger.Fatal("comparison failed", zap.Error(err))
		}
	case canonicalCmd.FullCommand():
		if err := runCanonical(ctx, os.Stdout, cfg); err != nil {
			logger.Fatal("canonical check failed", zap.Error(err))
		}
	}
}

func serve(cfg config.Config, logger *zap.Logger) {
	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer func() {
		_ = app.Close()
	}()

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// samplesFor returns one sample per requested amount over the configured
// denominations, or the configured samples when no amount is given.
func samplesFor(cfg config.Config, amounts []int) []compare.Sample {
	if len(amounts) == 0 {
		return cfg.Samples
	}
	samples := make([]compare.Sample, 0, len(amounts))
	for _, amount := range amounts {
		samples = append(samples, compare.Sample{Amount: amount, Denominations: cfg.Denominations})
	}
	return samples
}

func runCompare(ctx context.Context, out io.Writer, cfg config.Config, logger *zap.Logger, samples []compare.Sample, asJSON bool) error {
	_, _, comparator := application.NewComparator(cfg, logger)

	reports, err := comparator.CompareAll(ctx, samples)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for _, report := range reports {
		if err := report.Write(out); err != nil {
			return err
		}
	}
	return nil
}

func runCanonical(ctx context.Context, out io.Writer, cfg config.Config) error {
	report, err := change.CheckCanonical(ctx, cfg.Denominations, cfg.CanonicalWorkers)
	if err != nil {
		return err
	}

	if report.Canonical && report.Proven {
		_, err = fmt.Fprintf(out, "Denominations %v are canonical: greedy is optimal for every amount (checked up to %d).\n", report.Denominations, report.Checked)
		return err
	}
	if report.Canonical {
		_, err = fmt.Fprintf(out, "Denominations %v appear canonical: greedy is optimal up to %d, but without a 1 larger amounts are not covered.\n", report.Denominations, report.Checked)
		return err
	}

	ce := report.Counterexample
	_, err = fmt.Fprintf(out, "Denominations %v are not canonical. Smallest counterexample: %d\n  greedy:  %s (%d coins, total %d)\n  optimal: %s (%d coins)\n",
		report.Denominations, ce.Amount, ce.Greedy, ce.GreedyCoins, ce.GreedyTotal, ce.MinCoins, ce.OptimalCoins)
	return err
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
