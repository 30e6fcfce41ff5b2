package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/application/alerts"
	"github.com/airlight/airquality-mgmt/internal/pkg/application/dispatcher"
	"github.com/airlight/airquality-mgmt/internal/pkg/application/jobs"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/ingest"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/logging"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/router"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/storage"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/tracing"
	"github.com/airlight/airquality-mgmt/internal/pkg/presentation/api"
	"github.com/airlight/airquality-mgmt/pkg/client"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

const serviceName string = "airquality-mgmt"

type flagType int
type flagMap map[flagType]string

const (
	listenAddress flagType = iota
	servicePort

	thresholdsFile
	notificationsFile
	jobConfigFile

	sensorSvcUrl
	predictionSvcUrl

	dbHost
	dbUser
	dbPassword
	dbPort
	dbName
	dbSSLMode
)

func defaultFlags() flagMap {
	return flagMap{
		listenAddress: "0.0.0.0",
		servicePort:   "8080",

		thresholdsFile:    "",
		notificationsFile: "",
		jobConfigFile:     "",

		sensorSvcUrl:     "",
		predictionSvcUrl: "",

		dbHost:     "",
		dbUser:     "",
		dbPassword: "",
		dbPort:     "5432",
		dbName:     "airquality",
		dbSSLMode:  "disable",
	}
}

func main() {
	ctx, flags := parseExternalConfig(context.Background(), defaultFlags())

	serviceVersion := version()
	ctx, logger := logging.NewLogger(ctx, serviceName, serviceVersion)
	logger.Info().Msg("starting up ...")

	cleanup, err := tracing.Init(ctx, logger, serviceName, serviceVersion)
	exitIf(err, logger, "failed to init tracing")
	defer cleanup()

	s, err := storage.New(ctx, storage.NewConfig(
		flags[dbHost], flags[dbUser], flags[dbPassword], flags[dbPort], flags[dbName], flags[dbSSLMode],
	))
	exitIf(err, logger, "could not create or connect to database")

	err = s.Initialize(ctx)
	exitIf(err, logger, "failed to initialize database")

	thresholds, err := newThresholdProvider(flags[thresholdsFile])
	exitIf(err, logger, "failed to load thresholds")

	notifierCfg, err := loadNotifierConfig(flags[notificationsFile])
	exitIf(err, logger, "failed to load notification config")

	jobCfg, err := loadJobConfig(flags[jobConfigFile])
	exitIf(err, logger, "failed to load job config")

	d := dispatcher.New()

	notifier, err := alerts.NewNotifier(notifierCfg)
	exitIf(err, logger, "failed to create alert notifier")

	alertSvc := alerts.New(s, d,
		alerts.WithNotifier(notifier),
	)

	pipeline := alerts.NewPipeline(thresholds, alertSvc, s, d)

	registry := jobs.NewRegistry(jobs.NewLog(512))

	deps := jobs.Deps{
		Storage:    s,
		Alerts:     alertSvc,
		Thresholds: thresholds,
		Pipeline:   pipeline,
		Dispatcher: d,
	}
	if flags[sensorSvcUrl] != "" {
		deps.Sensors = client.NewSensorClient(flags[sensorSvcUrl])
	}
	if flags[predictionSvcUrl] != "" {
		deps.Predictions = client.NewPredictionClient(flags[predictionSvcUrl])
	}

	err = jobs.RegisterAll(registry, jobCfg, deps)
	exitIf(err, logger, "failed to register jobs")

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobsCtx, _ := logging.WithComponent(runCtx, "jobs")
	err = registry.StartAll(jobsCtx)
	exitIf(err, logger, "failed to start jobs")

	go d.Run(runCtx)

	if flags[thresholdsFile] != "" {
		go func() {
			if err := thresholds.Watch(runCtx, flags[thresholdsFile]); err != nil {
				logger.Error().Err(err).Msg("threshold file watch stopped")
			}
		}()
	}

	amqpCfg := ingest.LoadConfigFromEnv()
	if amqpCfg.Enabled() {
		consumer := ingest.NewConsumer(amqpCfg, pipeline)
		ingestCtx, ingestLog := logging.WithComponent(runCtx, "ingest")
		go func() {
			if err := consumer.Run(ingestCtx); err != nil && !errors.Is(err, context.Canceled) {
				ingestLog.Error().Err(err).Msg("broker consumer stopped")
			}
		}()
	}

	mux := api.RegisterHandlers(runCtx, router.New(serviceName), alertSvc, thresholds, registry, d)

	srv := &http.Server{
		Addr:    flags[listenAddress] + ":" + flags[servicePort],
		Handler: mux,
	}

	go func() {
		logger.Info().Str("address", srv.Addr).Msg("serving requests")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to serve requests")
		}
	}()

	<-runCtx.Done()
	logger.Info().Msg("shutting down ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down http server cleanly")
	}

	registry.StopAll(logging.NewContextWithLogger(shutdownCtx, logger))
	s.Close()
}

func newThresholdProvider(path string) (*alerts.ThresholdProvider, error) {
	if path == "" {
		return alerts.NewThresholdProvider(alerts.DefaultThresholds()), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := alerts.ParseThresholds(f, 1)
	if err != nil {
		return nil, err
	}

	return alerts.NewThresholdProvider(table), nil
}

func loadNotifierConfig(path string) (*alerts.NotifierConfig, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return alerts.LoadNotifierConfig(f)
}

func loadJobConfig(path string) (jobs.Config, error) {
	cfg := jobs.DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func parseExternalConfig(ctx context.Context, flags flagMap) (context.Context, flagMap) {
	// Allow environment variables to override certain defaults
	envOrDef := func(name, def string) string {
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return def
	}

	flags[listenAddress] = envOrDef("LISTEN_ADDRESS", flags[listenAddress])
	flags[servicePort] = envOrDef("SERVICE_PORT", flags[servicePort])

	flags[sensorSvcUrl] = envOrDef("SENSOR_SVC_URL", flags[sensorSvcUrl])
	flags[predictionSvcUrl] = envOrDef("PREDICTION_SVC_URL", flags[predictionSvcUrl])

	flags[dbHost] = envOrDef("POSTGRES_HOST", flags[dbHost])
	flags[dbPort] = envOrDef("POSTGRES_PORT", flags[dbPort])
	flags[dbName] = envOrDef("POSTGRES_DBNAME", flags[dbName])
	flags[dbUser] = envOrDef("POSTGRES_USER", flags[dbUser])
	flags[dbPassword] = envOrDef("POSTGRES_PASSWORD", flags[dbPassword])
	flags[dbSSLMode] = envOrDef("POSTGRES_SSLMODE", flags[dbSSLMode])

	apply := func(f flagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("thresholds", "a pollutant threshold configuration file", apply(thresholdsFile))
	flag.Func("notifications", "an alert notification configuration file", apply(notificationsFile))
	flag.Func("jobs", "a job schedule configuration file", apply(jobConfigFile))
	flag.Parse()

	return ctx, flags
}

func version() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	infoMap := map[string]string{}
	for _, s := range buildInfo.Settings {
		infoMap[s.Key] = s.Value
	}

	sha := infoMap["vcs.revision"]
	if infoMap["vcs.modified"] == "true" {
		sha += "+"
	}

	return sha
}

func exitIf(err error, logger zerolog.Logger, msg string) {
	if err != nil {
		logger.Error().Err(err).Msg(msg)
		time.Sleep(2 * time.Second)
		os.Exit(1)
	}
}
