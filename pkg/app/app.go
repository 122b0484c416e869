package app

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/code-payments/code-vault-program/pkg/metrics"
)

// App is an application whose lifecycle is tied to the process. The app gets
// initialized, runs until its work completes or the process is interrupted,
// and is then stopped.
type App interface {
	// Init initializes the application in a blocking fashion. When Init returns,
	// it is expected that the application is ready to Run.
	Init(config Config, metricsProvider *newrelic.Application) error

	// Run performs the application's work. The context is cancelled when the
	// process receives an interrupt.
	Run(ctx context.Context, args []string) error

	// Stop stops the application, allowing for it to clean up any resources.
	// When Stop() returns, the process exits.
	//
	// Stop should be idempotent.
	Stop()
}

var (
	configPath = flag.String("config", "config.yaml", "configuration file path")

	osSigCh = make(chan os.Signal, 1)
)

func init() {
	signal.Notify(osSigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
}

func Run(app App) error {
	flag.Parse()

	logger := logrus.StandardLogger().WithField("type", "app")

	config, err := loadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Error("failed to load config")
		os.Exit(1)
	}

	if len(config.AppName) == 0 {
		logger.Error("must specify an application name")
		os.Exit(1)
	}

	// todo: Better abstraction so we're not directly tied to NR
	var metricsProvider *newrelic.Application
	if len(config.NewRelicLicenseKey) > 0 {
		nr, err := newrelic.NewApplication(
			newrelic.ConfigFromEnvironment(),
			newrelic.ConfigAppName(config.AppName),
			newrelic.ConfigLicense(config.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logrus.WithError(err).Error("error connecting to new relic")
			os.Exit(1)
		}

		metricsProvider = nr
	}

	configureLogger(config, metricsProvider)

	if err := app.Init(config.AppConfig, metricsProvider); err != nil {
		logger.WithError(err).Error("failed to initialize application")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if metricsProvider != nil {
		ctx = metrics.NewContext(ctx, metricsProvider)
	}

	runCh := make(chan error, 1)
	go func() {
		runCh <- app.Run(ctx, flag.Args())
	}()

	// Wait for the following shutdown conditions:
	//    1. OS Signal telling us to shutdown
	//    2. The application has finished running
	var runErr error
	select {
	case <-osSigCh:
		logger.Info("interrupt received, shutting down")
		cancel()
	case runErr = <-runCh:
	}

	shutdownCh := make(chan struct{})
	go func() {
		app.Stop()

		if metricsProvider != nil {
			metricsProvider.Shutdown(config.ShutdownGracePeriod)
		}

		close(shutdownCh)
	}()

	select {
	case <-shutdownCh:
		return runErr
	case <-time.After(config.ShutdownGracePeriod):
		return errors.Errorf("failed to stop the application within %v", config.ShutdownGracePeriod)
	}
}

func loadConfig(path string) (BaseConfig, error) {
	// viper.ReadInConfig only returns ConfigFileNotFoundError if it has to search
	// for a default config file because one hasn't been explicitly set. That is,
	// if we explicitly set a config file, and it does not exist, viper will not
	// return a ConfigFileNotFoundError, so we do it ourselves.
	if _, err := os.Stat(path); err == nil {
		viper.SetConfigFile(path)
	} else if !os.IsNotExist(err) {
		return BaseConfig{}, errors.Wrap(err, "failed to check if config exists")
	}

	err := viper.ReadInConfig()
	_, isConfigNotFound := err.(viper.ConfigFileNotFoundError)
	if err != nil && !isConfigNotFound {
		return BaseConfig{}, errors.Wrap(err, "failed to read config")
	}

	config := defaultConfig
	if err := viper.Unmarshal(&config); err != nil {
		return BaseConfig{}, errors.Wrap(err, "failed to unmarshal config")
	}
	return config, nil
}

func configureLogger(config BaseConfig, metricsProvider *newrelic.Application) {
	if metricsProvider != nil {
		logrus.SetFormatter(metrics.NewCustomNewRelicLogFormatter(metricsProvider, &logrus.JSONFormatter{}))
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	logrus.SetOutput(os.Stderr)
}
