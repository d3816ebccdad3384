package main

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/iov-one/fundpool/errors"
	"github.com/joho/godotenv"
	"github.com/tendermint/tendermint/libs/log"
)

type configuration struct {
	// Home is the directory holding the database.
	Home string
	// HTTP is the address the API listens on.
	HTTP string
	// Genesis is the path of the genesis file used on the first start.
	Genesis  string
	LogLevel string
	// Debug exposes the details of internal errors to the clients.
	Debug           bool
	ShutdownTimeout time.Duration
}

// loadConfiguration reads the configuration from the environment, optionally
// extended by .env files in the working directory. Command line flags take
// precedence.
func loadConfiguration(args []string) (configuration, error) {
	// Missing files are fine, the environment is used as is.
	_ = godotenv.Load(".env", ".env.local")
	return parseConfiguration(args, os.LookupEnv)
}

func parseConfiguration(args []string, lookup func(string) (string, bool)) (configuration, error) {
	env := func(name, fallback string) string {
		if v, ok := lookup(name); ok && v != "" {
			return v
		}
		return fallback
	}

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".fundpool")
	home := env("FUNDPOOL_HOME", defaultHome)
	debug, err := strconv.ParseBool(env("FUNDPOOL_DEBUG", "false"))
	if err != nil {
		return configuration{}, errors.Wrap(errors.ErrInput, "FUNDPOOL_DEBUG must be a boolean")
	}
	timeout, err := time.ParseDuration(env("FUNDPOOL_SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return configuration{}, errors.Wrap(errors.ErrInput, "FUNDPOOL_SHUTDOWN_TIMEOUT must be a duration")
	}

	conf := configuration{
		Home:            home,
		HTTP:            env("FUNDPOOL_HTTP", ":8000"),
		Genesis:         env("FUNDPOOL_GENESIS", ""),
		LogLevel:        env("FUNDPOOL_LOG_LEVEL", "info"),
		Debug:           debug,
		ShutdownTimeout: timeout,
	}

	fl := flag.NewFlagSet("start", flag.ContinueOnError)
	fl.StringVar(&conf.Home, "home", conf.Home, "directory to store files under")
	fl.StringVar(&conf.HTTP, "http", conf.HTTP, "address the HTTP API listens on")
	fl.StringVar(&conf.Genesis, "genesis", conf.Genesis, "genesis file, defaults to genesis.json in the home directory")
	fl.StringVar(&conf.LogLevel, "log_level", conf.LogLevel, "one of debug, info, error or none")
	fl.BoolVar(&conf.Debug, "debug", conf.Debug, "call stack returned on error")
	fl.DurationVar(&conf.ShutdownTimeout, "shutdown_timeout", conf.ShutdownTimeout, "time given to open requests on shutdown")
	if err := fl.Parse(args); err != nil {
		return configuration{}, errors.Wrapf(errors.ErrInput, "flags: %s", err)
	}

	if conf.Genesis == "" {
		conf.Genesis = filepath.Join(conf.Home, "genesis.json")
	}
	if conf.ShutdownTimeout <= 0 {
		return configuration{}, errors.Wrap(errors.ErrInput, "shutdown timeout must be positive")
	}
	if _, err := log.AllowLevel(conf.LogLevel); err != nil {
		return configuration{}, errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	return conf, nil
}

// newLogger returns a logger writing to stdout, limited to the configured
// level.
func newLogger(conf configuration) log.Logger {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	// The level was validated when loading the configuration.
	opt, _ := log.AllowLevel(conf.LogLevel)
	return log.NewFilter(logger, opt).With("module", "fundpool")
}
