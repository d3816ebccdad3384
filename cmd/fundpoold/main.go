package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/app"
	fundpoold "github.com/iov-one/fundpool/cmd/fundpoold/app"
	"github.com/iov-one/fundpool/cmd/fundpoold/server"
	"github.com/iov-one/fundpool/errors"
	"github.com/tendermint/tendermint/libs/log"
)

func init() {
	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("fundpoold")
	fmt.Println("          Contribution ledger and matched distribution node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("start     Load the genesis on first run and serve the HTTP API")
	fmt.Println("version   Print the app version")
	fmt.Println(`
start flags, each can be set by the environment or a .env file as well:
  -home string              FUNDPOOL_HOME (default "$HOME/.fundpool")
  -http string              FUNDPOOL_HTTP (default ":8000")
  -genesis string           FUNDPOOL_GENESIS (default "<home>/genesis.json")
  -log_level string         FUNDPOOL_LOG_LEVEL (default "info")
  -debug                    FUNDPOOL_DEBUG
  -shutdown_timeout string  FUNDPOOL_SHUTDOWN_TIMEOUT (default "10s")`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "start":
		var conf configuration
		conf, err = loadConfiguration(rest)
		if err == nil {
			err = start(conf, newLogger(conf))
		}
	case "version":
		fmt.Println(fundpool.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

// start opens the database, initializes the chain if needed and serves the
// API until the process is signaled to stop.
func start(conf configuration, logger log.Logger) error {
	if err := os.MkdirAll(conf.Home, 0o750); err != nil {
		return errors.Wrapf(errors.ErrInput, "home directory: %s", err)
	}
	kv, err := fundpoold.CommitKVStore(filepath.Join(conf.Home, "fundpool.db"))
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	a, err := fundpoold.Application(kv, logger.With("module", "app"), conf.Debug)
	if err != nil {
		return err
	}
	node := fundpoold.NewNode(a, time.Now)

	if node.ChainID() == "" {
		gen, err := app.LoadGenesis(conf.Genesis)
		if err != nil {
			return errors.Wrap(err, "genesis")
		}
		if err := node.Init(gen); err != nil {
			return errors.Wrap(err, "init chain")
		}
		logger.Info("Chain initialized", "chain_id", gen.ChainID)
	}

	srv := &http.Server{
		Addr: conf.HTTP,
		Handler: server.NewRouter(server.Config{
			Node:     node,
			Balances: fundpoold.CashControl(),
			Fund:     fundpoold.MatchingControl(),
			Logger:   logger.With("module", "http"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP API", "bind", conf.HTTP, "chain_id", node.ChainID())
		errc <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return errors.Wrap(err, "http server")
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	logger.Info("HTTP API stopped")
	return nil
}
