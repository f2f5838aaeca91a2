package server

import (
	"flag"
	"net/http"

	"github.com/iov-one/weave-swap/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

// StartOptions are the flags of the start command.
type StartOptions struct {
	Bind    string
	Debug   bool
	Metrics string
}

func parseStartFlags(args []string) (StartOptions, error) {
	var opts StartOptions
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	fs.StringVar(&opts.Bind, flagBind, "tcp://localhost:26658", "address the abci server listens on")
	fs.BoolVar(&opts.Debug, flagDebug, false, "return internal error details to clients")
	fs.StringVar(&opts.Metrics, flagMetrics, "", "address to serve prometheus metrics on, empty disables")
	if err := fs.Parse(args); err != nil {
		return opts, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return opts, nil
}

// AppGenerator creates the application once home, logger and flags are
// known.
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd runs the abci server until it stops. SIGINT and SIGTERM stop
// the server and exit the process.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	opts, err := parseStartFlags(args)
	if err != nil {
		return err
	}
	application, err := gen(home, logger, opts.Debug)
	if err != nil {
		return err
	}

	if opts.Metrics != "" {
		serveMetrics(opts.Metrics, logger)
	}

	svr, err := Serve(application, opts.Bind, logger)
	if err != nil {
		return err
	}
	cmn.TrapSignal(logger, stopServer(svr, logger))
	<-svr.Quit()
	return nil
}

func stopServer(svr cmn.Service, logger log.Logger) func() {
	return func() {
		if err := svr.Stop(); err != nil {
			logger.Error("stop abci server", "err", err)
		}
	}
}

// Serve starts an abci socket server for application on addr.
func Serve(application abci.Application, addr string, logger log.Logger) (cmn.Service, error) {
	logger.Info("starting abci app", "bind", addr)
	svr, err := server.NewServer(addr, "socket", application)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "abci server: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidState, "start abci server: %s", err)
	}
	return svr, nil
}

func serveMetrics(addr string, logger log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("serving metrics", "bind", addr)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server", "err", err)
		}
	}()
}
