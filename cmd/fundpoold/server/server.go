/*
Package server exposes a fundpoold node over HTTP. Transactions are
submitted as signed binary envelopes, while the ledger state is served as
JSON documents read from the last committed block.
*/
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iov-one/fundpool"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Node processes transactions and provides access to the committed state.
// Implemented by the fundpoold application node.
type Node interface {
	CheckTx(tx []byte) abci.ResponseCheckTx
	DeliverTx(tx []byte) (abci.ResponseDeliverTx, int64)
	View(fn func(db fundpool.ReadOnlyKVStore) error) error
	Info() abci.ResponseInfo
	ChainID() string
}

// Balances returns the wallet balance of an address.
// Implemented by the x/cash controller.
type Balances interface {
	Balance(db fundpool.ReadOnlyKVStore, addr fundpool.Address) (int64, error)
}

// MatchingFund returns the amount the matching fund can pay out.
// Implemented by the x/matching controller.
type MatchingFund interface {
	Available(db fundpool.ReadOnlyKVStore) (int64, error)
}

// Config declares everything the HTTP API serves.
type Config struct {
	Node     Node
	Balances Balances
	Fund     MatchingFund
	Logger   log.Logger
}

// NewRouter returns the HTTP handler of the fundpoold API.
func NewRouter(conf Config) http.Handler {
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	a := &api{
		node:     conf.Node,
		balances: conf.Balances,
		fund:     conf.Fund,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(logger), middleware.Recoverer)

	r.Get("/info", a.info)
	r.Post("/tx", a.submitTx)

	r.Route("/pools/{id}", func(r chi.Router) {
		r.Get("/", a.pool)
		r.Get("/contributions", a.contributions)
		r.Get("/contributors", a.contributors)
		r.Get("/donors/{address}", a.donor)
	})
	r.Get("/distributions/{id}", a.distribution)
	r.Get("/receipts/{id}", a.receipt)
	r.Get("/leaderboard", a.leaderboard)
	r.Get("/stats", a.stats)
	r.Get("/matching", a.matching)
	r.Get("/match", a.match)
	r.Get("/wallets/{address}", a.wallet)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	return r
}

// requestLogger logs every served request together with the response
// status.
func requestLogger(logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
