package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/x/distribution"
	"github.com/iov-one/fundpool/x/leaderboard"
	"github.com/iov-one/fundpool/x/matching"
	"github.com/iov-one/fundpool/x/pool"
	"github.com/tendermint/tendermint/libs/log"
)

// maxTxSize limits the size of a submitted transaction request.
const maxTxSize = 64 << 10

type api struct {
	node     Node
	balances Balances
	fund     MatchingFund
	logger   log.Logger
}

func (a *api) info(w http.ResponseWriter, r *http.Request) {
	info := a.node.Info()
	JSONResp(w, http.StatusOK, struct {
		Name    string `json:"name"`
		ChainID string `json:"chain_id"`
		Height  int64  `json:"height"`
		AppHash string `json:"app_hash"`
	}{
		Name:    info.Data,
		ChainID: a.node.ChainID(),
		Height:  info.LastBlockHeight,
		AppHash: fmt.Sprintf("%X", info.LastBlockAppHash),
	})
}

// TxRequest is the body of a transaction submission. Tx is the binary
// encoded, signed transaction.
type TxRequest struct {
	Tx []byte `json:"tx"`
}

// TxResponse is the outcome of a submitted transaction.
type TxResponse struct {
	Code   uint32 `json:"code"`
	Log    string `json:"log,omitempty"`
	Data   []byte `json:"data,omitempty"`
	Height int64  `json:"height,omitempty"`
}

// submitTx delivers the transaction, or only checks it when the check query
// parameter is set.
func (a *api) submitTx(w http.ResponseWriter, r *http.Request) {
	var req TxRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTxSize)).Decode(&req); err != nil {
		JSONErr(w, http.StatusBadRequest, "Request body must be a JSON object with a base64 encoded tx.")
		return
	}
	if len(req.Tx) == 0 {
		JSONErr(w, http.StatusBadRequest, "Transaction is empty.")
		return
	}

	var resp TxResponse
	if check, _ := strconv.ParseBool(r.URL.Query().Get("check")); check {
		res := a.node.CheckTx(req.Tx)
		resp = TxResponse{Code: res.Code, Log: res.Log, Data: res.Data}
	} else {
		res, height := a.node.DeliverTx(req.Tx)
		resp = TxResponse{Code: res.Code, Log: res.Log, Data: res.Data, Height: height}
	}
	JSONResp(w, httpStatus(errors.ABCIError(resp.Code, resp.Log)), resp)
}

// poolView is a pool as presented by the API.
type poolView struct {
	ID     uint64 `json:"id"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
	*pool.Pool
}

func (a *api) pool(w http.ResponseWriter, r *http.Request) {
	key, id, ok := a.poolID(w, r)
	if !ok {
		return
	}
	var p *pool.Pool
	err := a.node.View(func(db fundpool.ReadOnlyKVStore) (err error) {
		p, err = pool.GetPool(db, key)
		return err
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	JSONResp(w, http.StatusOK, poolView{
		ID:     id,
		Kind:   p.Kind.String(),
		Status: p.Status.String(),
		Pool:   p,
	})
}

type contributionView struct {
	Contributor fundpool.Address  `json:"contributor"`
	Amount      int64             `json:"amount"`
	CreatedAt   fundpool.UnixTime `json:"created_at"`
}

func (a *api) contributions(w http.ResponseWriter, r *http.Request) {
	key, _, ok := a.poolID(w, r)
	if !ok {
		return
	}
	var contribs []*pool.Contribution
	err := a.node.View(func(db fundpool.ReadOnlyKVStore) error {
		if _, err := pool.GetPool(db, key); err != nil {
			return err
		}
		var err error
		contribs, err = pool.Contributions(db, key)
		return err
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	objects := make([]contributionView, 0, len(contribs))
	for _, c := range contribs {
		objects = append(objects, contributionView{
			Contributor: c.Contributor,
			Amount:      c.Amount,
			CreatedAt:   c.CreatedAt,
		})
	}
	JSONResp(w, http.StatusOK, struct {
		Objects []contributionView `json:"objects"`
	}{
		Objects: objects,
	})
}

func (a *api) contributors(w http.ResponseWriter, r *http.Request) {
	key, _, ok := a.poolID(w, r)
	if !ok {
		return
	}
	var addrs []fundpool.Address
	err := a.node.View(func(db fundpool.ReadOnlyKVStore) error {
		if _, err := pool.GetPool(db, key); err != nil {
			return err
		}
		var err error
		addrs, err = pool.Contributors(db, key)
		return err
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	if addrs == nil {
		addrs = []fundpool.Address{}
	}
	JSONResp(w, http.StatusOK, struct {
		Objects []fundpool.Address `json:"objects"`
	}{
		Objects: addrs,
	})
}

func (a *api) donor(w http.ResponseWriter, r *http.Request) {
	key, id, ok := a.poolID(w, r)
	if !ok {
		return
	}
	addr, ok := a.address(w, r)
	if !ok {
		return
	}
	var total int64
	err := a.node.View(func(db fundpool.ReadOnlyKVStore) error {
		if _, err := pool.GetPool(db, key); err != nil {
			return err
		}
		var err error
		total, err = pool.DonorTotal(db, key, addr)
		return err
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		PoolID      uint64           `json:"pool_id"`
		Contributor fundpool.Address `json:"contributor"`
		Total       int64            `json:"total"`
	}{
		PoolID:      id,
		Contributor: addr,
		Total:       total,
	})
}

type distributionView struct {
	PoolID         uint64                `json:"pool_id"`
	Policy         string                `json:"policy"`
	Entries        []*distribution.Entry `json:"entries"`
	TotalAllocated int64                 `json:"total_allocated"`
	Unclaimed      int64                 `json:"unclaimed"`
	CreatedAt      fundpool.UnixTime     `json:"created_at"`
}

func (a *api) distribution(w http.ResponseWriter, r *http.Request) {
	key, id, ok := a.poolID(w, r)
	if !ok {
		return
	}
	var d *distribution.Distribution
	err := a.node.View(func(db fundpool.ReadOnlyKVStore) (err error) {
		d, err = distribution.GetDistribution(db, key)
		return err
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	JSONResp(w, http.StatusOK, distributionView{
		PoolID:         id,
		Policy:         d.Policy.String(),
		Entries:        d.Entries,
		TotalAllocated: d.TotalAllocated,
		Unclaimed:      d.Unclaimed(),
		CreatedAt:      d.CreatedAt,
	})
}

func (a *api) receipt(w http.ResponseWriter, r *http.Request) {
	key, id, ok := a.poolID(w, r)
	if !ok {
		return
	}
	var rec *pool.Receipt
	err := a.node.View(func(db fundpool.ReadOnlyKVStore) (err error) {
		rec, err = pool.GetReceipt(db, key)
		return err
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		ID           uint64            `json:"id"`
		PoolID       uint64            `json:"pool_id"`
		Donor        fundpool.Address  `json:"donor"`
		TotalDonated int64             `json:"total_donated"`
		IssuedAt     fundpool.UnixTime `json:"issued_at"`
	}{
		ID:           id,
		PoolID:       decodeSequence(rec.PoolID),
		Donor:        rec.Donor,
		TotalDonated: rec.TotalDonated,
		IssuedAt:     rec.IssuedAt,
	})
}

func (a *api) leaderboard(w http.ResponseWriter, r *http.Request) {
	var entries []leaderboard.Entry
	err := a.node.View(func(db fundpool.ReadOnlyKVStore) (err error) {
		entries, err = leaderboard.Get(db)
		return err
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	JSONResp(w, http.StatusOK, struct {
		Objects []leaderboard.Entry `json:"objects"`
	}{
		Objects: entries,
	})
}

func (a *api) stats(w http.ResponseWriter, r *http.Request) {
	var s *pool.Stats
	err := a.node.View(func(db fundpool.ReadOnlyKVStore) (err error) {
		s, err = pool.GetStats(db)
		return err
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	JSONResp(w, http.StatusOK, s)
}

func (a *api) matching(w http.ResponseWriter, r *http.Request) {
	var available int64
	err := a.node.View(func(db fundpool.ReadOnlyKVStore) (err error) {
		available, err = a.fund.Available(db)
		return err
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		Account   fundpool.Address `json:"account"`
		Available int64            `json:"available"`
	}{
		Account:   matching.FundAccount,
		Available: available,
	})
}

// match computes a quadratic funding payout for the given donor totals
// without touching the state.
func (a *api) match(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		totals []int64
		errs   []string
	)
	if raw := q.Get("totals"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				errs = append(errs, fmt.Sprintf("totals: %q is not an integer.", s))
				continue
			}
			totals = append(totals, n)
		}
	}
	raised, err := strconv.ParseInt(q.Get("raised"), 10, 64)
	if err != nil {
		errs = append(errs, "raised must be an integer.")
	}
	balance, err := strconv.ParseInt(q.Get("balance"), 10, 64)
	if err != nil {
		errs = append(errs, "balance must be an integer.")
	}
	if len(errs) != 0 {
		JSONErrs(w, http.StatusBadRequest, errs)
		return
	}

	payout, err := matching.ComputeMatch(totals, raised, balance)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		Payout int64 `json:"payout"`
	}{
		Payout: payout,
	})
}

func (a *api) wallet(w http.ResponseWriter, r *http.Request) {
	addr, ok := a.address(w, r)
	if !ok {
		return
	}
	var balance int64
	err := a.node.View(func(db fundpool.ReadOnlyKVStore) (err error) {
		balance, err = a.balances.Balance(db, addr)
		return err
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		Address fundpool.Address `json:"address"`
		Balance int64            `json:"balance"`
	}{
		Address: addr,
		Balance: balance,
	})
}

func (a *api) poolID(w http.ResponseWriter, r *http.Request) ([]byte, uint64, bool) {
	key, id, err := parseSequence(chi.URLParam(r, "id"))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "id must be a positive integer sequence number.")
		return nil, 0, false
	}
	return key, id, true
}

func (a *api) address(w http.ResponseWriter, r *http.Request) (fundpool.Address, bool) {
	addr, err := fundpool.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "address must be a valid address value.")
		return nil, false
	}
	return addr, true
}
