package pool

import (
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/gconf"
	"github.com/iov-one/fundpool/orm"
	"github.com/iov-one/fundpool/x"
)

// RegisterRoutes registers handlers for pool message processing.
func RegisterRoutes(r fundpool.Registry, auth x.Authenticator, mover CoinMover) {
	r.Handle(&CreatePoolMsg{}, &createPoolHandler{auth: auth})
	r.Handle(&VerifyPoolMsg{}, &verifyPoolHandler{auth: auth})
	r.Handle(&ContributeMsg{}, &contributeHandler{auth: auth, mover: mover})
	r.Handle(&ClosePoolMsg{}, &closePoolHandler{auth: auth})
	r.Handle(&IssueReceiptMsg{}, &issueReceiptHandler{auth: auth})
	r.Handle(&SetRecurringMsg{}, &setRecurringHandler{auth: auth})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler("pool", &Configuration{}, auth))
}

// LoadConfiguration returns the pool extension configuration.
func LoadConfiguration(db fundpool.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "pool", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

type createPoolHandler struct {
	auth x.Authenticator
}

func (h *createPoolHandler) Check(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &fundpool.CheckResult{}, nil
}

func (h *createPoolHandler) Deliver(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	msg, now, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	p := &Pool{
		Metadata:     &fundpool.Metadata{Schema: 1},
		Kind:         msg.Kind,
		Name:         msg.Name,
		Admin:        msg.Admin,
		Beneficiary:  msg.Beneficiary,
		MinThreshold: msg.MinThreshold,
		ClaimPeriod:  msg.ClaimPeriod,
		Status:       Open,
		// Charity pools must be verified before accepting funds.
		Verified:  msg.Kind == Prize,
		CreatedAt: now,
	}
	id, err := createPool(db, p)
	if err != nil {
		return nil, err
	}
	fundpool.GetLogger(ctx).Info("pool created", "id", id, "kind", p.Kind, "admin", p.Admin)
	return &fundpool.DeliverResult{Data: id}, nil
}

func (h *createPoolHandler) validate(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*CreatePoolMsg, fundpool.UnixTime, error) {
	var msg CreatePoolMsg
	if err := fundpool.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, 0, err
	}
	if err := x.RequireSigner(ctx, h.auth, "configuration owner", conf.Owner); err != nil {
		return nil, 0, err
	}
	now, err := fundpool.BlockTime(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "block time")
	}
	return &msg, fundpool.AsUnixTime(now), nil
}

type verifyPoolHandler struct {
	auth x.Authenticator
}

func (h *verifyPoolHandler) Check(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &fundpool.CheckResult{}, nil
}

func (h *verifyPoolHandler) Deliver(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	msg, p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	p.Verified = true
	if err := SavePool(db, msg.PoolID, p); err != nil {
		return nil, err
	}
	fundpool.GetLogger(ctx).Info("pool verified", "id", msg.PoolID)
	return &fundpool.DeliverResult{}, nil
}

func (h *verifyPoolHandler) validate(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*VerifyPoolMsg, *Pool, error) {
	var msg VerifyPoolMsg
	if err := fundpool.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, "configuration owner", conf.Owner); err != nil {
		return nil, nil, err
	}
	p, err := GetPool(db, msg.PoolID)
	if err != nil {
		return nil, nil, err
	}
	if p.Verified {
		return nil, nil, errors.Wrap(errors.ErrState, "pool already verified")
	}
	if p.Status != Open {
		return nil, nil, errors.Wrapf(errors.ErrState, "pool is %s", p.Status)
	}
	return &msg, p, nil
}

type contributeHandler struct {
	auth  x.Authenticator
	mover CoinMover
}

func (h *contributeHandler) Check(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	msg, _, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	p, err := GetPool(db, msg.PoolID)
	if err != nil {
		return nil, err
	}
	if p.Status != Open || !p.Verified {
		return nil, errors.Wrap(errors.ErrState, "pool does not accept contributions")
	}
	return &fundpool.CheckResult{}, nil
}

func (h *contributeHandler) Deliver(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	msg, now, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := Record(db, h.mover, msg.PoolID, msg.Contributor, msg.Amount, now); err != nil {
		return nil, err
	}
	fundpool.GetLogger(ctx).Debug("contribution recorded",
		"pool", msg.PoolID, "contributor", msg.Contributor, "amount", msg.Amount)
	return &fundpool.DeliverResult{}, nil
}

func (h *contributeHandler) validate(ctx fundpool.Context, tx fundpool.Tx) (*ContributeMsg, fundpool.UnixTime, error) {
	var msg ContributeMsg
	if err := fundpool.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, "contributor", msg.Contributor); err != nil {
		return nil, 0, err
	}
	now, err := fundpool.BlockTime(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "block time")
	}
	return &msg, fundpool.AsUnixTime(now), nil
}

type closePoolHandler struct {
	auth x.Authenticator
}

func (h *closePoolHandler) Check(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &fundpool.CheckResult{}, nil
}

func (h *closePoolHandler) Deliver(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	msg, p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	p.Status = Closed
	if err := SavePool(db, msg.PoolID, p); err != nil {
		return nil, err
	}
	fundpool.GetLogger(ctx).Info("pool closed", "id", msg.PoolID, "total", p.Total)
	return &fundpool.DeliverResult{}, nil
}

func (h *closePoolHandler) validate(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*ClosePoolMsg, *Pool, error) {
	var msg ClosePoolMsg
	if err := fundpool.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	p, err := GetPool(db, msg.PoolID)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, "pool admin", p.Admin); err != nil {
		return nil, nil, err
	}
	if p.Status != Open {
		return nil, nil, errors.Wrapf(errors.ErrState, "pool is %s", p.Status)
	}
	return &msg, p, nil
}

type issueReceiptHandler struct {
	auth x.Authenticator
}

func (h *issueReceiptHandler) Check(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &fundpool.CheckResult{}, nil
}

func (h *issueReceiptHandler) Deliver(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	msg, total, now, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	r := &Receipt{
		Metadata:     &fundpool.Metadata{Schema: 1},
		PoolID:       msg.PoolID,
		Donor:        msg.Donor,
		TotalDonated: total,
		IssuedAt:     now,
	}
	id, err := receipts.Put(db, nil, r)
	if err != nil {
		return nil, errors.Wrap(err, "save receipt")
	}
	return &fundpool.DeliverResult{Data: id}, nil
}

func (h *issueReceiptHandler) validate(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*IssueReceiptMsg, int64, fundpool.UnixTime, error) {
	var msg IssueReceiptMsg
	if err := fundpool.LoadMsg(tx, &msg); err != nil {
		return nil, 0, 0, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, "donor", msg.Donor); err != nil {
		return nil, 0, 0, err
	}
	total, err := DonorTotal(db, msg.PoolID, msg.Donor)
	if err != nil {
		return nil, 0, 0, err
	}
	if total == 0 {
		return nil, 0, 0, errors.Wrap(errors.ErrNotFound, "no donations to this pool")
	}
	now, err := fundpool.BlockTime(ctx)
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "block time")
	}
	return &msg, total, fundpool.AsUnixTime(now), nil
}

type setRecurringHandler struct {
	auth x.Authenticator
}

func (h *setRecurringHandler) Check(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &fundpool.CheckResult{}, nil
}

func (h *setRecurringHandler) Deliver(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	msg, now, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	key := orm.CompositeKey(msg.Donor, msg.PoolID)
	if !msg.Enabled {
		if err := pledges.Delete(db, key); err != nil {
			return nil, errors.Wrap(err, "delete pledge")
		}
		return &fundpool.DeliverResult{}, nil
	}
	pledge := &RecurringPledge{
		Metadata:  &fundpool.Metadata{Schema: 1},
		PoolID:    msg.PoolID,
		Donor:     msg.Donor,
		Amount:    msg.Amount,
		CreatedAt: now,
	}
	if _, err := pledges.Put(db, key, pledge); err != nil {
		return nil, errors.Wrap(err, "save pledge")
	}
	return &fundpool.DeliverResult{}, nil
}

func (h *setRecurringHandler) validate(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*SetRecurringMsg, fundpool.UnixTime, error) {
	var msg SetRecurringMsg
	if err := fundpool.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, "donor", msg.Donor); err != nil {
		return nil, 0, err
	}
	p, err := GetPool(db, msg.PoolID)
	if err != nil {
		return nil, 0, err
	}
	if msg.Enabled && p.Status != Open {
		return nil, 0, errors.Wrapf(errors.ErrState, "pool is %s", p.Status)
	}
	now, err := fundpool.BlockTime(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "block time")
	}
	return &msg, fundpool.AsUnixTime(now), nil
}
