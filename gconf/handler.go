package gconf

import (
	"reflect"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/x"
)

// OwnedConfig must have an Owner field. A configuration update message must be
// signed by the owner in order to be authorized to apply the change.
type OwnedConfig interface {
	Configuration
	GetOwner() fundpool.Address
}

// UpdateConfigurationHandler applies a configuration patch carried by a
// message. The message must have a "Patch" field of the same type as the
// configuration.
type UpdateConfigurationHandler struct {
	pkg    string
	config reflect.Type
	auth   x.Authenticator
}

var _ fundpool.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch message. The configuration must exist, which means it
// was created via genesis. Each message must be signed by the current
// configuration owner.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:    pkg,
		config: reflect.TypeOf(config).Elem(),
		auth:   auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	if _, err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &fundpool.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	conf, err := h.applyTx(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	fundpool.GetLogger(ctx).Info("configuration updated", "package", h.pkg, "owner", conf.GetOwner())
	return &fundpool.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx) (OwnedConfig, error) {
	conf := reflect.New(h.config).Interface().(OwnedConfig)
	if err := Load(store, h.pkg, conf); err != nil {
		return nil, errors.Wrap(err, "load current configuration")
	}
	if err := x.RequireSigner(ctx, h.auth, h.pkg+" configuration owner", conf.GetOwner()); err != nil {
		return nil, err
	}

	payload, err := patchPayload(tx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(conf, payload); err != nil {
		return nil, errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(store, h.pkg, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save updated config")
	}
	return conf, nil
}

// patch copies every non zero field of the payload into the configuration.
func patch(config OwnedConfig, payload OwnedConfig) error {
	if reflect.TypeOf(payload) != reflect.TypeOf(config) {
		return errors.Wrapf(errors.ErrMsg, "config in message is %T, store holds %T", payload, config)
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()
	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)
		if isZero(got) {
			continue
		}
		cval.Field(i).Set(got)
	}
	return nil
}

func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

// patchPayload expects the transaction to have a message with "Patch" field of
// the same type as the configuration. Content of this field is returned.
func patchPayload(tx fundpool.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr {
		return nil, errors.Wrapf(errors.ErrInput, "%T has no \"Patch\" field", msg)
	}
	if field.IsNil() {
		return nil, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}
