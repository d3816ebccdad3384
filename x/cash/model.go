package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/orm"
)

// Wallet holds the balance of a single address.
type Wallet struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Amount   int64              `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Validate() error {
	if err := w.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if w.Amount < 0 {
		return errors.Wrap(errors.ErrModel, "negative balance")
	}
	return nil
}

func (w *Wallet) Marshal() ([]byte, error)   { return proto.Marshal((*walletCodec)(w)) }
func (w *Wallet) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*walletCodec)(w)) }

type walletCodec Wallet

func (m *walletCodec) Reset()         { *m = walletCodec{} }
func (m *walletCodec) String() string { return proto.CompactTextString(m) }
func (*walletCodec) ProtoMessage()    {}

// NewWalletBucket returns a bucket of wallets, keyed by the owner address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("cash", &Wallet{})
}
