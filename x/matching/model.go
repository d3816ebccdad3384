package matching

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/orm"
)

// FundAccount is the address of the wallet holding the matching fund coins.
var FundAccount = fundpool.NewCondition("matching", "fund", []byte("quadratic")).Address()

// Fund tracks the balance available for matching payouts.
type Fund struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Account  fundpool.Address   `protobuf:"bytes,2,opt,name=account,proto3" json:"account"`
	Balance  int64              `protobuf:"varint,3,opt,name=balance,proto3" json:"balance"`
	// Paid is the sum of all payouts made from this fund.
	Paid int64 `protobuf:"varint,4,opt,name=paid,proto3" json:"paid"`
}

var _ orm.Model = (*Fund)(nil)

func (f *Fund) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", f.Metadata.Validate())
	errs = errors.AppendField(errs, "Account", f.Account.Validate())
	if f.Balance < 0 {
		errs = errors.AppendField(errs, "Balance", errors.ErrModel)
	}
	if f.Paid < 0 {
		errs = errors.AppendField(errs, "Paid", errors.ErrModel)
	}
	return errs
}

func (f *Fund) Marshal() ([]byte, error)   { return proto.Marshal((*fundCodec)(f)) }
func (f *Fund) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*fundCodec)(f)) }

type fundCodec Fund

func (m *fundCodec) Reset()         { *m = fundCodec{} }
func (m *fundCodec) String() string { return proto.CompactTextString(m) }
func (*fundCodec) ProtoMessage()    {}

// Configuration of the matching extension.
type Configuration struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owner may update this configuration.
	Owner fundpool.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner"`
	// MaxPayout caps a single matching payout. Zero means no limit.
	MaxPayout int64 `protobuf:"varint,3,opt,name=max_payout,json=maxPayout,proto3" json:"max_payout,omitempty"`
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if c.MaxPayout < 0 {
		errs = errors.AppendField(errs, "MaxPayout", errors.ErrModel)
	}
	return errs
}

// GetOwner is required by the configuration update handler.
func (c *Configuration) GetOwner() fundpool.Address {
	return c.Owner
}

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationCodec)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*configurationCodec)(c))
}

type configurationCodec Configuration

func (m *configurationCodec) Reset()         { *m = configurationCodec{} }
func (m *configurationCodec) String() string { return proto.CompactTextString(m) }
func (*configurationCodec) ProtoMessage()    {}

var fundKey = []byte("main")

// NewFundBucket returns the bucket holding the matching fund record.
func NewFundBucket() orm.ModelBucket {
	return orm.NewModelBucket("mfund", &Fund{})
}
