package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
)

const maxMemoSize int = 128

// SendMsg moves coins between two wallets.
type SendMsg struct {
	Metadata    *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Source      fundpool.Address   `protobuf:"bytes,2,opt,name=source,proto3" json:"source"`
	Destination fundpool.Address   `protobuf:"bytes,3,opt,name=destination,proto3" json:"destination"`
	Amount      int64              `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
	Memo        string             `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

var _ fundpool.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Amount <= 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.ErrInput)
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error)   { return proto.Marshal((*sendMsgCodec)(m)) }
func (m *SendMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*sendMsgCodec)(m)) }

type sendMsgCodec SendMsg

func (m *sendMsgCodec) Reset()         { *m = sendMsgCodec{} }
func (m *sendMsgCodec) String() string { return proto.CompactTextString(m) }
func (*sendMsgCodec) ProtoMessage()    {}
