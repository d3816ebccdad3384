package matching

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
)

// FundMsg deposits coins of the funder into the matching fund.
type FundMsg struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Funder   fundpool.Address   `protobuf:"bytes,2,opt,name=funder,proto3" json:"funder"`
	Amount   int64              `protobuf:"varint,3,opt,name=amount,proto3" json:"amount"`
}

var _ fundpool.Msg = (*FundMsg)(nil)

func (FundMsg) Path() string {
	return "matching/fund"
}

func (m *FundMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Funder", m.Funder.Validate())
	if m.Amount <= 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

func (m *FundMsg) Marshal() ([]byte, error)   { return proto.Marshal((*fundMsgCodec)(m)) }
func (m *FundMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*fundMsgCodec)(m)) }

type fundMsgCodec FundMsg

func (m *fundMsgCodec) Reset()         { *m = fundMsgCodec{} }
func (m *fundMsgCodec) String() string { return proto.CompactTextString(m) }
func (*fundMsgCodec) ProtoMessage()    {}

// UpdateConfigurationMsg patches the matching configuration. Zero fields of
// the patch are ignored.
type UpdateConfigurationMsg struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Patch    *Configuration     `protobuf:"bytes,2,opt,name=patch,proto3" json:"patch,omitempty"`
}

var _ fundpool.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "matching/update_configuration"
}

func (m *UpdateConfigurationMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Patch == nil {
		return errors.AppendField(errs, "Patch", errors.ErrEmpty)
	}
	if len(m.Patch.Owner) != 0 {
		errs = errors.AppendField(errs, "Patch.Owner", m.Patch.Owner.Validate())
	}
	if m.Patch.MaxPayout < 0 {
		errs = errors.AppendField(errs, "Patch.MaxPayout", errors.ErrAmount)
	}
	return errs
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*updateConfigurationMsgCodec)(m))
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*updateConfigurationMsgCodec)(m))
}

type updateConfigurationMsgCodec UpdateConfigurationMsg

func (m *updateConfigurationMsgCodec) Reset()         { *m = updateConfigurationMsgCodec{} }
func (m *updateConfigurationMsgCodec) String() string { return proto.CompactTextString(m) }
func (*updateConfigurationMsgCodec) ProtoMessage()    {}
