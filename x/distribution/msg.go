package distribution

import (
	"bytes"
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
)

// CreateMsg allocates the funds of a pool between the winners.
type CreateMsg struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID   []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
	// Winners may contain the same address more than once, each occurrence
	// receives a separate share.
	Winners []fundpool.Address `protobuf:"bytes,3,rep,name=winners,proto3" json:"winners"`
}

var _ fundpool.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return "distribution/create"
}

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "PoolID", validateID(m.PoolID))
	if len(m.Winners) == 0 {
		errs = errors.Append(errs, errors.Field("Winners", errors.ErrEmpty, "at least one winner required"))
	}
	for i, w := range m.Winners {
		errs = errors.AppendField(errs, fmt.Sprintf("Winners.%d", i), w.Validate())
	}
	return errs
}

func (m *CreateMsg) Marshal() ([]byte, error)   { return proto.Marshal((*createMsgCodec)(m)) }
func (m *CreateMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*createMsgCodec)(m)) }

type createMsgCodec CreateMsg

func (m *createMsgCodec) Reset()         { *m = createMsgCodec{} }
func (m *createMsgCodec) String() string { return proto.CompactTextString(m) }
func (*createMsgCodec) ProtoMessage()    {}

// ClaimMsg pays the share of a winner.
type ClaimMsg struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID   []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
	Winner   fundpool.Address   `protobuf:"bytes,3,opt,name=winner,proto3" json:"winner"`
}

var _ fundpool.Msg = (*ClaimMsg)(nil)

func (ClaimMsg) Path() string {
	return "distribution/claim"
}

func (m *ClaimMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "PoolID", validateID(m.PoolID))
	errs = errors.AppendField(errs, "Winner", m.Winner.Validate())
	return errs
}

func (m *ClaimMsg) Marshal() ([]byte, error)   { return proto.Marshal((*claimMsgCodec)(m)) }
func (m *ClaimMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*claimMsgCodec)(m)) }

type claimMsgCodec ClaimMsg

func (m *claimMsgCodec) Reset()         { *m = claimMsgCodec{} }
func (m *claimMsgCodec) String() string { return proto.CompactTextString(m) }
func (*claimMsgCodec) ProtoMessage()    {}

// RolloverMsg moves the unclaimed shares of a distribution into another
// pool.
type RolloverMsg struct {
	Metadata     *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID       []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
	TargetPoolID []byte             `protobuf:"bytes,3,opt,name=target_pool_id,json=targetPoolId,proto3" json:"target_pool_id"`
}

var _ fundpool.Msg = (*RolloverMsg)(nil)

func (RolloverMsg) Path() string {
	return "distribution/rollover"
}

func (m *RolloverMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "PoolID", validateID(m.PoolID))
	errs = errors.AppendField(errs, "TargetPoolID", validateID(m.TargetPoolID))
	if bytes.Equal(m.PoolID, m.TargetPoolID) {
		errs = errors.Append(errs, errors.Field("TargetPoolID", errors.ErrInput, "must differ from the source pool"))
	}
	return errs
}

func (m *RolloverMsg) Marshal() ([]byte, error) { return proto.Marshal((*rolloverMsgCodec)(m)) }
func (m *RolloverMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*rolloverMsgCodec)(m))
}

type rolloverMsgCodec RolloverMsg

func (m *rolloverMsgCodec) Reset()         { *m = rolloverMsgCodec{} }
func (m *rolloverMsgCodec) String() string { return proto.CompactTextString(m) }
func (*rolloverMsgCodec) ProtoMessage()    {}

func validateID(id []byte) error {
	switch n := len(id); {
	case n == 0:
		return errors.ErrEmpty
	case n != 8:
		return errors.Wrapf(errors.ErrInput, "id must be 8 bytes, got %d", n)
	}
	return nil
}
