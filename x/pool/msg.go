package pool

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
)

const maxNameLength = 128

// CreatePoolMsg opens a new pool. Only the configuration owner can create
// pools.
type CreatePoolMsg struct {
	Metadata     *fundpool.Metadata    `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Kind         Kind                  `protobuf:"varint,2,opt,name=kind,proto3" json:"kind"`
	Name         string                `protobuf:"bytes,3,opt,name=name,proto3" json:"name"`
	Admin        fundpool.Address      `protobuf:"bytes,4,opt,name=admin,proto3" json:"admin"`
	Beneficiary  fundpool.Address      `protobuf:"bytes,5,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	MinThreshold int64                 `protobuf:"varint,6,opt,name=min_threshold,json=minThreshold,proto3" json:"min_threshold"`
	ClaimPeriod  fundpool.UnixDuration `protobuf:"varint,7,opt,name=claim_period,json=claimPeriod,proto3" json:"claim_period"`
}

var _ fundpool.Msg = (*CreatePoolMsg)(nil)

func (CreatePoolMsg) Path() string {
	return "pool/create"
}

func (m *CreatePoolMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Kind", m.Kind.Validate())
	switch n := len(m.Name); {
	case n == 0:
		errs = errors.AppendField(errs, "Name", errors.ErrEmpty)
	case n > maxNameLength:
		errs = errors.AppendField(errs, "Name", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "Admin", m.Admin.Validate())
	switch m.Kind {
	case Charity:
		errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	case Prize:
		if len(m.Beneficiary) != 0 {
			errs = errors.Append(errs, errors.Field("Beneficiary", errors.ErrInput, "prize pool has no beneficiary"))
		}
	}
	if m.MinThreshold < 0 {
		errs = errors.AppendField(errs, "MinThreshold", errors.ErrAmount)
	}
	errs = errors.AppendField(errs, "ClaimPeriod", m.ClaimPeriod.Validate())
	return errs
}

func (m *CreatePoolMsg) Marshal() ([]byte, error) { return proto.Marshal((*createPoolMsgCodec)(m)) }
func (m *CreatePoolMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*createPoolMsgCodec)(m))
}

type createPoolMsgCodec CreatePoolMsg

func (m *createPoolMsgCodec) Reset()         { *m = createPoolMsgCodec{} }
func (m *createPoolMsgCodec) String() string { return proto.CompactTextString(m) }
func (*createPoolMsgCodec) ProtoMessage()    {}

// VerifyPoolMsg marks a charity pool as verified, allowing it to accept
// contributions.
type VerifyPoolMsg struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID   []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
}

var _ fundpool.Msg = (*VerifyPoolMsg)(nil)

func (VerifyPoolMsg) Path() string {
	return "pool/verify"
}

func (m *VerifyPoolMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "PoolID", validateID(m.PoolID))
	return errs
}

func (m *VerifyPoolMsg) Marshal() ([]byte, error) { return proto.Marshal((*verifyPoolMsgCodec)(m)) }
func (m *VerifyPoolMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*verifyPoolMsgCodec)(m))
}

type verifyPoolMsgCodec VerifyPoolMsg

func (m *verifyPoolMsgCodec) Reset()         { *m = verifyPoolMsgCodec{} }
func (m *verifyPoolMsgCodec) String() string { return proto.CompactTextString(m) }
func (*verifyPoolMsgCodec) ProtoMessage()    {}

// ContributeMsg moves coins of the contributor into the pool.
type ContributeMsg struct {
	Metadata    *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID      []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
	Contributor fundpool.Address   `protobuf:"bytes,3,opt,name=contributor,proto3" json:"contributor"`
	Amount      int64              `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
}

var _ fundpool.Msg = (*ContributeMsg)(nil)

func (ContributeMsg) Path() string {
	return "pool/contribute"
}

func (m *ContributeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "PoolID", validateID(m.PoolID))
	errs = errors.AppendField(errs, "Contributor", m.Contributor.Validate())
	if m.Amount <= 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be greater than zero"))
	}
	return errs
}

func (m *ContributeMsg) Marshal() ([]byte, error) { return proto.Marshal((*contributeMsgCodec)(m)) }
func (m *ContributeMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*contributeMsgCodec)(m))
}

type contributeMsgCodec ContributeMsg

func (m *contributeMsgCodec) Reset()         { *m = contributeMsgCodec{} }
func (m *contributeMsgCodec) String() string { return proto.CompactTextString(m) }
func (*contributeMsgCodec) ProtoMessage()    {}

// ClosePoolMsg moves an open pool into the terminal closed state.
type ClosePoolMsg struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID   []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
}

var _ fundpool.Msg = (*ClosePoolMsg)(nil)

func (ClosePoolMsg) Path() string {
	return "pool/close"
}

func (m *ClosePoolMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "PoolID", validateID(m.PoolID))
	return errs
}

func (m *ClosePoolMsg) Marshal() ([]byte, error) { return proto.Marshal((*closePoolMsgCodec)(m)) }
func (m *ClosePoolMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*closePoolMsgCodec)(m))
}

type closePoolMsgCodec ClosePoolMsg

func (m *closePoolMsgCodec) Reset()         { *m = closePoolMsgCodec{} }
func (m *closePoolMsgCodec) String() string { return proto.CompactTextString(m) }
func (*closePoolMsgCodec) ProtoMessage()    {}

// IssueReceiptMsg records a receipt of the total amount a donor gave to
// a pool.
type IssueReceiptMsg struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID   []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
	Donor    fundpool.Address   `protobuf:"bytes,3,opt,name=donor,proto3" json:"donor"`
}

var _ fundpool.Msg = (*IssueReceiptMsg)(nil)

func (IssueReceiptMsg) Path() string {
	return "pool/issue_receipt"
}

func (m *IssueReceiptMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "PoolID", validateID(m.PoolID))
	errs = errors.AppendField(errs, "Donor", m.Donor.Validate())
	return errs
}

func (m *IssueReceiptMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*issueReceiptMsgCodec)(m))
}

func (m *IssueReceiptMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*issueReceiptMsgCodec)(m))
}

type issueReceiptMsgCodec IssueReceiptMsg

func (m *issueReceiptMsgCodec) Reset()         { *m = issueReceiptMsgCodec{} }
func (m *issueReceiptMsgCodec) String() string { return proto.CompactTextString(m) }
func (*issueReceiptMsgCodec) ProtoMessage()    {}

// SetRecurringMsg stores or removes a recurring pledge of a donor.
type SetRecurringMsg struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID   []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
	Donor    fundpool.Address   `protobuf:"bytes,3,opt,name=donor,proto3" json:"donor"`
	Amount   int64              `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
	Enabled  bool               `protobuf:"varint,5,opt,name=enabled,proto3" json:"enabled"`
}

var _ fundpool.Msg = (*SetRecurringMsg)(nil)

func (SetRecurringMsg) Path() string {
	return "pool/set_recurring"
}

func (m *SetRecurringMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "PoolID", validateID(m.PoolID))
	errs = errors.AppendField(errs, "Donor", m.Donor.Validate())
	if m.Enabled && m.Amount <= 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	if !m.Enabled && m.Amount != 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrInput, "must be zero when disabling"))
	}
	return errs
}

func (m *SetRecurringMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*setRecurringMsgCodec)(m))
}

func (m *SetRecurringMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*setRecurringMsgCodec)(m))
}

type setRecurringMsgCodec SetRecurringMsg

func (m *setRecurringMsgCodec) Reset()         { *m = setRecurringMsgCodec{} }
func (m *setRecurringMsgCodec) String() string { return proto.CompactTextString(m) }
func (*setRecurringMsgCodec) ProtoMessage()    {}

// UpdateConfigurationMsg patches the pool configuration.
type UpdateConfigurationMsg struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Patch    *Configuration     `protobuf:"bytes,2,opt,name=patch,proto3" json:"patch,omitempty"`
}

var _ fundpool.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "pool/update_configuration"
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
