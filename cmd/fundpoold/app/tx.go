package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/crypto"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/x/cash"
	"github.com/iov-one/fundpool/x/distribution"
	"github.com/iov-one/fundpool/x/matching"
	"github.com/iov-one/fundpool/x/pool"
	"github.com/iov-one/fundpool/x/sigs"
)

// Tx is the transaction envelope accepted by fundpoold. The message is
// carried serialized together with its path, which selects the message type
// when decoding.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	MsgPath    string               `protobuf:"bytes,2,opt,name=msg_path,json=msgPath,proto3" json:"msg_path"`
	MsgData    []byte               `protobuf:"bytes,3,opt,name=msg_data,json=msgData,proto3" json:"msg_data"`
}

// make sure tx fulfills all interfaces
var _ fundpool.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// msgTypes lists every message fundpoold knows how to decode.
var msgTypes = map[string]func() fundpool.Msg{}

func init() {
	register := func(ctors ...func() fundpool.Msg) {
		for _, ctor := range ctors {
			msgTypes[ctor().Path()] = ctor
		}
	}
	register(
		func() fundpool.Msg { return &cash.SendMsg{} },
		func() fundpool.Msg { return &matching.FundMsg{} },
		func() fundpool.Msg { return &matching.UpdateConfigurationMsg{} },
		func() fundpool.Msg { return &pool.CreatePoolMsg{} },
		func() fundpool.Msg { return &pool.VerifyPoolMsg{} },
		func() fundpool.Msg { return &pool.ContributeMsg{} },
		func() fundpool.Msg { return &pool.ClosePoolMsg{} },
		func() fundpool.Msg { return &pool.IssueReceiptMsg{} },
		func() fundpool.Msg { return &pool.SetRecurringMsg{} },
		func() fundpool.Msg { return &pool.UpdateConfigurationMsg{} },
		func() fundpool.Msg { return &distribution.CreateMsg{} },
		func() fundpool.Msg { return &distribution.ClaimMsg{} },
		func() fundpool.Msg { return &distribution.RolloverMsg{} },
	)
}

// NewTx returns an unsigned transaction carrying the given message.
func NewTx(msg fundpool.Msg) (*Tx, error) {
	if _, ok := msgTypes[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown message path %q", msg.Path())
	}
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal message")
	}
	return &Tx{MsgPath: msg.Path(), MsgData: raw}, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (fundpool.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode tx: %s", err)
	}
	return tx, nil
}

// GetMsg decodes the carried message using the type registered for its path.
func (tx *Tx) GetMsg() (fundpool.Msg, error) {
	ctor, ok := msgTypes[tx.MsgPath]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown message path %q", tx.MsgPath)
	}
	msg := ctor()
	if err := msg.Unmarshal(tx.MsgData); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode %s message: %s", tx.MsgPath, err)
	}
	return msg, nil
}

// GetSignatures returns the signatures attached to this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are never part of the
// signed content.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{MsgPath: tx.MsgPath, MsgData: tx.MsgData}
	return unsigned.Marshal()
}

// Sign appends the signature of the given key for the given chain.
func (tx *Tx) Sign(key *crypto.PrivateKey, chainID string) error {
	sig, err := sigs.SignTx(key, tx, chainID)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

func (tx *Tx) Marshal() ([]byte, error)   { return proto.Marshal((*txCodec)(tx)) }
func (tx *Tx) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*txCodec)(tx)) }

type txCodec Tx

func (m *txCodec) Reset()         { *m = txCodec{} }
func (m *txCodec) String() string { return proto.CompactTextString(m) }
func (*txCodec) ProtoMessage()    {}
