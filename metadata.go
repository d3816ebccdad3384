package fundpool

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/fundpool/errors"
)

// Metadata is the header of every persisted model and message. It carries
// the schema version the entity was created with.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema,omitempty"`
}

// Validate returns an error if this metadata header is not valid.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema version must be at least 1")
	}
	return nil
}

// Copy returns a copy of this object, helpful when cloning a model.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

func (m *Metadata) Marshal() ([]byte, error) {
	return proto.Marshal((*metadataCodec)(m))
}

func (m *Metadata) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*metadataCodec)(m))
}

// metadataCodec is the protobuf view of Metadata. It does not declare its own
// Marshal method so that proto.Marshal falls back to reflection.
type metadataCodec Metadata

func (m *metadataCodec) Reset()         { *m = metadataCodec{} }
func (m *metadataCodec) String() string { return proto.CompactTextString(m) }
func (*metadataCodec) ProtoMessage()    {}
