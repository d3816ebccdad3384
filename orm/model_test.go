package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/fundpool/errors"
)

// counter is a minimal model used to test buckets.
type counter struct {
	Count int64 `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func (c *counter) Marshal() ([]byte, error)   { return proto.Marshal((*counterCodec)(c)) }
func (c *counter) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*counterCodec)(c)) }

type counterCodec counter

func (m *counterCodec) Reset()         { *m = counterCodec{} }
func (m *counterCodec) String() string { return proto.CompactTextString(m) }
func (*counterCodec) ProtoMessage()    {}

// other is a model of a different type, used to test type checks.
type other struct {
	counter
}
