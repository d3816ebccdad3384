package leaderboard

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/orm"
)

// MaxEntries is the size limit of the leaderboard.
const MaxEntries = 10

// Entry is the cumulative amount contributed by a principal across all pools.
type Entry struct {
	Contributor fundpool.Address `protobuf:"bytes,1,opt,name=contributor,proto3" json:"contributor"`
	Amount      int64            `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

// Board is the single leaderboard record.
type Board struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Entries  []*Entry           `protobuf:"bytes,2,rep,name=entries,proto3" json:"entries"`
}

var _ orm.Model = (*Board)(nil)

func (b *Board) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", b.Metadata.Validate())
	if len(b.Entries) > MaxEntries {
		errs = errors.AppendField(errs, "Entries", errors.Wrapf(errors.ErrModel, "more than %d entries", MaxEntries))
	}
	for i, e := range b.Entries {
		if err := e.Contributor.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Entries", err, "entry %d contributor", i))
		}
		if e.Amount <= 0 {
			errs = errors.Append(errs, errors.Field("Entries", errors.ErrModel, "entry %d amount must be positive", i))
		}
		if i > 0 && b.Entries[i-1].Amount < e.Amount {
			errs = errors.Append(errs, errors.Field("Entries", errors.ErrModel, "entry %d out of order", i))
		}
	}
	return errs
}

func (b *Board) Marshal() ([]byte, error)   { return proto.Marshal((*boardCodec)(b)) }
func (b *Board) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*boardCodec)(b)) }

type boardCodec Board

func (m *boardCodec) Reset()         { *m = boardCodec{} }
func (m *boardCodec) String() string { return proto.CompactTextString(m) }
func (*boardCodec) ProtoMessage()    {}

var (
	bucket   = orm.NewModelBucket("board", &Board{})
	boardKey = []byte("top")
)
