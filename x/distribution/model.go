package distribution

import (
	"fmt"
	"math"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/orm"
)

// Policy declares how the funds of a pool were allocated.
type Policy int32

const (
	EqualSplit Policy = 1
	Quadratic  Policy = 2
)

func (p Policy) String() string {
	switch p {
	case EqualSplit:
		return "equal_split"
	case Quadratic:
		return "quadratic"
	default:
		return fmt.Sprintf("policy(%d)", int32(p))
	}
}

// Entry is the share of a single winner.
type Entry struct {
	Winner  fundpool.Address `protobuf:"bytes,1,opt,name=winner,proto3" json:"winner"`
	Amount  int64            `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
	Claimed bool             `protobuf:"varint,3,opt,name=claimed,proto3" json:"claimed"`
}

// Distribution is the allocation of the funds of a single pool. Once
// created only the Claimed flags of the entries change.
type Distribution struct {
	Metadata       *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID         []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
	Policy         Policy             `protobuf:"varint,3,opt,name=policy,proto3" json:"policy"`
	Entries        []*Entry           `protobuf:"bytes,4,rep,name=entries,proto3" json:"entries"`
	TotalAllocated int64              `protobuf:"varint,5,opt,name=total_allocated,json=totalAllocated,proto3" json:"total_allocated"`
	CreatedAt      fundpool.UnixTime  `protobuf:"varint,6,opt,name=created_at,json=createdAt,proto3" json:"created_at"`
}

var _ orm.Model = (*Distribution)(nil)

func (d *Distribution) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", d.Metadata.Validate())
	if len(d.PoolID) == 0 {
		errs = errors.AppendField(errs, "PoolID", errors.ErrEmpty)
	}
	if d.Policy != EqualSplit && d.Policy != Quadratic {
		errs = errors.AppendField(errs, "Policy", errors.ErrModel)
	}
	if len(d.Entries) == 0 {
		errs = errors.AppendField(errs, "Entries", errors.ErrEmpty)
	}
	var sum int64
	for i, e := range d.Entries {
		errs = errors.AppendField(errs, fmt.Sprintf("Entries.%d.Winner", i), e.Winner.Validate())
		if e.Amount < 0 || sum > math.MaxInt64-e.Amount {
			errs = errors.AppendField(errs, fmt.Sprintf("Entries.%d.Amount", i), errors.ErrModel)
			continue
		}
		sum += e.Amount
	}
	if sum != d.TotalAllocated {
		errs = errors.Append(errs, errors.Field("TotalAllocated", errors.ErrModel, "entries sum to %d", sum))
	}
	errs = errors.AppendField(errs, "CreatedAt", d.CreatedAt.Validate())
	return errs
}

// Unclaimed returns the sum of all shares not paid yet.
func (d *Distribution) Unclaimed() int64 {
	var sum int64
	for _, e := range d.Entries {
		if !e.Claimed {
			sum += e.Amount
		}
	}
	return sum
}

func (d *Distribution) Marshal() ([]byte, error) { return proto.Marshal((*distributionCodec)(d)) }
func (d *Distribution) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*distributionCodec)(d))
}

type distributionCodec Distribution

func (m *distributionCodec) Reset()         { *m = distributionCodec{} }
func (m *distributionCodec) String() string { return proto.CompactTextString(m) }
func (*distributionCodec) ProtoMessage()    {}

// NewDistributionBucket returns a bucket for distributions, keyed by the
// pool id.
func NewDistributionBucket() orm.ModelBucket {
	return orm.NewModelBucket("distr", &Distribution{})
}

// GetDistribution returns the distribution of the pool or ErrNotFound.
func GetDistribution(db fundpool.ReadOnlyKVStore, poolID []byte) (*Distribution, error) {
	var d Distribution
	if err := NewDistributionBucket().One(db, poolID, &d); err != nil {
		return nil, errors.Wrapf(err, "distribution %X", poolID)
	}
	return &d, nil
}
