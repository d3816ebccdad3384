package pool

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/orm"
)

// Kind declares how a pool holds and distributes the funds.
type Kind int32

const (
	// Prize pools hold contributions in a custody account and split them
	// equally between the winners, who claim their share later.
	Prize Kind = 1
	// Charity pools send contributions directly to the beneficiary and are
	// matched using quadratic funding.
	Charity Kind = 2
)

func (k Kind) String() string {
	switch k {
	case Prize:
		return "prize"
	case Charity:
		return "charity"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

// Validate returns an error if this is not a known kind.
func (k Kind) Validate() error {
	if k != Prize && k != Charity {
		return errors.Wrapf(errors.ErrInput, "unknown pool kind %d", int32(k))
	}
	return nil
}

// Status of a pool. A pool leaves the Open status only once.
type Status int32

const (
	Open        Status = 1
	Distributed Status = 2
	Closed      Status = 3
)

func (s Status) String() string {
	switch s {
	case Open:
		return "open"
	case Distributed:
		return "distributed"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// Pool collects contributions for a single distribution round.
type Pool struct {
	Metadata    *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Kind        Kind               `protobuf:"varint,2,opt,name=kind,proto3" json:"kind"`
	Name        string             `protobuf:"bytes,3,opt,name=name,proto3" json:"name"`
	Admin       fundpool.Address   `protobuf:"bytes,4,opt,name=admin,proto3" json:"admin"`
	Beneficiary fundpool.Address   `protobuf:"bytes,5,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	// Custody is the address receiving the contributions.
	Custody          fundpool.Address      `protobuf:"bytes,6,opt,name=custody,proto3" json:"custody"`
	Total            int64                 `protobuf:"varint,7,opt,name=total,proto3" json:"total"`
	MinThreshold     int64                 `protobuf:"varint,8,opt,name=min_threshold,json=minThreshold,proto3" json:"min_threshold"`
	ClaimPeriod      fundpool.UnixDuration `protobuf:"varint,9,opt,name=claim_period,json=claimPeriod,proto3" json:"claim_period"`
	Status           Status                `protobuf:"varint,10,opt,name=status,proto3" json:"status"`
	Verified         bool                  `protobuf:"varint,11,opt,name=verified,proto3" json:"verified"`
	ContributorCount uint32                `protobuf:"varint,12,opt,name=contributor_count,json=contributorCount,proto3" json:"contributor_count"`
	CreatedAt        fundpool.UnixTime     `protobuf:"varint,13,opt,name=created_at,json=createdAt,proto3" json:"created_at"`
}

var _ orm.Model = (*Pool)(nil)

func (p *Pool) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", p.Metadata.Validate())
	errs = errors.AppendField(errs, "Kind", p.Kind.Validate())
	if p.Name == "" {
		errs = errors.AppendField(errs, "Name", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Admin", p.Admin.Validate())
	if p.Kind == Charity {
		errs = errors.AppendField(errs, "Beneficiary", p.Beneficiary.Validate())
	}
	errs = errors.AppendField(errs, "Custody", p.Custody.Validate())
	if p.Total < 0 {
		errs = errors.AppendField(errs, "Total", errors.ErrModel)
	}
	if p.MinThreshold < 0 {
		errs = errors.AppendField(errs, "MinThreshold", errors.ErrModel)
	}
	errs = errors.AppendField(errs, "ClaimPeriod", p.ClaimPeriod.Validate())
	switch p.Status {
	case Open, Distributed, Closed:
	default:
		errs = errors.AppendField(errs, "Status", errors.ErrModel)
	}
	errs = errors.AppendField(errs, "CreatedAt", p.CreatedAt.Validate())
	return errs
}

func (p *Pool) Marshal() ([]byte, error)   { return proto.Marshal((*poolCodec)(p)) }
func (p *Pool) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*poolCodec)(p)) }

type poolCodec Pool

func (m *poolCodec) Reset()         { *m = poolCodec{} }
func (m *poolCodec) String() string { return proto.CompactTextString(m) }
func (*poolCodec) ProtoMessage()    {}

// Contribution is a single, immutable payment into a pool.
type Contribution struct {
	Metadata    *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID      []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
	Contributor fundpool.Address   `protobuf:"bytes,3,opt,name=contributor,proto3" json:"contributor"`
	Amount      int64              `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
	CreatedAt   fundpool.UnixTime  `protobuf:"varint,5,opt,name=created_at,json=createdAt,proto3" json:"created_at"`
}

var _ orm.Model = (*Contribution)(nil)

func (c *Contribution) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "PoolID", validateID(c.PoolID))
	errs = errors.AppendField(errs, "Contributor", c.Contributor.Validate())
	if c.Amount <= 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrModel)
	}
	errs = errors.AppendField(errs, "CreatedAt", c.CreatedAt.Validate())
	return errs
}

func (c *Contribution) Marshal() ([]byte, error) { return proto.Marshal((*contributionCodec)(c)) }
func (c *Contribution) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*contributionCodec)(c))
}

type contributionCodec Contribution

func (m *contributionCodec) Reset()         { *m = contributionCodec{} }
func (m *contributionCodec) String() string { return proto.CompactTextString(m) }
func (*contributionCodec) ProtoMessage()    {}

// DonorAggregate is the cumulative amount contributed by a single
// contributor to a single pool.
type DonorAggregate struct {
	Metadata    *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID      []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
	Contributor fundpool.Address   `protobuf:"bytes,3,opt,name=contributor,proto3" json:"contributor"`
	Amount      int64              `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
}

var _ orm.Model = (*DonorAggregate)(nil)

func (d *DonorAggregate) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", d.Metadata.Validate())
	errs = errors.AppendField(errs, "PoolID", validateID(d.PoolID))
	errs = errors.AppendField(errs, "Contributor", d.Contributor.Validate())
	if d.Amount <= 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrModel)
	}
	return errs
}

func (d *DonorAggregate) Marshal() ([]byte, error) { return proto.Marshal((*donorAggregateCodec)(d)) }
func (d *DonorAggregate) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*donorAggregateCodec)(d))
}

type donorAggregateCodec DonorAggregate

func (m *donorAggregateCodec) Reset()         { *m = donorAggregateCodec{} }
func (m *donorAggregateCodec) String() string { return proto.CompactTextString(m) }
func (*donorAggregateCodec) ProtoMessage()    {}

// ContributorList holds distinct contributors of a pool in the order of
// their first contribution.
type ContributorList struct {
	Metadata     *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Contributors []fundpool.Address `protobuf:"bytes,2,rep,name=contributors,proto3" json:"contributors"`
}

var _ orm.Model = (*ContributorList)(nil)

func (l *ContributorList) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", l.Metadata.Validate())
	for i, c := range l.Contributors {
		errs = errors.AppendField(errs, fmt.Sprintf("Contributors.%d", i), c.Validate())
	}
	return errs
}

func (l *ContributorList) Marshal() ([]byte, error) { return proto.Marshal((*contributorListCodec)(l)) }
func (l *ContributorList) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*contributorListCodec)(l))
}

type contributorListCodec ContributorList

func (m *contributorListCodec) Reset()         { *m = contributorListCodec{} }
func (m *contributorListCodec) String() string { return proto.CompactTextString(m) }
func (*contributorListCodec) ProtoMessage()    {}

// Stats are the global counters of the ledger.
type Stats struct {
	Metadata         *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	NumPools         uint64             `protobuf:"varint,2,opt,name=num_pools,json=numPools,proto3" json:"num_pools"`
	TotalContributed int64              `protobuf:"varint,3,opt,name=total_contributed,json=totalContributed,proto3" json:"total_contributed"`
	// NumContributors counts distinct contributor and pool pairs.
	NumContributors  uint64 `protobuf:"varint,4,opt,name=num_contributors,json=numContributors,proto3" json:"num_contributors"`
	TotalDistributed int64  `protobuf:"varint,5,opt,name=total_distributed,json=totalDistributed,proto3" json:"total_distributed"`
	TotalMatched     int64  `protobuf:"varint,6,opt,name=total_matched,json=totalMatched,proto3" json:"total_matched"`
	TotalRolledOver  int64  `protobuf:"varint,7,opt,name=total_rolled_over,json=totalRolledOver,proto3" json:"total_rolled_over"`
}

var _ orm.Model = (*Stats)(nil)

func (s *Stats) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	if s.TotalContributed < 0 {
		errs = errors.AppendField(errs, "TotalContributed", errors.ErrModel)
	}
	if s.TotalDistributed < 0 {
		errs = errors.AppendField(errs, "TotalDistributed", errors.ErrModel)
	}
	if s.TotalMatched < 0 {
		errs = errors.AppendField(errs, "TotalMatched", errors.ErrModel)
	}
	if s.TotalRolledOver < 0 {
		errs = errors.AppendField(errs, "TotalRolledOver", errors.ErrModel)
	}
	return errs
}

func (s *Stats) Marshal() ([]byte, error)   { return proto.Marshal((*statsCodec)(s)) }
func (s *Stats) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*statsCodec)(s)) }

type statsCodec Stats

func (m *statsCodec) Reset()         { *m = statsCodec{} }
func (m *statsCodec) String() string { return proto.CompactTextString(m) }
func (*statsCodec) ProtoMessage()    {}

// Receipt is a snapshot of the total a donor contributed to a pool.
type Receipt struct {
	Metadata     *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID       []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
	Donor        fundpool.Address   `protobuf:"bytes,3,opt,name=donor,proto3" json:"donor"`
	TotalDonated int64              `protobuf:"varint,4,opt,name=total_donated,json=totalDonated,proto3" json:"total_donated"`
	IssuedAt     fundpool.UnixTime  `protobuf:"varint,5,opt,name=issued_at,json=issuedAt,proto3" json:"issued_at"`
}

var _ orm.Model = (*Receipt)(nil)

func (r *Receipt) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", r.Metadata.Validate())
	errs = errors.AppendField(errs, "PoolID", validateID(r.PoolID))
	errs = errors.AppendField(errs, "Donor", r.Donor.Validate())
	if r.TotalDonated <= 0 {
		errs = errors.AppendField(errs, "TotalDonated", errors.ErrModel)
	}
	errs = errors.AppendField(errs, "IssuedAt", r.IssuedAt.Validate())
	return errs
}

func (r *Receipt) Marshal() ([]byte, error)   { return proto.Marshal((*receiptCodec)(r)) }
func (r *Receipt) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*receiptCodec)(r)) }

type receiptCodec Receipt

func (m *receiptCodec) Reset()         { *m = receiptCodec{} }
func (m *receiptCodec) String() string { return proto.CompactTextString(m) }
func (*receiptCodec) ProtoMessage()    {}

// RecurringPledge is the amount a donor intends to give to a pool
// periodically. Pledges are recorded only; nothing executes them.
type RecurringPledge struct {
	Metadata  *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	PoolID    []byte             `protobuf:"bytes,2,opt,name=pool_id,json=poolId,proto3" json:"pool_id"`
	Donor     fundpool.Address   `protobuf:"bytes,3,opt,name=donor,proto3" json:"donor"`
	Amount    int64              `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
	CreatedAt fundpool.UnixTime  `protobuf:"varint,5,opt,name=created_at,json=createdAt,proto3" json:"created_at"`
}

var _ orm.Model = (*RecurringPledge)(nil)

func (r *RecurringPledge) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", r.Metadata.Validate())
	errs = errors.AppendField(errs, "PoolID", validateID(r.PoolID))
	errs = errors.AppendField(errs, "Donor", r.Donor.Validate())
	if r.Amount <= 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrModel)
	}
	errs = errors.AppendField(errs, "CreatedAt", r.CreatedAt.Validate())
	return errs
}

func (r *RecurringPledge) Marshal() ([]byte, error) {
	return proto.Marshal((*recurringPledgeCodec)(r))
}

func (r *RecurringPledge) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*recurringPledgeCodec)(r))
}

type recurringPledgeCodec RecurringPledge

func (m *recurringPledgeCodec) Reset()         { *m = recurringPledgeCodec{} }
func (m *recurringPledgeCodec) String() string { return proto.CompactTextString(m) }
func (*recurringPledgeCodec) ProtoMessage()    {}

// Configuration of the pool extension.
type Configuration struct {
	Metadata *fundpool.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owner creates pools, verifies charity pools and may roll over the
	// unclaimed funds of any pool.
	Owner fundpool.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner"`
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
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

// validateID returns an error if given value is not a sequence identifier.
func validateID(id []byte) error {
	switch n := len(id); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "id")
	case n != 8:
		return errors.Wrapf(errors.ErrInput, "id must be 8 bytes, got %d", n)
	}
	return nil
}

// CustodyAccount returns the address holding the funds of a prize pool.
func CustodyAccount(poolID []byte) fundpool.Address {
	return fundpool.NewCondition("pool", "seq", poolID).Address()
}

var (
	poolSeq    = orm.NewSequence("pool", "id")
	contribSeq = orm.NewSequence("contrib", "id")
	receiptSeq = orm.NewSequence("receipt", "id")

	pools        = orm.NewModelBucket("pool", &Pool{}, orm.WithIDSequence(poolSeq))
	contribs     = orm.NewModelBucket("contrib", &Contribution{})
	donors       = orm.NewModelBucket("donor", &DonorAggregate{})
	contributors = orm.NewModelBucket("donors", &ContributorList{})
	stats        = orm.NewModelBucket("stats", &Stats{})
	receipts     = orm.NewModelBucket("receipt", &Receipt{}, orm.WithIDSequence(receiptSeq))
	pledges      = orm.NewModelBucket("pledge", &RecurringPledge{})

	statsKey = []byte("global")
)
