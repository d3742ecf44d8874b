package domain

import "time"

type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "OPEN"
	DisputeVoting   DisputeStatus = "VOTING"
	DisputeResolved DisputeStatus = "RESOLVED"
)

type VoteChoice string

const (
	VoteForBuyer  VoteChoice = "BUYER"
	VoteForSeller VoteChoice = "SELLER"
)

type Dispute struct {
	ID              string
	OrderID         string
	InitiatorID     string
	Reason          string
	Status          DisputeStatus
	JurorIDs        []string
	LowQuorum       bool
	OpenedAt        time.Time
	VotingDeadline  *time.Time
	BuyerRefundRate *float64
	ResolvedAt      *time.Time
}

// IsJuror reports whether userID is part of the selected pool.
func (d *Dispute) IsJuror(userID string) bool {
	for _, id := range d.JurorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

type Vote struct {
	DisputeID string
	JurorID   string
	Choice    VoteChoice
	Comment   string
	CastAt    time.Time
}

type VoteTally struct {
	ForBuyer  int64
	ForSeller int64
}

func (t VoteTally) Total() int64 {
	return t.ForBuyer + t.ForSeller
}

type DisputeRepository interface {
	CreateDispute(dispute *Dispute) error
	GetDisputeByID(disputeID string) (*Dispute, error)
	GetDisputeByOrderID(orderID string) (*Dispute, error)
	// SetVoting stores the juror pool and deadline; conditional on OPEN.
	SetVoting(disputeID string, jurorIDs []string, lowQuorum bool, deadline time.Time) error
	// SetResolved stamps the verdict; conditional on VOTING.
	SetResolved(disputeID string, buyerRefundRate float64, at time.Time) error
	FindExpiredVotings(now time.Time) ([]*Dispute, error)
}

type VoteRepository interface {
	// CreateVote inserts the vote; the (dispute_id, juror_id) unique
	// constraint turns a duplicate attempt into ErrDuplicateVote.
	CreateVote(vote *Vote) error
	CountVotes(disputeID string) (VoteTally, error)
	GetVotes(disputeID string) ([]*Vote, error)
}
