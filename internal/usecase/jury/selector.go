package jury

import (
	"github.com/tradeguard/settlement-service/internal/domain"
)

// Selector draws the juror pool for a dispute. Eligibility: at least one
// completed transaction, no open disputes of their own, not an excluded
// party, not already serving on this dispute.
type Selector struct {
	users    domain.UserRepository
	disputes domain.DisputeRepository
	votes    domain.VoteRepository
}

func NewSelector(users domain.UserRepository, disputes domain.DisputeRepository, votes domain.VoteRepository) *Selector {
	return &Selector{users: users, disputes: disputes, votes: votes}
}

// SelectJury is idempotent per dispute: before any vote is cast a repeat
// call returns the stored pool; once voting has produced votes the
// selection is locked. A pool smaller than quorum does not block voting,
// it only flags the dispute lowQuorum for the resolution tie-break.
func (s *Selector) SelectJury(disputeID string, excludeUserIDs []string, quorum int) ([]string, bool, error) {
	dispute, err := s.disputes.GetDisputeByID(disputeID)
	if err != nil {
		return nil, false, err
	}

	if len(dispute.JurorIDs) > 0 {
		tally, err := s.votes.CountVotes(disputeID)
		if err != nil {
			return nil, false, err
		}
		if tally.Total() > 0 {
			return nil, false, domain.ErrSelectionLocked
		}
		return dispute.JurorIDs, dispute.LowQuorum, nil
	}

	if dispute.Status != domain.DisputeOpen {
		return nil, false, domain.ErrSelectionLocked
	}

	candidates, err := s.users.FindEligibleJurors(excludeUserIDs, quorum)
	if err != nil {
		return nil, false, err
	}
	jurorIDs := make([]string, len(candidates))
	for i, candidate := range candidates {
		jurorIDs[i] = candidate.ID
	}
	lowQuorum := len(jurorIDs) < quorum

	return jurorIDs, lowQuorum, nil
}
