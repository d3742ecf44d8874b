package repository

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

func (r *DefaultDisputeRepository) CreateDispute(dispute *domain.Dispute) error {
	disputeModel := mappers.ToGORMDispute(dispute)
	if err := r.db.Create(disputeModel).Error; err != nil {
		return err
	}
	dispute.ID = disputeModel.ID
	return nil
}

func (r *DefaultDisputeRepository) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	if err := r.db.Model(&models.DisputeModel{}).Where("id = ?", disputeID).First(&disputeModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, err
	}

	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) GetDisputeByOrderID(orderID string) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	if err := r.db.Model(&models.DisputeModel{}).Where("order_id = ?", orderID).First(&disputeModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, err
	}

	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) SetVoting(disputeID string, jurorIDs []string, lowQuorum bool, deadline time.Time) error {
	encoded, err := json.Marshal(jurorIDs)
	if err != nil {
		return err
	}
	result := r.db.Model(&models.DisputeModel{}).
		Where("id = ? AND status = ?", disputeID, domain.DisputeOpen).
		Updates(map[string]interface{}{
			"status":          domain.DisputeVoting,
			"juror_ids":       string(encoded),
			"low_quorum":      lowQuorum,
			"voting_deadline": deadline,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStateConflict
	}
	return nil
}

func (r *DefaultDisputeRepository) SetResolved(disputeID string, buyerRefundRate float64, at time.Time) error {
	result := r.db.Model(&models.DisputeModel{}).
		Where("id = ? AND status = ?", disputeID, domain.DisputeVoting).
		Updates(map[string]interface{}{
			"status":            domain.DisputeResolved,
			"buyer_refund_rate": buyerRefundRate,
			"resolved_at":       at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStateConflict
	}
	return nil
}

func (r *DefaultDisputeRepository) FindExpiredVotings(now time.Time) ([]*domain.Dispute, error) {
	var disputeModels []models.DisputeModel
	if err := r.db.Model(&models.DisputeModel{}).
		Where("status = ?", string(domain.DisputeVoting)).
		Where("voting_deadline <= ?", now).
		Find(&disputeModels).Error; err != nil {
		return nil, err
	}
	disputes := make([]*domain.Dispute, len(disputeModels))
	for i, disputeModel := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModel)
	}

	return disputes, nil
}

type DefaultVoteRepository struct {
	db *gorm.DB
}

func NewDefaultVoteRepository(db *gorm.DB) *DefaultVoteRepository {
	return &DefaultVoteRepository{db: db}
}

func (r *DefaultVoteRepository) CreateVote(vote *domain.Vote) error {
	voteModel := models.VoteModel{
		DisputeID: vote.DisputeID,
		JurorID:   vote.JurorID,
		Choice:    string(vote.Choice),
		Comment:   vote.Comment,
		CastAt:    vote.CastAt,
	}
	if err := r.db.Create(&voteModel).Error; err != nil {
		// Unique (dispute_id, juror_id) violation: a duplicate attempt
		// is an error, not an upsert, to preserve auditability.
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "idx_dispute_juror") {
			return domain.ErrDuplicateVote
		}
		return err
	}
	return nil
}

func (r *DefaultVoteRepository) CountVotes(disputeID string) (domain.VoteTally, error) {
	var tally domain.VoteTally
	if err := r.db.Model(&models.VoteModel{}).
		Where("dispute_id = ? AND choice = ?", disputeID, string(domain.VoteForBuyer)).
		Count(&tally.ForBuyer).Error; err != nil {
		return tally, err
	}
	if err := r.db.Model(&models.VoteModel{}).
		Where("dispute_id = ? AND choice = ?", disputeID, string(domain.VoteForSeller)).
		Count(&tally.ForSeller).Error; err != nil {
		return tally, err
	}
	return tally, nil
}

func (r *DefaultVoteRepository) GetVotes(disputeID string) ([]*domain.Vote, error) {
	var voteModels []models.VoteModel
	if err := r.db.Model(&models.VoteModel{}).
		Where("dispute_id = ?", disputeID).
		Order("cast_at ASC").
		Find(&voteModels).Error; err != nil {
		return nil, err
	}
	votes := make([]*domain.Vote, len(voteModels))
	for i, voteModel := range voteModels {
		votes[i] = mappers.ToDomainVote(&voteModel)
	}
	return votes, nil
}
