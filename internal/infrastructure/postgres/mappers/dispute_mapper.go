package mappers

import (
	"encoding/json"

	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	jurorIDs, _ := json.Marshal(dispute.JurorIDs)
	return &models.DisputeModel{
		ID:              dispute.ID,
		OrderID:         dispute.OrderID,
		InitiatorID:     dispute.InitiatorID,
		Reason:          dispute.Reason,
		Status:          dispute.Status,
		JurorIDs:        string(jurorIDs),
		LowQuorum:       dispute.LowQuorum,
		VotingDeadline:  dispute.VotingDeadline,
		BuyerRefundRate: dispute.BuyerRefundRate,
		ResolvedAt:      dispute.ResolvedAt,
		CreatedAt:       dispute.OpenedAt,
	}
}

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	var jurorIDs []string
	if model.JurorIDs != "" {
		_ = json.Unmarshal([]byte(model.JurorIDs), &jurorIDs)
	}
	return &domain.Dispute{
		ID:              model.ID,
		OrderID:         model.OrderID,
		InitiatorID:     model.InitiatorID,
		Reason:          model.Reason,
		Status:          model.Status,
		JurorIDs:        jurorIDs,
		LowQuorum:       model.LowQuorum,
		OpenedAt:        model.CreatedAt,
		VotingDeadline:  model.VotingDeadline,
		BuyerRefundRate: model.BuyerRefundRate,
		ResolvedAt:      model.ResolvedAt,
	}
}

func ToDomainVote(model *models.VoteModel) *domain.Vote {
	return &domain.Vote{
		DisputeID: model.DisputeID,
		JurorID:   model.JurorID,
		Choice:    domain.VoteChoice(model.Choice),
		Comment:   model.Comment,
		CastAt:    model.CastAt,
	}
}

func ToDomainUser(model *models.UserModel) *domain.User {
	return &domain.User{
		ID:               model.ID,
		DisplayName:      model.DisplayName,
		BusinessVerified: model.BusinessVerified,
		CompletedOrders:  model.CompletedOrders,
		OpenDisputes:     model.OpenDisputes,
	}
}
