package mappers

import (
	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMEscrowEntry(entry *domain.EscrowEntry) *models.EscrowEntryModel {
	return &models.EscrowEntryModel{
		OrderID:           entry.OrderID,
		Status:            entry.Status,
		CapturedAmount:    entry.CapturedAmount,
		Currency:          entry.Currency,
		TransactionRef:    entry.TransactionRef,
		PayoutTxnRef:      entry.PayoutTxnRef,
		RefundTxnRef:      entry.RefundTxnRef,
		SellerAmount:      entry.SellerAmount,
		BuyerRefundAmount: entry.BuyerRefundAmount,
		CreatedAt:         entry.CreatedAt,
		ReleasedAt:        entry.ReleasedAt,
	}
}

func ToDomainEscrowEntry(model *models.EscrowEntryModel) *domain.EscrowEntry {
	return &domain.EscrowEntry{
		OrderID:           model.OrderID,
		Status:            model.Status,
		CapturedAmount:    model.CapturedAmount,
		Currency:          model.Currency,
		TransactionRef:    model.TransactionRef,
		PayoutTxnRef:      model.PayoutTxnRef,
		RefundTxnRef:      model.RefundTxnRef,
		SellerAmount:      model.SellerAmount,
		BuyerRefundAmount: model.BuyerRefundAmount,
		CreatedAt:         model.CreatedAt,
		ReleasedAt:        model.ReleasedAt,
	}
}
