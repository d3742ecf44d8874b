package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tradeguard/settlement-service/internal/domain"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/tradeguard/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSettlementRepository executes the money-moving transitions. Each
// operation is one database transaction holding a row lock on the escrow
// entry while the gateway callback runs, so concurrent settlement paths
// (buyer confirm, auto-confirm, dispute resolution) serialize on the row
// and exactly one of them finds the entry still ESCROW_HELD.
type DefaultSettlementRepository struct {
	db *gorm.DB
}

func NewDefaultSettlementRepository(db *gorm.DB) *DefaultSettlementRepository {
	return &DefaultSettlementRepository{db: db}
}

func (r *DefaultSettlementRepository) RunCapture(ctx context.Context, op *domain.CaptureOp) error {
	var captureErr error
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orderModel models.OrderModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", op.OrderID).
			First(&orderModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return err
		}
		if orderModel.Status != domain.StatusPendingPayment {
			return &domain.InvalidStateError{
				Entity:     "order",
				ID:         op.OrderID,
				Current:    string(orderModel.Status),
				Transition: "mark_paid",
			}
		}

		// A prior definitive rejection leaves a FAILED entry behind; the
		// retried webhook replaces it instead of colliding on the key.
		var entryModel models.EscrowEntryModel
		hasEntry := true
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", op.OrderID).
			First(&entryModel).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			hasEntry = false
		}
		if hasEntry && entryModel.Status != domain.EscrowFailed {
			return &domain.AlreadySettledError{OrderID: op.OrderID, Status: entryModel.Status}
		}

		txnRef, err := op.Capture(ctx)
		if err != nil {
			// A timeout leaves the outcome unknown: roll everything back
			// so the ledger keeps its pre-call state and the webhook can
			// retry. Only a definitive rejection is recorded as FAILED.
			var timeout *domain.GatewayTimeoutError
			if errors.As(err, &timeout) {
				return err
			}
			if writeErr := r.writeCaptureEntry(tx, op, orderModel.Currency, op.GatewayTxnID, domain.EscrowFailed, hasEntry); writeErr != nil {
				return fmt.Errorf("capture failed and escrow entry not recorded: %w", writeErr)
			}
			captureErr = err
			return nil
		}

		if err := r.writeCaptureEntry(tx, op, orderModel.Currency, txnRef, domain.EscrowHeld, hasEntry); err != nil {
			return err
		}

		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND status = ?", op.OrderID, domain.StatusPendingPayment).
			Updates(map[string]interface{}{
				"status":     domain.StatusPaid,
				"paid_at":    op.Now,
				"updated_at": op.Now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrStateConflict
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}
	return captureErr
}

func (r *DefaultSettlementRepository) writeCaptureEntry(tx *gorm.DB, op *domain.CaptureOp, currency, txnRef string, status domain.EscrowStatus, replace bool) error {
	if replace {
		return tx.Model(&models.EscrowEntryModel{}).
			Where("order_id = ? AND status = ?", op.OrderID, domain.EscrowFailed).
			Updates(map[string]interface{}{
				"status":          status,
				"captured_amount": op.Amount,
				"transaction_ref": txnRef,
				"updated_at":      op.Now,
			}).Error
	}
	return tx.Create(&models.EscrowEntryModel{
		OrderID:        op.OrderID,
		Status:         status,
		CapturedAmount: op.Amount,
		Currency:       currency,
		TransactionRef: txnRef,
		CreatedAt:      op.Now,
	}).Error
}

func (r *DefaultSettlementRepository) RunSettlement(ctx context.Context, op *domain.SettlementOp) error {
	var settleErr error
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entryModel models.EscrowEntryModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", op.OrderID).
			First(&entryModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrEscrowNotFound
			}
			return err
		}
		if entryModel.Status != domain.EscrowHeld {
			return &domain.AlreadySettledError{OrderID: op.OrderID, Status: entryModel.Status}
		}

		var orderModel models.OrderModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", op.OrderID).
			First(&orderModel).Error; err != nil {
			return err
		}
		if orderModel.Status != op.FromStatus {
			return &domain.InvalidStateError{
				Entity:     "order",
				ID:         op.OrderID,
				Current:    string(orderModel.Status),
				Transition: op.Operation,
			}
		}

		outcome, err := op.Settle(ctx, mappers.ToDomainEscrowEntry(&entryModel))
		if err != nil && outcome == nil {
			// Gateway failed before any money moved: roll the whole
			// transition back, the ledger keeps its pre-call state.
			r.audit(op, domain.EscrowHeld, nil, err)
			return err
		}

		if err != nil {
			// One leg succeeded, the other failed. Commit the
			// distinguishable partial state, surface the error.
			if updErr := r.applyEscrowOutcome(tx, op, outcome); updErr != nil {
				return updErr
			}
			r.auditTx(tx, op, outcome.EscrowStatus, outcome, err)
			settleErr = err
			return nil
		}

		if err := r.applyEscrowOutcome(tx, op, outcome); err != nil {
			return err
		}

		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND status = ?", op.OrderID, op.FromStatus).
			Updates(map[string]interface{}{
				"status":       op.ToStatus,
				"confirmed_at": op.Now,
				"archived_at":  op.Now,
				"updated_at":   op.Now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrStateConflict
		}

		r.auditTx(tx, op, outcome.EscrowStatus, outcome, nil)
		return nil
	})
	if txErr != nil {
		return txErr
	}
	return settleErr
}

func (r *DefaultSettlementRepository) applyEscrowOutcome(tx *gorm.DB, op *domain.SettlementOp, outcome *domain.SettlementOutcome) error {
	result := tx.Model(&models.EscrowEntryModel{}).
		Where("order_id = ? AND status = ?", op.OrderID, domain.EscrowHeld).
		Updates(map[string]interface{}{
			"status":              outcome.EscrowStatus,
			"seller_amount":       op.SellerAmount,
			"buyer_refund_amount": op.BuyerRefundAmount,
			"payout_txn_ref":      outcome.PayoutTxnRef,
			"refund_txn_ref":      outcome.RefundTxnRef,
			"released_at":         op.Now,
			"updated_at":          op.Now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &domain.AlreadySettledError{OrderID: op.OrderID, Status: outcome.EscrowStatus}
	}
	return nil
}

func (r *DefaultSettlementRepository) auditTx(tx *gorm.DB, op *domain.SettlementOp, status domain.EscrowStatus, outcome *domain.SettlementOutcome, err error) {
	audit := models.SettlementAuditModel{
		OrderID:           op.OrderID,
		Operation:         op.Operation,
		EscrowStatus:      string(status),
		SellerAmount:      op.SellerAmount,
		BuyerRefundAmount: op.BuyerRefundAmount,
	}
	if outcome != nil {
		audit.PayoutTxnRef = outcome.PayoutTxnRef
		audit.RefundTxnRef = outcome.RefundTxnRef
	}
	if err != nil {
		audit.Error = err.Error()
	}
	tx.Create(&audit)
}

// audit writes a failure row on the base connection so it survives the
// rollback of the surrounding transaction.
func (r *DefaultSettlementRepository) audit(op *domain.SettlementOp, status domain.EscrowStatus, outcome *domain.SettlementOutcome, err error) {
	r.auditTx(r.db, op, status, outcome, err)
}
