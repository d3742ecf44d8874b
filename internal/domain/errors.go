package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidAmount     = errors.New("order amount must be positive")
	ErrDisputeNotFound   = errors.New("dispute not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrEscrowNotFound    = errors.New("escrow entry not found")
	ErrStateConflict     = errors.New("state changed concurrently")
	ErrNotBuyer          = errors.New("caller is not the buyer of the order")
	ErrNotSeller         = errors.New("caller is not the seller of the order")
	ErrNotParty          = errors.New("caller is not a party of the order")
	ErrNotJuror          = errors.New("caller is not a juror of the dispute")
	ErrPartyCannotVote   = errors.New("order parties cannot vote on their own dispute")
	ErrDuplicateVote     = errors.New("juror has already voted")
	ErrInvalidVoteChoice = errors.New("vote choice must be BUYER or SELLER")
	ErrVotingNotStarted  = errors.New("voting has not started")
	ErrVotingClosed      = errors.New("voting deadline has passed")
	ErrVotingNotExpired  = errors.New("voting deadline has not passed")
	ErrSelectionLocked   = errors.New("jury selection is locked once voting has started")
)

// InvalidStateError rejects a transition attempted from the wrong source
// state. It carries the canonical current state so the caller can
// resynchronize instead of retrying blindly.
type InvalidStateError struct {
	Entity     string
	ID         string
	Current    string
	Transition string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s: illegal transition %q from state %s", e.Entity, e.ID, e.Transition, e.Current)
}

type AmountMismatchError struct {
	OrderID  string
	Expected float64
	Got      float64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("order %s: gateway amount %.2f disagrees with order total %.2f", e.OrderID, e.Got, e.Expected)
}

// AlreadySettledError is the benign idempotency signal: a second release
// attempt against a settled entry. Logged, never alarmed.
type AlreadySettledError struct {
	OrderID string
	Status  EscrowStatus
}

func (e *AlreadySettledError) Error() string {
	return fmt.Sprintf("order %s: escrow already settled (status %s)", e.OrderID, e.Status)
}

type AlreadyDisputedError struct {
	OrderID   string
	DisputeID string
}

func (e *AlreadyDisputedError) Error() string {
	return fmt.Sprintf("order %s: dispute %s already exists", e.OrderID, e.DisputeID)
}

type GatewayFailureError struct {
	Op     string
	Reason string
}

func (e *GatewayFailureError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %s", e.Op, e.Reason)
}

type GatewayTimeoutError struct {
	Op string
}

func (e *GatewayTimeoutError) Error() string {
	return fmt.Sprintf("payment gateway %s timed out", e.Op)
}

// PartialReleaseError means exactly one leg of a split settlement
// succeeded. Always escalated for manual reconciliation, never retried
// by the scheduler.
type PartialReleaseError struct {
	OrderID      string
	SucceededLeg string
	FailedLeg    string
	Cause        error
}

func (e *PartialReleaseError) Error() string {
	return fmt.Sprintf("order %s: partial release, %s leg succeeded but %s leg failed: %v",
		e.OrderID, e.SucceededLeg, e.FailedLeg, e.Cause)
}

func (e *PartialReleaseError) Unwrap() error { return e.Cause }
