package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tradeguard/settlement-service/internal/domain"
)

// writeError maps domain errors onto HTTP statuses. Rejected transitions
// report the canonical current state so callers can resynchronize.
func writeError(c *gin.Context, err error) {
	var invalidState *domain.InvalidStateError
	var amountMismatch *domain.AmountMismatchError
	var alreadySettled *domain.AlreadySettledError
	var alreadyDisputed *domain.AlreadyDisputedError
	var gatewayTimeout *domain.GatewayTimeoutError
	var gatewayFailure *domain.GatewayFailureError
	var partialRelease *domain.PartialReleaseError

	switch {
	case errors.As(err, &invalidState):
		c.JSON(http.StatusConflict, gin.H{
			"error":         err.Error(),
			"current_state": invalidState.Current,
		})
	case errors.As(err, &amountMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &alreadySettled):
		c.JSON(http.StatusConflict, gin.H{
			"error":         err.Error(),
			"escrow_status": string(alreadySettled.Status),
		})
	case errors.As(err, &alreadyDisputed):
		c.JSON(http.StatusConflict, gin.H{
			"error":      err.Error(),
			"dispute_id": alreadyDisputed.DisputeID,
		})
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrDisputeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrEscrowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotBuyer),
		errors.Is(err, domain.ErrNotSeller),
		errors.Is(err, domain.ErrNotParty),
		errors.Is(err, domain.ErrNotJuror),
		errors.Is(err, domain.ErrPartyCannotVote):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateVote),
		errors.Is(err, domain.ErrVotingClosed),
		errors.Is(err, domain.ErrVotingNotStarted),
		errors.Is(err, domain.ErrVotingNotExpired),
		errors.Is(err, domain.ErrSelectionLocked),
		errors.Is(err, domain.ErrStateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidVoteChoice):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &gatewayTimeout), errors.As(err, &gatewayFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &partialRelease):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
