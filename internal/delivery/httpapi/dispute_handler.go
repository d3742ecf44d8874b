package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tradeguard/settlement-service/internal/domain"
	disputeuc "github.com/tradeguard/settlement-service/internal/usecase/dispute"
)

type DisputeHandler struct {
	disputeUsecase disputeuc.DisputeUsecase
}

func NewDisputeHandler(disputeUsecase disputeuc.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{disputeUsecase: disputeUsecase}
}

func (h *DisputeHandler) Get(c *gin.Context) {
	dispute, err := h.disputeUsecase.GetDisputeByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dispute)
}

func (h *DisputeHandler) GetByOrder(c *gin.Context) {
	dispute, err := h.disputeUsecase.GetDisputeByOrderID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dispute)
}

func (h *DisputeHandler) StartVoting(c *gin.Context) {
	if err := h.disputeUsecase.StartVoting(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "VOTING"})
}

type castVoteRequest struct {
	JurorID string `json:"juror_id" binding:"required"`
	Choice  string `json:"choice" binding:"required"`
	Comment string `json:"comment"`
}

func (h *DisputeHandler) CastVote(c *gin.Context) {
	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.disputeUsecase.CastVote(c.Param("id"), req.JurorID, domain.VoteChoice(req.Choice), req.Comment); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}

func (h *DisputeHandler) ListVotes(c *gin.Context) {
	votes, err := h.disputeUsecase.Votes(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, votes)
}

func (h *DisputeHandler) Tally(c *gin.Context) {
	tally, err := h.disputeUsecase.Tally(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"for_buyer":  tally.ForBuyer,
		"for_seller": tally.ForSeller,
	})
}

// Resolve is the administrator's forced resolution before the deadline.
func (h *DisputeHandler) Resolve(c *gin.Context) {
	if err := h.disputeUsecase.Resolve(c.Request.Context(), c.Param("id"), true); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "RESOLVED"})
}

// Resettle retries the money legs of a resolved dispute whose original
// settlement failed, leaving the escrow held.
func (h *DisputeHandler) Resettle(c *gin.Context) {
	if err := h.disputeUsecase.Resettle(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "SETTLED"})
}
