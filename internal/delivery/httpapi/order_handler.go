package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	orderuc "github.com/tradeguard/settlement-service/internal/usecase/order"
)

type OrderHandler struct {
	orderUsecase orderuc.OrderUsecase
}

func NewOrderHandler(orderUsecase orderuc.OrderUsecase) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase}
}

type createOrderRequest struct {
	BuyerID   string  `json:"buyer_id" binding:"required"`
	SellerID  string  `json:"seller_id" binding:"required"`
	ListingID string  `json:"listing_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	Currency  string  `json:"currency" binding:"required"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderUsecase.CreateOrder(&orderuc.CreateOrderInput{
		BuyerID:   req.BuyerID,
		SellerID:  req.SellerID,
		ListingID: req.ListingID,
		Amount:    req.Amount,
		Currency:  req.Currency,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderUsecase.GetOrderByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type markPaidRequest struct {
	GatewayTxnID string  `json:"gateway_txn_id" binding:"required"`
	Amount       float64 `json:"amount" binding:"required"`
}

// MarkPaid is the payment gateway webhook. Retries are tolerated.
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orderUsecase.MarkPaid(c.Request.Context(), c.Param("id"), req.GatewayTxnID, req.Amount); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "PAID"})
}

type markShippedRequest struct {
	CallerID     string `json:"caller_id" binding:"required"`
	TrackingInfo string `json:"tracking_info"`
}

func (h *OrderHandler) MarkShipped(c *gin.Context) {
	var req markShippedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orderUsecase.MarkShipped(c.Param("id"), req.CallerID, req.TrackingInfo); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "SHIPPING"})
}

func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	if err := h.orderUsecase.MarkDelivered(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "DELIVERED"})
}

type confirmRequest struct {
	CallerID string `json:"caller_id" binding:"required"`
}

func (h *OrderHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orderUsecase.ConfirmByBuyer(c.Request.Context(), c.Param("id"), req.CallerID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "CONFIRMED"})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	if err := h.orderUsecase.CancelOrder(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "CANCELLED"})
}

type openDisputeRequest struct {
	InitiatorID string `json:"initiator_id" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

func (h *OrderHandler) OpenDispute(c *gin.Context) {
	var req openDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dispute, err := h.orderUsecase.OpenDispute(c.Param("id"), req.InitiatorID, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dispute)
}
