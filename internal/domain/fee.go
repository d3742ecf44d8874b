package domain

import "math"

// FeePolicy holds the commission rates by seller verification tier.
// The fee applies only to the seller's portion of a settlement, never to
// the part refunded to the buyer.
type FeePolicy struct {
	BusinessRate float64
	StandardRate float64
}

func DefaultFeePolicy() FeePolicy {
	return FeePolicy{BusinessRate: 0.03, StandardRate: 0.05}
}

func (p FeePolicy) RateFor(seller *User) float64 {
	if seller != nil && seller.BusinessVerified {
		return p.BusinessRate
	}
	return p.StandardRate
}

// SellerPayout computes the seller leg of a settlement.
func SellerPayout(capturedAmount, buyerRefundRate, feeRate float64) float64 {
	return RoundMoney(capturedAmount * (1 - buyerRefundRate) * (1 - feeRate))
}

// BuyerRefund computes the buyer leg of a settlement, fee-free.
func BuyerRefund(capturedAmount, buyerRefundRate float64) float64 {
	return RoundMoney(capturedAmount * buyerRefundRate)
}

// RoundMoney rounds to two decimal places at settlement boundaries.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
