package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"timberbid/internal/engine"
	"timberbid/internal/service"
)

type BidHandler struct {
	Service *service.BidService
	Logger  *zap.Logger
}

func (h *BidHandler) Register(r *gin.Engine) {
	r.POST("/api/v1/auctions/:id/bids", h.placeBid)
}

type placeBidRequest struct {
	AmountPerM3   decimal.Decimal `json:"amountPerM3" binding:"required"`
	MaxProxyPerM3 decimal.Decimal `json:"maxProxyPerM3" binding:"required"`
}

type placeBidResponse struct {
	Auction  any  `json:"auction"`
	Bid      any  `json:"bid"`
	Extended bool `json:"extended"`
}

func (h *BidHandler) placeBid(c *gin.Context) {
	bidder := callerID(c)
	if bidder == "" {
		Error(c, http.StatusUnauthorized, "missing caller identity", nil)
		return
	}
	var req placeBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.Service.PlaceBid(c.Request.Context(), c.Param("id"), engine.BidRequest{
		BidderID:      bidder,
		AmountPerM3:   req.AmountPerM3,
		MaxProxyPerM3: req.MaxProxyPerM3,
	})
	if err != nil {
		var rej *engine.Rejection
		switch {
		case errors.As(err, &rej):
			// Engine rejections are recoverable and user-displayable.
			Error(c, http.StatusUnprocessableEntity, rej.Reason, map[string]any{"code": string(rej.Code)})
		case errors.Is(err, service.ErrAuctionNotFound):
			Error(c, http.StatusNotFound, err.Error(), nil)
		default:
			if h.Logger != nil {
				h.Logger.Warn("bid placement failed", zap.String("auction_id", c.Param("id")), zap.Error(err))
			}
			Error(c, http.StatusInternalServerError, "bid placement failed", nil)
		}
		return
	}
	Ok(c, placeBidResponse{Auction: result.Auction, Bid: result.Bid, Extended: result.Extended}, nil)
}
